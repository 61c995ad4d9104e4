package suite

import (
	"bytes"
	"fmt"
	"io"
	"math/rand/v2"
	"sync/atomic"

	"github.com/klauspost/compress/zlib"

	"github.com/jamesainslie/hwbench/pkg/hwbench/parallel"
)

const (
	fibonacciN = 25
	queensN    = 9
	queensWant = 352
	zlibSize   = 64 << 10
)

// sink keeps kernel results observable so the work is not optimized away.
var sink atomic.Uint64

// Fibonacci counts naive recursive Fibonacci evaluations per time box.
func Fibonacci() *Benchmark {
	return &Benchmark{
		Name:       "CPU Fibonacci",
		Group:      "CPU",
		Revision:   1,
		Descending: true,
		Unit:       "iterations",
		run: timeBoxed(func() parallel.TickFunc {
			return func(int) {
				sink.Store(fib(fibonacciN))
			}
		}),
	}
}

func fib(n int) uint64 {
	if n < 2 {
		return uint64(n)
	}
	return fib(n-1) + fib(n-2)
}

// NQueens counts complete N-Queens solves per time box.
func NQueens() *Benchmark {
	return &Benchmark{
		Name:       "CPU N-Queens",
		Group:      "CPU",
		Revision:   1,
		Descending: true,
		Unit:       "iterations",
		run: timeBoxed(func() parallel.TickFunc {
			return func(int) {
				if got := queens(queensN); got != queensWant {
					panic(fmt.Sprintf("%d-queens: got %d solutions, want %d", queensN, got, queensWant))
				}
			}
		}),
	}
}

// queens returns the number of ways to place n non-attacking queens.
func queens(n int) int {
	all := uint(1)<<n - 1
	var place func(cols, d1, d2 uint) int
	place = func(cols, d1, d2 uint) int {
		if cols == all {
			return 1
		}
		count := 0
		free := all &^ (cols | d1 | d2)
		for free != 0 {
			bit := free & -free
			free ^= bit
			count += place(cols|bit, (d1|bit)<<1&all, (d2|bit)>>1)
		}
		return count
	}
	return place(0, 0, 0)
}

type zlibData struct {
	input []byte
}

// Zlib counts compress/decompress round trips of a fixed buffer per time box.
func Zlib() *Benchmark {
	return &Benchmark{
		Name:       "CPU Zlib",
		Group:      "CPU",
		Revision:   1,
		Descending: true,
		Unit:       "iterations",
		run: timeBoxed(func() parallel.TickFunc {
			data := &zlibData{input: corpus(zlibSize, 1)}
			return parallel.BindTick(data, func(d *zlibData, _ int) {
				if err := zlibRoundTrip(d.input); err != nil {
					panic(err)
				}
			})
		}),
	}
}

func zlibRoundTrip(input []byte) error {
	var compressed bytes.Buffer
	w, err := zlib.NewWriterLevel(&compressed, zlib.DefaultCompression)
	if err != nil {
		return err
	}
	if _, err := w.Write(input); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	r, err := zlib.NewReader(&compressed)
	if err != nil {
		return err
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if !bytes.Equal(out, input) {
		return fmt.Errorf("zlib round trip mismatch: %d bytes in, %d out", len(input), len(out))
	}
	return nil
}

// corpus returns n bytes of compressible pseudo-random text.
func corpus(n int, seed uint64) []byte {
	words := []string{
		"cache ", "core ", "thread ", "memory ", "bench ", "fpu ", "zlib ",
		"queens ", "hash ", "disk ", "node ", "ring ", "vector ", "\n",
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	buf := make([]byte, 0, n+16)
	for len(buf) < n {
		buf = append(buf, words[rng.IntN(len(words))]...)
	}
	return buf[:n]
}
