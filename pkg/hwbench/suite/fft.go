package suite

import (
	"context"
	"math"
	"math/bits"
	"math/cmplx"

	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

const (
	fftSize       = 4096
	fftTransforms = 512
)

// FFT times a fixed batch of radix-2 transforms. Lower is better.
func FFT() *Benchmark {
	return fftBenchmark(fftTransforms)
}

func fftBenchmark(transforms int) *Benchmark {
	return &Benchmark{
		Name:     "FPU FFT",
		Group:    "FPU",
		Revision: 1,
		Unit:     "seconds",
		run: func(ctx context.Context, env Env, b *Benchmark) (types.Value, error) {
			v, err := env.Coordinator.ParallelFor(ctx, env.hint(b), 0, transforms, fftRange)
			if err != nil {
				return v, err
			}
			v.Result = v.ElapsedTime
			return v, nil
		},
	}
}

func fftRange(start, end, _ int) (float64, bool) {
	buf := make([]complex128, fftSize)
	var acc float64
	for i := start; i <= end; i++ {
		for k := range buf {
			s, c := math.Sincos(2 * math.Pi * float64(k*(i+1)) / fftSize)
			buf[k] = complex(c, s)
		}
		fft(buf)
		acc += cmplx.Abs(buf[0])
	}
	sink.Store(math.Float64bits(acc))
	return 0, false
}

// fft transforms x in place. len(x) must be a power of two.
func fft(x []complex128) {
	n := len(x)
	if n <= 1 {
		return
	}
	shift := 64 - uint(bits.Len(uint(n))-1)
	for i := range n {
		j := int(bits.Reverse64(uint64(i)) >> shift)
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}
	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		step := cmplx.Exp(complex(0, -2*math.Pi/float64(size)))
		for start := 0; start < n; start += size {
			w := complex(1, 0)
			for k := range half {
				a, b := x[start+k], w*x[start+k+half]
				x[start+k], x[start+k+half] = a+b, a-b
				w *= step
			}
		}
	}
}
