package suite

import (
	"context"
	"crypto/sha256"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"

	"github.com/jamesainslie/hwbench/pkg/hwbench/parallel"
	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

const (
	hashBlockSize = 64 << 10
	mib           = 1 << 20
)

type hashData struct {
	block []byte
	sum   func([]byte) uint64
}

// CryptoHash measures SHA-256 throughput in MiB/s.
func CryptoHash() *Benchmark {
	return hashBenchmark("CPU CryptoHash", 2048, sha256Sum)
}

func sha256Sum(b []byte) uint64 {
	s := sha256.Sum256(b)
	return uint64(s[0]) | uint64(s[31])<<8
}

// XXHash measures xxHash64 throughput in MiB/s.
func XXHash() *Benchmark {
	return hashBenchmark("CPU xxHash", 16384, xxhash.Sum64)
}

func hashBenchmark(name string, blocks int, sum func([]byte) uint64) *Benchmark {
	return &Benchmark{
		Name:       name,
		Group:      "CPU",
		Revision:   1,
		Descending: true,
		Unit:       "MiB/s",
		run: func(ctx context.Context, env Env, b *Benchmark) (types.Value, error) {
			data := &hashData{block: randomBlock(hashBlockSize), sum: sum}
			v, err := env.Coordinator.ParallelFor(ctx, env.hint(b), 0, blocks, parallel.BindRange(data, hashRange))
			if err != nil {
				return v, err
			}
			return throughput(v), nil
		},
	}
}

// hashRange hashes one block per index in [start, end] and returns the bytes hashed.
func hashRange(start, end int, d *hashData, _ int) (float64, bool) {
	var acc uint64
	for i := start; i <= end; i++ {
		acc ^= d.sum(d.block)
	}
	sink.Store(acc)
	return float64((end - start + 1) * len(d.block)), true
}

// throughput turns a byte total into MiB per second of elapsed time.
func throughput(v types.Value) types.Value {
	if v.ElapsedTime <= 0 {
		v.Result = 0
		return v
	}
	v.Result = v.Result / mib / v.ElapsedTime
	return v
}

func randomBlock(n int) []byte {
	rng := rand.New(rand.NewPCG(uint64(n), 42))
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(rng.Uint32())
	}
	return b
}
