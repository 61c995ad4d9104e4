package suite

import (
	"context"
	"errors"
	"math"
	"math/cmplx"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/hwbench/pkg/hwbench/parallel"
	"github.com/jamesainslie/hwbench/pkg/hwbench/topology"
	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

func testEnv(t *testing.T) Env {
	t.Helper()
	return Env{
		Coordinator: parallel.New(parallel.Options{
			Topology: topology.Static{Packages: 1, Cores: 2, Threads: 2, Nodes: 1},
		}),
		Duration:    50 * time.Millisecond,
		ScratchDir:  t.TempDir(),
		StorageSize: 4 << 20,
	}
}

func TestKernels(t *testing.T) {
	assert.Equal(t, uint64(75025), fib(25))
	assert.Equal(t, 92, queens(8))
	assert.Equal(t, queensWant, queens(queensN))
	require.NoError(t, zlibRoundTrip(corpus(zlibSize, 1)))
}

func TestCorpusDeterministic(t *testing.T) {
	a := corpus(1000, 7)
	b := corpus(1000, 7)
	assert.Len(t, a, 1000)
	assert.Equal(t, a, b)
}

func TestFFT(t *testing.T) {
	t.Run("impulse", func(t *testing.T) {
		x := make([]complex128, 8)
		x[0] = 1
		fft(x)
		for _, c := range x {
			assert.InDelta(t, 1, real(c), 1e-9)
			assert.InDelta(t, 0, imag(c), 1e-9)
		}
	})

	t.Run("constant", func(t *testing.T) {
		x := []complex128{1, 1, 1, 1}
		fft(x)
		assert.InDelta(t, 4, cmplx.Abs(x[0]), 1e-9)
		for _, c := range x[1:] {
			assert.InDelta(t, 0, cmplx.Abs(c), 1e-9)
		}
	})

	t.Run("single frequency", func(t *testing.T) {
		const n = 16
		x := make([]complex128, n)
		for k := range x {
			s, c := math.Sincos(2 * math.Pi * 3 * float64(k) / n)
			x[k] = complex(c, s)
		}
		fft(x)
		for k, c := range x {
			want := 0.0
			if k == 3 {
				want = n
			}
			assert.InDelta(t, want, cmplx.Abs(c), 1e-9, "bin %d", k)
		}
	})
}

func TestTimeBoxedBenchmarks(t *testing.T) {
	for _, b := range []*Benchmark{Fibonacci(), NQueens(), Zlib()} {
		t.Run(b.Name, func(t *testing.T) {
			v, err := b.Run(context.Background(), testEnv(t))
			require.NoError(t, err)
			assert.Greater(t, v.Result, 0.0)
			assert.Equal(t, 2, v.ThreadsUsed)
			assert.Equal(t, b.Revision, v.Revision)
			assert.True(t, b.Descending)
		})
	}
}

func TestHashBenchmarks(t *testing.T) {
	for _, b := range []*Benchmark{
		hashBenchmark("sha", 16, sha256Sum),
		XXHash(),
	} {
		t.Run(b.Name, func(t *testing.T) {
			v, err := b.Run(context.Background(), testEnv(t))
			require.NoError(t, err)
			assert.Greater(t, v.Result, 0.0)
			assert.Greater(t, v.ElapsedTime, 0.0)
			assert.Equal(t, "MiB/s", b.Unit)
		})
	}
}

func TestFFTBenchmark(t *testing.T) {
	b := fftBenchmark(8)
	v, err := b.Run(context.Background(), testEnv(t))
	require.NoError(t, err)
	assert.False(t, b.Descending)
	assert.Equal(t, v.ElapsedTime, v.Result)
	assert.Greater(t, v.Result, 0.0)
}

func TestStorageRead(t *testing.T) {
	env := testEnv(t)
	v, err := StorageRead().Run(context.Background(), env)
	require.NoError(t, err)
	assert.Greater(t, v.Result, 0.0)
	assert.Equal(t, 2, v.ThreadsUsed)

	left, err := filepath.Glob(filepath.Join(env.ScratchDir, "*"))
	require.NoError(t, err)
	assert.Empty(t, left, "scratch file should be removed")
}

func TestStorageReadBadScratchDir(t *testing.T) {
	env := testEnv(t)
	env.ScratchDir = filepath.Join(env.ScratchDir, "missing")
	v, err := StorageRead().Run(context.Background(), env)
	require.Error(t, err)
	assert.False(t, v.Valid())
}

func TestWriteScratchPartialBlock(t *testing.T) {
	path, err := writeScratch(t.TempDir(), storageBlock+10)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(storageBlock+10), info.Size())
}

func TestEnvThreadsOverride(t *testing.T) {
	env := testEnv(t)
	env.Threads = 1
	v, err := Fibonacci().Run(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, 1, v.ThreadsUsed)
}

func TestBenchmarkRunFailure(t *testing.T) {
	boom := errors.New("boom")
	b := &Benchmark{
		Name:     "Broken",
		Revision: 3,
		run: func(context.Context, Env, *Benchmark) (types.Value, error) {
			return types.Value{Result: 5}, boom
		},
	}
	v, err := b.Run(context.Background(), testEnv(t))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, types.Failed(), v)
}

func TestThroughput(t *testing.T) {
	v := throughput(types.Value{Result: 4 * mib, ElapsedTime: 2})
	assert.InDelta(t, 2, v.Result, 1e-9)

	v = throughput(types.Value{Result: 4 * mib})
	assert.Zero(t, v.Result)
}

func BenchmarkZlibRoundTrip(b *testing.B) {
	input := corpus(zlibSize, 1)
	b.SetBytes(int64(len(input)))
	for b.Loop() {
		if err := zlibRoundTrip(input); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFFT(b *testing.B) {
	x := make([]complex128, 1024)
	for b.Loop() {
		for i := range x {
			x[i] = complex(float64(i%7), 0)
		}
		fft(x)
	}
}

func BenchmarkHashes(b *testing.B) {
	block := randomBlock(64 << 10)
	for _, bench := range []struct {
		name string
		sum  func([]byte) uint64
	}{
		{"sha256", sha256Sum},
		{"xxhash", xxhash.Sum64},
	} {
		b.Run(bench.name, func(b *testing.B) {
			b.SetBytes(int64(len(block)))
			for b.Loop() {
				bench.sum(block)
			}
		})
	}
}
