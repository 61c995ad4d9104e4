// Package suite defines the built-in benchmarks and runs them through the
// parallel coordinator, recording results in the result store and run history.
package suite

import (
	"context"
	"time"

	"github.com/jamesainslie/hwbench/pkg/hwbench/parallel"
	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

// DefaultDuration is the time box of time-boxed benchmarks.
const DefaultDuration = 7 * time.Second

// Env is what a benchmark needs from the runner.
type Env struct {
	// Coordinator dispatches the benchmark's workload.
	Coordinator *parallel.Coordinator

	// Duration is the time box for time-boxed benchmarks.
	Duration time.Duration

	// Threads overrides each benchmark's default thread hint when non-zero.
	Threads int

	// ScratchDir holds temporary files for storage benchmarks.
	ScratchDir string

	// StorageSize is the size in bytes of the storage benchmark file.
	StorageSize int64
}

// hint returns the thread hint for b in this environment.
func (e Env) hint(b *Benchmark) int {
	if e.Threads != 0 {
		return e.Threads
	}
	return b.Hint
}

// Benchmark is one named benchmark.
type Benchmark struct {
	// Name is the unique benchmark name, also the dataset key.
	Name string

	// Group is the hardware group the benchmark exercises, e.g. "CPU".
	Group string

	// Revision is bumped whenever results stop being comparable to older ones.
	Revision int

	// Descending is true when a higher result is better.
	Descending bool

	// Hint is the default thread-count hint.
	Hint int

	// Unit describes the result, e.g. "MiB/s" or "seconds".
	Unit string

	run func(ctx context.Context, env Env, b *Benchmark) (types.Value, error)
}

// Run executes b once and stamps the result with b's revision.
func (b *Benchmark) Run(ctx context.Context, env Env) (types.Value, error) {
	if env.Duration <= 0 {
		env.Duration = DefaultDuration
	}
	v, err := b.run(ctx, env, b)
	if err != nil {
		return types.Failed(), err
	}
	v.Revision = b.Revision
	return v, nil
}

// timeBoxed builds the run function of a benchmark that counts tick completions.
func timeBoxed(newTick func() parallel.TickFunc) func(context.Context, Env, *Benchmark) (types.Value, error) {
	return func(ctx context.Context, env Env, b *Benchmark) (types.Value, error) {
		return env.Coordinator.CrunchFor(ctx, env.Duration, env.hint(b), newTick())
	}
}
