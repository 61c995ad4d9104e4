package suite

import (
	"context"
	"time"

	"github.com/jamesainslie/hwbench/pkg/hwbench/history"
	"github.com/jamesainslie/hwbench/pkg/hwbench/logging"
	"github.com/jamesainslie/hwbench/pkg/hwbench/metrics"
	"github.com/jamesainslie/hwbench/pkg/hwbench/parallel"
	"github.com/jamesainslie/hwbench/pkg/hwbench/results"
	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

var logger = logging.Get("suite")

// RunnerOptions configures a Runner. Only Env.Coordinator is required.
type RunnerOptions struct {
	Env Env

	// Store receives every successful result.
	Store *results.Store

	// History records one run per Run call.
	History *history.Log

	// Metrics receives per-benchmark observations.
	Metrics *metrics.Metrics

	// MachineID and CPU describe the host in history records.
	MachineID string
	CPU       string

	// Priority is the nice value to run at. Values >= 0 leave the
	// priority unchanged; raising it usually requires privileges.
	Priority int

	// OnStart is called before benchmark i of n starts.
	OnStart func(b *Benchmark, i, n int)

	// OnResult is called after each benchmark finishes.
	OnResult func(b *Benchmark, v types.Value, err error)
}

// Runner runs benchmarks one after another.
type Runner struct {
	opts RunnerOptions
}

// NewRunner creates a Runner. A nil coordinator uses the detected host.
func NewRunner(opts RunnerOptions) *Runner {
	if opts.Env.Coordinator == nil {
		o := parallel.DefaultOptions()
		o.Metrics = opts.Metrics
		opts.Env.Coordinator = parallel.New(o)
	}
	return &Runner{opts: opts}
}

// Run executes benchmarks in order and returns the run record. A failing
// benchmark is recorded and the run continues. Cancelling ctx stops after the
// current benchmark; the partial run is still recorded and ctx.Err() returned.
func (r *Runner) Run(ctx context.Context, benchmarks []*Benchmark) (*history.Run, error) {
	restore := r.raise()
	defer restore()

	run := &history.Run{
		MachineID: r.opts.MachineID,
		CPU:       r.opts.CPU,
	}
	began := time.Now()

	for i, b := range benchmarks {
		if ctx.Err() != nil {
			break
		}
		if r.opts.OnStart != nil {
			r.opts.OnStart(b, i, len(benchmarks))
		}

		v, err := r.runOne(ctx, b)
		res := history.Result{Benchmark: b.Name, Value: v}
		if err != nil {
			res.Error = err.Error()
		}
		run.Results = append(run.Results, res)

		if r.opts.OnResult != nil {
			r.opts.OnResult(b, v, err)
		}
	}
	run.Duration = time.Since(began)

	if r.opts.History != nil && len(run.Results) > 0 {
		if err := r.opts.History.Append(run); err != nil {
			logger.Warn("failed to record run", "error", err)
		}
	}

	logger.Info("run finished", "benchmarks", len(run.Results), "failed", run.Failed(), "duration", run.Duration)
	return run, ctx.Err()
}

func (r *Runner) runOne(ctx context.Context, b *Benchmark) (types.Value, error) {
	env := r.opts.Env
	env.Coordinator = env.Coordinator.Named(b.Name)

	logger.Info("benchmark starting", "benchmark", b.Name, "threads", env.Coordinator.Threads(env.hint(b)))
	v, err := b.Run(ctx, env)
	r.opts.Metrics.ObserveBenchmark(b.Name, v)
	if err != nil {
		logger.Warn("benchmark failed", "benchmark", b.Name, "error", err)
		return types.Failed(), err
	}

	if r.opts.Store != nil {
		if err := r.opts.Store.Set(b.Name, v); err != nil {
			logger.Warn("failed to store result", "benchmark", b.Name, "error", err)
		}
	}
	logger.Info("benchmark finished", "benchmark", b.Name, "result", v.Result, "elapsed", v.Elapsed())
	return v, nil
}

func (r *Runner) raise() func() {
	if r.opts.Priority >= 0 {
		return func() {}
	}
	restore, err := raisePriority(r.opts.Priority)
	if err != nil {
		logger.Debug("running at default priority", "error", err)
	}
	return restore
}
