// Package parallel runs benchmark workloads across a set of worker goroutines
// and folds their partial results into one measurement.
//
// Two dispatch modes exist. A time-boxed workload is repeated on every worker
// until the coordinator raises a stop token, and the completed iterations are
// counted. A range workload splits an index range into contiguous partitions,
// invokes a range function once per partition and sums the returned values.
//
// Workers are started fresh for every call and joined before it returns.
package parallel

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/hwbench/pkg/hwbench/logging"
	"github.com/jamesainslie/hwbench/pkg/hwbench/metrics"
	"github.com/jamesainslie/hwbench/pkg/hwbench/topology"
	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

var logger = logging.Get("parallel")

// DefaultProgressInterval is how often OnProgress fires during a time box.
const DefaultProgressInterval = 100 * time.Millisecond

var (
	// ErrNoWorkload is returned when the workload function is nil.
	ErrNoWorkload = errors.New("no workload function")

	// ErrInvalidDuration is returned for a non-positive time box.
	ErrInvalidDuration = errors.New("time box must be positive")

	// ErrUnknownKind is returned by Run for an unrecognized workload kind.
	ErrUnknownKind = errors.New("unknown workload kind")
)

// WorkerError reports a worker that panicked. The measurement of the whole
// invocation is discarded when any worker fails.
type WorkerError struct {
	Thread int
	Value  any
	Stack  []byte
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker %d panicked: %v", e.Thread, e.Value)
}

// Options configures a Coordinator.
type Options struct {
	// Topology resolves thread-count hints. Nil uses the detected host.
	Topology topology.Provider

	// Metrics receives one observation per invocation. Nil disables metrics.
	Metrics *metrics.Metrics

	// OnProgress is called from the coordinator goroutine during time boxes.
	OnProgress func(types.RunProgress)

	// ProgressInterval throttles OnProgress. Zero uses DefaultProgressInterval.
	ProgressInterval time.Duration
}

// DefaultOptions returns options using the detected host topology.
func DefaultOptions() Options {
	return Options{
		Topology:         topology.Host(),
		ProgressInterval: DefaultProgressInterval,
	}
}

// Validate fills unset fields with defaults.
func (o *Options) Validate() error {
	if o.Topology == nil {
		o.Topology = topology.Host()
	}
	if o.ProgressInterval <= 0 {
		o.ProgressInterval = DefaultProgressInterval
	}
	return nil
}

// Coordinator dispatches workloads to workers. It holds no per-run state and
// may be shared, but each call blocks until its own workers are joined.
type Coordinator struct {
	opts  Options
	label string
}

// New creates a Coordinator.
func New(opts Options) *Coordinator {
	_ = opts.Validate()
	return &Coordinator{opts: opts}
}

// Named returns a copy of c whose progress reports carry the benchmark name.
func (c *Coordinator) Named(name string) *Coordinator {
	cp := *c
	cp.label = name
	return &cp
}

// Threads resolves a thread-count hint against the configured topology.
func (c *Coordinator) Threads(hint int) int {
	return c.opts.Topology.Resources().Resolve(hint)
}

// Run dispatches w according to its kind.
func (c *Coordinator) Run(ctx context.Context, w Workload) (types.Value, error) {
	switch w.Kind {
	case TimeBoxed:
		return c.CrunchFor(ctx, w.Duration, w.Hint, w.Tick)
	case RangeBased:
		return c.ParallelFor(ctx, w.Hint, w.Start, w.End, w.Range)
	default:
		return types.Failed(), fmt.Errorf("%w: %v", ErrUnknownKind, w.Kind)
	}
}

// CrunchFor runs fn repeatedly on every worker for d and returns the number of
// iterations that completed before the stop token was raised. An iteration
// still running when the token is raised is not counted.
//
// ElapsedTime covers launch through join. Cancelling ctx ends the time box
// early; the partial count is returned together with ctx.Err().
func (c *Coordinator) CrunchFor(ctx context.Context, d time.Duration, hint int, fn TickFunc) (types.Value, error) {
	if fn == nil {
		return types.Failed(), ErrNoWorkload
	}
	if d <= 0 {
		return types.Failed(), fmt.Errorf("%w: %v", ErrInvalidDuration, d)
	}

	threads := c.Threads(hint)
	counts := make([]atomic.Int64, threads)
	stop := &StopToken{}

	logger.Debug("time box starting", "benchmark", c.label, "threads", threads, "duration", d)

	g, gctx := errgroup.WithContext(ctx)
	start := time.Now()
	for i := range threads {
		g.Go(func() error {
			return c.dispatch(i, func() {
				for !stop.Stopped() {
					fn(i)
					if !stop.Stopped() {
						counts[i].Add(1)
					}
				}
			})
		})
	}

	c.wait(gctx, d, start, threads, counts)
	stop.Stop()

	err := g.Wait()
	elapsed := time.Since(start)
	if err != nil {
		logger.Error("time box failed", "benchmark", c.label, "error", err)
		return types.Failed(), err
	}

	v := types.Empty()
	v.ThreadsUsed = threads
	v.ElapsedTime = elapsed.Seconds()
	v.Result = float64(total(counts))
	c.opts.Metrics.ObserveRun(TimeBoxed.String(), v)

	logger.Debug("time box finished", "benchmark", c.label, "completions", v.Result, "elapsed", elapsed)
	return v, ctx.Err()
}

// wait sleeps for the time box, reporting progress, until d passes or ctx ends.
func (c *Coordinator) wait(ctx context.Context, d time.Duration, start time.Time, threads int, counts []atomic.Int64) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	var tick <-chan time.Time
	if c.opts.OnProgress != nil {
		ticker := time.NewTicker(c.opts.ProgressInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	report := func() {
		if c.opts.OnProgress == nil {
			return
		}
		c.opts.OnProgress(types.RunProgress{
			Benchmark:   c.label,
			Threads:     threads,
			Completions: total(counts),
			Elapsed:     time.Since(start),
			Budget:      d,
		})
	}

	report()
	for {
		select {
		case <-timer.C:
			report()
			return
		case <-ctx.Done():
			return
		case <-tick:
			report()
		}
	}
}

// ParallelFor splits [start, end) across the resolved workers and calls fn once
// per partition with an inclusive end index. Values returned with ok set are
// summed into Result; a partition returning !ok adds nothing.
//
// When there are fewer items than workers, the worker count is reduced until
// each partition holds at least one item. An empty range launches nothing and
// returns the empty value with ThreadsUsed zero.
//
// Partitions are not interrupted once started; ctx is only checked before launch.
func (c *Coordinator) ParallelFor(ctx context.Context, hint, start, end int, fn RangeFunc) (types.Value, error) {
	if fn == nil {
		return types.Failed(), ErrNoWorkload
	}
	if err := ctx.Err(); err != nil {
		return types.Failed(), err
	}

	parts, used := Plan(start, end, c.Threads(hint))
	v := types.Empty()
	v.ThreadsUsed = used
	if used == 0 {
		logger.Debug("range too small for any worker", "benchmark", c.label, "start", start, "end", end)
		return v, nil
	}

	logger.Debug("range starting", "benchmark", c.label, "threads", used, "start", start, "end", end)

	partial := make([]float64, used)
	present := make([]bool, used)

	var g errgroup.Group
	began := time.Now()
	for i, p := range parts {
		g.Go(func() error {
			return c.dispatch(i, func() {
				partial[i], present[i] = fn(p.Start, p.Last(), i)
			})
		})
	}
	err := g.Wait()
	elapsed := time.Since(began)
	if err != nil {
		logger.Error("range failed", "benchmark", c.label, "error", err)
		return types.Failed(), err
	}

	for i := range partial {
		if present[i] {
			v.Result += partial[i]
		}
	}
	v.ElapsedTime = elapsed.Seconds()
	c.opts.Metrics.ObserveRun(RangeBased.String(), v)

	logger.Debug("range finished", "benchmark", c.label, "result", v.Result, "elapsed", elapsed)
	return v, nil
}

// Parallel runs fn once per worker: hint 0 uses logical threads, a negative
// hint uses physical cores and a positive hint is literal. Each worker gets the
// single-index range [i, i].
func (c *Coordinator) Parallel(ctx context.Context, hint int, fn RangeFunc) (types.Value, error) {
	n := c.Threads(hint)
	return c.ParallelFor(ctx, n, 0, n, fn)
}

// dispatch runs work on the calling worker goroutine and turns a panic into
// a *WorkerError.
func (c *Coordinator) dispatch(thread int, work func()) (err error) {
	c.opts.Metrics.WorkerStarted()
	defer c.opts.Metrics.WorkerDone()

	defer func() {
		if r := recover(); r != nil {
			err = &WorkerError{Thread: thread, Value: r, Stack: debug.Stack()}
		}
	}()
	work()
	return nil
}

func total(counts []atomic.Int64) int64 {
	var sum int64
	for i := range counts {
		sum += counts[i].Load()
	}
	return sum
}
