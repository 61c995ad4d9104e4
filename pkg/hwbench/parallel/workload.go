package parallel

import (
	"fmt"
	"time"
)

// Kind selects how a workload is dispatched to workers.
type Kind int

const (
	// TimeBoxed repeats a tick until the time box expires and counts completions.
	TimeBoxed Kind = iota

	// RangeBased invokes a range function once per partition of an index range.
	RangeBased
)

// String returns the metric label for k.
func (k Kind) String() string {
	switch k {
	case TimeBoxed:
		return "time_boxed"
	case RangeBased:
		return "range"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// TickFunc performs one unit of time-boxed work on the given worker.
// It must be safe to call concurrently from every worker.
type TickFunc func(thread int)

// RangeFunc processes the inclusive index range [start, end] on the given worker.
// It returns a partial result and true, or false when it has nothing to add.
type RangeFunc func(start, end, thread int) (float64, bool)

// BindTick adapts a tick that takes shared workload data. The same data pointer
// is passed to every invocation on every worker.
func BindTick[D any](data *D, fn func(data *D, thread int)) TickFunc {
	return func(thread int) {
		fn(data, thread)
	}
}

// BindRange adapts a range function that takes shared workload data.
func BindRange[D any](data *D, fn func(start, end int, data *D, thread int) (float64, bool)) RangeFunc {
	return func(start, end, thread int) (float64, bool) {
		return fn(start, end, data, thread)
	}
}

// Workload describes one coordinator invocation selected at the call site.
type Workload struct {
	Kind Kind

	// Hint is the thread-count hint: >0 exact, <0 physical cores, 0 logical threads.
	Hint int

	// Duration is the time box for TimeBoxed workloads.
	Duration time.Duration

	// Start and End bound the half-open index range for RangeBased workloads.
	Start, End int

	Tick  TickFunc
	Range RangeFunc
}

// TimeBoxedWorkload builds a workload that runs fn on every worker for d.
func TimeBoxedWorkload(d time.Duration, hint int, fn TickFunc) Workload {
	return Workload{Kind: TimeBoxed, Hint: hint, Duration: d, Tick: fn}
}

// RangeWorkload builds a workload that splits [start, end) across workers.
func RangeWorkload(hint, start, end int, fn RangeFunc) Workload {
	return Workload{Kind: RangeBased, Hint: hint, Start: start, End: end, Range: fn}
}
