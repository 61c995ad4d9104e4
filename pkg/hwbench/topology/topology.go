// Package topology reports the processor and memory layout of the running host.
// The parallel coordinator uses it to turn a thread-count hint into a concrete
// number of workers.
package topology

import (
	"fmt"
	"runtime"
	"sync"
)

// Resources describes the detected host layout.
type Resources struct {
	// Packages is the number of physical processor packages (sockets).
	Packages int

	// Cores is the number of physical cores across all packages.
	Cores int

	// Threads is the number of logical processors.
	Threads int

	// Nodes is the number of NUMA nodes.
	Nodes int

	// TotalRAM is the total physical RAM in bytes.
	TotalRAM uint64

	// AvailableRAM is the RAM currently available to new processes in bytes.
	AvailableRAM uint64

	// CPUModel is the processor model name, if known.
	CPUModel string

	// MHz is the nominal clock of one logical processor, if known.
	MHz float64
}

// Resolve turns a thread-count hint into a worker count.
// A positive hint is used as is, a negative hint selects the physical core
// count and zero selects the logical thread count. The result of a
// non-positive hint is never below one.
func (r Resources) Resolve(hint int) int {
	switch {
	case hint > 0:
		return hint
	case hint < 0:
		return max(r.Cores, 1)
	default:
		return max(r.Threads, 1)
	}
}

// Description summarizes the processor layout, e.g. "1 physical processor; 4 cores; 8 threads".
func (r Resources) Description() string {
	unit := "processor"
	if r.Packages != 1 {
		unit = "processors"
	}
	return fmt.Sprintf("%d physical %s; %d cores; %d threads", r.Packages, unit, r.Cores, r.Threads)
}

// Config summarizes the logical processor configuration, e.g. "8x 3600.00 MHz".
func (r Resources) Config() string {
	if r.MHz <= 0 {
		return fmt.Sprintf("%dx", r.Threads)
	}
	return fmt.Sprintf("%dx %.2f MHz", r.Threads, r.MHz)
}

// normalize fills zero fields with safe fallbacks.
func (r Resources) normalize() Resources {
	if r.Threads <= 0 {
		r.Threads = runtime.NumCPU()
	}
	if r.Cores <= 0 {
		r.Cores = r.Threads
	}
	if r.Packages <= 0 {
		r.Packages = 1
	}
	if r.Nodes <= 0 {
		r.Nodes = 1
	}
	if r.AvailableRAM == 0 || r.AvailableRAM > r.TotalRAM {
		r.AvailableRAM = r.TotalRAM / 2
	}
	return r
}

// Provider supplies host topology to consumers that must not detect it themselves.
type Provider interface {
	Resources() Resources
}

// Static is a Provider returning fixed resources.
type Static Resources

// Resources implements Provider.
func (s Static) Resources() Resources {
	return Resources(s).normalize()
}

type host struct {
	once sync.Once
	res  Resources
	err  error
}

func (h *host) Resources() Resources {
	h.once.Do(func() {
		h.res, h.err = Detect()
	})
	return h.res
}

var defaultHost = &host{}

// Host returns a Provider that detects the running host once and caches the result.
// Detection errors are absorbed; partially detected fields fall back to
// runtime.NumCPU and a single package and node.
func Host() Provider {
	return defaultHost
}

// HostErr returns the error, if any, recorded by the cached Host detection.
func HostErr() error {
	defaultHost.Resources()
	return defaultHost.err
}
