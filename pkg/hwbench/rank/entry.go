// Package rank merges this machine's measurement with results recorded on other
// machines, orders them and selects a bounded window for display.
package rank

import (
	"strings"

	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

// Category selects which machine attribute labels a leaderboard row.
type Category int

const (
	CategoryCPU Category = iota
	CategoryGPU
	CategoryStorage
)

// CategoryOf infers the category from a benchmark name.
func CategoryOf(benchmark string) Category {
	switch {
	case strings.Contains(benchmark, "GPU"):
		return CategoryGPU
	case strings.Contains(benchmark, "Storage"):
		return CategoryStorage
	default:
		return CategoryCPU
	}
}

// String returns the column title used for the category's label.
func (c Category) String() string {
	switch c {
	case CategoryGPU:
		return "GPU"
	case CategoryStorage:
		return "Storage"
	default:
		return "CPU"
	}
}

// MarshalText encodes the category by its title.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// HasConfig reports whether rows of this category carry a configuration column.
func (c Category) HasConfig() bool {
	return c == CategoryCPU
}

// Machine identifies the host a result was measured on.
type Machine struct {
	ID          string `json:"MachineId"`
	Board       string `json:"Board,omitempty"`
	CPUName     string `json:"CpuName,omitempty"`
	CPUDesc     string `json:"CpuDesc,omitempty"`
	CPUConfig   string `json:"CpuConfig,omitempty"`
	GPUName     string `json:"GPU,omitempty"`
	GPUDesc     string `json:"GpuDesc,omitempty"`
	Storage     string `json:"Storage,omitempty"`
	MemoryKiB   uint64 `json:"MemoryInKiB,omitempty"`
	PhysicalMiB uint64 `json:"PhysicalMemoryInMiB,omitempty"`
	MemoryTypes string `json:"MemoryTypes,omitempty"`
	Packages    int    `json:"NumCpus,omitempty"`
	Cores       int    `json:"NumCores,omitempty"`
	Nodes       int    `json:"NumNodes,omitempty"`
	Threads     int    `json:"NumThreads,omitempty"`
	PointerBits int    `json:"PointerBits,omitempty"`
	SuperUser   bool   `json:"DataFromSuperUser,omitempty"`
	DataVersion int    `json:"MachineDataVersion,omitempty"`
	Type        string `json:"MachineType,omitempty"`
	Kernel      string `json:"LinuxKernel,omitempty"`
	OS          string `json:"LinuxOS,omitempty"`
	PowerState  string `json:"PowerState,omitempty"`
	UserNote    string `json:"UserNote,omitempty"`
}

// Name returns the attribute that labels this machine in a category.
func (m Machine) Name(c Category) string {
	switch c {
	case CategoryGPU:
		return m.GPUName
	case CategoryStorage:
		return m.Storage
	default:
		return m.CPUName
	}
}

// Entry is one machine's measurement for a benchmark.
type Entry struct {
	Machine     Machine
	Value       types.Value
	Legacy      bool
	ThisMachine bool
}
