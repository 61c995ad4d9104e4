//go:build darwin

package topology

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Detect detects the processor and memory layout.
// On darwin it reads the hw.* and machdep.cpu.* sysctl values.
func Detect() (Resources, error) {
	var res Resources

	res.Packages = sysctlInt("hw.packages")
	res.Cores = sysctlInt("hw.physicalcpu")
	res.Threads = sysctlInt("hw.logicalcpu")
	res.Nodes = 1

	if brand, err := unix.Sysctl("machdep.cpu.brand_string"); err == nil {
		res.CPUModel = brand
	}
	if hz, err := unix.SysctlUint64("hw.cpufrequency"); err == nil {
		res.MHz = float64(hz) / 1e6
	}

	memsize, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return res.normalize(), fmt.Errorf("sysctl hw.memsize: %w", err)
	}
	res.TotalRAM = memsize

	// Precise free memory needs host_statistics; half of total is close enough
	// for sizing benchmark buffers.
	res.AvailableRAM = memsize / 2

	return res.normalize(), nil
}

func sysctlInt(name string) int {
	v, err := unix.SysctlUint32(name)
	if err != nil {
		return 0
	}
	return int(v)
}
