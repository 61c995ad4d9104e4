//go:build !darwin

package topology

import (
	"errors"
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Detect detects the processor and memory layout using gopsutil.
// Every field that can be read is filled in even when another query fails;
// the returned error joins all failures.
func Detect() (Resources, error) {
	var (
		res  Resources
		errs []error
	)

	if n, err := cpu.Counts(true); err != nil {
		errs = append(errs, fmt.Errorf("logical cpu count: %w", err))
	} else {
		res.Threads = n
	}

	if n, err := cpu.Counts(false); err != nil {
		errs = append(errs, fmt.Errorf("physical cpu count: %w", err))
	} else {
		res.Cores = n
	}

	if infos, err := cpu.Info(); err != nil {
		errs = append(errs, fmt.Errorf("cpu info: %w", err))
	} else {
		res.Packages = countPackages(infos)
		if len(infos) > 0 {
			res.CPUModel = infos[0].ModelName
			res.MHz = infos[0].Mhz
		}
	}

	if vm, err := mem.VirtualMemory(); err != nil {
		errs = append(errs, fmt.Errorf("virtual memory: %w", err))
	} else {
		res.TotalRAM = vm.Total
		res.AvailableRAM = vm.Available
	}

	res.Nodes = numaNodes()

	return res.normalize(), errors.Join(errs...)
}

// countPackages counts distinct physical package ids.
func countPackages(infos []cpu.InfoStat) int {
	seen := make(map[string]struct{}, len(infos))
	for _, info := range infos {
		if info.PhysicalID == "" {
			continue
		}
		seen[info.PhysicalID] = struct{}{}
	}
	return len(seen)
}
