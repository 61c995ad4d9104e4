package dataset

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/host"

	"github.com/jamesainslie/hwbench/pkg/hwbench/rank"
	"github.com/jamesainslie/hwbench/pkg/hwbench/topology"
)

// MachineDataVersion is the version of the machine record layout produced here.
const MachineDataVersion = 2

var boardFiles = []string{
	"/sys/devices/virtual/dmi/id/board_vendor",
	"/sys/devices/virtual/dmi/id/board_name",
}

// ThisMachine describes the running host from its detected topology and
// gopsutil host information. Missing host details are left empty.
func ThisMachine(res topology.Resources) rank.Machine {
	m := rank.Machine{
		CPUName:     res.CPUModel,
		CPUDesc:     res.Description(),
		CPUConfig:   res.Config(),
		MemoryKiB:   res.TotalRAM / 1024,
		PhysicalMiB: res.TotalRAM / (1024 * 1024),
		Packages:    res.Packages,
		Cores:       res.Cores,
		Nodes:       res.Nodes,
		Threads:     res.Threads,
		PointerBits: strconv.IntSize,
		SuperUser:   os.Geteuid() == 0,
		DataVersion: MachineDataVersion,
		Board:       readBoard(),
	}

	var hostID string
	if info, err := host.Info(); err != nil {
		logger.Debug("host info unavailable", "error", err)
	} else {
		hostID = info.HostID
		m.Kernel = info.KernelVersion
		m.OS = strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
		m.Type = machineType(info.VirtualizationSystem, info.VirtualizationRole)
	}

	m.ID = MachineID(hostID, m)
	return m
}

// MachineID derives a stable identifier from the host id and hardware fields,
// so the same hardware maps to the same id across runs.
func MachineID(hostID string, m rank.Machine) string {
	key := fmt.Sprintf("%s|%s|%s|%d|%d|%d", hostID, m.Board, m.CPUName, m.Threads, m.Cores, m.MemoryKiB)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

func machineType(system, role string) string {
	if role == "guest" {
		if system == "" {
			return "Virtual Machine"
		}
		return "Virtual Machine (" + system + ")"
	}
	return "Physical"
}

func readBoard() string {
	var parts []string
	for _, path := range boardFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if s := strings.TrimSpace(string(data)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
