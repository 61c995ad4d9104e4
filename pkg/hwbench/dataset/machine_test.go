package dataset

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jamesainslie/hwbench/pkg/hwbench/rank"
	"github.com/jamesainslie/hwbench/pkg/hwbench/topology"
)

func TestThisMachine(t *testing.T) {
	res := topology.Resources{
		Packages: 1, Cores: 4, Threads: 8, Nodes: 1,
		TotalRAM: 16 << 30, CPUModel: "Test CPU", MHz: 2500,
	}

	m := ThisMachine(res)
	assert.Equal(t, "Test CPU", m.CPUName)
	assert.Equal(t, "1 physical processor; 4 cores; 8 threads", m.CPUDesc)
	assert.Equal(t, "8x 2500.00 MHz", m.CPUConfig)
	assert.Equal(t, uint64(16<<20), m.MemoryKiB)
	assert.Equal(t, uint64(16<<10), m.PhysicalMiB)
	assert.Equal(t, strconv.IntSize, m.PointerBits)
	assert.Equal(t, MachineDataVersion, m.DataVersion)
	assert.NotEmpty(t, m.ID)

	assert.Equal(t, m.ID, ThisMachine(res).ID)
}

func TestMachineIDDiffers(t *testing.T) {
	a := MachineID("host", rank.Machine{CPUName: "x", Threads: 4})
	b := MachineID("host", rank.Machine{CPUName: "x", Threads: 8})
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, MachineID("host", rank.Machine{CPUName: "x", Threads: 4}))
}

func TestMachineType(t *testing.T) {
	assert.Equal(t, "Physical", machineType("", "host"))
	assert.Equal(t, "Virtual Machine (kvm)", machineType("kvm", "guest"))
	assert.Equal(t, "Virtual Machine", machineType("", "guest"))
}
