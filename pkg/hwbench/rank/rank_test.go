package rank

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

func entry(id string, result float64) Entry {
	return Entry{
		Machine: Machine{ID: id, CPUName: "cpu-" + id, GPUName: "gpu-" + id, Storage: "disk-" + id, CPUConfig: "4x 2000.00 MHz"},
		Value:   types.Value{Result: result, Revision: types.NoRevision},
	}
}

func ids(b *Board) []string {
	out := make([]string, 0, len(b.Rows))
	for _, r := range b.Rows {
		out = append(out, r.Machine.ID)
	}
	return out
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, CategoryGPU, CategoryOf("GPU Drawing"))
	assert.Equal(t, CategoryStorage, CategoryOf("Storage Read"))
	assert.Equal(t, CategoryCPU, CategoryOf("CPU Zlib"))
	assert.Equal(t, CategoryCPU, CategoryOf("FPU FFT"))

	assert.True(t, CategoryCPU.HasConfig())
	assert.False(t, CategoryGPU.HasConfig())
	assert.Equal(t, "Storage", CategoryStorage.String())
}

func TestSortStable(t *testing.T) {
	entries := []Entry{entry("a", 2), entry("b", 1), entry("c", 2), entry("d", 1)}

	Sort(entries, false)
	got := []string{entries[0].Machine.ID, entries[1].Machine.ID, entries[2].Machine.ID, entries[3].Machine.ID}
	assert.Equal(t, []string{"b", "d", "a", "c"}, got)

	Sort(entries, true)
	got = []string{entries[0].Machine.ID, entries[1].Machine.ID, entries[2].Machine.ID, entries[3].Machine.ID}
	assert.Equal(t, []string{"c", "a", "d", "b"}, got)
}

func TestRankIncludesLocal(t *testing.T) {
	local := entry("me", 5)
	dataset := []Entry{entry("a", 1), entry("b", 9), entry("c", 5)}

	b := Rank("CPU Zlib", &local, dataset, Options{MaxResults: -1})

	require.Equal(t, 4, b.Total)
	assert.Equal(t, []string{"a", "me", "c", "b"}, ids(b))

	row, ok := b.Local()
	require.True(t, ok)
	assert.Equal(t, "This Machine cpu-me", row.Label)
	assert.Equal(t, "me__1", row.Key)
	assert.Equal(t, "4x 2000.00 MHz", row.Config)
}

func TestRankDescending(t *testing.T) {
	dataset := []Entry{entry("a", 1), entry("b", 9), entry("c", 5)}
	b := Rank("CPU Fibonacci", nil, dataset, Options{Descending: true, MaxResults: -1})
	assert.Equal(t, []string{"b", "c", "a"}, ids(b))
	assert.True(t, b.Descending)
}

func TestRankExcludesFailedLocal(t *testing.T) {
	dataset := []Entry{entry("a", 1), entry("b", 2)}

	for _, v := range []types.Value{types.Failed(), types.Empty()} {
		local := Entry{Machine: Machine{ID: "me"}, Value: v}
		b := Rank("CPU Zlib", &local, dataset, Options{MaxResults: -1})
		assert.Equal(t, 2, b.Total)
		_, ok := b.Local()
		assert.False(t, ok)
	}
}

func TestRankWindowsAroundLocal(t *testing.T) {
	var dataset []Entry
	for i := range 20 {
		dataset = append(dataset, entry(fmt.Sprint(i), float64(i*2+1)))
	}
	local := entry("me", 20)

	b := Rank("CPU Zlib", &local, dataset, Options{MaxResults: 5})

	assert.Equal(t, 21, b.Total)
	assert.Equal(t, Window{Min: 8, Max: 13}, b.Window)
	require.Len(t, b.Rows, 5)
	assert.True(t, b.Rows[2].ThisMachine)
	assert.Equal(t, 8, b.Rows[0].Position)
}

func TestRankWithoutLocalAnchorsAtStart(t *testing.T) {
	dataset := []Entry{entry("a", 3), entry("b", 2), entry("c", 1)}

	b := Rank("CPU Zlib", nil, dataset, Options{MaxResults: 2})
	assert.Equal(t, []string{"c", "b"}, ids(b))

	b = Rank("CPU Zlib", nil, dataset, Options{MaxResults: 0})
	assert.Empty(t, b.Rows)
}

func TestRankEmpty(t *testing.T) {
	b := Rank("CPU Zlib", nil, nil, Options{MaxResults: 10})
	assert.Zero(t, b.Total)
	assert.Empty(t, b.Rows)
}

func TestRankCategoryLabels(t *testing.T) {
	legacy := entry("old", 3)
	legacy.Legacy = true
	dataset := []Entry{entry("a", 1), legacy}

	gpu := Rank("GPU Drawing", nil, dataset, Options{MaxResults: -1})
	assert.Equal(t, CategoryGPU, gpu.Category)
	assert.Equal(t, "gpu-a", gpu.Rows[0].Label)
	assert.Empty(t, gpu.Rows[0].Config)
	assert.Equal(t, "gpu-old"+LegacyMarker, gpu.Rows[1].Label)

	storage := Rank("Storage Read", nil, dataset, Options{MaxResults: -1})
	assert.Equal(t, "disk-a", storage.Rows[0].Label)
}

func TestRankIgnoresDatasetThisMachineFlag(t *testing.T) {
	stray := entry("x", 1)
	stray.ThisMachine = true

	b := Rank("CPU Zlib", nil, []Entry{stray}, Options{MaxResults: -1})
	_, ok := b.Local()
	assert.False(t, ok)
}

func TestBoardJSONCategory(t *testing.T) {
	b := Rank("Storage Read", nil, nil, Options{})
	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"category":"Storage"`)
}
