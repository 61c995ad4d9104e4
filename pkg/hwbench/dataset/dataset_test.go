package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/hwbench/pkg/hwbench/rank"
	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

const sample = `{
  "CPU Zlib": [
    {"MachineId": "a", "CpuName": "Alpha", "CpuConfig": "8x 3000.00 MHz", "BenchmarkResult": 120.5, "ElapsedTime": 7.1, "UsedThreads": 8, "BenchmarkVersion": 2},
    {"MachineId": "b", "CpuName": "Beta", "BenchmarkResult": 99, "ElapsedTime": 7, "UsedThreads": 4, "Legacy": true},
    {"MachineId": "c", "CpuName": "Gamma", "BenchmarkResult": -1},
    {"MachineId": 17}
  ],
  "GPU Drawing": [
    {"MachineId": "d", "GPU": "Delta GPU", "BenchmarkResult": 5000, "ExtraInfo": "vsync off"}
  ]
}`

func TestDecode(t *testing.T) {
	ds, err := Decode([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"CPU Zlib", "GPU Drawing"}, ds.Benchmarks())
	assert.Equal(t, 3, ds.Len())

	cpu := ds["CPU Zlib"]
	require.Len(t, cpu, 2)
	assert.Equal(t, "Alpha", cpu[0].CPUName)
	assert.Equal(t, "8x 3000.00 MHz", cpu[0].CPUConfig)
	assert.Equal(t, types.Value{Result: 120.5, ElapsedTime: 7.1, ThreadsUsed: 8, Revision: 2}, cpu[0].Value())
	assert.Equal(t, types.NoRevision, cpu[1].Revision)
	assert.True(t, cpu[1].Legacy)

	gpu := ds["GPU Drawing"]
	require.Len(t, gpu, 1)
	assert.Equal(t, "Delta GPU", gpu[0].GPUName)
	assert.Equal(t, "vsync off", gpu[0].Value().Extra)
}

func TestDecodeErrors(t *testing.T) {
	for _, input := range []string{"", "[]", "not json", `{"CPU Zlib": [1,}`} {
		_, err := Decode([]byte(input))
		assert.Error(t, err, "input %q", input)
	}

	_, err := Decode([]byte("[1]"))
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestDecodeSkipsNonArrayMembers(t *testing.T) {
	input := `{
  "CPU Fibonacci": [{"MachineId": "a", "CpuName": "X", "BenchmarkResult": 5}],
  "SchemaVersion": 2,
  "Generator": {"name": "server"}
}`
	ds, err := Decode([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"CPU Fibonacci"}, ds.Benchmarks())

	entries := Parse([]byte(input)).Entries("CPU Fibonacci")
	require.Len(t, entries, 1)
	assert.Equal(t, 5.0, entries[0].Value.Result)
}

func TestParseRecoversToEmpty(t *testing.T) {
	ds := Parse([]byte("{broken"))
	assert.NotNil(t, ds)
	assert.Zero(t, ds.Len())
	assert.Empty(t, ds.Entries("CPU Zlib"))
}

func TestEntries(t *testing.T) {
	ds := Parse([]byte(sample))

	entries := ds.Entries("CPU Zlib")
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Machine.ID)
	assert.False(t, entries[0].ThisMachine)
	assert.True(t, entries[1].Legacy)

	assert.Empty(t, ds.Entries("Missing"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	assert.Equal(t, 3, Load(path).Len())
	assert.Zero(t, Load(filepath.Join(dir, "missing.json")).Len())
}

func TestEncodeRoundTrip(t *testing.T) {
	ds := Parse([]byte(sample))

	data, err := Encode(ds)
	require.NoError(t, err)

	again, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, ds, again)
}

func TestMerge(t *testing.T) {
	ds := Dataset{"CPU Zlib": {{Result: 1}}}
	ds.Merge(Dataset{"CPU Zlib": {{Result: 2}}, "FPU FFT": {{Result: 3}}})
	assert.Len(t, ds["CPU Zlib"], 2)
	assert.Len(t, ds["FPU FFT"], 1)
}

func TestExportSkipsFailed(t *testing.T) {
	m := rank.Machine{ID: "me", CPUName: "Mine"}
	values := map[string]types.Value{
		"CPU Zlib":      {Result: 42, ElapsedTime: 7, ThreadsUsed: 8, Revision: 1},
		"CPU Fibonacci": types.Failed(),
		"FPU FFT":       types.Empty(),
	}

	data, err := Export(m, values)
	require.NoError(t, err)

	ds, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"CPU Zlib"}, ds.Benchmarks())
	assert.Equal(t, "me", ds["CPU Zlib"][0].ID)
	assert.Equal(t, values["CPU Zlib"], ds["CPU Zlib"][0].Value())
	assert.Contains(t, string(data), `"MachineId": "me"`)
	assert.Contains(t, string(data), `"BenchmarkResult": 42`)
}

func TestUserPath(t *testing.T) {
	assert.Equal(t, FileName, filepath.Base(UserPath()))
	assert.Equal(t, "hwbench", filepath.Base(filepath.Dir(UserPath())))
}
