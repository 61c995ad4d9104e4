// Package dataset reads and writes benchmark result collections in the
// exchange format shared with the result server: a JSON object keyed by
// benchmark name, each holding an array of machine records.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/adrg/xdg"

	"github.com/jamesainslie/hwbench/pkg/hwbench/logging"
	"github.com/jamesainslie/hwbench/pkg/hwbench/rank"
	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

var logger = logging.Get("dataset")

// FileName is the dataset file looked up in the config and data directories.
const FileName = "benchmark.json"

// appDir is the per-application subdirectory under each XDG base directory.
const appDir = "hwbench"

// ErrNotObject is returned when the document root is not a JSON object.
var ErrNotObject = errors.New("dataset root is not an object")

// Record is one machine's result in the exchange format.
type Record struct {
	rank.Machine

	Result   float64 `json:"BenchmarkResult"`
	Elapsed  float64 `json:"ElapsedTime"`
	Threads  int     `json:"UsedThreads"`
	Revision int     `json:"BenchmarkVersion"`
	Extra    string  `json:"ExtraInfo,omitempty"`
	Legacy   bool    `json:"Legacy,omitempty"`

	OpenGLRenderer string `json:"OpenGlRenderer,omitempty"`
	HwCaps         string `json:"HwCAPS,omitempty"`
	VulkanDriver   string `json:"VulkanDriver,omitempty"`
	VulkanDevice   string `json:"VulkanDevice,omitempty"`
	VulkanVersions string `json:"VulkanVersions,omitempty"`
}

// Value returns the measurement carried by r.
func (r Record) Value() types.Value {
	return types.Value{
		Result:      r.Result,
		ElapsedTime: r.Elapsed,
		ThreadsUsed: r.Threads,
		Revision:    r.Revision,
		Extra:       r.Extra,
	}
}

// Entry converts r for ranking.
func (r Record) Entry() rank.Entry {
	return rank.Entry{Machine: r.Machine, Value: r.Value(), Legacy: r.Legacy}
}

// NewRecord builds the record of machine m for value v.
func NewRecord(m rank.Machine, v types.Value) Record {
	return Record{
		Machine:  m,
		Result:   v.Result,
		Elapsed:  v.ElapsedTime,
		Threads:  v.ThreadsUsed,
		Revision: v.Revision,
		Extra:    v.Extra,
	}
}

// Dataset maps benchmark names to recorded machine results.
type Dataset map[string][]Record

// Benchmarks returns the benchmark names present, sorted.
func (d Dataset) Benchmarks() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns the ranking entries of benchmark in dataset order.
func (d Dataset) Entries(benchmark string) []rank.Entry {
	recs := d[benchmark]
	out := make([]rank.Entry, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Entry())
	}
	return out
}

// Len returns the total number of records.
func (d Dataset) Len() int {
	n := 0
	for _, recs := range d {
		n += len(recs)
	}
	return n
}

// Decode parses a dataset document. Members that are not arrays, records that
// fail to decode and records carrying a failed (negative) result are skipped;
// a document that is not a JSON object is an error.
func Decode(data []byte) (Dataset, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, ErrNotObject
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}

	ds := make(Dataset, len(raw))
	for benchmark, member := range raw {
		var items []json.RawMessage
		if err := json.Unmarshal(member, &items); err != nil {
			logger.Debug("skipping non-array member", "name", benchmark, "error", err)
			continue
		}
		recs := make([]Record, 0, len(items))
		for i, item := range items {
			rec := Record{Revision: types.NoRevision}
			if err := json.Unmarshal(item, &rec); err != nil {
				logger.Debug("skipping malformed record", "benchmark", benchmark, "index", i, "error", err)
				continue
			}
			if rec.Result < 0 {
				continue
			}
			recs = append(recs, rec)
		}
		ds[benchmark] = recs
	}
	return ds, nil
}

// Parse is Decode for callers that treat an unreadable dataset as empty.
// The failure is logged and an empty dataset returned.
func Parse(data []byte) Dataset {
	ds, err := Decode(data)
	if err != nil {
		logger.Warn("ignoring unreadable dataset", "error", err)
		return Dataset{}
	}
	return ds
}

// Load reads and parses the dataset at path. A missing or unreadable file
// yields an empty dataset.
func Load(path string) Dataset {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("cannot read dataset", "path", path, "error", err)
		return Dataset{}
	}
	return Parse(data)
}

// Find returns the first existing dataset file: the user's config directory
// first, then the XDG data directories.
func Find() (string, bool) {
	for _, p := range searchPaths() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// UserPath returns the dataset location in the user's config directory,
// where downloaded datasets are stored.
func UserPath() string {
	return filepath.Join(xdg.ConfigHome, appDir, FileName)
}

func searchPaths() []string {
	paths := []string{UserPath(), filepath.Join(xdg.DataHome, appDir, FileName)}
	for _, dir := range xdg.DataDirs {
		paths = append(paths, filepath.Join(dir, appDir, FileName))
	}
	return paths
}

// Encode writes ds in the exchange format.
func Encode(ds Dataset) ([]byte, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding dataset: %w", err)
	}
	return append(data, '\n'), nil
}

// Merge appends every record of other to d.
func (d Dataset) Merge(other Dataset) {
	for name, recs := range other {
		d[name] = append(d[name], recs...)
	}
}
