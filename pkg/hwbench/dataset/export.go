package dataset

import (
	"github.com/jamesainslie/hwbench/pkg/hwbench/rank"
	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

// Collect builds a dataset holding this machine's valid results.
// Benchmarks that failed or never produced a positive result are left out.
func Collect(m rank.Machine, values map[string]types.Value) Dataset {
	ds := make(Dataset)
	for name, v := range values {
		if !v.Ran() {
			continue
		}
		ds[name] = []Record{NewRecord(m, v)}
	}
	return ds
}

// Export encodes this machine's valid results in the exchange format.
func Export(m rank.Machine, values map[string]types.Value) ([]byte, error) {
	return Encode(Collect(m, values))
}
