package rank

import (
	"fmt"
	"slices"
	"sort"

	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

// ThisMachineMarker prefixes the label of this machine's row.
const ThisMachineMarker = "This Machine"

// LegacyMarker is appended to labels of results flagged as legacy or problematic.
const LegacyMarker = " ⚠"

// Options controls ordering and windowing of a leaderboard.
type Options struct {
	// Descending puts the highest result first. Whether that is the best score
	// depends on the benchmark.
	Descending bool

	// MaxResults is the window size: zero shows one entry, negative shows all.
	MaxResults int
}

// Row is one displayed leaderboard line.
type Row struct {
	// Key is unique within the board: "<machine id>__<position>".
	Key         string      `json:"key"`
	Position    int         `json:"position"`
	Label       string      `json:"label"`
	Config      string      `json:"config,omitempty"`
	Value       types.Value `json:"value"`
	Machine     Machine     `json:"machine"`
	ThisMachine bool        `json:"this_machine,omitempty"`
	Legacy      bool        `json:"legacy,omitempty"`
}

// Board is the windowed, labeled leaderboard of one benchmark.
type Board struct {
	Benchmark  string   `json:"benchmark"`
	Category   Category `json:"category"`
	Descending bool     `json:"descending"`
	Total      int      `json:"total"`
	Window     Window   `json:"window"`
	Rows       []Row    `json:"rows"`
}

// Local returns this machine's row, if it is inside the window.
func (b *Board) Local() (Row, bool) {
	for _, r := range b.Rows {
		if r.ThisMachine {
			return r, true
		}
	}
	return Row{}, false
}

// Sort orders entries by result, ascending and stable, then reverses the order
// when descending is set. entries is sorted in place.
func Sort(entries []Entry, descending bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value.Result < entries[j].Value.Result
	})
	if descending {
		slices.Reverse(entries)
	}
}

// Rank builds the leaderboard of benchmark.
//
// local, when non-nil and holding a positive result, is placed ahead of the
// dataset entries before sorting, so it precedes dataset entries with an
// equal result in ascending order. Failed or empty local values are left out.
func Rank(benchmark string, local *Entry, dataset []Entry, opts Options) *Board {
	entries := make([]Entry, 0, len(dataset)+1)
	if local != nil && local.Value.Ran() {
		self := *local
		self.ThisMachine = true
		entries = append(entries, self)
	}
	for _, e := range dataset {
		e.ThisMachine = false
		entries = append(entries, e)
	}

	Sort(entries, opts.Descending)

	loc := slices.IndexFunc(entries, func(e Entry) bool { return e.ThisMachine })
	window := ComputeWindow(len(entries), loc, opts.MaxResults)
	category := CategoryOf(benchmark)

	board := &Board{
		Benchmark:  benchmark,
		Category:   category,
		Descending: opts.Descending,
		Total:      len(entries),
		Window:     window,
	}
	for i, e := range entries {
		if !window.Contains(i) {
			continue
		}
		board.Rows = append(board.Rows, newRow(i, e, category))
	}
	return board
}

func newRow(pos int, e Entry, c Category) Row {
	label := e.Machine.Name(c)
	if e.ThisMachine {
		label = ThisMachineMarker + " " + label
	}
	if e.Legacy {
		label += LegacyMarker
	}

	row := Row{
		Key:         fmt.Sprintf("%s__%d", e.Machine.ID, pos),
		Position:    pos,
		Label:       label,
		Value:       e.Value,
		Machine:     e.Machine,
		ThisMachine: e.ThisMachine,
		Legacy:      e.Legacy,
	}
	if c.HasConfig() {
		row.Config = e.Machine.CPUConfig
	}
	return row
}
