package output

import (
	"bytes"
	"encoding/json"

	"github.com/jamesainslie/hwbench/pkg/hwbench/rank"
)

// jsonRow is one leaderboard row in JSON and YAML output.
type jsonRow struct {
	Position    int     `json:"position" yaml:"position"`
	Key         string  `json:"key" yaml:"key"`
	Label       string  `json:"label" yaml:"label"`
	Config      string  `json:"config,omitempty" yaml:"config,omitempty"`
	Result      float64 `json:"result" yaml:"result"`
	ElapsedTime float64 `json:"elapsed_time" yaml:"elapsed_time"`
	ThreadsUsed int     `json:"threads_used" yaml:"threads_used"`
	Revision    int     `json:"revision" yaml:"revision"`
	Value       string  `json:"value" yaml:"value"`
	MachineID   string  `json:"machine_id,omitempty" yaml:"machine_id,omitempty"`
	ThisMachine bool    `json:"this_machine" yaml:"this_machine"`
	Legacy      bool    `json:"legacy,omitempty" yaml:"legacy,omitempty"`
}

// jsonBoard is the document written by the json and yaml formatters.
type jsonBoard struct {
	Benchmark  string    `json:"benchmark" yaml:"benchmark"`
	Category   string    `json:"category" yaml:"category"`
	Descending bool      `json:"descending" yaml:"descending"`
	Total      int       `json:"total" yaml:"total"`
	WindowMin  int       `json:"window_min" yaml:"window_min"`
	WindowMax  int       `json:"window_max" yaml:"window_max"`
	Rows       []jsonRow `json:"rows" yaml:"rows"`
}

func buildRow(r rank.Row) jsonRow {
	return jsonRow{
		Position:    r.Position + 1,
		Key:         r.Key,
		Label:       r.Label,
		Config:      r.Config,
		Result:      r.Value.Result,
		ElapsedTime: r.Value.ElapsedTime,
		ThreadsUsed: r.Value.ThreadsUsed,
		Revision:    r.Value.Revision,
		Value:       r.Value.String(),
		MachineID:   r.Machine.ID,
		ThisMachine: r.ThisMachine,
		Legacy:      r.Legacy,
	}
}

func buildBoard(b *rank.Board) jsonBoard {
	rows := make([]jsonRow, len(b.Rows))
	for i, r := range b.Rows {
		rows[i] = buildRow(r)
	}
	return jsonBoard{
		Benchmark:  b.Benchmark,
		Category:   b.Category.String(),
		Descending: b.Descending,
		Total:      b.Total,
		WindowMin:  b.Window.Min,
		WindowMax:  b.Window.Max,
		Rows:       rows,
	}
}

// JSONFormatter writes the board as one indented JSON object.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, b *rank.Board) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildBoard(b))
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

var _ Formatter = (*JSONFormatter)(nil)

// JSONLFormatter writes one compact JSON object per row, for streaming to
// tools like jq.
type JSONLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONLFormatter) Format(w *bytes.Buffer, b *rank.Board) error {
	for _, r := range b.Rows {
		data, err := json.Marshal(buildRow(r))
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("jsonl", func() Formatter {
		return &JSONLFormatter{}
	})
}

var _ Formatter = (*JSONLFormatter)(nil)
