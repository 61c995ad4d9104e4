package output

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/jamesainslie/hwbench/pkg/hwbench/rank"
)

// PlainFormatter writes an aligned table without colors, for scripts and pipes.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, b *rank.Board) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	header := []string{"POS", "RESULT", strings.ToUpper(columnTitle(b.Category))}
	if b.Category.HasConfig() {
		header = append(header, "CONFIG")
	}
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")); err != nil {
		return err
	}

	for _, r := range b.Rows {
		cols := []string{fmt.Sprint(r.Position + 1), score(r.Value), r.Label}
		if b.Category.HasConfig() {
			cols = append(cols, r.Config)
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cols, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

var _ Formatter = (*PlainFormatter)(nil)
