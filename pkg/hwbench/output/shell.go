package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jamesainslie/hwbench/pkg/hwbench/rank"
)

// Sort order codes understood by shell key-file consumers.
const (
	OrderDescending = 0
	OrderAscending  = 1
)

// labelEscaper protects the key-file delimiters inside labels.
var labelEscaper = strings.NewReplacer(`\`, `\\`, "=", `\=`, "$", `\$`, "\n", " ")

// ShellFormatter writes the key-file block consumed by the report shell: a
// [$ShellParam$] section with column titles, then one "$key$label=value" line
// per row. This machine's key is prefixed with "@*"; other keys with "@".
type ShellFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *ShellFormatter) Format(w *bytes.Buffer, b *rank.Board) error {
	order := OrderAscending
	if b.Descending {
		order = OrderDescending
	}

	w.WriteString("[$ShellParam$]\n")
	w.WriteString("Zebra=1\n")
	fmt.Fprintf(w, "OrderType=%d\n", order)
	w.WriteString("ViewType=4\n")
	if b.Category.HasConfig() {
		w.WriteString("ColumnTitle$Extra1=CPU Config\n")
	}
	w.WriteString("ColumnTitle$Progress=Results\n")
	fmt.Fprintf(w, "ColumnTitle$TextValue=%s\n", columnTitle(b.Category))
	w.WriteString("ShowColumnHeaders=true\n")
	fmt.Fprintf(w, "[%s]\n", b.Benchmark)

	for _, r := range b.Rows {
		marker := "@"
		if r.ThisMachine {
			marker = "@*"
		}
		fmt.Fprintf(w, "$%s%s$%s=%.2f", marker, r.Key, labelEscaper.Replace(r.Label), r.Value.Result)
		if b.Category.HasConfig() {
			fmt.Fprintf(w, "|%s", r.Config)
		}
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("shell", func() Formatter {
		return &ShellFormatter{}
	})
}

var _ Formatter = (*ShellFormatter)(nil)

// ShortFormatter writes only this machine's value text, or nothing when the
// board has no local row.
type ShortFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *ShortFormatter) Format(w *bytes.Buffer, b *rank.Board) error {
	if r, ok := b.Local(); ok {
		w.WriteString(r.Value.String())
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("short", func() Formatter {
		return &ShortFormatter{}
	})
}

var _ Formatter = (*ShortFormatter)(nil)
