package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/jamesainslie/hwbench/pkg/hwbench/rank"
)

func tableHeader(b *rank.Board) []string {
	h := []string{"POS", "RESULT", strings.ToUpper(columnTitle(b.Category))}
	if b.Category.HasConfig() {
		h = append(h, "CONFIG")
	}
	return append(h, "THIS_MACHINE")
}

func tableRow(b *rank.Board, r rank.Row) []string {
	cols := []string{fmt.Sprint(r.Position + 1), score(r.Value), r.Label}
	if b.Category.HasConfig() {
		cols = append(cols, r.Config)
	}
	return append(cols, fmt.Sprint(r.ThisMachine))
}

// TSVFormatter writes tab-separated values with a header row.
type TSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *TSVFormatter) Format(w *bytes.Buffer, b *rank.Board) error {
	w.WriteString(strings.Join(tableHeader(b), "\t") + "\n")
	for _, r := range b.Rows {
		cols := tableRow(b, r)
		for i, c := range cols {
			cols[i] = strings.NewReplacer("\t", " ", "\n", " ").Replace(c)
		}
		w.WriteString(strings.Join(cols, "\t") + "\n")
	}
	return nil
}

func init() {
	Register("tsv", func() Formatter {
		return &TSVFormatter{}
	})
}

var _ Formatter = (*TSVFormatter)(nil)

// CSVFormatter writes RFC 4180 comma-separated values.
type CSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *CSVFormatter) Format(w *bytes.Buffer, b *rank.Board) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(tableHeader(b)); err != nil {
		return err
	}
	for _, r := range b.Rows {
		if err := writer.Write(tableRow(b, r)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func init() {
	Register("csv", func() Formatter {
		return &CSVFormatter{}
	})
}

var _ Formatter = (*CSVFormatter)(nil)

// MarkdownFormatter writes a GitHub-flavored Markdown table.
type MarkdownFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *MarkdownFormatter) Format(w *bytes.Buffer, b *rank.Board) error {
	header := tableHeader(b)
	header = header[:len(header)-1]
	w.WriteString("| " + strings.Join(header, " | ") + " |\n")
	w.WriteString("|" + strings.Repeat("---|", len(header)) + "\n")

	for _, r := range b.Rows {
		cols := tableRow(b, r)
		cols = cols[:len(cols)-1]
		for i, c := range cols {
			cols[i] = escapeMarkdownPipe(c)
		}
		if r.ThisMachine {
			cols[2] = "**" + cols[2] + "**"
		}
		w.WriteString("| " + strings.Join(cols, " | ") + " |\n")
	}
	return nil
}

func escapeMarkdownPipe(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func init() {
	Register("markdown", func() Formatter {
		return &MarkdownFormatter{}
	})
}

var _ Formatter = (*MarkdownFormatter)(nil)
