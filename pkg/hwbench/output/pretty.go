package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/hwbench/pkg/hwbench/rank"
	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

// PrettyFormatter renders a styled table for terminals, highlighting this
// machine's row.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, b *rank.Board) error {
	w.WriteString(f.formatHeader(b))
	w.WriteString("\n")
	w.WriteString(f.formatTable(b))
	w.WriteString(f.formatFooter(b))
	w.WriteString("\n")
	return nil
}

func (f *PrettyFormatter) formatHeader(b *rank.Board) string {
	order := "lower is better"
	if b.Descending {
		order = "higher is better"
	}
	line := TitleStyle.Render(b.Benchmark) + "  " + MutedStyle.Render(order)
	return HeaderBox.Render(line)
}

func (f *PrettyFormatter) formatTable(b *rank.Board) string {
	if len(b.Rows) == 0 {
		return MutedStyle.Render("  No results to compare") + "\n"
	}

	scoreWidth := len("RESULT")
	labelWidth := len(columnTitle(b.Category))
	for _, r := range b.Rows {
		scoreWidth = max(scoreWidth, len(types.FormatScore(r.Value.Result)))
		labelWidth = max(labelWidth, lipgloss.Width(r.Label))
	}

	var sb strings.Builder
	cols := []string{
		TableHeaderStyle.Render(padLeft("#", 3)),
		TableHeaderStyle.Render(padLeft("RESULT", scoreWidth)),
		TableHeaderStyle.Render(padRight(strings.ToUpper(columnTitle(b.Category)), labelWidth)),
	}
	if b.Category.HasConfig() {
		cols = append(cols, TableHeaderStyle.Render("CONFIG"))
	}
	sb.WriteString("  " + lipgloss.JoinHorizontal(lipgloss.Bottom, cols...) + "\n")

	for _, r := range b.Rows {
		pos := MutedStyle.Render(padLeft(fmt.Sprint(r.Position+1), 3))
		val := ScoreStyle.Render(padLeft(types.FormatScore(r.Value.Result), scoreWidth))
		label := padRight(r.Label, labelWidth)
		if r.ThisMachine {
			label = HighlightStyle.Render(label)
		} else if r.Legacy {
			label = WarningStyle.Render(label)
		} else {
			label = ValueStyle.Render(label)
		}

		line := fmt.Sprintf("  %s  %s  %s", pos, val, label)
		if b.Category.HasConfig() && r.Config != "" {
			line += "  " + MutedStyle.Render(r.Config)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func (f *PrettyFormatter) formatFooter(b *rank.Board) string {
	parts := []string{
		LabelStyle.Render("Showing:") + " " + ValueStyle.Render(fmt.Sprintf("%d of %d", len(b.Rows), b.Total)),
	}
	if local, ok := b.Local(); ok {
		parts = append(parts, LabelStyle.Render("This machine:")+" "+
			SuccessStyle.Render(fmt.Sprintf("#%d (%s)", local.Position+1, types.FormatScore(local.Value.Result))))
	} else {
		parts = append(parts, MutedStyle.Render("This machine has no result"))
	}
	return FooterBox.Render(strings.Join(parts, "  "))
}

func padLeft(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

func padRight(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

var _ Formatter = (*PrettyFormatter)(nil)
