package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

// StartMsg is sent when benchmark Index of Total starts.
type StartMsg struct {
	Name  string
	Index int
	Total int
}

// ProgressMsg carries the live state of a time-boxed benchmark.
type ProgressMsg types.RunProgress

// ResultMsg is sent when a benchmark finishes.
type ResultMsg struct {
	Name  string
	Unit  string
	Value types.Value
	Err   error
}

// DoneMsg is sent when the whole run is over.
type DoneMsg struct {
	Err error
}

type finished struct {
	name  string
	unit  string
	value types.Value
	err   error
}

// RunModel shows the benchmark being run, its time box and finished results.
type RunModel struct {
	spinner  spinner.Model
	bar      progress.Model
	version  string
	cancel   func()
	started  time.Time
	current  string
	index    int
	total    int
	progress types.RunProgress
	results  []finished
	stopping bool
	done     bool
	err      error
	width    int
}

// NewRunModel creates a RunModel. cancel, if set, is called when the user
// asks to stop; the model keeps rendering until DoneMsg arrives.
func NewRunModel(version string, cancel func()) RunModel {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return RunModel{
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		version: version,
		cancel:  cancel,
		started: time.Now(),
		width:   80,
	}
}

// Init starts the spinner.
func (m RunModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(max(msg.Width-30, 10), 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if m.stopping {
				return m, tea.Quit
			}
			m.stopping = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil

	case StartMsg:
		m.current = msg.Name
		m.index = msg.Index
		m.total = msg.Total
		m.progress = types.RunProgress{Benchmark: msg.Name}
		return m, nil

	case ProgressMsg:
		m.progress = types.RunProgress(msg)
		return m, nil

	case ResultMsg:
		m.results = append(m.results, finished{name: msg.Name, unit: msg.Unit, value: msg.Value, err: msg.Err})
		m.current = ""
		return m, nil

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the model.
func (m RunModel) View() string {
	var b strings.Builder
	width := max(m.width-4, 40)

	b.WriteString(m.renderHeader(width))
	b.WriteString("\n")
	b.WriteString(renderDivider(width))
	b.WriteString("\n\n")

	switch {
	case m.done && m.err != nil:
		b.WriteString(errorTextStyle.Render(fmt.Sprintf("  Stopped: %v", m.err)))
	case m.done:
		b.WriteString(successTextStyle.Render("  Run complete"))
	case m.current != "":
		b.WriteString(fmt.Sprintf("  %s Running %s (%d/%d)",
			m.spinner.View(), benchmarkStyle.Render(m.current), m.index+1, m.total))
		if m.stopping {
			b.WriteString(warningTextStyle.Render("  stopping..."))
		}
		b.WriteString("\n\n  ")
		b.WriteString(m.renderProgress())
	default:
		b.WriteString(fmt.Sprintf("  %s Preparing", m.spinner.View()))
	}
	b.WriteString("\n\n")

	for _, r := range m.results {
		b.WriteString(renderResult(r))
		b.WriteString("\n")
	}

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

func (m RunModel) renderHeader(width int) string {
	title := titleStyle.Render("  hwbench " + m.version)
	hint := mutedTextStyle.Render("[q to stop]")
	spacing := max(width-lipgloss.Width(title)-lipgloss.Width(hint), 1)
	return title + strings.Repeat(" ", spacing) + hint
}

// renderProgress shows the time box fill for time-boxed benchmarks and the
// elapsed time for range-based ones, which report no budget.
func (m RunModel) renderProgress() string {
	p := m.progress
	if p.Budget <= 0 {
		return mutedTextStyle.Render(fmt.Sprintf("elapsed %s", formatDuration(time.Since(m.started))))
	}
	stats := fmt.Sprintf(" %s / %s  %s iterations  %d threads",
		formatDuration(p.Elapsed), formatDuration(p.Budget), humanize.Comma(p.Completions), p.Threads)
	return m.bar.ViewAs(p.Fraction()) + mutedTextStyle.Render(stats)
}

func renderResult(r finished) string {
	if r.err != nil || !r.value.Valid() {
		msg := "failed"
		if r.err != nil {
			msg = r.err.Error()
		}
		return fmt.Sprintf("  %s %-20s %s", errorTextStyle.Render("✗"), r.name, errorTextStyle.Render(msg))
	}
	return fmt.Sprintf("  %s %-20s %s %s", successTextStyle.Render("✓"), r.name,
		scoreStyle.Render(types.FormatScore(r.value.Result)), mutedTextStyle.Render(r.unit))
}

// formatDuration formats a duration as M:SS.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}

// Done reports whether DoneMsg was received.
func (m RunModel) Done() bool {
	return m.done
}
