package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

func update(t *testing.T, m RunModel, msg tea.Msg) (RunModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	rm, ok := next.(RunModel)
	if !ok {
		t.Fatalf("Update returned %T, want RunModel", next)
	}
	return rm, cmd
}

func TestNewRunModel(t *testing.T) {
	m := NewRunModel("dev", nil)

	if m.done {
		t.Error("expected done to be false initially")
	}
	if m.current != "" {
		t.Errorf("expected no current benchmark, got %q", m.current)
	}
	if !strings.Contains(m.View(), "Preparing") {
		t.Error("expected initial view to show Preparing")
	}
}

func TestRunModelStartAndProgress(t *testing.T) {
	m := NewRunModel("dev", nil)

	m, _ = update(t, m, StartMsg{Name: "CPU Zlib", Index: 1, Total: 3})
	if m.current != "CPU Zlib" || m.index != 1 || m.total != 3 {
		t.Errorf("unexpected state after StartMsg: %q %d/%d", m.current, m.index, m.total)
	}

	m, _ = update(t, m, ProgressMsg{
		Benchmark:   "CPU Zlib",
		Threads:     4,
		Completions: 12345,
		Elapsed:     3 * time.Second,
		Budget:      7 * time.Second,
	})
	if m.progress.Completions != 12345 {
		t.Errorf("expected 12345 completions, got %d", m.progress.Completions)
	}

	view := m.View()
	for _, want := range []string{"CPU Zlib", "(2/3)", "12,345", "0:03 / 0:07"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestRunModelResults(t *testing.T) {
	m := NewRunModel("dev", nil)

	m, _ = update(t, m, ResultMsg{Name: "CPU Fibonacci", Unit: "ops", Value: types.Value{Result: 1234.5, ElapsedTime: 7, ThreadsUsed: 1}})
	m, _ = update(t, m, ResultMsg{Name: "CPU N-Queens", Value: types.Failed(), Err: errors.New("boom")})

	if len(m.results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(m.results))
	}
	view := m.View()
	if !strings.Contains(view, "1,234.5") {
		t.Errorf("view missing formatted score:\n%s", view)
	}
	if !strings.Contains(view, "boom") {
		t.Errorf("view missing failure reason:\n%s", view)
	}
}

func TestRunModelDoneQuits(t *testing.T) {
	m := NewRunModel("dev", nil)

	m, cmd := update(t, m, DoneMsg{})
	if !m.Done() {
		t.Error("expected done after DoneMsg")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if !strings.Contains(m.View(), "Run complete") {
		t.Error("expected completion message")
	}

	m, _ = update(t, NewRunModel("dev", nil), DoneMsg{Err: errors.New("context canceled")})
	if !strings.Contains(m.View(), "context canceled") {
		t.Error("expected stop reason in view")
	}
}

func TestRunModelStopCancelsOnce(t *testing.T) {
	calls := 0
	m := NewRunModel("dev", func() { calls++ })

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if calls != 1 {
		t.Errorf("expected cancel to be called once, got %d", calls)
	}
	if cmd != nil {
		t.Error("first stop request should wait for the run to finish")
	}
	if !m.stopping {
		t.Error("expected stopping state")
	}

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if calls != 1 {
		t.Errorf("expected no second cancel, got %d calls", calls)
	}
	if cmd == nil {
		t.Error("second stop request should quit")
	}
}

func TestRunModelWindowResize(t *testing.T) {
	m := NewRunModel("dev", nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.width != 120 {
		t.Errorf("expected width 120, got %d", m.width)
	}
	if m.bar.Width != 60 {
		t.Errorf("expected bar width 60, got %d", m.bar.Width)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{7 * time.Second, "0:07"},
		{90 * time.Second, "1:30"},
		{1500 * time.Millisecond, "0:02"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
