package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

// Program forwards runner callbacks to a running RunModel. Its methods may be
// called from any goroutine once Run has been started.
type Program struct {
	p *tea.Program
}

// NewProgram creates a Program. cancel is called when the user asks to stop.
func NewProgram(version string, cancel func()) *Program {
	return &Program{p: tea.NewProgram(NewRunModel(version, cancel))}
}

// Run blocks until the run is done or the user quits.
func (p *Program) Run() error {
	_, err := p.p.Run()
	return err
}

// Start reports that benchmark i of n started.
func (p *Program) Start(name string, i, n int) {
	p.p.Send(StartMsg{Name: name, Index: i, Total: n})
}

// Progress reports time box progress.
func (p *Program) Progress(rp types.RunProgress) {
	p.p.Send(ProgressMsg(rp))
}

// Result reports a finished benchmark.
func (p *Program) Result(name, unit string, v types.Value, err error) {
	p.p.Send(ResultMsg{Name: name, Unit: unit, Value: v, Err: err})
}

// Done ends the program.
func (p *Program) Done(err error) {
	p.p.Send(DoneMsg{Err: err})
}
