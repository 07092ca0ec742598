package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/integbench/internal/benchmark"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the driver goroutine can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// Observer forwards driver events to the dashboard as messages tagged with
// the run generation, so events of a restarted run are told apart.
type Observer struct {
	ref        *programRef
	generation uint64
}

// Verify interface compliance.
var _ benchmark.Observer = (*Observer)(nil)

// CaseStarted sends a CaseStartedMsg.
func (o *Observer) CaseStarted(index, total int, c benchmark.Case) {
	o.ref.Send(CaseStartedMsg{Index: index, Total: total, Case: c, Generation: o.generation})
}

// CaseFinished sends a CaseFinishedMsg.
func (o *Observer) CaseFinished(index, total int, r benchmark.CaseResult) {
	o.ref.Send(CaseFinishedMsg{Index: index, Total: total, Result: r, Generation: o.generation})
}

// RunFinished is a no-op; completion is reported by the run command itself.
func (o *Observer) RunFinished([]benchmark.CaseResult, time.Duration) {}
