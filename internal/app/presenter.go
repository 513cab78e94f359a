package app

import (
	"sync"

	"barcode-scanner.klederson.com/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// ProgramPresenter forwards session output into the Bubble Tea event loop.
// Until a program is attached, output is dropped.
type ProgramPresenter struct {
	mu      sync.RWMutex
	program *tea.Program
}

// Attach sets the program that receives messages.
func (p *ProgramPresenter) Attach(program *tea.Program) {
	p.mu.Lock()
	p.program = program
	p.mu.Unlock()
}

func (p *ProgramPresenter) send(msg tea.Msg) {
	p.mu.RLock()
	program := p.program
	p.mu.RUnlock()
	if program != nil {
		program.Send(msg)
	}
}

// Present implements session.Presenter.
func (p *ProgramPresenter) Present(snap session.Snapshot) {
	p.send(SnapshotMsg(snap))
}

// Alert implements session.Presenter.
func (p *ProgramPresenter) Alert(message string) {
	p.send(AlertMsg{Message: message})
}
