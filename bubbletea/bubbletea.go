// Package bubbletea provides a two-pane Bubble Tea TUI for parley: the
// conversation list on the left, the active conversation on the right.
package bubbletea

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Run creates and runs the Bubble Tea program. It blocks until the program
// exits. exec is attached to the program before it starts so tasks posted
// by timers are delivered to the Update loop.
func Run(ctx context.Context, m Model, exec *ProgramExecutor) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	exec.Attach(p)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// TaskMsg carries a task posted to the serial context. Update runs Fn and
// re-renders.
type TaskMsg struct {
	Fn func()
}

// Sender delivers messages to a running program. *tea.Program and
// teatest's TestModel both satisfy it.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramExecutor is a parley.Executor backed by a Bubble Tea program.
// Tasks posted before Attach are buffered and flushed on attach.
//
// Post must not be called from inside Update: Send blocks until the Update
// loop receives the message.
type ProgramExecutor struct {
	mu      sync.Mutex
	sender  Sender
	pending []func()
}

// NewProgramExecutor creates an unattached ProgramExecutor.
func NewProgramExecutor() *ProgramExecutor {
	return &ProgramExecutor{}
}

// Attach sets the program tasks are delivered to and flushes buffered tasks.
func (e *ProgramExecutor) Attach(s Sender) {
	e.mu.Lock()
	e.sender = s
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()

	if len(pending) == 0 {
		return
	}
	go func() {
		for _, fn := range pending {
			s.Send(TaskMsg{Fn: fn})
		}
	}()
}

// Post delivers fn to the program as a TaskMsg.
func (e *ProgramExecutor) Post(fn func()) {
	e.mu.Lock()
	s := e.sender
	if s == nil {
		e.pending = append(e.pending, fn)
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()
	s.Send(TaskMsg{Fn: fn})
}
