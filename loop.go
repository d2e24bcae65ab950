package parley

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Loop is a serial execution context: it runs posted tasks one at a time on
// the goroutine that called Run. Every mutation of conversation state goes
// through a Loop (or an equivalent Executor) so no two mutations overlap.
type Loop struct {
	tasks  chan func()
	done   chan struct{}
	once   sync.Once
	logger *log.Logger
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLoopLogger sets the logger used to report recovered task panics.
func WithLoopLogger(l *log.Logger) LoopOption {
	return func(lp *Loop) {
		lp.logger = l
	}
}

// WithQueueSize sets the task buffer size. Defaults to 64.
func WithQueueSize(n int) LoopOption {
	return func(lp *Loop) {
		lp.tasks = make(chan func(), n)
	}
}

// NewLoop creates a Loop. Call Run to start processing tasks.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = log.New(io.Discard)
	}
	return l
}

// Interface compliance check.
var _ Executor = (*Loop)(nil)

// Run processes tasks until ctx is cancelled. It returns ctx.Err().
// Tasks still queued at shutdown are discarded.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			l.exec(fn)
		}
	}
}

// Post enqueues fn. It blocks while the queue is full and drops fn once the
// loop has stopped.
func (l *Loop) Post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.done:
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}
	select {
	case l.tasks <- task:
	case <-l.done:
		return fmt.Errorf("loop stopped: %w", context.Canceled)
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return fmt.Errorf("loop stopped: %w", context.Canceled)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// exec runs fn, recovering a panic so one bad task cannot stop the loop.
func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("task panicked", "panic", r)
		}
	}()
	fn()
}
