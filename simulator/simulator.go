// Package simulator emulates a remote participant that answers every
// outgoing message with a canned reply after a short random delay.
//
// Timers never touch conversation state. When a timer elapses the simulator
// posts a task to its parley.Executor, and the task fires every reply that
// is due at that moment on the serial context.
package simulator

import (
	"container/heap"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fwojciec/parley"
	"github.com/jonboulle/clockwork"
)

// Interface compliance check.
var _ parley.ReplyScheduler = (*Simulator)(nil)

// Simulator schedules and fires simulated replies.
type Simulator struct {
	store  parley.ConversationStore
	exec   parley.Executor
	clock  clockwork.Clock
	logger *log.Logger
	notify func(parley.Delivery)
	active func() parley.ConversationID

	pool   []string
	delay  parley.DelayRange
	sender string
	target parley.ReplyTarget

	mu      sync.Mutex // guards rng, queue, seq, drained
	rng     *rand.Rand
	queue   replyQueue
	seq     uint64
	drained chan struct{}
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithClock sets the clock used for timestamps and timers.
func WithClock(c clockwork.Clock) Option {
	return func(s *Simulator) {
		s.clock = c
	}
}

// WithRand sets the random source for delays and response selection.
func WithRand(r *rand.Rand) Option {
	return func(s *Simulator) {
		s.rng = r
	}
}

// WithSeed seeds a deterministic random source.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithNotifier sets the callback invoked on the serial context after each
// reply has been appended.
func WithNotifier(fn func(parley.Delivery)) Option {
	return func(s *Simulator) {
		s.notify = fn
	}
}

// WithActiveResolver sets the function that reports the active conversation.
// It is required when the catalogue's ReplyTarget is parley.TargetActive.
func WithActiveResolver(fn func() parley.ConversationID) Option {
	return func(s *Simulator) {
		s.active = fn
	}
}

// WithLogger sets the logger. If nil or not set, logs are discarded.
func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) {
		s.logger = l
	}
}

// New creates a Simulator that appends replies to store and runs its fire
// tasks on exec. Reply timing, the response pool, the sender label and the
// target policy come from cat.
func New(store parley.ConversationStore, exec parley.Executor, cat parley.Catalogue, opts ...Option) (*Simulator, error) {
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("simulator: %w", err)
	}
	target, err := parley.ParseReplyTarget(string(cat.ReplyTarget))
	if err != nil {
		return nil, fmt.Errorf("simulator: %w", err)
	}
	s := &Simulator{
		store:   store,
		exec:    exec,
		pool:    sanitizePool(cat.ResponsePool),
		delay:   cat.ReplyDelay,
		sender:  cat.ReplySender,
		target:  target,
		drained: make(chan struct{}),
	}
	close(s.drained)
	for _, opt := range opts {
		opt(s)
	}
	if s.target == parley.TargetActive && s.active == nil {
		return nil, fmt.Errorf("simulator: reply target %q needs an active resolver: %w", s.target, parley.ErrValidation)
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s, nil
}

// Schedule creates a pending reply for conversation id, due after a delay
// drawn uniformly from the configured range. Every call schedules an
// independent reply; nothing is merged or capped.
func (s *Simulator) Schedule(id parley.ConversationID) parley.PendingReply {
	s.mu.Lock()
	delay := s.nextDelay()
	s.seq++
	reply := parley.PendingReply{
		Seq:    s.seq,
		Target: id,
		FireAt: s.clock.Now().Add(delay),
	}
	if s.queue.Len() == 0 {
		s.drained = make(chan struct{})
	}
	heap.Push(&s.queue, reply)
	s.mu.Unlock()

	s.clock.AfterFunc(delay, func() {
		s.exec.Post(s.fireTask)
	})
	s.logger.Debug("scheduled reply", "conversation", id, "seq", reply.Seq, "delay", delay)
	return reply
}

// FireDue fires every pending reply whose time has come, in FireAt order,
// and returns the resulting deliveries. It must run on the serial context.
// A reply whose target no longer exists is dropped.
func (s *Simulator) FireDue() []parley.Delivery {
	now := s.clock.Now()
	var out []parley.Delivery
	for {
		reply, body, ok := s.popDue(now)
		if !ok {
			break
		}
		d, err := s.fire(reply, body)
		if err != nil {
			if errors.Is(err, parley.ErrNotFound) {
				s.logger.Warn("dropped reply", "conversation", reply.Target, "seq", reply.Seq, "err", err)
				continue
			}
			s.logger.Error("reply failed", "conversation", reply.Target, "seq", reply.Seq, "err", err)
			continue
		}
		out = append(out, d)
		if s.notify != nil {
			s.notify(d)
		}
	}
	s.markDrained()
	return out
}

// Pending returns the replies that have not fired yet, earliest first.
func (s *Simulator) Pending() []parley.PendingReply {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone([]parley.PendingReply(s.queue))
	slices.SortFunc(out, compareReply)
	return out
}

// Len returns the number of pending replies.
func (s *Simulator) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// Drained returns a channel that is closed once no reply is pending.
// A reply scheduled later replaces the channel; call Drained again to wait
// for it.
func (s *Simulator) Drained() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drained
}

func (s *Simulator) fireTask() {
	s.FireDue()
}

// fire appends one reply. The target is resolved at fire time.
func (s *Simulator) fire(reply parley.PendingReply, body string) (parley.Delivery, error) {
	target := reply.Target
	if s.target == parley.TargetActive {
		target = s.active()
	}
	msg := parley.NewMessage(s.sender, body, parley.Incoming, s.clock.Now())
	if err := s.store.Append(target, msg); err != nil {
		return parley.Delivery{}, err
	}
	s.logger.Debug("delivered reply", "conversation", target, "seq", reply.Seq)
	return parley.Delivery{Reply: reply, ConversationID: target, Message: msg}, nil
}

// popDue removes the earliest reply if it is due at now and picks its body.
func (s *Simulator) popDue(now time.Time) (parley.PendingReply, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queue.Len() == 0 || s.queue[0].FireAt.After(now) {
		return parley.PendingReply{}, "", false
	}
	reply := heap.Pop(&s.queue).(parley.PendingReply)
	return reply, s.pool[s.rng.IntN(len(s.pool))], true
}

func (s *Simulator) markDrained() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queue.Len() > 0 {
		return
	}
	select {
	case <-s.drained:
	default:
		close(s.drained)
	}
}

// nextDelay must be called with mu held.
func (s *Simulator) nextDelay() time.Duration {
	span := s.delay.Max - s.delay.Min
	if span <= 0 {
		return s.delay.Min
	}
	return s.delay.Min + time.Duration(s.rng.Int64N(int64(span)))
}

func sanitizePool(pool []string) []string {
	out := make([]string, len(pool))
	for i, r := range pool {
		out[i] = parley.SanitizeBody(r)
	}
	return out
}
