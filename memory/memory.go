// Package memory provides the in-memory ConversationStore.
package memory

import (
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fwojciec/parley"
	"github.com/jonboulle/clockwork"
)

// Interface compliance check.
var _ parley.ConversationStore = (*Store)(nil)

type conversation struct {
	summary parley.Conversation
	history []parley.Message
}

// Store keeps conversations and their histories in memory. Histories are
// append-only. The lock makes reads from outside the serial context safe;
// writers are still expected to run on the serial context.
type Store struct {
	mu     sync.RWMutex
	order  []parley.ConversationID
	convs  map[parley.ConversationID]*conversation
	nextID parley.ConversationID

	clock  clockwork.Clock
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to stamp seeded messages.
func WithClock(c clockwork.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithLogger sets the logger. If nil or not set, logs are discarded.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore creates a Store seeded from the catalogue's conversations.
// Seed messages are stamped one millisecond apart, ending at the clock's
// current time.
func NewStore(cat parley.Catalogue, opts ...Option) (*Store, error) {
	s := &Store{
		convs:  make(map[parley.ConversationID]*conversation),
		nextID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("seed store: %w", err)
	}

	total := 0
	for _, seed := range cat.Conversations {
		total += len(seed.History)
	}
	stamp := s.clock.Now().Add(-time.Duration(total) * time.Millisecond)

	for _, seed := range cat.Conversations {
		conv := s.create(seed.DisplayName, seed.Subtitle)
		for _, m := range seed.History {
			sender := seed.DisplayName
			if m.Direction == parley.Outgoing {
				sender = cat.LocalUser
			}
			stamp = stamp.Add(time.Millisecond)
			conv.history = append(conv.history, parley.NewMessage(sender, parley.SanitizeBody(m.Body), m.Direction, stamp))
		}
	}
	s.logger.Debug("seeded store", "conversations", len(s.order), "messages", total)
	return s, nil
}

// Conversations returns conversation summaries in creation order.
func (s *Store) Conversations() []parley.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]parley.Conversation, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.convs[id].summary)
	}
	return out
}

// History returns a copy of a conversation's messages.
func (s *Store) History(id parley.ConversationID) ([]parley.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.convs[id]
	if !ok {
		return nil, fmt.Errorf("conversation %d: %w", id, parley.ErrNotFound)
	}
	return slices.Clone(conv.history), nil
}

// Append adds msg to the end of a conversation's history.
func (s *Store) Append(id parley.ConversationID, msg parley.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.convs[id]
	if !ok {
		return fmt.Errorf("conversation %d: %w", id, parley.ErrNotFound)
	}
	conv.history = append(conv.history, msg)
	return nil
}

// Create adds an empty conversation at the end of the ordering.
func (s *Store) Create(displayName, subtitle string) (parley.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv := s.create(displayName, subtitle)
	s.logger.Debug("created conversation", "id", conv.summary.ID)
	return conv.summary, nil
}

// Remove deletes a conversation. Its id is never handed out again.
func (s *Store) Remove(id parley.ConversationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.convs[id]; !ok {
		return fmt.Errorf("conversation %d: %w", id, parley.ErrNotFound)
	}
	delete(s.convs, id)
	s.order = slices.DeleteFunc(s.order, func(o parley.ConversationID) bool { return o == id })
	s.logger.Debug("removed conversation", "id", id)
	return nil
}

// create must be called with mu held or before the store is shared.
func (s *Store) create(displayName, subtitle string) *conversation {
	conv := &conversation{summary: parley.Conversation{
		ID:          s.nextID,
		DisplayName: displayName,
		Subtitle:    subtitle,
	}}
	s.convs[conv.summary.ID] = conv
	s.order = append(s.order, conv.summary.ID)
	s.nextID++
	return conv
}
