// Package mock provides test doubles for parley interfaces using function fields.
package mock

import "github.com/fwojciec/parley"

// Interface compliance checks.
var (
	_ parley.ConversationStore = (*Store)(nil)
	_ parley.ReplyScheduler    = (*Scheduler)(nil)
	_ parley.Executor          = (*Executor)(nil)
)

// Store is a test double for parley.ConversationStore.
// Set the function fields for the methods you need.
type Store struct {
	ConversationsFn func() []parley.Conversation
	HistoryFn       func(id parley.ConversationID) ([]parley.Message, error)
	AppendFn        func(id parley.ConversationID, msg parley.Message) error
	CreateFn        func(displayName, subtitle string) (parley.Conversation, error)
	RemoveFn        func(id parley.ConversationID) error
}

// Conversations delegates to ConversationsFn.
func (s *Store) Conversations() []parley.Conversation {
	return s.ConversationsFn()
}

// History delegates to HistoryFn.
func (s *Store) History(id parley.ConversationID) ([]parley.Message, error) {
	return s.HistoryFn(id)
}

// Append delegates to AppendFn.
func (s *Store) Append(id parley.ConversationID, msg parley.Message) error {
	return s.AppendFn(id, msg)
}

// Create delegates to CreateFn.
func (s *Store) Create(displayName, subtitle string) (parley.Conversation, error) {
	return s.CreateFn(displayName, subtitle)
}

// Remove delegates to RemoveFn.
func (s *Store) Remove(id parley.ConversationID) error {
	return s.RemoveFn(id)
}

// Scheduler is a test double for parley.ReplyScheduler.
// Set ScheduleFn before calling Schedule.
type Scheduler struct {
	ScheduleFn func(id parley.ConversationID) parley.PendingReply
}

// Schedule delegates to ScheduleFn.
func (s *Scheduler) Schedule(id parley.ConversationID) parley.PendingReply {
	return s.ScheduleFn(id)
}

// Executor is a test double for parley.Executor.
// Set PostFn before calling Post.
type Executor struct {
	PostFn func(fn func())
}

// Post delegates to PostFn.
func (e *Executor) Post(fn func()) {
	e.PostFn(fn)
}
