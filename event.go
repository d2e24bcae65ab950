package parley

import "time"

// PendingReply is a scheduled, not yet materialized incoming message.
// It is created by a ReplyScheduler and destroyed when it fires.
type PendingReply struct {
	Seq    uint64 // Creation order within one scheduler; breaks FireAt ties.
	Target ConversationID
	FireAt time.Time
}

// ReplyScheduler schedules a simulated reply for a conversation.
type ReplyScheduler interface {
	Schedule(id ConversationID) PendingReply
}

// Delivery is the render notification emitted after a pending reply was
// appended to a conversation.
type Delivery struct {
	Reply          PendingReply
	ConversationID ConversationID
	Message        Message
}

// Executor hands work to the serial context that owns conversation state.
// Post must not run fn on the caller's goroutine unless the caller already
// is the serial context.
type Executor interface {
	Post(fn func())
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(fn func())

// Post calls f(fn).
func (f ExecutorFunc) Post(fn func()) { f(fn) }

// Interface compliance checks.
var _ Executor = ExecutorFunc(nil)
