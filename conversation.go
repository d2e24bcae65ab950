package parley

// ConversationID identifies a conversation. IDs are assigned by the store,
// start at 1 and are never reused.
type ConversationID int

// Conversation is the summary of a conversation as listed to the
// presentation layer. Histories are owned by the ConversationStore.
type Conversation struct {
	ID          ConversationID
	DisplayName string
	Subtitle    string
}

// ConversationStore owns every conversation and its append-only history.
// Implementations return copies; callers never hold a reference into a
// stored history.
type ConversationStore interface {
	// Conversations returns summaries in creation order.
	Conversations() []Conversation
	// History returns the messages of a conversation in append order.
	History(id ConversationID) ([]Message, error)
	// Append adds a message to the end of a conversation's history.
	Append(id ConversationID, msg Message) error
	// Create adds a conversation at the end of the ordering.
	Create(displayName, subtitle string) (Conversation, error)
	// Remove deletes a conversation and its history.
	Remove(id ConversationID) error
}
