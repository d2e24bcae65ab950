package parley

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Direction tells whether a message was sent by the local user or received
// from a simulated participant.
type Direction int

const (
	Outgoing Direction = iota // Sent by the local user.
	Incoming                  // Received from a simulated participant.
)

// String returns "outgoing" or "incoming".
func (d Direction) String() string {
	switch d {
	case Outgoing:
		return "outgoing"
	case Incoming:
		return "incoming"
	default:
		return "unknown"
	}
}

// ParseDirection maps "outgoing"/"out"/"me" and "incoming"/"in"/"them" to a
// Direction.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "outgoing", "out", "me":
		return Outgoing, true
	case "incoming", "in", "them":
		return Incoming, true
	default:
		return 0, false
	}
}

// Message is one entry in a conversation's history.
type Message struct {
	ID        string
	Sender    string
	Body      string
	Direction Direction
	SentAt    time.Time
}

// NewMessage builds a message with a fresh random ID.
func NewMessage(sender, body string, dir Direction, sentAt time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Body:      body,
		Direction: dir,
		SentAt:    sentAt,
	}
}

// IsBlank reports whether text is empty once sanitized and trimmed.
func IsBlank(text string) bool {
	return strings.TrimSpace(SanitizeBody(text)) == ""
}
