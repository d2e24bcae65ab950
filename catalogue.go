package parley

import (
	"fmt"
	"strings"
	"time"
)

// ReplyTarget selects which conversation a simulated reply lands in.
type ReplyTarget string

const (
	// TargetOrigin appends the reply to the conversation the triggering
	// message was sent to, even if the user has switched away since.
	TargetOrigin ReplyTarget = "origin"
	// TargetActive appends the reply to whatever conversation is active
	// when the reply fires.
	TargetActive ReplyTarget = "active"
)

// ParseReplyTarget parses "origin" or "active". Empty input yields
// TargetOrigin.
func ParseReplyTarget(s string) (ReplyTarget, error) {
	switch ReplyTarget(strings.ToLower(strings.TrimSpace(s))) {
	case "", TargetOrigin:
		return TargetOrigin, nil
	case TargetActive:
		return TargetActive, nil
	default:
		return "", fmt.Errorf("unknown reply target %q: %w", s, ErrValidation)
	}
}

// DelayRange is the half-open interval [Min, Max) a reply delay is drawn from.
type DelayRange struct {
	Min time.Duration
	Max time.Duration
}

// SeedMessage is one scripted message of a seeded conversation.
type SeedMessage struct {
	Direction Direction
	Body      string
}

// SeedConversation describes a conversation present at startup.
type SeedConversation struct {
	DisplayName string
	Subtitle    string
	History     []SeedMessage
}

// Catalogue is the static configuration of the simulator: the seeded
// conversations, the canned response pool and the reply timing.
type Catalogue struct {
	LocalUser     string // Sender label of outgoing messages.
	ReplySender   string // Sender label of simulated replies.
	Conversations []SeedConversation
	ResponsePool  []string
	ReplyDelay    DelayRange
	ReplyTarget   ReplyTarget
}

// DefaultCatalogue returns the built-in demo catalogue.
func DefaultCatalogue() Catalogue {
	return Catalogue{
		LocalUser:   "You",
		ReplySender: "Companion",
		Conversations: []SeedConversation{
			{
				DisplayName: "Alice Martin",
				Subtitle:    "Product design",
				History: []SeedMessage{
					{Direction: Outgoing, Body: "Hi Alice, did you get a chance to look at the mockups?"},
					{Direction: Incoming, Body: "Yes! The new sidebar looks *much* cleaner."},
					{Direction: Outgoing, Body: "Great. Any changes before I hand them over?"},
					{Direction: Incoming, Body: "Maybe bump the unread badge contrast a little."},
				},
			},
			{
				DisplayName: "Dev Team",
				Subtitle:    "5 members",
				History: []SeedMessage{
					{Direction: Incoming, Body: "Deploy is green, `main` is tagged."},
					{Direction: Outgoing, Body: "Nice work everyone."},
					{Direction: Incoming, Body: "Retro moved to Thursday."},
					{Direction: Outgoing, Body: "Noted, I'll update the invite."},
				},
			},
			{
				DisplayName: "Bob Chen",
				Subtitle:    "Last seen recently",
				History: []SeedMessage{
					{Direction: Outgoing, Body: "Lunch tomorrow?"},
					{Direction: Incoming, Body: "Sure, the usual place at noon."},
				},
			},
			{
				DisplayName: "Support",
				Subtitle:    "Always here to help",
				History: []SeedMessage{
					{Direction: Incoming, Body: "Welcome! Ask us anything."},
					{Direction: Outgoing, Body: "Thanks, will do."},
				},
			},
		},
		ResponsePool: []string{
			"Sounds good!",
			"Let me think about it.",
			"Interesting, tell me more.",
			"Sure, why not?",
			"I'll get back to you soon.",
			"Haha, **exactly**.",
			"Got it, thanks!",
			"Can we talk about this later?",
		},
		ReplyDelay:  DelayRange{Min: time.Second, Max: 2 * time.Second},
		ReplyTarget: TargetOrigin,
	}
}

// Validate checks the catalogue for structural problems.
func (c Catalogue) Validate() error {
	if strings.TrimSpace(c.LocalUser) == "" {
		return fmt.Errorf("local user label is required: %w", ErrValidation)
	}
	if strings.TrimSpace(c.ReplySender) == "" {
		return fmt.Errorf("reply sender label is required: %w", ErrValidation)
	}
	if c.ReplySender == c.LocalUser {
		return fmt.Errorf("reply sender %q must differ from local user: %w", c.ReplySender, ErrValidation)
	}
	if len(c.Conversations) == 0 {
		return fmt.Errorf("at least one conversation is required: %w", ErrValidation)
	}
	for i, conv := range c.Conversations {
		if strings.TrimSpace(conv.DisplayName) == "" {
			return fmt.Errorf("conversation %d: display name is required: %w", i, ErrValidation)
		}
		if conv.DisplayName == c.LocalUser {
			return fmt.Errorf("conversation %d: display name %q collides with local user: %w", i, conv.DisplayName, ErrValidation)
		}
		for j, m := range conv.History {
			if IsBlank(m.Body) {
				return fmt.Errorf("conversation %d message %d: body is blank: %w", i, j, ErrValidation)
			}
			if m.Direction != Outgoing && m.Direction != Incoming {
				return fmt.Errorf("conversation %d message %d: unknown direction %d: %w", i, j, m.Direction, ErrValidation)
			}
		}
	}
	if len(c.ResponsePool) == 0 {
		return fmt.Errorf("response pool is empty: %w", ErrValidation)
	}
	for i, r := range c.ResponsePool {
		if IsBlank(r) {
			return fmt.Errorf("response %d is blank: %w", i, ErrValidation)
		}
	}
	if c.ReplyDelay.Min < 0 || c.ReplyDelay.Max < c.ReplyDelay.Min {
		return fmt.Errorf("reply delay must satisfy 0 <= min <= max, got [%s, %s): %w",
			c.ReplyDelay.Min, c.ReplyDelay.Max, ErrValidation)
	}
	if c.ReplyDelay.Max == 0 {
		return fmt.Errorf("reply delay max must be positive: %w", ErrValidation)
	}
	if _, err := ParseReplyTarget(string(c.ReplyTarget)); err != nil {
		return err
	}
	return nil
}

// Merge returns c extended by other: conversations and responses are
// appended, scalar fields set in other override those of c.
func (c Catalogue) Merge(other Catalogue) Catalogue {
	out := c
	out.Conversations = append(append([]SeedConversation(nil), c.Conversations...), other.Conversations...)
	out.ResponsePool = append(append([]string(nil), c.ResponsePool...), other.ResponsePool...)
	if other.LocalUser != "" {
		out.LocalUser = other.LocalUser
	}
	if other.ReplySender != "" {
		out.ReplySender = other.ReplySender
	}
	if other.ReplyDelay != (DelayRange{}) {
		out.ReplyDelay = other.ReplyDelay
	}
	if other.ReplyTarget != "" {
		out.ReplyTarget = other.ReplyTarget
	}
	return out
}
