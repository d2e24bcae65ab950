package parley

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
)

// Session tracks the active conversation and mediates the presentation
// layer's intents. It holds only the active id and per-conversation unread
// counters; histories stay in the ConversationStore.
//
// A Session is not safe for concurrent use. All methods must be called from
// the serial context that owns the store.
type Session struct {
	store   ConversationStore
	replies ReplyScheduler
	clock   clockwork.Clock
	logger  *log.Logger

	localUser string
	active    ConversationID
	unread    map[ConversationID]int
	favorites []Favorite
}

// Favorite is a starred message and the conversation it was starred in.
// It is a snapshot: removing the conversation keeps the favorite.
type Favorite struct {
	ConversationID ConversationID
	Message        Message
	StarredAt      time.Time
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLocalUser sets the sender label of outgoing messages.
// Defaults to the label of DefaultCatalogue.
func WithLocalUser(label string) SessionOption {
	return func(s *Session) {
		s.localUser = label
	}
}

// WithSessionClock sets the clock used to timestamp outgoing messages.
func WithSessionClock(c clockwork.Clock) SessionOption {
	return func(s *Session) {
		s.clock = c
	}
}

// WithSessionLogger sets the logger. If nil or not set, logs are discarded.
func WithSessionLogger(l *log.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession creates a Session whose active conversation is the first one
// listed by the store.
func NewSession(store ConversationStore, replies ReplyScheduler, opts ...SessionOption) (*Session, error) {
	s := &Session{
		store:     store,
		replies:   replies,
		localUser: DefaultCatalogue().LocalUser,
		unread:    make(map[ConversationID]int),
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
	convs := store.Conversations()
	if len(convs) == 0 {
		return nil, fmt.Errorf("store has no conversations: %w", ErrValidation)
	}
	s.active = convs[0].ID
	return s, nil
}

// LocalUser returns the sender label of outgoing messages.
func (s *Session) LocalUser() string { return s.localUser }

// CurrentConversationID returns the id of the active conversation.
func (s *Session) CurrentConversationID() ConversationID { return s.active }

// Conversations returns the store's conversation summaries.
func (s *Session) Conversations() []Conversation { return s.store.Conversations() }

// History returns the history of any conversation.
func (s *Session) History(id ConversationID) ([]Message, error) {
	return s.store.History(id)
}

// Unread returns the number of replies that landed in id while it was not
// the active conversation.
func (s *Session) Unread(id ConversationID) int { return s.unread[id] }

// SwitchConversation makes id the active conversation and returns its full
// history. On error the active conversation is unchanged. Pending replies
// are left untouched.
func (s *Session) SwitchConversation(id ConversationID) ([]Message, error) {
	history, err := s.store.History(id)
	if err != nil {
		return nil, fmt.Errorf("switch to %d: %w", id, err)
	}
	s.logger.Debug("switch conversation", "from", s.active, "to", id)
	s.active = id
	delete(s.unread, id)
	return history, nil
}

// SendText appends text as an outgoing message to the active conversation
// and schedules one simulated reply for it. The text is sanitized and
// trimmed first. Blank text is discarded: SendText
// returns nil, nil and has no side effect.
func (s *Session) SendText(text string) (*Message, error) {
	text = strings.TrimSpace(SanitizeBody(text))
	if text == "" {
		return nil, nil
	}
	target := s.active
	msg := NewMessage(s.localUser, text, Outgoing, s.clock.Now())
	if err := s.store.Append(target, msg); err != nil {
		return nil, fmt.Errorf("send to %d: %w", target, err)
	}
	reply := s.replies.Schedule(target)
	s.logger.Debug("sent message", "conversation", target, "id", msg.ID, "reply_at", reply.FireAt)
	return &msg, nil
}

// Observe records a delivered reply. Replies that land outside the active
// conversation count as unread.
func (s *Session) Observe(d Delivery) {
	if d.ConversationID != s.active {
		s.unread[d.ConversationID]++
	}
}

// CreateConversation adds a conversation and makes it active.
func (s *Session) CreateConversation(displayName, subtitle string) (Conversation, error) {
	if IsBlank(displayName) {
		return Conversation{}, fmt.Errorf("display name is blank: %w", ErrValidation)
	}
	conv, err := s.store.Create(strings.TrimSpace(displayName), strings.TrimSpace(subtitle))
	if err != nil {
		return Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	s.logger.Info("created conversation", "id", conv.ID, "name", conv.DisplayName)
	s.active = conv.ID
	return conv, nil
}

// RemoveConversation deletes a conversation. The last remaining conversation
// cannot be removed. Removing the active conversation activates the first
// remaining one. Replies still pending for id are dropped when they fire.
func (s *Session) RemoveConversation(id ConversationID) error {
	convs := s.store.Conversations()
	if len(convs) == 1 && convs[0].ID == id {
		return fmt.Errorf("cannot remove the last conversation: %w", ErrValidation)
	}
	if err := s.store.Remove(id); err != nil {
		return fmt.Errorf("remove %d: %w", id, err)
	}
	delete(s.unread, id)
	s.logger.Info("removed conversation", "id", id)
	if id == s.active {
		s.active = s.store.Conversations()[0].ID
	}
	return nil
}

// Apply carries out a parsed intent. It returns the stored message for
// IntentSend (nil when the text was blank) and nil otherwise. IntentWait is
// a no-op here; waiting for replies is up to the driver.
func (s *Session) Apply(in Intent) (*Message, error) {
	switch in.Kind {
	case IntentSend:
		return s.SendText(in.Text)
	case IntentSwitch:
		_, err := s.SwitchConversation(in.ID)
		return nil, err
	case IntentCreate:
		_, err := s.CreateConversation(in.Name, in.Subtitle)
		return nil, err
	case IntentRemove:
		return nil, s.RemoveConversation(in.ID)
	case IntentFavorite:
		return nil, s.toggleNth(in.Index)
	case IntentJump:
		_, err := s.OpenFavorite(in.Index)
		return nil, err
	case IntentWait:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown intent %d: %w", in.Kind, ErrValidation)
	}
}

// ToggleFavorite stars the message with msgID, or unstars it if it is
// already a favorite. It reports whether the message is a favorite
// afterwards.
func (s *Session) ToggleFavorite(msgID string) (bool, error) {
	if i := s.favoriteIndex(msgID); i >= 0 {
		s.favorites = slices.Delete(s.favorites, i, i+1)
		return false, nil
	}
	for _, c := range s.store.Conversations() {
		history, err := s.store.History(c.ID)
		if err != nil {
			return false, fmt.Errorf("favorite %s: %w", msgID, err)
		}
		for _, m := range history {
			if m.ID == msgID {
				s.favorites = append(s.favorites, Favorite{
					ConversationID: c.ID,
					Message:        m,
					StarredAt:      s.clock.Now(),
				})
				return true, nil
			}
		}
	}
	return false, fmt.Errorf("favorite %s: %w", msgID, ErrMessageNotFound)
}

// IsFavorite reports whether msgID is starred.
func (s *Session) IsFavorite(msgID string) bool {
	return s.favoriteIndex(msgID) >= 0
}

// Favorites returns the starred messages across all conversations in the
// order they were starred.
func (s *Session) Favorites() []Favorite {
	return slices.Clone(s.favorites)
}

// OpenFavorite switches to the conversation of the n-th favorite (1-based)
// and returns its history.
func (s *Session) OpenFavorite(n int) ([]Message, error) {
	if n < 1 || n > len(s.favorites) {
		return nil, fmt.Errorf("no favorite %d: %w", n, ErrValidation)
	}
	return s.SwitchConversation(s.favorites[n-1].ConversationID)
}

// toggleNth toggles the n-th message (1-based) of the active conversation.
func (s *Session) toggleNth(n int) error {
	history, err := s.store.History(s.active)
	if err != nil {
		return err
	}
	if n < 1 || n > len(history) {
		return fmt.Errorf("no message %d in conversation %d: %w", n, s.active, ErrValidation)
	}
	_, err = s.ToggleFavorite(history[n-1].ID)
	return err
}

func (s *Session) favoriteIndex(msgID string) int {
	return slices.IndexFunc(s.favorites, func(f Favorite) bool {
		return f.Message.ID == msgID
	})
}
