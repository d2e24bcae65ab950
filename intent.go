package parley

import (
	"fmt"
	"strconv"
	"strings"
)

// IntentKind identifies what a line of user input asks for.
type IntentKind int

const (
	IntentSend IntentKind = iota
	IntentSwitch
	IntentCreate
	IntentRemove
	IntentWait
	IntentFavorite
	IntentJump
)

// String returns the command name of the kind.
func (k IntentKind) String() string {
	switch k {
	case IntentSend:
		return "send"
	case IntentSwitch:
		return "switch"
	case IntentCreate:
		return "new"
	case IntentRemove:
		return "remove"
	case IntentWait:
		return "wait"
	case IntentFavorite:
		return "fav"
	case IntentJump:
		return "jump"
	default:
		return "unknown"
	}
}

// Intent is a parsed line of user input.
type Intent struct {
	Kind     IntentKind
	Text     string         // IntentSend
	ID       ConversationID // IntentSwitch, IntentRemove
	Name     string         // IntentCreate
	Subtitle string         // IntentCreate
	Index    int            // IntentFavorite, IntentJump (1-based)
}

// ParseIntent parses one line of input. Recognised commands are
//
//	/switch <id>
//	/new <name> [| subtitle]
//	/remove <id>
//	/fav <n>    star or unstar the n-th message of the active conversation
//	/jump <k>   switch to the conversation of the k-th favorite
//	/wait
//
// Anything else, including unknown slash words, is text to send. A leading
// "//" escapes the slash so "//switch" sends "/switch".
func ParseIntent(line string) (Intent, error) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "//") {
		return Intent{Kind: IntentSend, Text: trimmed[1:]}, nil
	}
	if !strings.HasPrefix(trimmed, "/") {
		return Intent{Kind: IntentSend, Text: line}, nil
	}

	word, rest, _ := strings.Cut(trimmed[1:], " ")
	rest = strings.TrimSpace(rest)
	switch word {
	case "switch", "remove":
		id, err := parseID(rest)
		if err != nil {
			return Intent{}, fmt.Errorf("/%s: %w", word, err)
		}
		kind := IntentSwitch
		if word == "remove" {
			kind = IntentRemove
		}
		return Intent{Kind: kind, ID: id}, nil
	case "new":
		name, subtitle, _ := strings.Cut(rest, "|")
		name = strings.TrimSpace(name)
		if name == "" {
			return Intent{}, fmt.Errorf("/new: missing name: %w", ErrValidation)
		}
		return Intent{Kind: IntentCreate, Name: name, Subtitle: strings.TrimSpace(subtitle)}, nil
	case "fav", "jump":
		n, err := parseIndex(rest)
		if err != nil {
			return Intent{}, fmt.Errorf("/%s: %w", word, err)
		}
		kind := IntentFavorite
		if word == "jump" {
			kind = IntentJump
		}
		return Intent{Kind: kind, Index: n}, nil
	case "wait":
		return Intent{Kind: IntentWait}, nil
	default:
		return Intent{Kind: IntentSend, Text: line}, nil
	}
}

func parseID(s string) (ConversationID, error) {
	if s == "" {
		return 0, fmt.Errorf("missing conversation id: %w", ErrValidation)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid conversation id %q: %w", s, ErrValidation)
	}
	return ConversationID(n), nil
}

func parseIndex(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("missing number: %w", ErrValidation)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid number %q: %w", s, ErrValidation)
	}
	return n, nil
}
