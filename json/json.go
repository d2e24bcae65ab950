// Package json reads and writes catalogues in the v1 JSON envelope format.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/parley"
)

// envelope is the v1 wire format for a catalogue.
type envelope struct {
	Version       int               `json:"version"`
	LocalUser     string            `json:"local_user,omitempty"`
	ReplySender   string            `json:"reply_sender,omitempty"`
	ReplyDelayMS  []int64           `json:"reply_delay_ms,omitempty"`
	ReplyTarget   string            `json:"reply_target,omitempty"`
	ResponsePool  []string          `json:"response_pool,omitempty"`
	Conversations []conversationDTO `json:"conversations,omitempty"`
}

type conversationDTO struct {
	DisplayName string       `json:"display_name"`
	Subtitle    string       `json:"subtitle,omitempty"`
	History     []messageDTO `json:"history,omitempty"`
}

// messageDTO is the JSON representation of a SeedMessage. From is
// "outgoing" or "incoming" (aliases: "me", "them").
type messageDTO struct {
	From string `json:"from"`
	Body string `json:"body"`
}

// MarshalCatalogue serializes a Catalogue to JSON in v1 envelope format.
func MarshalCatalogue(c parley.Catalogue) ([]byte, error) {
	env := envelope{
		Version:      1,
		LocalUser:    c.LocalUser,
		ReplySender:  c.ReplySender,
		ReplyTarget:  string(c.ReplyTarget),
		ResponsePool: c.ResponsePool,
	}
	if c.ReplyDelay != (parley.DelayRange{}) {
		env.ReplyDelayMS = []int64{c.ReplyDelay.Min.Milliseconds(), c.ReplyDelay.Max.Milliseconds()}
	}
	for _, conv := range c.Conversations {
		dto := conversationDTO{DisplayName: conv.DisplayName, Subtitle: conv.Subtitle}
		for _, m := range conv.History {
			dto.History = append(dto.History, messageDTO{From: m.Direction.String(), Body: m.Body})
		}
		env.Conversations = append(env.Conversations, dto)
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalCatalogue deserializes a Catalogue from JSON in v1 envelope
// format. Unset fields stay zero; callers merge the result over defaults.
func UnmarshalCatalogue(data []byte) (parley.Catalogue, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return parley.Catalogue{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return parley.Catalogue{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	c := parley.Catalogue{
		LocalUser:    env.LocalUser,
		ReplySender:  env.ReplySender,
		ReplyTarget:  parley.ReplyTarget(env.ReplyTarget),
		ResponsePool: env.ResponsePool,
	}
	switch len(env.ReplyDelayMS) {
	case 0:
	case 2:
		c.ReplyDelay = parley.DelayRange{
			Min: time.Duration(env.ReplyDelayMS[0]) * time.Millisecond,
			Max: time.Duration(env.ReplyDelayMS[1]) * time.Millisecond,
		}
	default:
		return parley.Catalogue{}, fmt.Errorf("reply_delay_ms must be [min, max], got %d values: %w", len(env.ReplyDelayMS), parley.ErrValidation)
	}
	for i, dto := range env.Conversations {
		conv := parley.SeedConversation{DisplayName: dto.DisplayName, Subtitle: dto.Subtitle}
		for j, m := range dto.History {
			dir, ok := parley.ParseDirection(m.From)
			if !ok {
				return parley.Catalogue{}, fmt.Errorf("conversation %d message %d: unknown sender %q: %w", i, j, m.From, parley.ErrValidation)
			}
			conv.History = append(conv.History, parley.SeedMessage{Direction: dir, Body: m.Body})
		}
		c.Conversations = append(c.Conversations, conv)
	}
	return c, nil
}

// Save writes a Catalogue to a JSON file, creating parent directories as needed.
func Save(path string, c parley.Catalogue) error {
	data, err := MarshalCatalogue(c)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Catalogue from a JSON file.
func Load(path string) (parley.Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return parley.Catalogue{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalCatalogue(data)
}
