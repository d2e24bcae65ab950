// Package yaml reads catalogues written in YAML.
//
// The document uses the same keys as the JSON envelope:
//
//	local_user: You
//	reply_sender: Companion
//	reply_delay: {min: 1s, max: 2s}
//	reply_target: origin
//	response_pool: ["Sounds good!"]
//	conversations:
//	  - display_name: Alice
//	    subtitle: Product design
//	    history:
//	      - {from: me, body: Hi}
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fwojciec/parley"
	"gopkg.in/yaml.v3"
)

type document struct {
	LocalUser     string            `yaml:"local_user"`
	ReplySender   string            `yaml:"reply_sender"`
	ReplyDelay    *delayDTO         `yaml:"reply_delay"`
	ReplyTarget   string            `yaml:"reply_target"`
	ResponsePool  []string          `yaml:"response_pool"`
	Conversations []conversationDTO `yaml:"conversations"`
}

// delayDTO accepts Go duration strings such as "1500ms" or "2s".
type delayDTO struct {
	Min string `yaml:"min"`
	Max string `yaml:"max"`
}

type conversationDTO struct {
	DisplayName string       `yaml:"display_name"`
	Subtitle    string       `yaml:"subtitle"`
	History     []messageDTO `yaml:"history"`
}

type messageDTO struct {
	From string `yaml:"from"`
	Body string `yaml:"body"`
}

// UnmarshalCatalogue decodes a YAML catalogue. Unknown keys are rejected.
// An empty document yields a zero Catalogue.
func UnmarshalCatalogue(data []byte) (parley.Catalogue, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return parley.Catalogue{}, fmt.Errorf("decode yaml: %w", err)
	}

	c := parley.Catalogue{
		LocalUser:    doc.LocalUser,
		ReplySender:  doc.ReplySender,
		ReplyTarget:  parley.ReplyTarget(doc.ReplyTarget),
		ResponsePool: doc.ResponsePool,
	}
	if doc.ReplyDelay != nil {
		minDelay, err := time.ParseDuration(doc.ReplyDelay.Min)
		if err != nil {
			return parley.Catalogue{}, fmt.Errorf("reply_delay.min: %v: %w", err, parley.ErrValidation)
		}
		maxDelay, err := time.ParseDuration(doc.ReplyDelay.Max)
		if err != nil {
			return parley.Catalogue{}, fmt.Errorf("reply_delay.max: %v: %w", err, parley.ErrValidation)
		}
		c.ReplyDelay = parley.DelayRange{Min: minDelay, Max: maxDelay}
	}
	for i, dto := range doc.Conversations {
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

// Load reads a Catalogue from a YAML file.
func Load(path string) (parley.Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return parley.Catalogue{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalCatalogue(data)
}
