package parley_test

import (
	"testing"
	"time"

	"github.com/fwojciec/parley"
	"github.com/stretchr/testify/assert"
)

func TestDirection_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "outgoing", parley.Outgoing.String())
	assert.Equal(t, "incoming", parley.Incoming.String())
	assert.Equal(t, "unknown", parley.Direction(7).String())
}

func TestParseDirection(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want parley.Direction
		ok   bool
	}{
		{"outgoing", parley.Outgoing, true},
		{"ME", parley.Outgoing, true},
		{" in ", parley.Incoming, true},
		{"them", parley.Incoming, true},
		{"sideways", 0, false},
	}
	for _, tt := range tests {
		got, ok := parley.ParseDirection(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

func TestNewMessage(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	a := parley.NewMessage("You", "hi", parley.Outgoing, now)
	b := parley.NewMessage("You", "hi", parley.Outgoing, now)

	assert.Equal(t, "You", a.Sender)
	assert.Equal(t, "hi", a.Body)
	assert.Equal(t, parley.Outgoing, a.Direction)
	assert.Equal(t, now, a.SentAt)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestIsBlank(t *testing.T) {
	t.Parallel()
	assert.True(t, parley.IsBlank(""))
	assert.True(t, parley.IsBlank(" \t\n"))
	assert.False(t, parley.IsBlank(" x "))
}
