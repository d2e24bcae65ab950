package bubbletea_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/parley"
	bt "github.com/fwojciec/parley/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestMessageBubble_View(t *testing.T) {
	t.Parallel()

	theme := parley.DefaultTheme()
	styles := bt.NewStyles(theme)

	t.Run("incoming shows sender body and time", func(t *testing.T) {
		t.Parallel()
		msg := parley.NewMessage("Alice Martin", "See you soon", parley.Incoming, epoch)
		view := bt.NewMessageBubble(msg, 1, false, theme, styles).View(60)

		assert.Contains(t, view, "Alice Martin")
		assert.Contains(t, view, "See you soon")
		assert.Contains(t, view, "09:00")
	})

	t.Run("outgoing hides the sender label", func(t *testing.T) {
		t.Parallel()
		msg := parley.NewMessage("You", "On my way", parley.Outgoing, epoch)
		view := bt.NewMessageBubble(msg, 1, false, theme, styles).View(60)

		assert.NotContains(t, view, "You")
		assert.Contains(t, view, "On my way")
	})

	t.Run("outgoing is right-aligned and incoming left-aligned", func(t *testing.T) {
		t.Parallel()
		out := bt.NewMessageBubble(parley.NewMessage("You", "hi", parley.Outgoing, epoch), 1, false, theme, styles).View(60)
		in := bt.NewMessageBubble(parley.NewMessage("Bob", "hi", parley.Incoming, epoch), 1, false, theme, styles).View(60)

		firstOut := strings.Split(out, "\n")[0]
		firstIn := strings.Split(in, "\n")[0]
		assert.True(t, strings.HasPrefix(firstOut, " "), "outgoing bubble should be padded on the left")
		assert.False(t, strings.HasPrefix(firstIn, " "), "incoming bubble should start at the left edge")
	})

	t.Run("footer carries the message number", func(t *testing.T) {
		t.Parallel()
		msg := parley.NewMessage("Bob", "hi", parley.Incoming, epoch)
		view := bt.NewMessageBubble(msg, 7, false, theme, styles).View(60)

		assert.Contains(t, view, "#7 09:00")
		assert.NotContains(t, view, "★")
	})

	t.Run("favorites are starred", func(t *testing.T) {
		t.Parallel()
		msg := parley.NewMessage("You", "keep this", parley.Outgoing, epoch)
		view := bt.NewMessageBubble(msg, 2, true, theme, styles).View(60)

		assert.Contains(t, view, "★")
		assert.Contains(t, view, "#2 09:00")
	})

	t.Run("lines never exceed the width", func(t *testing.T) {
		t.Parallel()
		body := strings.Repeat("lorem ipsum dolor ", 20)
		view := bt.NewMessageBubble(parley.NewMessage("Bob", body, parley.Incoming, epoch), 1, false, theme, styles).View(40)
		for _, line := range strings.Split(view, "\n") {
			assert.LessOrEqual(t, lipgloss.Width(line), 40)
		}
	})
}

func TestErrorBlock_View(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(parley.DefaultTheme())
	view := bt.NewErrorBlock(errors.New("conversation not found"), styles).View(40)
	assert.Contains(t, view, "Error: conversation not found")
}
