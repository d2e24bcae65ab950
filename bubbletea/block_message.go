package bubbletea

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/parley"
	"github.com/fwojciec/parley/goldmark"
)

var _ MessageBlock = (*MessageBubble)(nil)

// timeLayout is the HH:MM format shown under each bubble.
const timeLayout = "15:04"

// favoriteMark prefixes the footer of starred messages.
const favoriteMark = "★"

// MessageBubble renders one message. Outgoing bubbles hug the right edge,
// incoming bubbles the left; incoming bubbles carry the sender label.
// The footer shows the message number used by /fav and the time.
type MessageBubble struct {
	msg      parley.Message
	number   int
	favorite bool
	theme    parley.Theme
	styles   Styles
}

// NewMessageBubble creates a MessageBubble for the number-th message
// (1-based) of a conversation.
func NewMessageBubble(msg parley.Message, number int, favorite bool, theme parley.Theme, styles Styles) *MessageBubble {
	return &MessageBubble{msg: msg, number: number, favorite: favorite, theme: theme, styles: styles}
}

func (b *MessageBubble) View(width int) string {
	// Bubbles take at most three quarters of the pane, minus border and padding.
	maxWidth := max(width*3/4, 12)
	bodyWidth := maxWidth - 4

	body := goldmark.Render(b.msg.Body, bodyWidth, b.theme)
	body = trimLines(body)

	var lines []string
	if b.msg.Direction == parley.Incoming {
		lines = append(lines, b.styles.Sender.Render(b.msg.Sender))
	}
	lines = append(lines, body)
	footer := b.styles.Muted.Render(fmt.Sprintf("#%d %s", b.number, b.msg.SentAt.Format(timeLayout)))
	if b.favorite {
		footer = b.styles.Unread.Render(favoriteMark) + " " + footer
	}
	lines = append(lines, footer)

	frame := b.styles.Incoming
	align := lipgloss.Left
	if b.msg.Direction == parley.Outgoing {
		frame = b.styles.Outgoing
		align = lipgloss.Right
	}
	bubble := frame.Render(lipgloss.JoinVertical(align, lines...))
	return lipgloss.PlaceHorizontal(width, align, bubble)
}

// trimLines strips the trailing padding lipgloss adds when wrapping to a
// fixed width, so short messages get narrow bubbles.
func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}
