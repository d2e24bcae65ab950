package parley

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// SanitizeBody strips ANSI escape sequences and control characters (C0, DEL
// and C1) from a message body so it cannot repaint the terminal. Tabs and
// newlines are kept; CRLF becomes LF and any other CR is dropped.
func SanitizeBody(s string) string {
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\t' || r == '\n' || (r > 0x1F && r != 0x7F && !(r >= 0x80 && r <= 0x9F)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
