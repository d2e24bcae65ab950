// Package goldmark renders message bodies written in markdown to ANSI-styled
// terminal output using goldmark for parsing and lipgloss for styling.
package goldmark

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/fwojciec/parley"
)

// Render parses a message body and returns ANSI-styled terminal output
// wrapped to width. Headings are flattened to bold paragraphs; chat bodies
// have no document structure worth preserving. A body whose markdown renders
// to nothing visible (a lone "#", say) is shown as plain text.
func Render(source string, width int, theme parley.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newRenderer(theme)
	out := r.render([]byte(source), width)
	if strings.TrimSpace(ansi.Strip(out)) == "" {
		return lipgloss.NewStyle().Width(width).Render(parley.SanitizeBody(source))
	}
	return out
}
