package goldmark

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/parley"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type ansiRenderer struct {
	bold      lipgloss.Style
	italic    lipgloss.Style
	code      lipgloss.Style
	muted     lipgloss.Style
	underline lipgloss.Style
}

func newRenderer(theme parley.Theme) *ansiRenderer {
	return &ansiRenderer{
		bold:      lipgloss.NewStyle().Bold(true),
		italic:    lipgloss.NewStyle().Italic(true),
		code:      lipgloss.NewStyle().Background(ansiColor(theme.CodeBg)).Foreground(ansiColor(theme.Accent)),
		muted:     lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		underline: lipgloss.NewStyle().Underline(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *ansiRenderer) render(source []byte, width int) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		r.renderBlock(c, source, width, &buf)
		if c.NextSibling() != nil {
			buf.WriteString("\n")
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (r *ansiRenderer) renderBlock(node ast.Node, source []byte, width int, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		inline := r.collectInline(n, source)
		buf.WriteString(lipgloss.NewStyle().Width(width).Render(inline))
		buf.WriteString("\n")

	case *ast.Heading:
		inline := r.bold.Render(r.collectInline(n, source))
		buf.WriteString(lipgloss.NewStyle().Width(width).Render(inline))
		buf.WriteString("\n")

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		gutter := r.muted.Render("│") + " "
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.WriteString(gutter + strings.TrimRight(string(line.Value(source)), "\n"))
			buf.WriteString("\n")
		}

	case *ast.List:
		r.renderList(n, source, width, buf)

	case *ast.ThematicBreak:
		buf.WriteString(r.muted.Render(strings.Repeat("─", min(width, 3))))
		buf.WriteString("\n")

	default:
		// Blockquotes and anything else: render children as plain blocks.
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.renderBlock(c, source, width, buf)
		}
	}
}

func (r *ansiRenderer) renderList(node *ast.List, source []byte, width int, buf *bytes.Buffer) {
	num := node.Start
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "• "
		if node.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}
		var content strings.Builder
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			if content.Len() > 0 {
				content.WriteByte(' ')
			}
			content.WriteString(r.collectInline(ic, source))
		}
		itemWidth := max(width-lipgloss.Width(marker), 10)
		wrapped := lipgloss.NewStyle().Width(itemWidth).Render(content.String())
		pad := strings.Repeat(" ", lipgloss.Width(marker))
		for i, line := range strings.Split(wrapped, "\n") {
			if i == 0 {
				buf.WriteString(marker + line + "\n")
			} else {
				buf.WriteString(pad + line + "\n")
			}
		}
	}
}

// collectInline recursively collects styled inline text from a node's children.
func (r *ansiRenderer) collectInline(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.renderInline(c, source, &buf)
	}
	return buf.String()
}

func (r *ansiRenderer) renderInline(node ast.Node, source []byte, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		if n.SoftLineBreak() {
			buf.WriteByte(' ')
		}
		if n.HardLineBreak() {
			buf.WriteByte('\n')
		}

	case *ast.String:
		buf.Write(n.Value)

	case *ast.Emphasis:
		inner := r.collectInline(n, source)
		if n.Level == 1 {
			buf.WriteString(r.italic.Render(inner))
		} else {
			buf.WriteString(r.bold.Render(inner))
		}

	case *ast.CodeSpan:
		buf.WriteString(r.code.Render(r.collectInline(n, source)))

	case *ast.Link:
		inner := r.collectInline(n, source)
		buf.WriteString(r.underline.Render(inner))
		buf.WriteString(" ")
		buf.WriteString(r.muted.Render("(" + string(n.Destination) + ")"))

	case *ast.AutoLink:
		buf.WriteString(r.underline.Render(string(n.URL(source))))

	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(source))
		}

	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.renderInline(c, source, buf)
		}
	}
}
