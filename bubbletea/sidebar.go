package bubbletea

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/parley"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// sidebarWidth is the width of the conversation list including its border.
const sidebarWidth = 28

// Avatar returns the upper-cased first grapheme cluster of name, or "?" for
// an empty name.
func Avatar(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(name, -1)
	return strings.ToUpper(cluster)
}

// sidebarRow is the data needed to draw one conversation entry.
type sidebarRow struct {
	conv   parley.Conversation
	unread int
	active bool
}

// favoriteRow is one starred message listed under the conversations.
type favoriteRow struct {
	conversation string
	body         string
}

// renderSidebar draws the conversation list: avatar, name and unread badge
// on the first line, subtitle on the second. Favorites follow, numbered for
// /jump.
func renderSidebar(rows []sidebarRow, favs []favoriteRow, width, height int, styles Styles) string {
	inner := width - 1 // right border
	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		marker := "  "
		if r.active {
			marker = styles.Active.Render("▌ ")
		}
		avatar := styles.Avatar.Render(Avatar(r.conv.DisplayName))

		badge := ""
		if r.unread > 0 {
			badge = " " + styles.Unread.Render(fmt.Sprintf("(%d)", r.unread))
		}

		// marker(2) + avatar(up to 2) + space(1)
		nameWidth := inner - 2 - lipgloss.Width(avatar) - 1 - lipgloss.Width(badge)
		name := runewidth.Truncate(r.conv.DisplayName, max(nameWidth, 1), "…")
		if r.active {
			name = styles.Active.Render(name)
		}
		b.WriteString(marker + avatar + " " + name + badge)
		b.WriteString("\n")

		subWidth := inner - 2 - lipgloss.Width(avatar) - 1
		sub := runewidth.Truncate(r.conv.Subtitle, max(subWidth, 1), "…")
		b.WriteString(strings.Repeat(" ", 2+lipgloss.Width(avatar)+1) + styles.Muted.Render(sub))
	}
	if len(favs) > 0 {
		b.WriteString("\n\n" + styles.Header.Render("★ Favorites"))
	}
	for i, f := range favs {
		prefix := fmt.Sprintf("%d ", i+1)
		b.WriteString("\n" + styles.Unread.Render(prefix))
		line := f.conversation + ": " + strings.Join(strings.Fields(f.body), " ")
		b.WriteString(runewidth.Truncate(line, max(inner-len(prefix), 1), "…"))
	}
	return styles.Sidebar.
		Width(inner).
		Height(height).
		MaxHeight(height).
		Render(b.String())
}
