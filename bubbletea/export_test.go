package bubbletea

import "github.com/fwojciec/parley"

// RenderContent exports renderContent for testing.
func RenderContent(m Model) string {
	return m.renderContent()
}

// RenderSidebar exports renderSidebar for testing.
func RenderSidebar(s *parley.Session, width, height int, styles Styles) string {
	m := Model{session: s}
	return renderSidebar(m.sidebarRows(), m.favoriteRows(), width, height, styles)
}

// SidebarWidth exports sidebarWidth for testing.
const SidebarWidth = sidebarWidth
