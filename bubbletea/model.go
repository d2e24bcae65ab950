package bubbletea

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/parley"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the parley TUI.
//
// The Update loop is the serial context: every session call and every
// posted TaskMsg runs there.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable message area. Exported for test access.
	Viewport viewport.Model

	session *parley.Session
	theme   parley.Theme
	styles  Styles

	blocks []MessageBlock
	width  int
	height int
	err    error
	ready  bool
}

// New creates a TUI Model over session.
func New(session *parley.Session, theme parley.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		Input:   ti,
		session: session,
		theme:   theme,
		styles:  NewStyles(theme),
	}
}

// Err returns the last intent error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TaskMsg:
		if msg.Fn != nil {
			msg.Fn()
		}
		m = m.refresh()
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	sidebar := renderSidebar(m.sidebarRows(), m.favoriteRows(), sidebarWidth, m.height, m.styles)

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, b.String())
}

func (m Model) paneWidth() int {
	return max(m.width-sidebarWidth, 20)
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	headerHeight := 2
	statusHeight := 1
	inputHeight := 1
	vpHeight := max(msg.Height-headerHeight-statusHeight-inputHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(m.paneWidth(), vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = m.paneWidth()
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = m.paneWidth() - lipgloss.Width(m.Input.Prompt) - 1
	return m.refresh()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEnter:
		line := m.Input.Value()
		m.Input.SetValue("")
		return m.submit(line), nil

	case tea.KeyTab, tea.KeyCtrlN:
		return m.cycle(1), nil

	case tea.KeyShiftTab, tea.KeyCtrlP:
		return m.cycle(-1), nil
	}

	// Only non-character keys scroll the viewport; 'j'/'k' are text here.
	var cmd tea.Cmd
	var cmds []tea.Cmd
	if msg.Type != tea.KeyRunes && msg.Type != tea.KeySpace {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submit parses one input line and applies it to the session. Blank lines
// do nothing.
func (m Model) submit(line string) Model {
	if parley.IsBlank(line) {
		return m
	}
	intent, err := parley.ParseIntent(line)
	if err == nil {
		_, err = m.session.Apply(intent)
	}
	m.err = err
	return m.refresh()
}

// cycle switches to the conversation delta steps away in list order,
// wrapping around.
func (m Model) cycle(delta int) Model {
	convs := m.session.Conversations()
	if len(convs) == 0 {
		return m
	}
	idx := slices.IndexFunc(convs, func(c parley.Conversation) bool {
		return c.ID == m.session.CurrentConversationID()
	})
	next := ((idx+delta)%len(convs) + len(convs)) % len(convs)
	_, err := m.session.SwitchConversation(convs[next].ID)
	m.err = err
	return m.refresh()
}

// refresh rebuilds the blocks of the active conversation from the session
// and scrolls to the newest message.
func (m Model) refresh() Model {
	if !m.ready {
		return m
	}
	m.blocks = m.blocks[:0:0]
	history, err := m.session.History(m.session.CurrentConversationID())
	if err != nil {
		m.blocks = append(m.blocks, NewErrorBlock(err, m.styles))
	}
	for i, msg := range history {
		m.blocks = append(m.blocks, NewMessageBubble(msg, i+1, m.session.IsFavorite(msg.ID), m.theme, m.styles))
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) renderContent() string {
	if len(m.blocks) == 0 {
		return m.styles.Muted.Render("No messages yet.")
	}
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

func (m Model) sidebarRows() []sidebarRow {
	active := m.session.CurrentConversationID()
	convs := m.session.Conversations()
	rows := make([]sidebarRow, 0, len(convs))
	for _, c := range convs {
		rows = append(rows, sidebarRow{
			conv:   c,
			unread: m.session.Unread(c.ID),
			active: c.ID == active,
		})
	}
	return rows
}

func (m Model) favoriteRows() []favoriteRow {
	favs := m.session.Favorites()
	rows := make([]favoriteRow, 0, len(favs))
	for _, f := range favs {
		rows = append(rows, favoriteRow{
			conversation: m.conversationName(f.ConversationID),
			body:         f.Message.Body,
		})
	}
	return rows
}

// conversationName returns the display name of id, or "#id" once the
// conversation is gone.
func (m Model) conversationName(id parley.ConversationID) string {
	for _, c := range m.session.Conversations() {
		if c.ID == id {
			return c.DisplayName
		}
	}
	return fmt.Sprintf("#%d", id)
}

func (m Model) header() string {
	active := m.session.CurrentConversationID()
	for _, c := range m.session.Conversations() {
		if c.ID == active {
			name := m.styles.Header.Render(c.DisplayName)
			return name + "\n" + m.styles.Muted.Render(c.Subtitle)
		}
	}
	return "\n"
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	return m.styles.Muted.Render("Enter send · Tab/Shift+Tab switch · /fav <n> star · Ctrl+C quit")
}
