package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/parley"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	Outgoing lipgloss.Style
	Incoming lipgloss.Style
	Sender   lipgloss.Style
	Unread   lipgloss.Style
	Active   lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Avatar   lipgloss.Style
	Header   lipgloss.Style
	Sidebar  lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t parley.Theme) Styles {
	return Styles{
		Outgoing: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ansiColor(t.Outgoing)).
			Padding(0, 1),
		Incoming: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ansiColor(t.Incoming)).
			Padding(0, 1),
		Sender:  lipgloss.NewStyle().Foreground(ansiColor(t.Sender)).Bold(true),
		Unread:  lipgloss.NewStyle().Foreground(ansiColor(t.Unread)).Bold(true),
		Active:  lipgloss.NewStyle().Foreground(ansiColor(t.Active)).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Muted:   lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:  lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
		Avatar:  lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
		Header:  lipgloss.NewStyle().Bold(true),
		Sidebar: lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(ansiColor(t.Muted)),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
