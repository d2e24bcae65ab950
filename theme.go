package parley

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme. A negative index means no color.
type Theme struct {
	Outgoing int // Outgoing bubble accent
	Incoming int // Incoming bubble accent
	Sender   int // Sender labels
	Unread   int // Unread badge
	Active   int // Active conversation marker
	Error    int // Error messages
	Muted    int // Status bar, timestamps, subtitles
	Accent   int // Headings, links
	CodeBg   int // Inline code background
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Outgoing: 4,
		Incoming: 2,
		Sender:   6,
		Unread:   1,
		Active:   5,
		Error:    1,
		Muted:    8,
		Accent:   5,
		CodeBg:   0,
	}
}
