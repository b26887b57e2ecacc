package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style of the browser.
type Theme struct {
	Title      lipgloss.Style
	Subtle     lipgloss.Style
	Warning    lipgloss.Style
	Label      lipgloss.Style
	Value      lipgloss.Style
	Selected   lipgloss.Style
	Header     lipgloss.Style
	RoundedBox lipgloss.Style
	Primary    lipgloss.Color
	Border     lipgloss.Color
	Muted      lipgloss.Color
}

// DefaultTheme is the default theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#7aa2f7"),
	Border:  lipgloss.Color("#414868"),
	Muted:   lipgloss.Color("#565f89"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#c0caf5")),
	Subtle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#565f89")),
	Warning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#e0af68")).
		Bold(true),
	Label: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7dcfff")).
		Width(12),
	Value: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#c0caf5")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#7aa2f7")).
		Foreground(lipgloss.Color("#1a1b26")).
		Bold(true),
	Header: lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#414868")).
		BorderBottom(true).
		Bold(true),
	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#414868")).
		Padding(0, 1),
}
