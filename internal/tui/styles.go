package tui

import "github.com/charmbracelet/lipgloss"

var (
	// HeaderStyle for the title bar
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	// InfoStyle for the stage and pot line
	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0A0A0"))

	// BoardStyle frames the community cards
	BoardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	// RedCardStyle for hearts and diamonds
	RedCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	// BlackCardStyle for clubs and spades
	BlackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	// SeatsStyle frames the seat grid
	SeatsStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#3C3C3C"))

	// EventStyle for the scrolling event log
	EventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C9E6C"))

	// ErrorStyle for connection and server errors
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	// FooterStyle for the key hints
	FooterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)
