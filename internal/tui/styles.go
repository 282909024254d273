package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitgrid/internal/analytics"
)

// Tabs and borders reuse the heatmap greens so the dashboard reads as one palette.
var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(analytics.ColorNone)).
			Background(lipgloss.Color(analytics.ColorDark)).
			Padding(0, 2).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(analytics.ColorMedium)).
				Padding(0, 2)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f85149")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#f85149")).
			Padding(0, 1)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d29922"))

	docStyle = lipgloss.NewStyle().
			Padding(1, 2, 0, 2).
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(analytics.ColorLight))
)
