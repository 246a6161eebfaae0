package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/neilberkman/authno/internal/core/workspace"
)

// Global styles used across views
var (
	// List view styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Foreground(lipgloss.Color("170")).
				Bold(true)

	currentItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("120")) // Light green, reads against the purple selection

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246")) // Lighter gray that works better in dark terminals

	sidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(lipgloss.Color("240"))

	// Editor styles
	toolbarOnStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("170")).
			Foreground(lipgloss.Color("0")).
			Bold(true).
			Padding(0, 1)

	toolbarOffStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246")).
			Padding(0, 1)

	highlightStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("229")).
			Foreground(lipgloss.Color("0"))

	// Layout view styles
	draggingStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("226")).
			Bold(true)

	// Notices
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	// Dialog styles
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(1, 2)

	// Help view styles
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

func noticeStyle(level workspace.Level) lipgloss.Style {
	switch level {
	case workspace.LevelWarning:
		return warningStyle
	case workspace.LevelError:
		return errorStyle
	default:
		return infoStyle
	}
}
