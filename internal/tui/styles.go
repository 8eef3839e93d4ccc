package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Border styles
var (
	StyleFocusedBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62"))

	StyleUnfocusedBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))
)

// Task styles. Urgency outranks priority: an urgent task renders red even
// when its priority is high.
var (
	StyleTaskUrgent = lipgloss.NewStyle().
			Foreground(lipgloss.Color("red")).
			Bold(true)

	StyleTaskHigh = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	StyleTaskNormal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	StyleTaskDone = lipgloss.NewStyle().
			Foreground(lipgloss.Color("green"))

	StyleTaskPast = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	StyleTaskFailed = lipgloss.NewStyle().
			Foreground(lipgloss.Color("red"))
)

// UI element styles
var (
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	StyleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	StyleSelected = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("0"))

	StyleToast = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")).
			Padding(0, 1)

	StyleHUD = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	StyleLockdown = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("red")).
			Foreground(lipgloss.Color("red")).
			Bold(true).
			Padding(1, 3)

	StyleTimer = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	StyleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)
)

// taskStyle picks the render style for a task line. Dimming for past tasks
// wins over everything except failure highlighting inside the modal.
func taskStyle(urgent bool, high bool, done bool, past bool) lipgloss.Style {
	switch {
	case done:
		return StyleTaskDone
	case past:
		return StyleTaskPast
	case urgent:
		return StyleTaskUrgent
	case high:
		return StyleTaskHigh
	default:
		return StyleTaskNormal
	}
}
