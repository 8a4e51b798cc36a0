package viewer

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#3B82F6")
	colorAccent  = lipgloss.Color("#8B5CF6")
	colorFailure = lipgloss.Color("#EF4444")
	colorSuccess = lipgloss.Color("#10B981")
	colorMuted   = lipgloss.Color("#6B7280")
	colorBorder  = lipgloss.Color("#374151")

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9FAFB")).
			Background(colorPrimary).
			Padding(0, 1)

	styleTab = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	styleTabActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9FAFB")).
			Background(colorAccent).
			Padding(0, 1)

	stylePane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)

	styleLabel   = lipgloss.NewStyle().Foreground(colorMuted).Width(10)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleFailure = lipgloss.NewStyle().Foreground(colorFailure)
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess)
	styleSpinner = lipgloss.NewStyle().Foreground(colorPrimary)
)
