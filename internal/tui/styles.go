package tui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle is used for the project header.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")) // Purple

	// SectionStyle is used for section headings.
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	// NormalStyle is used for regular rows.
	NormalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")) // Light gray

	// DimStyle is used for secondary text.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")) // Dark gray

	// ActiveAgentStyle marks agents currently active.
	ActiveAgentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")). // Green
				Bold(true)

	// WarnStyle is used for warnings and unresolved risks.
	WarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Orange

	// ErrorStyle is used for error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// ToastStyle frames the ephemeral notification popups.
	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)
