package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorWarn      = lipgloss.Color("214") // Amber
	colorError     = lipgloss.Color("196") // Red
)

// TitleStyle for screen titles.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// TabStyle for inactive status filter tabs.
var TabStyle = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// ActiveTabStyle for the current status filter.
var ActiveTabStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Underline(true).
	Padding(0, 1)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorError).
	Bold(true).
	Padding(0, 1)

// MutedStyle for secondary text.
var MutedStyle = lipgloss.NewStyle().
	Foreground(colorMuted)

// FilterBar style for the search input bar.
var FilterBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("240")).
	Padding(0, 1)

// FilterBarCount style for the matched count.
var FilterBarCount = lipgloss.NewStyle().
	Foreground(colorSecondary)

// Toast styles by notice level.
var (
	toastBase    = lipgloss.NewStyle().Padding(0, 1).Bold(true)
	ToastInfo    = toastBase.Foreground(lipgloss.Color("255")).Background(colorPrimary)
	ToastSuccess = toastBase.Foreground(lipgloss.Color("16")).Background(colorSuccess)
	ToastWarn    = toastBase.Foreground(lipgloss.Color("16")).Background(colorWarn)
	ToastError   = toastBase.Foreground(lipgloss.Color("255")).Background(colorError)
)

// DetailKey and DetailValue render field rows in the detail view.
var (
	DetailKey   = lipgloss.NewStyle().Foreground(colorHighlight).Width(18)
	DetailValue = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// SectionHeader separates detail view sections.
var SectionHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	MarginTop(1)

// DebugPanel frames the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 1)

// DebugHeaderStyle for overlay section headers.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// statusColors tints status cells. Unknown statuses render plain.
var statusColors = map[string]lipgloss.Color{
	"active": colorSuccess, "ACTIVE": colorSuccess, "visible": colorSuccess,
	"resolved": colorSuccess, "Done": colorSuccess,
	"pending": colorWarn, "PENDING": colorWarn, "in_review": colorWarn,
	"in_progress": colorWarn, "In Progress": colorWarn, "Pending": colorWarn,
	"rejected": colorError, "REJECTED": colorError, "blocked": colorError,
	"stopped": colorError, "inactive": colorMuted, "INACTIVE": colorMuted,
	"hidden": colorMuted,
}

func statusStyle(status string) lipgloss.Style {
	if c, ok := statusColors[status]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle()
}
