package tui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorRed     = lipgloss.Color("#F38BA8")
	ColorGreen   = lipgloss.Color("#A6E3A1")
	ColorYellow  = lipgloss.Color("#F9E2AF")
	ColorTeal    = lipgloss.Color("#94E2D5")
	ColorGray    = lipgloss.Color("#6C7086")
	ColorDimGray = lipgloss.Color("#45475A")
	ColorWhite   = lipgloss.Color("#CDD6F4")
	ColorBase    = lipgloss.Color("#1E1E2E")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorTeal)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorTeal).
			Bold(true)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorTeal).
			Padding(0, 1)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	ResultStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	LiveStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	OffStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	EmergencyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBase).
			Background(ColorRed).
			Padding(0, 1)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)
)
