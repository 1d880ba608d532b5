package tui

import "github.com/charmbracelet/lipgloss"

// Color palette. All colors live here; no ad-hoc literals in the views.

var (
	colorText    = lipgloss.Color("#e6edf3")
	colorDim     = lipgloss.Color("#8b949e")
	colorMuted   = lipgloss.Color("#484f58")
	colorBlue    = lipgloss.Color("#58a6ff")
	colorGreen   = lipgloss.Color("#3fb950")
	colorRed     = lipgloss.Color("#f85149")
	colorYellow  = lipgloss.Color("#d29922")
	colorSurface = lipgloss.Color("#161b22")
	colorDivider = lipgloss.Color("#30363d")
)

var (
	headerStyle = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorText).
			Padding(0, 1)

	brandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue).
			Padding(0, 1)

	posterStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	likedStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	editedStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	selectedStyle = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorText)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorDivider).
			Padding(0, 1)

	activePageStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue).
			Underline(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	errStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBlue).
			Padding(1, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)
)
