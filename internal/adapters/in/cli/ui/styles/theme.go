// Package styles holds the terminal palette shared by launcher CLI output.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	NeonGreen  = lipgloss.Color("#00ff88")
	NeonCyan   = lipgloss.Color("#00ccff")
	NeonRed    = lipgloss.Color("#ff4444")
	NeonYellow = lipgloss.Color("#fbbf24")

	Neutral200 = lipgloss.Color("#e5e5e5")
	Neutral500 = lipgloss.Color("#737373")
	Neutral700 = lipgloss.Color("#404040")

	ColorPrimary   = NeonGreen
	ColorSecondary = NeonCyan
	ColorSuccess   = NeonGreen
	ColorWarning   = NeonYellow
	ColorError     = NeonRed

	ColorText      = Neutral200
	ColorTextMuted = Neutral500
	ColorBorder    = Neutral700
)

var (
	Title   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	Muted   = lipgloss.NewStyle().Foreground(ColorTextMuted)
	Running = lipgloss.NewStyle().Foreground(ColorSuccess)
	Stopped = lipgloss.NewStyle().Foreground(ColorTextMuted)
	Warning = lipgloss.NewStyle().Foreground(ColorWarning)
	Failure = lipgloss.NewStyle().Foreground(ColorError)
)
