package tui

import "github.com/charmbracelet/lipgloss"

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

	panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	keyHint = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688")).Italic(true)
)

// pedal renders an on/off indicator.
func pedal(label string, v float64, on lipgloss.Style) string {
	if v > 0 {
		return on.Render("[" + label + "]")
	}
	return dim.Render(" " + label + " ")
}
