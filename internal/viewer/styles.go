package viewer

import "github.com/charmbracelet/lipgloss"

// https://github.com/muesli/termenv/blob/master/ansicolors.go
var (
	red   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	green = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	cyan  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	gray  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

var (
	titleStyle   = cyan.Bold(true)
	keyStyle     = gray
	valueStyle   = green
	errorStyle   = red
	spinnerStyle = cyan
	helpStyle    = gray
)
