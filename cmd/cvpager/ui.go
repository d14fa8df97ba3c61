package main

import "github.com/charmbracelet/lipgloss"

// Terminal palette. Colors are dropped when the output is not a terminal.
var (
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true)
	styleOK      = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarn    = lipgloss.NewStyle().Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	tagOK        = styleOK.Render("[OK]")
	tagWarn      = styleWarn.Render("[WARN]")
	tagError     = styleError.Render("[ERROR]")
	tagUnsettled = styleWarn.Render("[UNSETTLED]")
)
