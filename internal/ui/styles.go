// Package ui holds the lipgloss styles shared by the intake TUI.
package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorTeal    = lipgloss.Color("#00B5AD")
	ColorGreen   = lipgloss.Color("#00FF00")
	ColorYellow  = lipgloss.Color("#FFFF00")
	ColorCyan    = lipgloss.Color("#00FFFF")
	ColorRed     = lipgloss.Color("#FF0000")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
	ColorMagenta = lipgloss.Color("#FF00FF")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorTeal)

	UserBubbleStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	AssistantBubbleStyle = lipgloss.NewStyle().
				Foreground(ColorWhite)

	ThinkingStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DebugBoxStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta)

	ConfidenceStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorYellow)

	ModalBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorTeal).
				Padding(1, 2)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	ReportHeadingStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorTeal)

	SpecialtyStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)
)
