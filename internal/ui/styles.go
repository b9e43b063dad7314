package ui

import "github.com/charmbracelet/lipgloss"

// Styles for the chat interface
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#7C5CFF")).
			Padding(0, 1)

	UserStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	AssistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C49BFF")).
			Bold(true)

	MessageStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			MarginBottom(1)

	TimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	LoadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C49BFF")).
			Italic(true)

	SidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("#444444"))

	SidebarFocusedStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("#7C5CFF"))

	ChatStyle = lipgloss.NewStyle().
			PaddingLeft(1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1A1A1A")).
			Background(lipgloss.Color("#FFD866"))

	SearchHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFDF5")).
				Bold(true)

	TagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5CCFE6"))

	PinStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD866"))
)
