package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent      = lipgloss.Color("#8BC34A")
	muted       = lipgloss.Color("#6b7280")
	destructive = lipgloss.Color("#e53935")
	border      = lipgloss.Color("#2a3850")
)

type styles struct {
	Title      lipgloss.Style
	Label      lipgloss.Style
	FocusLabel lipgloss.Style
	Sidebar    lipgloss.Style
	Results    lipgloss.Style
	Selected   lipgloss.Style
	Muted      lipgloss.Style
	Error      lipgloss.Style
	Heading    lipgloss.Style
	Spinner    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(accent),
		Label:      lipgloss.NewStyle().Foreground(muted),
		FocusLabel: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Sidebar: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Results: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(destructive),
		Heading:  lipgloss.NewStyle().Bold(true),
		Spinner:  lipgloss.NewStyle().Foreground(accent),
	}
}
