// Package tui renders a storefront session in the terminal.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	saffron = lipgloss.Color("#FF9933")
	green   = lipgloss.Color("#138808")
	muted   = lipgloss.Color("#8a8f98")
	red     = lipgloss.Color("#e53935")
)

// Styles groups the lipgloss styles used by every screen.
type Styles struct {
	Header   lipgloss.Style
	Badge    lipgloss.Style
	Title    lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Price    lipgloss.Style
	Free     lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Help     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(saffron).Padding(0, 1),
		Badge:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(saffron).Padding(0, 1),
		Title:    lipgloss.NewStyle().Bold(true).Underline(true),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(saffron),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Price:    lipgloss.NewStyle().Bold(true),
		Free:     lipgloss.NewStyle().Bold(true).Foreground(green),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(red).Border(lipgloss.RoundedBorder()).BorderForeground(red).Padding(0, 1),
		Success:  lipgloss.NewStyle().Bold(true).Foreground(green),
		Help:     lipgloss.NewStyle().Foreground(muted).Italic(true),
	}
}
