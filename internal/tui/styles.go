package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daydicated/internal/constants"
	"github.com/julianstephens/daydicated/internal/models"
	"github.com/julianstephens/daydicated/internal/prefs"
	"github.com/julianstephens/daydicated/internal/tui/components/calendar"
)

var docStyle = lipgloss.NewStyle().Padding(1, 2)

// Theme holds the styles derived from the user's preferences
type Theme struct {
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Title       lipgloss.Style
	Muted       lipgloss.Style
	Info        lipgloss.Style
	Error       lipgloss.Style
	Calendar    calendar.Styles
}

func NewTheme(p models.Preferences) Theme {
	accent := lipgloss.Color(p.Accent)
	onAccent := lipgloss.Color(prefs.Contrast(p.Accent))

	text, muted, surface := lipgloss.Color("252"), lipgloss.Color("240"), lipgloss.Color("236")
	if p.Theme == constants.ThemeLight {
		text, muted, surface = lipgloss.Color("235"), lipgloss.Color("245"), lipgloss.Color("254")
	}

	cal := calendar.DefaultStyles()
	cal.Header = cal.Header.Foreground(accent)
	cal.Muted = cal.Muted.Foreground(muted)
	cal.Weekday = cal.Weekday.Foreground(muted)
	cal.Cell = cal.Cell.Foreground(text)
	cal.Focused = cal.Focused.UnsetReverse().Foreground(onAccent).Background(accent)

	return Theme{
		ActiveTab: lipgloss.NewStyle().
			Foreground(accent).
			Background(surface).
			Padding(0, 1).
			Bold(true),
		InactiveTab: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		Title: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Muted: lipgloss.NewStyle().Foreground(muted),
		Info: lipgloss.NewStyle().
			Foreground(onAccent).
			Background(accent).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("160")).
			Padding(0, 1).
			Bold(true),
		Calendar: cal,
	}
}
