package settings

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daydicated/internal/models"
)

type EditSettingsMsg struct{}

type Model struct {
	prefs  models.Preferences
	width  int
	height int
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(12)

	valueStyle = lipgloss.NewStyle().Bold(true)
)

func New(prefs models.Preferences, width, height int) Model {
	return Model{prefs: prefs, width: width, height: height}
}

func (m *Model) SetPreferences(prefs models.Preferences) {
	m.prefs = prefs
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "e" {
		return m, func() tea.Msg { return EditSettingsMsg{} }
	}
	return m, nil
}

func (m Model) View() string {
	swatch := lipgloss.NewStyle().Background(lipgloss.Color(m.prefs.Accent)).Render("    ")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Display Settings"),
		fmt.Sprintf("%s %s", labelStyle.Render("Theme:"), valueStyle.Render(m.prefs.Theme)),
		fmt.Sprintf("%s %s %s", labelStyle.Render("Accent:"), valueStyle.Render(m.prefs.Accent), swatch),
		"",
		lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true).Render("Press 'e' to edit settings"),
	)
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
