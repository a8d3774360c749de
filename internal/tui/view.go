package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateLogin:
		content = m.viewLogin()
	case StateCalendar:
		content = docStyle.Render(m.viewCalendar())
	case StateUsers:
		content = docStyle.Render(m.usersModel.View())
	case StateSettings:
		content = m.settingsModel.View()
	case StateEditDay, StateEditSettings, StateExport:
		content = docStyle.Render(m.form.View())
	}

	parts := []string{}
	if m.state != StateLogin {
		parts = append(parts, m.viewTabs())
	}
	parts = append(parts, content)
	if n := m.viewNotifications(); n != "" {
		parts = append(parts, n)
	}
	if m.state != StateLogin {
		parts = append(parts, m.help.View(m))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewLogin() string {
	body := m.form.View()
	if m.loggingIn {
		body = m.theme.Muted.Render("Signing in...")
	}
	if m.width == 0 {
		return docStyle.Render(body)
	}
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, body)
}

func (m Model) viewTabs() string {
	var tabs []string
	for _, s := range m.tabs() {
		active := m.state == s ||
			(s == m.previousState && (m.state == StateEditDay || m.state == StateEditSettings || m.state == StateExport))
		if active {
			tabs = append(tabs, m.theme.ActiveTab.Render(tabTitle(s)))
		} else {
			tabs = append(tabs, m.theme.InactiveTab.Render(tabTitle(s)))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if m.actor != nil {
		row += m.theme.Muted.Render("  signed in as " + m.actor.Label())
	}
	return row
}

func (m Model) viewCalendar() string {
	owner := m.ctrl.ViewingOwner()
	if owner == "" {
		return m.theme.Muted.Render("Loading calendar...")
	}

	name := owner
	if u, ok := m.usersModel.Lookup(owner); ok {
		name = u.Label()
	}
	if m.actor != nil && owner == m.actor.ID {
		name = "Your calendar"
	}

	return m.theme.Title.Render(name) + "\n\n" + m.calendarModel.View()
}

func (m Model) viewNotifications() string {
	notes := m.ctrl.Notifications(m.now())
	if len(notes) == 0 {
		return ""
	}
	lines := make([]string, len(notes))
	for i, n := range notes {
		if n.IsError {
			lines[i] = m.theme.Error.Render(fmt.Sprintf("✗ %s", n.Message))
		} else {
			lines[i] = m.theme.Info.Render(n.Message)
		}
	}
	return strings.Join(lines, "\n")
}
