package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daydicated/internal/constants"
	"github.com/julianstephens/daydicated/internal/models"
)

// actorChangedMsg carries a sign-in change. closed is set once the
// subscription ends.
type actorChangedMsg struct {
	actor  *models.User
	closed bool
}

type loginFailedMsg struct{ err error }

type entriesLoadedMsg struct {
	owner string
	err   error
}

type usersLoadedMsg struct{ users []models.User }

type daySavedMsg struct {
	entry models.Entry
	err   error
}

type exportedMsg struct {
	path string
	err  error
}

// editDayMsg is sent by an editable calendar cell
type editDayMsg struct {
	date     string
	existing *models.Entry
}

type tickMsg time.Time

func waitForActor(ch <-chan *models.User) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-ch
		return actorChangedMsg{actor: u, closed: !ok}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func onDayClick(date string, existing *models.Entry) tea.Cmd {
	return func() tea.Msg { return editDayMsg{date: date, existing: existing} }
}

func (m Model) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.ctrl.Login(m.ctx, email, password); err != nil {
			return loginFailedMsg{err: err}
		}
		return nil
	}
}

func (m Model) loadEntriesCmd(owner string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.ctrl.View(m.ctx, owner)
		return entriesLoadedMsg{owner: owner, err: err}
	}
}

func (m Model) loadUsersCmd() tea.Cmd {
	return func() tea.Msg {
		return usersLoadedMsg{users: m.ctrl.Users(m.ctx)}
	}
}

func (m Model) saveDayCmd(date, rating, note string) tea.Cmd {
	return func() tea.Msg {
		entry, err := m.ctrl.SaveDay(m.ctx, date, rating, note)
		return daySavedMsg{entry: entry, err: err}
	}
}

func (m Model) exportCmd(format constants.ExportFormat) tea.Cmd {
	return func() tea.Msg {
		path, err := m.ctrl.Export(m.ctx, format)
		return exportedMsg{path: path, err: err}
	}
}
