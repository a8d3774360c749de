package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daydicated/internal/constants"
	"github.com/julianstephens/daydicated/internal/logger"
	"github.com/julianstephens/daydicated/internal/tui/components/settings"
	"github.com/julianstephens/daydicated/internal/tui/components/users"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.calendarModel.SetSize(msg.Width, msg.Height-6)
		m.usersModel.SetSize(msg.Width-4, msg.Height-8)
		m.settingsModel.SetSize(msg.Width, msg.Height-6)
		return m, nil

	case tickMsg:
		m.ctrl.PruneNotifications(m.now())
		return m, tick()

	case actorChangedMsg:
		return m.handleActorChanged(msg)

	case loginFailedMsg:
		m.loggingIn = false
		email := m.loginForm.Email
		m.loginForm = &LoginFormModel{Email: email}
		m.form = NewLoginForm(m.loginForm)
		m.state = StateLogin
		return m, m.form.Init()

	case entriesLoadedMsg:
		if msg.err == nil {
			m.refreshCalendar()
		}
		return m, nil

	case usersLoadedMsg:
		actorID := ""
		if m.actor != nil {
			actorID = m.actor.ID
		}
		m.usersModel.SetUsers(msg.users, actorID)
		return m, nil

	case daySavedMsg:
		if msg.err == nil {
			m.refreshCalendar()
		}
		return m, nil

	case exportedMsg:
		return m, nil

	case editDayMsg:
		if !m.ctrl.Editable() {
			return m, nil
		}
		m.dayForm = &DayFormModel{Date: msg.date, Rating: "3"}
		if msg.existing != nil {
			m.dayForm.Rating = strconv.Itoa(msg.existing.Rating)
			m.dayForm.Note = msg.existing.Note
		}
		m.form = NewDayForm(m.dayForm)
		m.previousState = m.state
		m.state = StateEditDay
		return m, m.form.Init()

	case users.ViewUserMsg:
		m.state = StateCalendar
		return m, m.loadEntriesCmd(msg.UserID)

	case settings.EditSettingsMsg:
		if !m.ctrl.Config().SettingsEnabled {
			return m, nil
		}
		p := m.ctrl.Preferences()
		m.settingsForm = &SettingsFormModel{Theme: p.Theme, Accent: p.Accent}
		m.form = NewSettingsForm(m.settingsForm)
		m.previousState = m.state
		m.state = StateEditSettings
		return m, m.form.Init()
	}

	switch m.state {
	case StateLogin, StateEditDay, StateEditSettings, StateExport:
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = m.cycleTab(1)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = m.cycleTab(-1)
			return m, nil
		case key.Matches(msg, m.keys.Logout):
			if err := m.ctrl.Logout(); err != nil {
				logger.Warn("Logout failed", "error", err)
			}
			return m, nil
		case key.Matches(msg, m.keys.Export):
			m.exportForm = &ExportFormModel{Format: constants.ExportCSV}
			m.form = NewExportForm(m.exportForm)
			m.previousState = m.state
			m.state = StateExport
			return m, m.form.Init()
		case key.Matches(msg, m.keys.Mine):
			if m.actor != nil {
				m.state = StateCalendar
				return m, m.loadEntriesCmd(m.actor.ID)
			}
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			cmds := []tea.Cmd{m.loadUsersCmd()}
			if owner := m.ctrl.ViewingOwner(); owner != "" {
				cmds = append(cmds, m.loadEntriesCmd(owner))
			}
			return m, tea.Batch(cmds...)
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateCalendar:
		m.calendarModel, cmd = m.calendarModel.Update(msg)
	case StateUsers:
		m.usersModel, cmd = m.usersModel.Update(msg)
	case StateSettings:
		m.settingsModel, cmd = m.settingsModel.Update(msg)
	}
	return m, cmd
}

func (m Model) handleActorChanged(msg actorChangedMsg) (tea.Model, tea.Cmd) {
	if msg.closed {
		return m, nil
	}
	wait := waitForActor(m.actorCh)
	m.actor = msg.actor
	m.loggingIn = false

	if msg.actor == nil {
		m.state = StateLogin
		m.loginForm = &LoginFormModel{}
		m.form = NewLoginForm(m.loginForm)
		m.refreshCalendar()
		m.usersModel.SetUsers(nil, "")
		return m, tea.Batch(wait, m.form.Init())
	}

	m.state = StateCalendar
	return m, tea.Batch(wait, m.loadEntriesCmd(msg.actor.ID), m.loadUsersCmd())
}

// updateForm drives the active huh form and acts on completion
func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.Type == tea.KeyCtrlC && m.state == StateLogin {
			m.quitting = true
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEsc && m.state != StateLogin {
			m.state = m.previousState
			return m, nil
		}
	}
	if m.loggingIn {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		next, submit := m.submitForm()
		return next, tea.Batch(cmd, submit)
	case huh.StateAborted:
		if m.state == StateLogin {
			m.quitting = true
			return m, tea.Quit
		}
		m.state = m.previousState
		return m, nil
	}
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateLogin:
		// Stay on the login screen until the actor change arrives
		m.loggingIn = true
		return m, m.loginCmd(m.loginForm.Email, m.loginForm.Password)

	case StateEditDay:
		m.state = m.previousState
		return m, m.saveDayCmd(m.dayForm.Date, m.dayForm.Rating, m.dayForm.Note)

	case StateEditSettings:
		m.state = m.previousState
		if err := m.ctrl.SetTheme(m.settingsForm.Theme); err != nil {
			return m, nil
		}
		if err := m.ctrl.SetAccent(m.settingsForm.Accent); err != nil {
			return m, nil
		}
		m.applyPreferences()
		return m, nil

	case StateExport:
		m.state = m.previousState
		return m, m.exportCmd(m.exportForm.Format)
	}
	return m, nil
}

func (m Model) cycleTab(delta int) SessionState {
	tabs := m.tabs()
	for i, s := range tabs {
		if s == m.state {
			return tabs[(i+delta+len(tabs))%len(tabs)]
		}
	}
	return tabs[0]
}

func (m *Model) refreshCalendar() {
	m.calendarModel.SetEntries(m.ctrl.ViewingOwner(), m.ctrl.Entries(), m.ctrl.Editable(), onDayClick)
}

func (m *Model) applyPreferences() {
	p := m.ctrl.Preferences()
	m.theme = NewTheme(p)
	m.calendarModel.SetStyles(m.theme.Calendar)
	m.settingsModel.SetPreferences(p)
}
