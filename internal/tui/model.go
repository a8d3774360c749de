package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daydicated/internal/constants"
	"github.com/julianstephens/daydicated/internal/controller"
	"github.com/julianstephens/daydicated/internal/models"
	"github.com/julianstephens/daydicated/internal/tui/components/calendar"
	"github.com/julianstephens/daydicated/internal/tui/components/settings"
	"github.com/julianstephens/daydicated/internal/tui/components/users"
)

type SessionState = constants.SessionState

const (
	StateLogin        = constants.StateLogin
	StateCalendar     = constants.StateCalendar
	StateUsers        = constants.StateUsers
	StateSettings     = constants.StateSettings
	StateEditDay      = constants.StateEditDay
	StateEditSettings = constants.StateEditSettings
	StateExport       = constants.StateExport
)

type Model struct {
	ctx     context.Context
	ctrl    *controller.Controller
	actorCh <-chan *models.User

	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	theme         Theme

	calendarModel calendar.Model
	usersModel    users.Model
	settingsModel settings.Model

	form         *huh.Form
	loginForm    *LoginFormModel
	dayForm      *DayFormModel
	settingsForm *SettingsFormModel
	exportForm   *ExportFormModel

	actor     *models.User
	loggingIn bool
	now       func() time.Time
	quitting  bool
	width     int
	height    int
}

// NewModel builds the TUI. actorCh delivers sign-in changes, normally from
// auth.Service.Subscribe.
func NewModel(ctx context.Context, ctrl *controller.Controller, actorCh <-chan *models.User) Model {
	cfg := ctrl.Config()
	theme := NewTheme(ctrl.Preferences())

	cal := calendar.New(cfg.Year, time.Now())
	cal.SetStyles(theme.Calendar)

	m := Model{
		ctx:           ctx,
		ctrl:          ctrl,
		actorCh:       actorCh,
		state:         StateLogin,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		theme:         theme,
		calendarModel: cal,
		usersModel:    users.New(0, 0),
		settingsModel: settings.New(ctrl.Preferences(), 0, 0),
		now:           time.Now,
	}
	m.loginForm = &LoginFormModel{}
	m.form = NewLoginForm(m.loginForm)
	return m
}

// tabs lists the top-level screens, settings only when enabled
func (m Model) tabs() []SessionState {
	tabs := []SessionState{StateCalendar, StateUsers}
	if m.ctrl.Config().SettingsEnabled {
		tabs = append(tabs, StateSettings)
	}
	return tabs
}

func tabTitle(s SessionState) string {
	switch s {
	case StateCalendar:
		return "Calendar"
	case StateUsers:
		return "Users"
	case StateSettings:
		return "Settings"
	}
	return ""
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateCalendar:
		ck := m.calendarModel.Keys()
		if m.calendarModel.Editable() {
			keys = append(keys, ck.Select)
		}
		keys = append(keys, m.keys.Mine, m.keys.Export)
	case StateUsers:
		keys = append(keys, users.DefaultKeyMap().View)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	ck := m.calendarModel.Keys()
	navigation := []key.Binding{ck.Left, ck.Right, ck.Up, ck.Down, ck.PrevMonth, ck.NextMonth, ck.Select}
	actions := []key.Binding{m.keys.Mine, m.keys.Export, m.keys.Refresh, m.keys.Logout}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.form.Init(), waitForActor(m.actorCh), tick())
}
