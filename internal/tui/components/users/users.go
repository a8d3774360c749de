package users

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daydicated/internal/models"
)

// ViewUserMsg asks to open a user's calendar
type ViewUserMsg struct {
	UserID string
}

type Item struct {
	User  models.User
	Actor bool
}

func (i Item) Title() string {
	if i.Actor {
		return i.User.Label() + " (you)"
	}
	return i.User.Label()
}

func (i Item) Description() string { return i.User.Email }

func (i Item) FilterValue() string { return i.User.Label() + " " + i.User.Email }

type KeyMap struct {
	View key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		View: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "view calendar"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Users"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.View}
	}
	return Model{list: l, keys: keys}
}

// SetUsers replaces the list, marking the actor's row
func (m *Model) SetUsers(users []models.User, actorID string) {
	items := make([]list.Item, len(users))
	for i, u := range users {
		items[i] = Item{User: u, Actor: u.ID == actorID}
	}
	m.list.SetItems(items)
}

func (m Model) Len() int { return len(m.list.Items()) }

// Lookup finds a listed user by id
func (m Model) Lookup(id string) (models.User, bool) {
	for _, it := range m.list.Items() {
		if item, ok := it.(Item); ok && item.User.ID == id {
			return item.User, true
		}
	}
	return models.User{}, false
}

func (m Model) Selected() (models.User, bool) {
	item, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.User{}, false
	}
	return item.User, true
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.View) {
		if u, ok := m.Selected(); ok {
			return m, func() tea.Msg { return ViewUserMsg{UserID: u.ID} }
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Len() == 0 {
		return "No users yet. Add one with 'daydicated user add'."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
