package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	grid "github.com/julianstephens/daydicated/internal/calendar"
	"github.com/julianstephens/daydicated/internal/models"
)

const cellWidth = 12

type KeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Select    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev day"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next day"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev week"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next week"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys("[", "pgup"),
			key.WithHelp("[", "prev month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("]", "pgdown"),
			key.WithHelp("]", "next month"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "edit day"),
		),
	}
}

// Styles controls how the grid is drawn
type Styles struct {
	Header  lipgloss.Style
	Weekday lipgloss.Style
	Cell    lipgloss.Style
	Focused lipgloss.Style
	Blank   lipgloss.Style
	Muted   lipgloss.Style
	Ratings [6]lipgloss.Style
}

func DefaultStyles() Styles {
	s := Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		Weekday: lipgloss.NewStyle().Width(cellWidth).Foreground(lipgloss.Color("240")),
		Cell:    lipgloss.NewStyle().Width(cellWidth).Height(2),
		Focused: lipgloss.NewStyle().Width(cellWidth).Height(2).Reverse(true),
		Blank:   lipgloss.NewStyle().Width(cellWidth).Height(2),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
	for i, c := range []string{"240", "196", "208", "226", "148", "46"} {
		s.Ratings[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return s
}

// Model is the interactive year calendar. The cursor always rests on a
// real day of the year.
type Model struct {
	year     int
	months   []MonthView
	cursor   time.Time
	editable bool
	owner    string
	keys     KeyMap
	styles   Styles
	width    int
	height   int
}

func New(year int, now time.Time) Model {
	cursor := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	if now.Year() == year {
		cursor = time.Date(year, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return Model{
		year:   year,
		months: Render(year, nil, false, nil),
		cursor: cursor,
		keys:   DefaultKeyMap(),
		styles: DefaultStyles(),
	}
}

// SetEntries redraws the grid for owner's entries
func (m *Model) SetEntries(owner string, entries map[string]models.Entry, editable bool, onClick DayClickFunc) {
	m.owner = owner
	m.editable = editable
	m.months = Render(m.year, entries, editable, onClick)
}

func (m *Model) SetStyles(s Styles) {
	m.styles = s
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) Editable() bool { return m.editable }

func (m Model) Owner() string { return m.owner }

func (m Model) Keys() KeyMap { return m.keys }

// Focused returns the cell under the cursor
func (m Model) Focused() Cell {
	month, week, weekday, ok := grid.Position(m.year, m.cursor.Format("2006-01-02"))
	if !ok {
		return Cell{}
	}
	return m.months[month].Weeks[week][weekday]
}

// Focus moves the cursor to date if it lies in the calendar year
func (m *Model) Focus(date string) bool {
	t, err := time.Parse("2006-01-02", date)
	if err != nil || t.Year() != m.year {
		return false
	}
	m.cursor = t
	return true
}

func (m *Model) move(days int) {
	next := m.cursor.AddDate(0, 0, days)
	if next.Year() == m.year {
		m.cursor = next
	}
}

func (m *Model) moveMonth(delta int) {
	month := int(m.cursor.Month()) - 1 + delta
	if month < 0 || month > 11 {
		return
	}
	day := min(m.cursor.Day(), grid.DaysInMonth(m.year, month))
	m.cursor = time.Date(m.year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Left):
			m.move(-1)
		case key.Matches(msg, m.keys.Right):
			m.move(1)
		case key.Matches(msg, m.keys.Up):
			m.move(-grid.DaysPerWeek)
		case key.Matches(msg, m.keys.Down):
			m.move(grid.DaysPerWeek)
		case key.Matches(msg, m.keys.PrevMonth):
			m.moveMonth(-1)
		case key.Matches(msg, m.keys.NextMonth):
			m.moveMonth(1)
		case key.Matches(msg, m.keys.Select):
			cell := m.Focused()
			if cell.OnClick != nil {
				return m, cell.OnClick(cell.Date, cell.Entry)
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	month := m.months[int(m.cursor.Month())-1]
	focused := m.Focused()

	var b strings.Builder
	b.WriteString(m.viewMonthStrip())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Header.Render(fmt.Sprintf("%s %d", month.Name, m.year)))
	if !m.editable {
		b.WriteString(m.styles.Muted.Render("  (read-only)"))
	}
	b.WriteString("\n")

	var weekdays []string
	for _, d := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		weekdays = append(weekdays, m.styles.Weekday.Render(d))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, weekdays...))
	b.WriteString("\n")

	for _, week := range month.Weeks {
		cells := make([]string, len(week))
		for i, c := range week {
			cells[i] = m.viewCell(c, !c.Blank() && c.Date == focused.Date)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.viewDetail(focused))
	return b.String()
}

func (m Model) viewCell(c Cell, focused bool) string {
	if c.Blank() {
		return m.styles.Blank.Render("")
	}

	top := fmt.Sprintf("%2d", c.Day)
	if c.Entry != nil {
		top += " " + m.ratingStyle(c.Entry.Rating).Render(c.Stars)
	}
	preview := strings.NewReplacer("\n", " ", "\r", " ").Replace(c.Preview)
	content := top + "\n" + m.styles.Muted.Render(preview)

	if focused {
		return m.styles.Focused.Render(content)
	}
	return m.styles.Cell.Render(content)
}

func (m Model) viewDetail(c Cell) string {
	if c.Blank() {
		return ""
	}
	if c.Entry == nil {
		hint := "no entry"
		if m.editable {
			hint = "no entry, press enter to rate this day"
		}
		return fmt.Sprintf("%s  %s", c.Date, m.styles.Muted.Render(hint))
	}
	line := fmt.Sprintf("%s  %s (%d/5)", c.Date, m.ratingStyle(c.Entry.Rating).Render(c.Stars), c.Entry.Rating)
	if c.Detail != "" {
		line += "\n" + c.Detail
	}
	return line
}

func (m Model) viewMonthStrip() string {
	current := int(m.cursor.Month()) - 1
	parts := make([]string, len(m.months))
	for i, mv := range m.months {
		name := mv.Name[:3]
		if i == current {
			parts[i] = m.styles.Header.Render(name)
		} else {
			parts[i] = m.styles.Muted.Render(name)
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) ratingStyle(r int) lipgloss.Style {
	if r < 1 || r >= len(m.styles.Ratings) {
		return m.styles.Ratings[0]
	}
	return m.styles.Ratings[r]
}
