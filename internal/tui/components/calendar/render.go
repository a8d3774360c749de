package calendar

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	grid "github.com/julianstephens/daydicated/internal/calendar"
	"github.com/julianstephens/daydicated/internal/constants"
	"github.com/julianstephens/daydicated/internal/models"
)

// DayClickFunc is invoked when the user selects a day. existing is nil
// when the day has no entry.
type DayClickFunc func(date string, existing *models.Entry) tea.Cmd

// Cell is one rendered day. Padding cells have Day 0.
type Cell struct {
	Day     int
	Date    string
	Entry   *models.Entry
	Stars   string
	Preview string
	Detail  string
	OnClick DayClickFunc
}

func (c Cell) Blank() bool { return c.Day == 0 }

type MonthView struct {
	Index int
	Name  string
	Weeks [][]Cell
}

// Render lays out the year with the given entries. Day cells carry onClick
// only when editable.
func Render(year int, entries map[string]models.Entry, editable bool, onClick DayClickFunc) []MonthView {
	months := grid.BuildYear(year)
	views := make([]MonthView, len(months))

	for i, m := range months {
		mv := MonthView{Index: m.Index, Name: m.Name, Weeks: make([][]Cell, len(m.Weeks))}
		for w, week := range m.Weeks {
			row := make([]Cell, len(week))
			for d, day := range week {
				row[d] = renderCell(day, entries, editable, onClick)
			}
			mv.Weeks[w] = row
		}
		views[i] = mv
	}
	return views
}

func renderCell(day grid.Day, entries map[string]models.Entry, editable bool, onClick DayClickFunc) Cell {
	if day.Blank() {
		return Cell{}
	}

	cell := Cell{Day: day.Number, Date: day.Date}
	if e, ok := entries[day.Date]; ok {
		entry := e
		cell.Entry = &entry
		cell.Stars = Stars(e.Rating)
		cell.Preview = Preview(e.Note)
		cell.Detail = e.Note
	}
	if editable {
		cell.OnClick = onClick
	}
	return cell
}

// Stars renders a rating as a row of ★
func Stars(rating int) string {
	if rating <= 0 {
		return ""
	}
	return strings.Repeat("★", rating)
}

// Preview returns the first characters of a note shown inside a cell
func Preview(note string) string {
	r := []rune(note)
	if len(r) <= constants.NotePreviewLen {
		return note
	}
	return string(r[:constants.NotePreviewLen])
}
