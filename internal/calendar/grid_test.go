package calendar

import (
	"testing"
	"time"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month int
		want  int
	}{
		{"january", 2026, 0, 31},
		{"february common year", 2026, 1, 28},
		{"february leap year", 2024, 1, 29},
		{"february century not leap", 1900, 1, 28},
		{"february 400 leap", 2000, 1, 29},
		{"april", 2026, 3, 30},
		{"december", 2026, 11, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysInMonth(tt.year, tt.month); got != tt.want {
				t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
			}
		})
	}
}

func TestDaysInMonthMatchesTimePackage(t *testing.T) {
	for year := 1896; year <= 2104; year++ {
		for month := 0; month < 12; month++ {
			// Day 0 of the next month normalizes to the last day of this one
			want := time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
			if got := DaysInMonth(year, month); got != want {
				t.Fatalf("DaysInMonth(%d, %d) = %d, want %d", year, month, got, want)
			}
		}
	}
}

func TestFirstWeekday(t *testing.T) {
	tests := []struct {
		year  int
		month int
		want  int
	}{
		{2026, 0, 4}, // Thursday
		{2026, 1, 0}, // Sunday
		{2026, 2, 0}, // Sunday
		{2026, 5, 1}, // Monday
	}
	for _, tt := range tests {
		if got := FirstWeekday(tt.year, tt.month); got != tt.want {
			t.Errorf("FirstWeekday(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestBuildMonthFebruary2026(t *testing.T) {
	m := BuildMonth(2026, 1)

	if m.Name != "February" {
		t.Errorf("Name = %q, want February", m.Name)
	}
	// 28 days starting on Sunday fill exactly four weeks
	if len(m.Weeks) != 4 {
		t.Fatalf("expected 4 weeks, got %d", len(m.Weeks))
	}
	if m.Weeks[0][0].Blank() {
		t.Error("first cell should be day 1, found a leading blank")
	}
	if m.Weeks[0][0].Date != "2026-02-01" {
		t.Errorf("first date = %q, want 2026-02-01", m.Weeks[0][0].Date)
	}
	if last := m.Weeks[3][6]; last.Number != 28 {
		t.Errorf("last cell = %d, want 28", last.Number)
	}
}

func TestBuildMonthPadding(t *testing.T) {
	for month := 0; month < 12; month++ {
		m := BuildMonth(2026, month)
		lead := FirstWeekday(2026, month)

		days := 0
		for wi, week := range m.Weeks {
			if len(week) != DaysPerWeek {
				t.Fatalf("month %d week %d has %d cells", month, wi, len(week))
			}
			for di, d := range week {
				idx := wi*DaysPerWeek + di
				if idx < lead && !d.Blank() {
					t.Errorf("month %d cell %d should be a leading blank", month, idx)
				}
				if !d.Blank() {
					days++
					if d.Number != idx-lead+1 {
						t.Errorf("month %d cell %d = %d, want %d", month, idx, d.Number, idx-lead+1)
					}
				}
			}
		}
		if days != DaysInMonth(2026, month) {
			t.Errorf("month %d has %d days in grid, want %d", month, days, DaysInMonth(2026, month))
		}
		// Trailing blanks never fill a whole extra week
		lastWeek := m.Weeks[len(m.Weeks)-1]
		if lastWeek[0].Blank() {
			t.Errorf("month %d ends with an all-blank week", month)
		}
	}
}

func TestBuildYear(t *testing.T) {
	months := BuildYear(2026)
	if len(months) != 12 {
		t.Fatalf("expected 12 months, got %d", len(months))
	}
	for i, m := range months {
		if m.Index != i || m.Year != 2026 {
			t.Errorf("month %d has Index=%d Year=%d", i, m.Index, m.Year)
		}
	}
}

func TestDateString(t *testing.T) {
	if got := DateString(2026, 2, 5); got != "2026-03-05" {
		t.Errorf("DateString() = %q, want 2026-03-05", got)
	}
}

func TestPosition(t *testing.T) {
	month, week, weekday, ok := Position(2026, "2026-03-15")
	if !ok {
		t.Fatal("Position() should locate 2026-03-15")
	}
	// March 2026 starts on Sunday, so the 15th is the Sunday of week 3
	if month != 2 || week != 2 || weekday != 0 {
		t.Errorf("Position() = (%d, %d, %d), want (2, 2, 0)", month, week, weekday)
	}

	cell := BuildMonth(2026, month).Weeks[week][weekday]
	if cell.Date != "2026-03-15" {
		t.Errorf("grid cell at position = %q", cell.Date)
	}

	if _, _, _, ok := Position(2026, "2025-03-15"); ok {
		t.Error("Position() should reject other years")
	}
	if _, _, _, ok := Position(2026, "garbage"); ok {
		t.Error("Position() should reject unparsable dates")
	}
}
