// Package calendar builds the month and week layout of a calendar year.
//
// Months are 0-indexed (0 = January) and weekdays start on Sunday (0).
// Month arguments outside 0-11 are a caller error and are not checked.
package calendar

import (
	"fmt"
	"time"
)

// DaysPerWeek is the width of every week row
const DaysPerWeek = 7

// Day is one cell of a month grid. Blank padding cells have Number 0 and
// an empty Date.
type Day struct {
	Number int
	Date   string
}

// Blank reports whether the cell is padding rather than a real day
func (d Day) Blank() bool { return d.Number == 0 }

// Month is the grid layout of a single month
type Month struct {
	Year  int
	Index int // 0-11
	Name  string
	Weeks [][]Day
}

// IsLeapYear reports whether year has a February 29th
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the number of days in the 0-indexed month of year
func DaysInMonth(year, month int) int {
	if month == 1 && IsLeapYear(year) {
		return 29
	}
	return monthDays[month]
}

// FirstWeekday returns the weekday of the first day of the 0-indexed
// month, 0 = Sunday
func FirstWeekday(year, month int) int {
	return int(time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// DateString formats a 0-indexed month and a day number as YYYY-MM-DD
func DateString(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month+1, day)
}

// BuildMonth lays out the month as full weeks: leading blanks up to the
// first weekday, then the days, then trailing blanks to fill the last week.
func BuildMonth(year, month int) Month {
	lead := FirstWeekday(year, month)
	days := DaysInMonth(year, month)

	cells := make([]Day, 0, lead+days+DaysPerWeek)
	for i := 0; i < lead; i++ {
		cells = append(cells, Day{})
	}
	for d := 1; d <= days; d++ {
		cells = append(cells, Day{Number: d, Date: DateString(year, month, d)})
	}
	for len(cells)%DaysPerWeek != 0 {
		cells = append(cells, Day{})
	}

	weeks := make([][]Day, 0, len(cells)/DaysPerWeek)
	for i := 0; i < len(cells); i += DaysPerWeek {
		weeks = append(weeks, cells[i:i+DaysPerWeek])
	}

	return Month{
		Year:  year,
		Index: month,
		Name:  time.Month(month + 1).String(),
		Weeks: weeks,
	}
}

// BuildYear returns the twelve month grids of year
func BuildYear(year int) []Month {
	months := make([]Month, 12)
	for m := range months {
		months[m] = BuildMonth(year, m)
	}
	return months
}

// Position locates a YYYY-MM-DD date within a year grid. ok is false when
// the date cannot be parsed or belongs to another year.
func Position(year int, date string) (month, week, weekday int, ok bool) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil || t.Year() != year {
		return 0, 0, 0, false
	}
	month = int(t.Month()) - 1
	offset := FirstWeekday(year, month) + t.Day() - 1
	return month, offset / DaysPerWeek, offset % DaysPerWeek, true
}
