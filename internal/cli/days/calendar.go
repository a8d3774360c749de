package days

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/julianstephens/daydicated/internal/cli"
	"github.com/julianstephens/daydicated/internal/models"
	"github.com/julianstephens/daydicated/internal/tui/components/calendar"
)

var weekdayHeader = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

type CalendarCmd struct {
	User  string `help:"Email of the user whose calendar to print. Defaults to you."`
	Month int    `help:"Only print this month (1-12)." default:"0"`
	Notes bool   `help:"List notes below each month."`
}

func (c *CalendarCmd) Run(ctx *cli.Context) error {
	if c.Month < 0 || c.Month > 12 {
		return fmt.Errorf("month must be between 1 and 12")
	}
	bg := context.Background()
	owner, err := resolveOwner(bg, ctx, c.User)
	if err != nil {
		return err
	}

	ctrl := ctx.NewController()
	entries, err := ctrl.View(bg, owner.ID)
	if err != nil {
		return err
	}

	year := ctrl.Config().Year
	ctx.Printf("%s's %d calendar\n\n", owner.Label(), year)
	for _, mv := range calendar.Render(year, entries, false, nil) {
		if c.Month != 0 && mv.Index != c.Month-1 {
			continue
		}
		ctx.Print(formatMonth(year, mv, c.Notes))
		ctx.Println()
	}
	ctx.Println(summarize(entries))
	return nil
}

// formatMonth draws a month as a text grid. Each day shows its number and
// the rating digit, or a dot when unrated.
func formatMonth(year int, mv calendar.MonthView, notes bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", mv.Name, year)
	for _, d := range weekdayHeader {
		fmt.Fprintf(&b, " %s ", d)
	}
	b.WriteString("\n")

	var noted []calendar.Cell
	for _, week := range mv.Weeks {
		for _, cell := range week {
			if cell.Blank() {
				b.WriteString("    ")
				continue
			}
			fmt.Fprintf(&b, " %2d%s", cell.Day, ratingMark(cell.Entry))
			if cell.Entry != nil && cell.Detail != "" {
				noted = append(noted, cell)
			}
		}
		b.WriteString("\n")
	}

	if notes {
		for _, cell := range noted {
			fmt.Fprintf(&b, "  %s %-5s %s\n", cell.Date, cell.Stars, cell.Detail)
		}
	}
	return b.String()
}

func summarize(entries map[string]models.Entry) string {
	if len(entries) == 0 {
		return "No days rated yet."
	}
	total := 0
	counts := make(map[int]int)
	for _, e := range entries {
		total += e.Rating
		counts[e.Rating]++
	}
	var parts []string
	for _, r := range slices.Sorted(maps.Keys(counts)) {
		parts = append(parts, fmt.Sprintf("%d★ ×%d", r, counts[r]))
	}
	return fmt.Sprintf("%d days rated, average %.1f (%s)", len(entries), float64(total)/float64(len(entries)), strings.Join(parts, ", "))
}
