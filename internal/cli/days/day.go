package days

import (
	"context"
	"strconv"

	"github.com/julianstephens/daydicated/internal/cli"
	"github.com/julianstephens/daydicated/internal/export"
	"github.com/julianstephens/daydicated/internal/models"
)

type DaySetCmd struct {
	Date   string `arg:"" help:"Day to rate (YYYY-MM-DD)."`
	Rating string `arg:"" help:"Rating from 1 to 5."`
	Note   string `arg:"" optional:"" help:"Optional note for the day."`
}

func (c *DaySetCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	if _, err := ctx.RequireActor(bg); err != nil {
		return err
	}

	entry, err := ctx.NewController().SaveDay(bg, c.Date, c.Rating, c.Note)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Saved %s: %s\n", entry.Date, export.Summary(entry.Rating))
	return nil
}

type DayShowCmd struct {
	Date string `arg:"" help:"Day to show (YYYY-MM-DD)."`
	User string `help:"Email of the user whose day to show. Defaults to you."`
}

func (c *DayShowCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	owner, err := resolveOwner(bg, ctx, c.User)
	if err != nil {
		return err
	}

	entries, err := ctx.NewController().View(bg, owner.ID)
	if err != nil {
		return err
	}
	entry, ok := entries[c.Date]
	if !ok {
		ctx.Printf("No entry for %s on %s.\n", owner.Label(), c.Date)
		return nil
	}
	printEntry(ctx, entry)
	return nil
}

func printEntry(ctx *cli.Context, e models.Entry) {
	ctx.Printf("%s  %s\n", e.Date, export.Summary(e.Rating))
	if e.Note != "" {
		ctx.Printf("  %s\n", e.Note)
	}
	ctx.Printf("  updated %s\n", e.UpdatedAt.Local().Format("2006-01-02 15:04"))
}

// resolveOwner returns the account named by email, or the actor when email
// is empty. Reading any calendar requires being signed in.
func resolveOwner(bg context.Context, ctx *cli.Context, email string) (models.User, error) {
	actor, err := ctx.RequireActor(bg)
	if err != nil {
		return models.User{}, err
	}
	if email == "" {
		return actor, nil
	}
	return ctx.LookupUser(bg, email)
}

func ratingMark(e *models.Entry) string {
	if e == nil {
		return "·"
	}
	return strconv.Itoa(e.Rating)
}
