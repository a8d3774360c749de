package system

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/daydicated/internal/cli"
	"github.com/julianstephens/daydicated/internal/constants"
	"github.com/julianstephens/daydicated/internal/models"
	"github.com/julianstephens/daydicated/internal/storage"
)

type DoctorCmd struct{}

// errSkipped marks a check that does not apply to the current storage
var errSkipped = errors.New("skipped")

type check struct {
	name string
	// needsDB checks are skipped when the database is unreachable
	needsDB bool
	// warnOnly checks never fail the run
	warnOnly bool
	run      func(context.Context, *cli.Context) error
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "User integrity", needsDB: true, run: checkUsers},
	{name: "Entry integrity", needsDB: true, run: checkEntries},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	for i, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(bg, ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case errors.Is(err, errSkipped):
			ctx.Printf("⊘ %s: SKIPPED (%v)\n", c.name, strings.TrimSuffix(err.Error(), ": "+errSkipped.Error()))
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if i == 0 {
				dbReachable = false
			}
		}
	}

	ctx.Println()
	if hasError {
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All checks passed.")
	return nil
}

func checkDBReachable(bg context.Context, ctx *cli.Context) error {
	if err := ctx.Store.Ping(bg); err != nil {
		if err := ctx.Store.Load(bg); err != nil {
			return err
		}
		return ctx.Store.Ping(bg)
	}
	return nil
}

func checkSchemaVersion(bg context.Context, ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaStatus(bg)
	if err != nil {
		return err
	}
	if current != latest {
		return fmt.Errorf("schema version %d, expected %d. Run 'daydicated migrate'", current, latest)
	}
	return nil
}

func checkBackupsPresent(bg context.Context, ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return fmt.Errorf("PostgreSQL storage: %w", errSkipped)
	}
	snapshots, err := mgr.List()
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		return fmt.Errorf("no backups found in %s. Run 'daydicated backup create'", mgr.Dir())
	}
	newest := snapshots[0]
	if age := time.Since(newest.Taken); age > 7*24*time.Hour {
		return fmt.Errorf("newest backup %s was taken %s", newest.Name, newest.AgeLabel(time.Now()))
	}
	return nil
}

func checkUsers(bg context.Context, ctx *cli.Context) error {
	users, err := ctx.Store.ListUsers(bg)
	if err != nil {
		return err
	}
	var problems []string
	for _, u := range users {
		if u.Email != storage.NormalizeEmail(u.Email) || !strings.Contains(u.Email, "@") {
			problems = append(problems, fmt.Sprintf("user %s has malformed email %q", u.ID, u.Email))
		}
		if u.PasswordHash == "" {
			problems = append(problems, fmt.Sprintf("user %s has no password hash", u.Email))
		}
	}
	return joinProblems(problems)
}

func checkEntries(bg context.Context, ctx *cli.Context) error {
	users, err := ctx.Store.ListUsers(bg)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(users))
	for _, u := range users {
		known[u.ID] = true
	}

	entries, err := ctx.Store.QueryEntries(bg, storage.EntryFilter{})
	if err != nil {
		return err
	}
	var problems []string
	for _, e := range entries {
		problems = append(problems, entryProblems(e, known)...)
	}
	return joinProblems(problems)
}

func entryProblems(e models.Entry, knownOwners map[string]bool) []string {
	var problems []string
	if !models.ValidRating(e.Rating) {
		problems = append(problems, fmt.Sprintf("entry %s has rating %d outside %d-%d", e.ID, e.Rating, constants.MinRating, constants.MaxRating))
	}
	if !models.ValidDate(e.Date, constants.CalendarYear) {
		problems = append(problems, fmt.Sprintf("entry %s has date %q outside %d", e.ID, e.Date, constants.CalendarYear))
	}
	if want := models.EntryKey(e.OwnerID, e.Date); e.ID != want {
		problems = append(problems, fmt.Sprintf("entry %s should be keyed %s", e.ID, want))
	}
	if !knownOwners[e.OwnerID] {
		problems = append(problems, fmt.Sprintf("entry %s belongs to unknown user %s", e.ID, e.OwnerID))
	}
	return problems
}

func joinProblems(problems []string) error {
	switch len(problems) {
	case 0:
		return nil
	case 1:
		return errors.New(problems[0])
	}
	return fmt.Errorf("%d problems found:\n   - %s", len(problems), strings.Join(problems, "\n   - "))
}
