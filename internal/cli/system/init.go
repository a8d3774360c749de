package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/daydicated/internal/cli"
	apperrors "github.com/julianstephens/daydicated/internal/errors"
	"github.com/julianstephens/daydicated/internal/storage"
	"github.com/julianstephens/daydicated/internal/storage/postgres"
	"github.com/julianstephens/daydicated/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing SQLite database before initializing."`
	Source string `help:"Database path or connection string to copy users and entries from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(bg); err != nil {
		return err
	}
	ctx.Printf("Initialized daydicated storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		if err := copyData(bg, ctx, c.Source); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		ctx.Println("Copy completed successfully!")
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if !ctx.SupportsBackups() {
		return fmt.Errorf("--force is only supported for SQLite storage")
	}
	dbPath := ctx.Store.GetConfigPath()
	if abs, err := filepath.Abs(dbPath); err == nil {
		dbPath = abs
	}
	if c.Source != "" {
		if abs, err := filepath.Abs(storage.ExpandPath(c.Source)); err == nil && abs == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	ctx.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

func openSource(source string) (storage.Provider, error) {
	if !storage.IsPostgres(source) {
		return sqlite.New(source), nil
	}
	if valid, err := postgres.ValidateConnString(source); !valid {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
		}
		return nil, err
	}
	return postgres.New(source), nil
}

// copyData copies every account and entry from source into the context's
// store. Accounts that already exist at the destination are skipped.
func copyData(bg context.Context, ctx *cli.Context, source string) error {
	src, err := openSource(source)
	if err != nil {
		return err
	}
	if err := src.Load(bg); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	ctx.Println("  Copying users...")
	users, err := src.ListUsers(bg)
	if err != nil {
		return fmt.Errorf("failed to list users from source: %w", err)
	}
	copied := 0
	for _, u := range users {
		if err := ctx.Store.AddUser(bg, u); err != nil {
			if apperrors.Is(err, apperrors.ErrUserExists) {
				ctx.Printf("    Skipped existing user %s\n", u.Email)
				continue
			}
			return fmt.Errorf("failed to add user %s: %w", u.Email, err)
		}
		copied++
	}
	ctx.Printf("    Copied %d users\n", copied)

	ctx.Println("  Copying entries...")
	entries, err := src.QueryEntries(bg, storage.EntryFilter{})
	if err != nil {
		return fmt.Errorf("failed to get entries from source: %w", err)
	}
	for _, e := range entries {
		if err := ctx.Store.WriteEntry(bg, e.ID, e); err != nil {
			return fmt.Errorf("failed to write entry %s: %w", e.ID, err)
		}
	}
	ctx.Printf("    Copied %d entries\n", len(entries))
	return nil
}
