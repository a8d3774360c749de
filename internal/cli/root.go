package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/julianstephens/daydicated/internal/auth"
	"github.com/julianstephens/daydicated/internal/backup"
	"github.com/julianstephens/daydicated/internal/cache"
	"github.com/julianstephens/daydicated/internal/controller"
	apperrors "github.com/julianstephens/daydicated/internal/errors"
	"github.com/julianstephens/daydicated/internal/logger"
	"github.com/julianstephens/daydicated/internal/models"
	"github.com/julianstephens/daydicated/internal/prefs"
	"github.com/julianstephens/daydicated/internal/storage"
	"github.com/julianstephens/daydicated/internal/storage/sqlite"
)

// Context is handed to every command's Run method
type Context struct {
	Store  storage.Provider
	Auth   *auth.Service
	Prefs  *prefs.Store // nil when settings are disabled
	Config controller.Config

	// Out and In default to the process's stdout and stdin
	Out io.Writer
	In  io.Reader

	lines *bufio.Reader
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) in() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Print(args ...any) {
	fmt.Fprint(c.out(), args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// Prompt prints prompt and reads one line of input without its newline
func (c *Context) Prompt(prompt string) (string, error) {
	c.Printf("%s", prompt)
	if c.lines == nil {
		c.lines = bufio.NewReader(c.in())
	}
	line, err := c.lines.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// PromptPassword reads a password without echo when input is a terminal,
// falling back to a plain line read for piped input.
func (c *Context) PromptPassword(prompt string) (string, error) {
	if f, ok := c.in().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.Printf("%s", prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		c.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}
	return c.Prompt(prompt)
}

// Confirm asks a yes/no question, defaulting to no
func (c *Context) Confirm(prompt string) (bool, error) {
	answer, err := c.Prompt(prompt + " [y/N]: ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// NewController wires a controller over the context's store and auth service
func (c *Context) NewController() *controller.Controller {
	return controller.New(c.Auth, c.Store, cache.New(c.Store, c.Auth), c.Prefs, c.Config)
}

// RequireActor resumes the persisted session and fails when nobody is signed in
func (c *Context) RequireActor(ctx context.Context) (models.User, error) {
	user, ok, err := c.Auth.Restore(ctx)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, &apperrors.AuthError{Op: "session", Err: apperrors.ErrNotAuthenticated}
	}
	return user, nil
}

// LookupUser resolves an email to an account
func (c *Context) LookupUser(ctx context.Context, email string) (models.User, error) {
	user, err := c.Store.GetUserByEmail(ctx, email)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return models.User{}, fmt.Errorf("no user with email %q", email)
	}
	return user, err
}

// SupportsBackups reports whether the store is a local SQLite file
func (c *Context) SupportsBackups() bool {
	_, ok := c.Store.(*sqlite.Store)
	return ok
}

// BackupManager returns the snapshot manager for the SQLite database
func (c *Context) BackupManager() (*backup.Manager, error) {
	if !c.SupportsBackups() {
		return nil, fmt.Errorf("backups are only supported for SQLite storage")
	}
	return backup.NewManager(c.Store.GetConfigPath()), nil
}

// PerformAutomaticBackup snapshots the SQLite database and only logs failures
func (c *Context) PerformAutomaticBackup(ctx context.Context) {
	if !c.SupportsBackups() {
		return
	}
	if _, err := backup.NewManager(c.Store.GetConfigPath()).Create(ctx); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
