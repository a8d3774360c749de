// Package controller coordinates sign-in, calendar viewing, day edits,
// settings and export. Every failure is also queued as a notification.
package controller

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/daydicated/internal/cache"
	"github.com/julianstephens/daydicated/internal/constants"
	apperrors "github.com/julianstephens/daydicated/internal/errors"
	"github.com/julianstephens/daydicated/internal/export"
	"github.com/julianstephens/daydicated/internal/logger"
	"github.com/julianstephens/daydicated/internal/models"
	"github.com/julianstephens/daydicated/internal/prefs"
	"github.com/julianstephens/daydicated/internal/storage"
)

// Authenticator is the part of the auth service the controller drives
type Authenticator interface {
	Login(ctx context.Context, email, password string) (models.User, error)
	Logout() error
	CurrentActor() (models.User, bool)
}

// Store is the storage surface the controller reads and writes
type Store interface {
	storage.EntryStore
	ListUsers(ctx context.Context) ([]models.User, error)
}

type Config struct {
	// SettingsEnabled exposes theme and accent settings. When false the
	// defaults apply and setting changes are refused.
	SettingsEnabled bool
	Year            int
	ExportDir       string
}

type Controller struct {
	auth  Authenticator
	store Store
	cache *cache.EntryCache
	prefs *prefs.Store
	cfg   Config

	mu    sync.Mutex
	notes []Notification
	now   func() time.Time
}

// New wires a controller. prefs may be nil when settings are disabled.
func New(auth Authenticator, store Store, entries *cache.EntryCache, p *prefs.Store, cfg Config) *Controller {
	if cfg.Year == 0 {
		cfg.Year = constants.CalendarYear
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}
	if p == nil {
		cfg.SettingsEnabled = false
	}
	return &Controller{
		auth:  auth,
		store: store,
		cache: entries,
		prefs: p,
		cfg:   cfg,
		now:   time.Now,
	}
}

func (c *Controller) Config() Config {
	return c.cfg
}

// Login signs in. Loading the actor's calendar is left to whoever
// observes the sign-in.
func (c *Controller) Login(ctx context.Context, email, password string) (models.User, error) {
	user, err := c.auth.Login(ctx, email, password)
	if err != nil {
		c.NotifyError(err)
		return models.User{}, err
	}
	c.Notify(fmt.Sprintf("Signed in as %s", user.Label()))
	return user, nil
}

func (c *Controller) Logout() error {
	if err := c.auth.Logout(); err != nil {
		c.NotifyError(err)
		return err
	}
	c.cache.Reset()
	return nil
}

func (c *Controller) Actor() (models.User, bool) {
	return c.auth.CurrentActor()
}

// Users lists every account. Failures are logged, not shown.
func (c *Controller) Users(ctx context.Context) []models.User {
	users, err := c.store.ListUsers(ctx)
	if err != nil {
		logger.Error("Failed to load users", "error", err)
		return nil
	}
	return users
}

// View loads ownerID's calendar into the cache
func (c *Controller) View(ctx context.Context, ownerID string) (map[string]models.Entry, error) {
	entries, err := c.cache.Load(ctx, ownerID)
	if err != nil {
		c.NotifyError(err)
		return nil, err
	}
	return entries, nil
}

// Entries returns the cached entries of the viewed calendar
func (c *Controller) Entries() map[string]models.Entry {
	return c.cache.CurrentEntries()
}

func (c *Controller) ViewingOwner() string {
	return c.cache.ViewingOwner()
}

// Editable reports whether the viewed calendar belongs to the actor
func (c *Controller) Editable() bool {
	actor, ok := c.auth.CurrentActor()
	return ok && c.cache.ViewingOwner() == actor.ID
}

// SaveDay records the actor's rating and note for date. The rating must
// be a whole number between MinRating and MaxRating.
func (c *Controller) SaveDay(ctx context.Context, date, rating, note string) (models.Entry, error) {
	entry, err := c.saveDay(ctx, date, rating, note)
	if err != nil {
		c.NotifyError(err)
		return models.Entry{}, err
	}
	return entry, nil
}

func (c *Controller) saveDay(ctx context.Context, date, rating, note string) (models.Entry, error) {
	actor, ok := c.auth.CurrentActor()
	if !ok {
		return models.Entry{}, apperrors.ErrNotAuthenticated
	}
	key := models.EntryKey(actor.ID, date)

	if !models.ValidDate(date, c.cfg.Year) {
		return models.Entry{}, &apperrors.WriteError{Key: key, Err: fmt.Errorf("date %q is not in %d", date, c.cfg.Year)}
	}
	r, err := ParseRating(rating)
	if err != nil {
		return models.Entry{}, &apperrors.WriteError{Key: key, Err: err}
	}

	return c.cache.Upsert(ctx, date, strconv.Itoa(r), note)
}

// ParseRating accepts a whole number inside the rating range
func ParseRating(s string) (int, error) {
	r, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !models.ValidRating(r) {
		return 0, fmt.Errorf("%w: %q (want %d-%d)", apperrors.ErrInvalidRating, s, constants.MinRating, constants.MaxRating)
	}
	return r, nil
}

// Export fetches every user's entries and saves them in format
func (c *Controller) Export(ctx context.Context, format constants.ExportFormat) (string, error) {
	path, err := c.export(ctx, format)
	if err != nil {
		c.NotifyError(err)
		return "", err
	}
	c.Notify(fmt.Sprintf("Exported to %s", path))
	return path, nil
}

func (c *Controller) export(ctx context.Context, format constants.ExportFormat) (string, error) {
	entries, err := c.store.QueryEntries(ctx, storage.EntryFilter{})
	if err != nil {
		return "", &apperrors.FetchError{What: "entries for export", Err: err}
	}

	file, err := export.Build(format, c.cfg.Year, entries)
	if err != nil {
		return "", err
	}

	path, err := file.Save(c.cfg.ExportDir)
	if err != nil {
		return "", err
	}
	logger.Info("Exported entries", "format", format, "count", len(entries), "path", path)
	return path, nil
}

// Preferences returns the saved preferences, or the defaults when
// settings are disabled
func (c *Controller) Preferences() models.Preferences {
	if !c.cfg.SettingsEnabled {
		return models.DefaultPreferences()
	}
	return c.prefs.Get()
}

func (c *Controller) SetTheme(theme string) error {
	return c.setPref(constants.SettingTheme, theme)
}

func (c *Controller) SetAccent(accent string) error {
	return c.setPref(constants.SettingAccent, accent)
}

func (c *Controller) setPref(key, value string) error {
	if !c.cfg.SettingsEnabled {
		err := fmt.Errorf("settings are disabled")
		c.NotifyError(err)
		return err
	}
	if err := c.prefs.Set(key, value); err != nil {
		c.NotifyError(err)
		return err
	}
	c.Notify(fmt.Sprintf("Saved %s", key))
	return nil
}
