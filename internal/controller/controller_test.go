package controller

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/daydicated/internal/auth"
	"github.com/julianstephens/daydicated/internal/cache"
	"github.com/julianstephens/daydicated/internal/constants"
	apperrors "github.com/julianstephens/daydicated/internal/errors"
	"github.com/julianstephens/daydicated/internal/models"
	"github.com/julianstephens/daydicated/internal/prefs"
	"github.com/julianstephens/daydicated/internal/storage"
	"github.com/julianstephens/daydicated/internal/storage/sqlite"
)

const password = "correct horse"

type fixture struct {
	ctrl  *Controller
	auth  *auth.Service
	store *sqlite.Store
	alice models.User
	bob   models.User
	dir   string
}

func setup(t *testing.T, settings bool) *fixture {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	store := sqlite.New(filepath.Join(dir, "test.db"))
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	svc := auth.NewService(store, &auth.MemorySessions{})
	alice, err := svc.Register(ctx, "alice@example.com", "Alice", password)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	bob, err := svc.Register(ctx, "bob@example.com", "Bob", password)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	var p *prefs.Store
	if settings {
		p = prefs.Open(dir)
	}
	ctrl := New(svc, store, cache.New(store, svc), p, Config{
		SettingsEnabled: settings,
		ExportDir:       filepath.Join(dir, "exports"),
	})
	return &fixture{ctrl: ctrl, auth: svc, store: store, alice: alice, bob: bob, dir: dir}
}

func (f *fixture) login(t *testing.T, email string) {
	t.Helper()
	if _, err := f.ctrl.Login(context.Background(), email, password); err != nil {
		t.Fatalf("Login(%s) failed: %v", email, err)
	}
}

func lastNote(t *testing.T, c *Controller) Notification {
	t.Helper()
	notes := c.Notifications(c.now())
	if len(notes) == 0 {
		t.Fatal("expected a notification")
	}
	return notes[len(notes)-1]
}

func TestLoginThenViewOwnCalendar(t *testing.T) {
	f := setup(t, true)
	ctx := context.Background()

	if err := f.store.WriteEntry(ctx, models.EntryKey(f.alice.ID, "2026-01-05"), models.Entry{
		OwnerID: f.alice.ID, Date: "2026-01-05", Rating: 3,
	}); err != nil {
		t.Fatal(err)
	}

	f.login(t, "alice@example.com")
	if f.ctrl.Editable() {
		t.Error("nothing is loaded until View")
	}
	if _, err := f.ctrl.View(ctx, f.alice.ID); err != nil {
		t.Fatalf("View() failed: %v", err)
	}

	if f.ctrl.ViewingOwner() != f.alice.ID {
		t.Errorf("ViewingOwner() = %s, want alice", f.ctrl.ViewingOwner())
	}
	if !f.ctrl.Editable() {
		t.Error("own calendar should be editable")
	}
	if f.ctrl.Entries()["2026-01-05"].Rating != 3 {
		t.Errorf("Entries() = %+v", f.ctrl.Entries())
	}
	if n := lastNote(t, f.ctrl); n.IsError || n.Message != "Signed in as Alice" {
		t.Errorf("notification = %+v", n)
	}
}

func TestLoginFailureNotifies(t *testing.T) {
	f := setup(t, true)
	_, err := f.ctrl.Login(context.Background(), "alice@example.com", "wrong password")
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
	if n := lastNote(t, f.ctrl); !n.IsError {
		t.Errorf("notification = %+v, want error", n)
	}
	if _, ok := f.ctrl.Actor(); ok {
		t.Error("failed login should leave no actor")
	}
}

func TestViewOtherUserIsReadOnly(t *testing.T) {
	f := setup(t, true)
	ctx := context.Background()
	f.login(t, "alice@example.com")

	if _, err := f.ctrl.View(ctx, f.bob.ID); err != nil {
		t.Fatalf("View() failed: %v", err)
	}
	if f.ctrl.Editable() {
		t.Error("another user's calendar should not be editable")
	}

	users := f.ctrl.Users(ctx)
	if len(users) != 2 {
		t.Errorf("Users() returned %d users, want 2", len(users))
	}
}

func TestSaveDay(t *testing.T) {
	f := setup(t, true)
	ctx := context.Background()
	f.login(t, "alice@example.com")

	entry, err := f.ctrl.SaveDay(ctx, "2026-03-15", "4", "Great hike")
	if err != nil {
		t.Fatalf("SaveDay() failed: %v", err)
	}
	if entry.Rating != 4 || entry.Note != "Great hike" {
		t.Errorf("SaveDay() = %+v", entry)
	}
	if got := f.ctrl.Entries()["2026-03-15"]; got.Rating != 4 {
		t.Errorf("cached entry = %+v", got)
	}

	stored, err := f.store.QueryEntries(ctx, storage.EntryFilter{OwnerID: f.alice.ID})
	if err != nil || len(stored) != 1 {
		t.Fatalf("stored entries = %+v, %v", stored, err)
	}
}

func TestSaveDayConfiguredYear(t *testing.T) {
	f := setup(t, true)
	ctx := context.Background()
	f.ctrl.cfg.Year = 2028
	f.login(t, "alice@example.com")

	if _, err := f.ctrl.SaveDay(ctx, "2028-02-29", "5", "leap day"); err != nil {
		t.Fatalf("SaveDay() in configured year failed: %v", err)
	}
	_, err := f.ctrl.SaveDay(ctx, "2026-03-15", "4", "")
	if err == nil {
		t.Fatal("SaveDay() outside configured year should fail")
	}
	if !strings.Contains(err.Error(), "not in 2028") {
		t.Errorf("SaveDay() error = %v, want it to name 2028", err)
	}
}

func TestSaveDayValidation(t *testing.T) {
	f := setup(t, true)
	ctx := context.Background()

	if _, err := f.ctrl.SaveDay(ctx, "2026-03-15", "4", ""); !errors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Errorf("SaveDay() signed out error = %v, want ErrNotAuthenticated", err)
	}

	f.login(t, "alice@example.com")
	tests := []struct {
		name   string
		date   string
		rating string
		rateOK bool
	}{
		{"rating too high", "2026-03-15", "6", false},
		{"rating zero", "2026-03-15", "0", false},
		{"fractional rating", "2026-03-15", "3.5", false},
		{"non-numeric rating", "2026-03-15", "great", false},
		{"date outside year", "2025-12-31", "3", true},
		{"malformed date", "2026-13-01", "3", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ctrl.SaveDay(ctx, tt.date, tt.rating, "")
			var writeErr *apperrors.WriteError
			if !errors.As(err, &writeErr) {
				t.Fatalf("SaveDay() error = %v, want *WriteError", err)
			}
			if !tt.rateOK && !errors.Is(err, apperrors.ErrInvalidRating) {
				t.Errorf("SaveDay() error = %v, want ErrInvalidRating", err)
			}
		})
	}
	if len(f.ctrl.Entries()) != 0 {
		t.Errorf("rejected saves changed the cache: %+v", f.ctrl.Entries())
	}
}

func TestLogoutClearsCache(t *testing.T) {
	f := setup(t, true)
	f.login(t, "alice@example.com")
	if _, err := f.ctrl.SaveDay(context.Background(), "2026-01-01", "5", ""); err != nil {
		t.Fatal(err)
	}

	if err := f.ctrl.Logout(); err != nil {
		t.Fatalf("Logout() failed: %v", err)
	}
	if len(f.ctrl.Entries()) != 0 || f.ctrl.ViewingOwner() != "" {
		t.Error("Logout() should clear the cache")
	}
	if f.ctrl.Editable() {
		t.Error("nothing is editable when signed out")
	}
}

func TestExportAllUsers(t *testing.T) {
	f := setup(t, true)
	ctx := context.Background()

	f.login(t, "bob@example.com")
	if _, err := f.ctrl.SaveDay(ctx, "2026-01-02", "3", "ok, fine"); err != nil {
		t.Fatal(err)
	}
	f.login(t, "alice@example.com")
	if _, err := f.ctrl.SaveDay(ctx, "2026-01-01", "5", ""); err != nil {
		t.Fatal(err)
	}

	path, err := f.ctrl.Export(ctx, constants.ExportCSV)
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if filepath.Base(path) != "daydicated-2026.csv" {
		t.Errorf("Export() path = %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("export has %d rows, want header + 2", len(rows))
	}
	if rows[1][0] != f.alice.ID || rows[2][3] != "ok, fine" {
		t.Errorf("rows = %v", rows)
	}
	if n := lastNote(t, f.ctrl); n.IsError {
		t.Errorf("notification = %+v", n)
	}
}

type brokenStore struct{}

func (brokenStore) QueryEntries(context.Context, storage.EntryFilter) ([]models.Entry, error) {
	return nil, errors.New("connection reset")
}

func (brokenStore) WriteEntry(context.Context, string, models.Entry) error {
	return errors.New("connection reset")
}

func (brokenStore) ListUsers(context.Context) ([]models.User, error) {
	return nil, errors.New("connection reset")
}

func TestExportFetchFailure(t *testing.T) {
	f := setup(t, true)
	ctrl := New(f.auth, brokenStore{}, cache.New(brokenStore{}, f.auth), nil, Config{ExportDir: t.TempDir()})

	_, err := ctrl.Export(context.Background(), constants.ExportJSON)
	var fetchErr *apperrors.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Export() error = %v, want *FetchError", err)
	}
	if n := lastNote(t, ctrl); !n.IsError {
		t.Errorf("notification = %+v, want error", n)
	}

	// User list failures stay silent
	before := len(ctrl.Notifications(ctrl.now()))
	if users := ctrl.Users(context.Background()); users != nil {
		t.Errorf("Users() = %+v, want nil", users)
	}
	if after := len(ctrl.Notifications(ctrl.now())); after != before {
		t.Error("Users() failure should not notify")
	}
}

func TestSettingsToggle(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		f := setup(t, true)
		if err := f.ctrl.SetTheme("light"); err != nil {
			t.Fatalf("SetTheme() failed: %v", err)
		}
		if err := f.ctrl.SetAccent("#ff0000"); err != nil {
			t.Fatalf("SetAccent() failed: %v", err)
		}
		p := f.ctrl.Preferences()
		if p.Theme != "light" || p.Accent != "#ff0000" {
			t.Errorf("Preferences() = %+v", p)
		}
		if err := f.ctrl.SetAccent("nope"); err == nil {
			t.Error("SetAccent(nope) should fail")
		}
	})

	t.Run("disabled", func(t *testing.T) {
		f := setup(t, false)
		if err := f.ctrl.SetTheme("light"); err == nil {
			t.Error("SetTheme() should fail when settings are disabled")
		}
		if p := f.ctrl.Preferences(); p != models.DefaultPreferences() {
			t.Errorf("Preferences() = %+v, want defaults", p)
		}
		if _, err := os.Stat(filepath.Join(f.dir, constants.PrefsFileName)); !os.IsNotExist(err) {
			t.Error("disabled settings wrote a preferences file")
		}
	})
}

func TestNotificationsExpire(t *testing.T) {
	f := setup(t, true)
	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := start
	f.ctrl.now = func() time.Time { return clock }

	f.ctrl.Notify("first")
	clock = start.Add(2 * time.Second)
	f.ctrl.NotifyError(errors.New("second"))
	f.ctrl.NotifyError(nil)

	if got := f.ctrl.Notifications(start.Add(4 * time.Second)); len(got) != 2 {
		t.Fatalf("at 4s got %d notifications, want 2", len(got))
	}
	got := f.ctrl.Notifications(start.Add(5 * time.Second))
	if len(got) != 1 || got[0].Message != "second" || !got[0].IsError {
		t.Fatalf("at 5s got %+v, want only the error", got)
	}
	if got := f.ctrl.Notifications(start.Add(7 * time.Second)); len(got) != 0 {
		t.Errorf("at 7s got %+v, want none", got)
	}
}

func TestPruneNotifications(t *testing.T) {
	f := setup(t, true)
	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := start
	f.ctrl.now = func() time.Time { return clock }

	f.ctrl.Notify("first")
	clock = start.Add(3 * time.Second)
	f.ctrl.Notify("second")

	// Reading past the first expiry leaves the queue alone
	f.ctrl.Notifications(start.Add(6 * time.Second))
	if n := len(f.ctrl.notes); n != 2 {
		t.Fatalf("Notifications() changed the queue to %d entries, want 2", n)
	}

	f.ctrl.PruneNotifications(start.Add(6 * time.Second))
	if len(f.ctrl.notes) != 1 || f.ctrl.notes[0].Message != "second" {
		t.Fatalf("after prune queue = %+v, want only second", f.ctrl.notes)
	}

	f.ctrl.PruneNotifications(start.Add(10 * time.Second))
	if len(f.ctrl.notes) != 0 {
		t.Errorf("after final prune queue = %+v, want empty", f.ctrl.notes)
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{" 5 ", 5, false},
		{"0", 0, true},
		{"6", 0, true},
		{"4.5", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRating(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ParseRating(%q) = %d, %v", tt.in, got, err)
			}
		})
	}
}
