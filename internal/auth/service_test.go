package auth

import (
	"context"
	"path/filepath"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	apperrors "github.com/julianstephens/daydicated/internal/errors"
	"github.com/julianstephens/daydicated/internal/models"
	"github.com/julianstephens/daydicated/internal/storage/sqlite"
)

func setupService(t *testing.T) (*Service, *sqlite.Store) {
	t.Helper()
	store := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewService(store, &MemorySessions{}), store
}

func register(t *testing.T, s *Service, email string) models.User {
	t.Helper()
	u, err := s.Register(context.Background(), email, "Test", "correct horse")
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	return u
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	s, _ := setupService(t)

	u := register(t, s, "Ada@Example.com")
	if u.ID == "" || u.Email != "ada@example.com" {
		t.Errorf("Register() = %+v", u)
	}
	if u.PasswordHash == "correct horse" {
		t.Error("password stored in clear text")
	}
	if _, ok := s.CurrentActor(); ok {
		t.Error("Register() should not sign the user in")
	}

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"duplicate email", "ada@example.com", "long enough", apperrors.ErrUserExists},
		{"short password", "bob@example.com", "short", nil},
		{"bad email", "bob", "long enough", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(ctx, tt.email, "", tt.password)
			if err == nil {
				t.Fatal("expected error")
			}
			var authErr *apperrors.AuthError
			if !apperrors.As(err, &authErr) || authErr.Op != "register" {
				t.Errorf("error = %v, want *AuthError for register", err)
			}
			if tt.want != nil && !apperrors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	s, _ := setupService(t)
	u := register(t, s, "ada@example.com")

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{"unknown email", "nobody@example.com", "correct horse", true},
		{"wrong password", "ada@example.com", "wrong horse", true},
		{"case-insensitive email", "ADA@example.com", "correct horse", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Login(ctx, tt.email, tt.password)
			if tt.wantErr {
				if !apperrors.Is(err, apperrors.ErrInvalidCredentials) {
					t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() failed: %v", err)
			}
			if got.ID != u.ID {
				t.Errorf("Login() user = %s, want %s", got.ID, u.ID)
			}
		})
	}

	actor, ok := s.CurrentActor()
	if !ok || actor.ID != u.ID {
		t.Errorf("CurrentActor() = %+v, %v", actor, ok)
	}

	if err := s.Logout(); err != nil {
		t.Fatalf("Logout() failed: %v", err)
	}
	if _, ok := s.CurrentActor(); ok {
		t.Error("CurrentActor() should be empty after Logout")
	}
}

func TestRestoreSession(t *testing.T) {
	ctx := context.Background()
	s, store := setupService(t)
	u := register(t, s, "ada@example.com")

	if _, err := s.Login(ctx, "ada@example.com", "correct horse"); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}

	// A second process sharing the session store
	other := NewService(store, s.sessions)
	got, ok, err := other.Restore(ctx)
	if err != nil || !ok || got.ID != u.ID {
		t.Fatalf("Restore() = %+v, %v, %v", got, ok, err)
	}

	if err := s.Logout(); err != nil {
		t.Fatalf("Logout() failed: %v", err)
	}
	fresh := NewService(store, s.sessions)
	if _, ok, err := fresh.Restore(ctx); ok || err != nil {
		t.Errorf("Restore() after logout = %v, %v; want signed out", ok, err)
	}
}

func TestRestoreMissingUser(t *testing.T) {
	s, _ := setupService(t)
	_ = s.sessions.Set("ghost")

	if _, ok, err := s.Restore(context.Background()); ok || err != nil {
		t.Errorf("Restore() = %v, %v; want signed out", ok, err)
	}
	if _, err := s.sessions.Get(); err != ErrNoSession {
		t.Errorf("stale session not cleared: %v", err)
	}
}

func TestKeyringSessions(t *testing.T) {
	gokeyring.MockInit()
	var k KeyringSessions

	if _, err := k.Get(); err != ErrNoSession {
		t.Errorf("Get() error = %v, want ErrNoSession", err)
	}
	if err := k.Delete(); err != nil {
		t.Errorf("Delete() on empty keyring = %v, want nil", err)
	}
	if err := k.Set("user-1"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if id, err := k.Get(); err != nil || id != "user-1" {
		t.Errorf("Get() = %q, %v", id, err)
	}
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s, _ := setupService(t)
	u := register(t, s, "ada@example.com")

	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	if got := <-ch; got != nil {
		t.Errorf("initial value = %+v, want nil", got)
	}

	if _, err := s.Login(ctx, "ada@example.com", "correct horse"); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	if got := <-ch; got == nil || got.ID != u.ID {
		t.Errorf("after login = %+v, want %s", got, u.ID)
	}

	if err := s.Logout(); err != nil {
		t.Fatalf("Logout() failed: %v", err)
	}
	if got := <-ch; got != nil {
		t.Errorf("after logout = %+v, want nil", got)
	}
}

func TestSubscribeReplacesPrevious(t *testing.T) {
	s, _ := setupService(t)

	first, unsubFirst := s.Subscribe()
	<-first
	second, unsubSecond := s.Subscribe()
	defer unsubSecond()

	if _, open := <-first; open {
		t.Error("previous subscription should be closed")
	}
	// Stale unsubscribe must not close the active channel
	unsubFirst()
	if got, open := <-second; !open || got != nil {
		t.Errorf("second subscription = %v, %v; want open with nil actor", got, open)
	}
}

func TestSubscribeKeepsLatest(t *testing.T) {
	ctx := context.Background()
	s, _ := setupService(t)
	u := register(t, s, "ada@example.com")

	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	// Nobody reads in between; only the final state is delivered
	if _, err := s.Login(ctx, "ada@example.com", "correct horse"); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	got := <-ch
	if got == nil || got.ID != u.ID {
		t.Errorf("latest = %+v, want %s", got, u.ID)
	}
	select {
	case extra := <-ch:
		t.Errorf("unexpected extra value %+v", extra)
	default:
	}
}
