package accounts

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/daydicated/internal/auth"
	"github.com/julianstephens/daydicated/internal/cli"
	apperrors "github.com/julianstephens/daydicated/internal/errors"
	"github.com/julianstephens/daydicated/internal/storage/sqlite"
)

// setupTestDB returns a context whose stdin yields input. sessions is
// shared so separate commands observe the same persisted login.
func setupTestDB(t *testing.T, sessions *auth.MemorySessions, input string) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.New(filepath.Join(t.TempDir(), "daydicated.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{
		Store: store,
		Auth:  auth.NewService(store, sessions),
		Out:   out,
		In:    strings.NewReader(input),
	}, out
}

// withInput rebuilds ctx over the same store with fresh stdin and auth state
func withInput(ctx *cli.Context, sessions *auth.MemorySessions, input string) (*cli.Context, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &cli.Context{
		Store: ctx.Store,
		Auth:  auth.NewService(ctx.Store, sessions),
		Out:   out,
		In:    strings.NewReader(input),
	}, out
}

func TestUserAdd(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		input   string
		wantErr bool
	}{
		{"created", "Ana@Example.com", "correct horse\ncorrect horse\n", false},
		{"mismatch", "ana@example.com", "correct horse\ncorrect house\n", true},
		{"too short", "ana@example.com", "short\nshort\n", true},
		{"bad email", "ana.example.com", "correct horse\ncorrect horse\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := setupTestDB(t, &auth.MemorySessions{}, tt.input)
			err := (&UserAddCmd{Email: tt.email, Name: "Ana"}).Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !strings.Contains(out.String(), "✓ Created user ana@example.com") {
				t.Errorf("unexpected output: %q", out.String())
			}
		})
	}
}

func TestUserAddDuplicate(t *testing.T) {
	sessions := &auth.MemorySessions{}
	ctx, _ := setupTestDB(t, sessions, "correct horse\ncorrect horse\n")
	if err := (&UserAddCmd{Email: "ana@example.com"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	again, _ := withInput(ctx, sessions, "correct horse\ncorrect horse\n")
	err := (&UserAddCmd{Email: "ana@example.com"}).Run(again)
	if !errors.Is(err, apperrors.ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
}

func TestLoginWhoamiLogout(t *testing.T) {
	sessions := &auth.MemorySessions{}
	ctx, _ := setupTestDB(t, sessions, "correct horse\ncorrect horse\n")
	if err := (&UserAddCmd{Email: "ana@example.com", Name: "Ana"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	who, out := withInput(ctx, sessions, "")
	if err := (&WhoamiCmd{}).Run(who); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Not signed in.") {
		t.Errorf("whoami before login = %q", out.String())
	}

	login, out := withInput(ctx, sessions, "wrong password\n")
	if err := (&LoginCmd{Email: "ana@example.com"}).Run(login); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	login, out = withInput(ctx, sessions, "correct horse\n")
	if err := (&LoginCmd{Email: "ana@example.com"}).Run(login); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Signed in as Ana") {
		t.Errorf("unexpected login output: %q", out.String())
	}

	// A later invocation resumes the persisted session
	who, out = withInput(ctx, sessions, "")
	if err := (&WhoamiCmd{}).Run(who); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Ana <ana@example.com>") {
		t.Errorf("whoami after login = %q", out.String())
	}

	list, out := withInput(ctx, sessions, "")
	if _, err := list.RequireActor(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := (&UserListCmd{}).Run(list); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "* ana@example.com") {
		t.Errorf("user list should mark the actor: %q", out.String())
	}

	logout, out := withInput(ctx, sessions, "")
	if err := (&LogoutCmd{}).Run(logout); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "✓ Signed out") {
		t.Errorf("unexpected logout output: %q", out.String())
	}

	who, out = withInput(ctx, sessions, "")
	if err := (&WhoamiCmd{}).Run(who); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Not signed in.") {
		t.Errorf("whoami after logout = %q", out.String())
	}
}
