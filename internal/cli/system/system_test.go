package system

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/daydicated/internal/auth"
	"github.com/julianstephens/daydicated/internal/cli"
	"github.com/julianstephens/daydicated/internal/models"
	"github.com/julianstephens/daydicated/internal/storage/sqlite"
)

// newTestContext returns a context over a SQLite store at dbPath. The store
// is initialized when init is true.
func newTestContext(t *testing.T, dbPath string, init bool) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.New(dbPath)
	if init {
		if err := store.Init(context.Background()); err != nil {
			t.Fatalf("failed to init store: %v", err)
		}
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{
		Store: store,
		Auth:  auth.NewService(store, &auth.MemorySessions{}),
		Out:   out,
	}, out
}

func addUser(t *testing.T, ctx *cli.Context, id, email string) models.User {
	t.Helper()
	u := models.User{ID: id, Email: email, PasswordHash: "hash", CreatedAt: time.Now()}
	if err := ctx.Store.AddUser(context.Background(), u); err != nil {
		t.Fatalf("failed to add user: %v", err)
	}
	return u
}

func writeEntry(t *testing.T, ctx *cli.Context, key string, e models.Entry) {
	t.Helper()
	if err := ctx.Store.WriteEntry(context.Background(), key, e); err != nil {
		t.Fatalf("failed to write entry: %v", err)
	}
}

func tempDB(t *testing.T) string {
	return filepath.Join(t.TempDir(), "daydicated.db")
}
