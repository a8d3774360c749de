package storage

import (
	"context"

	"github.com/julianstephens/daydicated/internal/models"
)

// EntryFilter narrows QueryEntries. The zero value matches every entry.
type EntryFilter struct {
	OwnerID string
}

// EntryStore is the read/write surface the entry cache and exporter use
type EntryStore interface {
	// QueryEntries returns matching entries ordered by date
	QueryEntries(ctx context.Context, filter EntryFilter) ([]models.Entry, error)
	// WriteEntry inserts or replaces the entry stored under key
	WriteEntry(ctx context.Context, key string, entry models.Entry) error
}

// UserStore holds the accounts the auth service checks credentials against
type UserStore interface {
	AddUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Schema
	Migrate(ctx context.Context, logFn func(string)) (int, error)
	SchemaStatus(ctx context.Context) (current, latest int, err error)

	UserStore
	EntryStore

	// Utils
	GetConfigPath() string
}
