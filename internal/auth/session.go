package auth

import (
	"errors"
	"sync"

	"github.com/julianstephens/daydicated/internal/keyring"
)

// ErrNoSession is returned by a SessionStore holding no signed-in user
var ErrNoSession = errors.New("no active session")

// SessionStore persists the signed-in user's id between runs.
type SessionStore interface {
	Get() (string, error)
	Set(userID string) error
	Delete() error
}

// KeyringSessions keeps the session in the OS keyring.
type KeyringSessions struct{}

func (KeyringSessions) Get() (string, error) {
	id, err := keyring.GetSession()
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoSession
	}
	return id, err
}

func (KeyringSessions) Set(userID string) error {
	return keyring.SetSession(userID)
}

func (KeyringSessions) Delete() error {
	err := keyring.DeleteSession()
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// MemorySessions keeps the session for the life of the process.
type MemorySessions struct {
	mu     sync.Mutex
	userID string
}

func (m *MemorySessions) Get() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userID == "" {
		return "", ErrNoSession
	}
	return m.userID, nil
}

func (m *MemorySessions) Set(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userID = userID
	return nil
}

func (m *MemorySessions) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userID = ""
	return nil
}
