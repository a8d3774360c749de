package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/daydicated/internal/errors"
	"github.com/julianstephens/daydicated/internal/logger"
	"github.com/julianstephens/daydicated/internal/models"
	"github.com/julianstephens/daydicated/internal/storage"
)

// Service authenticates local accounts and publishes actor changes.
// At most one subscriber is active; a new Subscribe closes the previous
// channel.
type Service struct {
	users    storage.UserStore
	sessions SessionStore

	mu    sync.Mutex
	actor *models.User
	sub   chan *models.User
}

func NewService(users storage.UserStore, sessions SessionStore) *Service {
	if sessions == nil {
		sessions = &MemorySessions{}
	}
	return &Service{users: users, sessions: sessions}
}

// Restore resumes a persisted session. A missing session or a session for
// a deleted account leaves the service signed out.
func (s *Service) Restore(ctx context.Context) (models.User, bool, error) {
	id, err := s.sessions.Get()
	if err != nil {
		if apperrors.Is(err, ErrNoSession) {
			return models.User{}, false, nil
		}
		return models.User{}, false, &apperrors.AuthError{Op: "restore", Err: err}
	}

	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Session refers to a missing user, clearing", "user_id", id)
			_ = s.sessions.Delete()
			return models.User{}, false, nil
		}
		return models.User{}, false, &apperrors.AuthError{Op: "restore", Err: err}
	}

	s.setActor(&user)
	return user, true, nil
}

// Register creates an account. It does not sign the new user in.
func (s *Service) Register(ctx context.Context, email, displayName, password string) (models.User, error) {
	email = storage.NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		return models.User{}, &apperrors.AuthError{Op: "register", Err: fmt.Errorf("invalid email %q", email)}
	}
	if len(password) < MinPasswordLen {
		return models.User{}, &apperrors.AuthError{Op: "register", Err: fmt.Errorf("password must be at least %d characters", MinPasswordLen)}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, &apperrors.AuthError{Op: "register", Err: err}
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.users.AddUser(ctx, user); err != nil {
		return models.User{}, &apperrors.AuthError{Op: "register", Err: err}
	}
	logger.Info("Registered user", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return models.User{}, &apperrors.AuthError{Op: "login", Err: apperrors.ErrInvalidCredentials}
		}
		return models.User{}, &apperrors.AuthError{Op: "login", Err: err}
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.Error("Stored password hash is unreadable", "user_id", user.ID, "error", err)
		return models.User{}, &apperrors.AuthError{Op: "login", Err: apperrors.ErrInvalidCredentials}
	}
	if !ok {
		return models.User{}, &apperrors.AuthError{Op: "login", Err: apperrors.ErrInvalidCredentials}
	}

	if err := s.sessions.Set(user.ID); err != nil {
		// The login still holds for this process
		logger.Warn("Failed to persist session", "error", err)
	}

	s.setActor(&user)
	logger.Info("User logged in", "user_id", user.ID)
	return user, nil
}

func (s *Service) Logout() error {
	if err := s.sessions.Delete(); err != nil {
		return &apperrors.AuthError{Op: "logout", Err: err}
	}
	s.setActor(nil)
	return nil
}

// CurrentActor returns the signed-in user, if any
func (s *Service) CurrentActor() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.actor == nil {
		return models.User{}, false
	}
	return *s.actor, true
}

// Subscribe returns a channel receiving the actor after every change,
// starting with the current one. A nil value means signed out. Only the
// latest undelivered value is kept.
func (s *Service) Subscribe() (<-chan *models.User, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sub != nil {
		close(s.sub)
	}
	ch := make(chan *models.User, 1)
	s.sub = ch
	ch <- copyUser(s.actor)

	unsubscribe := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.sub == ch {
			close(ch)
			s.sub = nil
		}
	}
	return ch, unsubscribe
}

func (s *Service) setActor(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.actor = copyUser(u)
	if s.sub == nil {
		return
	}
	select {
	case <-s.sub:
	default:
	}
	s.sub <- copyUser(u)
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
