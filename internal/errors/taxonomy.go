package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned when a write is attempted with no actor
	ErrNotAuthenticated = stderrors.New("not authenticated")
	// ErrInvalidCredentials is returned for an unknown email or a wrong password
	ErrInvalidCredentials = stderrors.New("invalid email or password")
	// ErrUserExists is returned when registering an email that is already taken
	ErrUserExists = stderrors.New("user already exists")
	// ErrInvalidRating is returned when a rating cannot be read as an integer
	// or falls outside the accepted range
	ErrInvalidRating = stderrors.New("invalid rating")
	// ErrNotFound is returned by stores when a record does not exist
	ErrNotFound = stderrors.New("not found")
)

// AuthError reports a failed login, logout or session operation.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// FetchError reports a failed read from storage.
type FetchError struct {
	What string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.What, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// WriteError reports a failed write to storage.
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("failed to save: %v", e.Err)
	}
	return fmt.Sprintf("failed to save %s: %v", e.Key, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return stderrors.As(err, target) }

// New returns an error that formats as the given text.
func New(text string) error { return stderrors.New(text) }
