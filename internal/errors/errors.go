package errors

import (
	"fmt"
	"os"

	"github.com/julianstephens/daydicated/internal/logger"
)

// Format renders err for the terminal as "Error: ..." followed by a hint
// line when the error has a known remedy.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if h := Hint(err); h != "" {
		msg += "\nHint: " + h
	}
	return msg
}

// Hint suggests the command that resolves err, or "" when there is none
func Hint(err error) string {
	var authErr *AuthError
	switch {
	case Is(err, ErrNotAuthenticated):
		return "run 'daydicated login' first"
	case Is(err, ErrInvalidCredentials):
		return "check the address with 'daydicated user list' and try 'daydicated login' again"
	case As(err, &authErr):
		return "run 'daydicated logout' and then 'daydicated login' to start a new session"
	case Is(err, ErrUserExists):
		return "sign in with 'daydicated login' instead"
	case Is(err, ErrInvalidRating):
		return "ratings are whole numbers from 1 to 5"
	}
	return ""
}

// Fatal logs err, prints it with its hint and exits with status 1.
// A nil err is ignored.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(1)
}
