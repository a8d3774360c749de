package models

import (
	"time"

	"github.com/julianstephens/daydicated/internal/constants"
)

// Entry is one user's recorded mood for one calendar day
type Entry struct {
	ID        string    `json:"id"`       // storage key, see EntryKey
	OwnerID   string    `json:"owner_id"` // the user the entry belongs to
	Date      string    `json:"date"`     // YYYY-MM-DD
	Rating    int       `json:"rating"`   // 1-5
	Note      string    `json:"note"`     // optional, may be empty
	UpdatedAt time.Time `json:"updated_at"`
}

// EntryKey derives the storage key for an (owner, date) pair. At most one
// entry exists per key.
func EntryKey(ownerID, date string) string {
	return ownerID + "_" + date
}

// ValidRating reports whether r is inside the accepted rating range
func ValidRating(r int) bool {
	return r >= constants.MinRating && r <= constants.MaxRating
}

// ValidDate reports whether s is a YYYY-MM-DD date inside year
func ValidDate(s string, year int) bool {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return false
	}
	return t.Year() == year
}
