// Package cache holds the entries of the calendar currently on screen.
package cache

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	apperrors "github.com/julianstephens/daydicated/internal/errors"
	"github.com/julianstephens/daydicated/internal/logger"
	"github.com/julianstephens/daydicated/internal/models"
	"github.com/julianstephens/daydicated/internal/storage"
)

// ActorSource reports the signed-in user
type ActorSource interface {
	CurrentActor() (models.User, bool)
}

// EntryCache maps date to Entry for a single viewing owner. Loading a
// different owner replaces the whole map. Overlapping loads resolve in
// completion order.
type EntryCache struct {
	store  storage.EntryStore
	actors ActorSource

	mu      sync.RWMutex
	owner   string
	entries map[string]models.Entry
}

func New(store storage.EntryStore, actors ActorSource) *EntryCache {
	return &EntryCache{
		store:   store,
		actors:  actors,
		entries: make(map[string]models.Entry),
	}
}

// Load fetches ownerID's entries and replaces the cache with them. On
// failure the cache keeps its previous contents.
func (c *EntryCache) Load(ctx context.Context, ownerID string) (map[string]models.Entry, error) {
	list, err := c.store.QueryEntries(ctx, storage.EntryFilter{OwnerID: ownerID})
	if err != nil {
		return nil, &apperrors.FetchError{What: "entries", Err: err}
	}

	fresh := make(map[string]models.Entry, len(list))
	for _, e := range list {
		if e.OwnerID != ownerID {
			logger.Warn("Store returned an entry for another owner", "want", ownerID, "got", e.OwnerID)
			continue
		}
		fresh[e.Date] = e
	}

	c.mu.Lock()
	c.owner = ownerID
	c.entries = fresh
	c.mu.Unlock()

	logger.Debug("Loaded entries", "owner", ownerID, "count", len(fresh))
	return maps.Clone(fresh), nil
}

// Upsert saves the actor's entry for date. rating is read like a lenient
// integer parse: leading whitespace and sign, then digits up to the first
// non-digit. The range is not checked here.
func (c *EntryCache) Upsert(ctx context.Context, date, rating, note string) (models.Entry, error) {
	actor, ok := c.actors.CurrentActor()
	if !ok {
		return models.Entry{}, apperrors.ErrNotAuthenticated
	}

	key := models.EntryKey(actor.ID, date)
	value, ok := ParseRating(rating)
	if !ok {
		return models.Entry{}, &apperrors.WriteError{Key: key, Err: apperrors.ErrInvalidRating}
	}

	entry := models.Entry{
		ID:        key,
		OwnerID:   actor.ID,
		Date:      date,
		Rating:    value,
		Note:      note,
		UpdatedAt: time.Now(),
	}
	if err := c.store.WriteEntry(ctx, key, entry); err != nil {
		return models.Entry{}, &apperrors.WriteError{Key: key, Err: err}
	}

	c.mu.Lock()
	if c.owner == "" {
		c.owner = actor.ID
	}
	if c.owner == actor.ID {
		c.entries[date] = entry
	}
	c.mu.Unlock()

	return entry, nil
}

// CurrentEntries returns a copy of the cached entries keyed by date
func (c *EntryCache) CurrentEntries() map[string]models.Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.entries)
}

// ViewingOwner returns the owner whose entries are cached
func (c *EntryCache) ViewingOwner() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.owner
}

// Reset empties the cache, e.g. on logout
func (c *EntryCache) Reset() {
	c.mu.Lock()
	c.owner = ""
	c.entries = make(map[string]models.Entry)
	c.mu.Unlock()
}

// ParseRating reads the leading integer of s. It reports false when s has
// no leading digits.
func ParseRating(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		if n < 1<<30 {
			n = n*10 + int(r-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
