package sqlite

import (
	"context"
	"time"

	"github.com/julianstephens/daydicated/internal/models"
	"github.com/julianstephens/daydicated/internal/storage"
)

func (s *Store) QueryEntries(ctx context.Context, filter storage.EntryFilter) ([]models.Entry, error) {
	query := `SELECT id, owner_id, date, rating, note, updated_at FROM entries`
	var args []any
	if filter.OwnerID != "" {
		query += ` WHERE owner_id = ?`
		args = append(args, filter.OwnerID)
	}
	query += ` ORDER BY date, owner_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		var e models.Entry
		var updatedAt string
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Date, &e.Rating, &e.Note, &updatedAt); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
			e.UpdatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) WriteEntry(ctx context.Context, key string, entry models.Entry) error {
	updatedAt := entry.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (id, owner_id, date, rating, note, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			rating = excluded.rating,
			note = excluded.note,
			updated_at = excluded.updated_at`,
		key, entry.OwnerID, entry.Date, entry.Rating, entry.Note, updatedAt.UTC().Format(time.RFC3339Nano))
	return err
}
