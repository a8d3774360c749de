package postgres

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
		query += ` WHERE owner_id = $1`
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
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Date, &e.Rating, &e.Note, &e.UpdatedAt); err != nil {
			return nil, err
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
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			rating = EXCLUDED.rating,
			note = EXCLUDED.note,
			updated_at = EXCLUDED.updated_at`,
		key, entry.OwnerID, entry.Date, entry.Rating, entry.Note, updatedAt.UTC())
	return err
}
