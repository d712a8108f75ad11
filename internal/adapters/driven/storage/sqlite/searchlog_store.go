package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driven"
)

// searchLogStore implements driven.SearchLogStore.
type searchLogStore struct {
	store *Store
}

var _ driven.SearchLogStore = (*searchLogStore)(nil)

// Append stores an entry.
func (s *searchLogStore) Append(ctx context.Context, entry domain.SearchLogEntry) error {
	tags := entry.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO search_log (id, tags, query, url, submitted_at)
		VALUES (?, ?, ?, ?, ?)
	`, entry.ID, string(tagsJSON), entry.Query, entry.URL, entry.SubmittedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("appending search log: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns everything.
func (s *searchLogStore) Recent(ctx context.Context, limit int) ([]domain.SearchLogEntry, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, tags, query, url, submitted_at
		FROM search_log
		ORDER BY submitted_at DESC, seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying search log: %w", err)
	}
	defer rows.Close()

	entries := []domain.SearchLogEntry{}
	for rows.Next() {
		var entry domain.SearchLogEntry
		var tagsJSON string
		var submittedAt int64
		if err := rows.Scan(&entry.ID, &tagsJSON, &entry.Query, &entry.URL, &submittedAt); err != nil {
			return nil, fmt.Errorf("scanning search log: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &entry.Tags); err != nil {
			return nil, fmt.Errorf("unmarshaling tags: %w", err)
		}
		entry.SubmittedAt = time.Unix(0, submittedAt).UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search log: %w", err)
	}
	return entries, nil
}
