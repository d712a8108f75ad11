package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driven"
)

// catalogStore implements driven.CatalogStore.
type catalogStore struct {
	store *Store
}

var _ driven.CatalogStore = (*catalogStore)(nil)

// SaveTag stores a tag, or updates it in place if its id is already known.
func (s *catalogStore) SaveTag(ctx context.Context, tag domain.TagCandidate) error {
	if strings.TrimSpace(tag.ID) == "" {
		return domain.ErrInvalidInput
	}
	origin := tag.Origin
	if origin == "" {
		origin = domain.OriginCatalog
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO tags (key, id, display_text, is_parent, origin)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			id = excluded.id,
			display_text = excluded.display_text,
			is_parent = excluded.is_parent,
			origin = excluded.origin
	`, tag.Key(), tag.ID, tag.Label(), tag.IsParent, string(origin))
	if err != nil {
		return fmt.Errorf("saving tag: %w", err)
	}
	return nil
}

// GetTag retrieves a tag by id, ignoring case.
func (s *catalogStore) GetTag(ctx context.Context, id string) (*domain.TagCandidate, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, display_text, is_parent, origin FROM tags WHERE key = ?
	`, domain.FoldKey(id))

	tag, err := scanTag(row)
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag removes a tag and every alias it takes part in.
func (s *catalogStore) DeleteTag(ctx context.Context, id string) error {
	key := domain.FoldKey(id)

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "DELETE FROM tags WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("deleting tag: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM tag_aliases WHERE child_key = ? OR parent_key = ?", key, key); err != nil {
		return fmt.Errorf("deleting aliases: %w", err)
	}

	return tx.Commit()
}

// ListTags returns all tags in insertion order.
func (s *catalogStore) ListTags(ctx context.Context) ([]domain.TagCandidate, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, display_text, is_parent, origin FROM tags ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	tags := []domain.TagCandidate{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return tags, nil
}

// SaveAlias stores or replaces the parent of alias.Child.
func (s *catalogStore) SaveAlias(ctx context.Context, alias domain.Alias) error {
	child := strings.TrimSpace(alias.Child)
	parent := strings.TrimSpace(alias.Parent)
	if child == "" || parent == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO tag_aliases (child_key, child, parent_key, parent)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(child_key) DO UPDATE SET
			child = excluded.child,
			parent_key = excluded.parent_key,
			parent = excluded.parent
	`, domain.FoldKey(child), child, domain.FoldKey(parent), parent)
	if err != nil {
		return fmt.Errorf("saving alias: %w", err)
	}
	return nil
}

// ListAliases returns every alias, ordered by child.
func (s *catalogStore) ListAliases(ctx context.Context) ([]domain.Alias, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT child, parent FROM tag_aliases ORDER BY child_key
	`)
	if err != nil {
		return nil, fmt.Errorf("querying aliases: %w", err)
	}
	defer rows.Close()

	aliases := []domain.Alias{}
	for rows.Next() {
		var a domain.Alias
		if err := rows.Scan(&a.Child, &a.Parent); err != nil {
			return nil, fmt.Errorf("scanning alias: %w", err)
		}
		aliases = append(aliases, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating aliases: %w", err)
	}
	return aliases, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTag(row rowScanner) (*domain.TagCandidate, error) {
	var tag domain.TagCandidate
	var origin string
	if err := row.Scan(&tag.ID, &tag.DisplayText, &tag.IsParent, &origin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning tag: %w", err)
	}
	tag.Origin = domain.CandidateOrigin(origin)
	return &tag, nil
}
