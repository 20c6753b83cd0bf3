package tabs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"tmt/internal/database"
	"tmt/internal/pagination"
	"tmt/internal/tags"
)

// Repository handles all database operations for tabs
type Repository struct {
	db database.Service
}

// NewRepository creates a new tabs repository
func NewRepository(db database.Service) *Repository {
	return &Repository{db: db}
}

// Create inserts a new tab for the user
func (r *Repository) Create(ctx context.Context, userID, url string, notes *string) (*Tab, error) {
	t := &Tab{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO tabs (id, user_id, url, notes) VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, url, notes, created_at, modified_at`,
		uuid.New().String(), userID, url, notes).
		Scan(&t.ID, &t.UserID, &t.URL, &t.Notes, &t.CreatedAt, &t.ModifiedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create tab: %w", err)
	}
	return t, nil
}

// GetByID retrieves a tab owned by the user. A tab owned by someone else is
// indistinguishable from one that does not exist.
func (r *Repository) GetByID(ctx context.Context, userID, tabID string) (*Tab, error) {
	t := &Tab{}
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, url, notes, created_at, modified_at
		 FROM tabs WHERE id = $1 AND user_id = $2`,
		tabID, userID).
		Scan(&t.ID, &t.UserID, &t.URL, &t.Notes, &t.CreatedAt, &t.ModifiedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTabNotFound
		}
		return nil, fmt.Errorf("failed to get tab: %w", err)
	}
	return t, nil
}

// Delete removes a tab owned by the user
func (r *Repository) Delete(ctx context.Context, userID, tabID string) error {
	res, err := r.db.Exec(ctx,
		`DELETE FROM tabs WHERE id = $1 AND user_id = $2`, tabID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete tab: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete tab: %w", err)
	}
	if affected == 0 {
		return ErrTabNotFound
	}
	return nil
}

// ListByUser retrieves one page of the user's tabs, newest first
func (r *Repository) ListByUser(ctx context.Context, userID string, pr pagination.Request) ([]Tab, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tabs WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tabs: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, url, notes, created_at, modified_at
		 FROM tabs
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, pr.Limit(), pr.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tabs: %w", err)
	}
	defer rows.Close()

	result := []Tab{}
	for rows.Next() {
		var t Tab
		if err := rows.Scan(&t.ID, &t.UserID, &t.URL, &t.Notes, &t.CreatedAt, &t.ModifiedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan tab: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read tabs: %w", err)
	}
	return result, total, nil
}

// UpdateWithTags replaces the tab's scalar fields and its entire tag set in
// one transaction. All current links are dropped, tags supplied without an id
// are created, and the full requested set is attached. A rollback leaves both
// the tab and its links untouched.
func (r *Repository) UpdateWithTags(ctx context.Context, userID, tabID string, patch TabPatch, refs []tags.MaybeNewTag) (*TabWithTags, error) {
	result := &TabWithTags{}
	err := r.db.WithinTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`UPDATE tabs SET url = $1, notes = $2, modified_at = NOW()
			 WHERE id = $3 AND user_id = $4
			 RETURNING id, user_id, url, notes, created_at, modified_at`,
			patch.URL, patch.Notes, tabID, userID).
			Scan(&result.Tab.ID, &result.Tab.UserID, &result.Tab.URL,
				&result.Tab.Notes, &result.Tab.CreatedAt, &result.Tab.ModifiedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTabNotFound
			}
			return fmt.Errorf("failed to update tab: %w", err)
		}

		attached := make([]tags.Tag, 0, len(refs))
		for _, ref := range refs {
			var t tags.Tag
			if ref.ID == nil {
				err = tx.QueryRowContext(ctx,
					`INSERT INTO tags (id, user_id, tag) VALUES ($1, $2, $3)
					 RETURNING id, user_id, tag`,
					uuid.New().String(), userID, ref.Tag).
					Scan(&t.ID, &t.UserID, &t.Tag)
				if err != nil {
					return fmt.Errorf("failed to create tag: %w", err)
				}
			} else {
				err = tx.QueryRowContext(ctx,
					`SELECT id, user_id, tag FROM tags WHERE id = $1 AND user_id = $2`,
					*ref.ID, userID).
					Scan(&t.ID, &t.UserID, &t.Tag)
				if err != nil {
					if errors.Is(err, sql.ErrNoRows) {
						return ErrTabNotFound
					}
					return fmt.Errorf("failed to resolve tag: %w", err)
				}
			}
			attached = append(attached, t)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM tabs_tags WHERE tab_id = $1`, tabID); err != nil {
			return fmt.Errorf("failed to clear tab tags: %w", err)
		}
		for _, t := range attached {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO tabs_tags (tab_id, tag_id) VALUES ($1, $2)
				 ON CONFLICT (tab_id, tag_id) DO NOTHING`,
				tabID, t.ID); err != nil {
				return fmt.Errorf("failed to attach tag: %w", err)
			}
		}

		result.Tags = attached
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
