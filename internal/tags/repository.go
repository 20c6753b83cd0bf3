package tags

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"tmt/internal/database"
	"tmt/internal/pagination"
)

// Repository handles all database operations for tags and tab-tag links
type Repository struct {
	db database.Service
}

// NewRepository creates a new tags repository
func NewRepository(db database.Service) *Repository {
	return &Repository{db: db}
}

// Create inserts a new tag for the user
func (r *Repository) Create(ctx context.Context, userID, tag string) (*Tag, error) {
	t := &Tag{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO tags (id, user_id, tag) VALUES ($1, $2, $3)
		 RETURNING id, user_id, tag`,
		uuid.New().String(), userID, tag).
		Scan(&t.ID, &t.UserID, &t.Tag)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return t, nil
}

// Delete removes a tag owned by the user. Deleting an absent or foreign tag
// is a no-op.
func (r *Repository) Delete(ctx context.Context, userID, tagID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM tags WHERE id = $1 AND user_id = $2`, tagID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	return nil
}

// TabBelongs reports whether the tab exists and is owned by the user
func (r *Repository) TabBelongs(ctx context.Context, tabID, userID string) (bool, error) {
	var belongs bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tabs WHERE id = $1 AND user_id = $2)`,
		tabID, userID).Scan(&belongs)
	if err != nil {
		return false, fmt.Errorf("failed to check tab ownership: %w", err)
	}
	return belongs, nil
}

// TagBelongs reports whether the tag exists and is owned by the user
func (r *Repository) TagBelongs(ctx context.Context, tagID, userID string) (bool, error) {
	var belongs bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tags WHERE id = $1 AND user_id = $2)`,
		tagID, userID).Scan(&belongs)
	if err != nil {
		return false, fmt.Errorf("failed to check tag ownership: %w", err)
	}
	return belongs, nil
}

// Attach links a tag to a tab. Attaching an already-linked pair succeeds
// without change.
func (r *Repository) Attach(ctx context.Context, tabID, tagID string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tabs_tags (tab_id, tag_id) VALUES ($1, $2)
		 ON CONFLICT (tab_id, tag_id) DO NOTHING`,
		tabID, tagID)
	if err != nil {
		return fmt.Errorf("failed to attach tag: %w", err)
	}
	return nil
}

// Detach unlinks a tag from a tab. Detaching a missing link is a no-op.
func (r *Repository) Detach(ctx context.Context, tabID, tagID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM tabs_tags WHERE tab_id = $1 AND tag_id = $2`, tabID, tagID)
	if err != nil {
		return fmt.Errorf("failed to detach tag: %w", err)
	}
	return nil
}

// ListByUser retrieves one page of the user's tags, ordered by tag
// descending
func (r *Repository) ListByUser(ctx context.Context, userID string, pr pagination.Request) ([]Tag, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tags WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tags: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, tag FROM tags
		 WHERE user_id = $1
		 ORDER BY tag DESC
		 LIMIT $2 OFFSET $3`,
		userID, pr.Limit(), pr.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Tag); err != nil {
			return nil, 0, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read tags: %w", err)
	}
	return tags, total, nil
}

// SearchByFragment retrieves up to limit tags whose text contains the
// fragment, case-insensitively, ordered alphabetically
func (r *Repository) SearchByFragment(ctx context.Context, userID, fragment string, limit int64) ([]Tag, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, tag FROM tags
		 WHERE user_id = $1 AND tag ILIKE '%' || $2 || '%'
		 ORDER BY tag ASC
		 LIMIT $3`,
		userID, fragment, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search tags: %w", err)
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}
	return tags, nil
}
