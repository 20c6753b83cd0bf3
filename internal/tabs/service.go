// Package tabs implements the saved-bookmark resource. All reads and writes
// are scoped to the owning user.
package tabs

import (
	"context"
	"errors"

	"tmt/internal/pagination"
	"tmt/internal/tags"
)

// ErrTabNotFound is returned when a tab does not exist for the user. Tabs
// owned by other users surface the same error.
var ErrTabNotFound = errors.New("tab not found")

// Service defines the tab operations
type Service interface {
	Create(ctx context.Context, userID, url string, notes *string) (*Tab, error)
	Get(ctx context.Context, userID, tabID string) (*Tab, error)
	Update(ctx context.Context, userID, tabID string, patch TabPatch, refs []tags.MaybeNewTag) (*TabWithTags, error)
	Delete(ctx context.Context, userID, tabID string) error
	List(ctx context.Context, userID string, pr pagination.Request) (*PaginatedTabs, error)
}

type service struct {
	repo *Repository
}

// NewService creates a new tabs service
func NewService(repo *Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, userID, url string, notes *string) (*Tab, error) {
	return s.repo.Create(ctx, userID, url, notes)
}

func (s *service) Get(ctx context.Context, userID, tabID string) (*Tab, error) {
	return s.repo.GetByID(ctx, userID, tabID)
}

func (s *service) Update(ctx context.Context, userID, tabID string, patch TabPatch, refs []tags.MaybeNewTag) (*TabWithTags, error) {
	return s.repo.UpdateWithTags(ctx, userID, tabID, patch, refs)
}

func (s *service) Delete(ctx context.Context, userID, tabID string) error {
	return s.repo.Delete(ctx, userID, tabID)
}

func (s *service) List(ctx context.Context, userID string, pr pagination.Request) (*PaginatedTabs, error) {
	result, total, err := s.repo.ListByUser(ctx, userID, pr)
	if err != nil {
		return nil, err
	}
	return &PaginatedTabs{Results: result, HasMore: pr.HasMore(total)}, nil
}
