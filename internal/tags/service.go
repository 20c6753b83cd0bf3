// Package tags implements user-owned labels and their attachment to tabs.
// Every operation is scoped to the authenticated user; attach and detach
// require both sides of the link to belong to the caller.
package tags

import (
	"context"
	"errors"

	"tmt/internal/pagination"
)

// Fuzzy search bounds
const (
	FragmentMinLen = 3
	FragmentMaxLen = 20
	FuzzyLimit     = 10
)

var (
	// ErrNotOwner is returned when an attach/detach ownership check fails
	ErrNotOwner = errors.New("tab or tag does not belong to user")
	// ErrFragmentLength is returned for fragments outside [3, 20]
	ErrFragmentLength = errors.New("fragment length out of range")
)

// Service defines the tag operations
type Service interface {
	Create(ctx context.Context, userID, tag string) (*Tag, error)
	Delete(ctx context.Context, userID, tagID string) error
	Attach(ctx context.Context, userID, tabID, tagID string) (*TagAttachedResponse, error)
	Detach(ctx context.Context, userID, tabID, tagID string) (*TagDetachedResponse, error)
	List(ctx context.Context, userID string, pr pagination.Request) (*PaginatedTags, error)
	Search(ctx context.Context, userID, fragment string) (*MatchedTags, error)
}

type service struct {
	repo *Repository
}

// NewService creates a new tags service
func NewService(repo *Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, userID, tag string) (*Tag, error) {
	return s.repo.Create(ctx, userID, tag)
}

func (s *service) Delete(ctx context.Context, userID, tagID string) error {
	return s.repo.Delete(ctx, userID, tagID)
}

// checkOwnership verifies both the tab and the tag belong to the user.
// Both checks run before any write.
func (s *service) checkOwnership(ctx context.Context, userID, tabID, tagID string) error {
	tabOK, err := s.repo.TabBelongs(ctx, tabID, userID)
	if err != nil {
		return err
	}
	tagOK, err := s.repo.TagBelongs(ctx, tagID, userID)
	if err != nil {
		return err
	}
	if !tabOK || !tagOK {
		return ErrNotOwner
	}
	return nil
}

func (s *service) Attach(ctx context.Context, userID, tabID, tagID string) (*TagAttachedResponse, error) {
	if err := s.checkOwnership(ctx, userID, tabID, tagID); err != nil {
		return nil, err
	}
	if err := s.repo.Attach(ctx, tabID, tagID); err != nil {
		return nil, err
	}
	return &TagAttachedResponse{UserID: userID, TabID: tabID, TagID: tagID}, nil
}

func (s *service) Detach(ctx context.Context, userID, tabID, tagID string) (*TagDetachedResponse, error) {
	if err := s.checkOwnership(ctx, userID, tabID, tagID); err != nil {
		return nil, err
	}
	if err := s.repo.Detach(ctx, tabID, tagID); err != nil {
		return nil, err
	}
	return &TagDetachedResponse{UserID: userID, TabID: tabID, TagID: tagID}, nil
}

func (s *service) List(ctx context.Context, userID string, pr pagination.Request) (*PaginatedTags, error) {
	tags, total, err := s.repo.ListByUser(ctx, userID, pr)
	if err != nil {
		return nil, err
	}
	return &PaginatedTags{Results: tags, HasMore: pr.HasMore(total)}, nil
}

func (s *service) Search(ctx context.Context, userID, fragment string) (*MatchedTags, error) {
	if len(fragment) < FragmentMinLen || len(fragment) > FragmentMaxLen {
		return nil, ErrFragmentLength
	}
	matches, err := s.repo.SearchByFragment(ctx, userID, fragment, FuzzyLimit)
	if err != nil {
		return nil, err
	}
	return &MatchedTags{Matches: matches}, nil
}
