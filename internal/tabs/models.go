package tabs

import (
	"time"

	"tmt/internal/tags"
)

// Tab is a saved bookmark owned by exactly one user
type Tab struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	URL        string    `json:"url"`
	Notes      *string   `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// NewTabRequest is the create payload
type NewTabRequest struct {
	UserID string  `json:"user_id" binding:"required"`
	URL    string  `json:"url" binding:"required"`
	Notes  *string `json:"notes"`
}

// TabPatch carries the scalar fields of a tab update
type TabPatch struct {
	URL   string  `json:"url" binding:"required"`
	Notes *string `json:"notes"`
}

// UpdateTabRequest replaces a tab's scalar fields and its full tag set.
// Entries without an id describe tags to be created during the update.
type UpdateTabRequest struct {
	Tab  TabPatch           `json:"tab" binding:"required"`
	Tags []tags.MaybeNewTag `json:"tags"`
}

// TabWithTags is a tab together with its attached tags
type TabWithTags struct {
	Tab  Tab        `json:"tab"`
	Tags []tags.Tag `json:"tags"`
}

// PaginatedTabs is one page of a user's tabs
type PaginatedTabs struct {
	Results []Tab `json:"results"`
	HasMore bool  `json:"has_more"`
}
