package tags

// Tag is a user-owned label attachable to tabs
type Tag struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Tag    string `json:"tag"`
}

// NewTagRequest is the create payload. Duplicate (user_id, tag) pairs are
// allowed.
type NewTagRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Tag    string `json:"tag" binding:"required"`
}

// MaybeNewTag references an existing tag by id, or describes a tag to be
// created when ID is nil. Used by the tab update's tag-set replacement.
type MaybeNewTag struct {
	ID     *string `json:"id"`
	UserID string  `json:"user_id"`
	Tag    string  `json:"tag"`
}

// AttachTagRequest is the payload for attaching a tag to a tab
type AttachTagRequest struct {
	UserID string `json:"user_id" binding:"required"`
	TabID  string `json:"tab_id" binding:"required"`
	TagID  string `json:"tag_id" binding:"required"`
}

// TagAttachedResponse echoes a successful attach
type TagAttachedResponse struct {
	UserID string `json:"user_id"`
	TabID  string `json:"tab_id"`
	TagID  string `json:"tag_id"`
}

// TagDetachedResponse echoes a successful detach
type TagDetachedResponse struct {
	UserID string `json:"user_id"`
	TabID  string `json:"tab_id"`
	TagID  string `json:"tag_id"`
}

// MatchedTags wraps fuzzy search results
type MatchedTags struct {
	Matches []Tag `json:"matches"`
}

// PaginatedTags is one page of a user's tags
type PaginatedTags struct {
	Results []Tag `json:"results"`
	HasMore bool  `json:"has_more"`
}
