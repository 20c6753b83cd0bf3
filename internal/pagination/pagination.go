// Package pagination holds the page/offset arithmetic shared by the listing
// endpoints.
package pagination

const (
	DefaultPage     = 1
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Request is a validated page request.
type Request struct {
	Page     int
	PageSize int
}

// New clamps page and pageSize to valid values.
func New(page, pageSize int) Request {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return Request{Page: page, PageSize: pageSize}
}

// Offset returns the row offset for the request.
func (r Request) Offset() int64 {
	return int64(r.Page-1) * int64(r.PageSize)
}

// Limit returns the row limit for the request.
func (r Request) Limit() int64 {
	return int64(r.PageSize)
}

// HasMore reports whether rows remain past this page given the total count.
func (r Request) HasMore(total int64) bool {
	return total-r.Offset() > r.Limit()
}
