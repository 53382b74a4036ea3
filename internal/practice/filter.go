package practice

import "time"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListFilter narrows a list query. Zero values mean "no constraint".
type ListFilter struct {
	Page   int
	Limit  int
	Status string
	Search string
	Tags   []string
	From   *time.Time
	To     *time.Time
	// Refs holds equality constraints on reference columns such as client_id.
	Refs map[string]string
}

// Window returns the normalized page number and page size.
func (f ListFilter) Window() (page, limit int) {
	page, limit = f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Offset is the number of rows skipped before the current page.
func (f ListFilter) Offset() int {
	page, limit := f.Window()
	return (page - 1) * limit
}

// Page is one page of a list result.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// NewPage assembles a page for filter f.
func NewPage[T any](items []T, total int, f ListFilter) *Page[T] {
	page, limit := f.Window()
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}
}
