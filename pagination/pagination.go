// Package pagination provides page/size parameters and a generic page
// envelope for listing endpoints. Pages are zero-based.
package pagination

import "fmt"

const (
	// DefaultSize is the page size applied when none is requested.
	DefaultSize = 20

	// DefaultMaxSize caps the page size when no custom cap is configured.
	DefaultMaxSize = 100
)

// Params holds normalized pagination parameters.
type Params struct {
	Page int `query:"page" json:"page"`
	Size int `query:"size" json:"size"`
}

// Normalize applies defaults and the configured size cap.
// A non-positive maxSize falls back to DefaultMaxSize.
func (p *Params) Normalize(maxSize int) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultSize
	}
	if p.Size > maxSize {
		p.Size = maxSize
	}
}

// Offset returns the number of records to skip.
func (p Params) Offset() int64 {
	return int64(p.Page) * int64(p.Size)
}

// Limit returns the maximum number of records to fetch.
func (p Params) Limit() int64 {
	return int64(p.Size)
}

// String implements fmt.Stringer for log output.
func (p Params) String() string {
	return fmt.Sprintf("page=%d size=%d", p.Page, p.Size)
}

// Page is one page of results together with pagination metadata.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

// NewPage builds a page envelope from fetched items and the total match count.
func NewPage[T any](items []T, total int64, p Params) Page[T] {
	pages := int(total / int64(p.Size))
	if total%int64(p.Size) > 0 {
		pages++
	}

	if items == nil {
		items = []T{}
	}

	return Page[T]{
		Content:       items,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}
