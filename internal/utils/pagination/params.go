// Package pagination implements stable page/size pagination with
// total-count metadata. Identical params against an unchanged dataset
// return identical pages.
package pagination

const (
	DefaultPage = 1
	DefaultSize = 50
	MaxSize     = 100
)

// Params is a sanitized page request.
type Params struct {
	Page int
	Size int
}

// Normalize clamps a raw page/size pair into valid bounds.
func Normalize(page, size int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return Params{Page: page, Size: size}
}

// Offset returns the row offset for the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Size
}

// Pages returns how many pages a total row count spans.
func (p Params) Pages(total int64) int64 {
	if total == 0 {
		return 0
	}
	return (total + int64(p.Size) - 1) / int64(p.Size)
}

// Page is one page of results plus its metadata envelope.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Pages int64 `json:"pages"`
}

// NewPage wraps items with the metadata for params and total.
func NewPage[T any](items []T, total int64, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items: items,
		Total: total,
		Page:  p.Page,
		Size:  p.Size,
		Pages: p.Pages(total),
	}
}
