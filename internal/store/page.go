package store

import (
	"context"
	"fmt"
	"math"
)

// Minimum values a page request is clamped to.
const (
	MinPage     = 1
	MinPageSize = 1
)

// PageRequest selects one page of a listing. Page numbers start at 1.
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest builds a PageRequest clamped to the declared minimums.
// No upper bound is applied to size here; callers that need one enforce it.
func NewPageRequest(page, size int) PageRequest {
	if page < MinPage {
		page = MinPage
	}
	if size < MinPageSize {
		size = MinPageSize
	}
	return PageRequest{Page: page, Size: size}
}

// Offset is the number of rows skipped before this page. It saturates at
// math.MaxInt instead of overflowing for very large pages.
func (r PageRequest) Offset() int {
	if r.Page <= 1 || r.Size <= 0 {
		return 0
	}
	if r.Page-1 > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return (r.Page - 1) * r.Size
}

// beyond reports whether the page starts past the last of totalItems rows.
func (r PageRequest) beyond(totalItems int) bool {
	return totalItems <= 0 || r.Page-1 > (totalItems-1)/r.Size
}

// Limit is the maximum number of rows in this page.
func (r PageRequest) Limit() int {
	return r.Size
}

// Page is one page of a listing plus the counters describing the whole result.
type Page[T any] struct {
	Items       []T
	TotalItems  int
	TotalPages  int
	CurrentPage int
}

// Lister is the count/fetch pair a paged listing is computed from.
// Both methods receive the same filter value so the count always describes
// the rows the fetch draws from.
type Lister[T any, F any] interface {
	Count(ctx context.Context, filter F) (int, error)
	List(ctx context.Context, filter F, limit, offset int) ([]T, error)
}

// TotalPages returns ceil(totalItems/size), or 0 for an empty result.
func TotalPages(totalItems, size int) int {
	if totalItems <= 0 || size <= 0 {
		return 0
	}
	pages := totalItems / size
	if totalItems%size != 0 {
		pages++
	}
	return pages
}

// Paginate runs the count and the offset-limited fetch for req over filter.
// A page past the last one yields an empty Items slice, not an error.
func Paginate[T any, F any](
	ctx context.Context,
	src Lister[T, F],
	filter F,
	req PageRequest,
) (*Page[T], error) {
	req = NewPageRequest(req.Page, req.Size)

	total, err := src.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}

	page := &Page[T]{
		Items:       []T{},
		TotalItems:  total,
		TotalPages:  TotalPages(total, req.Size),
		CurrentPage: req.Page,
	}

	if req.beyond(total) {
		return page, nil
	}

	items, err := src.List(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	if items != nil {
		page.Items = items
	}

	return page, nil
}
