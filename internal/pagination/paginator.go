// Package pagination slices ordered result sets into 1-based pages.
//
// Page numbers are clamped rather than rejected: a missing, malformed or
// non-positive number selects the first page and a number past the end
// selects the last one. An empty result set still has a single empty page.
package pagination

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Page is one slice of a paginated result set.
type Page[T any] struct {
	Items       []T   `json:"items"`
	Number      int   `json:"number"`
	Size        int   `json:"size"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// ParseNumber reads a raw page query value. Anything that is not a positive
// integer selects page 1.
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// TotalPages returns how many pages of the given size total items span.
func TotalPages(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 1
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Resolve clamps the requested page against the total and returns the
// effective page number with the offset of its first item.
func Resolve(requested int, size int, total int64) (number, offset int) {
	last := TotalPages(total, size)
	number = requested
	if number < 1 {
		number = 1
	}
	if number > last {
		number = last
	}
	return number, (number - 1) * size
}

// New assembles a page from its items and the values used to resolve it.
func New[T any](items []T, number, size int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := TotalPages(total, size)
	return Page[T]{
		Items:       items,
		Number:      number,
		Size:        size,
		TotalItems:  total,
		TotalPages:  pages,
		HasNext:     number < pages,
		HasPrevious: number > 1,
	}
}

// Map converts the items of a page while keeping its metadata.
func Map[T, R any](p Page[T], fn func(T) R) Page[R] {
	return Page[R]{
		Items:       lo.Map(p.Items, func(it T, _ int) R { return fn(it) }),
		Number:      p.Number,
		Size:        p.Size,
		TotalItems:  p.TotalItems,
		TotalPages:  p.TotalPages,
		HasNext:     p.HasNext,
		HasPrevious: p.HasPrevious,
	}
}
