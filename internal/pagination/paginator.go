// Package pagination splits ordered result sets into fixed-size pages.
//
// Requested page numbers come straight from the query string and are never
// rejected: anything unparsable or below 1 yields the first page, anything
// past the end yields the last page.
package pagination

import (
	"context"
	"strconv"
	"strings"
)

// QueryParam is the query string parameter holding the page number
const QueryParam = "page"

// Paginator describes a result set of Count items split into PerPage-sized pages
type Paginator struct {
	Count   int64
	PerPage int
}

// NumPages returns the total number of pages; an empty result set still has one
func (p Paginator) NumPages() int {
	if p.PerPage <= 0 || p.Count <= 0 {
		return 1
	}
	return int((p.Count + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// Number resolves a raw page parameter to a valid page number
func (p Paginator) Number(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	if last := p.NumPages(); n > last {
		return last
	}
	return n
}

// Bounds returns the offset and limit of the given page
func (p Paginator) Bounds(number int) (offset, limit int) {
	offset = (number - 1) * p.PerPage
	limit = p.PerPage
	if remaining := int(p.Count) - offset; remaining < limit {
		limit = remaining
	}
	if limit < 0 {
		limit = 0
	}
	return offset, limit
}

// Page is one page of items plus navigation metadata
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Count    int64
	PerPage  int
}

// HasNext reports whether a page follows this one
func (p *Page[T]) HasNext() bool {
	return p.Number < p.NumPages
}

// HasPrevious reports whether a page precedes this one
func (p *Page[T]) HasPrevious() bool {
	return p.Number > 1
}

// HasOtherPages reports whether the result set spans more than one page
func (p *Page[T]) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}

// NextPageNumber returns the number of the following page
func (p *Page[T]) NextPageNumber() int {
	if p.HasNext() {
		return p.Number + 1
	}
	return p.Number
}

// PreviousPageNumber returns the number of the preceding page
func (p *Page[T]) PreviousPageNumber() int {
	if p.HasPrevious() {
		return p.Number - 1
	}
	return p.Number
}

// PageRange lists every page number, for rendering page links
func (p *Page[T]) PageRange() []int {
	pages := make([]int, p.NumPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// Len returns the number of items on this page
func (p *Page[T]) Len() int {
	return len(p.Items)
}

// FetchFunc loads limit items starting at offset from an ordered result set
type FetchFunc[T any] func(ctx context.Context, offset, limit int) ([]T, error)

// Load resolves raw to a page of a result set of count items and fetches it
func Load[T any](ctx context.Context, count int64, perPage int, raw string, fetch FetchFunc[T]) (*Page[T], error) {
	pg := Paginator{Count: count, PerPage: perPage}
	number := pg.Number(raw)
	page := &Page[T]{
		Number:   number,
		NumPages: pg.NumPages(),
		Count:    count,
		PerPage:  perPage,
	}

	offset, limit := pg.Bounds(number)
	if limit == 0 {
		page.Items = []T{}
		return page, nil
	}

	items, err := fetch(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	page.Items = items
	return page, nil
}

// FromSlice returns the requested page of an in-memory ordered sequence
func FromSlice[T any](items []T, perPage int, raw string) *Page[T] {
	pg := Paginator{Count: int64(len(items)), PerPage: perPage}
	number := pg.Number(raw)
	offset, limit := pg.Bounds(number)

	return &Page[T]{
		Items:    items[offset : offset+limit],
		Number:   number,
		NumPages: pg.NumPages(),
		Count:    int64(len(items)),
		PerPage:  perPage,
	}
}
