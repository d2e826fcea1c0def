// Package pagination turns an ordered result set plus a raw page parameter
// into a concrete page window. Parse failures and range failures are distinct
// error kinds because callers recover from them differently: a page value
// that is not an integer falls back to the first page, while an integer that
// is out of range falls back to the last page.
package pagination

import (
	"errors"
	"strconv"
)

// ErrNotAnInteger indicates the requested page could not be parsed as a
// positive integer.
var ErrNotAnInteger = errors.New("page is not an integer")

// ErrEmptyPage indicates the requested page parsed but is outside the valid
// range [1, TotalPages].
var ErrEmptyPage = errors.New("page contains no results")

// Page is a resolved window into an ordered result set.
type Page struct {
	Number     int
	Offset     int
	Limit      int
	TotalPages int
}

// HasNext reports whether a page follows this one.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// HasPrev reports whether a page precedes this one.
func (p Page) HasPrev() bool { return p.Number > 1 }

// Paginator computes page windows over a result set of a known size.
// It is a pure value; the same inputs always resolve to the same page.
type Paginator struct {
	count    int
	pageSize int
}

// New returns a Paginator over count items with the given page size.
// pageSize must be positive.
func New(count, pageSize int) Paginator {
	if pageSize < 1 {
		pageSize = 1
	}
	if count < 0 {
		count = 0
	}
	return Paginator{count: count, pageSize: pageSize}
}

// TotalPages is ceil(count/pageSize). An empty set still has one (empty)
// page so that page 1 is always valid and no zero-page state exists.
func (p Paginator) TotalPages() int {
	if p.count == 0 {
		return 1
	}
	return (p.count + p.pageSize - 1) / p.pageSize
}

// Page resolves a raw page parameter. An absent (empty) value defaults to
// page 1. A value that does not parse as an integer yields ErrNotAnInteger;
// an integer outside [1, TotalPages] yields ErrEmptyPage. Both errors still
// return a usable zero Page so callers can inspect TotalPages.
func (p Paginator) Page(raw string) (Page, error) {
	total := p.TotalPages()

	number := 1
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Page{TotalPages: total}, ErrNotAnInteger
		}
		number = n
	}

	if number < 1 || number > total {
		return Page{TotalPages: total}, ErrEmptyPage
	}

	return p.page(number), nil
}

// PageNumber resolves an already-parsed page number, with the same range
// semantics as Page.
func (p Paginator) PageNumber(number int) (Page, error) {
	total := p.TotalPages()
	if number < 1 || number > total {
		return Page{TotalPages: total}, ErrEmptyPage
	}
	return p.page(number), nil
}

// First returns page 1.
func (p Paginator) First() Page { return p.page(1) }

// Last returns the final valid page.
func (p Paginator) Last() Page { return p.page(p.TotalPages()) }

func (p Paginator) page(number int) Page {
	offset := (number - 1) * p.pageSize
	limit := p.pageSize
	if remaining := p.count - offset; remaining < limit {
		limit = remaining
		if limit < 0 {
			limit = 0
		}
	}
	return Page{
		Number:     number,
		Offset:     offset,
		Limit:      limit,
		TotalPages: p.TotalPages(),
	}
}

// Resolve applies the standard caller policy shared by the listing
// endpoints: a non-integer page falls back to page 1 and an out-of-range
// page falls back to the last page. The two fallbacks are deliberate and
// distinct; do not merge them.
func (p Paginator) Resolve(raw string) Page {
	page, err := p.Page(raw)
	switch {
	case errors.Is(err, ErrNotAnInteger):
		return p.First()
	case errors.Is(err, ErrEmptyPage):
		return p.Last()
	default:
		return page
	}
}
