// Package pagination builds the two page shapes served by the API: the
// default {count, next, previous, results} page used by the post lists and
// the page-info envelope used by search and profile listings.
package pagination

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// EnvelopeSize is the fixed page size of the page-info envelope.
const EnvelopeSize = 10

// PageParam is the query parameter carrying the 1-indexed page number.
const PageParam = "page"

// ErrInvalidPage is returned by ResolvePage for a page number that is not an
// integer or is outside the available range.
var ErrInvalidPage = errors.New("Invalid page.")

// Page is the default paginated shape. Next and Previous are absolute URLs or null.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Envelope is the explicit page-info shape.
type Envelope[T any] struct {
	Results     []T   `json:"results"`
	Count       int64 `json:"count"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// TotalPages returns the number of pages needed for total items. An empty
// set still has one (empty) page.
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Offset returns the row offset of a 1-indexed page.
func Offset(number, size int) int {
	if number < 1 {
		return 0
	}
	return (number - 1) * size
}

// ResolvePage validates a raw page parameter for the default shape. An empty
// value means page 1 and "last" means the final page.
func ResolvePage(raw string, total int64, size int) (int, error) {
	raw = strings.TrimSpace(raw)
	last := TotalPages(total, size)
	if raw == "" {
		return 1, nil
	}
	if raw == "last" {
		return last, nil
	}
	number, err := strconv.Atoi(raw)
	if err != nil || number < 1 || number > last {
		return 0, ErrInvalidPage
	}
	return number, nil
}

// ClampPage resolves a raw page parameter for the envelope shape. A
// non-integer value means page 1 and out-of-range values clamp to the
// nearest valid page.
func ClampPage(raw string, total int64, size int) int {
	number, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || number < 1 {
		return 1
	}
	if last := TotalPages(total, size); number > last {
		return last
	}
	return number
}

// NewPage builds the default shape for one resolved page. requestURL is the
// absolute URL of the current request; next and previous keep its other
// query parameters and only replace the page number.
func NewPage[T any](results []T, total int64, number, size int, requestURL *url.URL) Page[T] {
	if results == nil {
		results = []T{}
	}
	page := Page[T]{Count: total, Results: results}
	if requestURL == nil {
		return page
	}
	if number < TotalPages(total, size) {
		next := withPage(requestURL, number+1)
		page.Next = &next
	}
	if number > 1 {
		prev := withPage(requestURL, number-1)
		page.Previous = &prev
	}
	return page
}

// NewEnvelope builds the page-info envelope for one clamped page.
func NewEnvelope[T any](results []T, total int64, number, size int) Envelope[T] {
	if results == nil {
		results = []T{}
	}
	totalPages := TotalPages(total, size)
	return Envelope[T]{
		Results:     results,
		Count:       total,
		TotalPages:  totalPages,
		CurrentPage: number,
		HasNext:     number < totalPages,
		HasPrevious: number > 1,
	}
}

// withPage returns u with the page parameter set to number. Page 1 drops the
// parameter entirely.
func withPage(u *url.URL, number int) string {
	next := *u
	q := next.Query()
	if number <= 1 {
		q.Del(PageParam)
	} else {
		q.Set(PageParam, strconv.Itoa(number))
	}
	next.RawQuery = q.Encode()
	return next.String()
}
