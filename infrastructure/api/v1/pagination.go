package v1

import (
	"net/http"
	"strconv"

	"github.com/aoidb/aoi/infrastructure/api/jsonapi"
)

// Page size limits for list endpoints.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a 1-indexed window over a list result.
type Page struct {
	number int
	size   int
}

// ParsePagination reads page and page_size from the query string. Missing
// or invalid values fall back to page 1 of DefaultPageSize; page_size is
// capped at MaxPageSize.
func ParsePagination(r *http.Request) Page {
	q := r.URL.Query()
	return Page{
		number: positiveOr(q.Get("page"), 1),
		size:   min(positiveOr(q.Get("page_size"), DefaultPageSize), MaxPageSize),
	}
}

func positiveOr(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// Number returns the page number.
func (p Page) Number() int { return p.number }

// Limit returns the row limit for the page.
func (p Page) Limit() int { return p.size }

// Offset returns the number of rows before the page.
func (p Page) Offset() int { return (p.number - 1) * p.size }

// Meta describes the page against a total row count.
func (p Page) Meta(total int64) jsonapi.Meta {
	pages := (total + int64(p.size) - 1) / int64(p.size)
	return jsonapi.Meta{
		"page":        p.number,
		"page_size":   p.size,
		"total_count": total,
		"total_pages": pages,
	}
}
