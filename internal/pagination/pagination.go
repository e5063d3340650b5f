// Package pagination implements the page-bounds policy shared by every
// listing endpoint.  Pages are 1-based at the HTTP boundary and converted
// to 0-based offsets internally.  Two behaviors exist on out-of-range
// input: personalized and admin listings reject it, public listings clamp
// to the nearest valid page.  The split is deliberate; the endpoints have
// always behaved differently and callers depend on both.
package pagination

import "errors"

// ErrInvalidPage is returned by Strict for a page index below one.
// Handlers translate it into an HTTP 400 response.
var ErrInvalidPage = errors.New("page index must not be less than zero")

// Default page sizes used across listing endpoints.
const (
	PublicPageSize = 5  // public news/message/venue listings
	AdminPageSize  = 10 // admin listings
)

// Request is a 1-based page request as received from the client.
type Request struct {
	Page int // 1-based page number
	Size int // records per page
}

// Page is one resolved slice of a listing along with its totals.
type Page[T any] struct {
	Items         []T   `json:"items"`
	Page          int   `json:"page"`
	TotalPages    int   `json:"total_pages"`
	TotalElements int64 `json:"total_elements"`
}

// TotalPages returns ceil(totalElements / size), and 0 for an empty set.
func TotalPages(totalElements int64, size int) int {
	if totalElements <= 0 || size <= 0 {
		return 0
	}
	return int((totalElements + int64(size) - 1) / int64(size))
}

// Strict converts a 1-based request into a 0-based row offset.  A page
// below one is an error; personalized and admin listings use this form.
func Strict(req Request) (offset int, err error) {
	if req.Page < 1 {
		return 0, ErrInvalidPage
	}
	return (req.Page - 1) * req.Size, nil
}

// Clamped converts a 1-based request into a resolved page and 0-based row
// offset, clamping out-of-range pages to the nearest valid one.  Public
// listings use this form so stale links degrade gracefully instead of
// failing.  With no pages at all, page 1 with offset 0 is returned.
func Clamped(req Request, totalPages int) (page, offset int) {
	if totalPages < 1 {
		return 1, 0
	}
	page = req.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, (page - 1) * req.Size
}
