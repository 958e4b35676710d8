package listutil

import (
	"net/url"
	"strconv"
	"strings"
)

// Fixed page sizes for each list screen.
const (
	PerPageUsers       = 20
	PerPageActivity    = 20
	PerPageSubscribers = 20
	PerPageOrders      = 20
	PerPageMenu        = 15
	PerPageAmbassadors = 15
	PerPageBlog        = 15
)

// FilterParams carries search and filter parameters.
type FilterParams struct {
	Search  string            // free-text search query, trimmed
	Filters map[string]string // exact-match filters (e.g. status=active)
}

// Get returns the value of a named filter, or "" when absent.
func (f FilterParams) Get(key string) string {
	return f.Filters[key]
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int // current page (1-indexed, not clamped above TotalPages)
	PerPage    int // rows per page
	Total      int // total matching rows
	TotalPages int // ceil(Total / PerPage), at least 1
}

// ListParams combines the page number and filters of a list request.
type ListParams struct {
	Page int
	FilterParams
}

// ParsePage reads the 1-indexed page number. Missing, malformed or non-positive values yield 1.
func ParsePage(q url.Values) int {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		return 1
	}
	return page
}

// ParseFilterParams extracts search and named filters from URL query values.
// The search term is read from "search", falling back to "q".
// PRE: filterKeys lists the allowed filter parameter names
// POST: returns FilterParams with only recognised, non-empty keys
func ParseFilterParams(q url.Values, filterKeys []string) FilterParams {
	search := q.Get("search")
	if search == "" {
		search = q.Get("q")
	}
	fp := FilterParams{
		Search:  strings.TrimSpace(search),
		Filters: make(map[string]string),
	}
	for _, key := range filterKeys {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			fp.Filters[key] = v
		}
	}
	return fp
}

// ParseListParams parses the page and filters of a list request.
func ParseListParams(q url.Values, filterKeys ...string) ListParams {
	return ListParams{
		Page:         ParsePage(q),
		FilterParams: ParseFilterParams(q, filterKeys),
	}
}

// NewPageInfo computes pagination metadata. Page is raised to 1 but never
// lowered, so a page past the end produces an empty window.
// PRE: total >= 0, perPage > 0
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = PerPageUsers
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the SQL OFFSET for the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Limit returns the SQL LIMIT for the current page.
func (p PageInfo) Limit() int {
	return p.PerPage
}

// StartRow returns the 1-indexed first row number on the current page, or 0 when the page is empty.
func (p PageInfo) StartRow() int {
	if p.Offset() >= p.Total {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row number on the current page, or 0 when the page is empty.
func (p PageInfo) EndRow() int {
	if p.StartRow() == 0 {
		return 0
	}
	return min(p.Offset()+p.PerPage, p.Total)
}

// HasPrev reports whether a previous page link should be shown.
func (p PageInfo) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page link should be shown.
func (p PageInfo) HasNext() bool { return p.Page < p.TotalPages }

// PageNumbers returns the page numbers to display in pagination controls:
// at most 5, centered on the current page.
func (p PageInfo) PageNumbers() []int {
	const maxButtons = 5
	current := min(p.Page, p.TotalPages)
	start := max(current-maxButtons/2, 1)
	end := start + maxButtons - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = max(end-maxButtons+1, 1)
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ShowPagination returns true if pagination controls should be displayed.
func (p PageInfo) ShowPagination() bool {
	return p.TotalPages > 1
}

// Query renders the filters plus a page number back into a query string
// so pagination links keep the active filters.
func (l ListParams) Query(page int) string {
	q := url.Values{}
	if l.Search != "" {
		q.Set("search", l.Search)
	}
	for k, v := range l.Filters {
		q.Set(k, v)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return q.Encode()
}
