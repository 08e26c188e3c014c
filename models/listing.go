package models

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// ListParams carries the common paging/sorting/filtering query parameters
// used by every listing endpoint.
type ListParams struct {
	Page     int
	PageSize int
	SortBy   string
	SortDir  string
	Filters  map[string]string
}

// ListResponse wraps a page of results with its paging metadata.
type ListResponse struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

const (
	defaultPageSize = 25
	maxPageSize     = 200
)

// ParseListParams reads paging/sorting from the request query string.
// filterKeys names the query parameters that may be used as equality
// filters; anything else is ignored.
func ParseListParams(r *http.Request, filterKeys ...string) (*ListParams, error) {
	p := &ListParams{
		Page:     1,
		PageSize: defaultPageSize,
		SortDir:  "desc",
		Filters:  map[string]string{},
	}

	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid page %q", v)
		}
		p.Page = n
	}
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid page_size %q", v)
		}
		if n > maxPageSize {
			n = maxPageSize
		}
		p.PageSize = n
	}
	p.SortBy = q.Get("sort_by")
	if v := strings.ToLower(q.Get("sort_dir")); v != "" {
		if v != "asc" && v != "desc" {
			return nil, fmt.Errorf("invalid sort_dir %q", v)
		}
		p.SortDir = v
	}
	for _, key := range filterKeys {
		if v := q.Get(key); v != "" {
			p.Filters[key] = v
		}
	}
	return p, nil
}

// Validate rejects sort columns that are not plain identifiers so user
// input never reaches the ORDER BY clause raw.
func (p *ListParams) Validate() error {
	if p.SortBy == "" {
		return nil
	}
	for _, c := range p.SortBy {
		if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')) {
			return fmt.Errorf("invalid sort column %q", p.SortBy)
		}
	}
	return nil
}

// Apply adds the filters, ordering, and paging to a query.
func (p *ListParams) Apply(q *gorm.DB) *gorm.DB {
	for col, val := range p.Filters {
		q = q.Where(col+" = ?", val)
	}
	if p.SortBy != "" {
		q = q.Order(p.SortBy + " " + p.SortDir)
	}
	return q.Offset((p.Page - 1) * p.PageSize).Limit(p.PageSize)
}

// ApplyFilters adds only the filters, for counting totals before paging.
func (p *ListParams) ApplyFilters(q *gorm.DB) *gorm.DB {
	for col, val := range p.Filters {
		q = q.Where(col+" = ?", val)
	}
	return q
}
