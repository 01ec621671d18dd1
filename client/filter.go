package client

import (
	"net/url"
	"strings"

	"civictrack/models"
)

const (
	SortLatest = "latest"
	SortOldest = "oldest"
)

// Filter is the listing query. Empty fields add no constraint.
type Filter struct {
	Status   models.IssueStatus
	Category models.IssueCategory
	Search   string
	Sort     string
}

// Query encodes the non-empty fields in the order status, category,
// search, sort.
func (f Filter) Query() string {
	var b strings.Builder
	add := func(key, value string) {
		if value == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}
	add("status", string(f.Status))
	add("category", string(f.Category))
	add("search", f.Search)
	add("sort", f.Sort)
	return b.String()
}
