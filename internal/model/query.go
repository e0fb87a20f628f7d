package model

import (
	"net/url"
	"strconv"
	"strings"
)

// ListQuery is what a list screen asks the server for.
type ListQuery struct {
	Page   int
	Size   int
	Search string
	Status StatusFilter
	Sort   SortState
	// Force bypasses intermediate caches on manual reloads.
	Force bool
}

// Values encodes q as GET /business query parameters.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	page := q.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", q.Search)
	}
	switch q.Status {
	case StatusActive:
		v.Set("disabled", "false")
	case StatusInactive:
		v.Set("disabled", "true")
	}
	if q.Sort.Active() {
		dir := q.Sort.Direction
		if !dir.Valid() {
			dir = Asc
		}
		v.Set("sort_by", q.Sort.Key)
		v.Set("order", string(dir))
	}
	return v
}
