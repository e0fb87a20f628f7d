package table

import (
	"bizadmin/internal/model"
	"bizadmin/internal/prefs"
)

// Options configures a table State.
type Options struct {
	Store       prefs.Store
	PageSize    int
	Reorderable bool
	// Actions appends the trailing actions column.
	Actions bool
}

// State is the list-screen container: it owns page, size, search, status
// filter, sort and columns, produces the list query and absorbs responses.
type State struct {
	Page       int
	PageSize   int
	Search     string
	Status     model.StatusFilter
	Sort       model.SortState
	Rows       []model.Row
	Total      int
	TotalPages int

	cols        []model.Column
	order       []string
	store       prefs.Store
	reorderable bool
	actions     bool
	drag        dragger
}

// New builds a State and reads the stored preference once.
func New(o Options) *State {
	size := o.PageSize
	if !ValidPageSize(size) {
		size = DefaultPageSize
	}
	s := &State{
		Page:        1,
		PageSize:    size,
		Status:      model.StatusAll,
		Sort:        model.SortState{Direction: model.Asc},
		store:       o.Store,
		reorderable: o.Reorderable,
		actions:     o.Actions,
	}
	if s.store != nil {
		if rec, ok := s.store.Load(); ok {
			if rec.SortBy != "" {
				s.Sort.Key = rec.SortBy
			}
			if rec.OrderDir.Valid() {
				s.Sort.Direction = rec.OrderDir
			}
			s.order = append([]string(nil), rec.Order...)
		}
	}
	return s
}

// Columns returns the display columns, actions last when enabled.
func (s *State) Columns() []model.Column {
	out := make([]model.Column, 0, len(s.cols)+1)
	out = append(out, s.cols...)
	if s.actions && len(s.cols) > 0 {
		out = append(out, ActionsColumn())
	}
	return out
}

// DataColumns returns the reorderable columns.
func (s *State) DataColumns() []model.Column {
	return append([]model.Column(nil), s.cols...)
}

func (s *State) Reorderable() bool { return s.reorderable }

// SetColumns replaces the live column model, reapplying the preferred order.
// An empty list leaves the current columns in place.
func (s *State) SetColumns(cols []model.Column) {
	if len(cols) == 0 {
		return
	}
	merged := Reconcile(cols, s.order)
	s.cols = s.cols[:0]
	for _, c := range merged {
		if !c.IsActions() {
			s.cols = append(s.cols, c)
		}
	}
}

// Apply absorbs a list response.
func (s *State) Apply(resp model.ListResponse) {
	s.Rows = resp.Data
	s.Total = resp.Total
	s.TotalPages = resp.LastPage
	s.SetColumns(Derive(resp.Columns, resp.Data))
}

// Query returns the parameters for the next list request.
func (s *State) Query() model.ListQuery {
	return model.ListQuery{
		Page:   s.Page,
		Size:   s.PageSize,
		Search: s.Search,
		Status: s.Status,
		Sort:   s.Sort,
	}
}

func (s *State) column(key string) (model.Column, bool) {
	if key == model.ActionsKey {
		return ActionsColumn(), true
	}
	for _, c := range s.cols {
		if c.Key == key {
			return c, true
		}
	}
	return model.Column{}, false
}

// RequestSort handles a header click. It reports false and changes nothing
// for the actions column or a non-sortable one.
func (s *State) RequestSort(key string) bool {
	c, ok := s.column(key)
	if !ok || !c.Sortable || c.IsActions() {
		return false
	}
	s.Sort = NextSort(s.Sort, key)
	s.Page = 1
	s.persist()
	return true
}

// StartDrag marks the column at i (index among data columns) as the move
// source.
func (s *State) StartDrag(i int) bool {
	if !s.reorderable || i < 0 || i >= len(s.cols) {
		return false
	}
	s.drag.start(i)
	return true
}

// Dragging returns the move source, if any.
func (s *State) Dragging() (int, bool) { return s.drag.from, s.drag.active }

func (s *State) CancelDrag() { s.drag.clear() }

// Drop moves the dragged column to target and persists the new order. It
// returns the new key order, or false when nothing moved.
func (s *State) Drop(target int) ([]string, bool) {
	if !s.reorderable || !s.drag.active {
		return nil, false
	}
	from := s.drag.from
	s.drag.clear()
	if from == target {
		return nil, false
	}
	moved := MoveColumn(s.cols, from, target)
	if sameKeys(moved, s.cols) {
		return nil, false
	}
	s.cols = moved
	s.order = model.Keys(moved)
	s.persist()
	return append([]string(nil), s.order...), true
}

// SetPage moves to page p. Out of range pages are accepted as given; callers
// reset to 1 when the result set changes.
func (s *State) SetPage(p int) bool {
	if p < 1 || p == s.Page {
		return false
	}
	s.Page = p
	return true
}

func (s *State) NextPage() bool {
	if !HasNext(s.Page, s.TotalPages) {
		return false
	}
	s.Page++
	return true
}

func (s *State) PrevPage() bool {
	if !HasPrev(s.Page) {
		return false
	}
	s.Page--
	return true
}

func (s *State) SetPageSize(n int) bool {
	if !ValidPageSize(n) || n == s.PageSize {
		return false
	}
	s.PageSize = n
	s.Page = 1
	return true
}

func (s *State) SetSearch(term string) {
	s.Search = term
	s.Page = 1
}

func (s *State) SetStatus(f model.StatusFilter) {
	s.Status = f
	s.Page = 1
}

func (s *State) VisiblePages() []PageItem { return VisiblePages(s.Page, s.TotalPages) }

// Record is the preference snapshot written on sort and reorder.
func (s *State) Record() prefs.Record {
	order := model.Keys(s.cols)
	if len(order) == 0 {
		order = append([]string(nil), s.order...)
	}
	return prefs.Record{Order: order, SortBy: s.Sort.Key, OrderDir: s.Sort.Direction}
}

func sameKeys(a, b []model.Column) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key != b[i].Key {
			return false
		}
	}
	return true
}

func (s *State) persist() {
	if s.store == nil {
		return
	}
	s.store.Save(s.Record())
}
