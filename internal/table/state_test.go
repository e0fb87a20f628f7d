package table

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"bizadmin/internal/model"
	"bizadmin/internal/prefs"
)

func abcd() []model.Column {
	return []model.Column{
		{Key: "A", Label: "A", Sortable: true},
		{Key: "B", Label: "B", Sortable: true},
		{Key: "C", Label: "C", Sortable: true},
		{Key: "D", Label: "D", Sortable: true},
	}
}

func newState(t *testing.T, p *prefs.MemoryProvider, reorderable bool) *State {
	t.Helper()
	return New(Options{Store: p.Store(prefs.BusinessesKey), Reorderable: reorderable, Actions: true})
}

func TestSortToggle(t *testing.T) {
	p := prefs.NewMemoryProvider()
	s := newState(t, p, false)
	s.SetColumns(abcd())
	s.Page = 3

	if !s.RequestSort("B") || s.Sort != (model.SortState{Key: "B", Direction: model.Asc}) {
		t.Fatalf("first click: %+v", s.Sort)
	}
	if s.Page != 1 {
		t.Fatalf("sort must reset page, got %d", s.Page)
	}
	s.RequestSort("B")
	if s.Sort.Direction != model.Desc {
		t.Fatalf("second click should flip: %+v", s.Sort)
	}
	s.RequestSort("B")
	if s.Sort.Direction != model.Asc {
		t.Fatalf("third click should restore asc: %+v", s.Sort)
	}
	s.RequestSort("B")
	s.RequestSort("C")
	if s.Sort != (model.SortState{Key: "C", Direction: model.Asc}) {
		t.Fatalf("new key must start asc: %+v", s.Sort)
	}
	rec, ok := p.Store(prefs.BusinessesKey).Load()
	if !ok || rec.SortBy != "C" || rec.OrderDir != model.Asc || !reflect.DeepEqual(rec.Order, []string{"A", "B", "C", "D"}) {
		t.Fatalf("persisted: %+v", rec)
	}
}

func TestSortIgnoresActionsAndUnsortable(t *testing.T) {
	p := prefs.NewMemoryProvider()
	s := newState(t, p, false)
	cols := abcd()
	cols[0].Sortable = false
	s.SetColumns(cols)
	if s.RequestSort(model.ActionsKey) || s.RequestSort("A") || s.RequestSort("missing") {
		t.Fatalf("unsortable request accepted")
	}
	if s.Sort.Active() || p.SaveCount(prefs.BusinessesKey) != 0 {
		t.Fatalf("state changed: %+v saves=%d", s.Sort, p.SaveCount(prefs.BusinessesKey))
	}
}

func TestReorderKeepsActionsLast(t *testing.T) {
	p := prefs.NewMemoryProvider()
	s := newState(t, p, true)
	s.SetColumns(abcd())
	if !s.StartDrag(2) {
		t.Fatalf("drag refused")
	}
	order, ok := s.Drop(0)
	if !ok || !reflect.DeepEqual(order, []string{"C", "A", "B", "D"}) {
		t.Fatalf("order: %v %v", order, ok)
	}
	if got := keysOf(s.Columns()); !reflect.DeepEqual(got, []string{"C", "A", "B", "D", "actions"}) {
		t.Fatalf("columns: %v", got)
	}
	if rec, _ := p.Store(prefs.BusinessesKey).Load(); !reflect.DeepEqual(rec.Order, []string{"C", "A", "B", "D"}) {
		t.Fatalf("persisted order: %v", rec.Order)
	}
	// dropping past the end lands before actions
	s.StartDrag(0)
	s.Drop(99)
	if got := keysOf(s.Columns()); !reflect.DeepEqual(got, []string{"A", "B", "D", "C", "actions"}) {
		t.Fatalf("columns after far drop: %v", got)
	}
}

func TestReorderNoops(t *testing.T) {
	p := prefs.NewMemoryProvider()
	s := newState(t, p, true)
	s.SetColumns(abcd())
	if _, ok := s.Drop(1); ok {
		t.Fatalf("drop without drag must be a no-op")
	}
	s.StartDrag(1)
	if _, ok := s.Drop(1); ok {
		t.Fatalf("drop on itself must be a no-op")
	}
	if s.StartDrag(4) {
		t.Fatalf("actions column index must not start a drag")
	}
	disabled := newState(t, prefs.NewMemoryProvider(), false)
	disabled.SetColumns(abcd())
	if disabled.StartDrag(0) {
		t.Fatalf("reorder flag off must refuse drags")
	}
	if p.SaveCount(prefs.BusinessesKey) != 0 {
		t.Fatalf("no-ops persisted")
	}
}

func TestStoredPreferenceAppliedWhenColumnsArrive(t *testing.T) {
	p := prefs.NewMemoryProvider()
	p.Store(prefs.BusinessesKey).Save(prefs.Record{Order: []string{"code", "name"}, SortBy: "name", OrderDir: model.Desc})
	s := newState(t, p, true)
	if s.Sort != (model.SortState{Key: "name", Direction: model.Desc}) {
		t.Fatalf("sort not restored: %+v", s.Sort)
	}
	if q := s.Query().Values(); q.Get("sort_by") != "name" || q.Get("order") != "desc" {
		t.Fatalf("query: %v", q)
	}
	// columns arrive later, asynchronously
	s.Apply(model.ListResponse{
		Data:     []model.Row{{"id": "1", "name": "Acme", "code": "AC"}},
		Total:    1,
		LastPage: 1,
		Columns:  model.StringsSpec("name", "code", "created_at"),
	})
	want := []string{"code", "name", "created_at", "actions"}
	if got := keysOf(s.Columns()); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	// a later response with a new column keeps the stored order and appends it
	s.Apply(model.ListResponse{Columns: model.StringsSpec("name", "phone", "code")})
	want = []string{"code", "name", "phone", "actions"}
	if got := keysOf(s.Columns()); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	// a response with neither descriptor nor rows keeps the columns
	s.Apply(model.ListResponse{})
	if got := keysOf(s.Columns()); !reflect.DeepEqual(got, want) {
		t.Fatalf("empty response wiped columns: %v", got)
	}
}

func TestFilterChangesResetPage(t *testing.T) {
	s := New(Options{})
	s.TotalPages = 9
	s.Page = 5
	s.SetSearch("acme")
	if s.Page != 1 {
		t.Fatalf("search reset: %d", s.Page)
	}
	s.Page = 5
	s.SetStatus(model.StatusInactive)
	if s.Page != 1 {
		t.Fatalf("status reset: %d", s.Page)
	}
	s.Page = 5
	if !s.SetPageSize(20) || s.Page != 1 {
		t.Fatalf("size reset: %d", s.Page)
	}
	if s.SetPageSize(7) {
		t.Fatalf("invalid size accepted")
	}
	q := s.Query().Values()
	if q.Get("search") != "acme" || q.Get("disabled") != "true" || q.Get("size") != "20" || q.Get("page") != "1" {
		t.Fatalf("query: %v", q)
	}
	if q.Has("sort_by") {
		t.Fatalf("unsorted query carries sort_by")
	}
}

func TestPrevNextBoundaries(t *testing.T) {
	s := New(Options{})
	s.TotalPages = 2
	if s.PrevPage() {
		t.Fatalf("prev on first page")
	}
	if !s.NextPage() || s.Page != 2 {
		t.Fatalf("next: %d", s.Page)
	}
	if s.NextPage() {
		t.Fatalf("next on last page")
	}
	// externally set pages are not clamped
	if !s.SetPage(40) || s.Page != 40 {
		t.Fatalf("set page: %d", s.Page)
	}
}

func TestMoveColumnProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("a move is a permutation with actions last and the moved column at the target", prop.ForAll(
		func(n, from, target int) bool {
			cols := make([]model.Column, 0, n+1)
			for i := 0; i < n; i++ {
				cols = append(cols, model.Column{Key: string(rune('a' + i))})
			}
			cols = append(cols, ActionsColumn())
			from = from % n
			target = target % n
			out := MoveColumn(cols, from, target)
			if len(out) != len(cols) || !out[len(out)-1].IsActions() {
				return false
			}
			if out[target].Key != cols[from].Key {
				return false
			}
			seen := map[string]bool{}
			for _, c := range out {
				seen[c.Key] = true
			}
			return len(seen) == len(cols)
		},
		gen.IntRange(1, 20),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
