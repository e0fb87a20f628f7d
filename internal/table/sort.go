package table

import "bizadmin/internal/model"

// NextSort applies one header click: the same key flips direction, a new key
// starts ascending.
func NextSort(cur model.SortState, key string) model.SortState {
	if cur.Key == key && key != "" {
		dir := cur.Direction
		if !dir.Valid() {
			dir = model.Asc
		}
		return model.SortState{Key: key, Direction: dir.Flip()}
	}
	return model.SortState{Key: key, Direction: model.Asc}
}

// Indicator is the header marker for a column given the active sort.
func Indicator(c model.Column, s model.SortState) string {
	if !c.Sortable || c.IsActions() {
		return ""
	}
	if s.Key != c.Key {
		return "△"
	}
	if s.Direction == model.Desc {
		return "▼"
	}
	return "▲"
}
