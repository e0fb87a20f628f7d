package table

import (
	"sort"
	"strings"

	"bizadmin/internal/model"
)

// internalFields never become derived columns.
var internalFields = map[string]bool{"id": true, "deleted_at": true}

// FromSpec maps a server descriptor to display columns, keeping its order and
// the first occurrence of each key.
func FromSpec(spec model.ColumnSpec) []model.Column {
	if spec.Empty() {
		return nil
	}
	seen := map[string]bool{}
	out := make([]model.Column, 0, len(spec.Pairs))
	for _, p := range spec.Pairs {
		k := strings.TrimSpace(p.Key)
		if k == "" || seen[k] || k == model.ActionsKey {
			continue
		}
		seen[k] = true
		label := ""
		if spec.Kind != model.SpecStrings {
			label = p.Label
		}
		out = append(out, model.Column{Key: k, Label: ResolveLabel(k, label), Sortable: true})
	}
	return out
}

// FromRow derives columns from a row's own fields. Field names are sorted
// because a decoded row keeps no order.
func FromRow(row model.Row) []model.Column {
	keys := make([]string, 0, len(row))
	for k := range row {
		if internalFields[k] || k == model.ActionsKey || strings.TrimSpace(k) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]model.Column, 0, len(keys))
	for _, k := range keys {
		out = append(out, model.Column{Key: k, Label: ResolveLabel(k, ""), Sortable: true})
	}
	return out
}

// Derive resolves the column list for a response: the descriptor when usable,
// else the first row's fields, else nothing.
func Derive(spec model.ColumnSpec, rows []model.Row) []model.Column {
	if cols := FromSpec(spec); len(cols) > 0 {
		return cols
	}
	if len(rows) > 0 {
		return FromRow(rows[0])
	}
	return nil
}

// Reconcile orders live columns by a stored key order. Stored keys that no
// longer exist are dropped, live columns missing from the order are appended
// in their live order, and the actions column stays last.
func Reconcile(live []model.Column, order []string) []model.Column {
	byKey := make(map[string]model.Column, len(live))
	var actions *model.Column
	for i := range live {
		if live[i].IsActions() {
			a := live[i]
			actions = &a
			continue
		}
		byKey[live[i].Key] = live[i]
	}
	out := make([]model.Column, 0, len(live))
	used := make(map[string]bool, len(live))
	for _, k := range order {
		c, ok := byKey[k]
		if !ok || used[k] {
			continue
		}
		used[k] = true
		out = append(out, c)
	}
	for _, c := range live {
		if c.IsActions() || used[c.Key] {
			continue
		}
		used[c.Key] = true
		out = append(out, c)
	}
	if actions != nil {
		out = append(out, *actions)
	}
	return out
}

// ActionsColumn is the trailing, non-sortable, non-draggable column.
func ActionsColumn() model.Column {
	return model.Column{Key: model.ActionsKey, Label: "Ações", Sortable: false}
}
