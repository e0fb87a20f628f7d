package table

import "bizadmin/internal/model"

// MoveColumn moves the reorderable column at from to target. The actions
// column is excluded from indexing and always ends up last. Out of range
// targets are clamped; an invalid source returns cols unchanged.
func MoveColumn(cols []model.Column, from, target int) []model.Column {
	movable := make([]model.Column, 0, len(cols))
	var actions []model.Column
	for _, c := range cols {
		if c.IsActions() {
			actions = append(actions, c)
			continue
		}
		movable = append(movable, c)
	}
	if from < 0 || from >= len(movable) {
		return cols
	}
	if target < 0 {
		target = 0
	}
	if target >= len(movable) {
		target = len(movable) - 1
	}
	moved := movable[from]
	out := make([]model.Column, 0, len(cols))
	out = append(out, movable[:from]...)
	out = append(out, movable[from+1:]...)
	out = append(out[:target], append([]model.Column{moved}, out[target:]...)...)
	return append(out, actions...)
}

// dragger tracks the transient source index of a column move.
type dragger struct {
	from   int
	active bool
}

func (d *dragger) start(i int) { d.from, d.active = i, true }
func (d *dragger) clear()      { d.from, d.active = 0, false }
