// Package history keeps undo and redo stacks of snapshots.
package history

import "errors"

// ErrEmpty is returned by Undo and Redo when there is nothing to restore.
// Callers treat it as a silent no-op.
var ErrEmpty = errors.New("history empty")

// History holds snapshots of some state T. Snapshots must be deep copies:
// History stores and returns them as given.
type History[T any] struct {
	limit int
	undo  []T
	redo  []T
}

// New returns a history keeping at most limit undo steps. A limit below 1
// means unbounded.
func New[T any](limit int) *History[T] {
	return &History[T]{limit: limit}
}

// Record pushes the state as it was before a new edit and discards the
// redo branch.
func (h *History[T]) Record(snapshot T) {
	h.undo = h.push(h.undo, snapshot)
	h.ClearRedo()
}

func (h *History[T]) push(stack []T, v T) []T {
	stack = append(stack, v)
	if h.limit > 0 && len(stack) > h.limit {
		var zero T
		stack[0] = zero
		stack = stack[1:]
	}
	return stack
}

// Undo pops the last recorded snapshot, saving current on the redo stack.
func (h *History[T]) Undo(current T) (T, error) {
	if len(h.undo) == 0 {
		var zero T
		return zero, ErrEmpty
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = h.push(h.redo, current)
	return prev, nil
}

// Redo pops the last undone snapshot, saving current on the undo stack.
func (h *History[T]) Redo(current T) (T, error) {
	if len(h.redo) == 0 {
		var zero T
		return zero, ErrEmpty
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = h.push(h.undo, current)
	return next, nil
}

// ClearRedo discards every undone snapshot.
func (h *History[T]) ClearRedo() {
	clear(h.redo)
	h.redo = h.redo[:0]
}

// Reset discards both stacks.
func (h *History[T]) Reset() {
	clear(h.undo)
	h.undo = h.undo[:0]
	h.ClearRedo()
}

// CanUndo reports whether Undo would restore something.
func (h *History[T]) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo would restore something.
func (h *History[T]) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the undo and redo stack depths.
func (h *History[T]) Len() (undo, redo int) { return len(h.undo), len(h.redo) }
