package resource

import (
	"reflect"

	"github.com/wippyai/managed"
	"github.com/wippyai/managed/errors"
)

// Typed is a view of a Table restricted to handles of element type T.
// Handles of other types stored in the same table are invisible to it.
type Typed[T any] struct {
	table *Table
}

var _ TypedTable[struct{}] = (*Typed[struct{}])(nil)

// NewTyped creates a typed view over table.
func NewTyped[T any](table *Table) *Typed[T] {
	return &Typed[T]{table: table}
}

// Insert stores p and returns its handle.
func (t *Typed[T]) Insert(p *managed.Ptr[T]) Handle {
	if p == nil {
		return 0
	}
	return t.table.Insert(p)
}

// Get retrieves a typed handle.
func (t *Typed[T]) Get(handle Handle) (*managed.Ptr[T], bool) {
	return Lookup[T](t.table, handle)
}

// Take removes a handle of type T and returns ownership to the caller.
// A handle of another type is left in place.
func (t *Typed[T]) Take(handle Handle) (*managed.Ptr[T], error) {
	if err := t.check(handle, errors.PhaseTake); err != nil {
		return nil, err
	}
	u, err := t.table.Take(handle)
	if err != nil {
		return nil, err
	}
	p, _ := managed.Downcast[T](u)
	return p, nil
}

// Remove closes a handle of type T.
func (t *Typed[T]) Remove(handle Handle) error {
	if err := t.check(handle, errors.PhaseTable); err != nil {
		return err
	}
	return t.table.Remove(handle)
}

// Len returns the number of stored handles of type T.
func (t *Typed[T]) Len() int {
	n := 0
	t.Each(func(Handle, *managed.Ptr[T]) bool {
		n++
		return true
	})
	return n
}

// Each iterates over stored handles of type T.
func (t *Typed[T]) Each(fn func(Handle, *managed.Ptr[T]) bool) {
	t.table.Each(func(h Handle, u managed.Untyped) bool {
		p, ok := managed.Downcast[T](u)
		if !ok {
			return true
		}
		return fn(h, p)
	})
}

// Table returns the underlying table.
func (t *Typed[T]) Table() *Table {
	return t.table
}

func (t *Typed[T]) check(handle Handle, phase errors.Phase) error {
	actual, ok := t.table.backend.ElemType(handle)
	if !ok {
		return errors.NotFound(phase, uint32(handle))
	}
	if want := reflect.TypeFor[T](); actual != want {
		return errors.New(phase, errors.KindTypeMismatch).
			Handle(uint32(handle)).
			Want(want.String()).
			Have(actual.String()).
			Build()
	}
	return nil
}
