package resource

import (
	"reflect"
	"sync"

	"go.uber.org/multierr"

	"github.com/wippyai/managed"
	"github.com/wippyai/managed/errors"
)

// Table owns managed handles of any element type behind integer handles.
//
// Inserting a handle transfers ownership to the table; Remove closes it and
// Take hands it back. Table is safe for concurrent use, the handles it stores
// are not: callers must not use a borrowed handle concurrently.
type Table struct {
	backend   *LocalBackend
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
	closeMu   sync.RWMutex
}

// NewTable creates a new table with a LocalBackend.
func NewTable() *Table {
	return &Table{
		backend: NewLocalBackend(),
	}
}

// Insert takes ownership of value and returns its handle.
// Returns 0 if the table is closed or value is nil, including a nil
// *managed.Ptr.
func (t *Table) Insert(value managed.Untyped) Handle {
	t.closeMu.RLock()
	if t.closed {
		t.closeMu.RUnlock()
		return 0
	}
	t.closeMu.RUnlock()

	handle, err := t.backend.Create(value)
	if err != nil {
		return 0
	}

	t.notify(Event{
		Type:   EventInserted,
		Handle: handle,
		Elem:   value.ElemType(),
		Value:  value,
	})

	return handle
}

// Get returns the stored handle without transferring ownership.
func (t *Table) Get(handle Handle) (managed.Untyped, bool) {
	return t.backend.Get(handle)
}

// GetTyped returns the stored handle only if its element type is elem.
func (t *Table) GetTyped(handle Handle, elem reflect.Type) (managed.Untyped, bool) {
	actual, ok := t.backend.ElemType(handle)
	if !ok || actual != elem {
		return nil, false
	}
	return t.backend.Get(handle)
}

// Lookup returns the typed handle stored under handle.
func Lookup[T any](t *Table, handle Handle) (*managed.Ptr[T], bool) {
	u, ok := t.GetTyped(handle, reflect.TypeFor[T]())
	if !ok {
		return nil, false
	}
	return managed.Downcast[T](u)
}

// Borrow marks handle as lent out. Remove and Take fail until every borrow
// is returned.
func (t *Table) Borrow(handle Handle) (managed.Untyped, bool) {
	if !t.backend.Borrow(handle) {
		return nil, false
	}
	value, _ := t.backend.Get(handle)
	t.notifyFor(EventBorrowed, handle, value)
	return value, true
}

// ReturnBorrow ends one borrow of handle.
func (t *Table) ReturnBorrow(handle Handle) bool {
	if !t.backend.ReturnBorrow(handle) {
		return false
	}
	value, _ := t.backend.Get(handle)
	t.notifyFor(EventBorrowReturned, handle, value)
	return true
}

// Take removes handle from the table and returns ownership to the caller.
// The resource is never deleted by Take.
func (t *Table) Take(handle Handle) (managed.Untyped, error) {
	value, err := t.backend.Drop(handle)
	if err != nil {
		return nil, retag(err, errors.PhaseTake)
	}
	t.notifyFor(EventTaken, handle, value)
	return value, nil
}

// Remove removes handle and closes it, deleting the resource if its policy
// allows. The deleter's error is returned after the entry is gone.
func (t *Table) Remove(handle Handle) error {
	value, err := t.backend.Drop(handle)
	if err != nil {
		return err
	}

	closeErr := value.Close()
	t.notifyFor(EventRemoved, handle, value)
	return closeErr
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of stored handles.
func (t *Table) Len() int {
	return t.backend.Len()
}

// Each iterates over stored handles in handle order.
func (t *Table) Each(fn func(Handle, managed.Untyped) bool) {
	t.backend.Each(func(h Handle, _ reflect.Type, value managed.Untyped) bool {
		return fn(h, value)
	})
}

// Clear removes every handle that is not borrowed. Errors are combined.
func (t *Table) Clear() error {
	// Collect handles first to avoid holding the lock during Remove
	var handles []Handle
	t.backend.Each(func(h Handle, _ reflect.Type, _ managed.Untyped) bool {
		handles = append(handles, h)
		return true
	})

	var err error
	for _, h := range handles {
		err = multierr.Append(err, t.Remove(h))
	}
	return err
}

// Close closes every stored handle and stops accepting inserts.
func (t *Table) Close() error {
	t.closeMu.Lock()
	t.closed = true
	t.closeMu.Unlock()

	return t.backend.Close()
}

// Backend returns the underlying backend.
func (t *Table) Backend() *LocalBackend {
	return t.backend
}

func (t *Table) notifyFor(typ EventType, handle Handle, value managed.Untyped) {
	e := Event{Type: typ, Handle: handle, Value: value}
	if value != nil {
		e.Elem = value.ElemType()
	}
	t.notify(e)
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}

func retag(err error, phase errors.Phase) error {
	if e, ok := err.(*errors.Error); ok {
		c := *e
		c.Phase = phase
		return &c
	}
	return err
}
