package resource

import (
	"errors"
	"sync"
	"testing"

	"github.com/wippyai/managed"
	merrors "github.com/wippyai/managed/errors"
)

type dropCounter struct {
	count int
}

func (d *dropCounter) Drop() {
	d.count++
}

func TestLocalBackend_Basic(t *testing.T) {
	b := NewLocalBackend()
	p := managed.From("test value")

	// Create an entry
	handle, err := b.Create(p)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if handle == 0 {
		t.Fatal("Expected non-zero handle")
	}

	// Get it back
	val, ok := b.Get(handle)
	if !ok {
		t.Fatal("Get failed")
	}
	if managed.As[string](val) != "test value" {
		t.Fatalf("Expected 'test value', got %v", managed.As[string](val))
	}

	elem, ok := b.ElemType(handle)
	if !ok || elem.String() != "string" {
		t.Fatalf("Expected elem type string, got %v", elem)
	}

	// Drop it, the value is handed back untouched
	val, err = b.Drop(handle)
	if err != nil {
		t.Fatalf("Drop failed: %v", err)
	}
	if !val.Valid() {
		t.Fatal("Drop must not close the handle")
	}

	// Should not exist anymore
	if _, ok := b.Get(handle); ok {
		t.Fatal("Expected Get to fail after Drop")
	}
}

func TestLocalBackend_CreateNil(t *testing.T) {
	b := NewLocalBackend()

	_, err := b.Create(nil)
	if !errors.Is(err, &merrors.Error{Phase: merrors.PhaseTable, Kind: merrors.KindNilPointer}) {
		t.Fatalf("Expected nil pointer error, got %v", err)
	}

	_, err = b.Create((*managed.Ptr[int])(nil))
	if !errors.Is(err, &merrors.Error{Phase: merrors.PhaseTable, Kind: merrors.KindNilPointer}) {
		t.Fatalf("Expected nil pointer error for nil *Ptr, got %v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("Expected empty backend, got %d entries", b.Len())
	}
}

func TestLocalBackend_Borrow(t *testing.T) {
	b := NewLocalBackend()
	handle, _ := b.Create(managed.New[int]())

	if !b.Borrow(handle) {
		t.Fatal("Borrow failed")
	}

	// Cannot drop while borrowed
	_, err := b.Drop(handle)
	if !errors.Is(err, &merrors.Error{Phase: merrors.PhaseTable, Kind: merrors.KindOutstandingBorrow}) {
		t.Fatalf("Expected outstanding borrow error, got %v", err)
	}

	if !b.ReturnBorrow(handle) {
		t.Fatal("ReturnBorrow failed")
	}

	if _, err := b.Drop(handle); err != nil {
		t.Fatalf("Drop after ReturnBorrow failed: %v", err)
	}
}

func TestLocalBackend_MultipleBorrows(t *testing.T) {
	b := NewLocalBackend()
	handle, _ := b.Create(managed.New[int]())

	b.Borrow(handle)
	b.Borrow(handle)
	b.Borrow(handle)
	if got := b.Borrows(handle); got != 3 {
		t.Fatalf("Expected 3 borrows, got %d", got)
	}

	b.ReturnBorrow(handle)
	b.ReturnBorrow(handle)
	if _, err := b.Drop(handle); err == nil {
		t.Fatal("Drop should fail with one borrow outstanding")
	}

	b.ReturnBorrow(handle)
	if b.ReturnBorrow(handle) {
		t.Fatal("ReturnBorrow should fail without outstanding borrows")
	}
	if _, err := b.Drop(handle); err != nil {
		t.Fatalf("Drop failed: %v", err)
	}
}

func TestLocalBackend_HandleReuse(t *testing.T) {
	b := NewLocalBackend()

	h1, _ := b.Create(managed.From(1))
	h2, _ := b.Create(managed.From(2))

	b.Drop(h1)

	h3, _ := b.Create(managed.From(3))
	if h3 != h1 {
		t.Fatalf("Expected freed handle %d to be reused, got %d", h1, h3)
	}

	val, _ := b.Get(h3)
	if managed.As[int](val) != 3 {
		t.Fatal("Reused slot holds stale value")
	}
	if _, ok := b.Get(h2); !ok {
		t.Fatal("h2 should be valid")
	}
}

func TestLocalBackend_Close(t *testing.T) {
	b := NewLocalBackend()
	d1, d2 := &dropCounter{}, &dropCounter{}
	kept := &dropCounter{}

	b.Create(managed.Make(d1))
	b.Create(managed.Make(d2))
	b.Create(managed.Make(kept, managed.DeletesPointer(false)))

	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if d1.count != 1 || d2.count != 1 {
		t.Fatal("Close should delete every owned resource once")
	}
	if kept.count != 0 {
		t.Fatal("Close must respect a disabled deletion policy")
	}

	// Second close is a no-op
	if err := b.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if d1.count != 1 {
		t.Fatal("second Close deleted again")
	}

	// Operations should fail after close
	_, err := b.Create(managed.New[int]())
	if !errors.Is(err, &merrors.Error{Phase: merrors.PhaseTable, Kind: merrors.KindClosed}) {
		t.Fatalf("Expected closed error, got %v", err)
	}
}

type failingCloser struct{ err error }

func (f *failingCloser) Close() error { return f.err }

func TestLocalBackend_CloseCombinesErrors(t *testing.T) {
	b := NewLocalBackend()
	e1, e2 := errors.New("first"), errors.New("second")

	b.Create(managed.Make(&failingCloser{err: e1}))
	b.Create(managed.Make(&failingCloser{err: e2}))

	err := b.Close()
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Fatalf("Expected both errors, got %v", err)
	}
}

func TestLocalBackend_Concurrent(t *testing.T) {
	b := NewLocalBackend()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			h, _ := b.Create(managed.From(id))
			b.Borrow(h)
			b.ReturnBorrow(h)
			if v, err := b.Drop(h); err == nil {
				v.Close()
			}
		}(i)
	}

	wg.Wait()

	if b.Len() != 0 {
		t.Fatalf("Expected empty backend, got %d", b.Len())
	}
}

func TestLocalBackend_Len(t *testing.T) {
	b := NewLocalBackend()

	if b.Len() != 0 {
		t.Fatal("Expected Len() == 0 initially")
	}

	h1, _ := b.Create(managed.From("a"))
	h2, _ := b.Create(managed.From("b"))
	b.Create(managed.From("c"))

	if b.Len() != 3 {
		t.Fatalf("Expected Len() == 3, got %d", b.Len())
	}

	b.Drop(h1)
	if b.Len() != 2 {
		t.Fatalf("Expected Len() == 2, got %d", b.Len())
	}

	b.Drop(h2)
	if b.Len() != 1 {
		t.Fatalf("Expected Len() == 1, got %d", b.Len())
	}
}

func TestLocalBackend_InvalidHandle(t *testing.T) {
	b := NewLocalBackend()

	// Handle 0 is always invalid
	if _, ok := b.Get(0); ok {
		t.Fatal("Handle 0 should be invalid")
	}
	if _, ok := b.ElemType(0); ok {
		t.Fatal("Handle 0 should be invalid for ElemType")
	}
	if b.Borrow(0) {
		t.Fatal("Handle 0 should fail Borrow")
	}
	if b.ReturnBorrow(0) {
		t.Fatal("Handle 0 should fail ReturnBorrow")
	}
	_, err := b.Drop(0)
	if !errors.Is(err, &merrors.Error{Phase: merrors.PhaseTable, Kind: merrors.KindNotFound}) {
		t.Fatalf("Handle 0 should fail Drop with not found, got %v", err)
	}

	// Non-existent handle
	if _, ok := b.Get(999); ok {
		t.Fatal("Non-existent handle should be invalid")
	}
	if b.Borrows(999) != 0 {
		t.Fatal("Non-existent handle should have no borrows")
	}
}
