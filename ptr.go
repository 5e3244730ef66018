package managed

import (
	"reflect"
	"unsafe"
)

// noCopy lets go vet's copylocks check flag copies of a Ptr.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Ptr is the single owner of one *T with a runtime-toggleable deletion policy.
//
// Ownership moves with Move and Assign and is never shared; a Ptr must not be
// copied after first use. The zero value is an empty handle with deletion
// enabled. Ptr is not safe for concurrent use.
//
// Get, Value and the untyped accessors on an empty handle follow the usual
// pointer contract: Get returns nil and Value panics. Every Untyped method is
// safe on a nil *Ptr, which behaves like an empty handle.
type Ptr[T any] struct {
	_      noCopy
	ptr    *T
	policy policy[T]
}

var _ Untyped = (*Ptr[struct{}])(nil)

// Get returns the owned pointer, or nil when empty.
func (p *Ptr[T]) Get() *T {
	if p == nil {
		return nil
	}
	return p.ptr
}

// Value returns a copy of the owned value. The handle must not be empty.
func (p *Ptr[T]) Value() T {
	return *p.ptr
}

// VoidPtr returns the owned address without type information.
func (p *Ptr[T]) VoidPtr() unsafe.Pointer {
	if p == nil {
		return nil
	}
	return unsafe.Pointer(p.ptr)
}

// ElemType returns reflect.TypeFor[T]().
func (p *Ptr[T]) ElemType() reflect.Type {
	return reflect.TypeFor[T]()
}

// Untyped returns the type-erased view of p. The view is p itself, so p
// remains the only owner.
func (p *Ptr[T]) Untyped() Untyped {
	return p
}

// Valid reports whether p owns a non-nil resource.
func (p *Ptr[T]) Valid() bool {
	return p != nil && p.ptr != nil
}

// DisableDelete makes Reset and Close forget the resource instead of deleting it.
func (p *Ptr[T]) DisableDelete() {
	if p != nil {
		p.policy.keep = true
	}
}

// EnableDelete is the no-argument form of SetDeletesPointer(true).
func (p *Ptr[T]) EnableDelete() {
	if p != nil {
		p.policy.keep = false
	}
}

// DeletesPointer reports whether Reset and Close delete the resource.
// A nil handle reports the zero-value policy.
func (p *Ptr[T]) DeletesPointer() bool {
	return p == nil || !p.policy.keep
}

// SetDeletesPointer sets the deletion policy for the current and future
// resources.
func (p *Ptr[T]) SetDeletesPointer(deletes bool) {
	if p != nil {
		p.policy.keep = !deletes
	}
}

// Reset disposes of the current resource per the policy and leaves p empty.
func (p *Ptr[T]) Reset() {
	if p == nil {
		return
	}
	p.ResetTo(nil)
}

// ResetTo disposes of the current resource per the policy and adopts ptr.
// The policy is unchanged and applies to ptr from now on. Passing the pointer
// p already owns is a no-op.
func (p *Ptr[T]) ResetTo(ptr *T) {
	if ptr != nil && ptr == p.ptr {
		return
	}
	old := p.ptr
	p.ptr = ptr
	p.policy.disposeLogged(old)
	if ptr != nil {
		emit(p.policy.observer, EventAdopted, ptr)
	}
}

// Release forgets the resource without deleting it, whatever the policy.
func (p *Ptr[T]) Release() {
	_ = p.Take()
}

// Take releases the resource and returns it to the caller, who becomes
// responsible for its lifetime. Take on an empty handle returns nil.
func (p *Ptr[T]) Take() *T {
	if p == nil {
		return nil
	}
	ptr := p.ptr
	if ptr == nil {
		return nil
	}
	p.ptr = nil
	emit(p.policy.observer, EventReleased, ptr)
	return ptr
}

// Move transfers the resource and its policy to a new handle and leaves p
// empty.
func (p *Ptr[T]) Move() *Ptr[T] {
	dst := &Ptr[T]{ptr: p.ptr, policy: p.policy}
	p.ptr = nil
	if dst.ptr != nil {
		emit(dst.policy.observer, EventMoved, dst.ptr)
	}
	return dst
}

// Assign moves src into p. The resource p owned before is disposed of under
// p's previous policy, then p takes src's resource and policy and src is left
// empty. Assigning a handle to itself is a no-op; a nil src resets p.
func (p *Ptr[T]) Assign(src *Ptr[T]) {
	if src == p {
		return
	}
	if src == nil {
		p.Reset()
		return
	}

	old, oldPolicy := p.ptr, p.policy
	p.ptr, p.policy = src.ptr, src.policy
	src.ptr = nil
	if p.ptr != nil {
		emit(p.policy.observer, EventMoved, p.ptr)
	}
	oldPolicy.disposeLogged(old)
}

// Close disposes of the resource per the policy and leaves p empty. It
// returns the deleter's error. Closing an empty handle is a no-op.
func (p *Ptr[T]) Close() error {
	if p == nil {
		return nil
	}
	old := p.ptr
	p.ptr = nil
	return p.policy.dispose(old)
}
