package managed

import (
	"reflect"
	"unsafe"
)

// Untyped is the type-erased view of a managed handle.
//
// It exposes every operation that does not need the element type, so handles
// of different element types can be stored side by side. An Untyped obtained
// from a *Ptr[T] refers to that same handle: it adds no state and is valid as
// long as the handle is.
type Untyped interface {
	// VoidPtr returns the address of the owned resource, or nil when empty.
	// Ownership does not change.
	VoidPtr() unsafe.Pointer

	// ElemType returns the element type of the underlying handle.
	ElemType() reflect.Type

	// DisableDelete makes future resets and closes forget the resource
	// instead of deleting it.
	DisableDelete()

	// EnableDelete makes future resets and closes delete the resource.
	EnableDelete()

	// DeletesPointer reports the current deletion policy.
	DeletesPointer() bool

	// SetDeletesPointer sets the deletion policy.
	SetDeletesPointer(deletes bool)

	// Reset deletes the resource if the policy allows, otherwise forgets
	// it. The handle is empty afterwards. Reset on an empty handle is a no-op.
	Reset()

	// Release forgets the resource without deleting it, regardless of the
	// policy. The caller becomes responsible for its lifetime.
	Release()

	// Valid reports whether the handle owns a non-nil resource.
	Valid() bool

	// Close destroys the handle: it behaves like Reset and returns the
	// deleter's error, if any. Closing twice is a no-op.
	Close() error
}

// Dropper is implemented by resources that need explicit cleanup when their
// owning handle deletes them.
type Dropper interface {
	Drop()
}
