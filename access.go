package managed

import (
	"reflect"
	"unsafe"

	"github.com/wippyai/managed/errors"
)

// As re-acquires the resource behind u as Target.
//
// When Target is a pointer type, As returns the owned address converted to
// Target, or nil when u is empty. Otherwise As returns a copy of the value at
// the owned address, or the zero Target when u is empty.
//
// As does not check that Target matches the element type. Using a Target
// other than T or *T reads memory as the wrong type; use AsChecked or
// Downcast when the element type is not known for certain.
func As[Target any](u Untyped) Target {
	var zero Target
	if u == nil {
		return zero
	}
	addr := u.VoidPtr()
	if addr == nil {
		return zero
	}
	if pointerShaped(reflect.TypeFor[Target]()) {
		return *(*Target)(unsafe.Pointer(&addr))
	}
	return *(*Target)(addr)
}

// AsChecked is As with a type check: Target must be T or *T for the element
// type T of u. An empty handle yields the zero Target and no error.
func AsChecked[Target any](u Untyped) (Target, error) {
	var zero Target
	if u == nil {
		return zero, errors.NilPointer(errors.PhaseAccess, "untyped handle")
	}

	want := reflect.TypeFor[Target]()
	elem := u.ElemType()
	if want != elem && !(want.Kind() == reflect.Pointer && want.Elem() == elem) {
		return zero, errors.TypeMismatch(errors.PhaseAccess, want.String(), elem.String())
	}

	addr := u.VoidPtr()
	if addr == nil {
		return zero, nil
	}
	// T may itself be a pointer type, so decide by the match, not by shape.
	if want == elem {
		return *(*Target)(addr), nil
	}
	return *(*Target)(unsafe.Pointer(&addr)), nil
}

// Downcast recovers the typed handle behind u.
func Downcast[T any](u Untyped) (*Ptr[T], bool) {
	p, ok := u.(*Ptr[T])
	return p, ok
}

func pointerShaped(t reflect.Type) bool {
	k := t.Kind()
	return k == reflect.Pointer || k == reflect.UnsafePointer
}
