package managed

import (
	"reflect"

	"github.com/wippyai/managed/errors"
)

// Option configures a handle created by Make or Construct.
type Option func(*options)

type options struct {
	observer Observer
	deleter  any
	keep     bool
}

// DeletesPointer sets the initial deletion policy. Handles delete by default.
func DeletesPointer(deletes bool) Option {
	return func(o *options) {
		o.keep = !deletes
	}
}

// WithDeleter replaces DefaultDeleter. The deleter's element type must match
// the handle's; Make panics with an acquire-phase type mismatch otherwise.
func WithDeleter[T any](d func(*T) error) Option {
	return func(o *options) {
		o.deleter = Deleter[T](d)
	}
}

// WithObserver attaches an observer that follows the resource across moves.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// New returns a handle owning a fresh zero T, with deletion enabled.
func New[T any](opts ...Option) *Ptr[T] {
	return Make(new(T), opts...)
}

// From returns a handle owning a heap copy of v, with deletion enabled.
func From[T any](v T, opts ...Option) *Ptr[T] {
	return Make(&v, opts...)
}

// Wrap takes ownership of ptr without copying it.
func Wrap[T any](ptr *T, deletes bool) *Ptr[T] {
	return Make(ptr, DeletesPointer(deletes))
}

// Make takes ownership of ptr. Deletion is enabled unless an option says
// otherwise. A nil ptr yields an empty handle.
func Make[T any](ptr *T, opts ...Option) *Ptr[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	p := &Ptr[T]{
		ptr: ptr,
		policy: policy[T]{
			observer: o.observer,
			keep:     o.keep,
		},
	}
	if o.deleter != nil {
		d, ok := o.deleter.(Deleter[T])
		if !ok {
			panic(errors.New(errors.PhaseAcquire, errors.KindTypeMismatch).
				Want(reflect.TypeFor[Deleter[T]]().String()).
				Have(reflect.TypeOf(o.deleter).String()).
				Detail("deleter element type does not match handle").
				Build())
		}
		p.policy.deleter = d
	}

	if ptr != nil {
		emit(o.observer, EventAdopted, ptr)
	}
	return p
}

// Construct calls ctor and takes ownership of its result.
func Construct[T any](ctor func() *T, opts ...Option) *Ptr[T] {
	return Make(ctor(), opts...)
}
