package managed

import (
	"io"
	"reflect"

	"go.uber.org/zap"

	"github.com/wippyai/managed/errors"
)

// Deleter destroys a resource whose owning handle has deletion enabled.
// It is never called with nil.
type Deleter[T any] func(*T) error

// DefaultDeleter calls Drop when *T implements Dropper, otherwise Close when
// it implements io.Closer. For any other type it does nothing and the memory
// is reclaimed once the handle forgets the pointer.
func DefaultDeleter[T any](ptr *T) error {
	switch r := any(ptr).(type) {
	case Dropper:
		r.Drop()
	case io.Closer:
		return r.Close()
	}
	return nil
}

// policy travels with the owned pointer on every move.
// The zero value deletes with DefaultDeleter.
type policy[T any] struct {
	observer Observer
	deleter  Deleter[T]
	keep     bool
}

// dispose applies the policy to a resource the handle no longer owns.
func (pol *policy[T]) dispose(ptr *T) error {
	if ptr == nil {
		return nil
	}
	if pol.keep {
		emit(pol.observer, EventAbandoned, ptr)
		return nil
	}

	del := pol.deleter
	if del == nil {
		del = DefaultDeleter[T]
	}
	err := del(ptr)
	emit(pol.observer, EventDeleted, ptr)
	if err != nil {
		return errors.New(errors.PhaseDelete, errors.KindDeleter).
			Have(reflect.TypeFor[T]().String()).
			Cause(err).
			Build()
	}
	return nil
}

// disposeLogged is dispose for call sites that cannot return an error.
func (pol *policy[T]) disposeLogged(ptr *T) {
	if err := pol.dispose(ptr); err != nil {
		Logger().Warn("managed: deleter failed", zap.Error(err))
	}
}
