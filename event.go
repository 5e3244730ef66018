package managed

import (
	"reflect"
	"unsafe"

	"go.uber.org/zap"
)

// EventType identifies a handle lifecycle transition.
type EventType uint8

const (
	// EventAdopted fires when a handle takes ownership of a resource.
	EventAdopted EventType = iota
	// EventDeleted fires after the deleter ran for a resource.
	EventDeleted
	// EventAbandoned fires when a resource is forgotten on reset or close
	// because deletion was disabled.
	EventAbandoned
	// EventReleased fires when ownership is handed back to the caller.
	EventReleased
	// EventMoved fires when ownership moves to another handle.
	EventMoved
)

func (t EventType) String() string {
	switch t {
	case EventAdopted:
		return "adopted"
	case EventDeleted:
		return "deleted"
	case EventAbandoned:
		return "abandoned"
	case EventReleased:
		return "released"
	case EventMoved:
		return "moved"
	default:
		return "unknown"
	}
}

// Event describes one lifecycle transition of an owned resource.
type Event struct {
	Elem reflect.Type
	Addr unsafe.Pointer
	Type EventType
}

// Observer receives lifecycle events for the handles it is attached to.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// OnEvent calls f(e).
func (f ObserverFunc) OnEvent(e Event) {
	f(e)
}

func emit[T any](o Observer, typ EventType, ptr *T) {
	if ce := Logger().Check(zap.DebugLevel, "managed: "+typ.String()); ce != nil {
		ce.Write(
			zap.Stringer("type", reflect.TypeFor[T]()),
			zap.Uintptr("addr", uintptr(unsafe.Pointer(ptr))),
		)
	}
	if o == nil {
		return
	}
	o.OnEvent(Event{
		Type: typ,
		Elem: reflect.TypeFor[T](),
		Addr: unsafe.Pointer(ptr),
	})
}
