package resource

import (
	"reflect"

	"github.com/wippyai/managed"
)

// Handle is an opaque reference to an owned resource in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Event types for table lifecycle notifications.
type EventType uint8

const (
	EventInserted EventType = iota
	EventRemoved
	EventTaken
	EventBorrowed
	EventBorrowReturned
)

// Event represents a table lifecycle event.
type Event struct {
	Value  managed.Untyped
	Elem   reflect.Type
	Handle Handle
	Type   EventType
}

// Observer receives notifications about table lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// Backend provides the underlying storage for owned handles.
type Backend interface {
	// Create stores a handle and returns its table handle.
	Create(value managed.Untyped) (Handle, error)

	// Get retrieves a handle without transferring ownership.
	Get(handle Handle) (managed.Untyped, bool)

	// Drop removes an entry and hands its value back to the caller, who
	// decides whether to close it. Fails for unknown handles and for
	// handles with outstanding borrows.
	Drop(handle Handle) (managed.Untyped, error)

	// Close closes every stored handle and rejects further operations.
	Close() error
}

// TypedTable provides type-safe access to handles of a specific element type.
type TypedTable[T any] interface {
	// Insert stores p and returns its handle. The table takes ownership.
	Insert(p *managed.Ptr[T]) Handle

	// Get retrieves a handle without transferring ownership.
	Get(handle Handle) (*managed.Ptr[T], bool)

	// Take removes a handle and returns ownership to the caller.
	Take(handle Handle) (*managed.Ptr[T], error)

	// Remove closes a handle, deleting its resource per its policy.
	Remove(handle Handle) error

	// Len returns the number of live handles of type T.
	Len() int

	// Each iterates over live handles of type T.
	Each(func(Handle, *managed.Ptr[T]) bool)
}
