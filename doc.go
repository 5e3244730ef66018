// Package managed provides single-owner handles whose delete-on-destruction
// policy can be switched at runtime, and a type-erased view of those handles
// for heterogeneous storage.
//
// # Architecture Overview
//
//	managed/             Ptr[T], the Untyped view, factories and re-acquisition
//	├── resource/        Handle table that owns Untyped handles behind integer handles
//	├── errors/          Structured error types
//	├── cmd/example/     Lifecycle demo (plain and interactive)
//	└── examples/basic/  Minimal usage
//
// # Quick Start
//
//	dog := managed.Make(NewDog("Fido"))
//	defer dog.Close()
//
//	dog.Assign(managed.Make(NewDog("Rover"))) // Fido is deleted
//	dog.DisableDelete()
//	dog.Reset()                                // Rover is forgotten, not deleted
//
// # Deletion
//
// Go reclaims memory itself, so deleting a resource means running its
// Deleter. DefaultDeleter calls Drop for a Dropper and Close for an
// io.Closer. The policy flag decides whether Reset, ResetTo, Assign and Close
// run the deleter or merely forget the pointer; Release and Take never run it.
//
// Handles have no implicit destructor. Call Close, usually with defer.
//
// # Ownership
//
// A Ptr owns its resource alone. Move and Assign transfer the pointer together
// with its policy and leave the source empty. Ptr values must not be copied;
// go vet reports copies.
//
// # Type Erasure
//
// Every *Ptr[T] is an Untyped. An Untyped can be closed, reset, released and
// have its policy toggled without knowing T:
//
//	var u managed.Untyped = managed.Make(NewDog("Scooby"))
//	u.Close() // Scooby is deleted exactly once
//
// Re-acquire the resource with As (unchecked, the caller vouches for the type),
// AsChecked (verifies T or *T), or Downcast (returns the typed handle).
//
// # Observability
//
// Lifecycle transitions are logged at debug level through the zap logger set
// with SetLogger, and delivered to an Observer attached with WithObserver.
package managed
