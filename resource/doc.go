// Package resource provides a table that owns managed handles of any element
// type behind integer handles.
//
// The table is the second layer of ownership for type-erased handles: it
// stores managed.Untyped values side by side and decides when they are closed.
//
// # Ownership Operations
//
//	Insert - the table takes ownership of a handle
//	Borrow - temporary access; the handle cannot be removed until returned
//	Take   - ownership moves back to the caller; nothing is deleted
//	Remove - the handle is closed, deleting its resource per its policy
//
// # Handle Table
//
//	table := resource.NewTable()
//
//	// Insert a handle, get a table handle
//	h := table.Insert(managed.Make(file))
//
//	// Retrieve the untyped view
//	u, ok := table.Get(h)
//
//	// Or the typed handle
//	p, ok := resource.Lookup[File](table, h)
//
//	// Close it
//	err := table.Remove(h)
//
// # Type Safety
//
// Every entry records the element type of its handle:
//
//	u, ok := table.GetTyped(h, reflect.TypeFor[File]()) // ok
//	u, ok := table.GetTyped(h, reflect.TypeFor[Conn]()) // !ok
//
// Typed restricts a table to one element type:
//
//	files := resource.NewTyped[File](table)
//	files.Each(func(h resource.Handle, p *managed.Ptr[File]) bool { ... })
//
// # Observers
//
// Register observers to track table events:
//
//	table.Subscribe(observer)
//
//	func (o *observer) OnResourceEvent(e resource.Event) {
//	    switch e.Type {
//	    case resource.EventInserted:
//	        log.Printf("handle %d inserted (%s)", e.Handle, e.Elem)
//	    case resource.EventRemoved:
//	        log.Printf("handle %d removed", e.Handle)
//	    }
//	}
//
// # Closing
//
// Handles left in the table are closed by table.Close(). Until then the table
// keeps them alive; forgetting to Remove or Close leaks their resources.
package resource
