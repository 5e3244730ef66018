package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates which ownership operation produced the error
type Phase string

const (
	PhaseAcquire Phase = "acquire" // wrapping or constructing a resource
	PhaseAccess  Phase = "access"  // re-acquiring a resource through an untyped view
	PhaseDelete  Phase = "delete"  // running a deleter
	PhaseTable   Phase = "table"   // handle table operations
	PhaseTake    Phase = "take"    // transferring ownership out of a table
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch      Kind = "type_mismatch"
	KindNilPointer        Kind = "nil_pointer"
	KindNotFound          Kind = "not_found"
	KindOutstandingBorrow Kind = "outstanding_borrow"
	KindClosed            Kind = "closed"
	KindDeleter           Kind = "deleter"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Want   string
	Have   string
	Detail string
	Handle uint32
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Handle != 0 {
		b.WriteString(" at handle ")
		b.WriteString(strconv.FormatUint(uint64(e.Handle), 10))
	}

	if e.Want != "" || e.Have != "" {
		b.WriteString(": ")
		if e.Want != "" && e.Have != "" {
			b.WriteString("want ")
			b.WriteString(e.Want)
			b.WriteString(", have ")
			b.WriteString(e.Have)
		} else if e.Want != "" {
			b.WriteString("want ")
			b.WriteString(e.Want)
		} else {
			b.WriteString("have ")
			b.WriteString(e.Have)
		}
	}

	if e.Detail != "" {
		if e.Want != "" || e.Have != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Want sets the expected type name
func (b *Builder) Want(t string) *Builder {
	b.err.Want = t
	return b
}

// Have sets the actual type name
func (b *Builder) Have(t string) *Builder {
	b.err.Have = t
	return b
}

// Handle sets the table handle the error refers to
func (b *Builder) Handle(h uint32) *Builder {
	b.err.Handle = h
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, want, have string) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindTypeMismatch,
		Want:  want,
		Have:  have,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Detail: what + " is nil",
	}
}

// NotFound creates an error for an unknown or already dropped handle
func NotFound(phase Phase, handle uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Handle: handle,
		Detail: "no live resource",
	}
}

// OutstandingBorrow creates an error for dropping a lent resource
func OutstandingBorrow(phase Phase, handle uint32, borrows uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutstandingBorrow,
		Handle: handle,
		Detail: fmt.Sprintf("%d borrow(s) outstanding", borrows),
	}
}

// Closed creates an error for operations on a closed container
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: what + " closed",
	}
}
