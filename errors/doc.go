// Package errors provides structured error types for the managed library.
//
// Errors are categorized by Phase (which ownership operation failed) and Kind
// (error category). The Error type carries the element types involved, the
// table handle when one applies, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseAccess, errors.KindTypeMismatch).
//		Want("*main.Dog").
//		Have("main.Cat").
//		Detail("checked access").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseAccess, "main.Dog", "main.Cat")
//	err := errors.NotFound(errors.PhaseTable, 7)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
