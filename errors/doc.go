// Package errors provides structured error types for the pages library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes the Go type involved, a detail message,
// and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLayout, errors.KindOverflow).
//		Type("page.Page[bool,int]").
//		Detail("element count too large").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.CapacityOverflow("int", length, elemSize)
//	err := errors.AllocationFailed(size, align)
//
// All errors implement the standard error interface and support errors.Is/As.
// Construction-time failures only ever use two kinds, matched by the
// IsOverflow and IsOutOfMemory helpers; everything else a caller can do wrong
// with a page (reading an uninitialized slot, using a destroyed handle) is a
// contract violation, not a reported error.
package errors
