package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in a page's life the error occurred
type Phase string

const (
	PhaseLayout   Phase = "layout"   // size/align/offset computation
	PhaseAlloc    Phase = "alloc"    // block acquisition
	PhaseAccess   Phase = "access"   // header/data view derivation
	PhaseTeardown Phase = "teardown" // drop and deallocation
)

// Kind categorizes the error
type Kind string

const (
	KindOverflow      Kind = "overflow"       // size arithmetic wrapped
	KindAllocation    Kind = "allocation"     // allocator could not satisfy the request
	KindInvalidLength Kind = "invalid_length" // negative or otherwise unusable length
	KindInvalidAlign  Kind = "invalid_align"  // alignment not a power of two
	KindOutOfBounds   Kind = "out_of_bounds"  // slot index outside [0, length)
	KindUnsupported   Kind = "unsupported"    // type cannot be stored in raw memory
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
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

// Type sets the Go type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
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

// CapacityOverflow creates an overflow error for a layout computation
func CapacityOverflow(typeName string, length int, elemSize uintptr) *Error {
	return &Error{
		Phase:  PhaseLayout,
		Kind:   KindOverflow,
		Type:   typeName,
		Detail: fmt.Sprintf("%d elements of %d bytes overflow the address space", length, elemSize),
		Value:  length,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(size, align uintptr) *Error {
	return &Error{
		Phase:  PhaseAlloc,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// InvalidLength creates an invalid length error
func InvalidLength(n int) *Error {
	return &Error{
		Phase:  PhaseLayout,
		Kind:   KindInvalidLength,
		Detail: fmt.Sprintf("length %d is negative", n),
		Value:  n,
	}
}

// InvalidAlign creates an invalid alignment error
func InvalidAlign(align uintptr) *Error {
	return &Error{
		Phase:  PhaseAlloc,
		Kind:   KindInvalidAlign,
		Detail: fmt.Sprintf("alignment %d is not a power of two", align),
		Value:  align,
	}
}

// UnsupportedType creates an error for a type that cannot live in raw memory
func UnsupportedType(typeName, detail string) *Error {
	return &Error{
		Phase:  PhaseLayout,
		Kind:   KindUnsupported,
		Type:   typeName,
		Detail: detail,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(index, length int) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("slot %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// IsOverflow reports whether err is a size-arithmetic overflow.
func IsOverflow(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindOverflow
}

// IsOutOfMemory reports whether err is an allocator failure.
func IsOutOfMemory(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindAllocation
}
