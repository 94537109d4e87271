package pages

import "unsafe"

// Allocator acquires and releases raw memory blocks.
//
// The (size, align) pair passed to Free must be identical to the pair that
// was passed to the Alloc call which produced ptr. Callers that recompute
// the pair at teardown must do so deterministically from immutable inputs.
type Allocator interface {
	// Alloc returns a block of at least size bytes whose address is a
	// multiple of align. Align must be a power of two; zero is treated
	// as one. A zero size is clamped to one byte so the returned pointer
	// is always valid and unique.
	Alloc(size, align uintptr) (unsafe.Pointer, error)

	// Free releases a block previously returned by Alloc on the same
	// allocator. Freeing a pointer twice, or with a mismatched size or
	// align, is a caller error.
	Free(ptr unsafe.Pointer, size, align uintptr)
}

// Dropper is optionally implemented by header values that need cleanup.
// Page.Destroy invokes Drop on the header before releasing the block.
type Dropper interface {
	Drop()
}
