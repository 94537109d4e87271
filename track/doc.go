// Package track provides a registry of live allocations with lifecycle
// observers.
//
// The registry maps integer handles to block records:
//
//	reg := track.NewRegistry()
//
//	// Record a live block, get a handle
//	handle := reg.Insert(track.Block{Base: ptr, Size: size, Align: align})
//
//	// Drop it at free time
//	block, ok := reg.Remove(handle)
//
// A Remove that reports false is a double free; a nonzero Len at the end of
// a test is a leak. That makes the registry the natural assertion point for
// "exactly one allocation, exactly one matching deallocation" properties,
// which is how the alloc package's Traced wrapper and the page tests use it.
//
// # Observers
//
// Register observers to be notified of lifecycle events:
//
//	reg.Subscribe(track.NewLogObserver(logger))
//
// Observers are called synchronously after the registry's own bookkeeping.
package track
