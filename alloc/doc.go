// Package alloc provides the raw block allocators behind pages.
//
// Heap is the real allocator: aligned blocks carved from over-sized byte
// slices, retained in a table so the garbage collector keeps them alive
// until Free. Global is the shared default instance.
//
// Two wrappers compose around any Allocator:
//
//   - Counting adds atomic call and byte counters, the cheap way for tests
//     to assert "one allocation, one deallocation".
//   - Traced records every live block in a track.Registry, which gives leak
//     and double-free detection plus lifecycle observers.
//
// Wrappers nest in the obvious way:
//
//	a := alloc.NewCounting(alloc.NewTraced(alloc.Global, nil))
//
// The package logger (zap, no-op by default) reports contract violations
// seen at Free time such as unknown pointers or mismatched layouts. These
// are diagnostics, not recovery: by the time they fire the caller has
// already broken the allocate-once/free-once-with-identical-layout contract.
package alloc
