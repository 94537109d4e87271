// Package page implements the combined header+data page handle.
//
// A Page[H, T] packs one H value and a fixed-length array of raw T slots
// into a single heap block, replacing the usual pair of allocations for
// "metadata plus payload". The header is always live; the slots are caller
// managed storage the page never interprets.
//
// # Construction and teardown
//
//	p, err := page.New[bool, int](false, 8)
//	if err != nil {
//	    // errors.IsOverflow / errors.IsOutOfMemory distinguish the causes
//	}
//	defer p.Destroy()
//
// Destroy releases the block using a layout recomputed from the page's
// immutable length, which is guaranteed to equal the allocation-time layout.
//
// # Occupancy
//
// The page does not know which slots hold live values. The standard pattern
// is to encode occupancy in the header, as in the Maybe example under
// examples/basic: a bool header gates a single slot, turning Page[bool, V]
// into a heap-backed optional.
//
// # Restrictions
//
// H and T must be pointer-free types (no Go pointers, maps, slices, strings,
// chans, funcs or interfaces anywhere inside them): the block is invisible
// to the garbage collector's pointer scan, so a reference stored there would
// not keep its target alive. Construction rejects offending types.
package page
