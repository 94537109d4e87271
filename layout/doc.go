// Package layout computes the size, alignment and data offset of combined
// header+data blocks.
//
// It is pure math: no allocation happens here. Keeping the computation
// separate from the allocator lets it be unit-tested exhaustively and, more
// importantly, re-run at deallocation time with a guarantee that it yields
// the same numbers it yielded at allocation time.
//
// All size arithmetic is overflow-checked. A length large enough to wrap
// uintptr produces an overflow error instead of a short block.
package layout
