package alloc

import (
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/irrustible/pages/errors"
)

// Heap allocates aligned blocks from the Go heap.
//
// Go's allocator has no aligned-allocation entry point, so each block is an
// over-sized byte slice whose base address is rounded up to the requested
// alignment. The slice is retained in a table keyed by the aligned pointer;
// without that the garbage collector would be free to reclaim the backing
// array while raw pointers into it are still live. Free drops the entry.
type Heap struct {
	blocks map[unsafe.Pointer]block
	mu     sync.Mutex
	limit  uintptr
	used   uintptr
}

type block struct {
	backing []byte
	size    uintptr
	align   uintptr
}

// NewHeap creates an unbounded heap allocator.
func NewHeap() *Heap {
	return &Heap{blocks: make(map[unsafe.Pointer]block)}
}

// NewLimitedHeap creates a heap allocator that fails allocations once more
// than limit bytes are in flight. Useful for tests and for callers that want
// a recoverable out-of-memory signal instead of the runtime's abort.
func NewLimitedHeap(limit uintptr) *Heap {
	return &Heap{blocks: make(map[unsafe.Pointer]block), limit: limit}
}

// Global is the shared default allocator.
var Global = NewHeap()

// Alloc returns a block of at least size bytes aligned to align.
func (h *Heap) Alloc(size, align uintptr) (unsafe.Pointer, error) {
	if align == 0 {
		align = 1
	}
	if align&(align-1) != 0 {
		return nil, errors.InvalidAlign(align)
	}
	if size == 0 {
		// A zero-size request is not meaningful to every allocator;
		// clamp so the caller always gets a valid, unique pointer.
		size = 1
	}

	raw := size + align - 1
	if raw < size {
		return nil, errors.AllocationFailed(size, align)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.limit != 0 && h.used+size > h.limit {
		return nil, errors.AllocationFailed(size, align)
	}

	backing := make([]byte, raw)
	base := uintptr(unsafe.Pointer(&backing[0]))
	aligned := (base + align - 1) &^ (align - 1)
	ptr := unsafe.Pointer(&backing[aligned-base])

	h.blocks[ptr] = block{backing: backing, size: size, align: align}
	h.used += size
	return ptr, nil
}

// Free releases a block returned by Alloc. The (size, align) pair must match
// the allocation. Mismatches and unknown pointers are logged and otherwise
// ignored; the caller's contract has already been broken at that point.
func (h *Heap) Free(ptr unsafe.Pointer, size, align uintptr) {
	if ptr == nil {
		return
	}
	if align == 0 {
		align = 1
	}
	if size == 0 {
		size = 1
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	b, ok := h.blocks[ptr]
	if !ok {
		Logger().Warn("Free: pointer was not allocated by this heap",
			zap.Uintptr("ptr", uintptr(ptr)),
			zap.Uintptr("size", size),
			zap.Uintptr("align", align))
		return
	}
	if b.size != size || b.align != align {
		Logger().Warn("Free: layout does not match allocation",
			zap.Uintptr("ptr", uintptr(ptr)),
			zap.Uintptr("size", size),
			zap.Uintptr("align", align),
			zap.Uintptr("allocated_size", b.size),
			zap.Uintptr("allocated_align", b.align))
	}

	delete(h.blocks, ptr)
	h.used -= b.size
}

// Live returns the number of blocks currently allocated and not freed.
func (h *Heap) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.blocks)
}

// LiveBytes returns the total requested bytes currently in flight.
func (h *Heap) LiveBytes() uintptr {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.used
}
