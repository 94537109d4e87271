package alloc

import (
	"sync/atomic"
	"unsafe"

	"github.com/irrustible/pages"
)

// Stats is a snapshot of a Counting allocator's activity.
type Stats struct {
	Allocs         uint64
	Frees          uint64
	BytesAllocated uint64
	BytesFreed     uint64
	InFlight       int64
}

// Counting wraps an Allocator and counts calls and bytes. Counters are
// atomic, so a Counting allocator can be shared the same way its inner
// allocator can.
type Counting struct {
	inner          pages.Allocator
	allocs         atomic.Uint64
	frees          atomic.Uint64
	bytesAllocated atomic.Uint64
	bytesFreed     atomic.Uint64
	inFlight       atomic.Int64
}

// NewCounting wraps inner with call counting.
func NewCounting(inner pages.Allocator) *Counting {
	return &Counting{inner: inner}
}

// Alloc forwards to the inner allocator, counting only successful calls.
func (c *Counting) Alloc(size, align uintptr) (unsafe.Pointer, error) {
	ptr, err := c.inner.Alloc(size, align)
	if err != nil {
		return nil, err
	}
	c.allocs.Add(1)
	c.bytesAllocated.Add(uint64(size))
	c.inFlight.Add(1)
	return ptr, nil
}

// Free forwards to the inner allocator.
func (c *Counting) Free(ptr unsafe.Pointer, size, align uintptr) {
	if ptr == nil {
		return
	}
	c.inner.Free(ptr, size, align)
	c.frees.Add(1)
	c.bytesFreed.Add(uint64(size))
	c.inFlight.Add(-1)
}

// Stats returns a snapshot of the counters.
func (c *Counting) Stats() Stats {
	return Stats{
		Allocs:         c.allocs.Load(),
		Frees:          c.frees.Load(),
		BytesAllocated: c.bytesAllocated.Load(),
		BytesFreed:     c.bytesFreed.Load(),
		InFlight:       c.inFlight.Load(),
	}
}
