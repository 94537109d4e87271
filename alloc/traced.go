package alloc

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/irrustible/pages"
	"github.com/irrustible/pages/track"
)

// Traced wraps an Allocator and records every live block in a
// track.Registry. Observers subscribed to the registry see one
// EventAllocated per successful Alloc and one EventFreed per Free; a
// nonzero Registry.Len at teardown is a leak, a Free of an untracked
// pointer is a double free or a stray pointer.
type Traced struct {
	inner    pages.Allocator
	registry *track.Registry
}

// NewTraced wraps inner, recording blocks in registry. A nil registry gets
// a fresh one.
func NewTraced(inner pages.Allocator, registry *track.Registry) *Traced {
	if registry == nil {
		registry = track.NewRegistry()
	}
	return &Traced{inner: inner, registry: registry}
}

// Registry returns the registry blocks are recorded in.
func (t *Traced) Registry() *track.Registry {
	return t.registry
}

// Alloc forwards to the inner allocator and records the block.
func (t *Traced) Alloc(size, align uintptr) (unsafe.Pointer, error) {
	ptr, err := t.inner.Alloc(size, align)
	if err != nil {
		return nil, err
	}
	t.registry.Insert(track.Block{Base: ptr, Size: size, Align: align})
	return ptr, nil
}

// Free removes the block from the registry and forwards to the inner
// allocator. Frees of pointers the registry does not know are logged and
// forwarded anyway so the inner allocator can apply its own diagnostics.
func (t *Traced) Free(ptr unsafe.Pointer, size, align uintptr) {
	if ptr == nil {
		return
	}
	if h, ok := t.registry.Lookup(ptr); ok {
		t.registry.Remove(h)
	} else {
		Logger().Warn("Free: pointer not present in registry",
			zap.Uintptr("ptr", uintptr(ptr)),
			zap.Uintptr("size", size),
			zap.Uintptr("align", align))
	}
	t.inner.Free(ptr, size, align)
}
