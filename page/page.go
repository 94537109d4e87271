package page

import (
	"fmt"
	"unsafe"

	"github.com/irrustible/pages"
	"github.com/irrustible/pages/alloc"
	"github.com/irrustible/pages/layout"
)

// Page is an owned, heap-backed data page: a header value of type H and
// length raw T slots packed into a single allocation. H sits at offset zero,
// the slots start at the first suitably aligned offset after it.
//
// A Page owns its block exclusively. Destroy releases it exactly once; the
// handle is inert afterwards. The page never touches slot contents, so any
// live values left in slots at Destroy are simply abandoned (see Slot).
type Page[H, T any] struct {
	base   unsafe.Pointer
	alloc  pages.Allocator
	length int
}

// New creates a page on the Global allocator holding header and capacity
// for length data slots. Slots start out with unspecified contents.
func New[H, T any](header H, length int) (*Page[H, T], error) {
	return NewIn[H, T](alloc.Global, header, length)
}

// NewIn is New on an explicit allocator. The page remembers the allocator
// and releases its block there at Destroy.
//
// Construction either completes fully or fails without allocating: layout
// overflow and allocator failure both surface before any state exists.
func NewIn[H, T any](a pages.Allocator, header H, length int) (*Page[H, T], error) {
	if err := checkPointerFree[H, T](); err != nil {
		return nil, err
	}
	pl, err := layout.ForPage[H, T](length)
	if err != nil {
		return nil, err
	}
	base, err := a.Alloc(pl.Size, pl.Align)
	if err != nil {
		return nil, err
	}
	*(*H)(base) = header
	return &Page[H, T]{base: base, alloc: a, length: length}, nil
}

// Header returns a pointer to the header value for in-place reads and
// mutation. The pointer is valid until Destroy.
func (p *Page[H, T]) Header() *H {
	p.mustLive()
	return (*H)(p.base)
}

// SetHeader replaces the header value.
func (p *Page[H, T]) SetHeader(h H) {
	p.mustLive()
	*(*H)(p.base) = h
}

// Len returns the page's slot count, fixed at construction.
func (p *Page[H, T]) Len() int {
	return p.length
}

// Data returns the data region as a slice of raw slots. The slice is a view,
// not a copy: writes through it land in the page. It is valid until Destroy.
// A zero-length page yields an empty slice.
func (p *Page[H, T]) Data() []Slot[T] {
	p.mustLive()
	if p.length == 0 {
		return nil
	}
	return unsafe.Slice(p.dataPtr(), p.length)
}

// Layout returns the layout describing this page's block. It is recomputed
// from the immutable length, never cached, so it is always the layout the
// block was allocated with.
func (p *Page[H, T]) Layout() layout.PageLayout {
	return pageLayout[H, T](p.length)
}

// Destroy drops the header (via pages.Dropper if H implements it) and
// releases the block with the identical layout used at allocation. The
// handle is inert afterwards; a second Destroy is a no-op.
func (p *Page[H, T]) Destroy() {
	if p.base == nil {
		return
	}
	if d, ok := any((*H)(p.base)).(pages.Dropper); ok {
		d.Drop()
	}
	pl := pageLayout[H, T](p.length)
	p.alloc.Free(p.base, pl.Size, pl.Align)
	p.base = nil
}

// Leak disowns the block and returns a raw Ref to it. The page becomes
// inert without freeing anything; the caller is now responsible for the
// block, typically by handing the Ref back to Adopt later.
func (p *Page[H, T]) Leak() Ref[H, T] {
	p.mustLive()
	r := Ref[H, T]{base: p.base, length: p.length}
	p.base = nil
	return r
}

// Adopt reconstitutes an owning Page from a leaked Ref. The allocator must
// be the one the block was allocated on. The caller promises there is at
// most one owner per block.
func Adopt[H, T any](a pages.Allocator, r Ref[H, T]) *Page[H, T] {
	return &Page[H, T]{base: r.base, alloc: a, length: r.length}
}

// String implements fmt.Stringer.
func (p *Page[H, T]) String() string {
	return fmt.Sprintf("Page[%d]", p.length)
}

func (p *Page[H, T]) dataPtr() *Slot[T] {
	pl := pageLayout[H, T](p.length)
	return (*Slot[T])(unsafe.Add(p.base, pl.DataOffset))
}

func (p *Page[H, T]) mustLive() {
	if p.base == nil {
		panic("page: use after Destroy or Leak")
	}
}

// pageLayout recomputes a page's layout from its length. It cannot fail:
// the identical computation succeeded at construction.
func pageLayout[H, T any](length int) layout.PageLayout {
	pl, err := layout.ForPage[H, T](length)
	if err != nil {
		panic(fmt.Sprintf("page: layout no longer computable for length %d: %v", length, err))
	}
	return pl
}
