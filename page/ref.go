package page

import (
	"fmt"
	"unsafe"

	"github.com/irrustible/pages/layout"
)

// Ref is a raw, non-owning handle to a page's block. Refs are plain values:
// copyable, comparable, and carrying no destructor. They exist so a page can
// be threaded through structures that cannot hold an owner, such as
// intrusive free lists, and then re-owned with Adopt.
//
// All access through a Ref requires that the block is still live and that
// the caller synchronizes reads and writes; nothing here checks either.
type Ref[H, T any] struct {
	base   unsafe.Pointer
	length int
}

// Header returns a pointer to the header value.
func (r Ref[H, T]) Header() *H {
	return (*H)(r.base)
}

// Len returns the slot count of the referenced page.
func (r Ref[H, T]) Len() int {
	return r.length
}

// Data returns the data region as a slice of raw slots.
func (r Ref[H, T]) Data() []Slot[T] {
	if r.length == 0 {
		return nil
	}
	pl := pageLayout[H, T](r.length)
	return unsafe.Slice((*Slot[T])(unsafe.Add(r.base, pl.DataOffset)), r.length)
}

// Layout returns the layout of the referenced block.
func (r Ref[H, T]) Layout() layout.PageLayout {
	return pageLayout[H, T](r.length)
}

// String implements fmt.Stringer.
func (r Ref[H, T]) String() string {
	return fmt.Sprintf("Ref[%d]", r.length)
}
