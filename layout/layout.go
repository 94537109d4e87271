package layout

import (
	"reflect"
	"unsafe"

	"github.com/irrustible/pages/errors"
)

// Layout describes the shape of a memory region: its size in bytes and its
// required alignment. Align is always a power of two for layouts derived
// from Go types.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// Of derives the layout of a Go type.
func Of[T any]() Layout {
	var zero T
	align := unsafe.Alignof(zero)
	if align == 0 {
		align = 1
	}
	return Layout{Size: unsafe.Sizeof(zero), Align: align}
}

// PadToAlign rounds Size up to the next multiple of Align, as required by
// allocators that validate size/align pairs jointly.
func (l Layout) PadToAlign() Layout {
	return Layout{Size: AlignTo(l.Size, l.Align), Align: l.Align}
}

// AlignTo rounds offset up to the next multiple of align. Align must be a
// power of two; zero is treated as no alignment.
func AlignTo(offset, align uintptr) uintptr {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

func safeMul(a, b uintptr) (uintptr, bool) {
	if b != 0 && a > ^uintptr(0)/b {
		return 0, false
	}
	return a * b, true
}

func safeAdd(a, b uintptr) (uintptr, bool) {
	if a > ^uintptr(0)-b {
		return 0, false
	}
	return a + b, true
}

// alignToChecked is AlignTo with overflow detection on the round-up.
func alignToChecked(offset, align uintptr) (uintptr, bool) {
	if align == 0 {
		return offset, true
	}
	sum, ok := safeAdd(offset, align-1)
	if !ok {
		return 0, false
	}
	return sum &^ (align - 1), true
}

// ArrayOf derives the layout of n contiguous elements of a Go type. It fails
// with an overflow error rather than wrapping; a wrapped size would describe
// an undersized block.
func ArrayOf[T any](n int) (Layout, error) {
	if n < 0 {
		return Layout{}, errors.InvalidLength(n)
	}
	elem := Of[T]()
	size, ok := safeMul(elem.Size, uintptr(n))
	if !ok {
		return Layout{}, errors.CapacityOverflow(reflect.TypeOf((*T)(nil)).Elem().String(), n, elem.Size)
	}
	return Layout{Size: size, Align: elem.Align}, nil
}

// Extend appends next after l, padding so next starts at a multiple of its
// alignment. It returns the combined layout and the byte offset at which
// next begins. The combined alignment is the max of the two.
func Extend(l, next Layout) (Layout, uintptr, error) {
	offset, ok := alignToChecked(l.Size, next.Align)
	if !ok {
		return Layout{}, 0, errors.New(errors.PhaseLayout, errors.KindOverflow).
			Detail("padding to alignment %d overflows", next.Align).
			Build()
	}
	size, ok := safeAdd(offset, next.Size)
	if !ok {
		return Layout{}, 0, errors.New(errors.PhaseLayout, errors.KindOverflow).
			Detail("combined size overflows the address space").
			Build()
	}
	align := l.Align
	if next.Align > align {
		align = next.Align
	}
	return Layout{Size: size, Align: align}, offset, nil
}

// PageLayout describes a combined header+data block: the total allocation
// size and alignment, and the byte offset at which the data array begins.
//
// The same inputs always produce the same PageLayout. Everything downstream
// leans on that: the deallocation at teardown recomputes this value from the
// page's immutable length and must reproduce the allocation-time numbers
// bit for bit.
type PageLayout struct {
	Size       uintptr
	Align      uintptr
	DataOffset uintptr
}

// Layout returns the (size, align) pair to hand to an allocator.
func (p PageLayout) Layout() Layout {
	return Layout{Size: p.Size, Align: p.Align}
}

// Padding returns the number of padding bytes between the header and the
// first data element.
func (p PageLayout) Padding(headerSize uintptr) uintptr {
	return p.DataOffset - headerSize
}

// ForPage computes the layout of a block holding one H followed by length
// contiguous T slots. The header occupies [0, sizeof(H)); padding brings the
// data region up to a multiple of T's alignment; the total size is padded to
// a multiple of the combined alignment.
func ForPage[H, T any](length int) (PageLayout, error) {
	header := Of[H]()
	array, err := ArrayOf[T](length)
	if err != nil {
		return PageLayout{}, err
	}
	combined, offset, err := Extend(header, array)
	if err != nil {
		return PageLayout{}, err
	}
	combined = combined.PadToAlign()
	return PageLayout{Size: combined.Size, Align: combined.Align, DataOffset: offset}, nil
}

// Compute is the untyped form of ForPage for callers that only know sizes
// and alignments at runtime, such as the layout inspector CLI. Unlike
// layouts derived from Go types, runtime alignments need validating.
func Compute(header, elem Layout, length int) (PageLayout, error) {
	if length < 0 {
		return PageLayout{}, errors.InvalidLength(length)
	}
	for _, align := range []uintptr{header.Align, elem.Align} {
		if align&(align-1) != 0 {
			return PageLayout{}, errors.InvalidAlign(align)
		}
	}
	arraySize, ok := safeMul(elem.Size, uintptr(length))
	if !ok {
		return PageLayout{}, errors.CapacityOverflow("", length, elem.Size)
	}
	combined, offset, err := Extend(header, Layout{Size: arraySize, Align: elem.Align})
	if err != nil {
		return PageLayout{}, err
	}
	combined = combined.PadToAlign()
	return PageLayout{Size: combined.Size, Align: combined.Align, DataOffset: offset}, nil
}
