package page

import (
	"math"
	"sync/atomic"
	"testing"
	"unsafe"

	"github.com/irrustible/pages"
	"github.com/irrustible/pages/alloc"
	"github.com/irrustible/pages/errors"
	"github.com/irrustible/pages/layout"
)

// recordingAllocator captures the exact (size, align) pair of every call.
type recordingAllocator struct {
	inner  pages.Allocator
	allocs []callRecord
	frees  []callRecord
}

type callRecord struct {
	size  uintptr
	align uintptr
}

func newRecording() *recordingAllocator {
	return &recordingAllocator{inner: alloc.NewHeap()}
}

func (r *recordingAllocator) Alloc(size, align uintptr) (unsafe.Pointer, error) {
	ptr, err := r.inner.Alloc(size, align)
	if err != nil {
		return nil, err
	}
	r.allocs = append(r.allocs, callRecord{size, align})
	return ptr, nil
}

func (r *recordingAllocator) Free(ptr unsafe.Pointer, size, align uintptr) {
	r.frees = append(r.frees, callRecord{size, align})
	r.inner.Free(ptr, size, align)
}

func TestPage_MaybeScenario(t *testing.T) {
	// A really crappy replacement for *int: bool occupancy header, one
	// int slot.
	p, err := New[bool, int](false, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Destroy()

	if *p.Header() {
		t.Fatal("fresh page should read header false")
	}

	p.Data()[0].Set(42)
	p.SetHeader(true)

	if !*p.Header() {
		t.Fatal("header write not visible")
	}
	if got := p.Data()[0].Get(); got != 42 {
		t.Fatalf("slot 0: got %d, want 42", got)
	}

	// Logically free the slot; the page itself reads nothing further.
	p.SetHeader(false)
	if *p.Header() {
		t.Fatal("header write not visible")
	}
}

func TestPage_ZeroLength(t *testing.T) {
	a := alloc.NewCounting(alloc.NewHeap())
	p, err := NewIn[uint64, int](a, 7, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if p.Len() != 0 {
		t.Errorf("Len: got %d, want 0", p.Len())
	}
	if len(p.Data()) != 0 {
		t.Errorf("Data: got %d slots, want 0", len(p.Data()))
	}
	if *p.Header() != 7 {
		t.Errorf("header: got %d, want 7", *p.Header())
	}
	*p.Header() = 9
	if *p.Header() != 9 {
		t.Error("header mutation not visible")
	}

	p.Destroy()
	s := a.Stats()
	if s.Allocs != 1 || s.Frees != 1 || s.InFlight != 0 {
		t.Errorf("expected balanced 1/1 calls, got %+v", s)
	}
}

func TestPage_SlotRoundTrip(t *testing.T) {
	const n = 64
	p, err := New[uint32, uint64](0xabc, n)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Destroy()

	data := p.Data()
	if len(data) != n {
		t.Fatalf("Data len: got %d, want %d", len(data), n)
	}
	for i := range data {
		data[i].Set(uint64(i) * 3)
	}
	for i := range data {
		if got := data[i].Get(); got != uint64(i)*3 {
			t.Fatalf("slot %d: got %d, want %d", i, got, uint64(i)*3)
		}
	}

	// Writing slots must not disturb the header and vice versa.
	if *p.Header() != 0xabc {
		t.Fatalf("header clobbered: %#x", *p.Header())
	}
	p.SetHeader(0xdef)
	if got := data[0].Get(); got != 0 {
		t.Fatalf("slot 0 clobbered by header write: %d", got)
	}
}

func TestPage_ViewIsNotACopy(t *testing.T) {
	p, err := New[byte, uint16](0, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Destroy()

	p.Data()[2].Set(777)
	if got := p.Data()[2].Get(); got != 777 {
		t.Fatalf("write through one view not visible through another: %d", got)
	}

	ptr := p.Data()[2].Ptr()
	*ptr = 888
	if got := p.Data()[2].Get(); got != 888 {
		t.Fatalf("write through Ptr not visible: %d", got)
	}
}

func TestPage_DestroyUsesAllocationLayout(t *testing.T) {
	rec := newRecording()

	p, err := NewIn[bool, uint64](rec, true, 13)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.Destroy()

	if len(rec.allocs) != 1 {
		t.Fatalf("allocs: got %d, want 1", len(rec.allocs))
	}
	if len(rec.frees) != 1 {
		t.Fatalf("frees: got %d, want 1", len(rec.frees))
	}
	if rec.allocs[0] != rec.frees[0] {
		t.Fatalf("free layout %+v differs from alloc layout %+v", rec.frees[0], rec.allocs[0])
	}

	want, err := layout.ForPage[bool, uint64](13)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if rec.allocs[0].size != want.Size || rec.allocs[0].align != want.Align {
		t.Fatalf("alloc used %+v, layout says (%d, %d)", rec.allocs[0], want.Size, want.Align)
	}
}

func TestPage_DestroyIdempotentGuard(t *testing.T) {
	rec := newRecording()
	p, err := NewIn[bool, int](rec, false, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	p.Destroy()
	p.Destroy() // guarded no-op

	if len(rec.frees) != 1 {
		t.Fatalf("frees: got %d, want 1", len(rec.frees))
	}
}

func TestPage_UseAfterDestroyPanics(t *testing.T) {
	p, err := New[bool, int](false, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.Destroy()

	assertPanics := func(name string, fn func()) {
		defer func() {
			if recover() == nil {
				t.Errorf("%s on destroyed page did not panic", name)
			}
		}()
		fn()
	}
	assertPanics("Header", func() { _ = p.Header() })
	assertPanics("SetHeader", func() { p.SetHeader(true) })
	assertPanics("Data", func() { _ = p.Data() })
}

func TestPage_Overflow(t *testing.T) {
	a := alloc.NewCounting(alloc.NewHeap())

	_, err := NewIn[bool, uint64](a, false, math.MaxInt)
	if err == nil {
		t.Fatal("expected overflow error")
	}
	if !errors.IsOverflow(err) {
		t.Fatalf("expected overflow kind, got %v", err)
	}
	if s := a.Stats(); s.Allocs != 0 {
		t.Fatalf("overflowing construction allocated: %+v", s)
	}
}

func TestPage_OutOfMemory(t *testing.T) {
	a := alloc.NewCounting(alloc.NewLimitedHeap(64))

	_, err := NewIn[bool, uint64](a, false, 1000)
	if err == nil {
		t.Fatal("expected out-of-memory error")
	}
	if !errors.IsOutOfMemory(err) {
		t.Fatalf("expected allocation kind, got %v", err)
	}
	if s := a.Stats(); s.Allocs != 0 || s.InFlight != 0 {
		t.Fatalf("failed construction leaked state: %+v", s)
	}
}

func TestPage_NegativeLength(t *testing.T) {
	_, err := New[bool, int](false, -1)
	if err == nil {
		t.Fatal("expected error for negative length")
	}
}

func TestPage_PointerfulTypesRejected(t *testing.T) {
	t.Run("pointer_header", func(t *testing.T) {
		if _, err := New[*int, int](nil, 1); err == nil {
			t.Fatal("expected rejection of pointer header type")
		}
	})
	t.Run("string_data", func(t *testing.T) {
		if _, err := New[bool, string](false, 1); err == nil {
			t.Fatal("expected rejection of string data type")
		}
	})
	t.Run("nested_slice", func(t *testing.T) {
		type bad struct {
			a uint64
			b [2]struct{ s []byte }
		}
		if _, err := New[bool, bad](false, 1); err == nil {
			t.Fatal("expected rejection of nested slice")
		}
	})
	t.Run("pointer_free_struct_ok", func(t *testing.T) {
		type good struct {
			a uint64
			b [4]byte
			c float32
		}
		p, err := New[good, good](good{}, 3)
		if err != nil {
			t.Fatalf("pointer-free struct rejected: %v", err)
		}
		p.Destroy()
	})
}

func TestPage_NoLeakNoDoubleFree(t *testing.T) {
	tr := alloc.NewTraced(alloc.NewHeap(), nil)

	small, err := NewIn[uint32, uint64](tr, 1, 0)
	if err != nil {
		t.Fatalf("New small: %v", err)
	}
	big, err := NewIn[uint32, uint64](tr, 2, 1000)
	if err != nil {
		t.Fatalf("New big: %v", err)
	}

	if tr.Registry().Len() != 2 {
		t.Fatalf("live blocks: got %d, want 2", tr.Registry().Len())
	}

	big.Data()[999].Set(1)
	small.Destroy()
	big.Destroy()

	if tr.Registry().Len() != 0 {
		t.Fatalf("leak: %d blocks still live", tr.Registry().Len())
	}
}

var dropCount atomic.Int32

type droppyHeader struct {
	id uint32
}

func (droppyHeader) Drop() { dropCount.Add(1) }

func TestPage_HeaderDropper(t *testing.T) {
	dropCount.Store(0)

	p, err := New[droppyHeader, int](droppyHeader{id: 1}, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if dropCount.Load() != 0 {
		t.Fatal("Drop ran before Destroy")
	}
	p.Destroy()
	if dropCount.Load() != 1 {
		t.Fatalf("Drop ran %d times, want 1", dropCount.Load())
	}
	p.Destroy()
	if dropCount.Load() != 1 {
		t.Fatalf("guarded second Destroy re-dropped: %d", dropCount.Load())
	}
}

func TestPage_LayoutAccessor(t *testing.T) {
	p, err := New[uint16, uint64](3, 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Destroy()

	want, err := layout.ForPage[uint16, uint64](5)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if p.Layout() != want {
		t.Fatalf("Layout: got %+v, want %+v", p.Layout(), want)
	}
}

func TestPage_String(t *testing.T) {
	p, err := New[bool, int](false, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Destroy()

	if got := p.String(); got != "Page[3]" {
		t.Errorf("String: got %q, want Page[3]", got)
	}
}

func TestSlot_ShapeMatchesElement(t *testing.T) {
	if unsafe.Sizeof(Slot[uint64]{}) != unsafe.Sizeof(uint64(0)) {
		t.Error("Slot[uint64] size differs from uint64")
	}
	if unsafe.Alignof(Slot[uint64]{}) != unsafe.Alignof(uint64(0)) {
		t.Error("Slot[uint64] align differs from uint64")
	}

	type odd struct {
		a byte
		b uint32
		c uint16
	}
	if unsafe.Sizeof(Slot[odd]{}) != unsafe.Sizeof(odd{}) {
		t.Error("Slot[odd] size differs from odd")
	}
	if unsafe.Alignof(Slot[odd]{}) != unsafe.Alignof(odd{}) {
		t.Error("Slot[odd] align differs from odd")
	}
}

func TestPage_DataRegionWithinBlock(t *testing.T) {
	p, err := New[byte, uint64](1, 8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Destroy()

	pl := p.Layout()
	data := p.Data()
	first := uintptr(unsafe.Pointer(&data[0]))
	last := uintptr(unsafe.Pointer(&data[len(data)-1])) + unsafe.Sizeof(uint64(0))

	base := uintptr(unsafe.Pointer(p.Header()))
	if first != base+pl.DataOffset {
		t.Errorf("data starts at base+%d, layout says %d", first-base, pl.DataOffset)
	}
	if last > base+pl.Size {
		t.Errorf("data region ends %d bytes past the block", last-(base+pl.Size))
	}
	if first%unsafe.Alignof(uint64(0)) != 0 {
		t.Errorf("first slot misaligned at %#x", first)
	}
}
