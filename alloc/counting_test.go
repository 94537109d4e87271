package alloc

import (
	"testing"

	"github.com/irrustible/pages/track"
)

func TestCounting(t *testing.T) {
	c := NewCounting(NewHeap())

	a, err := c.Alloc(64, 8)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	b, err := c.Alloc(32, 8)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}

	s := c.Stats()
	if s.Allocs != 2 || s.Frees != 0 {
		t.Fatalf("stats after allocs: %+v", s)
	}
	if s.BytesAllocated != 96 {
		t.Fatalf("bytes allocated: got %d, want 96", s.BytesAllocated)
	}
	if s.InFlight != 2 {
		t.Fatalf("in flight: got %d, want 2", s.InFlight)
	}

	c.Free(a, 64, 8)
	c.Free(b, 32, 8)

	s = c.Stats()
	if s.Allocs != 2 || s.Frees != 2 {
		t.Fatalf("stats after frees: %+v", s)
	}
	if s.BytesAllocated != s.BytesFreed {
		t.Fatalf("byte counters unbalanced: %+v", s)
	}
	if s.InFlight != 0 {
		t.Fatalf("in flight: got %d, want 0", s.InFlight)
	}
}

func TestCounting_FailedAllocNotCounted(t *testing.T) {
	c := NewCounting(NewLimitedHeap(16))

	if _, err := c.Alloc(64, 8); err == nil {
		t.Fatal("expected out-of-memory error")
	}
	if s := c.Stats(); s.Allocs != 0 {
		t.Fatalf("failed alloc counted: %+v", s)
	}
}

func TestTraced(t *testing.T) {
	tr := NewTraced(NewHeap(), nil)
	reg := tr.Registry()

	a, err := tr.Alloc(64, 8)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("registry len: got %d, want 1", reg.Len())
	}

	h, ok := reg.Lookup(a)
	if !ok {
		t.Fatal("block not in registry")
	}
	b, _ := reg.Get(h)
	if b.Size != 64 || b.Align != 8 {
		t.Fatalf("recorded layout: got (%d, %d), want (64, 8)", b.Size, b.Align)
	}

	tr.Free(a, 64, 8)
	if reg.Len() != 0 {
		t.Fatalf("registry len after free: got %d, want 0", reg.Len())
	}

	// Double free is visible to the registry observer path but must not
	// grow state or panic.
	tr.Free(a, 64, 8)
	if reg.Len() != 0 {
		t.Fatalf("registry len after double free: got %d", reg.Len())
	}
}

func TestTraced_SharedRegistry(t *testing.T) {
	reg := track.NewRegistry()
	obs := &countingObserver{}
	reg.Subscribe(obs)

	tr := NewTraced(NewHeap(), reg)
	a, err := tr.Alloc(16, 8)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	tr.Free(a, 16, 8)

	if obs.allocated != 1 || obs.freed != 1 {
		t.Fatalf("observer saw %d/%d events, want 1/1", obs.allocated, obs.freed)
	}
}

type countingObserver struct {
	allocated, freed int
}

func (o *countingObserver) OnBlockEvent(ev track.Event) {
	switch ev.Type {
	case track.EventAllocated:
		o.allocated++
	case track.EventFreed:
		o.freed++
	}
}
