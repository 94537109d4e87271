// Package pages provides a dynamically-sized heap-backed data page: a
// user-chosen header value and a raw data array packed into one contiguous
// allocation.
//
// Containers that pair metadata with a payload array normally pay for two
// allocations and an extra pointer chase. A Page folds both into a single
// block: the header lives at the start, the data slots follow at a computed
// aligned offset.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	pages/           Root package with the core Allocator and Dropper interfaces
//	├── layout/      Pure size/align/offset computation for combined blocks
//	├── alloc/       Heap allocator plus counting and tracing wrappers
//	├── page/        The generic Page handle, raw storage slots, non-owning refs
//	├── track/       Live-block registry with lifecycle observers
//	└── errors/      Structured error types for debugging
//
// # Quick Start
//
// Build a clumsy replacement for *int using a boolean occupancy header and a
// single integer slot:
//
//	p, err := page.New[bool, int](false, 1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Destroy()
//
//	p.Data()[0].Set(42)
//	p.SetHeader(true) // occupied
//
//	if *p.Header() {
//	    fmt.Println(p.Data()[0].Get()) // 42
//	}
//
// # Data Slots
//
// Data is exposed as raw storage slots for maximum flexibility. The Page
// never reads, writes, or destroys slot contents on its own; whether a slot
// holds a live value is the caller's bookkeeping (the occupancy header above
// is the canonical pattern). Values left in slots at Destroy are not cleaned
// up.
//
// # Thread Safety
//
// A Page is a single-owner handle and is not internally synchronized. Share
// it across goroutines only with external synchronization.
//
// # Memory Model
//
// Every Page performs exactly one allocation at construction and exactly one
// deallocation at Destroy, both described by the identical layout. The layout
// is recomputed at teardown from the page's immutable length and the two
// types' compile-time shapes, never cached.
package pages
