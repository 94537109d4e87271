package track

import (
	"sync"
	"unsafe"
)

// Registry is an in-memory table of live blocks with observer support.
// Handles are recycled through a free list after removal.
type Registry struct {
	entries   []entry
	freeList  []Handle
	byBase    map[unsafe.Pointer]Handle
	observers []Observer
	mu        sync.RWMutex
	closed    bool
}

type entry struct {
	block Block
	valid bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
		byBase:   make(map[unsafe.Pointer]Handle),
	}
}

// Insert records a live block and returns its handle.
// Returns 0 if the registry is closed.
func (r *Registry) Insert(b Block) Handle {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0
	}

	e := entry{block: b, valid: true}
	var handle Handle
	if len(r.freeList) > 0 {
		handle = r.freeList[len(r.freeList)-1]
		r.freeList = r.freeList[:len(r.freeList)-1]
		r.entries[handle-1] = e
	} else {
		r.entries = append(r.entries, e)
		handle = Handle(len(r.entries))
	}
	r.byBase[b.Base] = handle
	r.mu.Unlock()

	r.notify(Event{Type: EventAllocated, Handle: handle, Block: b})
	return handle
}

// Get retrieves a block by handle.
func (r *Registry) Get(handle Handle) (Block, bool) {
	if handle == 0 {
		return Block{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := handle - 1
	if int(idx) >= len(r.entries) {
		return Block{}, false
	}
	e := r.entries[idx]
	if !e.valid {
		return Block{}, false
	}
	return e.block, true
}

// Lookup finds the handle for a block by its base pointer.
func (r *Registry) Lookup(base unsafe.Pointer) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byBase[base]
	return h, ok
}

// Remove drops a block from the registry and returns (block, true) if it was
// present. A second Remove of the same handle reports false, which is what
// lets tests catch double frees.
func (r *Registry) Remove(handle Handle) (Block, bool) {
	if handle == 0 {
		return Block{}, false
	}

	r.mu.Lock()
	idx := handle - 1
	if int(idx) >= len(r.entries) {
		r.mu.Unlock()
		return Block{}, false
	}
	e := &r.entries[idx]
	if !e.valid {
		r.mu.Unlock()
		return Block{}, false
	}

	b := e.block
	e.valid = false
	e.block = Block{}
	delete(r.byBase, b.Base)
	r.freeList = append(r.freeList, handle)
	r.mu.Unlock()

	r.notify(Event{Type: EventFreed, Handle: handle, Block: b})
	return b, true
}

// Subscribe adds an observer for lifecycle events.
func (r *Registry) Subscribe(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, o)
}

// Unsubscribe removes an observer.
func (r *Registry) Unsubscribe(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, obs := range r.observers {
		if obs == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live blocks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for i := range r.entries {
		if r.entries[i].valid {
			n++
		}
	}
	return n
}

// Each iterates over all live blocks. Return false to stop.
func (r *Registry) Each(fn func(Handle, Block) bool) {
	r.mu.RLock()
	type item struct {
		h Handle
		b Block
	}
	items := make([]item, 0, len(r.entries))
	for i := range r.entries {
		if r.entries[i].valid {
			items = append(items, item{Handle(i + 1), r.entries[i].block})
		}
	}
	r.mu.RUnlock()

	for _, it := range items {
		if !fn(it.h, it.b) {
			return
		}
	}
}

// Close empties the registry and stops accepting inserts. Blocks still live
// at Close are a leak from the registry's point of view; they are reported
// to observers as freed events so log-based observers see a full story.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true

	var leaked []Event
	for i := range r.entries {
		if r.entries[i].valid {
			leaked = append(leaked, Event{
				Type:   EventFreed,
				Handle: Handle(i + 1),
				Block:  r.entries[i].block,
			})
			r.entries[i].valid = false
		}
	}
	r.entries = nil
	r.freeList = nil
	r.byBase = nil
	r.mu.Unlock()

	for _, ev := range leaked {
		r.notify(ev)
	}
	return nil
}

func (r *Registry) notify(ev Event) {
	r.mu.RLock()
	observers := make([]Observer, len(r.observers))
	copy(observers, r.observers)
	r.mu.RUnlock()

	for _, o := range observers {
		o.OnBlockEvent(ev)
	}
}
