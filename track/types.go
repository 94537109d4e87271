package track

import "unsafe"

// Handle is an opaque reference to a live block in a registry.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Block records where a tracked allocation lives and the layout it was
// allocated with. The pair recorded here is what a correct teardown must
// reproduce.
type Block struct {
	Base  unsafe.Pointer
	Size  uintptr
	Align uintptr
}

// Event types for block lifecycle notifications.
type EventType uint8

const (
	EventAllocated EventType = iota
	EventFreed
)

// Event represents a block lifecycle event.
type Event struct {
	Block  Block
	Handle Handle
	Type   EventType
}

// Observer receives notifications about block lifecycle events.
type Observer interface {
	OnBlockEvent(Event)
}
