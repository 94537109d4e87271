package page

// Slot is one raw storage cell sized and aligned for a single T. The page
// treats slots as opaque bytes: a slot may hold a live T or leftover garbage,
// and nothing in the library tracks which. Calling Get is the caller's
// assertion that the slot was previously Set.
//
// A Slot has the identical size and alignment as T itself, so a []Slot[T]
// view over the data region is exactly an array of T-shaped cells.
type Slot[T any] struct {
	value T
}

// Set writes a value into the slot.
func (s *Slot[T]) Set(v T) {
	s.value = v
}

// Get reads the slot as a T. Meaningful only if the slot was Set (or the
// caller otherwise knows the bytes hold a valid T).
func (s *Slot[T]) Get() T {
	return s.value
}

// Ptr returns a pointer to the slot's storage for in-place access.
func (s *Slot[T]) Ptr() *T {
	return &s.value
}
