// Package slab provides a stable-index arena for a single element type.
//
// It is the index-based counterpart of the teacher's pointer-based
// Recycled arena (pkg/arena/recycle.go): instead of threading a free list
// through raw bytes of recycled blocks, Slab threads it through a plain
// []uint32 of released indices, because every element here is the same
// size and indices (not pointers) are what radixkv's node graph stores.
// An index survives appends to the backing slice, which is the property
// the ART node graph's parent back-pointers depend on.
package slab

import "github.com/flier/radixkv/internal/xdebug"

// Invalid is the zero-valued index reserved to mean "no node" (e.g. a root
// with no children yet, or the unset parent of the root).
const Invalid uint32 = 0

// Slab is a stable-index arena over values of type T. The zero Slab is
// ready to use; index 0 is reserved and never handed out by Insert, so a
// zero index can double as a nil sentinel in graphs built atop the slab.
type Slab[T any] struct {
	items []T
	free  []uint32
	live  int
}

// New returns an empty Slab with capacity reserved for n elements.
func New[T any](n int) *Slab[T] {
	s := &Slab[T]{items: make([]T, 1, n+1)}
	return s
}

// Len reports the number of live (non-freed) elements.
func (s *Slab[T]) Len() int { return s.live }

// Cap reports the number of slots currently backing the slab, live or free.
func (s *Slab[T]) Cap() int { return len(s.items) }

// Get returns a pointer to the element at idx. idx must have been returned
// by Insert and not yet passed to Free.
func (s *Slab[T]) Get(idx uint32) *T {
	xdebug.Assert(idx != Invalid && int(idx) < len(s.items), "slab: index %d out of range", idx)

	return &s.items[idx]
}

// Insert stores v in the slab, reusing a freed slot when one is available,
// and returns its stable index.
func (s *Slab[T]) Insert(v T) uint32 {
	s.live++

	if n := len(s.free); n > 0 {
		idx := s.free[n-1]
		s.free = s.free[:n-1]
		s.items[idx] = v

		return idx
	}

	if len(s.items) == 0 {
		// Zero Slab: reserve slot 0 for Invalid before handing out indices.
		var zero T
		s.items = append(s.items, zero)
	}

	idx := uint32(len(s.items))
	s.items = append(s.items, v)

	return idx
}

// Free releases idx back to the slab's free list. idx must not be used
// again until a later Insert reuses it.
func (s *Slab[T]) Free(idx uint32) {
	xdebug.Assert(idx != Invalid && int(idx) < len(s.items), "slab: free of out-of-range index %d", idx)

	var zero T
	s.items[idx] = zero
	s.free = append(s.free, idx)
	s.live--
}
