package slab_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flier/radixkv/internal/slab"
)

func TestSlabInsertGet(t *testing.T) {
	s := slab.New[int](4)

	a := s.Insert(1)
	b := s.Insert(2)

	assert.NotEqual(t, slab.Invalid, a)
	assert.NotEqual(t, slab.Invalid, b)
	assert.Equal(t, 1, *s.Get(a))
	assert.Equal(t, 2, *s.Get(b))
	assert.Equal(t, 2, s.Len())
}

func TestSlabFreeReusesSlot(t *testing.T) {
	s := slab.New[int](4)

	a := s.Insert(1)
	s.Free(a)
	assert.Equal(t, 0, s.Len())

	b := s.Insert(2)
	assert.Equal(t, a, b, "freed index should be reused by the next Insert")
	assert.Equal(t, 2, *s.Get(b))
}

func TestSlabIndicesStableAcrossGrowth(t *testing.T) {
	s := slab.New[int](1)

	idx := s.Insert(42)
	for i := 0; i < 100; i++ {
		s.Insert(i)
	}

	assert.Equal(t, 42, *s.Get(idx), "growing the backing slice must not invalidate earlier indices")
}
