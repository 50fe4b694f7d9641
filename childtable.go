package radixkv

import (
	"sort"

	"github.com/flier/radixkv/internal/xdebug"
)

// inlineChildren is the number of children a node table can hold without
// allocating the overflow slice, matching the two-tier layout described for
// this store's node representation.
const inlineChildren = 10

// maxOverflowChildren bounds the overflow tier; together with the inline
// tier this caps a single node at 256 children, the full fan-out an
// 8-bit key alphabet can produce (e.g. inserting the 256 one-byte keys
// 0x00..0xFF all under the root).
const maxOverflowChildren = 246

type childEntry struct {
	radix byte
	used  bool
	child uint32
}

// childTable is a node's child-byte -> child-index map. It starts as a
// small fixed array scanned linearly (cheap for the common case of a
// handful of children) and promotes entries into an overflow slice once
// the inline array is full; the union of both tiers covers the full
// 256-byte alphabet. The overflow slice is also scanned linearly rather
// than hashed: at up to 246 entries a linear scan is still fast, and it
// avoids giving every node its own hash table.
type childTable struct {
	inline   [inlineChildren]childEntry
	overflow []childEntry
	count    int
}

func (t *childTable) get(radix byte) (uint32, bool) {
	for i := range t.inline {
		if t.inline[i].used && t.inline[i].radix == radix {
			return t.inline[i].child, true
		}
	}
	for i := range t.overflow {
		if t.overflow[i].used && t.overflow[i].radix == radix {
			return t.overflow[i].child, true
		}
	}
	return 0, false
}

// set inserts or updates the child reachable via radix. Since a radix
// byte has only 256 possible values and the inline+overflow tiers
// together hold 256 entries, a table can never genuinely fill up; the
// assert below guards that invariant rather than a reachable limit.
func (t *childTable) set(radix byte, child uint32) {
	for i := range t.inline {
		if t.inline[i].used && t.inline[i].radix == radix {
			t.inline[i].child = child
			return
		}
	}
	for i := range t.overflow {
		if t.overflow[i].used && t.overflow[i].radix == radix {
			t.overflow[i].child = child
			return
		}
	}

	for i := range t.inline {
		if !t.inline[i].used {
			t.inline[i] = childEntry{radix: radix, used: true, child: child}
			t.count++
			return
		}
	}

	// Inline tier full: promote into the overflow tier.
	for i := range t.overflow {
		if !t.overflow[i].used {
			t.overflow[i] = childEntry{radix: radix, used: true, child: child}
			t.count++
			return
		}
	}

	xdebug.Assert(len(t.overflow) < maxOverflowChildren,
		"child table overflow tier exceeded %d entries (radix byte has only 256 values)", maxOverflowChildren)

	t.overflow = append(t.overflow, childEntry{radix: radix, used: true, child: child})
	t.count++
}

func (t *childTable) remove(radix byte) bool {
	for i := range t.inline {
		if t.inline[i].used && t.inline[i].radix == radix {
			t.inline[i] = childEntry{}
			t.count--
			return true
		}
	}
	for i := range t.overflow {
		if t.overflow[i].used && t.overflow[i].radix == radix {
			t.overflow[i] = childEntry{}
			t.count--
			return true
		}
	}
	return false
}

// len reports the number of live children.
func (t *childTable) len() int { return t.count }

// soleChild returns the only child's radix and index when exactly one
// child is present, used by the post-deletion recompression check.
func (t *childTable) soleChild() (radix byte, child uint32, ok bool) {
	if t.count != 1 {
		return 0, 0, false
	}
	for i := range t.inline {
		if t.inline[i].used {
			return t.inline[i].radix, t.inline[i].child, true
		}
	}
	for i := range t.overflow {
		if t.overflow[i].used {
			return t.overflow[i].radix, t.overflow[i].child, true
		}
	}
	return 0, 0, false
}

// ascending returns the live entries sorted by radix, the order prefix
// scans must visit children in to produce deterministic output.
func (t *childTable) ascending() []childEntry {
	out := make([]childEntry, 0, t.count)
	for i := range t.inline {
		if t.inline[i].used {
			out = append(out, t.inline[i])
		}
	}
	for i := range t.overflow {
		if t.overflow[i].used {
			out = append(out, t.overflow[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].radix < out[j].radix })
	return out
}
