package radixkv

import (
	"github.com/flier/radixkv/pkg/opt"
)

// Set stores value under key, replacing any existing value, and returns
// the previous value if one was present. The new entry never expires.
func (t *Tree) Set(key []byte, value Value) opt.Option[Value] {
	return t.setAt(key, value, 0)
}

// SetTTL is like Set but the entry expires ttlNanos nanoseconds after the
// tree's current virtual clock (see SetNow), after which it is filtered
// out lazily by Get/GetN and reclaimed eventually by EvictExpired.
func (t *Tree) SetTTL(key []byte, value Value, ttlNanos int64) opt.Option[Value] {
	expiry := t.now + ttlNanos
	if expiry == 0 {
		// Never collide with the "no TTL" sentinel.
		expiry = 1
	}
	return t.setAt(key, value, expiry)
}

// setAt walks the tree from the root, splitting compressed prefixes as
// needed (Cases A/B/C), and stores value/expiry at the node representing
// key, creating intermediate nodes as necessary.
func (t *Tree) setAt(key []byte, value Value, expiry int64) opt.Option[Value] {
	idx := t.root
	remaining := key

	for {
		n := t.get(idx)
		lcp := commonPrefixLen(remaining, n.prefix)

		if lcp < len(n.prefix) {
			return t.splitInsert(idx, remaining, lcp, value, expiry)
		}

		remaining = remaining[lcp:]

		if len(remaining) == 0 {
			return t.setValueAt(idx, value, expiry)
		}

		radix := remaining[0]
		rest := remaining[1:]

		if child, ok := n.children.get(radix); ok {
			idx = child
			remaining = rest
			continue
		}

		leaf := t.insertLeaf(rest, idx, radix, value, expiry)
		t.attachChild(idx, radix, leaf)
		t.size++
		return opt.None[Value]()
	}
}

// setValueAt overwrites the value/expiry stored directly at idx, which
// must already exist in the tree (its prefix fully matched the walked key).
func (t *Tree) setValueAt(idx uint32, value Value, expiry int64) opt.Option[Value] {
	n := t.get(idx)

	var old opt.Option[Value]
	if n.hasValue {
		old = opt.Some(n.value)
	} else {
		old = opt.None[Value]()
		t.size++
	}

	if n.expiry != 0 {
		t.tagged.Untag(idx)
	}

	n.hasValue = true
	n.value = value
	n.expiry = expiry

	if expiry != 0 {
		t.tagged.Tag(idx)
	}

	return old
}

// splitInsert handles Case B/C: remaining diverges from node idx's prefix
// at position lcp. A new branch node is spliced in at that divergence
// point, carrying the shared prefix; idx keeps the remainder of its old
// prefix as a child of the branch, and the new key is inserted as the
// other child (or directly on the branch, if the new key ends exactly at
// the divergence point).
func (t *Tree) splitInsert(idx uint32, remaining []byte, lcp int, value Value, expiry int64) opt.Option[Value] {
	n := t.get(idx)
	shared := copyBytes(n.prefix[:lcp])
	oldRadix := n.prefix[lcp]
	oldSuffix := copyBytes(n.prefix[lcp+1:])
	parent := n.parent
	parentRadix := n.parentRadix

	// Shorten idx's prefix to the part not claimed by the new branch.
	// This mutation happens before any slab growth below, so the pointer
	// obtained above is still valid for it.
	t.setPrefix(idx, oldSuffix)

	branch := t.insertBranch(shared, parent, parentRadix)
	t.setParent(idx, branch, oldRadix)
	t.attachChild(branch, oldRadix, idx)
	t.replaceInParent(parent, parentRadix, branch)

	rest := remaining[lcp:]
	if len(rest) == 0 {
		t.size++
		t.setValueAtFresh(branch, value, expiry)
		return opt.None[Value]()
	}

	newRadix := rest[0]
	newSuffix := rest[1:]
	leaf := t.insertLeaf(newSuffix, branch, newRadix, value, expiry)
	t.attachChild(branch, newRadix, leaf)
	t.size++

	return opt.None[Value]()
}

// setValueAtFresh sets the value on a just-created, valueless branch node
// (no previous value to return, no size bookkeeping beyond what the
// caller already did).
func (t *Tree) setValueAtFresh(idx uint32, value Value, expiry int64) {
	n := t.get(idx)
	n.hasValue = true
	n.value = value
	n.expiry = expiry
	if expiry != 0 {
		t.tagged.Tag(idx)
	}
}
