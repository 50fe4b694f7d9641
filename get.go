package radixkv

import (
	"github.com/flier/radixkv/pkg/opt"
)

// Get looks up key, returning Some(value) if present and not expired, or
// None otherwise. An expired entry found during the walk is filtered out
// lazily here but is not freed; EvictExpired (which the Shared driver runs
// after each Tick) or a later Del reclaims it.
func (t *Tree) Get(key []byte) opt.Option[Value] {
	idx, ok := t.find(key)
	if !ok {
		return opt.None[Value]()
	}

	n := t.get(idx)
	if t.isExpired(n) {
		return opt.None[Value]()
	}

	return opt.Some(n.value)
}

// find walks the tree for an exact key match, returning the node index
// whether or not it carries a value (it might be a valueless split
// point), and whether the walk fully consumed key at a node with a value.
func (t *Tree) find(key []byte) (uint32, bool) {
	idx := t.root
	remaining := key

	for {
		n := t.get(idx)
		lcp := commonPrefixLen(remaining, n.prefix)

		if lcp != len(n.prefix) {
			return 0, false
		}
		remaining = remaining[lcp:]

		if len(remaining) == 0 {
			return idx, n.hasValue
		}

		child, ok := n.children.get(remaining[0])
		if !ok {
			return 0, false
		}
		idx = child
		remaining = remaining[1:]
	}
}

func (t *Tree) isExpired(n *node) bool {
	return n.expiry != 0 && n.expiry <= t.now
}
