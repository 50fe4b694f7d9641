package radixkv

import (
	"github.com/flier/radixkv/pkg/tuple"
)

// GetN returns every live (unexpired) key-value pair whose key starts
// with prefix, in strict ascending key order.
func (t *Tree) GetN(prefix []byte) []tuple.Tuple2[[]byte, Value] {
	root, rootPrefix, ok := t.descendToPrefix(prefix)
	if !ok {
		return nil
	}

	var out []tuple.Tuple2[[]byte, Value]
	t.walk(root, rootPrefix, func(key []byte, n *node) {
		if t.isExpired(n) {
			return
		}
		out = append(out, tuple.New2(copyBytes(key), n.value))
	})
	return out
}

// DelN removes every key starting with prefix and returns how many
// entries (expired or not) were removed.
func (t *Tree) DelN(prefix []byte) int {
	root, rootPrefix, ok := t.descendToPrefix(prefix)
	if !ok {
		return 0
	}

	var keys [][]byte
	t.walk(root, rootPrefix, func(key []byte, n *node) {
		if n.hasValue {
			keys = append(keys, copyBytes(key))
		}
	})

	for _, k := range keys {
		t.Del(k)
	}
	return len(keys)
}

// descendToPrefix walks from the root to the node at which prefix is
// fully consumed (possibly ending partway through that node's own
// prefix), returning that node's index and the full key accumulated to
// reach it, so callers can resume reconstructing keys from there.
func (t *Tree) descendToPrefix(prefix []byte) (uint32, []byte, bool) {
	idx := t.root
	remaining := prefix
	accumulated := make([]byte, 0, len(prefix))

	for {
		n := t.get(idx)
		lcp := commonPrefixLen(remaining, n.prefix)

		if lcp == len(remaining) {
			// prefix ends inside (or exactly at) this node's own prefix;
			// walk will add idx's full prefix on top of accumulated, so
			// the partial match here must not be added twice.
			return idx, accumulated, true
		}

		if lcp != len(n.prefix) {
			// prefix diverges from this node's prefix before exhausting
			// either: no key in the tree can start with prefix.
			return 0, nil, false
		}

		accumulated = append(accumulated, n.prefix...)
		remaining = remaining[lcp:]

		radix := remaining[0]
		child, ok := n.children.get(radix)
		if !ok {
			return 0, nil, false
		}

		accumulated = append(accumulated, radix)
		idx = child
		remaining = remaining[1:]
	}
}

// walk visits every node in the subtree rooted at idx in ascending radix
// order, invoking visit(key, node) for each node carrying a value. key is
// the full reconstructed key for that node; keyPrefix is the key
// accumulated to reach idx (not including idx's own prefix).
func (t *Tree) walk(idx uint32, keyPrefix []byte, visit func(key []byte, n *node)) {
	n := t.get(idx)
	key := append(append([]byte(nil), keyPrefix...), n.prefix...)

	if n.hasValue {
		visit(key, n)
	}

	for _, e := range n.children.ascending() {
		childKey := append(append([]byte(nil), key...), e.radix)
		t.walk(e.child, childKey, visit)
	}
}
