package radixkv

import (
	"github.com/flier/radixkv/internal/slab"
	"github.com/flier/radixkv/pkg/opt"
)

// Del removes key, returning its value if it was present. After removal
// the tree is recompressed so that no interior node is left with exactly
// one child and no value of its own (the path-compression invariant). The
// root is exempt: it is never merged into its child.
func (t *Tree) Del(key []byte) opt.Option[Value] {
	idx, ok := t.find(key)
	if !ok {
		return opt.None[Value]()
	}

	n := t.get(idx)
	if !n.hasValue {
		return opt.None[Value]()
	}

	old := n.value
	expired := t.isExpired(n)

	if n.expiry != 0 {
		t.tagged.Untag(idx)
	}
	n.hasValue = false
	n.expiry = 0
	t.size--

	t.pruneFrom(idx)

	if expired {
		return opt.None[Value]()
	}
	return opt.Some(old)
}

// pruneFrom removes idx from the tree if it is now a childless, valueless
// node, then walks upward recompressing any ancestor left with exactly
// one child and no value.
func (t *Tree) pruneFrom(idx uint32) {
	for {
		n := t.get(idx)
		if n.hasValue {
			return
		}

		switch n.children.len() {
		case 0:
			parent := n.parent
			parentRadix := n.parentRadix
			if parent == slab.Invalid {
				// Root is always kept, even when empty.
				return
			}

			t.detachChild(parent, parentRadix)
			t.freeNode(idx)

			idx = parent
		case 1:
			if n.parent == slab.Invalid {
				// Root is never recompressed, even when degenerate.
				return
			}
			t.recompress(idx)
			return
		default:
			return
		}
	}
}

// recompress merges idx with its sole child if idx has no value and
// exactly one child, collapsing the compressed path, as required after a
// deletion removes the sibling that had kept idx necessary. The root is
// never a valid idx here: it is never freed or merged away, even when
// left degenerate by a deletion.
func (t *Tree) recompress(idx uint32) {
	n := t.get(idx)
	if n.hasValue || n.parent == slab.Invalid {
		return
	}

	parent := n.parent
	parentRadix := n.parentRadix

	radix, child, ok := n.children.soleChild()
	if !ok {
		return
	}

	cn := t.get(child)
	merged := append(append(copyBytes(n.prefix), radix), cn.prefix...)

	t.setPrefix(child, merged)
	t.setParent(child, parent, parentRadix)
	t.replaceInParent(parent, parentRadix, child)
	t.freeNode(idx)
}

func (t *Tree) freeNode(idx uint32) {
	n := t.get(idx)
	if n.expiry != 0 {
		t.tagged.Untag(idx)
	}
	t.nodes.Free(idx)
}
