package radixkv

import (
	"strings"
	"testing"
)

// walkNoSingleChildNoValue verifies the path-compression invariant by
// inspecting the node graph directly, rather than only through the
// public API: no interior node may have exactly one child and no value
// of its own.
func (t *Tree) walkNoSingleChildNoValue(idx uint32) error {
	n := t.get(idx)
	if !n.hasValue && n.children.len() == 1 {
		return errSingleChildNoValue
	}
	for _, e := range n.children.ascending() {
		if err := t.walkNoSingleChildNoValue(e.child); err != nil {
			return err
		}
	}
	return nil
}

var errSingleChildNoValue = &compressionError{}

type compressionError struct{}

func (*compressionError) Error() string { return "interior node with exactly one child and no value" }

func TestCompressionInvariantAfterInsertsAndDeletes(t *testing.T) {
	tr := New()

	keys := []string{"ab", "abc", "abd", "abcxyz", "abcdef", "z"}
	for _, k := range keys {
		tr.Set([]byte(k), NewValue([]byte(k)))
	}
	for _, k := range []string{"abc", "abcxyz"} {
		tr.Del([]byte(k))
	}

	if err := tr.walkNoSingleChildNoValue(tr.root); err != nil {
		t.Fatalf("compression invariant violated: %v\ntree:\n%s", err, tr.dumpString())
	}
}

func TestDumpStringIncludesStoredValues(t *testing.T) {
	tr := New()
	tr.Set([]byte("hello"), NewValue([]byte("world")))

	out := tr.dumpString()
	if !strings.Contains(out, "world") {
		t.Fatalf("dumpString output missing stored value: %s", out)
	}
}
