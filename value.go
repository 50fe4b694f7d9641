package radixkv

// Value is a cheap-to-clone handle to a byte string stored in the tree.
// Cloning a Value (returning one from Get, or passing one into Set) never
// copies the underlying bytes: all clones share the same backing array,
// and the Go runtime reclaims it once the last handle is dropped. This
// trades the original design's manual reference counting for the GC,
// which is the idiomatic choice for a Go library (see DESIGN.md).
type Value struct {
	bytes []byte
}

// NewValue copies b into a fresh Value. Callers that already own b and
// will not mutate it afterwards can avoid the copy with NewValueFrom.
func NewValue(b []byte) Value {
	buf := make([]byte, len(b))
	copy(buf, b)
	return Value{bytes: buf}
}

// NewValueFrom wraps b without copying. b must not be mutated by the
// caller afterwards; ownership passes to the returned Value and anyone it
// is cloned to.
func NewValueFrom(b []byte) Value {
	return Value{bytes: b}
}

// Bytes returns the value's contents. The returned slice must not be
// mutated: it may be shared with other clones of this Value.
func (v Value) Bytes() []byte { return v.bytes }

// Len returns the length of the value in bytes.
func (v Value) Len() int { return len(v.bytes) }

// String renders the value as a string, copying its bytes.
func (v Value) String() string { return string(v.bytes) }
