package gobtree

// Key is one slot in a Node's ordered chain: a value plus the two child
// links that bound it. A leaf key has Left and Right both nil; an internal
// key has both set, pointing at the subtree strictly below (Left) and
// at or above (Right) its value; equal values go right. Adjacent keys in the same node share a
// child: keys[i].Right and keys[i+1].Left reference the same NodeRef.
type Key[T any] struct {
	Value   T
	Left    *NodeRef[T]
	Right   *NodeRef[T]
	Deleted bool
}

// isLeafKey reports whether k carries no child links.
func (k Key[T]) isLeafKey() bool {
	return k.Left == nil && k.Right == nil
}

// cloneKeys returns a shallow copy of src, safe to publish via a Node's
// atomic key-chain pointer without aliasing the caller's backing array.
func cloneKeys[T any](src []Key[T]) []Key[T] {
	out := make([]Key[T], len(src))
	copy(out, src)
	return out
}
