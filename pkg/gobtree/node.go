package gobtree

import (
	"sync/atomic"
)

// Node is a bounded, ordered run of keys. It owns the split algorithm and
// nothing else: loading, caching and persistence belong to NodeRef, Storage
// and NodeCache respectively. A Node never changes leaf-ness or degree
// after construction; the only thing that ever mutates is its key chain,
// published through an atomic pointer so concurrent readers never observe
// a torn or partially-built slice (spec's concurrent-reader guarantee).
type Node[T any] struct {
	keys   atomic.Pointer[[]Key[T]]
	degree int
	leaf   bool
	isRoot bool
	ref    *NodeRef[T]
}

func newNode[T any](degree int, leaf, isRoot bool, ref *NodeRef[T]) *Node[T] {
	n := &Node[T]{degree: degree, leaf: leaf, isRoot: isRoot, ref: ref}
	empty := make([]Key[T], 0, degree)
	n.keys.Store(&empty)
	return n
}

// snapshot returns the node's current key chain. The returned slice must be
// treated as immutable by the caller; mutate via store.
func (n *Node[T]) snapshot() []Key[T] {
	return *n.keys.Load()
}

func (n *Node[T]) store(keys []Key[T]) {
	n.keys.Store(&keys)
}

// Len reports the number of keys currently resident in the node.
func (n *Node[T]) Len() int { return len(n.snapshot()) }

// splitResult is the bundle a child hands back to its parent when an
// insert caused it to overflow: the promoted separator (its Left/Right
// already pointing at the two freshly created children) and the ordered
// list of NodeRefs that must be persisted before the caller's insert can
// be considered durable.
type splitResult[T any] struct {
	separator *Key[T]
	saveQueue []*NodeRef[T]
}

// find locates the first non-deleted key equal to t, searching at every
// level visited during descent rather than only at the terminal leaf. A
// split can promote a value out of a leaf into an internal separator
// (spec §4.2's median promotion), and that value must remain findable;
// restricting the equality check to leaves would make such values
// unreachable, in tension with invariant "find ⇔ added and not deleted".
func (n *Node[T]) find(t T, cmp Comparator[T]) (T, bool, error) {
	keys := n.snapshot()
	for i := range keys {
		c := cmp(keys[i].Value, t)
		if c == 0 {
			if keys[i].Deleted {
				continue
			}
			return keys[i].Value, true, nil
		}
		if c > 0 {
			if n.leaf {
				break
			}
			child, err := keys[i].Left.node()
			if err != nil {
				var zero T
				return zero, false, err
			}
			return child.find(t, cmp)
		}
	}
	if n.leaf || len(keys) == 0 {
		var zero T
		return zero, false, nil
	}
	child, err := keys[len(keys)-1].Right.node()
	if err != nil {
		var zero T
		return zero, false, err
	}
	return child.find(t, cmp)
}

// delete walks the same single path find would take and, on reaching a
// leaf, marks every key equal to t as deleted. It never rebalances and
// never descends into more than one subtree, so a value that was promoted
// to an internal separator during a split and has no remaining leaf copy
// is not reachable by delete; this mirrors spec §4.2's description of
// delete as a plain single-path descent, and physical compaction is
// explicitly out of scope.
func (n *Node[T]) delete(t T, cmp Comparator[T]) (int, error) {
	keys := n.snapshot()
	if n.leaf {
		marked := 0
		next := cloneKeys(keys)
		for i := range next {
			if cmp(next[i].Value, t) == 0 && !next[i].Deleted {
				next[i].Deleted = true
				marked++
			}
		}
		if marked > 0 {
			n.store(next)
		}
		return marked, nil
	}
	idx := len(keys)
	for i := range keys {
		if cmp(keys[i].Value, t) > 0 {
			idx = i
			break
		}
	}
	var child *NodeRef[T]
	if idx < len(keys) {
		child = keys[idx].Left
	} else {
		child = keys[len(keys)-1].Right
	}
	cn, err := child.node()
	if err != nil {
		return 0, err
	}
	return cn.delete(t, cmp)
}

// add inserts t into the subtree rooted at n, returning a non-nil
// splitResult.separator only when n itself overflowed and had to split.
func (n *Node[T]) add(t T, cmp Comparator[T]) (*splitResult[T], error) {
	if n.leaf {
		return n.addLeaf(t, cmp)
	}
	return n.addInternal(t, cmp)
}

func (n *Node[T]) addLeaf(t T, cmp Comparator[T]) (*splitResult[T], error) {
	keys := n.snapshot()
	idx := len(keys)
	for i := range keys {
		if cmp(keys[i].Value, t) > 0 {
			idx = i
			break
		}
	}
	next := make([]Key[T], 0, len(keys)+1)
	next = append(next, keys[:idx]...)
	next = append(next, Key[T]{Value: t})
	next = append(next, keys[idx:]...)
	n.store(next)

	if len(next) < n.degree {
		return &splitResult[T]{saveQueue: []*NodeRef[T]{n.ref}}, nil
	}
	return n.split()
}

func (n *Node[T]) addInternal(t T, cmp Comparator[T]) (*splitResult[T], error) {
	keys := n.snapshot()
	idx := len(keys)
	for i := range keys {
		if cmp(keys[i].Value, t) > 0 {
			idx = i
			break
		}
	}
	var child *NodeRef[T]
	if idx < len(keys) {
		child = keys[idx].Left
	} else {
		child = keys[len(keys)-1].Right
	}
	cn, err := child.node()
	if err != nil {
		return nil, err
	}
	childResult, err := cn.add(t, cmp)
	if err != nil {
		return nil, err
	}
	if childResult.separator == nil {
		return childResult, nil
	}

	next := make([]Key[T], 0, len(keys)+1)
	next = append(next, keys[:idx]...)
	if idx > 0 {
		next[idx-1].Right = childResult.separator.Left
	}
	next = append(next, *childResult.separator)
	if idx < len(keys) {
		fixed := keys[idx]
		fixed.Left = childResult.separator.Right
		next = append(next, fixed)
		next = append(next, keys[idx+1:]...)
	}
	n.store(next)

	saveQueue := append(childResult.saveQueue, n.ref)
	if len(next) < n.degree {
		return &splitResult[T]{saveQueue: saveQueue}, nil
	}
	return n.splitWithQueue(saveQueue)
}

// split partitions an overflowed node into two fresh siblings and promotes
// the median key as the separator, per spec §4.2's m = (k-1)/2 rule.
func (n *Node[T]) split() (*splitResult[T], error) {
	return n.splitWithQueue(nil)
}

func (n *Node[T]) splitWithQueue(pending []*NodeRef[T]) (*splitResult[T], error) {
	keys := n.snapshot()
	k := len(keys)
	m := (k - 1) / 2

	leftKeys := cloneKeys(keys[:m])
	rightKeys := cloneKeys(keys[m+1:])
	median := keys[m]

	leftRef := newNodeRef(n.degree, false, n.leaf, n.ref.cache, n.ref.storage)
	rightRef := newNodeRef(n.degree, false, n.leaf, n.ref.cache, n.ref.storage)
	leftNode := newNode(n.degree, n.leaf, false, leftRef)
	rightNode := newNode(n.degree, n.leaf, false, rightRef)
	leftNode.store(leftKeys)
	rightNode.store(rightKeys)
	leftRef.setResident(leftNode)
	rightRef.setResident(rightNode)

	sep := &Key[T]{Value: median.Value, Left: leftRef, Right: rightRef}

	queue := append(pending, leftRef, rightRef)
	return &splitResult[T]{separator: sep, saveQueue: queue}, nil
}

// iterate emits every non-deleted value reachable from n, in ascending
// order. Internal key values are emitted between their bounding subtrees,
// matching the classic (non-B+) B-tree in-order walk: a value promoted to
// an internal separator during a split is data, not routing metadata, and
// must still surface during iteration.
func (n *Node[T]) iterate(yield func(T) bool) bool {
	keys := n.snapshot()
	if n.leaf {
		for i := range keys {
			if keys[i].Deleted {
				continue
			}
			if !yield(keys[i].Value) {
				return false
			}
		}
		return true
	}
	for i := range keys {
		child, err := keys[i].Left.node()
		if err != nil {
			return false
		}
		if !child.iterate(yield) {
			return false
		}
		if !keys[i].Deleted {
			if !yield(keys[i].Value) {
				return false
			}
		}
	}
	if len(keys) > 0 {
		child, err := keys[len(keys)-1].Right.node()
		if err != nil {
			return false
		}
		return child.iterate(yield)
	}
	return true
}
