// Package gobtree implements a persistent, on-disk B-tree over an ordered
// multiset of comparable, serializable values.
//
// The tree is built from seven collaborating pieces: Position (a file
// coordinate), Key (one value plus child links), Node (a bounded ordered
// run of keys that owns the split algorithm), NodeRef (a lazy handle to a
// Node), NodeCache (a bounded resident set of NodeRefs), Storage (fixed-slot
// byte persistence), and BTree (the top-level coordinator). See DESIGN.md
// at the module root for how each piece is grounded.
//
// Point lookup, in-order iteration and mark-deletion are the supported
// operations; deletes never rebalance, and physical compaction of
// abandoned slots is left to a future, out-of-scope background pass.
package gobtree
