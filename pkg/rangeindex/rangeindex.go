// Package rangeindex materializes a gobtree's values into an ordered,
// independently-seekable store for callers who want bounded range scans
// without walking the tree's own key chains. The core engine organizes
// nodes by fixed-slot Position, not by key order, so a prefix- or
// range-seek against the primary storage isn't possible; this package
// trades that off by keeping a second, write-after copy in an LSM store
// built for exactly that access pattern.
package rangeindex

import (
	"github.com/cockroachdb/pebble"
)

// Index is a pebble-backed ordered mirror of a gobtree's values. It is
// populated by calling Put for every value a caller inserts (or by
// replaying BTree.Iterate after a bulk load) and is safe to discard and
// rebuild at any time — it holds no information the primary tree doesn't.
type Index struct {
	db *pebble.DB
}

// Open creates or reopens a range index rooted at dir.
func Open(dir string) (*Index, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Index{db: db}, nil
}

// Put records key as present. The caller's Codec output is used verbatim
// as the index key so pebble's own byte-lexicographic order matches the
// tree's Comparator, provided the Codec preserves order. StringCodec does;
// Int64Codec's big-endian encoding does only among non-negative values,
// since a negative value encodes with its high bit set and sorts after
// every non-negative one.
func (idx *Index) Put(key []byte) error {
	return idx.db.Set(key, nil, pebble.NoSync)
}

// Delete removes key from the index.
func (idx *Index) Delete(key []byte) error {
	return idx.db.Delete(key, pebble.NoSync)
}

// Scan visits every indexed key in [lower, upper) in ascending order,
// stopping early if visit returns false.
func (idx *Index) Scan(lower, upper []byte, visit func(key []byte) bool) error {
	iter, err := idx.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return err
	}
	defer iter.Close()

	for valid := iter.First(); valid; valid = iter.Next() {
		key := append([]byte(nil), iter.Key()...)
		if !visit(key) {
			break
		}
	}
	return iter.Error()
}

// Close releases the underlying pebble database.
func (idx *Index) Close() error {
	return idx.db.Close()
}
