package gobtree

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/ssargent/gobtree/pkg/codec"
	"github.com/ssargent/gobtree/pkg/stats"
)

// BTree is the top-level coordinator: it owns the root NodeRef, the
// single-writer monitor that serializes mutation, and the metadata frame
// that lets a closed tree be reopened at its last durable root. Readers
// (Find, Iterate) never take the writer lock; they rely on each Node's
// atomically published key chain for a consistent view (spec §5).
type BTree[T any] struct {
	mu           sync.Mutex
	degree       int
	keySizeBytes int
	cmp          Comparator[T]
	storage      *Storage[T]
	cache        *NodeCache[T]
	root         *NodeRef[T]
	metaPath     string
	stats        stats.Recorder
	lastFlushID  string
}

// LastFlushID returns the correlation ID of the most recent Insert flush
// (the save-queue persist plus metadata write), or "" if none has
// happened yet. It exists for a debug surface to tie a logged flush back
// to the stats snapshot taken around the same time; the tree itself never
// logs.
func (t *BTree[T]) LastFlushID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastFlushID
}

const metadataSuffix = ".metadata"

type metadata struct {
	degree       uint32
	keySizeBytes uint32
	rootFile     uint64
	rootOffset   uint64
	rootLeaf     bool
	rootSet      bool
}

func openBTree[T any](path string, degree, keySizeBytes, cacheSize int, cmp Comparator[T], valueCodec Codec[T], recorder stats.Recorder) (*BTree[T], error) {
	metaPath := path + metadataSuffix
	meta, err := readMetadata(metaPath)
	if err != nil {
		return nil, err
	}
	if meta != nil {
		degree = int(meta.degree)
		keySizeBytes = int(meta.keySizeBytes)
	}

	storage, err := newStorage(path, degree, keySizeBytes, valueCodec)
	if err != nil {
		return nil, err
	}
	cache := NewNodeCache[T](cacheSize)
	if recorder == nil {
		recorder = stats.NoopRecorder{}
	}

	t := &BTree[T]{
		degree:       degree,
		keySizeBytes: keySizeBytes,
		cmp:          cmp,
		storage:      storage,
		cache:        cache,
		metaPath:     metaPath,
		stats:        recorder,
	}

	if meta != nil && meta.rootSet {
		pos := Position{FileNumber: meta.rootFile, Offset: meta.rootOffset}
		t.root = refAtPosition(pos, degree, true, meta.rootLeaf, cache, storage)
	} else {
		t.root = newNodeRef(degree, true, true, cache, storage)
		if _, err := t.root.node(); err != nil {
			return nil, err
		}
		if err := storage.save([]*NodeRef[T]{t.root}); err != nil {
			return nil, err
		}
		if err := t.writeMetadata(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func readMetadata(path string) (*metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, newError(IOError, "read metadata", err)
	}
	fc := codec.NewFrameCodec()
	payload, _, err := fc.Decode(data)
	if err != nil {
		return nil, newError(FormatError, "decode metadata", err)
	}
	if len(payload) < 4+4+8+8+1+1 {
		return nil, newError(FormatError, "decode metadata", fmt.Errorf("metadata frame too short"))
	}
	m := &metadata{
		degree:       binary.BigEndian.Uint32(payload[0:4]),
		keySizeBytes: binary.BigEndian.Uint32(payload[4:8]),
		rootFile:     binary.BigEndian.Uint64(payload[8:16]),
		rootOffset:   binary.BigEndian.Uint64(payload[16:24]),
		rootLeaf:     payload[24] == 1,
		rootSet:      payload[25] == 1,
	}
	return m, nil
}

func (t *BTree[T]) writeMetadata() error {
	pos, hasPos := t.root.Position()
	rootLeaf, _ := t.rootIsLeaf()

	buf := make([]byte, 0, 26)
	buf = binary.BigEndian.AppendUint32(buf, uint32(t.degree))
	buf = binary.BigEndian.AppendUint32(buf, uint32(t.keySizeBytes))
	buf = binary.BigEndian.AppendUint64(buf, pos.FileNumber)
	buf = binary.BigEndian.AppendUint64(buf, pos.Offset)
	if rootLeaf {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	if hasPos {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}

	fc := codec.NewFrameCodec()
	frame := fc.Encode(buf)
	if err := os.WriteFile(t.metaPath, frame, 0o600); err != nil {
		return newError(IOError, "write metadata", err)
	}
	return nil
}

func (t *BTree[T]) rootIsLeaf() (bool, error) {
	n, err := t.root.node()
	if err != nil {
		return false, err
	}
	return n.leaf, nil
}

// Find performs a point lookup, returning the stored value and true, or
// the zero value and false if t has no live (non-deleted) match.
func (t *BTree[T]) Find(value T) (T, bool, error) {
	start := time.Now()
	root, err := t.root.node()
	if err != nil {
		var zero T
		return zero, false, err
	}
	found, ok, err := root.find(value, t.cmp)
	t.stats.RecordFind(time.Since(start), ok)
	return found, ok, err
}

// Delete marks every live key equal to value as deleted, returning how
// many were marked. It never rebalances or reclaims the freed slots.
func (t *BTree[T]) Delete(value T) (int, error) {
	start := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()

	root, err := t.root.node()
	if err != nil {
		return 0, err
	}
	n, err := root.delete(value, t.cmp)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if err := t.storage.save([]*NodeRef[T]{t.root}); err != nil {
			return n, err
		}
		if err := t.writeMetadata(); err != nil {
			return n, err
		}
	}
	t.stats.RecordDelete(time.Since(start), n)
	return n, nil
}

// Insert adds value to the tree. It is safe for exactly one concurrent
// caller at a time; the tree serializes writers with an internal mutex.
//
// The flush protocol (spec §4.6):
//  1. Descend and mutate in memory, possibly splitting along the way.
//  2. If the root itself overflowed, build a new root over the two halves.
//  3. Persist every touched node in the returned save queue, children
//     first, so no parent is ever durable before the child it points at.
//  4. Persist the (possibly new) root's position in the metadata frame.
func (t *BTree[T]) Insert(value T) error {
	start := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()

	root, err := t.root.node()
	if err != nil {
		return err
	}
	result, err := root.add(value, t.cmp)
	if err != nil {
		return err
	}

	split := result.separator != nil
	if split {
		newRootRef := newNodeRef(t.degree, true, false, t.cache, t.storage)
		newRoot := newNode(t.degree, false, true, newRootRef)
		newRoot.store([]Key[T]{*result.separator})
		newRootRef.setResident(newRoot)
		t.root = newRootRef
		result.saveQueue = append(result.saveQueue, newRootRef)
	}

	if err := t.storage.save(result.saveQueue); err != nil {
		return err
	}
	if err := t.writeMetadata(); err != nil {
		return err
	}

	t.lastFlushID = ksuid.New().String()
	t.stats.RecordInsert(time.Since(start), split)
	t.stats.SetResidentNodes(t.cache.Len())
	return nil
}

// Iterate returns every live value in ascending order.
func (t *BTree[T]) Iterate(yield func(T) bool) {
	root, err := t.root.node()
	if err != nil {
		return
	}
	root.iterate(yield)
}

// Close flushes and releases the tree's storage files.
func (t *BTree[T]) Close() error {
	return t.storage.Close()
}

// Degree reports the tree's configured branching factor.
func (t *BTree[T]) Degree() int { return t.degree }
