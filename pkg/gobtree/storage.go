package gobtree

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ssargent/gobtree/pkg/codec"
)

// maxFileSize bounds a single storage file before Storage rolls to the
// next FileNumber, mirroring the teacher's segmented-log layout without
// its append-only write pattern: every node here lives at a fixed,
// revisitable slot instead of a monotonically growing offset.
const maxFileSize = 256 * 1024 * 1024

// Storage persists Nodes into fixed-size slots keyed by Position. Every
// slot is exactly degree*keySizeBytes bytes, wide enough for a full node
// plus its CRC framing; a node that would not fit reports a CapacityError
// rather than silently truncating (spec §4.5's encode/decode contract).
type Storage[T any] struct {
	mu         sync.Mutex
	dir        string
	base       string
	degree     int
	slotSize   int
	codec      Codec[T]
	frameCodec *codec.FrameCodec
	files      map[uint64]*os.File
	cur        uint64
	curSize    int64
}

func newStorage[T any](path string, degree, keySizeBytes int, valueCodec Codec[T]) (*Storage[T], error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, newError(IOError, "open storage directory", err)
		}
	}
	s := &Storage[T]{
		dir:        dir,
		base:       filepath.Base(path),
		degree:     degree,
		slotSize:   degree * keySizeBytes,
		codec:      valueCodec,
		frameCodec: codec.NewFrameCodec(),
		files:      make(map[uint64]*os.File),
	}
	f, err := s.openFile(0)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		return nil, newError(IOError, "stat storage file", err)
	}
	s.curSize = stat.Size()
	return s, nil
}

func (s *Storage[T]) fileName(n uint64) string {
	if n == 0 {
		return filepath.Join(s.dir, s.base)
	}
	return filepath.Join(s.dir, fmt.Sprintf("%s.%d", s.base, n))
}

func (s *Storage[T]) openFile(n uint64) (*os.File, error) {
	if f, ok := s.files[n]; ok {
		return f, nil
	}
	f, err := os.OpenFile(s.fileName(n), os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, newError(IOError, "open storage file", err)
	}
	s.files[n] = f
	return f, nil
}

// nextPosition reserves the next free slot, rolling to a new file when the
// slot would not fit within maxFileSize in the current one.
func (s *Storage[T]) nextPosition() (Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.curSize+int64(s.slotSize) > maxFileSize {
		s.cur++
		s.curSize = 0
		if _, err := s.openFile(s.cur); err != nil {
			return noPosition, err
		}
	}
	pos := Position{FileNumber: s.cur, Offset: uint64(s.curSize)}
	s.curSize += int64(s.slotSize)
	return pos, nil
}

// save assigns positions to and persists every ref in queue, in order, so
// children land on disk before the parent that references them. A ref that
// had no Position yet (freshly created by a split, or a newly promoted
// root) is newly-positioned here and is registered with the cache at that
// point, per spec §4.6 step 5: until this call, such a ref was reachable
// only through its parent's Key, never through the cache, and would have
// been permanently exempt from eviction.
func (s *Storage[T]) save(queue []*NodeRef[T]) error {
	for _, ref := range queue {
		n, err := ref.node()
		if err != nil {
			return err
		}
		pos, hasPos := ref.Position()
		if !hasPos {
			pos, err = s.nextPosition()
			if err != nil {
				return err
			}
			ref.setPosition(pos)
			if ref.cache != nil {
				ref.cache.register(ref)
			}
		}
		if err := s.writeNode(pos, n); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage[T]) writeNode(pos Position, n *Node[T]) error {
	keys := n.snapshot()
	payload, err := s.encodeNode(n.leaf, keys)
	if err != nil {
		return err
	}
	frame := s.frameCodec.Encode(payload)
	if len(frame) > s.slotSize {
		return newError(CapacityError, "write node",
			fmt.Errorf("encoded node is %d bytes, slot holds %d: increase keySizeBytes", len(frame), s.slotSize))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.openFile(pos.FileNumber)
	if err != nil {
		return err
	}
	slot := make([]byte, s.slotSize)
	copy(slot, frame)
	if _, err := f.WriteAt(slot, int64(pos.Offset)); err != nil {
		return newError(IOError, "write node", err)
	}
	return nil
}

// load reads the node at pos back from disk, rehydrating its key chain
// including lazy NodeRefs for any child links.
func (s *Storage[T]) load(pos Position, ref *NodeRef[T]) ([]Key[T], error) {
	s.mu.Lock()
	f, err := s.openFile(pos.FileNumber)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	slot := make([]byte, s.slotSize)
	if _, err := f.ReadAt(slot, int64(pos.Offset)); err != nil {
		return nil, newError(IOError, "read node", err)
	}
	payload, _, err := s.frameCodec.Decode(slot)
	if err != nil {
		return nil, newError(FormatError, "decode node frame", err)
	}
	return s.decodeNode(payload, ref)
}

func (s *Storage[T]) encodeNode(leaf bool, keys []Key[T]) ([]byte, error) {
	buf := make([]byte, 0, s.slotSize)
	if leaf {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(keys)))
	for _, k := range keys {
		payload, err := s.codec.Encode(k.Value)
		if err != nil {
			return nil, newError(FormatError, "encode key value", err)
		}
		if k.Deleted {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(payload)))
		buf = append(buf, payload...)
		if !leaf {
			buf = appendChildLink(buf, k.Left)
			buf = appendChildLink(buf, k.Right)
		}
	}
	return buf, nil
}

func appendChildLink[T any](buf []byte, ref *NodeRef[T]) []byte {
	pos, _ := ref.Position()
	buf = binary.BigEndian.AppendUint64(buf, pos.FileNumber)
	buf = binary.BigEndian.AppendUint64(buf, pos.Offset)
	if ref.leaf {
		return append(buf, 1)
	}
	return append(buf, 0)
}

func (s *Storage[T]) decodeNode(payload []byte, ref *NodeRef[T]) ([]Key[T], error) {
	if len(payload) < 5 {
		return nil, newError(FormatError, "decode node header", fmt.Errorf("payload too short: %d bytes", len(payload)))
	}
	leaf := payload[0] == 1
	count := binary.BigEndian.Uint32(payload[1:5])
	off := 5
	keys := make([]Key[T], 0, count)
	for i := uint32(0); i < count; i++ {
		if off+1+4 > len(payload) {
			return nil, newError(FormatError, "decode key header", fmt.Errorf("truncated key %d", i))
		}
		deleted := payload[off] == 1
		off++
		valueLen := int(binary.BigEndian.Uint32(payload[off : off+4]))
		off += 4
		if off+valueLen > len(payload) {
			return nil, newError(FormatError, "decode key value", fmt.Errorf("truncated value for key %d", i))
		}
		value, err := s.codec.Decode(payload[off : off+valueLen])
		if err != nil {
			return nil, newError(FormatError, "decode key value", err)
		}
		off += valueLen

		key := Key[T]{Value: value, Deleted: deleted}
		if !leaf {
			left, n, err := readChildLink(payload[off:], s.degree, ref.cache, s)
			if err != nil {
				return nil, err
			}
			off += n
			right, n, err := readChildLink(payload[off:], s.degree, ref.cache, s)
			if err != nil {
				return nil, err
			}
			off += n
			key.Left = left
			key.Right = right
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func readChildLink[T any](data []byte, degree int, cache *NodeCache[T], storage *Storage[T]) (*NodeRef[T], int, error) {
	const linkLen = 8 + 8 + 1
	if len(data) < linkLen {
		return nil, 0, newError(FormatError, "decode child link", fmt.Errorf("truncated link"))
	}
	fileNum := binary.BigEndian.Uint64(data[0:8])
	offset := binary.BigEndian.Uint64(data[8:16])
	leaf := data[16] == 1
	pos := Position{FileNumber: fileNum, Offset: offset}
	return refAtPosition(pos, degree, false, leaf, cache, storage), linkLen, nil
}

// Close flushes and closes every open storage file.
func (s *Storage[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for _, f := range s.files {
		if err := f.Sync(); err != nil && firstErr == nil {
			firstErr = newError(IOError, "sync storage file", err)
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = newError(IOError, "close storage file", err)
		}
	}
	return firstErr
}
