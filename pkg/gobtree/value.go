package gobtree

import (
	"encoding/binary"
	"fmt"

	"github.com/segmentio/ksuid"
)

// Comparator defines a total order over T, returning a negative number if
// a < b, zero if a == b, and a positive number if a > b — the same
// contract as the standard library's cmp.Compare.
type Comparator[T any] func(a, b T) int

// Codec turns a value of type T into bytes and back. The core treats T as
// an opaque, language-neutral payload (spec §4.5); Codec is how a caller
// plugs in the actual wire format.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// Int64Comparator orders int64 values numerically.
func Int64Comparator(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// int64Codec encodes int64 values as fixed-width big-endian 8-byte payloads.
type int64Codec struct{}

// Int64Codec returns a Codec for int64 values.
func Int64Codec() Codec[int64] { return int64Codec{} }

func (int64Codec) Encode(v int64) ([]byte, error) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v))
	return buf, nil
}

func (int64Codec) Decode(data []byte) (int64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("gobtree: int64 payload must be 8 bytes, got %d", len(data))
	}
	return int64(binary.BigEndian.Uint64(data)), nil
}

// StringComparator orders strings lexicographically by byte value.
func StringComparator(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// stringCodec encodes strings as their raw UTF-8 bytes.
type stringCodec struct{}

// StringCodec returns a Codec for string values.
func StringCodec() Codec[string] { return stringCodec{} }

func (stringCodec) Encode(v string) ([]byte, error) { return []byte(v), nil }
func (stringCodec) Decode(data []byte) (string, error) {
	return string(data), nil
}

// KSUIDComparator orders ksuid.KSUID values by their time-sortable byte
// representation, the same ordering ksuid.Compare defines.
func KSUIDComparator(a, b ksuid.KSUID) int {
	return ksuid.Compare(a, b)
}

// ksuidCodec encodes a ksuid.KSUID as its fixed 20-byte representation.
type ksuidCodec struct{}

// KSUIDCodec returns a Codec for ksuid.KSUID values, useful as an opaque
// identity value type: a tree keyed on KSUIDs demonstrates that T need not
// be numeric or textual, only ordered and serializable.
func KSUIDCodec() Codec[ksuid.KSUID] { return ksuidCodec{} }

func (ksuidCodec) Encode(v ksuid.KSUID) ([]byte, error) { return v.Bytes(), nil }

func (ksuidCodec) Decode(data []byte) (ksuid.KSUID, error) {
	return ksuid.FromBytes(data)
}
