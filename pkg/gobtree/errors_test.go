package gobtree

import (
	"errors"
	"testing"
)

func TestError_IsMatchesKindSentinel(t *testing.T) {
	err := newError(CapacityError, "write node", nil)
	if !errors.Is(err, ErrCapacity) {
		t.Fatal("expected errors.Is to match ErrCapacity by kind")
	}
	if errors.Is(err, ErrConfig) {
		t.Fatal("expected errors.Is not to match a different kind")
	}
}

func TestBuilder_OpenReturnsConfigSentinel(t *testing.T) {
	_, err := NewBuilder(Int64Comparator, Int64Codec()).Open()
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestStorage_CapacityErrorMatchesSentinel(t *testing.T) {
	dir := t.TempDir()
	storage, err := newStorage(dir+"/tree", 4, 4, stringCodec{})
	if err != nil {
		t.Fatal(err)
	}
	defer storage.Close()

	n := newNode[string](4, true, true, nil)
	n.store([]Key[string]{{Value: "this value is far too long for a 4-byte slot"}})

	err = storage.writeNode(Position{}, n)
	if !errors.Is(err, ErrCapacity) {
		t.Fatalf("expected ErrCapacity, got %v", err)
	}
}
