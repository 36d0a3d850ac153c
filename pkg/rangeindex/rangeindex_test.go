package rangeindex

import (
	"encoding/binary"
	"path/filepath"
	"testing"
)

func encodeInt64(v int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v))
	return buf
}

func TestIndex_PutAndScan(t *testing.T) {
	idx, err := Open(filepath.Join(t.TempDir(), "rangeindex"))
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	for _, v := range []int64{5, 1, 3, 9, 7} {
		if err := idx.Put(encodeInt64(v)); err != nil {
			t.Fatal(err)
		}
	}

	var got []int64
	err = idx.Scan(encodeInt64(3), encodeInt64(9), func(key []byte) bool {
		got = append(got, int64(binary.BigEndian.Uint64(key)))
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{3, 5, 7}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestIndex_Delete(t *testing.T) {
	idx, err := Open(filepath.Join(t.TempDir(), "rangeindex"))
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	if err := idx.Put(encodeInt64(1)); err != nil {
		t.Fatal(err)
	}
	if err := idx.Delete(encodeInt64(1)); err != nil {
		t.Fatal(err)
	}

	var count int
	err = idx.Scan(nil, nil, func([]byte) bool {
		count++
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("expected index to be empty after delete, got %d entries", count)
	}
}
