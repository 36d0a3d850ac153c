package gobtree

import (
	"path/filepath"
	"testing"
)

func openTestTree(t *testing.T, degree int) (*BTree[int64], string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tree")
	tree, err := NewBuilder(Int64Comparator, Int64Codec()).
		Path(path).
		Degree(degree).
		KeySizeBytes(64).
		CacheSize(16).
		Open()
	if err != nil {
		t.Fatal(err)
	}
	return tree, path
}

func TestBTree_InsertFindAcrossSplits(t *testing.T) {
	tree, _ := openTestTree(t, 3)
	defer tree.Close()

	for v := int64(1); v <= 20; v++ {
		if err := tree.Insert(v); err != nil {
			t.Fatalf("Insert(%d): %v", v, err)
		}
	}
	for v := int64(1); v <= 20; v++ {
		got, ok, err := tree.Find(v)
		if err != nil || !ok || got != v {
			t.Fatalf("Find(%d) = %v, %v, %v", v, got, ok, err)
		}
	}
	if _, ok, _ := tree.Find(21); ok {
		t.Fatal("expected 21 to be absent")
	}
}

func TestBTree_IterateIsOrdered(t *testing.T) {
	tree, _ := openTestTree(t, 4)
	defer tree.Close()

	values := []int64{9, 3, 7, 1, 5, 2, 8, 4, 6}
	for _, v := range values {
		if err := tree.Insert(v); err != nil {
			t.Fatal(err)
		}
	}

	var got []int64
	tree.Iterate(func(v int64) bool {
		got = append(got, v)
		return true
	})
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("expected strictly ascending order, got %v", got)
		}
	}
	if len(got) != len(values) {
		t.Fatalf("expected %d values, got %d", len(values), len(got))
	}
}

func TestBTree_DeleteThenFind(t *testing.T) {
	tree, _ := openTestTree(t, 3)
	defer tree.Close()

	for _, v := range []int64{1, 2, 3, 4, 5} {
		if err := tree.Insert(v); err != nil {
			t.Fatal(err)
		}
	}

	n, err := tree.Delete(3)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected to mark 1 key, got %d", n)
	}
	if _, ok, _ := tree.Find(3); ok {
		t.Fatal("expected 3 to be gone after delete")
	}
	if _, ok, _ := tree.Find(2); !ok {
		t.Fatal("expected 2 to remain findable")
	}
}

func TestBTree_ReopenSurvivesRestart(t *testing.T) {
	tree, path := openTestTree(t, 3)
	for v := int64(1); v <= 12; v++ {
		if err := tree.Insert(v); err != nil {
			t.Fatal(err)
		}
	}
	if err := tree.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewBuilder(Int64Comparator, Int64Codec()).
		Path(path).
		Open()
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	for v := int64(1); v <= 12; v++ {
		got, ok, err := reopened.Find(v)
		if err != nil || !ok || got != v {
			t.Fatalf("Find(%d) after reopen = %v, %v, %v", v, got, ok, err)
		}
	}
}

func TestBTree_RangeQuery(t *testing.T) {
	tree, _ := openTestTree(t, 4)
	defer tree.Close()

	for v := int64(1); v <= 10; v++ {
		if err := tree.Insert(v); err != nil {
			t.Fatal(err)
		}
	}

	var got []int64
	err := tree.Range(3, 7, func(v int64) bool {
		got = append(got, v)
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{3, 4, 5, 6, 7}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestBTree_CacheBoundsResidentNodesAcrossSplits(t *testing.T) {
	dir := t.TempDir()
	tree, err := NewBuilder(Int64Comparator, Int64Codec()).
		Path(filepath.Join(dir, "tree")).
		Degree(3).
		KeySizeBytes(64).
		CacheSize(2).
		Open()
	if err != nil {
		t.Fatal(err)
	}
	defer tree.Close()

	for v := int64(1); v <= 100; v++ {
		if err := tree.Insert(v); err != nil {
			t.Fatalf("Insert(%d): %v", v, err)
		}
	}

	// Every split creates two fresh leftRef/rightRef NodeRefs, and every
	// root promotion creates a new root NodeRef; none of them go through
	// NodeRef.node()'s own cache-miss registration path, since they start
	// out resident. If Storage.save did not register each one once it
	// assigns it a Position, cache.Len() would stay far below the
	// configured bound while the *actual* resident set grew unbounded.
	if got := tree.cache.Len(); got > 2 {
		t.Fatalf("expected cache to track at most 2 nodes, got %d", got)
	}

	for v := int64(1); v <= 100; v++ {
		got, ok, err := tree.Find(v)
		if err != nil || !ok || got != v {
			t.Fatalf("Find(%d) = %v, %v, %v", v, got, ok, err)
		}
	}
}

func TestBTree_QueryOperators(t *testing.T) {
	tree, _ := openTestTree(t, 4)
	defer tree.Close()
	for v := int64(1); v <= 5; v++ {
		if err := tree.Insert(v); err != nil {
			t.Fatal(err)
		}
	}

	var got []int64
	err := tree.Query(RangeQuery[int64]{Operator: OpGreaterOrEqual, Value: 3}, func(v int64) bool {
		got = append(got, v)
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
