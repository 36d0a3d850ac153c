package gobtree

import (
	"testing"
	"time"

	"github.com/segmentio/ksuid"
)

func TestInt64Comparator(t *testing.T) {
	cases := []struct {
		a, b int64
		want int
	}{
		{1, 2, -1},
		{2, 1, 1},
		{5, 5, 0},
	}
	for _, c := range cases {
		if got := Int64Comparator(c.a, c.b); sign(got) != c.want {
			t.Fatalf("Int64Comparator(%d,%d) = %d, want sign %d", c.a, c.b, got, c.want)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func TestInt64Codec_RoundTrip(t *testing.T) {
	codec := Int64Codec()
	for _, v := range []int64{0, 1, -1, 1 << 40, -(1 << 40)} {
		enc, err := codec.Encode(v)
		if err != nil {
			t.Fatal(err)
		}
		dec, err := codec.Decode(enc)
		if err != nil {
			t.Fatal(err)
		}
		if dec != v {
			t.Fatalf("round trip mismatch: got %d want %d", dec, v)
		}
	}
}

func TestInt64Codec_RejectsWrongLength(t *testing.T) {
	codec := Int64Codec()
	if _, err := codec.Decode([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected an error for a malformed payload")
	}
}

func TestStringCodec_RoundTrip(t *testing.T) {
	codec := StringCodec()
	for _, v := range []string{"", "hello", "unicode: 🔑"} {
		enc, err := codec.Encode(v)
		if err != nil {
			t.Fatal(err)
		}
		dec, err := codec.Decode(enc)
		if err != nil {
			t.Fatal(err)
		}
		if dec != v {
			t.Fatalf("round trip mismatch: got %q want %q", dec, v)
		}
	}
}

func TestStringComparator(t *testing.T) {
	if StringComparator("a", "b") >= 0 {
		t.Fatal("expected a < b")
	}
	if StringComparator("b", "a") <= 0 {
		t.Fatal("expected b > a")
	}
	if StringComparator("a", "a") != 0 {
		t.Fatal("expected a == a")
	}
}

func TestKSUIDCodec_RoundTrip(t *testing.T) {
	codec := KSUIDCodec()
	id := ksuid.New()
	enc, err := codec.Encode(id)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := codec.Decode(enc)
	if err != nil {
		t.Fatal(err)
	}
	if dec != id {
		t.Fatalf("round trip mismatch: got %s want %s", dec, id)
	}
}

func TestKSUIDComparator_OrdersChronologically(t *testing.T) {
	earlier := ksuid.New()
	later, err := ksuid.NewRandomWithTime(earlier.Time().Add(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if KSUIDComparator(earlier, later) >= 0 {
		t.Fatal("expected earlier < later")
	}
	if KSUIDComparator(later, earlier) <= 0 {
		t.Fatal("expected later > earlier")
	}
	if KSUIDComparator(earlier, earlier) != 0 {
		t.Fatal("expected equal to compare as 0")
	}
}
