package gobtree

import "fmt"

// Operator names the comparison a RangeQuery applies against a tree's
// comparator, mirroring the field-query operators a caller would expect
// from a typical secondary-index search.
type Operator string

const (
	OpEqual          Operator = "="
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
)

// RangeQuery describes a bounded or unbounded scan over a tree's values.
// Unlike a secondary-index query over extracted record fields, it compares
// directly against the stored value T using the tree's own Comparator.
type RangeQuery[T any] struct {
	Operator Operator
	Value    T
}

// Validate reports whether q names a supported operator.
func (q RangeQuery[T]) Validate() error {
	switch q.Operator {
	case OpEqual, OpGreater, OpGreaterOrEqual, OpLess, OpLessOrEqual:
		return nil
	default:
		return fmt.Errorf("gobtree: unsupported operator %q", q.Operator)
	}
}

func (q RangeQuery[T]) matches(v T, cmp Comparator[T]) bool {
	c := cmp(v, q.Value)
	switch q.Operator {
	case OpEqual:
		return c == 0
	case OpGreater:
		return c > 0
	case OpGreaterOrEqual:
		return c >= 0
	case OpLess:
		return c < 0
	case OpLessOrEqual:
		return c <= 0
	default:
		return false
	}
}

// Query streams every live value satisfying q, in ascending order. It
// walks the same in-order traversal Iterate uses rather than seeking
// directly to a bound, since the tree keeps no separate ordered index
// structure beyond the key chains themselves.
func (t *BTree[T]) Query(q RangeQuery[T], yield func(T) bool) error {
	if err := q.Validate(); err != nil {
		return newError(ConfigError, "query", err)
	}
	var stop bool
	t.Iterate(func(v T) bool {
		if stop {
			return false
		}
		if q.matches(v, t.cmp) {
			if !yield(v) {
				stop = true
				return false
			}
		}
		return true
	})
	return nil
}

// Range streams every live value v such that lower <= v <= upper
// (inclusive on both ends), in ascending order.
func (t *BTree[T]) Range(lower, upper T, yield func(T) bool) error {
	var stop bool
	t.Iterate(func(v T) bool {
		if stop {
			return false
		}
		if t.cmp(v, lower) >= 0 && t.cmp(v, upper) <= 0 {
			if !yield(v) {
				stop = true
				return false
			}
		}
		return true
	})
	return nil
}
