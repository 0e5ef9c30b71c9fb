package shuffle

import (
	"github.com/tahsinrahman/tuple-shuffle/internal/tuple"
)

// Comparator compares tuples on the subset of fields selected by an IndexSet.
// Configured with the sort indices it orders keys within a partition;
// configured with the group indices it reports whether consecutive sorted keys
// belong to the same reduce group.
type Comparator struct {
	indices IndexSet
}

func NewComparator(indices IndexSet) *Comparator {
	return &Comparator{indices: indices}
}

// SortComparatorFromConfig builds a Comparator from SortIndicesConfigName.
func SortComparatorFromConfig(props Properties) (*Comparator, error) {
	return comparatorFromConfig(props, SortIndicesConfigName)
}

// GroupComparatorFromConfig builds a Comparator from GroupIndicesConfigName.
func GroupComparatorFromConfig(props Properties) (*Comparator, error) {
	return comparatorFromConfig(props, GroupIndicesConfigName)
}

func comparatorFromConfig(props Properties, name string) (*Comparator, error) {
	indices, err := props.IndexSet(name)
	if err != nil {
		return nil, err
	}
	return NewComparator(indices), nil
}

func (c *Comparator) Indices() IndexSet { return c.indices }

// Compare walks both tuples by position and compares the field at each
// position equal to the next unconsumed index. The first difference decides;
// Null sorts first. Once every index has been consumed the tuples are equal.
// Two Nulls at a selected position leave that index unconsumed, so the walk
// falls through to the size comparison below.
//
// If either tuple ends before all indices were consumed, the result is
// lhs.Size() - rhs.Size(), whether or not any selected field differed.
// Because the walk only moves forward, an index listed after a larger one is
// never reached.
func (c *Comparator) Compare(lhs, rhs *tuple.Tuple) int {
	next := 0
	for i := 0; i < lhs.Size() && i < rhs.Size(); i++ {
		if i != c.indices.At(next) {
			continue
		}
		// i is never negative, so Get cannot fail
		l, _ := lhs.Get(i)
		r, _ := rhs.Get(i)
		if l.IsNull() && r.IsNull() {
			// the index is not consumed, so no later index can match
			continue
		}
		if cmp := l.Compare(r); cmp != 0 {
			return cmp
		}
		next++
		if next == c.indices.Len() {
			return 0
		}
	}
	return lhs.Size() - rhs.Size()
}

// Equal reports whether Compare considers lhs and rhs equal.
func (c *Comparator) Equal(lhs, rhs *tuple.Tuple) bool {
	return c.Compare(lhs, rhs) == 0
}
