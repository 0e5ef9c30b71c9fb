package internal

import (
	"sort"

	"github.com/tahsinrahman/tuple-shuffle/internal/shuffle"
	"github.com/tahsinrahman/tuple-shuffle/internal/tuple"
)

type KeyValue struct {
	Key   *tuple.Tuple
	Value string
}

// sortKeyValues orders kvs by the plan's sort comparator. Records with equal
// sort keys keep their input order.
func sortKeyValues(kvs []KeyValue, cmp *shuffle.Comparator) {
	sort.SliceStable(kvs, func(i, j int) bool {
		return cmp.Compare(kvs[i].Key, kvs[j].Key) < 0
	})
}

// groupKeyValues calls fn once per run of sorted records the group comparator
// considers equal, passing the first key of the run and all of its values.
func groupKeyValues(kvs []KeyValue, cmp *shuffle.Comparator, fn func(key *tuple.Tuple, values []string) error) error {
	i := 0
	for i < len(kvs) {
		j := i + 1
		for j < len(kvs) && cmp.Compare(kvs[j-1].Key, kvs[j].Key) == 0 {
			j++
		}
		values := make([]string, 0, j-i)
		for k := i; k < j; k++ {
			values = append(values, kvs[k].Value)
		}
		if err := fn(kvs[i].Key, values); err != nil {
			return err
		}
		i = j
	}
	return nil
}
