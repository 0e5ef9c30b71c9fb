package main

//
// secondary sort of names: every reduce call sees all people sharing a last
// name, ordered by first name.
//
// go build -buildmode=plugin ./apps/secondarysort
//

import (
	"strings"

	"github.com/tahsinrahman/tuple-shuffle/internal"
	"github.com/tahsinrahman/tuple-shuffle/internal/shuffle"
	"github.com/tahsinrahman/tuple-shuffle/internal/tuple"
)

// key positions
const (
	last = iota
	first
)

var schema = tuple.MustSchema("last", "first")

// Configure partitions and groups on the last name and sorts on both names.
func Configure(b *shuffle.ConfigBuilder) {
	b.SetPartitionerFields(schema, "last").
		SetSortFields(schema, "last", "first").
		SetGroupFields(schema, "last")
}

// Map reads "Last\tFirst" lines. Lines without a tab are skipped.
func Map(filename string, contents string) []internal.KeyValue {
	var kva []internal.KeyValue
	for _, line := range strings.Split(contents, "\n") {
		lastName, firstName, ok := strings.Cut(strings.TrimSpace(line), "\t")
		if !ok || lastName == "" {
			continue
		}
		key := tuple.New().
			Set(last, tuple.String(lastName)).
			Set(first, tuple.String(firstName))
		kva = append(kva, internal.KeyValue{Key: key, Value: firstName})
	}
	return kva
}

// Reduce receives the first names of one last name already in sorted order.
func Reduce(key *tuple.Tuple, values []string) string {
	return strings.Join(values, ",")
}

func main() {}
