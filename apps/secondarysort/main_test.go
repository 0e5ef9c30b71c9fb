package main

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahsinrahman/tuple-shuffle/internal/shuffle"
)

func TestConfigure(t *testing.T) {
	props := shuffle.Properties{}
	b := shuffle.NewConfigBuilder()
	Configure(b)
	require.NoError(t, b.Configure(props))

	assert.Equal(t, shuffle.Properties{
		shuffle.PartitionerIndicesConfigName: "0",
		shuffle.SortIndicesConfigName:        "0,1",
		shuffle.GroupIndicesConfigName:       "0",
	}, props)
}

func TestMap(t *testing.T) {
	kva := Map("names.txt", "Smith\tJohn\nno tab here\n\nDoe\tJane\r\n")
	require.Len(t, kva, 2)
	assert.Equal(t, "(Smith, John)", kva[0].Key.String())
	assert.Equal(t, "John", kva[0].Value)
	assert.Equal(t, "(Doe, Jane)", kva[1].Key.String())
	assert.Equal(t, "Jane", kva[1].Value)
}

func TestSortAndGroup(t *testing.T) {
	props := shuffle.Properties{}
	b := shuffle.NewConfigBuilder()
	Configure(b)
	require.NoError(t, b.Configure(props))
	plan, err := shuffle.NewPlan(props)
	require.NoError(t, err)

	kva := Map("names.txt", "Smith\tJohn\nDoe\tJane\nSmith\tAnna\nDoe\tAdam\n")
	sort.SliceStable(kva, func(i, j int) bool { return plan.Sort.Compare(kva[i].Key, kva[j].Key) < 0 })

	var out []string
	start := 0
	for i := 1; i <= len(kva); i++ {
		if i == len(kva) || !plan.Group.Equal(kva[i-1].Key, kva[i].Key) {
			var values []string
			for _, kv := range kva[start:i] {
				values = append(values, kv.Value)
			}
			out = append(out, kva[start].Key.String()+" "+Reduce(kva[start].Key, values))
			start = i
		}
	}
	assert.Equal(t, []string{"(Doe, Adam) Adam,Jane", "(Smith, Anna) Anna,John"}, out)

	// both Smiths land in the same partition
	assert.Equal(t, plan.Partitioner.Partition(kva[2].Key, 5), plan.Partitioner.Partition(kva[3].Key, 5))
}

func TestKeyPositionsMatchSchema(t *testing.T) {
	i, err := schema.Index("last")
	require.NoError(t, err)
	assert.Equal(t, last, i)

	i, err = schema.Index("first")
	require.NoError(t, err)
	assert.Equal(t, first, i)

	key := Map("names.txt", "Smith\tJohn\n")[0].Key
	v, err := schema.Get(key, "first")
	require.NoError(t, err)
	s, _ := v.AsString()
	assert.Equal(t, "John", s)
}
