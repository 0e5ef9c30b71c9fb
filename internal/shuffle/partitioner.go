package shuffle

import (
	"math"

	"github.com/tahsinrahman/tuple-shuffle/internal/tuple"
)

// Partitioner assigns tuples to reduce partitions by hashing the fields
// selected by an IndexSet. Tuples that agree on every selected field always
// land in the same partition.
type Partitioner struct {
	indices IndexSet
}

func NewPartitioner(indices IndexSet) *Partitioner {
	return &Partitioner{indices: indices}
}

// PartitionerFromConfig builds a Partitioner from PartitionerIndicesConfigName.
func PartitionerFromConfig(props Properties) (*Partitioner, error) {
	indices, err := props.IndexSet(PartitionerIndicesConfigName)
	if err != nil {
		return nil, err
	}
	return NewPartitioner(indices), nil
}

func (p *Partitioner) Indices() IndexSet { return p.indices }

// Partition returns a partition in [0, numPartitions). Only selected fields
// that exist in key are hashed, and the walk stops after the last index.
// numPartitions must be positive.
func (p *Partitioner) Partition(key *tuple.Tuple, numPartitions int) int {
	h := int32(1)
	next := 0
	for i := 0; i < key.Size(); i++ {
		if i != p.indices.At(next) {
			continue
		}
		v, _ := key.Get(i)
		h = 31*h + v.Hash()
		next++
		if next == p.indices.Len() {
			break
		}
	}
	return int((h*127)&math.MaxInt32) % numPartitions
}
