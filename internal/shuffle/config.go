package shuffle

import (
	"github.com/tahsinrahman/tuple-shuffle/internal/tuple"
)

const (
	BaseConfigName = "tuple"

	PartitionerIndicesConfigName = BaseConfigName + ".partitioner.indices"
	SortIndicesConfigName        = BaseConfigName + ".sort.indices"
	GroupIndicesConfigName       = BaseConfigName + ".group.indices"
)

// Properties is the job configuration the shuffle components read their index
// sets from.
type Properties map[string]string

// IndexSet parses the index set stored under name.
func (p Properties) IndexSet(name string) (IndexSet, error) {
	return ParseIndexSet(name, p[name])
}

// Merge copies every non-empty value of o into p, overwriting what p holds.
func (p Properties) Merge(o Properties) Properties {
	for k, v := range o {
		if v != "" {
			p[k] = v
		}
	}
	return p
}

// ConfigBuilder collects the partitioner, sort and group indices of a job and
// writes them into Properties. Lists that were never set are left out.
//
//	err := shuffle.NewConfigBuilder().
//		SetPartitionerIndices(0).
//		SetSortIndices(0, 1).
//		SetGroupIndices(0).
//		Configure(props)
type ConfigBuilder struct {
	partitionerIndices []int
	sortIndices        []int
	groupIndices       []int
	err                error
}

func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

func (b *ConfigBuilder) SetPartitionerIndices(indices ...int) *ConfigBuilder {
	b.partitionerIndices = nonNil(indices)
	return b
}

// SetSortIndices sets the sort indices. They are used in the order given, so
// SetSortIndices(2, 1) sorts on the third field before the second.
func (b *ConfigBuilder) SetSortIndices(indices ...int) *ConfigBuilder {
	b.sortIndices = nonNil(indices)
	return b
}

func (b *ConfigBuilder) SetGroupIndices(indices ...int) *ConfigBuilder {
	b.groupIndices = nonNil(indices)
	return b
}

func (b *ConfigBuilder) SetPartitionerFields(schema *tuple.Schema, names ...string) *ConfigBuilder {
	return b.SetPartitionerIndices(b.resolve(schema, names)...)
}

func (b *ConfigBuilder) SetSortFields(schema *tuple.Schema, names ...string) *ConfigBuilder {
	return b.SetSortIndices(b.resolve(schema, names)...)
}

func (b *ConfigBuilder) SetGroupFields(schema *tuple.Schema, names ...string) *ConfigBuilder {
	return b.SetGroupIndices(b.resolve(schema, names)...)
}

func (b *ConfigBuilder) resolve(schema *tuple.Schema, names []string) []int {
	indices, err := schema.Indices(names...)
	if err != nil && b.err == nil {
		b.err = err
	}
	return indices
}

// Configure writes every index list that was set into props. An explicitly
// empty list is a configuration error.
func (b *ConfigBuilder) Configure(props Properties) error {
	if b.err != nil {
		return b.err
	}
	for _, c := range []struct {
		name    string
		indices []int
	}{
		{PartitionerIndicesConfigName, b.partitionerIndices},
		{SortIndicesConfigName, b.sortIndices},
		{GroupIndicesConfigName, b.groupIndices},
	} {
		if c.indices == nil {
			continue
		}
		set, err := newIndexSet(c.name, c.indices)
		if err != nil {
			return err
		}
		props[c.name] = set.String()
	}
	return nil
}

// nonNil marks a list as set even when it is empty.
func nonNil(indices []int) []int {
	if indices == nil {
		return []int{}
	}
	return indices
}
