package shuffle

// Plan holds the partitioner and the two comparators a secondary-sort job
// shuffles its tuple keys with.
type Plan struct {
	Partitioner *Partitioner
	Sort        *Comparator
	Group       *Comparator
}

// NewPlan resolves all three index sets from props, so a missing or empty
// property fails here instead of on the first record.
func NewPlan(props Properties) (*Plan, error) {
	partitioner, err := PartitionerFromConfig(props)
	if err != nil {
		return nil, err
	}
	sort, err := SortComparatorFromConfig(props)
	if err != nil {
		return nil, err
	}
	group, err := GroupComparatorFromConfig(props)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Partitioner: partitioner,
		Sort:        sort,
		Group:       group,
	}, nil
}

// Properties renders the plan back into its configuration form.
func (p *Plan) Properties() Properties {
	return Properties{
		PartitionerIndicesConfigName: p.Partitioner.Indices().String(),
		SortIndicesConfigName:        p.Sort.Indices().String(),
		GroupIndicesConfigName:       p.Group.Indices().String(),
	}
}
