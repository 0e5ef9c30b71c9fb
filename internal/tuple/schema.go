package tuple

// Schema maps field names to tuple positions, so jobs can address fields by
// name instead of by raw index. Positions follow the order of the names.
type Schema struct {
	names []string
	index map[string]int
}

func NewSchema(names ...string) (*Schema, error) {
	s := &Schema{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if _, ok := s.index[name]; ok {
			return nil, ErrDuplicateField.New(name)
		}
		s.index[name] = i
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on a duplicate name.
func MustSchema(names ...string) *Schema {
	s, err := NewSchema(names...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Len() int { return len(s.names) }

func (s *Schema) Names() []string { return append([]string(nil), s.names...) }

// Index returns the position of the named field.
func (s *Schema) Index(name string) (int, error) {
	i, ok := s.index[name]
	if !ok {
		return 0, ErrUnknownField.New(name)
	}
	return i, nil
}

// Indices resolves names to positions, keeping their order.
func (s *Schema) Indices(names ...string) ([]int, error) {
	out := make([]int, 0, len(names))
	for _, name := range names {
		i, err := s.Index(name)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, nil
}

func (s *Schema) Set(t *Tuple, name string, v Value) error {
	i, err := s.Index(name)
	if err != nil {
		return err
	}
	t.Set(i, v)
	return nil
}

func (s *Schema) Get(t *Tuple, name string) (Value, error) {
	i, err := s.Index(name)
	if err != nil {
		return Value{}, err
	}
	return t.Get(i)
}
