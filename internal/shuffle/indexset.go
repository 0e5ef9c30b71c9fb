package shuffle

import (
	"fmt"
	"strconv"
	"strings"

	errors "gopkg.in/src-d/go-errors.v1"
)

// ErrConfiguration is returned when an index property is missing, empty or
// does not hold a list of distinct non-negative indices.
var ErrConfiguration = errors.NewKind("invalid configuration for '%s': %s")

// IndexSet is an ordered list of distinct, non-negative tuple positions that
// selects the fields taking part in partitioning, sorting or grouping.
// The order is the caller's; comparators give earlier entries priority.
type IndexSet struct {
	indices []int
}

// NewIndexSet validates indices and keeps them in the given order.
func NewIndexSet(indices ...int) (IndexSet, error) {
	return newIndexSet("index set", indices)
}

// MustIndexSet is like NewIndexSet but panics on invalid input.
func MustIndexSet(indices ...int) IndexSet {
	s, err := NewIndexSet(indices...)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseIndexSet parses a comma separated list of decimal indices, such as
// "2, 1". name is only used in error messages.
func ParseIndexSet(name, value string) (IndexSet, error) {
	if strings.TrimSpace(value) == "" {
		return IndexSet{}, ErrConfiguration.New(name, "empty or no configuration set")
	}

	parts := strings.Split(value, ",")
	indices := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		i, err := strconv.Atoi(part)
		if err != nil {
			return IndexSet{}, ErrConfiguration.New(name, fmt.Sprintf("%q is not an index", part))
		}
		indices = append(indices, i)
	}
	return newIndexSet(name, indices)
}

func newIndexSet(name string, indices []int) (IndexSet, error) {
	if len(indices) == 0 {
		return IndexSet{}, ErrConfiguration.New(name, "empty or no configuration set")
	}
	seen := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if i < 0 {
			return IndexSet{}, ErrConfiguration.New(name, fmt.Sprintf("negative index %d", i))
		}
		if _, ok := seen[i]; ok {
			return IndexSet{}, ErrConfiguration.New(name, fmt.Sprintf("duplicate index %d", i))
		}
		seen[i] = struct{}{}
	}
	return IndexSet{indices: append([]int(nil), indices...)}, nil
}

func (s IndexSet) Len() int { return len(s.indices) }

func (s IndexSet) At(i int) int { return s.indices[i] }

// Indices returns a copy of the positions in order.
func (s IndexSet) Indices() []int { return append([]int(nil), s.indices...) }

// String renders the set in the form ParseIndexSet accepts.
func (s IndexSet) String() string {
	parts := make([]string, len(s.indices))
	for i, idx := range s.indices {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ",")
}
