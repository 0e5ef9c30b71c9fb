package tuple

import (
	"strings"
)

// Tuple is an ordered, growable sequence of fields used as an intermediate
// map output key. Positions that were skipped over by Set hold Null, and reads
// past the end return Null, so optional trailing fields can be probed freely.
//
// A Tuple is built by one goroutine and is read-only once it is handed to a
// comparator, partitioner or encoder.
type Tuple struct {
	fields []Value
}

// New returns a tuple holding values in order.
func New(values ...Value) *Tuple {
	return &Tuple{fields: append(make([]Value, 0, len(values)), values...)}
}

// Of builds a tuple from Go values using ValueOf.
func Of(values ...interface{}) (*Tuple, error) {
	t := &Tuple{fields: make([]Value, 0, len(values))}
	for _, x := range values {
		v, err := ValueOf(x)
		if err != nil {
			return nil, err
		}
		t.fields = append(t.fields, v)
	}
	return t, nil
}

// MustOf is like Of but panics on an unsupported value.
func MustOf(values ...interface{}) *Tuple {
	t, err := Of(values...)
	if err != nil {
		panic(err)
	}
	return t
}

// Clear removes every field.
func (t *Tuple) Clear() *Tuple {
	t.fields = t.fields[:0]
	return t
}

// Size is the number of materialized positions.
func (t *Tuple) Size() int {
	return len(t.fields)
}

// Set stores v at index i, padding any positions between Size() and i with
// Null. A negative index panics with an ErrNegativeIndex error.
func (t *Tuple) Set(i int, v Value) *Tuple {
	if i < 0 {
		panic(ErrNegativeIndex.New(i))
	}
	for i >= len(t.fields) {
		t.fields = append(t.fields, Null())
	}
	t.fields[i] = v
	return t
}

func (t *Tuple) Append(v Value) *Tuple {
	t.fields = append(t.fields, v)
	return t
}

// Get returns the field at index i, or Null when i is past the end.
func (t *Tuple) Get(i int) (Value, error) {
	if i < 0 {
		return Value{}, ErrNegativeIndex.New(i)
	}
	if i >= len(t.fields) {
		return Null(), nil
	}
	return t.fields[i], nil
}

// Fields returns a copy of the tuple's fields.
func (t *Tuple) Fields() []Value {
	return append([]Value(nil), t.fields...)
}

func (t *Tuple) Clone() *Tuple {
	return New(t.fields...)
}

// Equal reports whether both tuples have the same size and equal fields at
// every position.
func (t *Tuple) Equal(o *Tuple) bool {
	if len(t.fields) != len(o.fields) {
		return false
	}
	for i := range t.fields {
		if !t.fields[i].Equal(o.fields[i]) {
			return false
		}
	}
	return true
}

// Hash combines every field hash in order, so equal tuples always hash alike.
func (t *Tuple) Hash() int32 {
	h := int32(1)
	for _, v := range t.fields {
		h = 31*h + v.Hash()
	}
	return h
}

// Compare orders tuples position by position. When every shared position is
// equal the size difference decides, so a shorter prefix sorts first.
func (t *Tuple) Compare(o *Tuple) int {
	for i := 0; i < len(t.fields) && i < len(o.fields); i++ {
		if cmp := t.fields[i].Compare(o.fields[i]); cmp != 0 {
			return cmp
		}
	}
	return len(t.fields) - len(o.fields)
}

// MarshalBinary encodes the tuple in the shuffle wire format.
func (t *Tuple) MarshalBinary() ([]byte, error) {
	return AppendTuple(nil, t)
}

// UnmarshalBinary replaces the tuple's fields with the tuple encoded in data.
// On error the tuple is left untouched.
func (t *Tuple) UnmarshalBinary(data []byte) error {
	fields, n, err := readFields(data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return ErrMalformed.New("trailing bytes after tuple")
	}
	t.fields = fields
	return nil
}

func (t *Tuple) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, v := range t.fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
