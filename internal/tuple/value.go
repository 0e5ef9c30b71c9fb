package tuple

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindFloat32
	KindFloat64
	KindInt32
	KindInt64
	KindBool
	KindInt16
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindString:
		return "String"
	case KindFloat32:
		return "Float32"
	case KindFloat64:
		return "Float64"
	case KindInt32:
		return "Int32"
	case KindInt64:
		return "Int64"
	case KindBool:
		return "Bool"
	case KindInt16:
		return "Int16"
	case KindBytes:
		return "Bytes"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is a single tuple field. The zero Value is Null.
//
// Integers, bools and float bit patterns live in bits; String and Bytes
// payloads live in str, so a Value is immutable once built.
type Value struct {
	kind Kind
	bits uint64
	str  string
}

const (
	canonicalNaN64 uint64 = 0x7ff8000000000000
	canonicalNaN32 uint32 = 0x7fc00000
)

func Null() Value { return Value{} }

func Int16(v int16) Value { return Value{kind: KindInt16, bits: uint64(int64(v))} }

func Int32(v int32) Value { return Value{kind: KindInt32, bits: uint64(int64(v))} }

func Int64(v int64) Value { return Value{kind: KindInt64, bits: uint64(v)} }

func String(v string) Value { return Value{kind: KindString, str: v} }

func Bool(v bool) Value {
	if v {
		return Value{kind: KindBool, bits: 1}
	}
	return Value{kind: KindBool}
}

// Float64 stores f; every NaN is collapsed to a single canonical NaN.
func Float64(f float64) Value { return Value{kind: KindFloat64, bits: float64Bits(f)} }

// Float32 stores f; every NaN is collapsed to a single canonical NaN.
func Float32(f float32) Value { return Value{kind: KindFloat32, bits: uint64(float32Bits(f))} }

// Bytes stores a copy of b.
func Bytes(b []byte) Value { return Value{kind: KindBytes, str: string(b)} }

// ValueOf converts a Go value into a Value. A nil interface becomes Null and
// int becomes Int64. Any type outside the field catalog is an
// ErrUnsupportedType error.
func ValueOf(x interface{}) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case int16:
		return Int16(v), nil
	case int32:
		return Int32(v), nil
	case int64:
		return Int64(v), nil
	case int:
		return Int64(int64(v)), nil
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case float64:
		return Float64(v), nil
	case float32:
		return Float32(v), nil
	case []byte:
		return Bytes(v), nil
	default:
		return Value{}, ErrUnsupportedType.New(fmt.Sprintf("%T", x))
	}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsInt16() (int16, bool) { return int16(v.bits), v.kind == KindInt16 }

func (v Value) AsInt32() (int32, bool) { return int32(v.bits), v.kind == KindInt32 }

func (v Value) AsInt64() (int64, bool) { return int64(v.bits), v.kind == KindInt64 }

func (v Value) AsBool() (bool, bool) { return v.bits == 1, v.kind == KindBool }

func (v Value) AsFloat64() (float64, bool) {
	return math.Float64frombits(v.bits), v.kind == KindFloat64
}

func (v Value) AsFloat32() (float32, bool) {
	return math.Float32frombits(uint32(v.bits)), v.kind == KindFloat32
}

func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsBytes returns a copy of a Bytes payload.
func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return []byte(v.str), true
}

// Interface returns the Go representation of v, or nil for Null.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindInt16:
		return int16(v.bits)
	case KindInt32:
		return int32(v.bits)
	case KindInt64:
		return int64(v.bits)
	case KindBool:
		return v.bits == 1
	case KindFloat32:
		return math.Float32frombits(uint32(v.bits))
	case KindFloat64:
		return math.Float64frombits(v.bits)
	case KindString:
		return v.str
	case KindBytes:
		return []byte(v.str)
	default:
		return nil
	}
}

// Equal reports whether v and o hold the same kind and payload. Two Nulls are
// equal.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.bits == o.bits && v.str == o.str
}

// Compare orders v against o. Null sorts before every other value. Values of
// the same kind compare naturally; values of different kinds are ordered by
// Kind.
func (v Value) Compare(o Value) int {
	if v.kind != o.kind {
		switch {
		case v.kind == KindNull:
			return -1
		case o.kind == KindNull:
			return 1
		case v.kind < o.kind:
			return -1
		default:
			return 1
		}
	}

	switch v.kind {
	case KindInt16, KindInt32, KindInt64:
		return compareInt64(int64(v.bits), int64(o.bits))
	case KindBool:
		return compareBool(v.bits == 1, o.bits == 1)
	case KindFloat32:
		l, _ := v.AsFloat32()
		r, _ := o.AsFloat32()
		return compareFloat32(l, r)
	case KindFloat64:
		l, _ := v.AsFloat64()
		r, _ := o.AsFloat64()
		return compareFloat64(l, r)
	case KindString:
		return compareString(v.str, o.str)
	case KindBytes:
		// bytes compare as unsigned lexicographic, shorter prefix first
		return strings.Compare(v.str, o.str)
	default:
		return 0
	}
}

// Hash returns the 32-bit field hash used by Tuple.Hash and the shuffle
// partitioner. Null hashes to 0.
func (v Value) Hash() int32 {
	switch v.kind {
	case KindInt16, KindInt32:
		return int32(v.bits)
	case KindInt64, KindFloat64:
		return int32(v.bits ^ (v.bits >> 32))
	case KindFloat32:
		return int32(uint32(v.bits))
	case KindBool:
		if v.bits == 1 {
			return 1231
		}
		return 1237
	case KindString:
		return hashString(v.str)
	case KindBytes:
		h := int32(1)
		for i := 0; i < len(v.str); i++ {
			h = 31*h + int32(int8(v.str[i]))
		}
		return h
	default:
		return 0
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return v.str
	case KindBytes:
		return fmt.Sprintf("%x", v.str)
	case KindBool:
		return strconv.FormatBool(v.bits == 1)
	case KindFloat32:
		f, _ := v.AsFloat32()
		return strconv.FormatFloat(float64(f), 'g', -1, 32)
	case KindFloat64:
		f, _ := v.AsFloat64()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case KindInt16, KindInt32, KindInt64:
		return strconv.FormatInt(int64(v.bits), 10)
	default:
		return v.kind.String()
	}
}

// hashString is the polynomial hash over the string's UTF-16 code units.
func hashString(s string) int32 {
	var h int32
	for _, r := range s {
		if r >= 0x10000 {
			r1, r2 := utf16.EncodeRune(r)
			h = 31*h + int32(r1)
			h = 31*h + int32(r2)
			continue
		}
		h = 31*h + int32(r)
	}
	return h
}

// compareString orders strings by their UTF-16 code units, the units
// hashString folds, so a supplementary character sorts before U+E000..U+FFFF.
func compareString(l, r string) int {
	lu := utf16.Encode([]rune(l))
	ru := utf16.Encode([]rune(r))
	for i := 0; i < len(lu) && i < len(ru); i++ {
		if lu[i] != ru[i] {
			return compareInt64(int64(lu[i]), int64(ru[i]))
		}
	}
	return compareInt64(int64(len(lu)), int64(len(ru)))
}

func float64Bits(f float64) uint64 {
	if math.IsNaN(f) {
		return canonicalNaN64
	}
	return math.Float64bits(f)
}

func float32Bits(f float32) uint32 {
	if f != f {
		return canonicalNaN32
	}
	return math.Float32bits(f)
}

func compareInt64(l, r int64) int {
	if l == r {
		return 0
	} else if l < r {
		return -1
	} else {
		return 1
	}
}

// false is less than true
func compareBool(l, r bool) int {
	if l == r {
		return 0
	}
	if !l && r {
		return -1
	}
	return 1
}

// -0 sorts before +0 and NaN sorts after +Inf.
func compareFloat64(l, r float64) int {
	if l < r {
		return -1
	}
	if l > r {
		return 1
	}
	return compareInt64(int64(float64Bits(l)), int64(float64Bits(r)))
}

func compareFloat32(l, r float32) int {
	if l < r {
		return -1
	}
	if l > r {
		return 1
	}
	return compareInt64(int64(int32(float32Bits(l))), int64(int32(float32Bits(r))))
}
