package tuple

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueOf(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		kind Kind
	}{
		{name: "nil", in: nil, kind: KindNull},
		{name: "int16", in: int16(3), kind: KindInt16},
		{name: "int32", in: int32(3), kind: KindInt32},
		{name: "int64", in: int64(3), kind: KindInt64},
		{name: "int", in: 3, kind: KindInt64},
		{name: "string", in: "alex", kind: KindString},
		{name: "bool", in: true, kind: KindBool},
		{name: "float64", in: 12.3, kind: KindFloat64},
		{name: "float32", in: float32(21.2), kind: KindFloat32},
		{name: "bytes", in: []byte{1, 2, 3}, kind: KindBytes},
		{name: "value", in: Int32(7), kind: KindInt32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ValueOf(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind())
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		for _, in := range []interface{}{uint8(1), uint64(1), struct{}{}, []int{1}, map[string]int{}} {
			_, err := ValueOf(in)
			assert.True(t, ErrUnsupportedType.Is(err), "%T", in)
		}
	})
}

func TestValueAccessors(t *testing.T) {
	i16, ok := Int16(-3).AsInt16()
	assert.True(t, ok)
	assert.Equal(t, int16(-3), i16)

	i32, ok := Int32(math.MinInt32).AsInt32()
	assert.True(t, ok)
	assert.Equal(t, int32(math.MinInt32), i32)

	i64, ok := Int64(math.MaxInt64).AsInt64()
	assert.True(t, ok)
	assert.Equal(t, int64(math.MaxInt64), i64)

	_, ok = Int32(1).AsInt64()
	assert.False(t, ok)

	s, ok := String("bob").AsString()
	assert.True(t, ok)
	assert.Equal(t, "bob", s)

	b, ok := Bool(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	f32, ok := Float32(21.2).AsFloat32()
	assert.True(t, ok)
	assert.Equal(t, float32(21.2), f32)

	f64, ok := Float64(12.3).AsFloat64()
	assert.True(t, ok)
	assert.Equal(t, 12.3, f64)

	src := []byte{1, 2, 3}
	v := Bytes(src)
	src[0] = 9
	bb, ok := v.AsBytes()
	assert.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, bb)

	assert.True(t, Null().IsNull())
	assert.True(t, Value{}.IsNull())
	assert.Nil(t, Null().Interface())
	assert.Equal(t, int32(5), Int32(5).Interface())
}

func TestValueCompare(t *testing.T) {
	tests := []struct {
		name string
		l, r Value
		want int
	}{
		{name: "null null", l: Null(), r: Null(), want: 0},
		{name: "null first", l: Null(), r: Bytes([]byte{2}), want: -1},
		{name: "null last", l: Int16(0), r: Null(), want: 1},
		{name: "string", l: String("alex"), r: String("bob"), want: -1},
		{name: "string equal", l: String("alex"), r: String("alex"), want: 0},
		{name: "string prefix", l: String("al"), r: String("alex"), want: -1},
		// U+1F600 is the surrogate pair D83D DE00, which sorts below U+FFFD
		{name: "string utf16 units", l: String("\U0001F600"), r: String("\uFFFD"), want: -1},
		{name: "string bmp", l: String("\u00e9"), r: String("\u4e2d"), want: -1},
		{name: "int16", l: Int16(2), r: Int16(1), want: 1},
		{name: "int32", l: Int32(-5), r: Int32(1), want: -1},
		{name: "int64", l: Int64(math.MinInt64), r: Int64(math.MaxInt64), want: -1},
		{name: "bool", l: Bool(false), r: Bool(true), want: -1},
		{name: "float64", l: Float64(1.0), r: Float64(2.0), want: -1},
		{name: "float32", l: Float32(2.0), r: Float32(1.0), want: 1},
		{name: "negative zero", l: Float64(math.Copysign(0, -1)), r: Float64(0), want: -1},
		{name: "nan after inf", l: Float64(math.NaN()), r: Float64(math.Inf(1)), want: 1},
		{name: "nan equals nan", l: Float32(float32(math.NaN())), r: Float32(float32(math.NaN())), want: 0},
		{name: "bytes lexicographic", l: Bytes([]byte{1, 2, 3}), r: Bytes([]byte{2}), want: -1},
		{name: "bytes prefix", l: Bytes([]byte{1}), r: Bytes([]byte{1, 0}), want: -1},
		{name: "bytes unsigned", l: Bytes([]byte{0x7f}), r: Bytes([]byte{0x80}), want: -1},
		{name: "kinds ordered", l: String("z"), r: Int32(0), want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.l.Compare(tt.r))
			assert.Equal(t, -tt.want, tt.r.Compare(tt.l))
		})
	}
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Null().Equal(Null()))
	assert.True(t, Float64(math.NaN()).Equal(Float64(math.NaN())))
	assert.False(t, Float64(0).Equal(Float64(math.Copysign(0, -1))))
	assert.False(t, Int32(1).Equal(Int64(1)))
	assert.False(t, String("1").Equal(Bytes([]byte("1"))))
	assert.False(t, Null().Equal(Int32(0)))
	assert.True(t, Bytes([]byte{1, 2, 3}).Equal(Bytes([]byte{1, 2, 3})))
}

func TestValueHash(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want int32
	}{
		{name: "null", v: Null(), want: 0},
		{name: "int16", v: Int16(-3), want: -3},
		{name: "int32", v: Int32(42), want: 42},
		{name: "int64 folds high word", v: Int64(1 << 32), want: 1},
		{name: "int64 negative", v: Int64(-1), want: 0},
		{name: "true", v: Bool(true), want: 1231},
		{name: "false", v: Bool(false), want: 1237},
		{name: "string", v: String("alex"), want: 2996766},
		{name: "empty string", v: String(""), want: 0},
		{name: "bytes", v: Bytes([]byte{1, 2, 3}), want: 30817},
		{name: "signed bytes", v: Bytes([]byte{0xff}), want: 30},
		{name: "float64 one", v: Float64(1.0), want: 1072693248},
		{name: "float32 one", v: Float32(1.0), want: 1065353216},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Hash())
		})
	}
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "null", Null().String())
	assert.Equal(t, "alex", String("alex").String())
	assert.Equal(t, "010203", Bytes([]byte{1, 2, 3}).String())
	assert.Equal(t, "12.3", Float64(12.3).String())
	assert.Equal(t, "21.2", Float32(21.2).String())
	assert.Equal(t, "-7", Int16(-7).String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "Kind(200)", Kind(200).String())
}
