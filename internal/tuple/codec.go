package tuple

import (
	"encoding/binary"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Wire tags of the field records. Every record is a varint tag followed by
// the payload for that tag.
const (
	tagString  = 1
	tagFloat32 = 2
	tagFloat64 = 3
	tagInt32   = 4
	tagInt64   = 5
	tagBool    = 6
	tagInt16   = 7
	tagBytes   = 8
	tagNull    = 9
)

// AppendTuple appends the encoding of t to buf: a varint field count
// followed by one record per field.
func AppendTuple(buf []byte, t *Tuple) ([]byte, error) {
	buf = protowire.AppendVarint(buf, uint64(len(t.fields)))
	for _, v := range t.fields {
		var err error
		if buf, err = AppendValue(buf, v); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// AppendValue appends a single field record to buf.
func AppendValue(buf []byte, v Value) ([]byte, error) {
	switch v.kind {
	case KindString:
		buf = protowire.AppendVarint(buf, tagString)
		buf = protowire.AppendString(buf, v.str)
	case KindFloat32:
		buf = protowire.AppendVarint(buf, tagFloat32)
		buf = binary.BigEndian.AppendUint32(buf, uint32(v.bits))
	case KindFloat64:
		buf = protowire.AppendVarint(buf, tagFloat64)
		buf = binary.BigEndian.AppendUint64(buf, v.bits)
	case KindInt32:
		buf = protowire.AppendVarint(buf, tagInt32)
		buf = protowire.AppendVarint(buf, protowire.EncodeZigZag(int64(int32(v.bits))))
	case KindInt64:
		buf = protowire.AppendVarint(buf, tagInt64)
		buf = protowire.AppendVarint(buf, protowire.EncodeZigZag(int64(v.bits)))
	case KindBool:
		buf = protowire.AppendVarint(buf, tagBool)
		buf = append(buf, byte(v.bits))
	case KindInt16:
		buf = protowire.AppendVarint(buf, tagInt16)
		buf = binary.BigEndian.AppendUint16(buf, uint16(v.bits))
	case KindBytes:
		buf = protowire.AppendVarint(buf, tagBytes)
		buf = protowire.AppendString(buf, v.str)
	case KindNull:
		buf = protowire.AppendVarint(buf, tagNull)
	default:
		return nil, ErrUnsupportedType.New(v.kind)
	}
	return buf, nil
}

// ReadTuple decodes one tuple from the front of b and returns it together
// with the number of bytes consumed.
func ReadTuple(b []byte) (*Tuple, int, error) {
	fields, n, err := readFields(b)
	if err != nil {
		return nil, 0, err
	}
	return &Tuple{fields: fields}, n, nil
}

func readFields(b []byte) ([]Value, int, error) {
	count, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return nil, 0, ErrMalformed.New(protowire.ParseError(n))
	}
	// every record is at least one byte long
	if count > uint64(len(b)-n) {
		return nil, 0, ErrMalformed.New(fmt.Sprintf("field count %d exceeds input", count))
	}

	fields := make([]Value, 0, count)
	for i := uint64(0); i < count; i++ {
		v, m, err := ReadValue(b[n:])
		if err != nil {
			return nil, 0, err
		}
		fields = append(fields, v)
		n += m
	}
	return fields, n, nil
}

// ReadValue decodes one field record from the front of b and returns it
// together with the number of bytes consumed.
func ReadValue(b []byte) (Value, int, error) {
	tag, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return Value{}, 0, ErrMalformed.New(protowire.ParseError(n))
	}
	rest := b[n:]

	var (
		v Value
		m int
	)
	switch tag {
	case tagString:
		var s string
		if s, m = protowire.ConsumeString(rest); m < 0 {
			return Value{}, 0, ErrMalformed.New(protowire.ParseError(m))
		}
		v = String(s)
	case tagFloat32:
		if len(rest) < 4 {
			return Value{}, 0, ErrMalformed.New("short float32 payload")
		}
		v, m = Float32(math.Float32frombits(binary.BigEndian.Uint32(rest))), 4
	case tagFloat64:
		if len(rest) < 8 {
			return Value{}, 0, ErrMalformed.New("short float64 payload")
		}
		v, m = Float64(math.Float64frombits(binary.BigEndian.Uint64(rest))), 8
	case tagInt32:
		var x uint64
		if x, m = protowire.ConsumeVarint(rest); m < 0 {
			return Value{}, 0, ErrMalformed.New(protowire.ParseError(m))
		}
		z := protowire.DecodeZigZag(x)
		if z < math.MinInt32 || z > math.MaxInt32 {
			return Value{}, 0, ErrMalformed.New(fmt.Sprintf("int32 out of range: %d", z))
		}
		v = Int32(int32(z))
	case tagInt64:
		var x uint64
		if x, m = protowire.ConsumeVarint(rest); m < 0 {
			return Value{}, 0, ErrMalformed.New(protowire.ParseError(m))
		}
		v = Int64(protowire.DecodeZigZag(x))
	case tagBool:
		if len(rest) < 1 {
			return Value{}, 0, ErrMalformed.New("short bool payload")
		}
		switch rest[0] {
		case 0:
			v = Bool(false)
		case 1:
			v = Bool(true)
		default:
			return Value{}, 0, ErrMalformed.New(fmt.Sprintf("invalid bool byte %#x", rest[0]))
		}
		m = 1
	case tagInt16:
		if len(rest) < 2 {
			return Value{}, 0, ErrMalformed.New("short int16 payload")
		}
		v, m = Int16(int16(binary.BigEndian.Uint16(rest))), 2
	case tagBytes:
		var bb []byte
		if bb, m = protowire.ConsumeBytes(rest); m < 0 {
			return Value{}, 0, ErrMalformed.New(protowire.ParseError(m))
		}
		v = Bytes(bb)
	case tagNull:
		v = Null()
	default:
		return Value{}, 0, ErrUnsupportedType.New(fmt.Sprintf("tag %d", tag))
	}
	return v, n + m, nil
}
