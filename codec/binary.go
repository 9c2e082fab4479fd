// Package codec converts values between their in-memory form and two
// wire forms: a stable msgpack binary encoding used by the bolt-backed
// store, and a typed JSON interchange form used by the JSON store and
// the CLI. Both encodings are reversible for all ten value kinds,
// including signed zero and empty maps. The binary form also keeps NaN
// payload bits; the JSON form decodes every NaN as math.NaN().
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pocketdoc/pocketdoc/value"
)

// ErrInternal marks a decode that hit an unknown value tag or a
// malformed payload that a well-behaved writer can never produce.
// Match with errors.Is.
var ErrInternal = errors.New("internal codec error")

// Binary kind tags. Tag values are part of the stored format; append
// only.
const (
	tagNull byte = iota
	tagBooleanFalse
	tagBooleanTrue
	tagInteger
	tagDouble
	tagTimestamp
	tagString
	tagBytes
	tagReference
	tagGeoPoint
	tagArray
	tagMap
)

// Encode renders v in the binary wire form.
func Encode(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encodeValue(enc, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a binary wire form produced by Encode.
func Decode(data []byte) (value.Value, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func encodeValue(enc *msgpack.Encoder, v value.Value) error {
	switch t := v.(type) {
	case value.NullValue:
		return enc.EncodeUint8(tagNull)
	case value.BooleanValue:
		if bool(t) {
			return enc.EncodeUint8(tagBooleanTrue)
		}
		return enc.EncodeUint8(tagBooleanFalse)
	case value.IntegerValue:
		if err := enc.EncodeUint8(tagInteger); err != nil {
			return err
		}
		return enc.EncodeInt64(int64(t))
	case value.DoubleValue:
		if err := enc.EncodeUint8(tagDouble); err != nil {
			return err
		}
		// Raw bits, so NaN payloads and -0.0 survive the round trip.
		return enc.EncodeUint64(math.Float64bits(float64(t)))
	case value.TimestampValue:
		if err := enc.EncodeUint8(tagTimestamp); err != nil {
			return err
		}
		if err := enc.EncodeInt64(t.Seconds); err != nil {
			return err
		}
		return enc.EncodeInt32(t.Nanos)
	case value.StringValue:
		if err := enc.EncodeUint8(tagString); err != nil {
			return err
		}
		return enc.EncodeString(string(t))
	case value.BytesValue:
		if err := enc.EncodeUint8(tagBytes); err != nil {
			return err
		}
		return enc.EncodeBytes(t)
	case value.ReferenceValue:
		if err := enc.EncodeUint8(tagReference); err != nil {
			return err
		}
		return enc.EncodeString(string(t))
	case value.GeoPointValue:
		if err := enc.EncodeUint8(tagGeoPoint); err != nil {
			return err
		}
		if err := enc.EncodeUint64(math.Float64bits(t.Latitude)); err != nil {
			return err
		}
		return enc.EncodeUint64(math.Float64bits(t.Longitude))
	case value.ArrayValue:
		if err := enc.EncodeUint8(tagArray); err != nil {
			return err
		}
		if err := enc.EncodeArrayLen(len(t)); err != nil {
			return err
		}
		for _, e := range t {
			if err := encodeValue(enc, e); err != nil {
				return err
			}
		}
		return nil
	}

	m, ok := v.(value.Map)
	if !ok {
		return fmt.Errorf("%w: cannot encode value of kind %v", ErrInternal, v.Kind())
	}
	if err := enc.EncodeUint8(tagMap); err != nil {
		return err
	}
	if err := enc.EncodeMapLen(value.MapLen(m)); err != nil {
		return err
	}
	for it := m.Fields(); ; {
		name, child, ok := it.Next()
		if !ok {
			return nil
		}
		if err := enc.EncodeString(name); err != nil {
			return err
		}
		if err := encodeValue(enc, child); err != nil {
			return err
		}
	}
}

func decodeValue(dec *msgpack.Decoder) (value.Value, error) {
	tag, err := dec.DecodeUint8()
	if err != nil {
		return nil, fmt.Errorf("%w: reading value tag: %v", ErrInternal, err)
	}
	switch tag {
	case tagNull:
		return value.Null(), nil
	case tagBooleanFalse:
		return value.Boolean(false), nil
	case tagBooleanTrue:
		return value.Boolean(true), nil
	case tagInteger:
		i, err := dec.DecodeInt64()
		if err != nil {
			return nil, fmt.Errorf("%w: reading integer: %v", ErrInternal, err)
		}
		return value.Integer(i), nil
	case tagDouble:
		bits, err := dec.DecodeUint64()
		if err != nil {
			return nil, fmt.Errorf("%w: reading double: %v", ErrInternal, err)
		}
		return value.Double(math.Float64frombits(bits)), nil
	case tagTimestamp:
		sec, err := dec.DecodeInt64()
		if err != nil {
			return nil, fmt.Errorf("%w: reading timestamp seconds: %v", ErrInternal, err)
		}
		nanos, err := dec.DecodeInt32()
		if err != nil {
			return nil, fmt.Errorf("%w: reading timestamp nanos: %v", ErrInternal, err)
		}
		return value.Timestamp(sec, nanos), nil
	case tagString:
		s, err := dec.DecodeString()
		if err != nil {
			return nil, fmt.Errorf("%w: reading string: %v", ErrInternal, err)
		}
		return value.String(s), nil
	case tagBytes:
		b, err := dec.DecodeBytes()
		if err != nil {
			return nil, fmt.Errorf("%w: reading bytes: %v", ErrInternal, err)
		}
		return value.Bytes(b), nil
	case tagReference:
		s, err := dec.DecodeString()
		if err != nil {
			return nil, fmt.Errorf("%w: reading reference: %v", ErrInternal, err)
		}
		return value.Reference(s), nil
	case tagGeoPoint:
		lat, err := dec.DecodeUint64()
		if err != nil {
			return nil, fmt.Errorf("%w: reading latitude: %v", ErrInternal, err)
		}
		lng, err := dec.DecodeUint64()
		if err != nil {
			return nil, fmt.Errorf("%w: reading longitude: %v", ErrInternal, err)
		}
		return value.GeoPoint(math.Float64frombits(lat), math.Float64frombits(lng)), nil
	case tagArray:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, fmt.Errorf("%w: reading array length: %v", ErrInternal, err)
		}
		elems := make([]value.Value, n)
		for i := range elems {
			if elems[i], err = decodeValue(dec); err != nil {
				return nil, err
			}
		}
		return value.Array(elems...), nil
	case tagMap:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return nil, fmt.Errorf("%w: reading map length: %v", ErrInternal, err)
		}
		fields := make(map[string]value.Value, n)
		for i := 0; i < n; i++ {
			name, err := dec.DecodeString()
			if err != nil {
				return nil, fmt.Errorf("%w: reading map key: %v", ErrInternal, err)
			}
			if fields[name], err = decodeValue(dec); err != nil {
				return nil, err
			}
		}
		return value.NewMap(fields), nil
	}
	return nil, fmt.Errorf("%w: unknown value tag %d", ErrInternal, tag)
}
