package codec_test

import (
	"math"
	"testing"

	"github.com/pocketdoc/pocketdoc/codec"
	"github.com/pocketdoc/pocketdoc/model"
	"github.com/pocketdoc/pocketdoc/value"
)

// fixtures covers every kind plus the values that commonly break
// encoders: NaN, infinities, signed zero, int64 extremes, empty
// composites and nesting.
func fixtures() map[string]value.Value {
	return map[string]value.Value{
		"null":           value.Null(),
		"false":          value.Boolean(false),
		"true":           value.Boolean(true),
		"zero":           value.Integer(0),
		"max int":        value.Integer(math.MaxInt64),
		"min int":        value.Integer(math.MinInt64),
		"double":         value.Double(1.5),
		"NaN":            value.Double(math.NaN()),
		"+inf":           value.Double(math.Inf(1)),
		"-inf":           value.Double(math.Inf(-1)),
		"negative zero":  value.Double(math.Copysign(0, -1)),
		"timestamp":      value.Timestamp(1700000000, 999999999),
		"empty string":   value.String(""),
		"string":         value.String("héllo"),
		"bytes":          value.Bytes([]byte{0x00, 0x01, 0xff}),
		"empty bytes":    value.Bytes(nil),
		"reference":      value.Reference("users/alice"),
		"geopoint":       value.GeoPoint(-12.5, 170.25),
		"empty array":    value.Array(),
		"empty map":      value.EmptyMap(),
		"nested": value.NewMap(map[string]value.Value{
			"arr": value.Array(value.Integer(1), value.String("two"), value.Null()),
			"obj": value.NewMap(map[string]value.Value{"inner": value.Boolean(true)}),
		}),
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	for name, v := range fixtures() {
		t.Run(name, func(t *testing.T) {
			data, err := codec.Encode(v)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := codec.Decode(data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			assertSameValue(t, v, got)
		})
	}
}

func TestBinaryIsStable(t *testing.T) {
	v := fixtures()["nested"]
	a, err := codec.Encode(v)
	if err != nil {
		t.Fatal(err)
	}
	b, err := codec.Encode(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("two encodings of the same value differ")
	}
}

func TestBinaryEncodesOverlaidObjects(t *testing.T) {
	o := model.ObjectValueFromFields(map[string]value.Value{
		"keep": value.Integer(1),
		"gone": value.Integer(2),
	}).Delete(model.MustFieldPath("gone")).
		Set(model.MustFieldPath("added"), value.String("x"))

	data, err := codec.Encode(o)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	// The decoded form is the merged logical state.
	if value.Compare(got, o) != 0 {
		t.Errorf("decoded %s, want %s", value.CanonicalString(got), value.CanonicalString(o))
	}
}

func TestBinaryRejectsUnknownTag(t *testing.T) {
	// A tag far outside the known range.
	data := []byte{0xcc, 0x7f} // msgpack uint8 127
	if _, err := codec.Decode(data); err == nil {
		t.Error("unknown tag decoded without error")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	for name, v := range fixtures() {
		t.Run(name, func(t *testing.T) {
			data, err := codec.EncodeJSON(v)
			if err != nil {
				t.Fatalf("EncodeJSON: %v", err)
			}
			got, err := codec.DecodeJSON(data)
			if err != nil {
				t.Fatalf("DecodeJSON(%s): %v", data, err)
			}
			assertSameValue(t, v, got)
		})
	}
}

func TestJSONDistinguishesIntegerFromDouble(t *testing.T) {
	data, err := codec.EncodeJSON(value.Integer(3))
	if err != nil {
		t.Fatal(err)
	}
	got, err := codec.DecodeJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind() != value.KindInteger {
		t.Errorf("integer decoded as %v", got.Kind())
	}

	got, err = codec.DecodeJSON([]byte("3.0"))
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind() != value.KindDouble {
		t.Errorf("bare number decoded as %v, want double", got.Kind())
	}
}

// assertSameValue requires comparator equivalence plus matching kind,
// and for doubles matching bit patterns, which is stricter than
// Compare (it catches -0.0 flattened to 0.0 and NaN payload loss).
func assertSameValue(t *testing.T, want, got value.Value) {
	t.Helper()
	if got.Kind() != want.Kind() {
		t.Fatalf("kind = %v, want %v", got.Kind(), want.Kind())
	}
	if wd, ok := want.(value.DoubleValue); ok {
		gd := got.(value.DoubleValue)
		if math.Float64bits(float64(wd)) != math.Float64bits(float64(gd)) {
			t.Fatalf("double bits differ: got %x, want %x",
				math.Float64bits(float64(gd)), math.Float64bits(float64(wd)))
		}
		return
	}
	if value.Compare(want, got) != 0 {
		t.Fatalf("got %s, want %s", value.CanonicalString(got), value.CanonicalString(want))
	}
}
