package value_test

import (
	"math"
	"testing"

	"github.com/pocketdoc/pocketdoc/value"
)

func TestHashConsistentWithEquivalence(t *testing.T) {
	pairs := []struct {
		name string
		l, r value.Value
	}{
		{"integer vs integral double", value.Integer(3), value.Double(3.0)},
		{"zero vs negative zero", value.Double(0.0), value.Double(math.Copysign(0, -1))},
		{"zero int vs negative zero double", value.Integer(0), value.Double(math.Copysign(0, -1))},
		{"NaN vs NaN", value.Double(math.NaN()), value.Double(math.NaN())},
		{"large integral double", value.Integer(1 << 60), value.Double(float64(int64(1) << 60))},
		{"equal maps", value.NewMap(map[string]value.Value{"a": value.Integer(1), "b": value.String("x")}),
			value.NewMap(map[string]value.Value{"b": value.String("x"), "a": value.Integer(1)})},
		{"equal arrays", value.Array(value.Integer(1), value.Double(2)), value.Array(value.Double(1), value.Integer(2))},
	}
	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			if value.Compare(tt.l, tt.r) != 0 {
				t.Fatalf("fixture values are not equivalent")
			}
			if value.Hash(tt.l) != value.Hash(tt.r) {
				t.Errorf("Hash(%s) != Hash(%s) for equivalent values",
					value.CanonicalString(tt.l), value.CanonicalString(tt.r))
			}
		})
	}
}

func TestHashSpreadsAcrossKinds(t *testing.T) {
	// Same surface payload, different kinds: collisions here would be
	// legal but point at a seeding mistake.
	vals := []value.Value{
		value.String("a/b"),
		value.Reference("a/b"),
		value.Bytes([]byte("a/b")),
	}
	seen := map[uint64]string{}
	for _, v := range vals {
		h := value.Hash(v)
		if prev, dup := seen[h]; dup {
			t.Errorf("Hash collision between %s and %s", prev, value.CanonicalString(v))
		}
		seen[h] = value.CanonicalString(v)
	}
}

func TestHashArrayIsPositional(t *testing.T) {
	a := value.Array(value.Integer(1), value.Integer(2))
	b := value.Array(value.Integer(2), value.Integer(1))
	if value.Hash(a) == value.Hash(b) {
		t.Error("arrays with swapped elements hash identically")
	}
}
