package mutation_test

import (
	"math"
	"testing"

	"github.com/pocketdoc/pocketdoc/mutation"
	"github.com/pocketdoc/pocketdoc/value"
)

func ints(ns ...int64) value.ArrayValue {
	elems := make([]value.Value, len(ns))
	for i, n := range ns {
		elems[i] = value.Integer(n)
	}
	return value.Array(elems...)
}

func assertArray(t *testing.T, got value.Value, want value.ArrayValue) {
	t.Helper()
	if value.Compare(got, want) != 0 {
		t.Errorf("got %s, want %s", value.CanonicalString(got), value.CanonicalString(want))
	}
}

func TestUnion(t *testing.T) {
	t.Run("appends missing, keeps order", func(t *testing.T) {
		u := mutation.NewUnion(value.Integer(1), value.Integer(2), value.Integer(2), value.Integer(3))
		assertArray(t, u.Apply(ints(2, 4)), ints(2, 4, 1, 3))
	})

	t.Run("base duplicates survive", func(t *testing.T) {
		u := mutation.NewUnion(value.Integer(1))
		assertArray(t, u.Apply(ints(2, 2)), ints(2, 2, 1))
	})

	t.Run("coerces null prior", func(t *testing.T) {
		u := mutation.NewUnion(value.Integer(1))
		assertArray(t, u.Apply(value.Null()), ints(1))
	})

	t.Run("coerces scalar prior", func(t *testing.T) {
		u := mutation.NewUnion(value.Integer(1))
		assertArray(t, u.Apply(value.String("not an array")), ints(1))
	})

	t.Run("idempotent", func(t *testing.T) {
		u := mutation.NewUnion(value.Integer(7), value.String("x"))
		once := u.Apply(ints(1))
		twice := u.Apply(once)
		assertArray(t, twice, once.(value.ArrayValue))
	})

	t.Run("idempotent with NaN element", func(t *testing.T) {
		u := mutation.NewUnion(value.Double(math.NaN()))
		once := u.Apply(ints())
		twice := u.Apply(once)
		if len(twice.(value.ArrayValue)) != 1 {
			t.Errorf("NaN union grew the array: %s", value.CanonicalString(twice))
		}
	})

	t.Run("mixed numeric dedup", func(t *testing.T) {
		// The integer 2 already present means the double 2.0 is too.
		u := mutation.NewUnion(value.Double(2.0))
		assertArray(t, u.Apply(ints(2)), ints(2))
	})
}

func TestRemove(t *testing.T) {
	t.Run("removes every occurrence", func(t *testing.T) {
		r := mutation.NewRemove(value.Integer(2))
		assertArray(t, r.Apply(ints(1, 2, 3, 2)), ints(1, 3))
	})

	t.Run("on null prior", func(t *testing.T) {
		r := mutation.NewRemove(value.Integer(1))
		assertArray(t, r.Apply(value.Null()), ints())
	})

	t.Run("idempotent", func(t *testing.T) {
		r := mutation.NewRemove(value.Integer(1))
		once := r.Apply(ints(1, 2, 1))
		twice := r.Apply(once)
		assertArray(t, twice, once.(value.ArrayValue))
	})
}

func TestTransformEquality(t *testing.T) {
	u1 := mutation.NewUnion(value.Integer(1))
	u2 := mutation.NewUnion(value.Integer(1))
	r1 := mutation.NewRemove(value.Integer(1))

	if !u1.Equal(u2) {
		t.Error("identical unions unequal")
	}
	if u1.Equal(r1) {
		t.Error("union equals remove over the same elements")
	}
	if u1.Equal(mutation.NewUnion(value.Integer(2))) {
		t.Error("unions over different elements equal")
	}
}
