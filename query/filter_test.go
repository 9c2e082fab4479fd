package query_test

import (
	"errors"
	"math"
	"testing"

	"github.com/pocketdoc/pocketdoc/model"
	"github.com/pocketdoc/pocketdoc/query"
	"github.com/pocketdoc/pocketdoc/value"
)

func doc(t *testing.T, key string, fields map[string]value.Value) model.Document {
	t.Helper()
	k, err := model.ParseDocumentKey(key)
	if err != nil {
		t.Fatal(err)
	}
	return model.NewDocument(k, 1, model.ObjectValueFromFields(fields))
}

func mustFilter(t *testing.T, field string, op query.Operator, bound value.Value) query.Filter {
	t.Helper()
	f, err := query.Create(model.MustFieldPath(field), op, bound)
	if err != nil {
		t.Fatalf("Create(%s %s %s): %v", field, op, value.CanonicalString(bound), err)
	}
	return f
}

func TestCreateValidation(t *testing.T) {
	path := model.MustFieldPath("f")
	tests := []struct {
		name  string
		field model.FieldPath
		op    query.Operator
		bound value.Value
	}{
		{"null with less-than", path, query.LessThan, value.Null()},
		{"null with in", path, query.In, value.Null()},
		{"NaN with greater-than", path, query.GreaterThan, value.Double(math.NaN())},
		{"in with scalar bound", path, query.In, value.Integer(1)},
		{"array-contains-any with scalar bound", path, query.ArrayContainsAny, value.Integer(1)},
		{"array-contains on key field", model.KeyFieldPath(), query.ArrayContains, value.Reference("a/b")},
		{"array-contains-any on key field", model.KeyFieldPath(), query.ArrayContainsAny, value.Array(value.Reference("a/b"))},
		{"key field with string bound", model.KeyFieldPath(), query.Equal, value.String("a/b")},
		{"key field in with non-reference elements", model.KeyFieldPath(), query.In, value.Array(value.String("a/b"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := query.Create(tt.field, tt.op, tt.bound)
			if !errors.Is(err, query.ErrInvalidArgument) {
				t.Errorf("Create err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestRelationalMatches(t *testing.T) {
	d := doc(t, "users/a", map[string]value.Value{
		"n": value.Integer(5),
		"s": value.String("m"),
	})

	tests := []struct {
		name  string
		field string
		op    query.Operator
		bound value.Value
		want  bool
	}{
		{"equal hit", "n", query.Equal, value.Integer(5), true},
		{"equal miss", "n", query.Equal, value.Integer(6), false},
		{"equal across representations", "n", query.Equal, value.Double(5.0), true},
		{"less-than hit", "n", query.LessThan, value.Integer(6), true},
		{"less-than miss", "n", query.LessThan, value.Integer(5), false},
		{"less-or-equal boundary", "n", query.LessThanOrEqual, value.Integer(5), true},
		{"greater-than hit", "s", query.GreaterThan, value.String("a"), true},
		{"greater-or-equal boundary", "s", query.GreaterThanOrEqual, value.String("m"), true},
		{"missing field", "ghost", query.Equal, value.Integer(5), false},
		{"cross-type inequality never matches", "n", query.GreaterThan, value.String("a"), false},
		{"cross-type inequality other direction", "s", query.LessThan, value.Integer(10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustFilter(t, tt.field, tt.op, tt.bound)
			if got := f.Matches(d); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNullAndNaNEquality(t *testing.T) {
	withNaN := doc(t, "users/a", map[string]value.Value{"f": value.Double(math.NaN())})
	withZero := doc(t, "users/b", map[string]value.Value{"f": value.Double(0)})
	withNull := doc(t, "users/c", map[string]value.Value{"f": value.Null()})

	nanFilter := mustFilter(t, "f", query.Equal, value.Double(math.NaN()))
	if !nanFilter.Matches(withNaN) {
		t.Error("== NaN should match a NaN field")
	}
	if nanFilter.Matches(withZero) {
		t.Error("== NaN should not match 0.0")
	}

	zeroFilter := mustFilter(t, "f", query.Equal, value.Double(0))
	if zeroFilter.Matches(withNaN) {
		t.Error("== 0.0 should not match NaN")
	}

	nullFilter := mustFilter(t, "f", query.Equal, value.Null())
	if !nullFilter.Matches(withNull) {
		t.Error("== null should match a null field")
	}
	if nullFilter.Matches(withZero) {
		t.Error("== null should not match 0.0")
	}
}

func TestArrayOperators(t *testing.T) {
	d := doc(t, "users/a", map[string]value.Value{
		"tags":   value.Array(value.Boolean(true), value.String("x"), value.Null()),
		"scalar": value.String("x"),
	})

	t.Run("array-contains hit", func(t *testing.T) {
		f := mustFilter(t, "tags", query.ArrayContains, value.String("x"))
		if !f.Matches(d) {
			t.Error("want match")
		}
	})
	t.Run("array-contains miss", func(t *testing.T) {
		f := mustFilter(t, "tags", query.ArrayContains, value.String("y"))
		if f.Matches(d) {
			t.Error("want no match")
		}
	})
	t.Run("array-contains on scalar field", func(t *testing.T) {
		f := mustFilter(t, "scalar", query.ArrayContains, value.String("x"))
		if f.Matches(d) {
			t.Error("scalar field should not match array-contains")
		}
	})
	t.Run("array-contains-any hit", func(t *testing.T) {
		f := mustFilter(t, "tags", query.ArrayContainsAny, value.Array(value.Integer(1), value.String("x")))
		if !f.Matches(d) {
			t.Error("want match")
		}
	})
	t.Run("array-contains-any on scalar field", func(t *testing.T) {
		f := mustFilter(t, "scalar", query.ArrayContainsAny, value.Array(value.Integer(1), value.String("x")))
		if f.Matches(d) {
			t.Error("scalar field should not match array-contains-any")
		}
	})
	t.Run("in hit", func(t *testing.T) {
		f := mustFilter(t, "scalar", query.In, value.Array(value.String("x"), value.String("y")))
		if !f.Matches(d) {
			t.Error("want match")
		}
	})
	t.Run("in miss", func(t *testing.T) {
		f := mustFilter(t, "scalar", query.In, value.Array(value.String("z")))
		if f.Matches(d) {
			t.Error("want no match")
		}
	})
	t.Run("in with NaN element never matches", func(t *testing.T) {
		nanDoc := doc(t, "users/n", map[string]value.Value{"f": value.Double(math.NaN())})
		f := mustFilter(t, "f", query.In, value.Array(value.Double(math.NaN())))
		if f.Matches(nanDoc) {
			t.Error("in-list NaN should not match a NaN field")
		}
	})
}

func TestKeyFilters(t *testing.T) {
	a1 := doc(t, "a/1", nil)
	a2 := doc(t, "a/2", nil)
	a3 := doc(t, "a/3", nil)

	t.Run("key in", func(t *testing.T) {
		f, err := query.Create(model.KeyFieldPath(), query.In,
			value.Array(value.Reference("a/1"), value.Reference("a/2")))
		if err != nil {
			t.Fatal(err)
		}
		if !f.Matches(a1) || !f.Matches(a2) {
			t.Error("listed keys should match")
		}
		if f.Matches(a3) {
			t.Error("unlisted key should not match")
		}
	})

	t.Run("key relational", func(t *testing.T) {
		f, err := query.Create(model.KeyFieldPath(), query.GreaterThan, value.Reference("a/1"))
		if err != nil {
			t.Fatal(err)
		}
		if f.Matches(a1) {
			t.Error("a/1 should not be greater than itself")
		}
		if !f.Matches(a2) {
			t.Error("a/2 should be greater than a/1")
		}
	})

	t.Run("key equality", func(t *testing.T) {
		f, err := query.Create(model.KeyFieldPath(), query.Equal, value.Reference("a/2"))
		if err != nil {
			t.Fatal(err)
		}
		if !f.Matches(a2) || f.Matches(a1) {
			t.Error("key equality mismatch")
		}
	})
}

func TestCanonicalID(t *testing.T) {
	intF := mustFilter(t, "f", query.Equal, value.Integer(3))
	strF := mustFilter(t, "f", query.Equal, value.String("3"))
	if intF.CanonicalID() == strF.CanonicalID() {
		t.Error("canonical ids collide across bound kinds")
	}
	if intF.CanonicalID() != "f==i:3" {
		t.Errorf("CanonicalID = %q", intF.CanonicalID())
	}
}

func TestFilterEquality(t *testing.T) {
	eq := mustFilter(t, "f", query.Equal, value.Array(value.Integer(1)))
	in := mustFilter(t, "f", query.In, value.Array(value.Integer(1)))
	contains := mustFilter(t, "f", query.ArrayContainsAny, value.Array(value.Integer(1)))

	if eq.Equal(in) || in.Equal(contains) || eq.Equal(contains) {
		t.Error("filters of different variants should never be equal")
	}

	in2 := mustFilter(t, "f", query.In, value.Array(value.Integer(1)))
	if !in.Equal(in2) {
		t.Error("identical in filters should be equal")
	}
}

func TestIsInequality(t *testing.T) {
	if !mustFilter(t, "f", query.LessThan, value.Integer(1)).IsInequality() {
		t.Error("< should be an inequality")
	}
	if mustFilter(t, "f", query.Equal, value.Integer(1)).IsInequality() {
		t.Error("== should not be an inequality")
	}
	if mustFilter(t, "f", query.ArrayContains, value.Integer(1)).IsInequality() {
		t.Error("array-contains should not be an inequality")
	}
}
