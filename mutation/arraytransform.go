// Package mutation implements the idempotent array transforms applied
// to document fields: union and remove. Transforms read the prior field
// value and return a new one; applying a transform twice gives the same
// result as applying it once, so the local view and the recomputed
// remote view always coincide.
package mutation

import "github.com/pocketdoc/pocketdoc/value"

// ArrayTransform is either a Union or a Remove. Equality is
// tag-sensitive: a Union and a Remove over the same elements are never
// equal.
type ArrayTransform interface {
	// Apply transforms the prior field value. A prior that is nil or
	// not an array is treated as an empty array.
	Apply(prior value.Value) value.Value

	// Elements returns the transform's elements in application order.
	// Callers must not mutate the result.
	Elements() []value.Value

	// Equal reports whether other is the same transform variant over
	// equivalent elements.
	Equal(other ArrayTransform) bool
}

// Union appends each of its elements that is not already present in the
// prior array. Pre-existing order and duplicates in the prior survive;
// duplicates among the union's own elements collapse to the first.
type Union struct {
	elements []value.Value
}

// NewUnion builds a union transform over elems.
func NewUnion(elems ...value.Value) Union {
	return Union{elements: copyElements(elems)}
}

// Apply implements ArrayTransform.
func (u Union) Apply(prior value.Value) value.Value {
	result := coerceArray(prior)
	for _, e := range u.elements {
		if !containsEquivalent(result, e) {
			result = append(result, e)
		}
	}
	return value.ArrayValue(result)
}

// Elements implements ArrayTransform.
func (u Union) Elements() []value.Value { return u.elements }

// Equal implements ArrayTransform.
func (u Union) Equal(other ArrayTransform) bool {
	o, ok := other.(Union)
	return ok && elementsEquivalent(u.elements, o.elements)
}

// Remove deletes every occurrence of each of its elements from the
// prior array.
type Remove struct {
	elements []value.Value
}

// NewRemove builds a remove transform over elems.
func NewRemove(elems ...value.Value) Remove {
	return Remove{elements: copyElements(elems)}
}

// Apply implements ArrayTransform.
func (r Remove) Apply(prior value.Value) value.Value {
	existing := coerceArray(prior)
	result := make([]value.Value, 0, len(existing))
	for _, v := range existing {
		if !containsEquivalent(r.elements, v) {
			result = append(result, v)
		}
	}
	return value.ArrayValue(result)
}

// Elements implements ArrayTransform.
func (r Remove) Elements() []value.Value { return r.elements }

// Equal implements ArrayTransform.
func (r Remove) Equal(other ArrayTransform) bool {
	o, ok := other.(Remove)
	return ok && elementsEquivalent(r.elements, o.elements)
}

// coerceArray returns the prior's elements, or an empty slice when the
// prior is nil or not an array.
func coerceArray(prior value.Value) []value.Value {
	arr, ok := prior.(value.ArrayValue)
	if !ok {
		return nil
	}
	out := make([]value.Value, len(arr))
	copy(out, arr)
	return out
}

// Membership uses the comparator's equivalence rather than predicate
// equality: under predicate equality NaN never equals NaN, which would
// make a union containing NaN grow on every application and break
// idempotence.
func containsEquivalent(list []value.Value, v value.Value) bool {
	for _, e := range list {
		if value.Equivalent(e, v) {
			return true
		}
	}
	return false
}

func elementsEquivalent(l, r []value.Value) bool {
	if len(l) != len(r) {
		return false
	}
	for i := range l {
		if !value.Equivalent(l[i], r[i]) {
			return false
		}
	}
	return true
}

func copyElements(elems []value.Value) []value.Value {
	out := make([]value.Value, len(elems))
	copy(out, elems)
	return out
}
