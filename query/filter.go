// Package query evaluates field predicates against documents. A filter
// binds a field path, an operator and a bound value; construction
// validates the combination and routes to the right variant, and
// evaluation is a pure per-document predicate over the value algebra.
package query

import (
	"errors"
	"fmt"

	"github.com/pocketdoc/pocketdoc/model"
	"github.com/pocketdoc/pocketdoc/value"
)

// ErrInvalidArgument marks a filter construction rejected at validation
// time: a Null or NaN bound with anything but equality, an array
// operator on the key field, or a bound whose kind disagrees with the
// operator. Match with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// Operator is a filter's comparison operator.
type Operator int

// The supported operators.
const (
	LessThan Operator = iota
	LessThanOrEqual
	Equal
	GreaterThan
	GreaterThanOrEqual
	In
	ArrayContains
	ArrayContainsAny
)

// String returns the operator's canonical symbol.
func (op Operator) String() string {
	switch op {
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	case Equal:
		return "=="
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	case In:
		return "in"
	case ArrayContains:
		return "array-contains"
	case ArrayContainsAny:
		return "array-contains-any"
	}
	return fmt.Sprintf("operator(%d)", int(op))
}

// ParseOperator maps a canonical symbol back to its operator.
func ParseOperator(s string) (Operator, error) {
	switch s {
	case "<":
		return LessThan, nil
	case "<=":
		return LessThanOrEqual, nil
	case "==", "=":
		return Equal, nil
	case ">":
		return GreaterThan, nil
	case ">=":
		return GreaterThanOrEqual, nil
	case "in":
		return In, nil
	case "array-contains":
		return ArrayContains, nil
	case "array-contains-any":
		return ArrayContainsAny, nil
	}
	return 0, fmt.Errorf("%w: unknown operator %q", ErrInvalidArgument, s)
}

// isInequality reports whether op is one of the four relational
// operators.
func (op Operator) isInequality() bool {
	switch op {
	case LessThan, LessThanOrEqual, GreaterThan, GreaterThanOrEqual:
		return true
	}
	return false
}

// Filter is a single-field predicate over documents. Filters are
// immutable and created once per query. Equality is variant-sensitive:
// two filters are equal only when they are the same variant over an
// equal field, operator and bound.
type Filter interface {
	// Field returns the path the filter reads.
	Field() model.FieldPath

	// Operator returns the comparison operator.
	Operator() Operator

	// Bound returns the value the field is compared against.
	Bound() value.Value

	// Matches evaluates the predicate against one document.
	Matches(doc model.Document) bool

	// CanonicalID is a deduplication key: canonical path, operator
	// symbol and kind-prefixed canonical bound.
	CanonicalID() string

	// IsInequality reports whether the operator is <, <=, > or >=.
	IsInequality() bool

	// Equal reports variant-sensitive equality with another filter.
	Equal(other Filter) bool
}

// Create validates the (field, op, bound) combination and returns the
// appropriate filter variant.
func Create(field model.FieldPath, op Operator, bound value.Value) (Filter, error) {
	if field.Empty() {
		return nil, fmt.Errorf("%w: filter needs a non-empty field path", ErrInvalidArgument)
	}

	if field.IsKeyField() {
		return createKeyFilter(field, op, bound)
	}

	if bound.Kind() == value.KindNull {
		if op != Equal {
			return nil, fmt.Errorf("%w: null supports only equality comparisons", ErrInvalidArgument)
		}
		return fieldFilter{field: field, op: op, bound: bound}, nil
	}
	if d, ok := bound.(value.DoubleValue); ok && d.IsNaN() {
		if op != Equal {
			return nil, fmt.Errorf("%w: NaN supports only equality comparisons", ErrInvalidArgument)
		}
		return fieldFilter{field: field, op: op, bound: bound}, nil
	}

	switch op {
	case ArrayContains:
		return arrayContainsFilter{fieldFilter{field: field, op: op, bound: bound}}, nil
	case In:
		if bound.Kind() != value.KindArray {
			return nil, fmt.Errorf("%w: in filter needs an array bound, got %v", ErrInvalidArgument, bound.Kind())
		}
		return inFilter{fieldFilter{field: field, op: op, bound: bound}}, nil
	case ArrayContainsAny:
		if bound.Kind() != value.KindArray {
			return nil, fmt.Errorf("%w: array-contains-any filter needs an array bound, got %v", ErrInvalidArgument, bound.Kind())
		}
		return arrayContainsAnyFilter{fieldFilter{field: field, op: op, bound: bound}}, nil
	default:
		return fieldFilter{field: field, op: op, bound: bound}, nil
	}
}

func createKeyFilter(field model.FieldPath, op Operator, bound value.Value) (Filter, error) {
	switch op {
	case In:
		arr, ok := bound.(value.ArrayValue)
		if !ok {
			return nil, fmt.Errorf("%w: in filter on the key field needs an array bound", ErrInvalidArgument)
		}
		keys := make([]model.DocumentKey, len(arr))
		for i, e := range arr {
			ref, ok := e.(value.ReferenceValue)
			if !ok {
				return nil, fmt.Errorf("%w: key field in-bound elements must be references, got %v", ErrInvalidArgument, e.Kind())
			}
			key, err := model.ParseDocumentKey(ref.Path())
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
			}
			keys[i] = key
		}
		return keyInFilter{fieldFilter: fieldFilter{field: field, op: op, bound: bound}, keys: keys}, nil
	case ArrayContains, ArrayContainsAny:
		return nil, fmt.Errorf("%w: %s queries make no sense on document keys", ErrInvalidArgument, op)
	default:
		ref, ok := bound.(value.ReferenceValue)
		if !ok {
			return nil, fmt.Errorf("%w: key field filters need a reference bound, got %v", ErrInvalidArgument, bound.Kind())
		}
		key, err := model.ParseDocumentKey(ref.Path())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		return keyFilter{fieldFilter: fieldFilter{field: field, op: op, bound: bound}, key: key}, nil
	}
}

// fieldFilter is the plain relational/equality variant, and the shared
// base of the specialized ones.
type fieldFilter struct {
	field model.FieldPath
	op    Operator
	bound value.Value
}

func (f fieldFilter) Field() model.FieldPath { return f.field }
func (f fieldFilter) Operator() Operator     { return f.op }
func (f fieldFilter) Bound() value.Value     { return f.bound }
func (f fieldFilter) IsInequality() bool     { return f.op.isInequality() }

func (f fieldFilter) CanonicalID() string {
	return f.field.CanonicalString() + f.op.String() + value.CanonicalString(f.bound)
}

// Matches applies the relational predicate. A document matches only
// when the field exists, shares the bound's type-order rank (so a
// cross-type inequality never matches), and the comparator result
// satisfies the operator. The total-order comparator makes NaN equal
// only to NaN under ==, which is exactly the NaN filter semantics.
func (f fieldFilter) Matches(doc model.Document) bool {
	v, ok := doc.Field(f.field)
	if !ok {
		return false
	}
	if value.TypeOrder(v) != value.TypeOrder(f.bound) {
		return false
	}
	return matchesComparison(f.op, value.Compare(v, f.bound))
}

func (f fieldFilter) Equal(other Filter) bool {
	o, ok := other.(fieldFilter)
	return ok && f.sameBinding(o)
}

func (f fieldFilter) sameBinding(o fieldFilter) bool {
	return f.op == o.op && f.field.Equal(o.field) && value.Equivalent(f.bound, o.bound)
}

func (f fieldFilter) String() string {
	return fmt.Sprintf("%s %s %s", f.field.CanonicalString(), f.op, value.CanonicalString(f.bound))
}

func matchesComparison(op Operator, comp int) bool {
	switch op {
	case LessThan:
		return comp < 0
	case LessThanOrEqual:
		return comp <= 0
	case Equal:
		return comp == 0
	case GreaterThan:
		return comp > 0
	case GreaterThanOrEqual:
		return comp >= 0
	}
	panic(fmt.Sprintf("internal: operator %s is not a comparison", op))
}

// arrayContainsFilter matches documents whose field is an array holding
// an element equal to the bound.
type arrayContainsFilter struct {
	fieldFilter
}

func (f arrayContainsFilter) Matches(doc model.Document) bool {
	v, ok := doc.Field(f.field)
	if !ok {
		return false
	}
	arr, ok := v.(value.ArrayValue)
	if !ok {
		return false
	}
	for _, e := range arr {
		if value.Equal(e, f.bound) {
			return true
		}
	}
	return false
}

func (f arrayContainsFilter) Equal(other Filter) bool {
	o, ok := other.(arrayContainsFilter)
	return ok && f.sameBinding(o.fieldFilter)
}

// arrayContainsAnyFilter matches documents whose array field shares at
// least one element with the array bound.
type arrayContainsAnyFilter struct {
	fieldFilter
}

func (f arrayContainsAnyFilter) Matches(doc model.Document) bool {
	v, ok := doc.Field(f.field)
	if !ok {
		return false
	}
	arr, ok := v.(value.ArrayValue)
	if !ok {
		return false
	}
	bound := f.bound.(value.ArrayValue)
	for _, e := range arr {
		for _, b := range bound {
			if value.Equal(e, b) {
				return true
			}
		}
	}
	return false
}

func (f arrayContainsAnyFilter) Equal(other Filter) bool {
	o, ok := other.(arrayContainsAnyFilter)
	return ok && f.sameBinding(o.fieldFilter)
}

// inFilter matches documents whose field equals at least one element of
// the array bound.
type inFilter struct {
	fieldFilter
}

func (f inFilter) Matches(doc model.Document) bool {
	v, ok := doc.Field(f.field)
	if !ok {
		return false
	}
	for _, e := range f.bound.(value.ArrayValue) {
		if value.Equal(v, e) {
			return true
		}
	}
	return false
}

func (f inFilter) Equal(other Filter) bool {
	o, ok := other.(inFilter)
	return ok && f.sameBinding(o.fieldFilter)
}

// keyFilter is a relational filter on the document key.
type keyFilter struct {
	fieldFilter
	key model.DocumentKey
}

func (f keyFilter) Matches(doc model.Document) bool {
	return matchesComparison(f.op, doc.Key.Compare(f.key))
}

func (f keyFilter) Equal(other Filter) bool {
	o, ok := other.(keyFilter)
	return ok && f.sameBinding(o.fieldFilter)
}

// keyInFilter matches documents whose key is one of the bound's
// references.
type keyInFilter struct {
	fieldFilter
	keys []model.DocumentKey
}

func (f keyInFilter) Matches(doc model.Document) bool {
	for _, k := range f.keys {
		if doc.Key.Equal(k) {
			return true
		}
	}
	return false
}

func (f keyInFilter) Equal(other Filter) bool {
	o, ok := other.(keyInFilter)
	return ok && f.sameBinding(o.fieldFilter)
}
