package value

import (
	"bytes"
	"fmt"
	"math"
)

// maxExactIntAsDouble is the largest magnitude at which every int64 is
// exactly representable as a float64.
const maxExactIntAsDouble = int64(1) << 53

// Compare imposes a total order over all values. It returns a negative
// number when l sorts before r, zero when the two are equivalent, and a
// positive number when l sorts after r.
//
// Values of different type-order ranks order by rank alone. Within a
// rank the per-kind comparators below apply. NaN is equivalent to itself
// here (so sorting buckets NaN deterministically) even though predicate
// equality treats NaN as unequal to everything; see Equal.
func Compare(l, r Value) int {
	lo, ro := TypeOrder(l), TypeOrder(r)
	if lo != ro {
		return compareInts(lo, ro)
	}

	switch lo {
	case orderNull:
		return 0
	case orderBoolean:
		return compareBooleans(bool(l.(BooleanValue)), bool(r.(BooleanValue)))
	case orderNumber:
		return compareNumbers(l, r)
	case orderTimestamp:
		lt, rt := l.(TimestampValue), r.(TimestampValue)
		if lt.Seconds != rt.Seconds {
			return compareInt64s(lt.Seconds, rt.Seconds)
		}
		return compareInts(int(lt.Nanos), int(rt.Nanos))
	case orderString:
		return compareStrings(string(l.(StringValue)), string(r.(StringValue)))
	case orderBytes:
		return bytes.Compare(l.(BytesValue), r.(BytesValue))
	case orderReference:
		return compareStrings(string(l.(ReferenceValue)), string(r.(ReferenceValue)))
	case orderGeoPoint:
		lg, rg := l.(GeoPointValue), r.(GeoPointValue)
		if c := compareDoubles(lg.Latitude, rg.Latitude); c != 0 {
			return c
		}
		return compareDoubles(lg.Longitude, rg.Longitude)
	case orderArray:
		return compareArrays(l.(ArrayValue), r.(ArrayValue))
	case orderMap:
		return compareMaps(l.(Map), r.(Map))
	}
	panic(fmt.Sprintf("internal: comparator received unknown type order %d", lo))
}

// Equal is predicate equality: the comparator's equivalence specialized
// so that a NaN double equals nothing, itself included. This is the
// equality used by the in, array-contains and array-contains-any
// operators. The == filter uses Compare instead, so an == NaN filter
// matches NaN fields.
func Equal(l, r Value) bool {
	if isNaN(l) || isNaN(r) {
		return false
	}
	return Compare(l, r) == 0
}

// Equivalent is the comparator's equivalence relation: Compare == 0,
// under which NaN does equal itself. Hashing is consistent with this
// relation, not with Equal.
func Equivalent(l, r Value) bool {
	return Compare(l, r) == 0
}

func isNaN(v Value) bool {
	d, ok := v.(DoubleValue)
	return ok && math.IsNaN(float64(d))
}

// compareNumbers handles the shared numeric rank: two integers compare
// as int64, two doubles by the IEEE total order below, and a mixed pair
// through compareMixed so no precision is lost above 2^53.
func compareNumbers(l, r Value) int {
	switch lv := l.(type) {
	case IntegerValue:
		switch rv := r.(type) {
		case IntegerValue:
			return compareInt64s(int64(lv), int64(rv))
		case DoubleValue:
			return -compareMixed(float64(rv), int64(lv))
		}
	case DoubleValue:
		switch rv := r.(type) {
		case DoubleValue:
			return compareDoubles(float64(lv), float64(rv))
		case IntegerValue:
			return compareMixed(float64(lv), int64(rv))
		}
	}
	panic(fmt.Sprintf("internal: unknown number kinds %v, %v", l.Kind(), r.Kind()))
}

// compareDoubles orders two float64s treating -0.0 and 0.0 as equal and
// NaN as equal to itself and below every other double.
func compareDoubles(l, r float64) int {
	if l < r {
		return -1
	}
	if l > r {
		return 1
	}
	if l == r {
		return 0
	}
	// At least one side is NaN.
	ln, rn := math.IsNaN(l), math.IsNaN(r)
	switch {
	case ln && rn:
		return 0
	case ln:
		return -1
	default:
		return 1
	}
}

// compareMixed orders a double against an int64. NaN sorts below all
// numbers. When |i| fits in the exactly-representable range the pair
// compares as doubles; beyond that the double is floored onto the int64
// line first, with a remaining fraction breaking the tie upward.
func compareMixed(d float64, i int64) int {
	if math.IsNaN(d) {
		return -1
	}
	if i >= -maxExactIntAsDouble && i <= maxExactIntAsDouble {
		return compareDoubles(d, float64(i))
	}

	// float64(math.MinInt64) and float64(math.MaxInt64)+1 are exact
	// powers of two, so these range checks lose nothing.
	if d < math.MinInt64 {
		return -1
	}
	if d >= math.MaxInt64 {
		return 1
	}

	floor := math.Floor(d)
	fi := int64(floor)
	if fi != i {
		return compareInt64s(fi, i)
	}
	if d > floor {
		return 1
	}
	return 0
}

func compareArrays(l, r ArrayValue) int {
	n := len(l)
	if len(r) < n {
		n = len(r)
	}
	for i := 0; i < n; i++ {
		if c := Compare(l[i], r[i]); c != 0 {
			return c
		}
	}
	return compareInts(len(l), len(r))
}

// compareMaps walks both sides in key order; the first differing key or
// value decides, and a map that is a strict prefix of the other sorts
// first. Only two exhausted iterators compare equal.
func compareMaps(l, r Map) int {
	li, ri := l.Fields(), r.Fields()
	for {
		lk, lv, lok := li.Next()
		rk, rv, rok := ri.Next()
		if !lok || !rok {
			return compareBooleans(lok, rok)
		}
		if c := compareStrings(lk, rk); c != 0 {
			return c
		}
		if c := Compare(lv, rv); c != 0 {
			return c
		}
	}
}

func compareBooleans(l, r bool) int {
	switch {
	case l == r:
		return 0
	case !l:
		return -1
	default:
		return 1
	}
}

func compareInts(l, r int) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

func compareInt64s(l, r int64) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

func compareStrings(l, r string) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}
