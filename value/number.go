package value

import "math"

// IntegerValue is a signed 64-bit integer datum. Integers share a
// type-order rank with doubles and compare against them numerically.
type IntegerValue int64

// Integer returns i as a value.
func Integer(i int64) IntegerValue { return IntegerValue(i) }

// Kind returns KindInteger.
func (IntegerValue) Kind() Kind { return KindInteger }

// Int returns the underlying int64.
func (i IntegerValue) Int() int64 { return int64(i) }

// DoubleValue is an IEEE-754 64-bit float datum. NaN is a legal value:
// it sorts below all other numbers under the total order, and it is
// never equal to anything (itself included) under predicate equality.
type DoubleValue float64

// Double returns f as a value.
func Double(f float64) DoubleValue { return DoubleValue(f) }

// Kind returns KindDouble.
func (DoubleValue) Kind() Kind { return KindDouble }

// Float returns the underlying float64.
func (d DoubleValue) Float() float64 { return float64(d) }

// IsNaN reports whether the double is a NaN.
func (d DoubleValue) IsNaN() bool { return math.IsNaN(float64(d)) }
