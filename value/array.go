package value

// ArrayValue is an order-significant sequence of values. Duplicates are
// allowed. Arrays order element-wise, with a shorter array sorting before
// any array it is a prefix of. The slice must not be mutated after
// construction.
type ArrayValue []Value

// Array returns an array value over elems. The caller yields ownership
// of the slice.
func Array(elems ...Value) ArrayValue { return ArrayValue(elems) }

// Kind returns KindArray.
func (ArrayValue) Kind() Kind { return KindArray }

// Len returns the number of elements.
func (a ArrayValue) Len() int { return len(a) }
