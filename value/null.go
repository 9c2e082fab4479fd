package value

// NullValue is the explicit null datum. All nulls are equal; null sorts
// before every other kind.
type NullValue struct{}

// Null returns the null value.
func Null() NullValue { return NullValue{} }

// Kind returns KindNull.
func (NullValue) Kind() Kind { return KindNull }
