package value

// StringValue is a UTF-8 string datum. Strings order lexicographically
// by UTF-8 code unit, which coincides with Unicode code-point order.
type StringValue string

// String returns s as a value.
func String(s string) StringValue { return StringValue(s) }

// Kind returns KindString.
func (StringValue) Kind() Kind { return KindString }

// Str returns the underlying string.
func (s StringValue) Str() string { return string(s) }
