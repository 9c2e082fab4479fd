package value

// BytesValue is an opaque byte sequence. Bytes order by unsigned
// lexicographic comparison. The slice must not be mutated after
// construction.
type BytesValue []byte

// Bytes returns b as a value. The caller yields ownership of b.
func Bytes(b []byte) BytesValue { return BytesValue(b) }

// Kind returns KindBytes.
func (BytesValue) Kind() Kind { return KindBytes }

// Raw returns the underlying bytes. Callers must not mutate the result.
func (b BytesValue) Raw() []byte { return []byte(b) }
