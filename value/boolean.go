package value

// BooleanValue is a boolean datum. False sorts before true.
type BooleanValue bool

// Boolean returns b as a value.
func Boolean(b bool) BooleanValue { return BooleanValue(b) }

// Kind returns KindBoolean.
func (BooleanValue) Kind() Kind { return KindBoolean }

// Bool returns the underlying bool.
func (b BooleanValue) Bool() bool { return bool(b) }
