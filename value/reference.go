package value

// ReferenceValue names another document by its canonical resource path,
// e.g. "users/alice". References order by string comparison of the path.
type ReferenceValue string

// Reference returns a reference to the document at path.
func Reference(path string) ReferenceValue { return ReferenceValue(path) }

// Kind returns KindReference.
func (ReferenceValue) Kind() Kind { return KindReference }

// Path returns the canonical resource path.
func (r ReferenceValue) Path() string { return string(r) }
