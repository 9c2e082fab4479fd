// Package testutil provides assertion helpers shared by the package
// tests. Helpers call t.Helper() so failures report the caller's line.
package testutil

import (
	"testing"

	"github.com/pocketdoc/pocketdoc/model"
	"github.com/pocketdoc/pocketdoc/value"
)

// AssertValuesEqual checks comparator equivalence between two values.
func AssertValuesEqual(t *testing.T, got, want value.Value, context ...string) {
	t.Helper()
	if value.Compare(got, want) != 0 {
		t.Errorf("%sgot %s, want %s", prefix(context),
			value.CanonicalString(got), value.CanonicalString(want))
	}
}

// AssertCompareSign checks the sign of Compare(l, r).
func AssertCompareSign(t *testing.T, l, r value.Value, wantSign int) {
	t.Helper()
	got := value.Compare(l, r)
	normalized := 0
	switch {
	case got < 0:
		normalized = -1
	case got > 0:
		normalized = 1
	}
	if normalized != wantSign {
		t.Errorf("Compare(%s, %s) = %d, want sign %d",
			value.CanonicalString(l), value.CanonicalString(r), got, wantSign)
	}
}

// AssertFieldValue checks that doc holds want at path.
func AssertFieldValue(t *testing.T, doc model.Document, path model.FieldPath, want value.Value) {
	t.Helper()
	got, ok := doc.Field(path)
	if !ok {
		t.Errorf("field %v missing", path)
		return
	}
	if value.Compare(got, want) != 0 {
		t.Errorf("field %v = %s, want %s", path,
			value.CanonicalString(got), value.CanonicalString(want))
	}
}

// AssertFieldAbsent checks that doc has no value at path.
func AssertFieldAbsent(t *testing.T, doc model.Document, path model.FieldPath) {
	t.Helper()
	if got, ok := doc.Field(path); ok {
		t.Errorf("field %v = %s, want absent", path, value.CanonicalString(got))
	}
}

// AssertDocumentCount checks the size of a result slice.
func AssertDocumentCount(t *testing.T, docs []model.Document, expected int, context ...string) {
	t.Helper()
	if len(docs) != expected {
		t.Errorf("%sexpected %d documents, got %d", prefix(context), expected, len(docs))
	}
}

// AssertDocumentExists checks that a document with the given key is in
// the slice.
func AssertDocumentExists(t *testing.T, docs []model.Document, key model.DocumentKey) {
	t.Helper()
	for _, doc := range docs {
		if doc.Key.Equal(key) {
			return
		}
	}
	t.Errorf("document %s not found in results", key)
}

func prefix(context []string) string {
	if len(context) > 0 {
		return context[0] + ": "
	}
	return ""
}
