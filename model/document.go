package model

import (
	"fmt"
	"strings"

	"github.com/pocketdoc/pocketdoc/value"
)

// DocumentKey is a document's canonical resource path: a non-empty,
// slash-separated sequence of non-empty segments with even length, so
// it always names a document inside a collection ("users/alice",
// "users/alice/orders/7").
type DocumentKey struct {
	path []string
}

// NewDocumentKey builds a key from path segments.
func NewDocumentKey(segments ...string) (DocumentKey, error) {
	if len(segments) == 0 || len(segments)%2 != 0 {
		return DocumentKey{}, fmt.Errorf("document key needs an even number of segments, got %d", len(segments))
	}
	for _, s := range segments {
		if s == "" {
			return DocumentKey{}, fmt.Errorf("document key segment must not be empty")
		}
		if strings.Contains(s, "/") {
			return DocumentKey{}, fmt.Errorf("document key segment %q must not contain '/'", s)
		}
	}
	copied := make([]string, len(segments))
	copy(copied, segments)
	return DocumentKey{path: copied}, nil
}

// ParseDocumentKey parses a slash-separated resource path.
func ParseDocumentKey(s string) (DocumentKey, error) {
	if s == "" {
		return DocumentKey{}, fmt.Errorf("document key must not be empty")
	}
	return NewDocumentKey(strings.Split(s, "/")...)
}

// Collection returns the path of the collection holding the document
// (everything up to the final segment).
func (k DocumentKey) Collection() string {
	return strings.Join(k.path[:len(k.path)-1], "/")
}

// ID returns the final path segment.
func (k DocumentKey) ID() string { return k.path[len(k.path)-1] }

// String returns the canonical slash-joined resource path.
func (k DocumentKey) String() string { return strings.Join(k.path, "/") }

// IsZero reports whether the key is the unusable zero value.
func (k DocumentKey) IsZero() bool { return len(k.path) == 0 }

// Compare orders keys by their canonical path strings.
func (k DocumentKey) Compare(other DocumentKey) int {
	return strings.Compare(k.String(), other.String())
}

// Equal reports whether both keys name the same document.
func (k DocumentKey) Equal(other DocumentKey) bool {
	return k.Compare(other) == 0
}

// Reference returns the key as a reference value.
func (k DocumentKey) Reference() value.ReferenceValue {
	return value.Reference(k.String())
}

// Document pairs a key and version with the document's field data.
// Documents are immutable; mutation of Data yields a new ObjectValue
// which callers install in a fresh Document.
type Document struct {
	Key     DocumentKey
	Version int64
	Data    *ObjectValue
}

// NewDocument builds a document over data. A nil data is treated as an
// empty object.
func NewDocument(key DocumentKey, version int64, data *ObjectValue) Document {
	if data == nil {
		data = EmptyObjectValue()
	}
	return Document{Key: key, Version: version, Data: data}
}

// Field returns the value stored at path. The reserved __name__ path
// yields the document's key as a reference.
func (d Document) Field(path FieldPath) (value.Value, bool) {
	if path.IsKeyField() {
		return d.Key.Reference(), true
	}
	return d.Data.Get(path)
}
