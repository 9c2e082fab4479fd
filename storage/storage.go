// Package storage provides the local persistence layer for documents.
// It defines the Store interface over the document model and provides a
// JSON-file backend (guarded by a cross-process lock) and a bbolt
// backend (msgpack-encoded documents in a single bucket).
package storage

import (
	"errors"

	"github.com/pocketdoc/pocketdoc/model"
	"github.com/pocketdoc/pocketdoc/mutation"
	"github.com/pocketdoc/pocketdoc/query"
	"github.com/pocketdoc/pocketdoc/value"
)

// ErrNotFound marks a lookup of a document key that is not in the
// store. Match with errors.Is.
var ErrNotFound = errors.New("document not found")

// FieldUpdate is one path-addressed change inside an Update call:
// either a value to set or a deletion of the path.
type FieldUpdate struct {
	Path   model.FieldPath
	Value  value.Value // nil when Delete is set
	Delete bool
}

// SetValue returns an update installing v at path.
func SetValue(path model.FieldPath, v value.Value) FieldUpdate {
	return FieldUpdate{Path: path, Value: v}
}

// DeleteField returns an update removing the field at path.
func DeleteField(path model.FieldPath) FieldUpdate {
	return FieldUpdate{Path: path, Delete: true}
}

// ListOptions narrows a List call. A nil Filters slice matches every
// document; Collection, when non-empty, restricts results to direct
// members of that collection path.
type ListOptions struct {
	Collection string
	Filters    []query.Filter
}

// Store is a local document store. Implementations are safe for
// concurrent use. Mutations bump the document version; reads return
// snapshots that later mutations do not affect.
type Store interface {
	// Add stores data under a generated key in collection and returns
	// the new key.
	Add(collection string, data value.Map) (model.DocumentKey, error)

	// Get returns the document stored under key.
	Get(key model.DocumentKey) (model.Document, error)

	// Set stores data under key, replacing any existing document.
	Set(key model.DocumentKey, data value.Map) error

	// Update applies path-addressed field updates to the document
	// under key, creating it when absent.
	Update(key model.DocumentKey, updates ...FieldUpdate) error

	// ApplyTransform rewrites the array field at path through t.
	ApplyTransform(key model.DocumentKey, path model.FieldPath, t mutation.ArrayTransform) error

	// List returns the documents matching opts, ordered by key.
	List(opts ListOptions) ([]model.Document, error)

	// Delete removes the document under key. Deleting an absent key
	// is not an error.
	Delete(key model.DocumentKey) error

	// Close releases any resources held by the store.
	Close() error
}

// matchesOptions is the shared per-document predicate evaluation: every
// filter must match, and the document must live directly in the
// requested collection when one is set.
func matchesOptions(doc model.Document, opts ListOptions) bool {
	if opts.Collection != "" && doc.Key.Collection() != opts.Collection {
		return false
	}
	for _, f := range opts.Filters {
		if !f.Matches(doc) {
			return false
		}
	}
	return true
}

// applyUpdates folds field updates over a document's data, returning
// the new overlay state.
func applyUpdates(data *model.ObjectValue, updates []FieldUpdate) (*model.ObjectValue, error) {
	for _, u := range updates {
		if u.Path.Empty() {
			return nil, errors.New("update path must not be empty")
		}
		if u.Delete {
			data = data.Delete(u.Path)
		} else {
			data = data.Set(u.Path, u.Value)
		}
	}
	return data, nil
}
