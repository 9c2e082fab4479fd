package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/pocketdoc/pocketdoc/codec"
	"github.com/pocketdoc/pocketdoc/model"
	"github.com/pocketdoc/pocketdoc/mutation"
	"github.com/pocketdoc/pocketdoc/value"
)

const (
	lockTimeout    = 3 * time.Second
	lockRetryDelay = 100 * time.Millisecond

	storeFormatVersion = "1.0"
)

// jsonStore implements Store over a single JSON file. A sibling .lock
// file guards cross-process access; an in-process lock manager guards
// concurrent goroutines.
type jsonStore struct {
	filePath string
	fileLock *flock.Flock
	locks    *lockManager
}

// storeFile is the on-disk layout.
type storeFile struct {
	Documents []storedDocument `json:"documents"`
	Metadata  storeMetadata    `json:"metadata"`
}

type storedDocument struct {
	Key     string          `json:"key"`
	Version int64           `json:"version"`
	Data    json.RawMessage `json:"data"`
}

type storeMetadata struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OpenJSON opens (or creates on first write) a JSON file store at
// filePath. The lock file lives beside the data file so the data file
// can be atomically replaced while locked.
func OpenJSON(filePath string) Store {
	return &jsonStore{
		filePath: filePath,
		fileLock: flock.New(filePath + ".lock"),
		locks:    newLockManager(),
	}
}

func (s *jsonStore) Add(collection string, data value.Map) (model.DocumentKey, error) {
	if collection == "" {
		return model.DocumentKey{}, fmt.Errorf("add needs a collection path")
	}
	key, err := model.ParseDocumentKey(collection + "/" + uuid.New().String())
	if err != nil {
		return model.DocumentKey{}, fmt.Errorf("building document key: %w", err)
	}
	if err := s.Set(key, data); err != nil {
		return model.DocumentKey{}, err
	}
	return key, nil
}

func (s *jsonStore) Get(key model.DocumentKey) (model.Document, error) {
	var doc model.Document
	err := s.locks.execute(readOperation, func() error {
		file, err := s.loadLocked()
		if err != nil {
			return err
		}
		stored, ok := findDocument(file, key)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		doc, err = decodeDocument(stored)
		return err
	})
	return doc, err
}

func (s *jsonStore) Set(key model.DocumentKey, data value.Map) error {
	return s.mutate(key, func(prev *model.ObjectValue) (*model.ObjectValue, error) {
		return model.NewObjectValue(data), nil
	})
}

func (s *jsonStore) Update(key model.DocumentKey, updates ...FieldUpdate) error {
	return s.mutate(key, func(prev *model.ObjectValue) (*model.ObjectValue, error) {
		return applyUpdates(prev, updates)
	})
}

func (s *jsonStore) ApplyTransform(key model.DocumentKey, path model.FieldPath, t mutation.ArrayTransform) error {
	return s.mutate(key, func(prev *model.ObjectValue) (*model.ObjectValue, error) {
		prior, _ := prev.Get(path)
		return prev.Set(path, t.Apply(prior)), nil
	})
}

// mutate loads the document under key (an empty object when absent),
// applies fn, and writes the result back with a bumped version.
func (s *jsonStore) mutate(key model.DocumentKey, fn func(*model.ObjectValue) (*model.ObjectValue, error)) error {
	if key.IsZero() {
		return fmt.Errorf("store mutation needs a document key")
	}
	return s.locks.execute(writeOperation, func() error {
		file, err := s.loadLocked()
		if err != nil {
			return err
		}

		prev := model.EmptyObjectValue()
		version := int64(0)
		if stored, ok := findDocument(file, key); ok {
			doc, err := decodeDocument(stored)
			if err != nil {
				return err
			}
			prev = doc.Data
			version = doc.Version
		}

		next, err := fn(prev)
		if err != nil {
			return err
		}

		encoded, err := codec.EncodeJSON(next)
		if err != nil {
			return fmt.Errorf("encoding document %s: %w", key, err)
		}
		upsertDocument(file, storedDocument{
			Key:     key.String(),
			Version: version + 1,
			Data:    encoded,
		})
		return s.saveLocked(file)
	})
}

func (s *jsonStore) List(opts ListOptions) ([]model.Document, error) {
	var docs []model.Document
	err := s.locks.execute(readOperation, func() error {
		file, err := s.loadLocked()
		if err != nil {
			return err
		}
		for _, stored := range file.Documents {
			doc, err := decodeDocument(stored)
			if err != nil {
				return err
			}
			if matchesOptions(doc, opts) {
				docs = append(docs, doc)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Key.Compare(docs[j].Key) < 0
	})
	return docs, nil
}

func (s *jsonStore) Delete(key model.DocumentKey) error {
	return s.locks.execute(writeOperation, func() error {
		file, err := s.loadLocked()
		if err != nil {
			return err
		}
		kept := file.Documents[:0]
		for _, d := range file.Documents {
			if d.Key != key.String() {
				kept = append(kept, d)
			}
		}
		if len(kept) == len(file.Documents) {
			return nil
		}
		file.Documents = kept
		return s.saveLocked(file)
	})
}

func (s *jsonStore) Close() error {
	return nil
}

// loadLocked reads the store file under the cross-process lock. A
// missing or empty file is an empty store.
func (s *jsonStore) loadLocked() (*storeFile, error) {
	unlock, err := s.acquireFileLock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return newStoreFile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading store file: %w", err)
	}
	if len(data) == 0 {
		return newStoreFile(), nil
	}

	var file storeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing store file: %w", err)
	}
	return &file, nil
}

// saveLocked writes the store file under the cross-process lock, via a
// temp file and rename so readers never observe a partial write.
func (s *jsonStore) saveLocked(file *storeFile) error {
	unlock, err := s.acquireFileLock()
	if err != nil {
		return err
	}
	defer unlock()

	file.Metadata.Version = storeFormatVersion
	file.Metadata.UpdatedAt = time.Now()
	if file.Metadata.CreatedAt.IsZero() {
		file.Metadata.CreatedAt = file.Metadata.UpdatedAt
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store file: %w", err)
	}

	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing store file: %w", err)
	}
	if err := os.Rename(tmp, s.filePath); err != nil {
		return fmt.Errorf("replacing store file: %w", err)
	}
	return nil
}

func (s *jsonStore) acquireFileLock() (func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := s.fileLock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquiring file lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire file lock on %s", s.filePath)
	}
	return func() { _ = s.fileLock.Unlock() }, nil
}

func newStoreFile() *storeFile {
	return &storeFile{}
}

func findDocument(file *storeFile, key model.DocumentKey) (storedDocument, bool) {
	want := key.String()
	for _, d := range file.Documents {
		if d.Key == want {
			return d, true
		}
	}
	return storedDocument{}, false
}

func upsertDocument(file *storeFile, doc storedDocument) {
	for i, d := range file.Documents {
		if d.Key == doc.Key {
			file.Documents[i] = doc
			return
		}
	}
	file.Documents = append(file.Documents, doc)
}

func decodeDocument(stored storedDocument) (model.Document, error) {
	key, err := model.ParseDocumentKey(stored.Key)
	if err != nil {
		return model.Document{}, fmt.Errorf("stored document has a bad key %q: %w", stored.Key, err)
	}
	v, err := codec.DecodeJSON(stored.Data)
	if err != nil {
		return model.Document{}, fmt.Errorf("decoding document %s: %w", stored.Key, err)
	}
	m, ok := v.(value.Map)
	if !ok {
		return model.Document{}, fmt.Errorf("document %s is not a map, got %v", stored.Key, v.Kind())
	}
	return model.NewDocument(key, stored.Version, model.NewObjectValue(m)), nil
}
