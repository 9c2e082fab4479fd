package storage

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"

	"github.com/pocketdoc/pocketdoc/codec"
	"github.com/pocketdoc/pocketdoc/model"
	"github.com/pocketdoc/pocketdoc/mutation"
	"github.com/pocketdoc/pocketdoc/value"
)

var documentsBucket = []byte("documents")

// boltStore implements Store over a bbolt file. Each document is one
// key/value pair in a single bucket: the resource path as the key, a
// msgpack record (version + binary-coded data) as the value. bbolt
// serializes writers itself, so no extra locking is needed.
type boltStore struct {
	db *bolt.DB
}

// boltRecord is the stored per-document envelope.
type boltRecord struct {
	Version int64  `msgpack:"v"`
	Data    []byte `msgpack:"d"`
}

// OpenBolt opens (or creates) a bbolt-backed store at filePath.
func OpenBolt(filePath string) (Store, error) {
	db, err := bolt.Open(filePath, 0o644, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(documentsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing bolt store: %w", err)
	}
	return &boltStore{db: db}, nil
}

func (s *boltStore) Add(collection string, data value.Map) (model.DocumentKey, error) {
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

func (s *boltStore) Get(key model.DocumentKey) (model.Document, error) {
	var doc model.Document
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(documentsBucket).Get([]byte(key.String()))
		if raw == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		var err error
		doc, err = decodeBoltRecord(key, raw)
		return err
	})
	return doc, err
}

func (s *boltStore) Set(key model.DocumentKey, data value.Map) error {
	return s.mutate(key, func(prev *model.ObjectValue) (*model.ObjectValue, error) {
		return model.NewObjectValue(data), nil
	})
}

func (s *boltStore) Update(key model.DocumentKey, updates ...FieldUpdate) error {
	return s.mutate(key, func(prev *model.ObjectValue) (*model.ObjectValue, error) {
		return applyUpdates(prev, updates)
	})
}

func (s *boltStore) ApplyTransform(key model.DocumentKey, path model.FieldPath, t mutation.ArrayTransform) error {
	return s.mutate(key, func(prev *model.ObjectValue) (*model.ObjectValue, error) {
		prior, _ := prev.Get(path)
		return prev.Set(path, t.Apply(prior)), nil
	})
}

func (s *boltStore) mutate(key model.DocumentKey, fn func(*model.ObjectValue) (*model.ObjectValue, error)) error {
	if key.IsZero() {
		return fmt.Errorf("store mutation needs a document key")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(documentsBucket)
		keyBytes := []byte(key.String())

		prev := model.EmptyObjectValue()
		version := int64(0)
		if raw := bucket.Get(keyBytes); raw != nil {
			doc, err := decodeBoltRecord(key, raw)
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

		data, err := codec.Encode(next)
		if err != nil {
			return fmt.Errorf("encoding document %s: %w", key, err)
		}
		record, err := msgpack.Marshal(boltRecord{Version: version + 1, Data: data})
		if err != nil {
			return fmt.Errorf("encoding record for %s: %w", key, err)
		}
		return bucket.Put(keyBytes, record)
	})
}

func (s *boltStore) List(opts ListOptions) ([]model.Document, error) {
	var docs []model.Document
	err := s.db.View(func(tx *bolt.Tx) error {
		cursor := tx.Bucket(documentsBucket).Cursor()
		var prefix []byte
		if opts.Collection != "" {
			prefix = []byte(opts.Collection + "/")
		}
		for k, raw := first(cursor, prefix); k != nil; k, raw = cursor.Next() {
			if prefix != nil && !bytes.HasPrefix(k, prefix) {
				break
			}
			key, err := model.ParseDocumentKey(string(k))
			if err != nil {
				return fmt.Errorf("stored document has a bad key %q: %w", k, err)
			}
			doc, err := decodeBoltRecord(key, raw)
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

func first(cursor *bolt.Cursor, prefix []byte) ([]byte, []byte) {
	if prefix == nil {
		return cursor.First()
	}
	return cursor.Seek(prefix)
}

func (s *boltStore) Delete(key model.DocumentKey) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(documentsBucket).Delete([]byte(key.String()))
	})
}

func (s *boltStore) Close() error {
	return s.db.Close()
}

func decodeBoltRecord(key model.DocumentKey, raw []byte) (model.Document, error) {
	var record boltRecord
	if err := msgpack.Unmarshal(raw, &record); err != nil {
		return model.Document{}, fmt.Errorf("decoding record for %s: %w", key, err)
	}
	v, err := codec.Decode(record.Data)
	if err != nil {
		return model.Document{}, fmt.Errorf("decoding document %s: %w", key, err)
	}
	m, ok := v.(value.Map)
	if !ok {
		return model.Document{}, fmt.Errorf("document %s is not a map, got %v", key, v.Kind())
	}
	return model.NewDocument(key, record.Version, model.NewObjectValue(m)), nil
}
