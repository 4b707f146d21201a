package badger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gcnlabs/regent/core"
	"github.com/gcnlabs/regent/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &DocumentRepository{backend: backend}, nil
}

// Close releases repository resources. The backend is owned by the caller.
func (r *DocumentRepository) Close() error {
	return nil
}

// PutDocument stores a document, replacing any existing one with the same name.
func (r *DocumentRepository) PutDocument(ctx context.Context, doc *core.Document) error {
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(doc.Name)

		// Preserve InsertedAt across upserts
		old, err := r.readDocument(tx, key)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if old != nil {
			doc.InsertedAt = old.InsertedAt
		} else {
			doc.InsertedAt = now
		}
		doc.UpdatedAt = now

		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetDocument retrieves a single document by name.
func (r *DocumentRepository) GetDocument(ctx context.Context, name string) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		doc, err := r.readDocument(tx, makeDocumentKey(name))
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}
		result = doc
		return nil
	}, false)
	return result, err
}

// GetChunks retrieves the chunk list of a document by name.
func (r *DocumentRepository) GetChunks(ctx context.Context, name string) ([]core.Chunk, error) {
	doc, err := r.GetDocument(ctx, name)
	if err != nil {
		return nil, err
	}
	return doc.Chunks, nil
}

// ListDocuments retrieves all documents with their chunks, raw payloads
// omitted. Iteration order is by name, which keeps corpus order stable
// across identical calls.
func (r *DocumentRepository) ListDocuments(ctx context.Context) ([]*core.Document, error) {
	var results []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var doc *core.Document
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			doc.Raw = nil
			results = append(results, doc)
		}
		return nil
	}, false)
	return results, err
}

// DeleteDocument removes a document by name.
func (r *DocumentRepository) DeleteDocument(ctx context.Context, name string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(name)

		doc, err := r.readDocument(tx, key)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// UpdateInfo replaces the free-text summary of a document.
func (r *DocumentRepository) UpdateInfo(ctx context.Context, name, info string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(name)

		doc, err := r.readDocument(tx, key)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}

		doc.Info = info
		doc.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// SearchDocuments returns documents whose name or info contains the query,
// case-insensitively. Results carry name and info only.
func (r *DocumentRepository) SearchDocuments(ctx context.Context, query string) ([]*core.Document, error) {
	needle := strings.ToLower(strings.TrimSpace(query))

	var results []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var doc *core.Document
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}

			if needle != "" &&
				!strings.Contains(strings.ToLower(doc.Name), needle) &&
				!strings.Contains(strings.ToLower(doc.Info), needle) {
				continue
			}

			results = append(results, &core.Document{
				Name:       doc.Name,
				Info:       doc.Info,
				InsertedAt: doc.InsertedAt,
				UpdatedAt:  doc.UpdatedAt,
			})
		}
		return nil
	}, false)
	return results, err
}

// readDocument reads and unmarshals a document within a transaction.
// Returns nil without error when the key does not exist.
func (r *DocumentRepository) readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalDocument(val)
		return err
	})
	return doc, err
}
