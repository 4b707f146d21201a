package badger

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gcnlabs/regent/storage"
)

// Cache implements storage.Cache for BadgerDB using native entry TTLs.
// Each Set may also record which documents the value was derived from; those
// associations live in a secondary index so that a document mutation can drop
// every dependent entry with a single prefix scan.
type Cache struct {
	backend *Backend
}

var _ storage.Cache = (*Cache)(nil)

// NewCache creates a new Cache.
func NewCache(backend *Backend) (*Cache, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &Cache{backend: backend}, nil
}

// Close releases cache resources. The backend is owned by the caller.
func (c *Cache) Close() error {
	return nil
}

// Get retrieves a value by key. Expired entries are reported as ErrNotFound;
// BadgerDB hides them once their TTL passes.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCacheEntryKey(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores a value with the given TTL and records its document derivations.
// The index entries share the value's TTL so they never outlive it.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration, docNames ...string) error {
	return c.backend.WithTx(func(tx *badger.Txn) error {
		entry := badger.NewEntry(makeCacheEntryKey(key), value).WithTTL(ttl)
		if err := tx.SetEntry(entry); err != nil {
			return err
		}

		for _, name := range docNames {
			idx := badger.NewEntry(makeCacheDocIdxKey(name, key), []byte(key)).WithTTL(ttl)
			if err := tx.SetEntry(idx); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// InvalidatePrefix removes every cache entry whose key starts with prefix.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) error {
	keys, err := c.collectKeys(makeCacheEntryKey(prefix))
	if err != nil {
		return err
	}
	return c.deleteKeys(keys)
}

// InvalidateDocument removes every cache entry derived from the named
// document, along with the index entries themselves.
func (c *Cache) InvalidateDocument(ctx context.Context, name string) error {
	var doomed [][]byte
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeCacheDocIdxPrefix(name)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			cacheKey, err := iter.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			doomed = append(doomed,
				makeCacheEntryKey(string(cacheKey)),
				iter.Item().KeyCopy(nil))
		}
		return nil
	}, false)
	if err != nil {
		return err
	}
	return c.deleteKeys(doomed)
}

// collectKeys gathers all keys under a raw prefix.
func (c *Cache) collectKeys(prefix []byte) ([][]byte, error) {
	var keys [][]byte
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = slices.Clone(prefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		return nil
	}, false)
	return keys, err
}

// deleteKeys removes keys in a single write transaction. Missing keys are
// ignored so concurrent invalidations do not race each other into errors.
func (c *Cache) deleteKeys(keys [][]byte) error {
	if len(keys) == 0 {
		return nil
	}
	return c.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			if err := tx.Delete(key); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		return tx.Commit()
	}, true)
}
