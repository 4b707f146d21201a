package badger

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gcnlabs/regent/core"
	"github.com/gcnlabs/regent/storage"
)

// ChatMemoryRepository implements storage.ChatMemoryRepository for BadgerDB.
type ChatMemoryRepository struct {
	backend *Backend
}

var _ storage.ChatMemoryRepository = (*ChatMemoryRepository)(nil)

// NewChatMemoryRepository creates a new ChatMemoryRepository.
func NewChatMemoryRepository(backend *Backend) (*ChatMemoryRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &ChatMemoryRepository{backend: backend}, nil
}

// Close releases repository resources. The backend is owned by the caller.
func (r *ChatMemoryRepository) Close() error {
	return nil
}

// AddEntries appends entries to their conversations.
func (r *ChatMemoryRepository) AddEntries(ctx context.Context, entries ...*core.ChatEntry) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			if err := core.ValidateChatEntry(entry); err != nil {
				return err
			}
			if entry.CreatedAt.IsZero() {
				entry.CreatedAt = time.Now().UTC()
			}

			// Disambiguate entries written within the same microsecond
			disambiguator := core.ContentDigest(entry.Summary)[:8]
			key := makeChatEntryKey(entry.ChatID, entry.CreatedAt, disambiguator)
			if err := tx.Set(key, storage.MarshalChatEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetRecent retrieves up to limit entries for a chat, most recent first.
func (r *ChatMemoryRepository) GetRecent(ctx context.Context, chatID string, limit int) ([]*core.ChatEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	var results []*core.ChatEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent entries first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makeChatPrefix(chatID)

		// Seek past the last possible key for this chat
		startKey := append(slices.Clone(prefix), 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var entry *core.ChatEntry
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalChatEntry(val)
				return err
			}); err != nil {
				return err
			}

			results = append(results, entry)
			count++
		}
		return nil
	}, false)

	return results, err
}
