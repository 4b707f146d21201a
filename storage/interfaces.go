package storage

import (
	"context"
	"time"

	"github.com/gcnlabs/regent/core"
)

// Cache TTL tiers. Query-dependent results (web search, related queries, final
// answers) are volatile and live on the short tier; corpus-relevance results
// change only when the corpus changes and live on the long tier.
const (
	TTLShort = time.Hour
	TTLLong  = 24 * time.Hour
)

// DocumentRepository provides operations for managing ingested documents.
// Implementations must be thread-safe and support concurrent access.
type DocumentRepository interface {
	// PutDocument stores a document, replacing any existing document with the
	// same name (upsert). Sets InsertedAt on first write and UpdatedAt always.
	PutDocument(ctx context.Context, doc *core.Document) error

	// GetDocument retrieves a single document by name, including its chunks.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, name string) (*core.Document, error)

	// GetChunks retrieves the chunk list of a document by name.
	// Returns ErrNotFound if the document doesn't exist.
	GetChunks(ctx context.Context, name string) ([]core.Chunk, error)

	// ListDocuments retrieves all documents with their chunks. The raw payload
	// is omitted to keep corpus-wide scans cheap.
	ListDocuments(ctx context.Context) ([]*core.Document, error)

	// DeleteDocument removes a document by name.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, name string) error

	// UpdateInfo replaces the free-text summary of a document.
	// Returns ErrNotFound if the document doesn't exist.
	UpdateInfo(ctx context.Context, name, info string) error

	// SearchDocuments returns documents whose name or info contains the query,
	// case-insensitively. An empty query returns every document. Results carry
	// name and info only.
	SearchDocuments(ctx context.Context, query string) ([]*core.Document, error)

	// Close closes the repository and releases resources.
	Close() error
}

// ChatMemoryRepository provides operations for conversation summaries.
type ChatMemoryRepository interface {
	// AddEntries appends entries to their conversations.
	// Sets CreatedAt if not already set.
	AddEntries(ctx context.Context, entries ...*core.ChatEntry) error

	// GetRecent retrieves up to limit entries for a chat, most recent first.
	GetRecent(ctx context.Context, chatID string, limit int) ([]*core.ChatEntry, error)

	// Close closes the repository and releases resources.
	Close() error
}

// Cache is a key-value store with per-entry TTLs and document-scoped
// invalidation. Values are opaque bytes; callers own serialization.
// Concurrent writers to the same key are legal: values are idempotent
// functions of the key, so last writer wins.
type Cache interface {
	// Get retrieves a value by key. Returns ErrNotFound for missing or
	// expired entries.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL. Any docNames record that the
	// value was derived from those documents, so a later mutation of one of
	// them invalidates this entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, docNames ...string) error

	// InvalidatePrefix removes every entry whose key starts with prefix.
	InvalidatePrefix(ctx context.Context, prefix string) error

	// InvalidateDocument removes every entry derived from the named document.
	InvalidateDocument(ctx context.Context, name string) error

	// Close closes the cache and releases resources.
	Close() error
}
