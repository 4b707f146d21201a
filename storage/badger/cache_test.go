package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gcnlabs/regent/storage"
)

func TestCacheRoundTrip(t *testing.T) {
	docRepo, chatRepo, cache, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { cache.Close(); chatRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()

	value := []byte(`{"answer":"every 50 meters"}`)
	if err := cache.Set(ctx, "answer:abc123", value, storage.TTLShort); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}

	got, err := cache.Get(ctx, "answer:abc123")
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if string(got) != string(value) {
		t.Fatalf("Expected %q, got %q", value, got)
	}
}

func TestCacheMiss(t *testing.T) {
	docRepo, chatRepo, cache, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { cache.Close(); chatRepo.Close(); docRepo.Close(); backend.Close() }()

	if _, err := cache.Get(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	docRepo, chatRepo, cache, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { cache.Close(); chatRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()

	// A TTL in the past simulates an entry whose window has elapsed
	if err := cache.Set(ctx, "web:expired", []byte("stale"), -2*time.Second); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}

	if _, err := cache.Get(ctx, "web:expired"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected expired entry to be absent, got %v", err)
	}
}

func TestCacheInvalidatePrefix(t *testing.T) {
	docRepo, chatRepo, cache, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { cache.Close(); chatRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()

	for _, key := range []string{"web:k1", "web:k2", "answer:k3"} {
		if err := cache.Set(ctx, key, []byte("v"), storage.TTLShort); err != nil {
			t.Fatalf("Failed to set %s: %v", key, err)
		}
	}

	if err := cache.InvalidatePrefix(ctx, "web:"); err != nil {
		t.Fatalf("Failed to invalidate prefix: %v", err)
	}

	for _, key := range []string{"web:k1", "web:k2"} {
		if _, err := cache.Get(ctx, key); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("Expected %s to be invalidated, got %v", key, err)
		}
	}
	if _, err := cache.Get(ctx, "answer:k3"); err != nil {
		t.Fatalf("Expected answer:k3 to survive, got %v", err)
	}
}

func TestCacheInvalidateDocument(t *testing.T) {
	docRepo, chatRepo, cache, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { cache.Close(); chatRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()

	// Two entries derived from docA, one from docB only
	if err := cache.Set(ctx, "chunks:k1", []byte("v1"), storage.TTLLong, "docA"); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}
	if err := cache.Set(ctx, "chunks:k2", []byte("v2"), storage.TTLLong, "docA", "docB"); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}
	if err := cache.Set(ctx, "chunks:k3", []byte("v3"), storage.TTLLong, "docB"); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}

	if err := cache.InvalidateDocument(ctx, "docA"); err != nil {
		t.Fatalf("Failed to invalidate document: %v", err)
	}

	for _, key := range []string{"chunks:k1", "chunks:k2"} {
		if _, err := cache.Get(ctx, key); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("Expected %s to be invalidated, got %v", key, err)
		}
	}
	if _, err := cache.Get(ctx, "chunks:k3"); err != nil {
		t.Fatalf("Expected chunks:k3 to survive, got %v", err)
	}

	// Invalidating an unknown document is a no-op
	if err := cache.InvalidateDocument(ctx, "never-seen"); err != nil {
		t.Fatalf("Expected no-op invalidation, got %v", err)
	}
}

func TestCacheLastWriterWins(t *testing.T) {
	docRepo, chatRepo, cache, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { cache.Close(); chatRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()

	if err := cache.Set(ctx, "web:k", []byte("first"), storage.TTLShort); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}
	if err := cache.Set(ctx, "web:k", []byte("second"), storage.TTLShort); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}

	got, err := cache.Get(ctx, "web:k")
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("Expected 'second', got %q", got)
	}
}
