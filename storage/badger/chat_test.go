package badger

import (
	"context"
	"testing"
	"time"

	"github.com/gcnlabs/regent/core"
)

func TestChatMemoryBasics(t *testing.T) {
	docRepo, chatRepo, cache, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { cache.Close(); chatRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()

	entry := &core.ChatEntry{
		ChatID:    "chat-1",
		Summary:   "Discussed extinguisher spacing requirements.",
		KeyPoints: []string{"50 meter spacing", "monthly inspections"},
	}
	if err := chatRepo.AddEntries(ctx, entry); err != nil {
		t.Fatalf("Failed to add entry: %v", err)
	}
	if entry.CreatedAt.IsZero() {
		t.Fatal("Expected CreatedAt to be populated")
	}

	results, err := chatRepo.GetRecent(ctx, "chat-1", 10)
	if err != nil {
		t.Fatalf("Failed to get recent entries: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(results))
	}
	if results[0].Summary != entry.Summary {
		t.Fatalf("Expected %q, got %q", entry.Summary, results[0].Summary)
	}
	if len(results[0].KeyPoints) != 2 {
		t.Fatalf("Expected 2 key points, got %d", len(results[0].KeyPoints))
	}
}

func TestChatMemoryRecentOrderAndLimit(t *testing.T) {
	docRepo, chatRepo, cache, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { cache.Close(); chatRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()
	now := time.Now().UTC()

	entries := []*core.ChatEntry{
		{ChatID: "chat-1", Summary: "oldest", CreatedAt: now.Add(-2 * time.Hour)},
		{ChatID: "chat-1", Summary: "middle", CreatedAt: now.Add(-1 * time.Hour)},
		{ChatID: "chat-1", Summary: "newest", CreatedAt: now},
	}
	if err := chatRepo.AddEntries(ctx, entries...); err != nil {
		t.Fatalf("Failed to add entries: %v", err)
	}

	results, err := chatRepo.GetRecent(ctx, "chat-1", 2)
	if err != nil {
		t.Fatalf("Failed to get recent entries: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(results))
	}
	if results[0].Summary != "newest" || results[1].Summary != "middle" {
		t.Fatalf("Unexpected order: %s, %s", results[0].Summary, results[1].Summary)
	}
}

func TestChatMemoryIsolatedByChatID(t *testing.T) {
	docRepo, chatRepo, cache, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { cache.Close(); chatRepo.Close(); docRepo.Close(); backend.Close() }()

	ctx := context.Background()

	if err := chatRepo.AddEntries(ctx,
		&core.ChatEntry{ChatID: "chat-1", Summary: "first chat"},
		&core.ChatEntry{ChatID: "chat-2", Summary: "second chat"},
	); err != nil {
		t.Fatalf("Failed to add entries: %v", err)
	}

	results, err := chatRepo.GetRecent(ctx, "chat-1", 10)
	if err != nil {
		t.Fatalf("Failed to get recent entries: %v", err)
	}
	if len(results) != 1 || results[0].Summary != "first chat" {
		t.Fatalf("Expected only chat-1 entries, got %v", results)
	}

	empty, err := chatRepo.GetRecent(ctx, "chat-3", 10)
	if err != nil {
		t.Fatalf("Failed to get recent entries: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("Expected no entries for unknown chat, got %d", len(empty))
	}
}
