package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validChunk() Chunk {
	return Chunk{
		Text:     "fire safety requires extinguishers",
		PageSpan: "1",
		Vector:   []float32{0.1, 0.2, 0.3},
	}
}

func TestValidateChunk(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		c := validChunk()
		assert.NoError(t, ValidateChunk(&c))
	})

	t.Run("nil", func(t *testing.T) {
		assert.ErrorIs(t, ValidateChunk(nil), ErrInvalidChunk)
	})

	t.Run("empty text", func(t *testing.T) {
		c := validChunk()
		c.Text = ""
		assert.ErrorIs(t, ValidateChunk(&c), ErrEmptyChunkText)
	})

	t.Run("empty vector", func(t *testing.T) {
		c := validChunk()
		c.Vector = nil
		assert.ErrorIs(t, ValidateChunk(&c), ErrEmptyVector)
	})

	t.Run("backwards page range", func(t *testing.T) {
		c := validChunk()
		c.PageSpan = "5-2"
		assert.ErrorIs(t, ValidateChunk(&c), ErrInvalidPageSpan)
	})
}

func TestValidateDocument(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		doc := &Document{Name: "osha-1910", Chunks: []Chunk{validChunk()}}
		assert.NoError(t, ValidateDocument(doc))
	})

	t.Run("nil", func(t *testing.T) {
		assert.ErrorIs(t, ValidateDocument(nil), ErrInvalidDocument)
	})

	t.Run("empty name", func(t *testing.T) {
		doc := &Document{Chunks: []Chunk{validChunk()}}
		assert.ErrorIs(t, ValidateDocument(doc), ErrEmptyDocumentName)
	})

	t.Run("no chunks is legal", func(t *testing.T) {
		doc := &Document{Name: "scanned-only"}
		assert.NoError(t, ValidateDocument(doc))
	})

	t.Run("bad chunk", func(t *testing.T) {
		bad := validChunk()
		bad.Vector = nil
		doc := &Document{Name: "osha-1910", Chunks: []Chunk{bad}}
		assert.ErrorIs(t, ValidateDocument(doc), ErrEmptyVector)
	})
}

func TestValidateChatEntry(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateChatEntry(&ChatEntry{ChatID: "abc", Summary: "s"}))
	})

	t.Run("missing chat id", func(t *testing.T) {
		assert.ErrorIs(t, ValidateChatEntry(&ChatEntry{Summary: "s"}), ErrEmptyChatID)
	})
}
