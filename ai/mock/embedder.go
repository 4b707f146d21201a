package mock

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/gcnlabs/regent/core"
)

// MockEmbedder is a test double for ai.Embedder. Behavior can be overridden
// per test through the function fields; without overrides it derives a
// stable unit vector of the engine's embedding width from the text, so
// identical inputs always land on identical vectors.
type MockEmbedder struct {
	// EmbedTextFunc is called by EmbedText if set.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc is called by EmbedTexts if set.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	callCount int
}

// NewMockEmbedder creates a mock embedder with default deterministic behavior.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// EmbedText generates a deterministic embedding derived from the text.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.callCount++

	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return stableVector(text), nil
}

// EmbedTexts generates deterministic embeddings for multiple texts.
func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount++

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = stableVector(text)
	}
	return vectors, nil
}

// CallCount returns the number of times any method was called.
func (m *MockEmbedder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockEmbedder) Reset() {
	m.callCount = 0
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

// stableVector derives a unit vector of core.EmbeddingDim values from the
// text. The values walk a linear congruential sequence seeded by an FNV
// hash of the content, so the mapping is fixed across runs.
func stableVector(text string) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	state := h.Sum64()

	vec := make([]float32, core.EmbeddingDim)
	var sumSquares float64
	for i := range vec {
		state = state*6364136223846793005 + 1442695040888963407
		vec[i] = float32((state>>33)%1000) / 1000.0
		sumSquares += float64(vec[i]) * float64(vec[i])
	}

	if sumSquares == 0 {
		return vec
	}
	scale := float32(1 / math.Sqrt(sumSquares))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}
