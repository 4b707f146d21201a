package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gcnlabs/regent/ai"
	"github.com/gcnlabs/regent/core"
	"github.com/gcnlabs/regent/search"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrRaggedEmbeddings indicates an embedding batch came back with mixed
// vector widths, which would make the vectors incomparable.
var ErrRaggedEmbeddings = errors.New("embedding batch has mixed vector widths")

// Embedder implements ai.Embedder over an OpenAI-compatible embeddings API.
// Returned vectors are unit-normalized before they leave this package, so
// cosine scoring downstream never sees magnitude differences between models.
type Embedder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
	dimNote  sync.Once
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Token "none" satisfies local OpenAI-compatible services that do not
	// require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		e.logger.Warn("embedder returned empty result")
		return []float32{}, nil
	}
	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings", "count", len(texts))

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, err
	}

	return e.conditionVectors(vectors)
}

// conditionVectors enforces a uniform width across the batch and
// unit-normalizes every vector. A width other than core.EmbeddingDim is
// reported once, since it usually means the configured model is not the
// reference one.
func (e *Embedder) conditionVectors(vectors [][]float32) ([][]float32, error) {
	if len(vectors) == 0 {
		return vectors, nil
	}

	width := len(vectors[0])
	for i, vec := range vectors {
		if len(vec) != width {
			return nil, fmt.Errorf("%w: vector %d has %d values, want %d",
				ErrRaggedEmbeddings, i, len(vec), width)
		}
		vectors[i] = search.NormalizeVector(vec)
	}

	if width != core.EmbeddingDim {
		e.dimNote.Do(func() {
			e.logger.Warn("embedding width differs from the reference model",
				"got", width, "want", core.EmbeddingDim)
		})
	}

	return vectors, nil
}
