package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Assistant performs language model operations over assembled prompts.
// Implementations must be thread-safe for concurrent use.
type Assistant interface {
	// Answer synthesizes a final answer to the query from the labeled
	// document context and the prior conversation context. Either context
	// string may be empty.
	Answer(ctx context.Context, query, documentContext, chatContext string) (string, error)

	// ChatName produces a short descriptive title (3-6 words) for a
	// conversation that opens with the given query.
	ChatName(ctx context.Context, query string) (string, error)

	// RelatedQueries suggests follow-up questions a user might ask after
	// the given query. Returns an empty slice when no suggestions can be
	// produced.
	RelatedQueries(ctx context.Context, query string) ([]string, error)

	// RefineSearchQuery rewrites a user query into a search-engine query
	// suited to finding supporting material online.
	RefineSearchQuery(ctx context.Context, query string) (string, error)

	// Summarize condenses a query/answer exchange into a short summary
	// with key points, suitable for conversation memory.
	Summarize(ctx context.Context, query, answer string) (ChatSummary, error)
}

// ChatSummary is the condensed record of one query/answer exchange.
type ChatSummary struct {
	// Summary is a 2-3 sentence recap of the exchange.
	Summary string

	// KeyPoints lists the most important facts from the exchange,
	// such as specific standards, numerical requirements, or deadlines.
	KeyPoints []string
}

// Provider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Assistant instances,
// ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Assistant returns the language model service.
	// The returned Assistant is safe for concurrent use.
	Assistant() Assistant

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
