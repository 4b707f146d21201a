// Copyright 2025 GCN Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/gcnlabs/regent/ai"
	"github.com/gcnlabs/regent/core"
	"github.com/gcnlabs/regent/storage"
	"github.com/panjf2000/ants/v2"
)

// Pipeline turns raw PDFs into embedded, queryable documents.
// Embedding of the chunk windows runs concurrently on a worker pool.
type Pipeline struct {
	documents storage.DocumentRepository
	cache     storage.Cache
	embedder  ai.Embedder
	pool      *ants.Pool
	chunkSize int
	overlap   int
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithChunking overrides the window size and overlap used for splitting.
// The overlap must be non-negative and smaller than the window size.
func WithChunking(size, overlap int) Option {
	return func(p *Pipeline) error {
		if size <= 0 || overlap < 0 || overlap >= size {
			return ErrInvalidChunking
		}
		p.chunkSize = size
		p.overlap = overlap
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
// The cache is optional; when present, ingesting a document invalidates
// the cache entries derived from it.
func NewPipeline(
	documents storage.DocumentRepository,
	cache storage.Cache,
	provider ai.Provider,
	opts ...Option,
) (*Pipeline, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		documents: documents,
		cache:     cache,
		embedder:  provider.Embedder(),
		pool:      pool,
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		logger:    slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestPDF extracts, chunks, and embeds a PDF, then upserts it under the
// given name. Windows that fail to embed are dropped with a warning; the
// document fails only when no window embeds at all. On success, cache
// entries derived from the document are invalidated.
func (p *Pipeline) IngestPDF(ctx context.Context, name string, data []byte) (*core.Document, error) {
	words, err := ExtractPages(data)
	if err != nil {
		return nil, err
	}
	return p.IngestWords(ctx, name, data, words)
}

// IngestWords chunks, embeds, and upserts pre-extracted page-tagged words.
// The raw payload is stored alongside the document and may be nil for
// sources with no canonical byte form.
func (p *Pipeline) IngestWords(ctx context.Context, name string, raw []byte, words []PageWord) (*core.Document, error) {
	if len(words) == 0 {
		return nil, ErrNoText
	}

	windows := SplitWindows(words, p.chunkSize, p.overlap)
	p.logger.Info("splitting document",
		"name", name,
		"words", len(words),
		"windows", len(windows))

	chunks := p.embedWindows(ctx, windows)
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	if dropped := len(windows) - len(chunks); dropped > 0 {
		p.logger.Warn("some windows failed to embed", "name", name, "dropped", dropped)
	}

	doc := &core.Document{
		Name:   name,
		Raw:    raw,
		Info:   ExtractInfo(words),
		Chunks: chunks,
	}
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	if err := p.documents.PutDocument(ctx, doc); err != nil {
		return nil, err
	}

	if p.cache != nil {
		if err := p.cache.InvalidateDocument(ctx, name); err != nil {
			p.logger.Error("failed to invalidate cache for document", "name", name, "err", err)
		}
	}

	p.logger.Info("ingested document", "name", name, "chunks", len(doc.Chunks))
	return doc, nil
}

// embedWindows embeds every window concurrently, preserving window order.
// Failed windows leave a hole that is compacted out afterwards.
func (p *Pipeline) embedWindows(ctx context.Context, windows []Window) []core.Chunk {
	results := make([]*core.Chunk, len(windows))

	var wg sync.WaitGroup
	for i, w := range windows {
		i, w := i, w
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()

			vector, err := p.embedder.EmbedText(ctx, w.Text)
			if err != nil || len(vector) == 0 {
				p.logger.Warn("failed to embed window", "pages", w.PageSpan, "err", err)
				return
			}
			results[i] = &core.Chunk{
				Text:     w.Text,
				PageSpan: w.PageSpan,
				Vector:   vector,
			}
		})
		if submitErr != nil {
			// Pool refused the task (released or saturated with no wait)
			wg.Done()
			p.logger.Warn("failed to submit embedding task", "err", submitErr)
		}
	}
	wg.Wait()

	chunks := make([]core.Chunk, 0, len(windows))
	for _, c := range results {
		if c != nil {
			chunks = append(chunks, *c)
		}
	}
	return chunks
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
