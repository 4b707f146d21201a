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


package regent

import (
	"context"
	"log/slog"

	"github.com/gcnlabs/regent/ai"
	"github.com/gcnlabs/regent/ai/openai"
	"github.com/gcnlabs/regent/core"
	"github.com/gcnlabs/regent/ingestion"
	"github.com/gcnlabs/regent/orchestrator"
	"github.com/gcnlabs/regent/search"
	"github.com/gcnlabs/regent/storage"
	"github.com/gcnlabs/regent/storage/badger"
	"github.com/gcnlabs/regent/web"
)

// rankCachePrefix covers cached corpus rankings. Those depend on the whole
// corpus, so any document mutation drops the tier wholesale; per-document
// tags cannot catch additions.
const rankCachePrefix = "rank:"

// Engine owns the storage backend, the AI provider, and the retrieval and
// orchestration services built on top of them. It is the single entry point
// for embedding documents and answering queries.
type Engine struct {
	backend      *badger.Backend
	documents    storage.DocumentRepository
	chatMemory   storage.ChatMemoryRepository
	cache        storage.Cache
	provider     ai.Provider
	ranker       *search.Ranker
	pipeline     *ingestion.Pipeline
	orchestrator *orchestrator.Orchestrator
	logger       *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig     *ai.Config
	provider     ai.Provider
	searchConfig *search.Config
	webAPIKey    string
	inMemory     bool
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithAIProvider injects a pre-built provider, bypassing the OpenAI
// configuration entirely. Intended for tests.
func WithAIProvider(provider ai.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithSearchConfig overrides the retrieval thresholds and caps.
func WithSearchConfig(config search.Config) EngineOption {
	return func(o *engineOptions) {
		o.searchConfig = &config
	}
}

// WithWebSearch enables online context using the given SerpAPI key.
func WithWebSearch(apiKey string) EngineOption {
	return func(o *engineOptions) {
		o.webAPIKey = apiKey
	}
}

// WithInMemory keeps all storage in memory. Intended for tests.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// NewEngine opens the storage backend at filePath and wires up the
// ingestion pipeline, ranker, and orchestrator.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	documents, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	chatMemory, err := badger.NewChatMemoryRepository(backend)
	if err != nil {
		documents.Close()
		backend.Close()
		return nil, err
	}

	cache, err := badger.NewCache(backend)
	if err != nil {
		chatMemory.Close()
		documents.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			cache.Close()
			chatMemory.Close()
			documents.Close()
			backend.Close()
			return nil, err
		}
	}

	e := &Engine{
		backend:    backend,
		documents:  documents,
		chatMemory: chatMemory,
		cache:      cache,
		provider:   provider,
		logger:     slog.Default().With("component", "engine"),
	}

	rankerOpts := []search.Option{}
	if options.searchConfig != nil {
		rankerOpts = append(rankerOpts, search.WithConfig(*options.searchConfig))
	}
	e.ranker, err = search.NewRanker(documents, rankerOpts...)
	if err != nil {
		e.Close()
		return nil, err
	}

	e.pipeline, err = ingestion.NewPipeline(documents, cache, provider)
	if err != nil {
		e.Close()
		return nil, err
	}

	orchOpts := []orchestrator.Option{}
	if options.webAPIKey != "" {
		searchClient, err := web.NewSearchClient(options.webAPIKey)
		if err != nil {
			e.Close()
			return nil, err
		}
		orchOpts = append(orchOpts, orchestrator.WithWebServices(searchClient, web.NewScraper()))
	}
	e.orchestrator, err = orchestrator.New(documents, chatMemory, cache, e.ranker, provider, orchOpts...)
	if err != nil {
		e.Close()
		return nil, err
	}

	return e, nil
}

// Close releases the worker pools, the AI provider, and the storage backend.
func (e *Engine) Close() error {
	if e.pipeline != nil {
		e.pipeline.Release()
	}
	if e.ranker != nil {
		e.ranker.Release()
	}

	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}

	if err := e.cache.Close(); err != nil {
		e.logger.Error("error closing cache", "err", err)
		return err
	}
	if err := e.chatMemory.Close(); err != nil {
		e.logger.Error("error closing chat memory", "err", err)
		return err
	}
	if err := e.documents.Close(); err != nil {
		e.logger.Error("error closing document repository", "err", err)
		return err
	}

	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// HandleQuery answers a query with document, chat, and online context as
// requested.
func (e *Engine) HandleQuery(ctx context.Context, req orchestrator.Request) (*core.Response, error) {
	return e.orchestrator.HandleQuery(ctx, req)
}

// IngestPDF extracts, chunks, and embeds a PDF under the given name,
// replacing any previous version. Cached results derived from the old
// version, and all corpus rankings, are invalidated.
func (e *Engine) IngestPDF(ctx context.Context, name string, data []byte) (*core.Document, error) {
	doc, err := e.pipeline.IngestPDF(ctx, name, data)
	if err != nil {
		return nil, err
	}
	e.invalidateRankings(ctx)
	return doc, nil
}

// DeleteDocument removes a document and every cached result derived
// from it.
func (e *Engine) DeleteDocument(ctx context.Context, name string) error {
	if err := e.documents.DeleteDocument(ctx, name); err != nil {
		return err
	}
	if err := e.cache.InvalidateDocument(ctx, name); err != nil {
		e.logger.Warn("failed to invalidate cache for document", "name", name, "err", err)
	}
	e.invalidateRankings(ctx)
	return nil
}

// UpdateDocumentInfo replaces a document's free-text summary. Cached chunk
// selections carry the summary, so entries derived from the document are
// invalidated.
func (e *Engine) UpdateDocumentInfo(ctx context.Context, name, info string) error {
	if err := e.documents.UpdateInfo(ctx, name, info); err != nil {
		return err
	}
	if err := e.cache.InvalidateDocument(ctx, name); err != nil {
		e.logger.Warn("failed to invalidate cache for document", "name", name, "err", err)
	}
	return nil
}

// SearchDocuments lists documents whose name or summary contains the query.
func (e *Engine) SearchDocuments(ctx context.Context, query string) ([]*core.Document, error) {
	return e.documents.SearchDocuments(ctx, query)
}

func (e *Engine) invalidateRankings(ctx context.Context) {
	if err := e.cache.InvalidatePrefix(ctx, rankCachePrefix); err != nil {
		e.logger.Warn("failed to invalidate cached rankings", "err", err)
	}
}

// DocumentRepository exposes the underlying document store.
func (e *Engine) DocumentRepository() storage.DocumentRepository {
	return e.documents
}

// ChatMemoryRepository exposes the underlying chat memory store.
func (e *Engine) ChatMemoryRepository() storage.ChatMemoryRepository {
	return e.chatMemory
}

// Cache exposes the underlying result cache.
func (e *Engine) Cache() storage.Cache {
	return e.cache
}
