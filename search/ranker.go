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


package search

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/gcnlabs/regent/core"
	"github.com/gcnlabs/regent/storage"
	"github.com/panjf2000/ants/v2"
)

// Config holds the tunable knobs of the retrieval algorithm.
type Config struct {
	// MaxWeight and MeanWeight combine a document's best and average chunk
	// similarity into its score. They should sum to 1.
	MaxWeight  float32
	MeanWeight float32

	// DocThreshold is the minimum combined score for a document to be
	// considered relevant.
	DocThreshold float32

	// ChunkThreshold is the minimum similarity for a chunk to be considered
	// in stage two.
	ChunkThreshold float32

	// MaxDocuments caps the documents returned by stage one.
	MaxDocuments int

	// MaxChunksPerDocument caps chunks taken from any single document.
	MaxChunksPerDocument int

	// MaxChunks caps the chunks returned overall.
	MaxChunks int
}

// DefaultConfig returns the standard retrieval configuration.
func DefaultConfig() Config {
	return Config{
		MaxWeight:            0.7,
		MeanWeight:           0.3,
		DocThreshold:         0.4,
		ChunkThreshold:       0.4,
		MaxDocuments:         5,
		MaxChunksPerDocument: 3,
		MaxChunks:            5,
	}
}

// ChunkMatch is a chunk selected in stage two, carrying enough context to
// build references without another storage round-trip.
type ChunkMatch struct {
	Document   string
	Text       string
	PageSpan   string
	Similarity float32
	Info       string
}

// Ranker performs two-stage relevance ranking over the corpus.
type Ranker struct {
	documents storage.DocumentRepository
	config    Config
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker) error

// WithConfig replaces the default retrieval configuration.
func WithConfig(config Config) Option {
	return func(r *Ranker) error {
		r.config = config
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent document scoring.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(r *Ranker) error {
		if size < 1 {
			size = 1
		}
		if r.pool != nil {
			r.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRanker creates a new ranker over the given document repository.
func NewRanker(documents storage.DocumentRepository, opts ...Option) (*Ranker, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Ranker{
		documents: documents,
		config:    DefaultConfig(),
		pool:      pool,
		logger:    slog.Default().With("component", "ranker"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			r.Release()
			return nil, err
		}
	}

	return r, nil
}

// Config returns the ranker's active configuration.
func (r *Ranker) Config() Config {
	return r.config
}

// RankDocuments scores every corpus document against the query vector and
// returns the relevant ones, best first. A document qualifies when its
// combined score clears the threshold or its name contains the query
// (case-insensitively); the two sets are unioned before the cap is applied.
// Ties break on document name so results are deterministic.
func (r *Ranker) RankDocuments(ctx context.Context, query string, queryVector []float32, monitor RetrievalMonitor) ([]core.RelevanceScore, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if len(queryVector) == 0 {
		return nil, ErrEmptyQueryVector
	}

	monitor.Start(query)

	docs, err := r.documents.ListDocuments(ctx)
	if err != nil {
		r.logger.Error("error listing documents for ranking", "err", err)
		return nil, err
	}
	if len(docs) == 0 {
		return []core.RelevanceScore{}, nil
	}

	scores := make([]*core.RelevanceScore, len(docs))
	var wg sync.WaitGroup
	for i, doc := range docs {
		i, doc := i, doc
		wg.Add(1)
		if submitErr := r.pool.Submit(func() {
			defer wg.Done()
			scores[i] = r.scoreDocument(queryVector, doc)
		}); submitErr != nil {
			wg.Done()
			r.logger.Warn("failed to submit scoring task", "name", doc.Name, "err", submitErr)
		}
	}
	wg.Wait()

	scored := make([]core.RelevanceScore, 0, len(docs))
	for _, s := range scores {
		if s != nil {
			scored = append(scored, *s)
		}
	}
	monitor.AfterDocumentScoring(scored)

	// Lexical override: a document whose name contains the query is kept
	// regardless of its vector score
	needle := strings.ToLower(strings.TrimSpace(query))
	var overridden []string
	selected := make([]core.RelevanceScore, 0, len(scored))
	for _, s := range scored {
		lexical := needle != "" && strings.Contains(strings.ToLower(s.Name), needle)
		if lexical {
			overridden = append(overridden, s.Name)
		}
		if lexical || s.Combined >= r.config.DocThreshold {
			selected = append(selected, s)
		}
	}
	if len(overridden) > 0 {
		monitor.LexicalOverride(overridden)
	}

	sort.Slice(selected, func(i, j int) bool {
		if selected[i].Combined != selected[j].Combined {
			return selected[i].Combined > selected[j].Combined
		}
		return selected[i].Name < selected[j].Name
	})
	if len(selected) > r.config.MaxDocuments {
		selected = selected[:r.config.MaxDocuments]
	}

	names := make([]string, len(selected))
	for i, s := range selected {
		names[i] = s.Name
	}
	monitor.AfterDocumentSelection(names)

	r.logger.Debug("ranked documents",
		"corpus", len(docs),
		"selected", len(selected),
		"lexicalOverrides", len(overridden))
	return selected, nil
}

// scoreDocument computes the combined relevance of one document.
// Chunks with unusable vectors are ignored; a document with no usable
// chunks scores nil and is excluded.
func (r *Ranker) scoreDocument(queryVector []float32, doc *core.Document) *core.RelevanceScore {
	var (
		max   float32
		sum   float32
		count int
	)
	for _, chunk := range doc.Chunks {
		sim, err := CosineSimilarity(queryVector, chunk.Vector)
		if err != nil {
			r.logger.Warn("skipping unusable chunk vector",
				"name", doc.Name,
				"pages", chunk.PageSpan,
				"err", err)
			continue
		}
		if count == 0 || sim > max {
			max = sim
		}
		sum += sim
		count++
	}
	if count == 0 {
		return nil
	}

	avg := sum / float32(count)
	return &core.RelevanceScore{
		Name:          doc.Name,
		Combined:      max*r.config.MaxWeight + avg*r.config.MeanWeight,
		MaxSimilarity: max,
		AvgSimilarity: avg,
	}
}

// SelectChunks runs stage two over the named documents: chunks clearing the
// similarity threshold are kept, capped per document, then capped globally.
// Documents missing from the corpus are skipped with a warning.
func (r *Ranker) SelectChunks(ctx context.Context, queryVector []float32, docNames []string, monitor RetrievalMonitor) ([]ChunkMatch, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if len(queryVector) == 0 {
		return nil, ErrEmptyQueryVector
	}

	var all []ChunkMatch
	for _, name := range docNames {
		doc, err := r.documents.GetDocument(ctx, name)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				r.logger.Warn("chosen document not in corpus", "name", name)
				continue
			}
			return nil, err
		}

		var matches []ChunkMatch
		for _, chunk := range doc.Chunks {
			sim, err := CosineSimilarity(queryVector, chunk.Vector)
			if err != nil {
				continue
			}
			if sim < r.config.ChunkThreshold {
				continue
			}
			matches = append(matches, ChunkMatch{
				Document:   name,
				Text:       chunk.Text,
				PageSpan:   chunk.PageSpan,
				Similarity: sim,
				Info:       doc.Info,
			})
		}

		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Similarity > matches[j].Similarity
		})
		if len(matches) > r.config.MaxChunksPerDocument {
			matches = matches[:r.config.MaxChunksPerDocument]
		}
		all = append(all, matches...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Similarity != all[j].Similarity {
			return all[i].Similarity > all[j].Similarity
		}
		return all[i].Document < all[j].Document
	})
	if len(all) > r.config.MaxChunks {
		all = all[:r.config.MaxChunks]
	}

	monitor.AfterChunkSelection(all)
	return all, nil
}

// Release releases the scoring worker pool.
// The ranker should not be used after calling Release.
func (r *Ranker) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}
