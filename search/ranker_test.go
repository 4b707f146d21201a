package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/gcnlabs/regent/core"
	"github.com/gcnlabs/regent/storage"
	"github.com/gcnlabs/regent/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRanker(t *testing.T, opts ...Option) (*Ranker, storage.DocumentRepository) {
	t.Helper()

	docRepo, _, _, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	ranker, err := NewRanker(docRepo, opts...)
	require.NoError(t, err)
	t.Cleanup(ranker.Release)

	return ranker, docRepo
}

func putDoc(t *testing.T, repo storage.DocumentRepository, name string, vectors ...[]float32) {
	t.Helper()

	chunks := make([]core.Chunk, len(vectors))
	for i, v := range vectors {
		chunks[i] = core.Chunk{
			Text:     fmt.Sprintf("%s chunk %d", name, i),
			PageSpan: core.MakePageSpan(i+1, i+1),
			Vector:   v,
		}
	}
	require.NoError(t, repo.PutDocument(context.Background(), &core.Document{
		Name:   name,
		Chunks: chunks,
	}))
}

func TestRankDocumentsOrdersByScore(t *testing.T) {
	ranker, repo := newTestRanker(t)
	ctx := context.Background()

	putDoc(t, repo, "fire-extinguisher-manual.pdf", []float32{1, 0, 0})
	putDoc(t, repo, "pressure-vessels.pdf", []float32{0.6, 0.8, 0})
	putDoc(t, repo, "catering-policy.pdf", []float32{0, 1, 0})

	scores, err := ranker.RankDocuments(ctx, "safety inspection", []float32{1, 0, 0}, nil)
	require.NoError(t, err)

	require.Len(t, scores, 2)
	assert.Equal(t, "fire-extinguisher-manual.pdf", scores[0].Name)
	assert.Equal(t, "pressure-vessels.pdf", scores[1].Name)
	assert.Greater(t, scores[0].Combined, scores[1].Combined)
}

func TestRankDocumentsCombinedScore(t *testing.T) {
	ranker, repo := newTestRanker(t)

	// Two chunks with similarities 1.0 and 0.0:
	// combined = 0.7*1.0 + 0.3*0.5 = 0.85
	putDoc(t, repo, "mixed.pdf", []float32{1, 0}, []float32{0, 1})

	scores, err := ranker.RankDocuments(context.Background(), "anything", []float32{1, 0}, nil)
	require.NoError(t, err)
	require.Len(t, scores, 1)

	assert.InDelta(t, 1.0, scores[0].MaxSimilarity, 1e-5)
	assert.InDelta(t, 0.5, scores[0].AvgSimilarity, 1e-5)
	assert.InDelta(t, 0.7*1.0+0.3*0.5, scores[0].Combined, 1e-5)
}

func TestRankDocumentsLexicalOverride(t *testing.T) {
	ranker, repo := newTestRanker(t)

	// Both documents are semantically irrelevant to the query vector
	putDoc(t, repo, "extinguisher-history.pdf", []float32{0, 1, 0})
	putDoc(t, repo, "catering-policy.pdf", []float32{0, 1, 0})

	scores, err := ranker.RankDocuments(context.Background(), "Extinguisher", []float32{1, 0, 0}, nil)
	require.NoError(t, err)

	require.Len(t, scores, 1)
	assert.Equal(t, "extinguisher-history.pdf", scores[0].Name)
}

func TestRankDocumentsCap(t *testing.T) {
	ranker, repo := newTestRanker(t)

	for i := 0; i < 7; i++ {
		putDoc(t, repo, fmt.Sprintf("doc-%d.pdf", i), []float32{1, 0})
	}

	scores, err := ranker.RankDocuments(context.Background(), "query", []float32{1, 0}, nil)
	require.NoError(t, err)
	assert.Len(t, scores, DefaultConfig().MaxDocuments)
}

func TestRankDocumentsTieBreakByName(t *testing.T) {
	ranker, repo := newTestRanker(t)

	putDoc(t, repo, "zeta.pdf", []float32{1, 0})
	putDoc(t, repo, "alpha.pdf", []float32{1, 0})

	scores, err := ranker.RankDocuments(context.Background(), "query", []float32{1, 0}, nil)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "alpha.pdf", scores[0].Name)
	assert.Equal(t, "zeta.pdf", scores[1].Name)
}

func TestRankDocumentsEmptyCorpus(t *testing.T) {
	ranker, _ := newTestRanker(t)

	scores, err := ranker.RankDocuments(context.Background(), "query", []float32{1, 0}, nil)
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestRankDocumentsEmptyQueryVector(t *testing.T) {
	ranker, _ := newTestRanker(t)

	_, err := ranker.RankDocuments(context.Background(), "query", nil, nil)
	assert.ErrorIs(t, err, ErrEmptyQueryVector)
}

func TestRankDocumentsDeterministic(t *testing.T) {
	ranker, repo := newTestRanker(t, WithPoolSize(4))

	for i := 0; i < 6; i++ {
		putDoc(t, repo, fmt.Sprintf("doc-%d.pdf", i), []float32{1, float32(i) * 0.05})
	}

	first, err := ranker.RankDocuments(context.Background(), "query", []float32{1, 0}, nil)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := ranker.RankDocuments(context.Background(), "query", []float32{1, 0}, nil)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSelectChunksPerDocumentCap(t *testing.T) {
	ranker, repo := newTestRanker(t)

	// Five chunks, all above threshold
	putDoc(t, repo, "dense.pdf",
		[]float32{1, 0}, []float32{1, 0.1}, []float32{1, 0.2},
		[]float32{1, 0.3}, []float32{1, 0.4})

	matches, err := ranker.SelectChunks(context.Background(), []float32{1, 0}, []string{"dense.pdf"}, nil)
	require.NoError(t, err)
	assert.Len(t, matches, DefaultConfig().MaxChunksPerDocument)

	// Best chunks first
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Similarity, matches[i].Similarity)
	}
}

func TestSelectChunksGlobalCap(t *testing.T) {
	ranker, repo := newTestRanker(t)

	putDoc(t, repo, "first.pdf", []float32{1, 0}, []float32{1, 0.1}, []float32{1, 0.2})
	putDoc(t, repo, "second.pdf", []float32{1, 0}, []float32{1, 0.1}, []float32{1, 0.2})

	matches, err := ranker.SelectChunks(context.Background(), []float32{1, 0},
		[]string{"first.pdf", "second.pdf"}, nil)
	require.NoError(t, err)
	assert.Len(t, matches, DefaultConfig().MaxChunks)
}

func TestSelectChunksThreshold(t *testing.T) {
	ranker, repo := newTestRanker(t)

	putDoc(t, repo, "mixed.pdf", []float32{1, 0}, []float32{0, 1})

	matches, err := ranker.SelectChunks(context.Background(), []float32{1, 0}, []string{"mixed.pdf"}, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.GreaterOrEqual(t, matches[0].Similarity, DefaultConfig().ChunkThreshold)
}

func TestSelectChunksSkipsMissingDocuments(t *testing.T) {
	ranker, repo := newTestRanker(t)

	putDoc(t, repo, "present.pdf", []float32{1, 0})

	matches, err := ranker.SelectChunks(context.Background(), []float32{1, 0},
		[]string{"ghost.pdf", "present.pdf"}, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "present.pdf", matches[0].Document)
}

// recordingMonitor captures monitor callbacks for assertions.
type recordingMonitor struct {
	started   string
	scored    int
	overrides []string
	selected  []string
	chunks    int
	finished  bool
}

func (m *recordingMonitor) Start(query string)                               { m.started = query }
func (m *recordingMonitor) AfterDocumentScoring(scores []core.RelevanceScore) { m.scored = len(scores) }
func (m *recordingMonitor) LexicalOverride(names []string)                   { m.overrides = names }
func (m *recordingMonitor) AfterDocumentSelection(names []string)            { m.selected = names }
func (m *recordingMonitor) AfterChunkSelection(matches []ChunkMatch)         { m.chunks = len(matches) }
func (m *recordingMonitor) Finish(_ []core.Reference)                        { m.finished = true }

func TestRankDocumentsMonitorCallbacks(t *testing.T) {
	ranker, repo := newTestRanker(t)

	putDoc(t, repo, "extinguisher-guide.pdf", []float32{1, 0})
	putDoc(t, repo, "other.pdf", []float32{0, 1})

	monitor := &recordingMonitor{}
	_, err := ranker.RankDocuments(context.Background(), "extinguisher", []float32{1, 0}, monitor)
	require.NoError(t, err)

	assert.Equal(t, "extinguisher", monitor.started)
	assert.Equal(t, 2, monitor.scored)
	assert.Equal(t, []string{"extinguisher-guide.pdf"}, monitor.overrides)
	assert.Equal(t, []string{"extinguisher-guide.pdf"}, monitor.selected)
}
