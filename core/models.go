package core

//go:generate go run ../cmd/musgen

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// EmbeddingDim is the vector width produced by the reference embedding model
// (all-MiniLM-L6-v2). Stored vectors are compared against each other, not
// against this constant, so other models remain usable.
const EmbeddingDim = 384

// ContentDigest generates a deterministic hex digest from text using BLAKE2b.
// Identical content always produces an identical digest, which makes it
// suitable for content-derived cache keys.
func ContentDigest(text string) string {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Chunk is a bounded span of document text with its embedding and page
// provenance. A chunk that straddles pages carries an inclusive range span
// such as "3-4"; otherwise a single page number such as "3".
type Chunk struct {
	Text     string
	PageSpan string
	Vector   []float32
}

// Pages returns the distinct pages covered by this chunk.
func (c *Chunk) Pages() ([]int, error) {
	return ParsePageSpan(c.PageSpan)
}

// Document is an ingested source document. The raw payload is stored opaquely;
// all retrieval happens over the owned chunk list. Documents are upserted by
// name.
type Document struct {
	Name       string
	Raw        []byte
	Info       string // leading words of the document text, used as a summary
	Chunks     []Chunk
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// RelevanceScore is the per-document outcome of ranking a corpus against a
// query. It is recomputed per query and never persisted.
type RelevanceScore struct {
	Name          string
	Combined      float32
	MaxSimilarity float32
	AvgSimilarity float32
}

// Excerpt is a snippet of chunk text attributed to the page span it came from.
type Excerpt struct {
	Page string
	Text string
}

// Reference aggregates everything a single document contributed to an answer:
// the distinct pages touched, the best similarity seen, and capped context
// excerpts.
type Reference struct {
	Name    string
	Pages   []int
	Score   float32
	Context []Excerpt
	Info    string
}

// ChatEntry is a persisted summary of one question/answer turn within a
// conversation. Recent entries are replayed as conversational context for
// follow-up questions in the same chat.
type ChatEntry struct {
	ChatID    string
	Summary   string
	KeyPoints []string
	CreatedAt time.Time
}

// QuerySettings gates the optional context sources of a query.
type QuerySettings struct {
	UseDatabase      bool // retrieve from the ingested document corpus
	UseOnlineContext bool // fetch web search results and scraped page text
}

// Link is a web search result.
type Link struct {
	URL     string
	Title   string
	Snippet string
}

// Response is the fully reconciled answer to a query.
type Response struct {
	Query           string
	Answer          string
	ChatName        string
	References      []*Reference
	OnlineImages    []string
	OnlineVideos    []string
	OnlineLinks     []Link
	RelatedQueries  []string
	Settings        QuerySettings
	ChosenDocuments []string
}
