package search

import "github.com/gcnlabs/regent/core"

// RetrievalMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps and results during ranking.
type RetrievalMonitor interface {
	Start(query string)
	AfterDocumentScoring(scores []core.RelevanceScore)
	LexicalOverride(names []string)
	AfterDocumentSelection(names []string)
	AfterChunkSelection(matches []ChunkMatch)
	Finish(references []core.Reference)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                              {}
func (n *noopMonitor) AfterDocumentScoring(_ []core.RelevanceScore) {}
func (n *noopMonitor) LexicalOverride(_ []string)                  {}
func (n *noopMonitor) AfterDocumentSelection(_ []string)           {}
func (n *noopMonitor) AfterChunkSelection(_ []ChunkMatch)          {}
func (n *noopMonitor) Finish(_ []core.Reference)                   {}
