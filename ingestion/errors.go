package ingestion

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrEmptyPDF is returned when the PDF payload is empty.
	ErrEmptyPDF = errors.New("empty PDF payload")

	// ErrNoText is returned when no extractable text was found in the PDF.
	ErrNoText = errors.New("no extractable text in PDF")

	// ErrNoChunks is returned when every window failed to embed.
	ErrNoChunks = errors.New("no chunks could be embedded")

	// ErrInvalidChunking is returned for a window size and overlap
	// combination that cannot produce a forward stride.
	ErrInvalidChunking = errors.New("chunk overlap must be non-negative and smaller than the window size")
)
