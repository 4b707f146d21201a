// Package ingestion provides the document ingestion pipeline.
//
// The Pipeline type manages the workflow for bringing a PDF into the
// corpus, including:
//   - Extracting page-tagged text from the PDF
//   - Splitting the text into overlapping word windows
//   - Generating embeddings concurrently using a worker pool
//   - Upserting the document and invalidating dependent cache entries
//
// Windows whose embedding fails are skipped with a warning rather than
// failing the whole document.
package ingestion
