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


package core

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Every chunk must pass ValidateChunk
//
// NOT validated:
//   - Raw (an empty payload is legal; upload rejection happens at the boundary)
//   - Info (may be empty for documents with no extractable text)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyDocumentName)
	}

	for i := range doc.Chunks {
		if err := ValidateChunk(&doc.Chunks[i]); err != nil {
			return fmt.Errorf("%w: chunk %d: %w", ErrInvalidDocument, i, err)
		}
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Vector must not be empty
//   - PageSpan must parse and, for ranges, run forwards
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkText)
	}

	if len(chunk.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyVector)
	}

	if _, err := ParsePageSpan(chunk.PageSpan); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, err)
	}

	return nil
}

// ValidateChatEntry validates a ChatEntry according to domain rules.
func ValidateChatEntry(entry *ChatEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidChatEntry)
	}

	if entry.ChatID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChatEntry, ErrEmptyChatID)
	}

	return nil
}
