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
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// infoWordLimit is the number of leading words used as the document's
// auto-extracted description.
const infoWordLimit = 300

// PageWord is a single word of extracted text tagged with the page it
// appeared on. Page tagging lets chunks that straddle a page boundary
// report their full page range.
type PageWord struct {
	Word string
	Page int
}

// ExtractPages extracts text from a PDF, tagging every word with its
// 1-based page number. Pages with no extractable text are skipped.
func ExtractPages(data []byte) ([]PageWord, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPDF
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}

	var words []PageWord
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document
			continue
		}

		for _, word := range strings.Fields(text) {
			words = append(words, PageWord{Word: word, Page: pageNum})
		}
	}

	if len(words) == 0 {
		return nil, ErrNoText
	}
	return words, nil
}

// ExtractInfo returns the document's leading words as a short description.
func ExtractInfo(words []PageWord) string {
	limit := infoWordLimit
	if len(words) < limit {
		limit = len(words)
	}

	parts := make([]string, limit)
	for i := 0; i < limit; i++ {
		parts[i] = words[i].Word
	}
	return strings.Join(parts, " ")
}
