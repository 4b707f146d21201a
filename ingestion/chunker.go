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
	"strings"

	"github.com/gcnlabs/regent/core"
)

const (
	// DefaultChunkSize is the window width in words.
	DefaultChunkSize = 20

	// DefaultChunkOverlap is the number of words shared between
	// consecutive windows.
	DefaultChunkOverlap = 5
)

// Window is a chunk of text before embedding: the joined words of one
// overlapping window plus the page span they cover.
type Window struct {
	Text     string
	PageSpan string
}

// SplitWindows partitions page-tagged words into overlapping windows.
// The stride between window starts is size-overlap, so every word is
// covered and consecutive windows share overlap words. Windows that
// join to whitespace-only text are dropped.
func SplitWindows(words []PageWord, size, overlap int) []Window {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
		// Small windows cannot carry the default overlap; keep the
		// stride positive
		if overlap >= size {
			overlap = size - 1
		}
	}

	var windows []Window
	stride := size - overlap
	for start := 0; start < len(words); start += stride {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		window := words[start:end]

		parts := make([]string, len(window))
		minPage, maxPage := window[0].Page, window[0].Page
		for i, w := range window {
			parts[i] = w.Word
			if w.Page < minPage {
				minPage = w.Page
			}
			if w.Page > maxPage {
				maxPage = w.Page
			}
		}

		text := strings.Join(parts, " ")
		if strings.TrimSpace(text) == "" {
			continue
		}

		windows = append(windows, Window{
			Text:     text,
			PageSpan: core.MakePageSpan(minPage, maxPage),
		})
	}

	return windows
}
