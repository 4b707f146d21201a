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
	"log/slog"
	"sort"

	"github.com/gcnlabs/regent/core"
)

// snippetLimit caps the excerpt text carried on a reference.
const snippetLimit = 200

// truncateRunes caps text at limit runes, appending an ellipsis when it
// was cut. Counting runes keeps multibyte text intact.
func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

// BuildReferences groups chunk matches into per-document references.
// Page spans expand into deduplicated sorted page lists; a malformed span
// drops that excerpt's pages with a warning but keeps the excerpt text.
// Excerpt text longer than the snippet limit is truncated with an ellipsis.
// References are ordered by score descending, name ascending.
func BuildReferences(matches []ChunkMatch, logger *slog.Logger) []core.Reference {
	if logger == nil {
		logger = slog.Default()
	}

	type refAccum struct {
		pages   map[int]bool
		score   float32
		context []core.Excerpt
		info    string
	}

	byDoc := make(map[string]*refAccum)
	order := make([]string, 0, len(matches))

	for _, match := range matches {
		acc, ok := byDoc[match.Document]
		if !ok {
			acc = &refAccum{pages: make(map[int]bool), info: match.Info}
			byDoc[match.Document] = acc
			order = append(order, match.Document)
		}

		pages, err := core.ParsePageSpan(match.PageSpan)
		if err != nil {
			logger.Warn("invalid page span in chunk",
				"document", match.Document,
				"span", match.PageSpan,
				"err", err)
		} else {
			for _, p := range pages {
				acc.pages[p] = true
			}
		}

		text := truncateRunes(match.Text, snippetLimit)
		acc.context = append(acc.context, core.Excerpt{
			Page: match.PageSpan,
			Text: text,
		})

		if match.Similarity > acc.score {
			acc.score = match.Similarity
		}
	}

	references := make([]core.Reference, 0, len(byDoc))
	for _, name := range order {
		acc := byDoc[name]

		pages := make([]int, 0, len(acc.pages))
		for p := range acc.pages {
			pages = append(pages, p)
		}
		sort.Ints(pages)

		references = append(references, core.Reference{
			Name:    name,
			Pages:   pages,
			Score:   acc.score,
			Context: acc.context,
			Info:    acc.info,
		})
	}

	sort.SliceStable(references, func(i, j int) bool {
		if references[i].Score != references[j].Score {
			return references[i].Score > references[j].Score
		}
		return references[i].Name < references[j].Name
	})

	return references
}
