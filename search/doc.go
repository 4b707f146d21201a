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


// Package search provides two-stage relevance ranking over the document corpus.
//
// The Ranker type implements the retrieval algorithm:
//   - Stage one scores whole documents by combining the maximum and mean
//     cosine similarity of their chunks against the query vector, with a
//     lexical override for documents whose name contains the query
//   - Stage two selects the best chunks from the chosen documents, capped
//     per document and globally
//
// Results are deterministic for a fixed corpus and query: ties break on
// document name, and chunk order follows similarity then corpus order.
package search
