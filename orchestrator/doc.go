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


// Package orchestrator coordinates a query across retrieval, online
// context, and answer synthesis.
//
// HandleQuery fans independent work out to named tasks running
// concurrently and joins their results by task name, so a slow or failed
// task can never be attributed to the wrong slot. Auxiliary tasks (online
// context, related queries, chat naming) degrade to empty results or
// fallbacks on failure; storage and embedding failures surface as errors.
//
// Results that are pure functions of their inputs are cached: corpus
// relevance on the long TTL tier, query-volatile results (web search,
// related queries, synthesized answers) on the short tier. Requests bound
// to a conversation bypass the answer cache, since chat history makes the
// answer non-reproducible from the query alone.
package orchestrator
