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


package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/gcnlabs/regent/ai"
	"github.com/gcnlabs/regent/core"
	"github.com/gcnlabs/regent/search"
	"github.com/gcnlabs/regent/storage"
	"github.com/gcnlabs/regent/web"
)

// fallbackAnswer is returned when answer synthesis fails outright.
const fallbackAnswer = "I apologize, but I'm having trouble processing your request at the moment."

// Task names for the keyed join.
const (
	taskChatName       = "chatName"
	taskChosenChunks   = "chosenChunks"
	taskCorpusChunks   = "corpusChunks"
	taskOnlineContext  = "onlineContext"
	taskOnlineImages   = "onlineImages"
	taskOnlineVideos   = "onlineVideos"
	taskOnlineLinks    = "onlineLinks"
	taskRelatedQueries = "relatedQueries"
)

// Request describes one query to orchestrate.
type Request struct {
	// Query is the question retrieval and synthesis run against. It may be
	// a refined form of what the user typed.
	Query string

	// OrgQuery is the user's original phrasing when Query was refined.
	// It drives chat naming and is echoed in the response. Empty means
	// Query is the original.
	OrgQuery string

	// ChatID scopes the request to a conversation. When set, recent chat
	// summaries feed the answer and the exchange is summarized back into
	// chat memory. Chat-scoped answers are never cached.
	ChatID string

	// Documents names documents the user explicitly chose. Their chunks are
	// retrieved regardless of corpus ranking.
	Documents []string

	// Settings gates the corpus and online context sources.
	Settings core.QuerySettings
}

// corpusResult bundles stage-one scores with the stage-two chunks so the
// corpus task resolves as a single keyed value.
type corpusResult struct {
	Scores  []core.RelevanceScore
	Matches []search.ChunkMatch
}

// Orchestrator fans a query out across retrieval and online context tasks,
// joins the results, and synthesizes the final answer.
type Orchestrator struct {
	documents  storage.DocumentRepository
	chatMemory storage.ChatMemoryRepository
	cache      storage.Cache
	ranker     *search.Ranker
	embedder   ai.Embedder
	assistant  ai.Assistant
	webSearch  *web.SearchClient
	scraper    *web.Scraper
	monitor    search.RetrievalMonitor

	chatContextLimit int
	webLimit         int
	scrapeLimit      int
	taskTimeout      time.Duration
	logger           *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithWebServices enables online context using the given search client and
// scraper. Without them, online tasks resolve empty even when requested.
func WithWebServices(searchClient *web.SearchClient, scraper *web.Scraper) Option {
	return func(o *Orchestrator) error {
		o.webSearch = searchClient
		o.scraper = scraper
		return nil
	}
}

// WithMonitor attaches a retrieval monitor to ranking calls.
func WithMonitor(monitor search.RetrievalMonitor) Option {
	return func(o *Orchestrator) error {
		o.monitor = monitor
		return nil
	}
}

// WithChatContextLimit sets how many recent chat summaries feed the answer.
// Default is 5.
func WithChatContextLimit(limit int) Option {
	return func(o *Orchestrator) error {
		if limit > 0 {
			o.chatContextLimit = limit
		}
		return nil
	}
}

// WithTaskTimeout bounds each fan-out task. Zero disables the bound.
// Default is 30 seconds.
func WithTaskTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) error {
		o.taskTimeout = timeout
		return nil
	}
}

// WithWebLimit caps results per online search. Default is 5.
func WithWebLimit(limit int) Option {
	return func(o *Orchestrator) error {
		if limit > 0 {
			o.webLimit = limit
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// New creates an orchestrator. The cache is optional; everything else is
// required.
func New(
	documents storage.DocumentRepository,
	chatMemory storage.ChatMemoryRepository,
	cache storage.Cache,
	ranker *search.Ranker,
	provider ai.Provider,
	opts ...Option,
) (*Orchestrator, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if chatMemory == nil {
		return nil, ErrChatMemoryRequired
	}
	if ranker == nil {
		return nil, ErrRankerRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	o := &Orchestrator{
		documents:        documents,
		chatMemory:       chatMemory,
		cache:            cache,
		ranker:           ranker,
		embedder:         provider.Embedder(),
		assistant:        provider.Assistant(),
		chatContextLimit: 5,
		webLimit:         5,
		scrapeLimit:      3,
		taskTimeout:      30 * time.Second,
		logger:           slog.Default().With("component", "orchestrator"),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// HandleQuery runs the full query flow: fan out retrieval and online
// context, join by task name, synthesize the answer, and record the
// exchange in chat memory when the request is chat-scoped.
func (o *Orchestrator) HandleQuery(ctx context.Context, req Request) (*core.Response, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, core.ErrEmptyQuery
	}

	// One query embedding shared by every retrieval task
	var queryVector []float32
	if req.Settings.UseDatabase || len(req.Documents) > 0 {
		vector, err := o.embedder.EmbedText(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("embedding query: %w", err)
		}
		if len(vector) == 0 {
			return nil, search.ErrEmptyQueryVector
		}
		queryVector = vector
	}

	tasks := o.buildTasks(req, query, queryVector)
	joined, err := runTasks(ctx, o.logger, o.taskTimeout, tasks)
	if err != nil {
		return nil, err
	}

	chosenMatches, _ := joined[taskChosenChunks].([]search.ChunkMatch)
	corpus, _ := joined[taskCorpusChunks].(corpusResult)
	onlineContext, _ := joined[taskOnlineContext].(string)

	// Documents that actually fed the answer: explicit picks first, then
	// ranked corpus documents
	usedDocs := append([]string{}, req.Documents...)
	seen := make(map[string]bool, len(usedDocs))
	for _, name := range usedDocs {
		seen[name] = true
	}
	for _, score := range corpus.Scores {
		if !seen[score.Name] {
			usedDocs = append(usedDocs, score.Name)
			seen[score.Name] = true
		}
	}

	documentContext := buildDocumentContext(chosenMatches, corpus.Matches, onlineContext)
	chatContext := o.chatContext(ctx, req.ChatID)
	answer := o.synthesizeAnswer(ctx, req, query, usedDocs, documentContext, chatContext)

	if req.ChatID != "" && answer != fallbackAnswer {
		o.recordExchange(ctx, req.ChatID, query, answer)
	}

	references := search.BuildReferences(append(append([]search.ChunkMatch{}, chosenMatches...), corpus.Matches...), o.logger)
	if o.monitor != nil {
		o.monitor.Finish(references)
	}
	refs := make([]*core.Reference, len(references))
	for i := range references {
		refs[i] = &references[i]
	}

	chatName, _ := joined[taskChatName].(string)
	if chatName == "" {
		if req.OrgQuery != "" {
			chatName = fallbackChatName(req.OrgQuery)
		} else {
			chatName = fallbackChatName(query)
		}
	}
	relatedQueries, _ := joined[taskRelatedQueries].([]string)
	onlineImages, _ := joined[taskOnlineImages].([]string)
	onlineVideos, _ := joined[taskOnlineVideos].([]string)
	onlineLinks, _ := joined[taskOnlineLinks].([]core.Link)

	echoQuery := req.Query
	if req.OrgQuery != "" {
		echoQuery = req.OrgQuery
	}

	return &core.Response{
		Query:           echoQuery,
		Answer:          answer,
		ChatName:        chatName,
		References:      refs,
		OnlineImages:    onlineImages,
		OnlineVideos:    onlineVideos,
		OnlineLinks:     onlineLinks,
		RelatedQueries:  relatedQueries,
		Settings:        req.Settings,
		ChosenDocuments: usedDocs,
	}, nil
}

// buildTasks assembles the task set for the request. Only tasks whose
// context source is enabled are dispatched.
func (o *Orchestrator) buildTasks(req Request, query string, queryVector []float32) []task {
	cfg := o.ranker.Config()

	// Chat naming reflects what the user typed, not the refined form
	nameQuery := strings.TrimSpace(req.OrgQuery)
	if nameQuery == "" {
		nameQuery = query
	}

	tasks := []task{
		{name: taskChatName, run: func(ctx context.Context) (any, error) {
			return o.assistant.ChatName(ctx, nameQuery)
		}},
		{name: taskRelatedQueries, run: func(ctx context.Context) (any, error) {
			key := storage.CacheKey("related", query, nil, 0)
			var queries []string
			if o.lookupJSON(ctx, key, &queries) {
				return queries, nil
			}
			queries, err := o.assistant.RelatedQueries(ctx, query)
			if err != nil {
				return nil, err
			}
			o.storeJSON(ctx, key, storage.TTLShort, queries)
			return queries, nil
		}},
	}

	if len(req.Documents) > 0 {
		tasks = append(tasks, task{name: taskChosenChunks, critical: true, run: func(ctx context.Context) (any, error) {
			key := storage.CacheKey("chunks", query, req.Documents, cfg.ChunkThreshold)
			var matches []search.ChunkMatch
			if o.lookupJSON(ctx, key, &matches) {
				return matches, nil
			}
			matches, err := o.ranker.SelectChunks(ctx, queryVector, req.Documents, o.monitor)
			if err != nil {
				return nil, err
			}
			o.storeJSON(ctx, key, storage.TTLLong, matches, req.Documents...)
			return matches, nil
		}})
	}

	if req.Settings.UseDatabase {
		tasks = append(tasks, task{name: taskCorpusChunks, critical: true, run: func(ctx context.Context) (any, error) {
			return o.corpusChunks(ctx, query, queryVector, cfg)
		}})
	}

	if req.Settings.UseOnlineContext && o.webSearch != nil {
		tasks = append(tasks, o.onlineTasks(query)...)
	}

	return tasks
}

// corpusChunks runs both retrieval stages over the whole corpus, caching
// each stage on the long TTL tier.
func (o *Orchestrator) corpusChunks(ctx context.Context, query string, queryVector []float32, cfg search.Config) (any, error) {
	rankKey := storage.CacheKey("rank", query, nil, cfg.DocThreshold)
	var scores []core.RelevanceScore
	if !o.lookupJSON(ctx, rankKey, &scores) {
		var err error
		scores, err = o.ranker.RankDocuments(ctx, query, queryVector, o.monitor)
		if err != nil {
			return nil, err
		}
		names := scoreNames(scores)
		o.storeJSON(ctx, rankKey, storage.TTLLong, scores, names...)
	}
	if len(scores) == 0 {
		return corpusResult{}, nil
	}

	names := scoreNames(scores)
	chunksKey := storage.CacheKey("chunks", query, names, cfg.ChunkThreshold)
	var matches []search.ChunkMatch
	if !o.lookupJSON(ctx, chunksKey, &matches) {
		var err error
		matches, err = o.ranker.SelectChunks(ctx, queryVector, names, o.monitor)
		if err != nil {
			return nil, err
		}
		o.storeJSON(ctx, chunksKey, storage.TTLLong, matches, names...)
	}

	return corpusResult{Scores: scores, Matches: matches}, nil
}

// onlineTasks builds the best-effort web tasks: scraped answer context,
// images, videos, and links. All are cached on the short tier.
func (o *Orchestrator) onlineTasks(query string) []task {
	return []task{
		{name: taskOnlineContext, run: func(ctx context.Context) (any, error) {
			key := storage.CacheKey("webctx", query, nil, 0)
			var content string
			if o.lookupJSON(ctx, key, &content) {
				return content, nil
			}
			content, err := o.scrapeOnlineContext(ctx, query)
			if err != nil {
				return nil, err
			}
			o.storeJSON(ctx, key, storage.TTLShort, content)
			return content, nil
		}},
		{name: taskOnlineImages, run: func(ctx context.Context) (any, error) {
			key := storage.CacheKey("webimages", query, nil, 0)
			var images []string
			if o.lookupJSON(ctx, key, &images) {
				return images, nil
			}
			images, err := o.webSearch.SearchImages(ctx, o.refinedQuery(ctx, query), o.webLimit)
			if err != nil {
				return nil, err
			}
			o.storeJSON(ctx, key, storage.TTLShort, images)
			return images, nil
		}},
		{name: taskOnlineVideos, run: func(ctx context.Context) (any, error) {
			key := storage.CacheKey("webvideos", query, nil, 0)
			var videos []string
			if o.lookupJSON(ctx, key, &videos) {
				return videos, nil
			}
			videos, err := o.webSearch.SearchVideos(ctx, o.refinedQuery(ctx, query), o.webLimit)
			if err != nil {
				return nil, err
			}
			o.storeJSON(ctx, key, storage.TTLShort, videos)
			return videos, nil
		}},
		{name: taskOnlineLinks, run: func(ctx context.Context) (any, error) {
			key := storage.CacheKey("weblinks", query, nil, 0)
			var links []core.Link
			if o.lookupJSON(ctx, key, &links) {
				return links, nil
			}
			links, err := o.webSearch.SearchLinks(ctx, query, o.webLimit)
			if err != nil {
				return nil, err
			}
			o.storeJSON(ctx, key, storage.TTLShort, links)
			return links, nil
		}},
	}
}

// refinedQuery rewrites the query for media search, falling back to the
// query with generic qualifiers when the language model is unavailable.
func (o *Orchestrator) refinedQuery(ctx context.Context, query string) string {
	refined, err := o.assistant.RefineSearchQuery(ctx, query)
	if err != nil || strings.TrimSpace(refined) == "" {
		return query + " compliance regulatory"
	}
	return refined
}

// scrapeOnlineContext searches the web and scrapes the top results into a
// labeled context block. Pages that fail to scrape are skipped.
func (o *Orchestrator) scrapeOnlineContext(ctx context.Context, query string) (string, error) {
	links, err := o.webSearch.SearchLinks(ctx, query, o.scrapeLimit)
	if err != nil {
		return "", err
	}

	var sections []string
	for _, link := range links {
		if o.scraper == nil {
			break
		}
		text, err := o.scraper.FetchText(ctx, link.URL)
		if err != nil || text == "" {
			continue
		}
		sections = append(sections, fmt.Sprintf("url: %s\ncontent: %s", link.URL, text))
	}
	return strings.Join(sections, "\n\n"), nil
}

// synthesizeAnswer produces the final answer, consulting the answer cache
// for stateless requests and falling back to an apology when the language
// model fails.
func (o *Orchestrator) synthesizeAnswer(ctx context.Context, req Request, query string, usedDocs []string, documentContext, chatContext string) string {
	cacheable := req.ChatID == ""
	key := storage.CacheKey(answerOp(req.Settings), query, usedDocs, 0)

	if cacheable {
		var cached string
		if o.lookupJSON(ctx, key, &cached) {
			return cached
		}
	}

	answer, err := o.assistant.Answer(ctx, query, documentContext, chatContext)
	if err != nil || strings.TrimSpace(answer) == "" {
		o.logger.Error("answer synthesis failed", "err", err)
		return fallbackAnswer
	}

	if cacheable {
		o.storeJSON(ctx, key, storage.TTLShort, answer, usedDocs...)
	}
	return answer
}

// recordExchange summarizes the turn into chat memory. Failures are logged;
// the response is already complete.
func (o *Orchestrator) recordExchange(ctx context.Context, chatID, query, answer string) {
	summary, err := o.assistant.Summarize(ctx, query, answer)
	if err != nil {
		o.logger.Warn("failed to summarize exchange", "chatID", chatID, "err", err)
		return
	}

	entry := &core.ChatEntry{
		ChatID:    chatID,
		Summary:   summary.Summary,
		KeyPoints: summary.KeyPoints,
	}
	if err := o.chatMemory.AddEntries(ctx, entry); err != nil {
		o.logger.Warn("failed to record chat entry", "chatID", chatID, "err", err)
	}
}

// chatContext formats recent conversation summaries for the answer prompt.
func (o *Orchestrator) chatContext(ctx context.Context, chatID string) string {
	if chatID == "" {
		return ""
	}

	entries, err := o.chatMemory.GetRecent(ctx, chatID, o.chatContextLimit)
	if err != nil {
		o.logger.Warn("failed to load chat context", "chatID", chatID, "err", err)
		return ""
	}
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Previous conversation context:\n")
	for _, entry := range entries {
		fmt.Fprintf(&b, "\n[%s]\nSummary: %s\n", entry.CreatedAt.Format("2006-01-02 15:04"), entry.Summary)
		if len(entry.KeyPoints) > 0 {
			b.WriteString("Key points:\n")
			for _, point := range entry.KeyPoints {
				fmt.Fprintf(&b, "• %s\n", point)
			}
		}
	}
	return b.String()
}

// lookupJSON reads and decodes a cached value. A decode failure is treated
// as a miss.
func (o *Orchestrator) lookupJSON(ctx context.Context, key string, out any) bool {
	if o.cache == nil {
		return false
	}
	data, err := o.cache.Get(ctx, key)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		o.logger.Warn("discarding undecodable cache entry", "key", key, "err", err)
		return false
	}
	return true
}

// storeJSON encodes and caches a value, best-effort.
func (o *Orchestrator) storeJSON(ctx context.Context, key string, ttl time.Duration, value any, docNames ...string) {
	if o.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		o.logger.Warn("failed to encode cache value", "key", key, "err", err)
		return
	}
	if err := o.cache.Set(ctx, key, data, ttl, docNames...); err != nil {
		o.logger.Warn("failed to cache value", "key", key, "err", err)
	}
}

// answerOp derives the answer cache namespace from the settings, so the
// same query with different context sources never collides.
func answerOp(settings core.QuerySettings) string {
	return fmt.Sprintf("answer.db%t.web%t", settings.UseDatabase, settings.UseOnlineContext)
}

// buildDocumentContext assembles the labeled context sections fed to
// answer synthesis.
func buildDocumentContext(chosen, corpus []search.ChunkMatch, online string) string {
	var sections []string
	if len(chosen) > 0 {
		sections = append(sections, "From Specified Documents:\n\n"+formatMatches(chosen))
	}
	if len(corpus) > 0 {
		sections = append(sections, "From Related Documents:\n\n"+formatMatches(corpus))
	}
	if online != "" {
		sections = append(sections, "Online Sources:\n\n"+online)
	}
	return strings.Join(sections, "\n\n")
}

func formatMatches(matches []search.ChunkMatch) string {
	lines := make([]string, len(matches))
	for i, m := range matches {
		lines[i] = fmt.Sprintf("[%s Page %s] %s", m.Document, m.PageSpan, m.Text)
	}
	return strings.Join(lines, "\n\n")
}

// fallbackChatName derives a title from the query's leading words when the
// language model cannot provide one.
func fallbackChatName(query string) string {
	words := strings.Fields(query)
	if len(words) > 4 {
		words = words[:4]
	}
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func scoreNames(scores []core.RelevanceScore) []string {
	names := make([]string, len(scores))
	for i, s := range scores {
		names[i] = s.Name
	}
	return names
}
