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


package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gcnlabs/regent/ai"
	"github.com/gcnlabs/regent/retry"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrEmptyResponse indicates the model returned no choices.
var ErrEmptyResponse = errors.New("model returned no choices")

// Assistant implements ai.Assistant using OpenAI-compatible chat APIs.
type Assistant struct {
	client llms.Model
	retry  retry.Policy
	logger *slog.Logger
}

// relatedQueriesResponse is the wrapper structure for the LLM's JSON response
// to the related-queries prompt.
type relatedQueriesResponse struct {
	RelevantQueries []string `json:"relevant_queries"`
}

// summaryResponse is the wrapper structure for the LLM's JSON response
// to the summarization prompt.
type summaryResponse struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
}

// newAssistant is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAssistant(config *ai.Config) (*Assistant, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken("none"),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Assistant{
		client: client,
		retry:  retry.Policy{MaxAttempts: config.MaxRetries, BaseDelay: config.RetryBaseDelay},
		logger: slog.Default().With("component", "openai-assistant"),
	}, nil
}

// NewAssistant creates a new assistant using the provided configuration.
//
// Returns ai.Assistant interface to enforce abstraction.
func NewAssistant(config *ai.Config) (ai.Assistant, error) {
	return newAssistant(config)
}

// complete runs one system/user exchange against the chat model, retrying
// transport failures under the configured policy.
func (a *Assistant) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}

	var text string
	err := a.retry.Do(ctx, func() error {
		response, err := a.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
		if err != nil {
			return err
		}
		if len(response.Choices) < 1 {
			return ErrEmptyResponse
		}
		text = response.Choices[0].Content
		return nil
	})
	if err != nil {
		a.logger.Error("failed to generate content", "err", err)
		return "", err
	}

	return text, nil
}

// completeJSON runs an exchange that must yield JSON, unmarshals the result
// into out, and re-prompts up to 3 times on malformed responses.
func (a *Assistant) completeJSON(ctx context.Context, systemPrompt, userPrompt string, out any) error {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		text, err := a.complete(ctx, systemPrompt, userPrompt)
		if err != nil {
			return err
		}

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(text)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), out); err != nil {
			lastErr = err
			a.logger.Warn("error parsing model response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		return nil
	}

	a.logger.Error("failed to parse model response after retries", "err", lastErr)
	return lastErr
}

// Answer synthesizes a final answer from the labeled document context and
// the prior conversation context.
func (a *Assistant) Answer(ctx context.Context, query, documentContext, chatContext string) (string, error) {
	answer, err := a.complete(ctx, buildAnswerPrompt(documentContext, chatContext), query)
	if err != nil {
		return "", fmt.Errorf("answer synthesis: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// ChatName produces a short descriptive title for a conversation opening
// with the given query.
func (a *Assistant) ChatName(ctx context.Context, query string) (string, error) {
	response, err := a.complete(ctx, chatNamePrompt, query)
	if err != nil {
		return "", fmt.Errorf("chat name: %w", err)
	}

	// Strip quotes the model sometimes wraps the title in
	name := strings.TrimSpace(response)
	name = strings.Trim(name, `"'`)

	// Title-case every word
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " "), nil
}

// RelatedQueries suggests follow-up questions for the given query.
func (a *Assistant) RelatedQueries(ctx context.Context, query string) ([]string, error) {
	var result relatedQueriesResponse
	if err := a.completeJSON(ctx, relatedQueriesPrompt, query, &result); err != nil {
		return nil, fmt.Errorf("related queries: %w", err)
	}

	queries := make([]string, 0, len(result.RelevantQueries))
	for _, q := range result.RelevantQueries {
		q = strings.TrimSpace(q)
		if q != "" {
			queries = append(queries, q)
		}
	}
	return queries, nil
}

// RefineSearchQuery rewrites a user query into a search-engine query.
func (a *Assistant) RefineSearchQuery(ctx context.Context, query string) (string, error) {
	response, err := a.complete(ctx, searchQueryPrompt,
		"Generate a specific search query for: "+query)
	if err != nil {
		return "", fmt.Errorf("search query refinement: %w", err)
	}
	return strings.TrimSpace(response), nil
}

// Summarize condenses a query/answer exchange into conversation memory.
func (a *Assistant) Summarize(ctx context.Context, query, answer string) (ai.ChatSummary, error) {
	exchange := fmt.Sprintf("User Query: %s\nAnswer: %s", query, answer)

	var result summaryResponse
	if err := a.completeJSON(ctx, summaryPrompt, exchange, &result); err != nil {
		return ai.ChatSummary{}, fmt.Errorf("chat summary: %w", err)
	}

	return ai.ChatSummary{
		Summary:   result.Summary,
		KeyPoints: result.KeyPoints,
	}, nil
}
