package mock

import (
	"context"
	"strings"
	"unicode"

	"github.com/gcnlabs/regent/ai"
)

// MockAssistant is a test double for ai.Assistant.
// It allows custom behavior injection via function fields.
type MockAssistant struct {
	// AnswerFunc is called by Answer if set.
	// If nil, returns a canned answer that echoes the query.
	AnswerFunc func(ctx context.Context, query, documentContext, chatContext string) (string, error)

	// ChatNameFunc is called by ChatName if set.
	// If nil, title-cases the first four words of the query.
	ChatNameFunc func(ctx context.Context, query string) (string, error)

	// RelatedQueriesFunc is called by RelatedQueries if set.
	// If nil, returns deterministic follow-up questions.
	RelatedQueriesFunc func(ctx context.Context, query string) ([]string, error)

	// RefineSearchQueryFunc is called by RefineSearchQuery if set.
	// If nil, appends generic qualifiers to the query.
	RefineSearchQueryFunc func(ctx context.Context, query string) (string, error)

	// SummarizeFunc is called by Summarize if set.
	// If nil, returns a truncated echo of the exchange.
	SummarizeFunc func(ctx context.Context, query, answer string) (ai.ChatSummary, error)

	callCount int
}

// NewMockAssistant creates a mock assistant with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockAssistant().
func NewMockAssistant() *MockAssistant {
	return &MockAssistant{}
}

// Answer returns a canned answer referencing the query and context sizes.
func (m *MockAssistant) Answer(ctx context.Context, query, documentContext, chatContext string) (string, error) {
	m.callCount++

	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, query, documentContext, chatContext)
	}

	var b strings.Builder
	b.WriteString("Answer to: ")
	b.WriteString(query)
	if documentContext != "" {
		b.WriteString(" (with document context)")
	}
	if chatContext != "" {
		b.WriteString(" (with chat history)")
	}
	return b.String(), nil
}

// ChatName title-cases the first four words of the query.
func (m *MockAssistant) ChatName(ctx context.Context, query string) (string, error) {
	m.callCount++

	if m.ChatNameFunc != nil {
		return m.ChatNameFunc(ctx, query)
	}

	words := strings.Fields(query)
	if len(words) > 4 {
		words = words[:4]
	}
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " "), nil
}

// RelatedQueries returns deterministic follow-up questions.
func (m *MockAssistant) RelatedQueries(ctx context.Context, query string) ([]string, error) {
	m.callCount++

	if m.RelatedQueriesFunc != nil {
		return m.RelatedQueriesFunc(ctx, query)
	}

	return []string{
		"What are the documentation requirements for " + query + "?",
		"What are the penalties for non-compliance?",
		"Who is responsible for enforcement?",
	}, nil
}

// RefineSearchQuery appends generic qualifiers to the query.
func (m *MockAssistant) RefineSearchQuery(ctx context.Context, query string) (string, error) {
	m.callCount++

	if m.RefineSearchQueryFunc != nil {
		return m.RefineSearchQueryFunc(ctx, query)
	}

	return query + " compliance regulatory", nil
}

// Summarize returns a truncated echo of the exchange.
func (m *MockAssistant) Summarize(ctx context.Context, query, answer string) (ai.ChatSummary, error) {
	m.callCount++

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, query, answer)
	}

	summary := "Discussed: " + query
	point := answer
	if len(point) > 80 {
		point = point[:80]
	}
	return ai.ChatSummary{
		Summary:   summary,
		KeyPoints: []string{point},
	}, nil
}

// CallCount returns the number of times any method was called.
func (m *MockAssistant) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockAssistant) Reset() {
	m.callCount = 0
	m.AnswerFunc = nil
	m.ChatNameFunc = nil
	m.RelatedQueriesFunc = nil
	m.RefineSearchQueryFunc = nil
	m.SummarizeFunc = nil
}
