package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/gcnlabs/regent/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	t.Run("prefers main content", func(t *testing.T) {
		page := `<html><head><title>T</title></head><body>
			<nav>Navigation</nav>
			<main><p>The actual content.</p></main>
			<footer>Footer text</footer>
		</body></html>`

		text := ExtractText(page)
		assert.Equal(t, "The actual content.", text)
	})

	t.Run("falls back to body", func(t *testing.T) {
		page := `<html><head><script>var x=1;</script></head>
			<body><p>Hello</p><p>world</p></body></html>`

		text := ExtractText(page)
		assert.Equal(t, "Hello world", text)
	})

	t.Run("strips chrome and non-content tags", func(t *testing.T) {
		page := `<body>
			<header>Site header</header>
			<nav>Menu</nav>
			<script>alert(1)</script>
			<style>.x{}</style>
			<p>Keep this</p>
			<footer>Site footer</footer>
		</body>`

		text := ExtractText(page)
		assert.Equal(t, "Keep this", text)
	})

	t.Run("unescapes entities", func(t *testing.T) {
		assert.Equal(t, "a & b < c", ExtractText("<body>a &amp; b &lt; c</body>"))
	})

	t.Run("plain text passes through", func(t *testing.T) {
		assert.Equal(t, "just text", ExtractText("  just   text "))
	})
}

func TestFetchText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><main>Inspection is due every <b>12 months</b>.</main></body></html>`))
	}))
	defer server.Close()

	scraper := NewScraper()
	text, err := scraper.FetchText(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Inspection is due every 12 months.", text)
}

func TestFetchTextCapsLength(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<body>" + strings.Repeat("word ", 5000) + "</body>"))
	}))
	defer server.Close()

	scraper := NewScraper()
	text, err := scraper.FetchText(context.Background(), server.URL)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(text), scrapeTextLimit)
}

func TestFetchTextCapsMultibyteCleanly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<body>" + strings.Repeat("é", scrapeTextLimit+500) + "</body>"))
	}))
	defer server.Close()

	scraper := NewScraper()
	text, err := scraper.FetchText(context.Background(), server.URL)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(text))
	assert.Equal(t, scrapeTextLimit, utf8.RuneCountInString(text))
}

func TestFetchTextRetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("<body>recovered</body>"))
	}))
	defer server.Close()

	scraper := NewScraper(WithScrapeRetry(retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}))
	text, err := scraper.FetchText(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchTextGivesUpAfterRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	scraper := NewScraper(WithScrapeRetry(retry.Policy{MaxAttempts: 2, BaseDelay: time.Millisecond}))
	_, err := scraper.FetchText(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestFetchTextEmptyURL(t *testing.T) {
	scraper := NewScraper()
	_, err := scraper.FetchText(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyURL)
}
