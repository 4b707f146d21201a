package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearchServer(t *testing.T, handler http.HandlerFunc) *SearchClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewSearchClient("test-key", WithBaseURL(server.URL))
	require.NoError(t, err)
	return client
}

func TestNewSearchClientRequiresKey(t *testing.T) {
	_, err := NewSearchClient("  ")
	assert.ErrorIs(t, err, ErrAPIKeyRequired)
}

func TestSearchLinks(t *testing.T) {
	client := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "google", r.URL.Query().Get("engine"))
		assert.Equal(t, "fire extinguisher servicing", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		w.Write([]byte(`{
			"organic_results": [
				{"link": "https://example.com/a", "title": "Guide A", "snippet": "servicing intervals"},
				{"link": "https://example.com/b", "title": "Guide B", "snippet": "extinguisher types"},
				{"title": "no link, dropped"},
				{"link": "https://example.com/c", "title": "Guide C", "snippet": "inspection"}
			]
		}`))
	})

	links, err := client.SearchLinks(context.Background(), "fire extinguisher servicing", 2)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "https://example.com/a", links[0].URL)
	assert.Equal(t, "Guide A", links[0].Title)
	assert.Equal(t, "servicing intervals", links[0].Snippet)
}

func TestSearchImagesFiltersByRelevance(t *testing.T) {
	client := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "google_images", r.URL.Query().Get("engine"))
		w.Write([]byte(`{
			"images_results": [
				{"original": "https://img/1.png", "title": "Compliance infographic"},
				{"original": "https://img/2.png", "title": "Cat picture"},
				{"original": "https://img/3.png", "description": "regulatory diagram"},
				{"title": "compliance, but no original URL"}
			]
		}`))
	})

	images, err := client.SearchImages(context.Background(), "chemical storage", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://img/1.png", "https://img/3.png"}, images)
}

func TestSearchVideosExtractsIDs(t *testing.T) {
	client := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "youtube", r.URL.Query().Get("engine"))
		w.Write([]byte(`{
			"video_results": [
				{"link": "https://www.youtube.com/watch?v=abc123XY"},
				{"link": "https://www.youtube.com/playlist?list=PL9"},
				{"link": "https://www.youtube.com/watch?v=def-456_Z"}
			]
		}`))
	})

	ids, err := client.SearchVideos(context.Background(), "ISO 9001", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc123XY", "def-456_Z"}, ids)
}

func TestSearchAPIError(t *testing.T) {
	client := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "invalid API key"}`))
	})

	_, err := client.SearchLinks(context.Background(), "query", 3)
	assert.ErrorIs(t, err, ErrSearchFailed)
}

func TestSearchHTTPError(t *testing.T) {
	client := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.SearchLinks(context.Background(), "query", 3)
	assert.ErrorIs(t, err, ErrSearchFailed)
}
