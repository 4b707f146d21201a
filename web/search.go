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


package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gcnlabs/regent/core"
)

// defaultSearchURL is the SerpAPI endpoint. Overridable for tests and
// compatible gateways.
const defaultSearchURL = "https://serpapi.com/search.json"

// imageRelevanceTerms gates image results: an image qualifies only when its
// title or description mentions one of these.
var imageRelevanceTerms = []string{
	"compliance", "regulatory", "technical", "professional", "infographic",
}

var videoIDPattern = regexp.MustCompile(`v=([\w-]+)`)

// SearchClient queries a SerpAPI-compatible endpoint for links, images,
// and videos.
type SearchClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// SearchOption configures a SearchClient.
type SearchOption func(*SearchClient)

// WithBaseURL overrides the search endpoint.
func WithBaseURL(baseURL string) SearchOption {
	return func(c *SearchClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) SearchOption {
	return func(c *SearchClient) {
		c.httpClient = client
	}
}

// WithSearchLogger sets a custom logger.
func WithSearchLogger(logger *slog.Logger) SearchOption {
	return func(c *SearchClient) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// NewSearchClient creates a search client with the given API key.
func NewSearchClient(apiKey string, opts ...SearchOption) (*SearchClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrAPIKeyRequired
	}

	c := &SearchClient{
		apiKey:     apiKey,
		baseURL:    defaultSearchURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     slog.Default().With("component", "web-search"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// searchResponse covers the fields used across the three SerpAPI engines.
type searchResponse struct {
	Error          string `json:"error"`
	OrganicResults []struct {
		Link    string `json:"link"`
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
	ImagesResults []struct {
		Original    string `json:"original"`
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"images_results"`
	VideoResults []struct {
		Link string `json:"link"`
	} `json:"video_results"`
}

func (c *SearchClient) search(ctx context.Context, params url.Values) (*searchResponse, error) {
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrSearchFailed, resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrSearchFailed, result.Error)
	}
	return &result, nil
}

// SearchLinks returns up to limit organic web results for the query.
func (c *SearchClient) SearchLinks(ctx context.Context, query string, limit int) ([]core.Link, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("num", strconv.Itoa(limit))

	result, err := c.search(ctx, params)
	if err != nil {
		c.logger.Warn("link search failed", "query", query, "err", err)
		return nil, err
	}

	links := make([]core.Link, 0, limit)
	for _, r := range result.OrganicResults {
		if r.Link == "" {
			continue
		}
		links = append(links, core.Link{
			URL:     r.Link,
			Title:   r.Title,
			Snippet: r.Snippet,
		})
		if len(links) == limit {
			break
		}
	}
	return links, nil
}

// SearchImages returns up to limit image URLs for the query. Results whose
// title and description carry no compliance-related term are dropped.
func (c *SearchClient) SearchImages(ctx context.Context, query string, limit int) ([]string, error) {
	params := url.Values{}
	params.Set("engine", "google_images")
	params.Set("q", query)
	params.Set("tbm", "isch")
	params.Set("num", strconv.Itoa(limit))
	// Bias toward higher-resolution assets
	params.Set("tbs", "isz:lt,islt:4mp")

	result, err := c.search(ctx, params)
	if err != nil {
		c.logger.Warn("image search failed", "query", query, "err", err)
		return nil, err
	}

	images := make([]string, 0, limit)
	for _, img := range result.ImagesResults {
		if img.Original == "" || !imageIsRelevant(img.Title, img.Description) {
			continue
		}
		images = append(images, img.Original)
		if len(images) == limit {
			break
		}
	}
	return images, nil
}

// SearchVideos returns up to limit YouTube video IDs for the query.
// Results without a parseable video ID are skipped.
func (c *SearchClient) SearchVideos(ctx context.Context, query string, limit int) ([]string, error) {
	params := url.Values{}
	params.Set("engine", "youtube")
	params.Set("search_query", query)

	result, err := c.search(ctx, params)
	if err != nil {
		c.logger.Warn("video search failed", "query", query, "err", err)
		return nil, err
	}

	ids := make([]string, 0, limit)
	for _, vid := range result.VideoResults {
		m := videoIDPattern.FindStringSubmatch(vid.Link)
		if m == nil {
			continue
		}
		ids = append(ids, m[1])
		if len(ids) == limit {
			break
		}
	}
	return ids, nil
}

func imageIsRelevant(title, description string) bool {
	title = strings.ToLower(title)
	description = strings.ToLower(description)
	for _, term := range imageRelevanceTerms {
		if strings.Contains(title, term) || strings.Contains(description, term) {
			return true
		}
	}
	return false
}
