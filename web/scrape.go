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
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gcnlabs/regent/retry"
)

const (
	// scrapeTextLimit caps the plain text extracted from one page.
	scrapeTextLimit = 10000

	// scrapeBodyLimit caps how much of the raw response body is read.
	scrapeBodyLimit = 2 << 20
)

// Pre-compiled regular expressions for HTML reduction.
var (
	mainTag           = regexp.MustCompile(`(?is)<main[^>]*>(.*)</main>`)
	bodyTag           = regexp.MustCompile(`(?is)<body[^>]*>(.*)</body>`)
	scriptTag         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag       = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headerTag         = regexp.MustCompile(`(?is)<header[^>]*>.*?</header>`)
	footerTag         = regexp.MustCompile(`(?is)<footer[^>]*>.*?</footer>`)
	navTag            = regexp.MustCompile(`(?is)<nav[^>]*>.*?</nav>`)
	svgTag            = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements     = regexp.MustCompile(`(?i)</(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	brTags            = regexp.MustCompile(`(?i)<br\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
	multiSpaces       = regexp.MustCompile(`\s+`)
)

// Scraper fetches pages and reduces them to plain text for use as online
// answer context.
type Scraper struct {
	httpClient *http.Client
	retry      retry.Policy
	logger     *slog.Logger
}

// ScrapeOption configures a Scraper.
type ScrapeOption func(*Scraper)

// WithScrapeHTTPClient replaces the default HTTP client.
func WithScrapeHTTPClient(client *http.Client) ScrapeOption {
	return func(s *Scraper) {
		s.httpClient = client
	}
}

// WithScrapeRetry overrides the fetch retry policy.
func WithScrapeRetry(policy retry.Policy) ScrapeOption {
	return func(s *Scraper) {
		s.retry = policy
	}
}

// WithScrapeLogger sets a custom logger.
func WithScrapeLogger(logger *slog.Logger) ScrapeOption {
	return func(s *Scraper) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewScraper creates a page scraper with a bounded timeout and retries.
func NewScraper(opts ...ScrapeOption) *Scraper {
	s := &Scraper{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		retry:      retry.Policy{MaxAttempts: 2, BaseDelay: 500 * time.Millisecond},
		logger:     slog.Default().With("component", "web-scraper"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchText fetches a page and returns its main content as plain text,
// capped at the scrape limit.
func (s *Scraper) FetchText(ctx context.Context, pageURL string) (string, error) {
	if strings.TrimSpace(pageURL) == "" {
		return "", ErrEmptyURL
	}

	var raw []byte
	err := s.retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return err
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("fetching %s: status %d", pageURL, resp.StatusCode)
		}

		raw, err = io.ReadAll(io.LimitReader(resp.Body, scrapeBodyLimit))
		return err
	})
	if err != nil {
		s.logger.Warn("failed to fetch page", "url", pageURL, "err", err)
		return "", err
	}

	text := ExtractText(string(raw))
	// Cap by rune count so a multibyte character is never split
	if runes := []rune(text); len(runes) > scrapeTextLimit {
		text = string(runes[:scrapeTextLimit])
	}
	return text, nil
}

// ExtractText reduces an HTML document to plain text. The <main> element is
// preferred when present, otherwise <body>, otherwise the whole input.
// Chrome elements (header, footer, nav) and non-content tags are removed.
func ExtractText(content string) string {
	if m := mainTag.FindStringSubmatch(content); m != nil {
		content = m[1]
	} else if m := bodyTag.FindStringSubmatch(content); m != nil {
		content = m[1]
	}

	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = headerTag.ReplaceAllString(content, "")
	content = footerTag.ReplaceAllString(content, "")
	content = navTag.ReplaceAllString(content, "")
	content = svgTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	// Block boundaries become spaces so words don't fuse
	content = openBlockElements.ReplaceAllString(content, " ")
	content = blockElements.ReplaceAllString(content, " ")
	content = brTags.ReplaceAllString(content, " ")

	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	return strings.TrimSpace(content)
}
