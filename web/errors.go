package web

import "errors"

var (
	// ErrAPIKeyRequired is returned when a search client is created without an API key.
	ErrAPIKeyRequired = errors.New("search API key required")

	// ErrSearchFailed is returned when the search API reports an error.
	ErrSearchFailed = errors.New("search API error")

	// ErrEmptyURL is returned when a scrape is requested without a URL.
	ErrEmptyURL = errors.New("empty URL")
)
