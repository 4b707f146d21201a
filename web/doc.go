// Package web provides the online-context services: a SerpAPI-compatible
// search client for links, images, and videos, and a page scraper that
// reduces fetched HTML to plain text.
//
// Callers treat online context as best-effort: the orchestration layer maps
// failures from this package to empty results rather than failing a query.
package web
