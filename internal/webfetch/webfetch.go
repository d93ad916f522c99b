// Package webfetch provides the web content collaborator: fetching pages
// as markdown and searching the web for candidate URLs.
//
// Two implementations exist. HTTPFetcher fetches directly and converts
// HTML to markdown locally; it needs no credentials but cannot search.
// Firecrawl delegates both operations to the Firecrawl API. Failures are
// wrapped in ErrFetch so callers can degrade instead of crashing the
// request path.
package webfetch

import (
	"context"
	"errors"
)

// ErrFetch marks any scraping or web-search failure (network, auth,
// malformed response).
var ErrFetch = errors.New("web fetch failed")

// ErrNoAPIKey is returned when the Firecrawl scraper is constructed
// without credentials. The caller degrades to direct fetching or to a
// no-web-content mode; missing credentials are never fatal to the
// process.
var ErrNoAPIKey = errors.New("firecrawl api key is not set")

// Page is scraped content converted to markdown.
type Page struct {
	Markdown string
	Title    string
}

// SearchHit is one web search result.
type SearchHit struct {
	URL   string
	Title string
}

// Scraper fetches web content for corpus ingestion.
type Scraper interface {
	// Scrape fetches url and returns its content as markdown.
	Scrape(ctx context.Context, url string) (Page, error)

	// SearchWeb returns up to maxResults candidate URLs for query.
	SearchWeb(ctx context.Context, query string, maxResults int) ([]SearchHit, error)
}
