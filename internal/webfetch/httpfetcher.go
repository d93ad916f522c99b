package webfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
)

// titleRe extracts the document title from raw HTML.
var titleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// HTTPFetcher scrapes pages directly over HTTP and converts the HTML to
// markdown locally. It cannot search the web.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with sensible defaults.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Scrape fetches a URL and converts the HTML body to markdown.
func (f *HTTPFetcher) Scrape(ctx context.Context, urlStr string) (Page, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return Page{}, fmt.Errorf("%w: parse url: %v", ErrFetch, err)
	}

	// Base URL for relative link resolution in the converted markdown.
	domain := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return Page{}, fmt.Errorf("%w: create request: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", "uniadvisor/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("%w: fetch url: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("%w: HTTP %d fetching %s", ErrFetch, resp.StatusCode, urlStr)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Page{}, fmt.Errorf("%w: read body: %v", ErrFetch, err)
	}

	markdown, err := htmltomarkdown.ConvertString(
		string(body),
		converter.WithDomain(domain),
	)
	if err != nil {
		return Page{}, fmt.Errorf("%w: convert to markdown: %v", ErrFetch, err)
	}

	return Page{
		Markdown: markdown,
		Title:    extractTitle(string(body), urlStr),
	}, nil
}

// SearchWeb is unsupported without an API-backed scraper.
func (f *HTTPFetcher) SearchWeb(context.Context, string, int) ([]SearchHit, error) {
	return nil, fmt.Errorf("%w: direct fetcher cannot search the web", ErrFetch)
}

// extractTitle pulls the <title> text out of raw HTML, falling back to
// the URL host when the page has none.
func extractTitle(html, urlStr string) string {
	if m := titleRe.FindStringSubmatch(html); m != nil {
		if title := strings.TrimSpace(m[1]); title != "" {
			return title
		}
	}
	if u, err := url.Parse(urlStr); err == nil && u.Host != "" {
		return u.Host
	}
	return "Unknown"
}
