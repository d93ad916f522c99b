package webfetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultFirecrawlURL = "https://api.firecrawl.dev"

// Firecrawl is a minimal REST client to the Firecrawl scraping API.
// It supports both page scraping and web search.
type Firecrawl struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// FirecrawlConfig configures the Firecrawl client.
type FirecrawlConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewFirecrawl creates a Firecrawl client. Returns ErrNoAPIKey when no
// key is configured, so the caller can fall back to direct fetching.
func NewFirecrawl(cfg FirecrawlConfig) (*Firecrawl, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultFirecrawlURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Firecrawl{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type scrapeRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

type scrapeResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Markdown string `json:"markdown"`
		Metadata struct {
			Title string `json:"title"`
		} `json:"metadata"`
	} `json:"data"`
}

// Scrape fetches a page through the Firecrawl API as markdown.
func (f *Firecrawl) Scrape(ctx context.Context, url string) (Page, error) {
	var resp scrapeResponse
	err := f.postJSON(ctx, "/v1/scrape", scrapeRequest{
		URL:     url,
		Formats: []string{"markdown"},
	}, &resp)
	if err != nil {
		return Page{}, err
	}
	if !resp.Success || resp.Data.Markdown == "" {
		return Page{}, fmt.Errorf("%w: firecrawl returned no markdown for %s", ErrFetch, url)
	}

	title := resp.Data.Metadata.Title
	if title == "" {
		title = "Unknown"
	}
	return Page{Markdown: resp.Data.Markdown, Title: title}, nil
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type searchResponse struct {
	Success bool `json:"success"`
	Data    []struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	} `json:"data"`
}

// SearchWeb returns up to maxResults URLs for query.
func (f *Firecrawl) SearchWeb(ctx context.Context, query string, maxResults int) ([]SearchHit, error) {
	if maxResults <= 0 {
		maxResults = 5
	}

	var resp searchResponse
	err := f.postJSON(ctx, "/v1/search", searchRequest{Query: query, Limit: maxResults}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: firecrawl search failed for %q", ErrFetch, query)
	}

	hits := make([]SearchHit, 0, len(resp.Data))
	for _, d := range resp.Data {
		if d.URL == "" {
			continue
		}
		hits = append(hits, SearchHit{URL: d.URL, Title: d.Title})
	}
	return hits, nil
}

func (f *Firecrawl) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: marshal request: %v", ErrFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrFetch, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: POST %s: %v", ErrFetch, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: POST %s: %s", ErrFetch, path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrFetch, err)
	}
	return nil
}
