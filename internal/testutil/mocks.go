// Package testutil provides shared test helpers and mock implementations.
// This avoids duplicating mock code across test files.
package testutil

import (
	"context"
	"errors"

	"uniadvisor/internal/webfetch"
)

// ErrNotFound is returned by mocks when a resource doesn't exist.
var ErrNotFound = errors.New("not found")

// MockScraper serves canned pages and search hits from memory.
type MockScraper struct {
	Pages map[string]webfetch.Page // url -> page
	Hits  []webfetch.SearchHit

	// Fail forces every operation to fail, simulating network trouble.
	Fail bool

	ScrapeCalls []string
	SearchCalls []string
}

// NewMockScraper creates a MockScraper with an initialized page map.
func NewMockScraper() *MockScraper {
	return &MockScraper{Pages: make(map[string]webfetch.Page)}
}

func (m *MockScraper) Scrape(_ context.Context, url string) (webfetch.Page, error) {
	m.ScrapeCalls = append(m.ScrapeCalls, url)
	if m.Fail {
		return webfetch.Page{}, webfetch.ErrFetch
	}
	page, ok := m.Pages[url]
	if !ok {
		return webfetch.Page{}, webfetch.ErrFetch
	}
	return page, nil
}

func (m *MockScraper) SearchWeb(_ context.Context, query string, maxResults int) ([]webfetch.SearchHit, error) {
	m.SearchCalls = append(m.SearchCalls, query)
	if m.Fail {
		return nil, webfetch.ErrFetch
	}
	if maxResults > 0 && maxResults < len(m.Hits) {
		return m.Hits[:maxResults], nil
	}
	return m.Hits, nil
}

// MemFileStore keeps files in a map, mirroring knowledge.FileStore.
type MemFileStore struct {
	Files map[string][]byte
}

// NewMemFileStore creates a MemFileStore with an initialized file map.
func NewMemFileStore() *MemFileStore {
	return &MemFileStore{Files: make(map[string][]byte)}
}

func (m *MemFileStore) ReadFile(path string) ([]byte, error) {
	data, ok := m.Files[path]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func (m *MemFileStore) WriteFile(path string, data []byte) error {
	m.Files[path] = data
	return nil
}

// FailingEmbedder errors on every call, simulating an unreachable
// embedding service.
type FailingEmbedder struct{}

func (FailingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("embedder unavailable")
}

func (FailingEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("embedder unavailable")
}
