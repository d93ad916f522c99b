// Package knowledge orchestrates the corpus lifecycle and retrieval: the
// data file and scraped pages are cleaned, chunked, and upserted into the
// vector store; queries come back as ranked, post-filtered passages.
package knowledge

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"os"
	"strings"

	"uniadvisor/internal/chunker"
	"uniadvisor/internal/domain"
	"uniadvisor/internal/textutil"
	"uniadvisor/internal/vectorstore"
	"uniadvisor/internal/webfetch"
)

// minPassageLen is the retrieval output threshold: matches at or below
// this trimmed length carry too little content to ground an answer.
const minPassageLen = 50

// FileStore abstracts data-file access for testability.
type FileStore interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
}

// OSFileStore is the production implementation using the real filesystem.
type OSFileStore struct{}

func (OSFileStore) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (OSFileStore) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// Base is the knowledge base: a chunked, embedded corpus built from a
// local data file plus optional web-sourced content.
type Base struct {
	store    vectorstore.Store
	chunker  *chunker.Chunker
	scraper  webfetch.Scraper // nil when no scraper is configured
	files    FileStore
	dataFile string
	logger   *slog.Logger
}

// New creates a Base. scraper may be nil; web operations then report
// failure instead of panicking.
func New(store vectorstore.Store, ch *chunker.Chunker, scraper webfetch.Scraper, files FileStore, dataFile string, logger *slog.Logger) *Base {
	return &Base{
		store:    store,
		chunker:  ch,
		scraper:  scraper,
		files:    files,
		dataFile: dataFile,
		logger:   logger,
	}
}

// LoadFile reads the data file, cleans and chunks it, and upserts the
// chunks with deterministic "file_chunk_<n>" ids. Re-running on an
// unchanged file inserts nothing.
func (b *Base) LoadFile(ctx context.Context) (int, error) {
	data, err := b.files.ReadFile(b.dataFile)
	if err != nil {
		return 0, fmt.Errorf("read data file: %w", err)
	}

	cleaned := textutil.CleanPreservingParagraphs(string(data))
	pieces := b.chunker.Split(cleaned)

	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, text := range pieces {
		chunks = append(chunks, domain.Chunk{
			ID:   fmt.Sprintf("file_chunk_%d", i),
			Text: text,
			Metadata: domain.Metadata{
				Source:     b.dataFile,
				Type:       domain.SourceTypeFile,
				ChunkIndex: i,
			},
		})
	}

	inserted, err := b.store.Upsert(ctx, chunks)
	if err != nil {
		b.logger.Error("upsert file chunks failed", "error", err)
		return 0, err
	}
	b.logger.Info("data file loaded", "chunks", len(chunks), "inserted", inserted)
	return inserted, nil
}

// Reload deletes all file-sourced chunks and loads the data file again.
// Web-sourced chunks are untouched.
func (b *Base) Reload(ctx context.Context) (int, error) {
	deleted := b.store.Delete(vectorstore.TypeIs(domain.SourceTypeFile))
	b.logger.Info("file chunks cleared for reload", "deleted", deleted)
	return b.LoadFile(ctx)
}

// RefetchAndReload scrapes url, writes the cleaned content to the data
// file with a title header, and reloads file chunks from it.
func (b *Base) RefetchAndReload(ctx context.Context, url string) error {
	if b.scraper == nil {
		return fmt.Errorf("%w: no scraper configured", webfetch.ErrFetch)
	}

	page, err := b.scraper.Scrape(ctx, url)
	if err != nil {
		return fmt.Errorf("refetch %s: %w", url, err)
	}

	cleaned := textutil.CleanPreservingParagraphs(page.Markdown)
	content := fmt.Sprintf("# %s\n\nSource: %s\n\n%s", page.Title, url, cleaned)
	if err := b.files.WriteFile(b.dataFile, []byte(content)); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}

	if _, err := b.Reload(ctx); err != nil {
		return err
	}
	b.logger.Info("data refetched and reloaded", "url", url, "title", page.Title)
	return nil
}

// AddWebContent scrapes url and adds its chunks to the corpus. Chunk ids
// derive from the URL and position, so re-adding the same page is a
// no-op.
func (b *Base) AddWebContent(ctx context.Context, url string) (int, error) {
	if b.scraper == nil {
		return 0, fmt.Errorf("%w: no scraper configured", webfetch.ErrFetch)
	}

	page, err := b.scraper.Scrape(ctx, url)
	if err != nil {
		return 0, err
	}
	return b.addScraped(ctx, page, url, "")
}

// AddSearchResults searches the web for query and ingests each hit.
// Individual scrape failures are logged and skipped; the operation fails
// only when the search itself fails or nothing could be ingested.
func (b *Base) AddSearchResults(ctx context.Context, query string, maxResults int) (int, error) {
	if b.scraper == nil {
		return 0, fmt.Errorf("%w: no scraper configured", webfetch.ErrFetch)
	}

	hits, err := b.scraper.SearchWeb(ctx, query, maxResults)
	if err != nil {
		return 0, err
	}

	total := 0
	succeeded := 0
	for _, hit := range hits {
		page, err := b.scraper.Scrape(ctx, hit.URL)
		if err != nil {
			b.logger.Warn("skipping search hit", "url", hit.URL, "error", err)
			continue
		}
		n, err := b.addScraped(ctx, page, hit.URL, query)
		if err != nil {
			b.logger.Warn("skipping search hit", "url", hit.URL, "error", err)
			continue
		}
		total += n
		succeeded++
	}

	if succeeded == 0 && len(hits) > 0 {
		return 0, fmt.Errorf("%w: no search results could be ingested for %q", webfetch.ErrFetch, query)
	}
	return total, nil
}

func (b *Base) addScraped(ctx context.Context, page webfetch.Page, url, searchQuery string) (int, error) {
	cleaned := textutil.CleanPreservingParagraphs(page.Markdown)
	pieces := b.chunker.Split(cleaned)

	prefix := fmt.Sprintf("web_%d", hashURL(url))
	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, text := range pieces {
		chunks = append(chunks, domain.Chunk{
			ID:   fmt.Sprintf("%s_%d", prefix, i),
			Text: text,
			Metadata: domain.Metadata{
				Source:      url,
				Type:        domain.SourceTypeWeb,
				Title:       page.Title,
				ChunkIndex:  i,
				SearchQuery: searchQuery,
			},
		})
	}

	inserted, err := b.store.Upsert(ctx, chunks)
	if err != nil {
		return 0, err
	}
	b.logger.Info("web content added", "url", url, "chunks", len(chunks), "inserted", inserted)
	return inserted, nil
}

// ClearWebContent removes all web-scraped chunks, leaving file chunks in
// place.
func (b *Base) ClearWebContent() int {
	deleted := b.store.Delete(vectorstore.TypeIs(domain.SourceTypeWeb))
	b.logger.Info("web content cleared", "deleted", deleted)
	return deleted
}

// Stats reports chunk counts by source type.
func (b *Base) Stats() domain.Stats {
	return b.store.Stats()
}

// Search returns the k best-matching passages for query. Near-empty
// matches are dropped, but when that would empty the result set the
// unfiltered ranking is returned instead - a length heuristic must not
// discard the only relevant matches available. Store failures degrade to
// an empty result, never an error on the request path.
func (b *Base) Search(ctx context.Context, query string, k int) []string {
	results, err := b.store.Query(ctx, query, k, nil)
	if err != nil {
		b.logger.Error("search failed", "query", query, "error", err)
		return nil
	}

	all := make([]string, 0, len(results))
	filtered := make([]string, 0, len(results))
	for _, r := range results {
		all = append(all, r.Chunk.Text)
		if len(strings.TrimSpace(r.Chunk.Text)) > minPassageLen {
			filtered = append(filtered, r.Chunk.Text)
		}
	}

	if len(filtered) == 0 {
		return all
	}
	return filtered
}

// Sources returns search hits with provenance and a relevance score.
func (b *Base) Sources(ctx context.Context, query string, k int) []domain.SourceInfo {
	results, err := b.store.Query(ctx, query, k, nil)
	if err != nil {
		b.logger.Error("sources lookup failed", "query", query, "error", err)
		return nil
	}

	sources := make([]domain.SourceInfo, 0, len(results))
	for _, r := range results {
		title := r.Chunk.Metadata.Title
		if title == "" {
			title = "Unknown"
		}
		sources = append(sources, domain.SourceInfo{
			Content:   r.Chunk.Text,
			Source:    r.Chunk.Metadata.Source,
			Type:      r.Chunk.Metadata.Type,
			Title:     title,
			Relevance: r.Score,
		})
	}
	return sources
}

func hashURL(url string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(url))
	return h.Sum64()
}
