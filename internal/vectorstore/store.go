// Package vectorstore maintains the mapping from chunk id to embedding
// vector and metadata, and answers nearest-neighbour queries by cosine
// similarity.
//
// The store owns its embedder so that ingestion and querying are
// guaranteed to use the same embedding function.
package vectorstore

import (
	"context"

	"uniadvisor/internal/domain"
)

// Filter is a metadata predicate used to restrict queries and deletions,
// e.g. to web-scraped chunks only.
type Filter func(domain.Metadata) bool

// TypeIs returns a Filter matching chunks of the given source type.
func TypeIs(sourceType string) Filter {
	return func(m domain.Metadata) bool { return m.Type == sourceType }
}

// Store is the vector similarity store collaborator contract.
type Store interface {
	// Upsert inserts chunks that are not yet present and returns the
	// number actually inserted. Re-adding an existing id is a no-op, so
	// re-running ingestion on unchanged source data changes nothing.
	Upsert(ctx context.Context, chunks []domain.Chunk) (int, error)

	// Query embeds the text and returns the k nearest chunks by cosine
	// similarity, optionally restricted by filter (nil means no
	// restriction).
	Query(ctx context.Context, text string, k int, filter Filter) ([]domain.SearchResult, error)

	// Delete removes all chunks matching filter and returns the count.
	Delete(filter Filter) int

	// Count returns the number of stored chunks.
	Count() int

	// Stats scans the store and counts chunks by source type. A full
	// scan is acceptable here because the corpus is thousands of chunks,
	// not millions.
	Stats() domain.Stats
}
