package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"uniadvisor/internal/domain"
	"uniadvisor/internal/embedding"
)

// entry is one stored (chunk, vector) pair.
type entry struct {
	chunk  domain.Chunk
	vector []float32
}

// Memory is an in-memory Store using brute-force cosine similarity.
// The corpus is rebuilt from its source file on startup, so there is no
// persistence. Reads and writes are isolated per operation; a query
// running during a corpus refresh may observe a partially updated corpus,
// which is an accepted bounded-staleness tradeoff.
type Memory struct {
	embedder embedding.Embedder

	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemory creates an empty store backed by the given embedder.
func NewMemory(embedder embedding.Embedder) *Memory {
	return &Memory{
		embedder: embedder,
		entries:  make(map[string]entry),
	}
}

// Upsert embeds and inserts chunks whose ids are not yet present.
// Presence is decided by existence lookup, never by overwrite.
func (m *Memory) Upsert(ctx context.Context, chunks []domain.Chunk) (int, error) {
	m.mu.RLock()
	var fresh []domain.Chunk
	for _, c := range chunks {
		if _, exists := m.entries[c.ID]; !exists && c.Text != "" {
			fresh = append(fresh, c)
		}
	}
	m.mu.RUnlock()

	if len(fresh) == 0 {
		return 0, nil
	}

	texts := make([]string, len(fresh))
	for i, c := range fresh {
		texts[i] = c.Text
	}
	vectors, err := m.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	inserted := 0
	for i, c := range fresh {
		if _, exists := m.entries[c.ID]; exists {
			continue
		}
		m.entries[c.ID] = entry{chunk: c, vector: vectors[i]}
		inserted++
	}
	return inserted, nil
}

// Query returns the k nearest chunks to text by cosine similarity,
// restricted to entries matching filter when one is given.
func (m *Memory) Query(ctx context.Context, text string, k int, filter Filter) ([]domain.SearchResult, error) {
	if k <= 0 {
		k = 5
	}

	qvec, err := m.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]domain.SearchResult, 0, len(m.entries))
	for _, e := range m.entries {
		if filter != nil && !filter(e.chunk.Metadata) {
			continue
		}
		results = append(results, domain.SearchResult{
			Chunk: e.chunk,
			Score: cosineSimilarity(qvec, e.vector),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.ID < results[j].Chunk.ID
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// Delete removes all entries matching filter and returns how many were
// removed.
func (m *Memory) Delete(filter Filter) int {
	if filter == nil {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for id, e := range m.entries {
		if filter(e.chunk.Metadata) {
			delete(m.entries, id)
			deleted++
		}
	}
	return deleted
}

// Count returns the number of stored chunks.
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Stats counts chunks by source type with a full scan.
func (m *Memory) Stats() domain.Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var s domain.Stats
	for _, e := range m.entries {
		s.TotalChunks++
		switch e.chunk.Metadata.Type {
		case domain.SourceTypeFile:
			s.FileChunks++
		case domain.SourceTypeWeb:
			s.WebChunks++
		}
	}
	return s
}

// cosineSimilarity calculates cosine similarity between two vectors.
// Returns a value between -1 (opposite) and 1 (identical).
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
