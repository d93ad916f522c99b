// Package domain contains core data types used across the uniadvisor service.
// These are pure data structures with no behavior - making them easy to understand
// and test. Think of them as the "nouns" of our application.
package domain

// Source types recorded in chunk metadata. File chunks come from the local
// data file and survive ClearWebContent; web chunks are accumulated from
// scraping and can be cleared independently.
const (
	SourceTypeFile = "file"
	SourceTypeWeb  = "web_scrape"
)

// Chunk is a bounded passage of source text stored with retrieval metadata.
// Chunk ids are deterministic so that re-ingesting unchanged content is a
// no-op: file chunks are "file_chunk_<n>", web chunks derive from the
// source URL and position.
type Chunk struct {
	// ID is the unique key within the index.
	ID string `json:"id"`

	// Text is the cleaned chunk content. Never empty after trimming.
	Text string `json:"text"`

	// Metadata records where the chunk came from.
	Metadata Metadata `json:"metadata"`
}

// Metadata describes the provenance of a chunk.
type Metadata struct {
	// Source is a file path or URL.
	Source string `json:"source"`

	// Type is SourceTypeFile or SourceTypeWeb.
	Type string `json:"type"`

	// Title is the document title, when known.
	Title string `json:"title,omitempty"`

	// ChunkIndex is the position of this chunk within its document.
	ChunkIndex int `json:"chunk_index"`

	// SearchQuery is set when the chunk was ingested via a web search.
	SearchQuery string `json:"search_query,omitempty"`
}

// SearchResult pairs a matching chunk with its similarity score.
// Score is cosine similarity: higher is more relevant.
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// SourceInfo is a search hit enriched with provenance, returned by the
// search-with-sources operation.
type SourceInfo struct {
	Content   string  `json:"content"`
	Source    string  `json:"source"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Relevance float64 `json:"relevance"`
}

// Stats summarizes the knowledge base by chunk origin.
type Stats struct {
	TotalChunks int `json:"total_chunks"`
	FileChunks  int `json:"file_chunks"`
	WebChunks   int `json:"web_chunks"`
}

// Message is a single conversation turn.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}
