// Package embedding converts text into fixed-length vectors for
// similarity comparison. The same embedder must be used at ingestion and
// at query time; the vector store therefore owns its embedder.
package embedding

import "context"

// Config holds settings for the Ollama embedding client.
type Config struct {
	Host  string // Ollama server URL (default: "http://localhost:11434")
	Model string // Embedding model (default: "nomic-embed-text")
}

// DefaultConfig returns sensible defaults for local Ollama.
func DefaultConfig() Config {
	return Config{
		Host:  "http://localhost:11434",
		Model: "nomic-embed-text",
	}
}

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed generates an embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
