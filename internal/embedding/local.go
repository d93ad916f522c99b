package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

// DefaultLocalDimension is wide enough that token hash collisions stay
// rare for a corpus of a few thousand chunks.
const DefaultLocalDimension = 512

// tokenRe matches word tokens including apostrophe contractions.
var tokenRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\d+`)

// LocalEmbedder is a deterministic, dependency-free embedder that hashes
// tokens into a fixed-width bag-of-words vector and L2-normalizes it.
//
// Unlike a TF-IDF vectorizer it has no corpus preparation phase, so it
// keeps working as chunks are added and removed at runtime. Retrieval
// quality is below a neural embedder, but it guarantees the service is
// fully functional with zero external services running.
type LocalEmbedder struct {
	dimension int
	stopwords map[string]struct{}
}

// NewLocalEmbedder creates a hashing embedder with the given vector
// width. Non-positive values fall back to DefaultLocalDimension.
func NewLocalEmbedder(dimension int) *LocalEmbedder {
	if dimension <= 0 {
		dimension = DefaultLocalDimension
	}
	return &LocalEmbedder{
		dimension: dimension,
		stopwords: defaultStopwords(),
	}
}

// Embed hashes each non-stopword token into a bucket and returns the
// L2-normalized term-frequency vector. A text with no usable tokens
// yields the zero vector.
func (e *LocalEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dimension)

	for _, tok := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		if _, stop := e.stopwords[tok]; stop {
			continue
		}
		vec[e.bucket(tok)]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := 1.0 / math.Sqrt(norm)
		for i := range vec {
			vec[i] = float32(float64(vec[i]) * inv)
		}
	}
	return vec, nil
}

// EmbedBatch embeds each text in turn.
func (e *LocalEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (e *LocalEmbedder) bucket(token string) int {
	h := fnv.New32a()
	h.Write([]byte(token))
	return int(h.Sum32() % uint32(e.dimension))
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are",
		"was", "were", "be", "been", "being", "it", "its", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "than",
		"so", "such", "into", "about", "between", "through", "during",
		"before", "after", "above", "below", "out", "off", "own", "same",
		"too", "very", "can", "will", "just", "not", "no", "do", "does",
		"did", "have", "has", "had", "what", "which", "who", "whom",
		"me", "my", "i", "you", "your", "we", "our", "they", "their",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
