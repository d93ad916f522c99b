// Package chunker splits cleaned text into bounded, topically coherent
// passages for embedding and retrieval.
//
// Splitting is two-level: paragraphs are accumulated up to the size cap so
// chunks stay paragraph-aligned, and only a paragraph that alone exceeds
// the cap is split further at sentence boundaries. The cap is soft - a
// single unsplittable sentence may exceed it.
package chunker

import (
	"regexp"
	"strings"
)

const (
	// DefaultChunkSize balances embedding quality against retrieval
	// granularity for a corpus of encyclopedia-style prose.
	DefaultChunkSize = 400

	// minParagraphLen filters out headers and navigation noise.
	minParagraphLen = 30
)

// sentenceEndRe finds sentence boundaries: terminal punctuation followed
// by whitespace.
var sentenceEndRe = regexp.MustCompile(`([.!?])\s+`)

// Chunker splits text into size-bounded passages.
type Chunker struct {
	chunkSize int
}

// New creates a Chunker with the given soft size cap in characters.
// Non-positive values fall back to DefaultChunkSize.
func New(chunkSize int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Chunker{chunkSize: chunkSize}
}

// Split breaks text into chunks. Paragraphs shorter than minParagraphLen
// are discarded as noise. The whole corpus is small enough to materialize,
// so the result is a plain slice.
func (c *Chunker) Split(text string) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if len(para) < minParagraphLen {
			continue
		}

		if current.Len()+len(para) < c.chunkSize {
			current.WriteString(para)
			current.WriteString(" ")
			continue
		}

		flush()

		if len(para) <= c.chunkSize {
			current.WriteString(para)
			current.WriteString(" ")
			continue
		}

		// Oversized paragraph: accumulate at sentence granularity instead.
		for _, sent := range SplitSentences(para) {
			if current.Len()+len(sent) >= c.chunkSize {
				flush()
			}
			current.WriteString(sent)
			current.WriteString(" ")
		}
	}

	flush()
	return chunks
}

// SplitSentences splits text at terminal punctuation followed by
// whitespace, keeping the punctuation with the preceding sentence.
func SplitSentences(text string) []string {
	marked := sentenceEndRe.ReplaceAllString(text, "$1\x00")
	parts := strings.Split(marked, "\x00")

	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		sentences = append(sentences, p)
	}
	return sentences
}
