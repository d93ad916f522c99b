package chat

import (
	"context"
	"strings"

	"uniadvisor/internal/chunker"
	"uniadvisor/internal/domain"
	"uniadvisor/internal/textutil"
)

const (
	// minSentenceLen filters out fragments that carry no substance.
	minSentenceLen = 50

	// maxSentences caps how much of the retrieved material one answer
	// uses.
	maxSentences = 12

	// sentencesPerParagraph groups the selected sentences positionally
	// into paragraphs. The grouping is a tuned presentation choice, not
	// an invariant.
	sentencesPerParagraph = 4

	// maxPassages bounds how many retrieved passages feed one answer.
	maxPassages = 6

	// excerptLen is the length of the raw excerpt used when no full
	// sentence can be extracted.
	excerptLen = 300
)

// closingPhrases add variety to fallback answers. The phrase is selected
// deterministically from the query, never randomly, so identical queries
// produce identical answers.
var closingPhrases = []string{
	"Feel free to ask if you'd like more detail on any of this.",
	"Let me know if you have any follow-up questions.",
	"I'm happy to expand on any part of this.",
	"Ask away if something needs clarifying.",
}

// Fallback composes an answer deterministically from retrieved passages,
// with no external model involved.
type Fallback struct{}

// NewFallback creates the deterministic synthesizer.
func NewFallback() *Fallback {
	return &Fallback{}
}

// Synthesize extracts substantive sentences from the cleaned passages,
// deduplicates them case-insensitively in first-seen order, and arranges
// them into paragraphs. History is unused: the fallback has no way to
// carry conversational context. Never fails.
func (f *Fallback) Synthesize(_ context.Context, query string, passages []string, _ []domain.Message) (string, error) {
	if len(passages) > maxPassages {
		passages = passages[:maxPassages]
	}

	cleaned := make([]string, 0, len(passages))
	for _, p := range passages {
		if c := textutil.Clean(p); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) == 0 {
		return NoResultsMessage, nil
	}

	sentences := collectSentences(cleaned)
	if len(sentences) == 0 {
		// No full sentence cleared the length bar; fall back to a raw
		// excerpt of the best-matching passage.
		excerpt := cleaned[0]
		if len(excerpt) > excerptLen {
			excerpt = strings.TrimSpace(excerpt[:excerptLen]) + "..."
		}
		return excerpt, nil
	}

	var out strings.Builder
	for i, sent := range sentences {
		out.WriteString(sent)
		if !strings.HasSuffix(sent, ".") && !strings.HasSuffix(sent, "!") && !strings.HasSuffix(sent, "?") {
			out.WriteString(".")
		}
		if (i+1)%sentencesPerParagraph == 0 && i+1 < len(sentences) {
			out.WriteString("\n\n")
		} else if i+1 < len(sentences) {
			out.WriteString(" ")
		}
	}

	out.WriteString("\n\n")
	out.WriteString(closingPhrases[len(query)%len(closingPhrases)])

	return out.String(), nil
}

// collectSentences gathers unique substantive sentences from the cleaned
// passages, preserving first-seen order.
func collectSentences(passages []string) []string {
	seen := make(map[string]struct{})
	var unique []string

	for _, p := range passages {
		for _, sent := range chunker.SplitSentences(p) {
			if len(sent) <= minSentenceLen {
				continue
			}
			key := strings.ToLower(sent)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			unique = append(unique, sent)
			if len(unique) >= maxSentences {
				return unique
			}
		}
	}
	return unique
}
