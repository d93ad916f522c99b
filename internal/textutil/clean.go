// Package textutil provides shared text cleaning utilities.
// This avoids duplication between ingestion and response formatting.
package textutil

import (
	"regexp"
	"strings"
)

// The removal classes are disjoint, so the result does not depend on the
// order the patterns are applied in.
var (
	// citationRe matches bracketed citation numbers like [12].
	citationRe = regexp.MustCompile(`\[\d+\]`)

	// escapedCitationRe matches citations that survived markdown escaping,
	// like \[12\] or \[\[12\]\].
	escapedCitationRe = regexp.MustCompile(`\\+\[+\d+\\*\]+`)

	// editorialTagRe matches wiki editorial placeholders like
	// [citation needed] or [clarification needed].
	editorialTagRe = regexp.MustCompile(`\[[a-zA-Z]+(?: [a-zA-Z]+)+\]`)

	// wordTagRe matches generic single-word bracket tags like [update].
	wordTagRe = regexp.MustCompile(`\[[a-zA-Z]+\]`)

	// urlRe matches raw http/https URLs.
	urlRe = regexp.MustCompile(`https?://\S+`)

	// bareURLRe matches scheme-less www. URLs.
	bareURLRe = regexp.MustCompile(`www\.\S+`)

	// citeAnchorRe matches wiki fragment anchors like #cite_note-3.
	citeAnchorRe = regexp.MustCompile(`#cite[^\s)]+`)

	// wikiPathRe matches URL remnants like org/wiki/Foo left by markdown
	// link stripping.
	wikiPathRe = regexp.MustCompile(`\S*org/wiki/[^\s)]+`)

	// emptyParenRe and emptyBracketRe match remnants left after the
	// classes above were removed.
	emptyParenRe   = regexp.MustCompile(`\(\s*\)`)
	emptyBracketRe = regexp.MustCompile(`\[\s*\]`)

	// escapeArtifactRe matches stray backslash escapes like \_ or \* that
	// scraped markdown tends to carry.
	escapeArtifactRe = regexp.MustCompile(`\\+([_*#])`)

	// whitespaceRe collapses any whitespace run to a single space.
	whitespaceRe = regexp.MustCompile(`\s+`)

	// prePunctRe removes whitespace immediately before punctuation.
	prePunctRe = regexp.MustCompile(`\s+([.,;:!?])`)
)

// Clean strips citation markers, URLs, and markup noise from raw source
// text and normalizes whitespace. It runs on the hot path of both
// ingestion and per-response cleaning, so it is fail-soft: cleaning never
// errors, and unrecognized input passes through unchanged apart from
// whitespace normalization.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	text = escapedCitationRe.ReplaceAllString(text, "")
	text = citationRe.ReplaceAllString(text, "")
	text = editorialTagRe.ReplaceAllString(text, "")
	text = wordTagRe.ReplaceAllString(text, "")
	text = urlRe.ReplaceAllString(text, "")
	text = bareURLRe.ReplaceAllString(text, "")
	text = citeAnchorRe.ReplaceAllString(text, "")
	text = wikiPathRe.ReplaceAllString(text, "")
	text = escapeArtifactRe.ReplaceAllString(text, "$1")
	text = emptyParenRe.ReplaceAllString(text, "")
	text = emptyBracketRe.ReplaceAllString(text, "")

	text = whitespaceRe.ReplaceAllString(text, " ")
	text = prePunctRe.ReplaceAllString(text, "$1")

	return strings.TrimSpace(text)
}

// CleanPreservingParagraphs applies Clean to each blank-line-separated
// paragraph independently, keeping the paragraph boundaries the chunker
// splits on. Plain Clean collapses all newlines, which would merge the
// whole document into a single paragraph.
func CleanPreservingParagraphs(text string) string {
	paragraphs := strings.Split(text, "\n\n")
	cleaned := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		c := Clean(p)
		if c == "" {
			continue
		}
		cleaned = append(cleaned, c)
	}
	return strings.Join(cleaned, "\n\n")
}
