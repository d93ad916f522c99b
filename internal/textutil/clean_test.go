package textutil

import (
	"strings"
	"testing"
)

func TestClean_RemovesNoise(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "citation numbers",
			input: "Oxford was founded in 1096.[1] It is ancient.[23]",
			want:  "Oxford was founded in 1096. It is ancient.",
		},
		{
			name:  "escaped citations",
			input: `Cambridge followed in 1209.\[2\]`,
			want:  "Cambridge followed in 1209.",
		},
		{
			name:  "editorial tags",
			input: "Fees rose sharply.[citation needed] Applications fell.[clarification needed]",
			want:  "Fees rose sharply. Applications fell.",
		},
		{
			name:  "urls",
			input: "See https://example.ac.uk/admissions for details. Also www.ucas.com has info.",
			want:  "See for details. Also has info.",
		},
		{
			name:  "cite anchors and wiki paths",
			input: "Durham (#cite_note-4) is listed at en.wikipedia.org/wiki/Durham_University too.",
			want:  "Durham is listed at too.",
		},
		{
			name:  "empty remnants",
			input: "St Andrews ( ) was founded [ ] in 1413.",
			want:  "St Andrews was founded in 1413.",
		},
		{
			name:  "whitespace and punctuation spacing",
			input: "The  Russell   Group , founded in 1994 , has 24 members .",
			want:  "The Russell Group, founded in 1994, has 24 members.",
		},
		{
			name:  "escape artifacts",
			input: `Student\_numbers grew \*sharply\* last year.`,
			want:  "Student_numbers grew *sharply* last year.",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Clean(tc.input)
			if got != tc.want {
				t.Errorf("Clean(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestClean_PassesPlainTextThrough(t *testing.T) {
	input := "The University of Edinburgh was founded in 1582."
	if got := Clean(input); got != input {
		t.Errorf("Clean(%q) = %q, want unchanged", input, got)
	}
}

func TestCleanPreservingParagraphs_KeepsBoundaries(t *testing.T) {
	input := "First paragraph about Oxford.[1]\n\nSecond paragraph about Cambridge.[2]"
	got := CleanPreservingParagraphs(input)

	parts := strings.Split(got, "\n\n")
	if len(parts) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d: %q", len(parts), got)
	}
	if strings.Contains(got, "[1]") || strings.Contains(got, "[2]") {
		t.Errorf("citations not removed: %q", got)
	}
}

func TestCleanPreservingParagraphs_DropsEmptyParagraphs(t *testing.T) {
	input := "Real content about universities here.\n\nhttps://only-a-url.example.com\n\nMore real content."
	got := CleanPreservingParagraphs(input)

	if strings.Contains(got, "\n\n\n") {
		t.Errorf("empty paragraph left behind: %q", got)
	}
	if n := len(strings.Split(got, "\n\n")); n != 2 {
		t.Errorf("expected 2 paragraphs after dropping the URL-only one, got %d", n)
	}
}
