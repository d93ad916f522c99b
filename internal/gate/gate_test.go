package gate

import "testing"

func TestIsInDomain_ExactMatches(t *testing.T) {
	g := New()

	inDomain := []string{
		"Tell me about Oxford University",
		"how do UCAS applications work",
		"what are tuition fees like",
		"compare Russell Group institutions",
		"student accommodation in Edinburgh",
	}
	for _, q := range inDomain {
		if !g.IsInDomain(q) {
			t.Errorf("IsInDomain(%q) = false, want true", q)
		}
	}
}

func TestIsInDomain_RejectsOffTopic(t *testing.T) {
	g := New()

	offTopic := []string{
		"What's the weather today",
		"best pizza recipe",
		"tell me a joke",
		"",
		"   ",
	}
	for _, q := range offTopic {
		if g.IsInDomain(q) {
			t.Errorf("IsInDomain(%q) = true, want false", q)
		}
	}
}

func TestIsInDomain_ToleratesMisspellings(t *testing.T) {
	g := New()

	misspelled := []string{
		"univercity admissons",   // both words misspelled
		"tution fees at oxfrod",  // transposition and deletion
		"postgradute programmes", // missing letter
	}
	for _, q := range misspelled {
		if !g.IsInDomain(q) {
			t.Errorf("IsInDomain(%q) = false, want true (fuzzy match)", q)
		}
	}
}

func TestIsInDomain_ShortTokensNotFuzzyMatched(t *testing.T) {
	g := NewWithKeywords([]string{"ucas"})

	// "cat" is within distance 2 of "ucas" but has only 3 characters, so
	// it must not fuzzy-match.
	if g.IsInDomain("cat") {
		t.Error("3-character token should never fuzzy-match")
	}
}

func TestIsInDomain_LengthPreFilter(t *testing.T) {
	g := NewWithKeywords([]string{"oxford"})

	// Length difference above the threshold rules the pair out before
	// the distance is even computed.
	if g.IsInDomain("oxfrodshirecounty") {
		t.Error("token far longer than keyword should not match")
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"oxford", "oxford", 0},
		{"univercity", "university", 1},
		{"admissons", "admissions", 1},
		{"kitten", "sitting", 3},
		{"", "abc", 3},
	}
	for _, tc := range tests {
		if got := levenshtein(tc.a, tc.b); got != tc.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
