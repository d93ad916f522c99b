// Package gate decides whether an incoming query is about UK higher
// education at all. Out-of-domain queries are rejected before any
// retrieval happens.
//
// The check is two-phase: an exact substring match against a fixed
// vocabulary, then a fuzzy pass that tolerates misspellings
// ("univercity") via edit distance. The distance thresholds are tuned
// values, not load-bearing invariants.
package gate

import "strings"

const (
	// minTokenLen: query tokens this short are never fuzzy-matched;
	// edit distance on tiny words produces too many false positives.
	minTokenLen = 3

	// fuzzyLongKeywordLen is the keyword length at which the larger
	// distance threshold applies.
	fuzzyLongKeywordLen = 5

	// maxDistLong and maxDistShort are the edit-distance thresholds for
	// long and short keywords respectively. The same value bounds the
	// allowed length difference, which gives a cheap pre-filter before
	// computing the full distance.
	maxDistLong  = 2
	maxDistShort = 1
)

// domainKeywords is the fixed vocabulary of in-domain terms: institution
// names, admissions terms, and general academic vocabulary.
var domainKeywords = []string{
	"university", "universities", "college", "colleges", "campus",
	"oxford", "cambridge", "oxbridge", "durham", "edinburgh", "glasgow",
	"st andrews", "imperial", "ucl", "lse", "manchester", "bristol",
	"warwick", "york", "exeter", "bath", "leeds", "birmingham",
	"nottingham", "sheffield", "southampton", "cardiff", "belfast",
	"admission", "admissions", "apply", "application", "applications",
	"ucas", "entry requirements", "offer", "clearing",
	"degree", "degrees", "undergraduate", "postgraduate", "bachelor",
	"master", "masters", "phd", "doctorate", "course", "courses",
	"student", "students", "study", "studying", "academic", "faculty",
	"lecture", "lectures", "semester", "term", "graduation", "graduate",
	"tuition", "fees", "scholarship", "scholarships", "funding", "loan",
	"accommodation", "halls", "dormitory",
	"russell group", "redbrick", "red brick", "plate glass", "ancient",
	"ranking", "rankings", "league table", "education", "higher education",
}

// Gate classifies queries as in-domain or not.
type Gate struct {
	keywords []string
}

// New creates a Gate with the built-in domain vocabulary.
func New() *Gate {
	return &Gate{keywords: domainKeywords}
}

// NewWithKeywords creates a Gate with a custom vocabulary. Used in tests
// and for deployments covering a different corpus.
func NewWithKeywords(keywords []string) *Gate {
	return &Gate{keywords: keywords}
}

// IsInDomain reports whether query is about the gated topic area.
func (g *Gate) IsInDomain(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}

	// Phase 1: exact substring match.
	for _, kw := range g.keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}

	// Phase 2: fuzzy match per token, against single-word keywords only.
	for _, token := range strings.Fields(q) {
		token = strings.Trim(token, ".,;:!?'\"()")
		if len(token) <= minTokenLen {
			continue
		}
		for _, kw := range g.keywords {
			if strings.ContainsRune(kw, ' ') {
				continue
			}
			if fuzzyMatch(token, kw) {
				return true
			}
		}
	}

	return false
}

// fuzzyMatch reports whether token is within the edit-distance threshold
// of keyword.
func fuzzyMatch(token, keyword string) bool {
	maxDist := maxDistShort
	if len(keyword) >= fuzzyLongKeywordLen {
		maxDist = maxDistLong
	}

	// Length pre-filter: strings whose lengths differ by more than the
	// threshold cannot be within it.
	diff := len(token) - len(keyword)
	if diff < 0 {
		diff = -diff
	}
	if diff > maxDist {
		return false
	}

	return levenshtein(token, keyword) <= maxDist
}

// levenshtein computes edit distance with a two-row dynamic program.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
