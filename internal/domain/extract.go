package domain

import (
	"context"
	"strings"
)

// UnknownLocation is the sentinel candidate used when no location can be
// extracted from a description. It is still a valid geocoding query; the
// coordinate chain decides what to do with it.
const UnknownLocation = "Unknown Location"

// defaultLocationKeywords is the ordered list of known place names tested
// against descriptions. Order matters: the first match wins, so specific
// places precede the regions containing them.
var defaultLocationKeywords = []string{
	"manhattan", "nyc", "new york", "los angeles", "la", "california", "dallas", "texas",
	"chicago", "illinois", "miami", "florida", "seattle", "washington", "boston", "massachusetts",
	"philadelphia", "pennsylvania", "phoenix", "arizona", "san antonio", "houston", "austin",
	"san diego", "denver", "colorado", "atlanta", "georgia", "nashville", "tennessee",
	"kakinada", "andhra pradesh", "andrapradesh", "india",
}

// KeywordExtractor extracts a candidate location name from free text without
// any network calls: an ordered keyword scan first, then a capitalized-token
// heuristic. It is total: extraction always produces a candidate.
type KeywordExtractor struct {
	keywords []string
}

// NewKeywordExtractor creates an extractor over the given ordered keyword
// list. Pass nil to use the default list.
func NewKeywordExtractor(keywords []string) *KeywordExtractor {
	if keywords == nil {
		keywords = defaultLocationKeywords
	}
	return &KeywordExtractor{keywords: keywords}
}

// Name identifies the extraction strategy in logs and metrics.
func (e *KeywordExtractor) Name() string { return "keyword" }

// ExtractLocation returns the first keyword (in declared order) contained in
// the description, matched case-insensitively, with its first letter
// upper-cased. When no keyword matches, it returns the first whitespace
// token that is purely alphabetic, longer than two characters, and starts
// with an upper-case letter, a proper-noun heuristic that is known to pick
// up capitalized non-place words such as a sentence-initial noun. When
// nothing qualifies it returns UnknownLocation. The error is always nil.
func (e *KeywordExtractor) ExtractLocation(_ context.Context, description string) (string, error) {
	lower := strings.ToLower(description)
	for _, kw := range e.keywords {
		if strings.Contains(lower, kw) {
			return strings.ToUpper(kw[:1]) + kw[1:], nil
		}
	}

	for _, token := range strings.Fields(description) {
		if len(token) > 2 && isASCIIAlphabetic(token) && token[0] >= 'A' && token[0] <= 'Z' {
			return token, nil
		}
	}

	return UnknownLocation, nil
}

func isASCIIAlphabetic(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
