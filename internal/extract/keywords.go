// Package extract holds the heuristic core: the assignment keyword matcher,
// the date-association engine, and the deduplicator/ranker.
package extract

import (
	"regexp"
	"strings"
)

// KeywordMatcher detects assignment-like text via a controlled vocabulary.
// Matching is case-insensitive and word-boundary; multi-word terms match
// across any run of whitespace.
type KeywordMatcher struct {
	re *regexp.Regexp
}

// NewKeywordMatcher compiles the vocabulary into a single pattern.
// An empty vocabulary matches nothing.
func NewKeywordMatcher(vocabulary []string) *KeywordMatcher {
	var alts []string
	for _, term := range vocabulary {
		term = strings.TrimSpace(strings.ToLower(term))
		if term == "" {
			continue
		}
		words := strings.Fields(term)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		alts = append(alts, strings.Join(words, `\s+`))
	}
	if len(alts) == 0 {
		return &KeywordMatcher{}
	}
	return &KeywordMatcher{
		re: regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`),
	}
}

// Match reports whether text contains at least one vocabulary term.
func (m *KeywordMatcher) Match(text string) bool {
	return m.re != nil && m.re.MatchString(text)
}

// MatchedTerm returns the first vocabulary term found in text, lowercased,
// or "" when none matches. Useful for provenance in diagnostics.
func (m *KeywordMatcher) MatchedTerm(text string) string {
	if m.re == nil {
		return ""
	}
	return strings.ToLower(m.re.FindString(text))
}
