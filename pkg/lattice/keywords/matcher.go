// Package keywords matches keyword expressions against titles.
package keywords

import (
	"sort"
	"strings"
)

// Separator splits a keyword expression into alternatives that match as
// one unit, e.g. "VISUAL|VIS".
const Separator = "|"

// Match is one keyword expression found in a text.
type Match struct {
	Expression  string // expression as supplied by the caller
	Alternative string // lower-cased alternative that hit
	Start       int    // byte offset in the lower-cased text
	End         int
}

// Matcher finds which keyword expressions occur in a title.
type Matcher interface {
	FindMatches(title string, expressions []string) []Match
}

// SubstringMatcher reports case-insensitive substring hits. An occurrence
// overlapping a span already claimed by an earlier hit is suppressed, so the
// first expression to claim a span wins it. Each expression is reported at
// most once, at its first accepted occurrence, and results are ordered by
// position.
type SubstringMatcher struct{}

// NewSubstringMatcher returns the default matcher.
func NewSubstringMatcher() SubstringMatcher {
	return SubstringMatcher{}
}

type span struct{ start, end int }

// FindMatches implements Matcher.
func (SubstringMatcher) FindMatches(title string, expressions []string) []Match {
	text := strings.ToLower(title)
	var claimed []span
	var matches []Match

	for _, expr := range expressions {
		found := false
		var first Match
		for _, alt := range Alternatives(expr) {
			for offset := 0; offset <= len(text)-len(alt); {
				idx := strings.Index(text[offset:], alt)
				if idx < 0 {
					break
				}
				s := span{start: offset + idx, end: offset + idx + len(alt)}
				offset = s.start + 1
				if overlaps(claimed, s) {
					continue
				}
				claimed = append(claimed, s)
				if !found || s.start < first.Start {
					first = Match{Expression: expr, Alternative: alt, Start: s.start, End: s.end}
					found = true
				}
			}
		}
		if found {
			matches = append(matches, first)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})
	return matches
}

func overlaps(claimed []span, s span) bool {
	for _, c := range claimed {
		if s.start < c.end && c.start < s.end {
			return true
		}
	}
	return false
}

// Alternatives splits an expression into trimmed, lower-cased, non-empty
// alternatives.
func Alternatives(expr string) []string {
	parts := strings.Split(expr, Separator)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// MatchesStem reports whether any alternative of expr hits stem. Alternatives
// of at most shortLen bytes must be a prefix of the stem; longer ones may
// occur anywhere in it.
func MatchesStem(expr, stem string, shortLen int) bool {
	stem = strings.ToLower(stem)
	for _, alt := range Alternatives(expr) {
		if len(alt) <= shortLen {
			if strings.HasPrefix(stem, alt) {
				return true
			}
			continue
		}
		if strings.Contains(stem, alt) {
			return true
		}
	}
	return false
}

// Expressions returns the expressions of matches in order.
func Expressions(matches []Match) []string {
	result := make([]string, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.Expression)
	}
	return result
}
