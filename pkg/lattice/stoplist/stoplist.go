package stoplist

import (
	"sort"
	"strings"
)

// defaultWords are common English words that carry no topical signal in
// publication titles. Words of two letters or fewer are dropped by the
// normalizer regardless, so they are not listed.
var defaultWords = []string{
	"the", "and", "for", "with", "from",
	"that", "this", "are", "was", "were",
	"into", "onto", "over", "under", "via",
	"using", "based", "its", "our", "their",
	"towards", "toward", "between", "through", "about",
}

// Set is an immutable stop-word set. The zero value is empty.
type Set struct {
	stops map[string]struct{}
}

// New creates a stop-word set from the given words (case-insensitive).
func New(words ...string) *Set {
	stops := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		stops[w] = struct{}{}
	}
	return &Set{stops: stops}
}

// Default returns the built-in English stop-word set.
func Default() *Set {
	return New(defaultWords...)
}

// Contains reports whether token is a stop word. Tokens are expected to be
// lower-cased already.
func (s *Set) Contains(token string) bool {
	if s == nil {
		return false
	}
	_, ok := s.stops[token]
	return ok
}

// Len returns the number of stop words.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.stops)
}

// Words returns a sorted copy of the stop words.
func (s *Set) Words() []string {
	if s == nil {
		return nil
	}
	result := make([]string, 0, len(s.stops))
	for w := range s.stops {
		result = append(result, w)
	}
	sort.Strings(result)
	return result
}

// With returns a new set holding the words of s plus extra.
func (s *Set) With(extra ...string) *Set {
	return New(append(s.Words(), extra...)...)
}
