package textnorm

import (
	"iter"
	"strings"

	"github.com/cognicore/lattice/pkg/lattice/stoplist"
)

// MinTokenLen is the shortest token kept; anything of this length or
// shorter is dropped before stemming.
const MinTokenLen = 2

// Normalizer turns free text into stemmed tokens.
type Normalizer struct {
	stops *stoplist.Set
}

// NewNormalizer creates a normalizer filtering the given stop words.
// A nil set selects stoplist.Default().
func NewNormalizer(stops *stoplist.Set) *Normalizer {
	if stops == nil {
		stops = stoplist.Default()
	}
	return &Normalizer{stops: stops}
}

// Stems returns the stems of text as a lazy sequence. The sequence can be
// ranged over any number of times and yields the same stems each time.
func (n *Normalizer) Stems(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		lower := strings.ToLower(text)
		start := -1
		for i := 0; i <= len(lower); i++ {
			if i < len(lower) && isWordByte(lower[i]) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start < 0 {
				continue
			}
			word := lower[start:i]
			start = -1
			if !n.keep(word) {
				continue
			}
			if !yield(Stem(word)) {
				return
			}
		}
	}
}

// Collect returns all stems of text as a slice.
func (n *Normalizer) Collect(text string) []string {
	var stems []string
	for s := range n.Stems(text) {
		stems = append(stems, s)
	}
	return stems
}

func (n *Normalizer) keep(word string) bool {
	if len(word) <= MinTokenLen {
		return false
	}
	return !n.stops.Contains(word)
}

// isWordByte matches the ASCII word class [a-z0-9_] on lower-cased input.
// Bytes of multi-byte runes never match and act as separators.
func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b == '_'
}

// suffixRule rewrites a suffix when the word is longer than minLen.
type suffixRule struct {
	suffix  string
	replace string
	minLen  int
}

// Only the first matching rule is applied.
var rules = []suffixRule{
	{suffix: "ies", replace: "y", minLen: 4},
	{suffix: "es", replace: "", minLen: 3},
	{suffix: "s", replace: "", minLen: 2},
	{suffix: "ed", replace: "", minLen: 3},
	{suffix: "ing", replace: "", minLen: 4},
}

// Stem applies the suffix-stripping rules to a lower-cased word.
func Stem(word string) string {
	for _, r := range rules {
		if len(word) > r.minLen && strings.HasSuffix(word, r.suffix) {
			return word[:len(word)-len(r.suffix)] + r.replace
		}
	}
	return word
}
