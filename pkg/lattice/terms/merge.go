package terms

import (
	"sort"
)

// Merge folds near-duplicate stems together. Stems are visited by
// descending frequency; each stem not yet merged absorbs every other
// unmerged stem sharing a common prefix of at least prefix bytes. The
// shortest member of a group represents it and carries the summed
// frequency.
func Merge(freq map[string]int, prefix int) map[string]int {
	stems := make([]string, 0, len(freq))
	for s := range freq {
		stems = append(stems, s)
	}
	sort.Slice(stems, func(i, j int) bool {
		if freq[stems[i]] != freq[stems[j]] {
			return freq[stems[i]] > freq[stems[j]]
		}
		return stems[i] < stems[j]
	})

	merged := make(map[string]bool, len(stems))
	out := make(map[string]int, len(stems))
	for i, seed := range stems {
		if merged[seed] {
			continue
		}
		merged[seed] = true
		rep := seed
		total := freq[seed]

		for _, other := range stems[i+1:] {
			if merged[other] || commonPrefixLen(seed, other) < prefix {
				continue
			}
			merged[other] = true
			total += freq[other]
			if shorter(other, rep) {
				rep = other
			}
		}
		out[rep] += total
	}
	return out
}

func shorter(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

func commonPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
