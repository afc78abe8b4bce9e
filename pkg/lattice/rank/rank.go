// Package rank orders concepts by how much of the working set they explain.
package rank

import (
	"github.com/cognicore/lattice/pkg/lattice/fca"
)

// Default thresholds.
const (
	DefaultMinExtent      = 3
	DefaultStopImportance = 3
)

// Options configures the ranker.
type Options struct {
	MinExtent      int // concepts with fewer documents are dropped
	StopImportance int // selection stops once the best marginal value is at or below this
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		MinExtent:      DefaultMinExtent,
		StopImportance: DefaultStopImportance,
	}
}

// Ranker orders concepts by greedy maximum coverage.
type Ranker struct {
	opts Options
}

// NewRanker creates a ranker. Non-positive options fall back to defaults.
func NewRanker(opts Options) *Ranker {
	if opts.MinExtent <= 0 {
		opts.MinExtent = DefaultMinExtent
	}
	if opts.StopImportance <= 0 {
		opts.StopImportance = DefaultStopImportance
	}
	return &Ranker{opts: opts}
}

// Scored is a concept with its coverage scores.
//
// Importance = |extent| × |intent|
// RemainingImportance = |extent \ covered| × |intent| at selection time
type Scored struct {
	Concept             fca.Concept
	Importance          int
	RemainingImportance int
}

// Importance returns |extent| × |intent|.
func Importance(c fca.Concept) int {
	return len(c.Extent) * len(c.Intent)
}

// Rank drops concepts with fewer than MinExtent documents and picks from the
// rest in greedy coverage order. The first pick is the most important
// concept, kept even when its importance is zero. Each later pick has the
// highest remaining importance, and selection ends as soon as that value
// drops to the stop threshold. Ties go to the concept listed first.
func (r *Ranker) Rank(concepts []fca.Concept) []Scored {
	var pool []Scored
	for _, c := range concepts {
		if len(c.Extent) < r.opts.MinExtent {
			continue
		}
		imp := Importance(c)
		pool = append(pool, Scored{Concept: c, Importance: imp, RemainingImportance: imp})
	}
	if len(pool) == 0 {
		return nil
	}

	picked := make([]bool, len(pool))
	covered := make(map[string]struct{})
	var result []Scored

	best := 0
	for i := range pool {
		if pool[i].Importance > pool[best].Importance {
			best = i
		}
	}
	result = append(result, take(pool, picked, covered, best))

	for len(result) < len(pool) {
		best = -1
		for i := range pool {
			if picked[i] {
				continue
			}
			pool[i].RemainingImportance = remaining(pool[i].Concept, covered)
			if best < 0 || pool[i].RemainingImportance > pool[best].RemainingImportance {
				best = i
			}
		}
		if pool[best].RemainingImportance <= r.opts.StopImportance {
			break
		}
		result = append(result, take(pool, picked, covered, best))
	}

	return result
}

func take(pool []Scored, picked []bool, covered map[string]struct{}, i int) Scored {
	picked[i] = true
	for _, id := range pool[i].Concept.Extent {
		covered[id] = struct{}{}
	}
	return pool[i]
}

func remaining(c fca.Concept, covered map[string]struct{}) int {
	uncovered := 0
	for _, id := range c.Extent {
		if _, ok := covered[id]; !ok {
			uncovered++
		}
	}
	return uncovered * len(c.Intent)
}
