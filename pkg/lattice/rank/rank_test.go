package rank

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/cognicore/lattice/pkg/lattice/fca"
)

func concept(extent []string, attrs ...string) fca.Concept {
	intent := make([]fca.Attribute, len(attrs))
	for i, a := range attrs {
		intent[i] = fca.Keyword(a)
	}
	return fca.Concept{Extent: extent, Intent: intent}
}

func TestRankGreedyCoverage(t *testing.T) {
	concepts := []fca.Concept{
		concept([]string{"d1", "d2", "d3", "d4", "d5", "d6"}, "A"),
		concept([]string{"d1", "d2", "d3"}, "A", "B", "C"),
		concept([]string{"d4", "d5", "d6", "d7"}, "A", "D"),
		concept([]string{"d1", "d2", "d3", "d4"}, "A", "B"),
	}

	ranked := NewRanker(DefaultOptions()).Rank(concepts)

	if len(ranked) != 2 {
		t.Fatalf("Expected 2 ranked concepts, got %d", len(ranked))
	}
	if !reflect.DeepEqual(ranked[0].Concept, concepts[1]) {
		t.Errorf("first pick = %v, want the importance-9 concept", ranked[0].Concept.Extent)
	}
	if ranked[0].Importance != 9 {
		t.Errorf("first importance = %d, want 9", ranked[0].Importance)
	}
	if !reflect.DeepEqual(ranked[1].Concept, concepts[2]) {
		t.Errorf("second pick = %v, want d4..d7", ranked[1].Concept.Extent)
	}
	if ranked[1].RemainingImportance != 8 {
		t.Errorf("second remaining importance = %d, want 8", ranked[1].RemainingImportance)
	}
}

func TestRankDropsSmallExtents(t *testing.T) {
	concepts := []fca.Concept{
		concept([]string{"d1", "d2"}, "A", "B", "C", "D", "E"),
		concept([]string{"d1"}, "A", "B", "C", "D", "E", "F"),
		concept([]string{"d1", "d2", "d3"}, "A"),
	}

	ranked := NewRanker(DefaultOptions()).Rank(concepts)

	if len(ranked) != 1 {
		t.Fatalf("Expected 1 ranked concept, got %d", len(ranked))
	}
	for _, s := range ranked {
		if len(s.Concept.Extent) < DefaultMinExtent {
			t.Errorf("concept with %d documents should have been dropped", len(s.Concept.Extent))
		}
	}
}

func TestRankFirstPickBypassesThreshold(t *testing.T) {
	ranked := NewRanker(DefaultOptions()).Rank([]fca.Concept{
		concept([]string{"d1", "d2", "d3"}, "A"),
	})
	if len(ranked) != 1 || ranked[0].Importance != 3 {
		t.Errorf("Rank = %+v, want the single importance-3 concept", ranked)
	}
}

func TestRankStopsAtThreshold(t *testing.T) {
	concepts := []fca.Concept{
		concept([]string{"d1", "d2", "d3", "d4"}, "A", "B"),
		// Only d5 is new: remaining 1 × 3 = 3, not above the threshold.
		concept([]string{"d1", "d2", "d5"}, "A", "C", "D"),
	}

	ranked := NewRanker(DefaultOptions()).Rank(concepts)
	if len(ranked) != 1 {
		t.Errorf("Expected selection to stop after 1 concept, got %d", len(ranked))
	}
}

func TestRankTieBreaksByPosition(t *testing.T) {
	concepts := []fca.Concept{
		concept([]string{"d1", "d2", "d3"}, "A", "B"),
		concept([]string{"d4", "d5", "d6"}, "C", "D"),
		concept([]string{"d7", "d8", "d9"}, "E", "F"),
	}

	ranked := NewRanker(DefaultOptions()).Rank(concepts)
	if len(ranked) != 3 {
		t.Fatalf("Expected 3 ranked concepts, got %d", len(ranked))
	}
	for i := range concepts {
		if !reflect.DeepEqual(ranked[i].Concept, concepts[i]) {
			t.Errorf("ranked[%d] = %v, want %v", i, ranked[i].Concept.Extent, concepts[i].Extent)
		}
	}
}

func TestRankEmpty(t *testing.T) {
	if got := NewRanker(DefaultOptions()).Rank(nil); got != nil {
		t.Errorf("Rank(nil) = %v, want nil", got)
	}
}

func TestRankCoverageGrowsAndRespectsThreshold(t *testing.T) {
	var concepts []fca.Concept
	for i := 0; i < 12; i++ {
		var extent []string
		for j := i; j < i+3+i%4; j++ {
			extent = append(extent, fmt.Sprintf("d%d", j%10))
		}
		attrs := []string{"A"}
		for k := 0; k < i%3; k++ {
			attrs = append(attrs, fmt.Sprintf("K%d", k))
		}
		concepts = append(concepts, concept(extent, attrs...))
	}

	ranked := NewRanker(DefaultOptions()).Rank(concepts)
	covered := make(map[string]struct{})
	prev := 0
	for i, s := range ranked {
		if i > 0 && s.RemainingImportance <= DefaultStopImportance {
			t.Errorf("ranked[%d] selected with remaining importance %d", i, s.RemainingImportance)
		}
		for _, id := range s.Concept.Extent {
			covered[id] = struct{}{}
		}
		if len(covered) < prev {
			t.Errorf("coverage shrank at %d", i)
		}
		if i > 0 && len(covered) == prev {
			t.Errorf("ranked[%d] added no coverage", i)
		}
		prev = len(covered)
	}
}

func TestRankCustomOptions(t *testing.T) {
	concepts := []fca.Concept{
		concept([]string{"d1", "d2"}, "A", "B"),
	}
	ranked := NewRanker(Options{MinExtent: 2, StopImportance: 1}).Rank(concepts)
	if len(ranked) != 1 {
		t.Errorf("Expected the 2-document concept with MinExtent 2, got %d", len(ranked))
	}
}

func TestRankKeepsLoneTopConcept(t *testing.T) {
	concepts := []fca.Concept{
		concept([]string{"d1", "d2", "d3"}),
		concept([]string{"d1"}, "A"),
	}
	ranked := NewRanker(DefaultOptions()).Rank(concepts)
	if len(ranked) != 1 {
		t.Fatalf("Expected the top concept alone, got %d", len(ranked))
	}
	if !reflect.DeepEqual(ranked[0].Concept, concepts[0]) || ranked[0].Importance != 0 {
		t.Errorf("ranked[0] = %+v, want the attribute-less concept", ranked[0])
	}
}

func TestRankZeroImportanceNeverFollowsFirstPick(t *testing.T) {
	concepts := []fca.Concept{
		concept([]string{"d1", "d2", "d3", "d4", "d5", "d6"}),
		concept([]string{"d1", "d2", "d3"}, "A", "B"),
	}
	ranked := NewRanker(DefaultOptions()).Rank(concepts)
	if len(ranked) != 1 || !reflect.DeepEqual(ranked[0].Concept, concepts[1]) {
		t.Errorf("Rank = %+v, want only the importance-6 concept", ranked)
	}
}
