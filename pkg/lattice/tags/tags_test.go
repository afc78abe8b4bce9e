package tags

import (
	"reflect"
	"testing"

	"github.com/cognicore/lattice/pkg/lattice/fca"
	"github.com/cognicore/lattice/pkg/lattice/rank"
	"github.com/cognicore/lattice/pkg/lattice/terms"
)

func named(name string, extent []string, attrs ...string) terms.Named {
	intent := make([]fca.Attribute, len(attrs))
	for i, a := range attrs {
		intent[i] = fca.Keyword(a)
	}
	return terms.Named{
		Scored: rank.Scored{Concept: fca.Concept{Extent: extent, Intent: intent}},
		Name:   name,
		Terms:  []terms.Term{{Stem: name, Score: 1}},
	}
}

func TestAssignInConceptOrder(t *testing.T) {
	docs := []*Document{
		{Document: fca.Document{ID: "a"}},
		{Document: fca.Document{ID: "b"}},
		{Document: fca.Document{ID: "c"}},
	}
	concepts := []terms.Named{
		named("C1 - GRAPH", []string{"a", "b"}, "GRAPH"),
		named("C2", []string{"b"}, "GRAPH", "VIS"),
	}

	lookup := Assign(docs, concepts)

	if !reflect.DeepEqual(docs[0].Concepts, []string{"C1 - GRAPH"}) {
		t.Errorf("a concepts = %v", docs[0].Concepts)
	}
	if !reflect.DeepEqual(docs[1].Concepts, []string{"C1 - GRAPH", "C2"}) {
		t.Errorf("b concepts = %v", docs[1].Concepts)
	}
	if docs[2].Concepts != nil || docs[2].ConceptMetadata != nil {
		t.Errorf("c should be untouched, got %v / %v", docs[2].Concepts, docs[2].ConceptMetadata)
	}

	meta, ok := docs[1].ConceptMetadata["C2"]
	if !ok {
		t.Fatal("b should carry metadata for C2")
	}
	if len(meta.Intent) != 2 || meta.TopTerms[0].Stem != "C2" {
		t.Errorf("C2 metadata = %+v", meta)
	}

	if !reflect.DeepEqual(lookup["b"], []string{"C1 - GRAPH", "C2"}) {
		t.Errorf("lookup[b] = %v", lookup["b"])
	}
	if _, ok := lookup["c"]; ok {
		t.Error("untagged documents should be absent from the lookup")
	}
}

func TestAssignClearsStaleAnnotations(t *testing.T) {
	docs := []*Document{
		{
			Document:        fca.Document{ID: "a"},
			Concepts:        []string{"C9"},
			ConceptMetadata: map[string]Metadata{"C9": {}},
		},
	}

	lookup := Assign(docs, nil)

	if docs[0].Concepts != nil || docs[0].ConceptMetadata != nil {
		t.Error("previous annotations should be cleared")
	}
	if len(lookup) != 0 {
		t.Errorf("lookup = %v, want empty", lookup)
	}
}

func TestAssignIgnoresUnknownIDs(t *testing.T) {
	docs := []*Document{{Document: fca.Document{ID: "a"}}}
	lookup := Assign(docs, []terms.Named{named("C1", []string{"a", "ghost"})})

	if _, ok := lookup["ghost"]; ok {
		t.Error("IDs outside the document list should not be tagged")
	}
	if len(docs[0].Concepts) != 1 {
		t.Errorf("a concepts = %v", docs[0].Concepts)
	}
}

func TestPlain(t *testing.T) {
	docs := []*Document{{Document: fca.Document{ID: "a", Title: "T"}}}
	plain := Plain(docs)
	if len(plain) != 1 || plain[0].ID != "a" || plain[0].Title != "T" {
		t.Errorf("Plain = %+v", plain)
	}
}
