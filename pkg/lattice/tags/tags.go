package tags

import (
	"github.com/cognicore/lattice/pkg/lattice/fca"
	"github.com/cognicore/lattice/pkg/lattice/terms"
)

// Metadata describes one concept a document belongs to.
type Metadata struct {
	TopTerms []terms.Term
	Intent   []fca.Attribute
}

// Document is a caller-owned publication record that receives concept
// annotations.
type Document struct {
	fca.Document
	Concepts        []string
	ConceptMetadata map[string]Metadata
}

// Plain returns the underlying documents in order.
func Plain(docs []*Document) []fca.Document {
	result := make([]fca.Document, len(docs))
	for i, d := range docs {
		result[i] = d.Document
	}
	return result
}

// Assign writes concept names and metadata onto docs, in concept order, and
// returns the ID→names lookup for every tagged document. Previous
// annotations are cleared; untouched documents end with nil fields.
func Assign(docs []*Document, named []terms.Named) map[string][]string {
	byID := make(map[string][]*Document, len(docs))
	for _, d := range docs {
		d.Concepts = nil
		d.ConceptMetadata = nil
		byID[d.ID] = append(byID[d.ID], d)
	}

	lookup := make(map[string][]string)
	for _, n := range named {
		meta := Metadata{TopTerms: n.Terms, Intent: n.Concept.Intent}
		for _, id := range n.Concept.Extent {
			targets, ok := byID[id]
			if !ok {
				continue
			}
			for _, d := range targets {
				d.Concepts = append(d.Concepts, n.Name)
				if d.ConceptMetadata == nil {
					d.ConceptMetadata = make(map[string]Metadata)
				}
				d.ConceptMetadata[n.Name] = meta
			}
			lookup[id] = append(lookup[id], n.Name)
		}
	}
	return lookup
}
