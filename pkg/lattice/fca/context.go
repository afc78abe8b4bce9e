// Package fca builds formal contexts from a publication working set and
// enumerates their concept lattice.
package fca

import (
	"sort"

	"github.com/cognicore/lattice/pkg/lattice/keywords"
)

// DefaultMaxCitations caps the number of citation attributes.
const DefaultMaxCitations = 10

// Document is a publication in the working set.
type Document struct {
	ID         string   // unique key, e.g. a DOI
	Title      string
	References []string // IDs this document cites
	Citations  []string // IDs of documents citing this one
}

// AttributeKind distinguishes keyword from citation attributes.
type AttributeKind int

const (
	// KindKeyword marks a keyword expression matched against titles.
	KindKeyword AttributeKind = iota
	// KindCitation marks a frequently cited document of the working set.
	KindCitation
)

// Attribute is a column of the incidence table.
type Attribute struct {
	Kind  AttributeKind
	Value string // keyword expression or document ID
}

// Keyword returns a keyword attribute for expr.
func Keyword(expr string) Attribute {
	return Attribute{Kind: KindKeyword, Value: expr}
}

// Citation returns a citation attribute for document id.
func Citation(id string) Attribute {
	return Attribute{Kind: KindCitation, Value: id}
}

func (a Attribute) String() string {
	if a.Kind == KindCitation {
		return "cite:" + a.Value
	}
	return a.Value
}

// BuildOptions configures BuildContext.
type BuildOptions struct {
	Matcher      keywords.Matcher
	MaxCitations int
}

// Context is a binary incidence table of documents × attributes. The
// attribute order is fixed at construction and drives lattice enumeration.
type Context struct {
	objects    []string
	attributes []Attribute
	matrix     [][]bool
	objIndex   map[string]int
	attrIndex  map[Attribute]int
}

// NewContext assembles a context from explicit rows. matrix[i][j] tells
// whether object i has attribute j; missing cells are false.
func NewContext(objects []string, attributes []Attribute, matrix [][]bool) *Context {
	c := &Context{
		objects:    append([]string(nil), objects...),
		attributes: append([]Attribute(nil), attributes...),
		matrix:     make([][]bool, len(objects)),
		objIndex:   make(map[string]int, len(objects)),
		attrIndex:  make(map[Attribute]int, len(attributes)),
	}
	for i, id := range c.objects {
		if _, dup := c.objIndex[id]; !dup {
			c.objIndex[id] = i
		}
		row := make([]bool, len(attributes))
		if i < len(matrix) {
			copy(row, matrix[i])
		}
		c.matrix[i] = row
	}
	for j, a := range c.attributes {
		if _, dup := c.attrIndex[a]; !dup {
			c.attrIndex[a] = j
		}
	}
	return c
}

// BuildContext derives the incidence table for docs and keyword expressions.
func BuildContext(docs []Document, exprs []string, opts BuildOptions) *Context {
	if opts.Matcher == nil {
		opts.Matcher = keywords.NewSubstringMatcher()
	}
	if opts.MaxCitations <= 0 {
		opts.MaxCitations = DefaultMaxCitations
	}

	attrs := make([]Attribute, 0, len(exprs)+opts.MaxCitations)
	for _, e := range exprs {
		attrs = append(attrs, Keyword(e))
	}
	for _, id := range TopCited(docs, opts.MaxCitations) {
		attrs = append(attrs, Citation(id))
	}

	objects := make([]string, len(docs))
	matrix := make([][]bool, len(docs))
	for i, d := range docs {
		objects[i] = d.ID
		row := make([]bool, len(attrs))

		matched := make(map[string]struct{})
		for _, m := range opts.Matcher.FindMatches(d.Title, exprs) {
			matched[m.Expression] = struct{}{}
		}
		linked := linkSet(d)

		for j, a := range attrs {
			switch a.Kind {
			case KindKeyword:
				_, row[j] = matched[a.Value]
			case KindCitation:
				_, row[j] = linked[a.Value]
			}
		}
		matrix[i] = row
	}

	return NewContext(objects, attrs, matrix)
}

// linkSet holds the document itself plus everything it cites or is cited by.
func linkSet(d Document) map[string]struct{} {
	set := make(map[string]struct{}, 1+len(d.References)+len(d.Citations))
	set[d.ID] = struct{}{}
	for _, id := range d.References {
		set[id] = struct{}{}
	}
	for _, id := range d.Citations {
		set[id] = struct{}{}
	}
	return set
}

// CitationCounts counts, for each working-set document, how often its ID
// occurs in the reference and citation lists of the other documents.
func CitationCounts(docs []Document) map[string]int {
	inSet := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		inSet[d.ID] = struct{}{}
	}

	counts := make(map[string]int)
	for _, d := range docs {
		for _, list := range [][]string{d.References, d.Citations} {
			for _, id := range list {
				if id == d.ID {
					continue
				}
				if _, ok := inSet[id]; ok {
					counts[id]++
				}
			}
		}
	}
	return counts
}

// TopCited returns up to limit document IDs with a non-zero citation count,
// most cited first. Ties keep working-set order.
func TopCited(docs []Document, limit int) []string {
	counts := CitationCounts(docs)

	var ids []string
	seen := make(map[string]struct{}, len(counts))
	for _, d := range docs {
		if counts[d.ID] == 0 {
			continue
		}
		if _, dup := seen[d.ID]; dup {
			continue
		}
		seen[d.ID] = struct{}{}
		ids = append(ids, d.ID)
	}

	sort.SliceStable(ids, func(i, j int) bool {
		return counts[ids[i]] > counts[ids[j]]
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

// Objects returns a copy of the document IDs in row order.
func (c *Context) Objects() []string {
	return append([]string(nil), c.objects...)
}

// Attributes returns a copy of the attributes in column order.
func (c *Context) Attributes() []Attribute {
	return append([]Attribute(nil), c.attributes...)
}

// Len returns the number of objects.
func (c *Context) Len() int { return len(c.objects) }

// Width returns the number of attributes.
func (c *Context) Width() int { return len(c.attributes) }

// Has reports whether object obj has attribute attr.
func (c *Context) Has(obj, attr int) bool {
	return c.matrix[obj][attr]
}

// ObjectIndex returns the row of document id.
func (c *Context) ObjectIndex(id string) (int, bool) {
	i, ok := c.objIndex[id]
	return i, ok
}

// AttributeIndex returns the column of a.
func (c *Context) AttributeIndex(a Attribute) (int, bool) {
	j, ok := c.attrIndex[a]
	return j, ok
}

// Object returns the ID of row i.
func (c *Context) Object(i int) string { return c.objects[i] }

// Attribute returns the attribute of column j.
func (c *Context) Attribute(j int) Attribute { return c.attributes[j] }
