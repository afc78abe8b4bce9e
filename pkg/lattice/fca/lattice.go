package fca

import (
	"iter"
)

// Concept is a closed pair of documents and the attributes they share.
type Concept struct {
	Extent []string    // document IDs in context row order
	Intent []Attribute // attributes in context column order

	extentIdx []int
	intentIdx []int
}

// ExtentIndex returns the sorted row indexes of the extent.
func (c Concept) ExtentIndex() []int { return c.extentIdx }

// IntentIndex returns the sorted column indexes of the intent.
func (c Concept) IntentIndex() []int { return c.intentIdx }

// NewConcept materializes a concept from index sets of ctx.
func NewConcept(ctx *Context, extent, intent []int) Concept {
	c := Concept{
		Extent:    make([]string, len(extent)),
		Intent:    make([]Attribute, len(intent)),
		extentIdx: extent,
		intentIdx: intent,
	}
	for i, o := range extent {
		c.Extent[i] = ctx.Object(o)
	}
	for i, a := range intent {
		c.Intent[i] = ctx.Attribute(a)
	}
	return c
}

// Extent returns the rows having every attribute in attrs.
func (c *Context) Extent(attrs []int) []int {
	result := make([]int, 0, len(c.objects))
	for o := range c.objects {
		row := c.matrix[o]
		all := true
		for _, a := range attrs {
			if !row[a] {
				all = false
				break
			}
		}
		if all {
			result = append(result, o)
		}
	}
	return result
}

// Intent returns the columns shared by every row in objs. An empty object
// set shares every attribute.
func (c *Context) Intent(objs []int) []int {
	result := make([]int, 0, len(c.attributes))
	for a := range c.attributes {
		all := true
		for _, o := range objs {
			if !c.matrix[o][a] {
				all = false
				break
			}
		}
		if all {
			result = append(result, a)
		}
	}
	return result
}

// Closure returns Intent(Extent(attrs)).
func (c *Context) Closure(attrs []int) []int {
	return c.Intent(c.Extent(attrs))
}

// nextClosure returns the lectically next closed intent after closed, or
// false once closed is the full attribute set.
func (c *Context) nextClosure(closed []int) ([]int, bool) {
	n := len(c.attributes)
	member := make([]bool, n)
	for _, a := range closed {
		member[a] = true
	}

	for i := n - 1; i >= 0; i-- {
		if member[i] {
			member[i] = false
			continue
		}

		candidate := make([]int, 0, i+1)
		for j := 0; j < i; j++ {
			if member[j] {
				candidate = append(candidate, j)
			}
		}
		candidate = append(candidate, i)

		next := c.Closure(candidate)
		if canonical(next, member, i) {
			return next, true
		}
	}
	return nil, false
}

// canonical reports whether closing added no attribute below index i.
func canonical(next []int, member []bool, i int) bool {
	for _, a := range next {
		if a >= i {
			break
		}
		if !member[a] {
			return false
		}
	}
	return true
}

// All enumerates every concept of ctx exactly once, in lectic order of
// intents, starting from the closure of the empty set.
func All(ctx *Context) iter.Seq[Concept] {
	return func(yield func(Concept) bool) {
		intent := ctx.Closure(nil)
		for {
			extent := ctx.Extent(intent)
			if !yield(NewConcept(ctx, extent, intent)) {
				return
			}
			next, ok := ctx.nextClosure(intent)
			if !ok {
				return
			}
			intent = next
		}
	}
}

// Concepts collects All(ctx).
func Concepts(ctx *Context) []Concept {
	var result []Concept
	for c := range All(ctx) {
		result = append(result, c)
	}
	return result
}
