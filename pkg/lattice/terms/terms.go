// Package terms scores the vocabulary of a concept with TF-IDF and derives
// a display name from it.
package terms

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cognicore/lattice/pkg/lattice/fca"
	"github.com/cognicore/lattice/pkg/lattice/keywords"
	"github.com/cognicore/lattice/pkg/lattice/rank"
	"github.com/cognicore/lattice/pkg/lattice/textnorm"
)

// Defaults for Options.
const (
	DefaultTopN         = 10
	DefaultMergePrefix  = 5
	DefaultShortKeyword = 3
	DefaultBoostWeight  = 2
	DefaultTieEpsilon   = 0.0001
)

// Options configures term extraction and naming.
type Options struct {
	TopN         int     // terms kept per concept
	MergePrefix  int     // common prefix length that merges two stems
	ShortKeyword int     // keyword alternatives up to this length match stem prefixes only
	BoostWeight  int     // frequency weight of keyword-matched stems
	TieEpsilon   float64 // top scores closer than this leave the concept unnamed
}

// DefaultOptions returns the standard extraction settings.
func DefaultOptions() Options {
	return Options{
		TopN:         DefaultTopN,
		MergePrefix:  DefaultMergePrefix,
		ShortKeyword: DefaultShortKeyword,
		BoostWeight:  DefaultBoostWeight,
		TieEpsilon:   DefaultTieEpsilon,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TopN <= 0 {
		o.TopN = d.TopN
	}
	if o.MergePrefix <= 0 {
		o.MergePrefix = d.MergePrefix
	}
	if o.ShortKeyword <= 0 {
		o.ShortKeyword = d.ShortKeyword
	}
	if o.BoostWeight <= 0 {
		o.BoostWeight = d.BoostWeight
	}
	if o.TieEpsilon <= 0 {
		o.TieEpsilon = d.TieEpsilon
	}
	return o
}

// Term is a scored stem.
type Term struct {
	Stem  string
	Score float64
}

// Named is a ranked concept with its label.
type Named struct {
	rank.Scored
	Rank  int
	Name  string
	Terms []Term
}

// Extractor scores concept vocabularies against a fixed corpus.
type Extractor struct {
	norm   *textnorm.Normalizer
	opts   Options
	titles map[string]string
	df     map[string]int
	total  int
}

// NewExtractor precomputes document frequencies over corpus, which should
// be the whole working set. A nil normalizer uses the default stop words.
func NewExtractor(corpus []fca.Document, norm *textnorm.Normalizer, opts Options) *Extractor {
	if norm == nil {
		norm = textnorm.NewNormalizer(nil)
	}
	opts = opts.withDefaults()

	titles := make(map[string]string, len(corpus))
	for _, d := range corpus {
		titles[d.ID] = d.Title
	}
	return &Extractor{
		norm:   norm,
		opts:   opts,
		titles: titles,
		df:     Merge(DocumentFrequencies(corpus, norm), opts.MergePrefix),
		total:  len(corpus),
	}
}

// DocumentFrequencies counts, per stem, the documents whose title contains it.
func DocumentFrequencies(corpus []fca.Document, norm *textnorm.Normalizer) map[string]int {
	df := make(map[string]int)
	for _, d := range corpus {
		seen := make(map[string]struct{})
		for stem := range norm.Stems(d.Title) {
			if _, ok := seen[stem]; ok {
				continue
			}
			seen[stem] = struct{}{}
			df[stem]++
		}
	}
	return df
}

// Frequencies returns the boosted, merged term frequencies of a concept.
func (e *Extractor) Frequencies(c fca.Concept) map[string]int {
	var boost []string
	for _, a := range c.Intent {
		if a.Kind == fca.KindKeyword {
			boost = append(boost, a.Value)
		}
	}

	tf := make(map[string]int)
	for _, id := range e.sources(c) {
		for stem := range e.norm.Stems(e.titles[id]) {
			tf[stem] += e.weight(stem, boost)
		}
	}
	return Merge(tf, e.opts.MergePrefix)
}

// sources lists the extent documents followed by the documents named by
// citation attributes. A cited document inside the extent is listed twice.
// IDs outside the corpus are skipped.
func (e *Extractor) sources(c fca.Concept) []string {
	ids := make([]string, 0, len(c.Extent)+len(c.Intent))
	for _, id := range c.Extent {
		if _, ok := e.titles[id]; ok {
			ids = append(ids, id)
		}
	}
	for _, a := range c.Intent {
		if a.Kind != fca.KindCitation {
			continue
		}
		if _, ok := e.titles[a.Value]; ok {
			ids = append(ids, a.Value)
		}
	}
	return ids
}

func (e *Extractor) weight(stem string, boost []string) int {
	for _, expr := range boost {
		if keywords.MatchesStem(expr, stem, e.opts.ShortKeyword) {
			return e.opts.BoostWeight
		}
	}
	return 1
}

// Terms returns the top TF-IDF terms of a concept, best first.
//
// score = tf × ln(N / df), df defaulting to 1 for unseen stems
func (e *Extractor) Terms(c fca.Concept) []Term {
	tf := e.Frequencies(c)
	result := make([]Term, 0, len(tf))
	for stem, f := range tf {
		df := e.df[stem]
		if df < 1 {
			df = 1
		}
		result = append(result, Term{
			Stem:  stem,
			Score: float64(f) * math.Log(float64(e.total)/float64(df)),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return result[i].Stem < result[j].Stem
	})
	if len(result) > e.opts.TopN {
		result = result[:e.opts.TopN]
	}
	return result
}

// Name labels the concept at the given 1-based rank. The top term is used
// only when it scores clearly above the runner-up.
func (e *Extractor) Name(rank int, terms []Term) string {
	if len(terms) == 0 {
		return fmt.Sprintf("C%d", rank)
	}
	if len(terms) > 1 && math.Abs(terms[0].Score-terms[1].Score) <= e.opts.TieEpsilon {
		return fmt.Sprintf("C%d", rank)
	}
	return fmt.Sprintf("C%d - %s", rank, strings.ToUpper(terms[0].Stem))
}

// NameAll names ranked concepts in order, starting at rank 1.
func (e *Extractor) NameAll(ranked []rank.Scored) []Named {
	result := make([]Named, len(ranked))
	for i, s := range ranked {
		terms := e.Terms(s.Concept)
		result[i] = Named{
			Scored: s,
			Rank:   i + 1,
			Name:   e.Name(i+1, terms),
			Terms:  terms,
		}
	}
	return result
}
