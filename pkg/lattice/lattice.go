// Package lattice discovers formal concepts in a publication working set,
// ranks them by coverage and labels them with their characteristic terms.
package lattice

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/lattice/pkg/lattice/config"
	"github.com/cognicore/lattice/pkg/lattice/fca"
	"github.com/cognicore/lattice/pkg/lattice/internalerr"
	"github.com/cognicore/lattice/pkg/lattice/keywords"
	"github.com/cognicore/lattice/pkg/lattice/rank"
	"github.com/cognicore/lattice/pkg/lattice/stoplist"
	"github.com/cognicore/lattice/pkg/lattice/tags"
	"github.com/cognicore/lattice/pkg/lattice/terms"
	"github.com/cognicore/lattice/pkg/lattice/textnorm"
)

// Engine discovers and labels concepts in a publication working set. It
// holds configuration only; every call recomputes from its inputs.
type Engine struct {
	norm     *textnorm.Normalizer
	matcher  keywords.Matcher
	analysis config.Analysis
	log      *zap.Logger
}

// Options configures an Engine. Zero values select defaults.
type Options struct {
	Stopwords *stoplist.Set
	Matcher   keywords.Matcher
	Analysis  *config.Analysis
	Logger    *zap.Logger
}

// New creates an Engine, filling unset options with defaults.
func New(opts Options) *Engine {
	analysis := config.DefaultAnalysis()
	if opts.Analysis != nil {
		analysis = *opts.Analysis
	}
	if opts.Matcher == nil {
		opts.Matcher = keywords.NewSubstringMatcher()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Engine{
		norm:     textnorm.NewNormalizer(opts.Stopwords),
		matcher:  opts.Matcher,
		analysis: analysis,
		log:      opts.Logger,
	}
}

// Context builds the incidence table for docs and keyword expressions.
func (e *Engine) Context(docs []fca.Document, kws []string) *fca.Context {
	return fca.BuildContext(docs, kws, fca.BuildOptions{
		Matcher:      e.matcher,
		MaxCitations: e.analysis.MaxCitationAttributes,
	})
}

// ComputeConcepts returns every formal concept of the working set, in
// lectic order of intents. It returns nil when there are no documents or
// no attributes.
func (e *Engine) ComputeConcepts(docs []fca.Document, kws []string) []fca.Concept {
	if len(docs) == 0 {
		return nil
	}
	return e.lattice(e.Context(docs, kws))
}

func (e *Engine) lattice(ctx *fca.Context) []fca.Concept {
	if ctx.Width() == 0 {
		e.log.Debug("no attributes, skipping lattice", zap.Int("documents", ctx.Len()))
		return nil
	}

	concepts := fca.Concepts(ctx)
	e.log.Debug("lattice computed",
		zap.Int("documents", ctx.Len()),
		zap.Int("attributes", ctx.Width()),
		zap.Int("concepts", len(concepts)))
	return concepts
}

// Rank filters and orders concepts by greedy coverage.
func (e *Engine) Rank(concepts []fca.Concept) []rank.Scored {
	return rank.NewRanker(e.analysis.RankOptions()).Rank(concepts)
}

// Name ranks concepts and labels them against the corpus of docs.
func (e *Engine) Name(docs []fca.Document, concepts []fca.Concept) []terms.Named {
	ranked := e.Rank(concepts)
	if len(ranked) == 0 {
		return nil
	}
	extractor := terms.NewExtractor(docs, e.norm, e.analysis.TermOptions())
	named := extractor.NameAll(ranked)
	e.log.Debug("concepts named",
		zap.Int("candidates", len(concepts)),
		zap.Int("ranked", len(named)))
	return named
}

// AssignConceptTags ranks and names concepts, then writes the concept names
// and metadata onto docs. It returns the ID→names lookup of tagged
// documents. Callers must not read the documents concurrently.
func (e *Engine) AssignConceptTags(docs []*tags.Document, concepts []fca.Concept) map[string][]string {
	if len(docs) == 0 {
		return map[string][]string{}
	}
	named := e.Name(tags.Plain(docs), concepts)
	return tags.Assign(docs, named)
}

// Report is the outcome of a full analysis.
type Report struct {
	Attributes  []fca.Attribute
	Lattice     int // number of concepts before ranking
	Concepts    []terms.Named
	Assignments map[string][]string
}

// Analyze computes, ranks, names and assigns concepts in one pass.
func (e *Engine) Analyze(docs []*tags.Document, kws []string) Report {
	plain := tags.Plain(docs)
	var report Report
	var concepts []fca.Concept
	if len(plain) > 0 {
		ctx := e.Context(plain, kws)
		report.Attributes = ctx.Attributes()
		concepts = e.lattice(ctx)
	}
	report.Lattice = len(concepts)
	report.Concepts = e.Name(plain, concepts)
	report.Assignments = map[string][]string{}
	if len(docs) > 0 {
		report.Assignments = tags.Assign(docs, report.Concepts)
	}

	e.log.Info("analysis complete",
		zap.Int("documents", len(docs)),
		zap.Int("attributes", len(report.Attributes)),
		zap.Int("lattice", report.Lattice),
		zap.Int("concepts", len(report.Concepts)),
		zap.Int("tagged", len(report.Assignments)))
	return report
}

// ValidateDocuments checks that every document has a non-blank, unique ID.
// The engine itself does not deduplicate.
func ValidateDocuments(docs []fca.Document) error {
	seen := make(map[string]struct{}, len(docs))
	for i, d := range docs {
		if strings.TrimSpace(d.ID) == "" {
			return fmt.Errorf("%w: document %d has no id", internalerr.ErrInvalidInput, i)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("%w: document id %q", internalerr.ErrDuplicate, d.ID)
		}
		seen[d.ID] = struct{}{}
	}
	return nil
}
