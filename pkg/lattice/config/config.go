package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/lattice/pkg/lattice/fca"
	"github.com/cognicore/lattice/pkg/lattice/internalerr"
	"github.com/cognicore/lattice/pkg/lattice/rank"
	"github.com/cognicore/lattice/pkg/lattice/terms"
)

// Analysis holds the tunable thresholds of the concept pipeline.
type Analysis struct {
	MaxCitationAttributes int     `yaml:"max_citation_attributes"`
	MinExtent             int     `yaml:"min_extent"`
	StopImportance        int     `yaml:"stop_importance"`
	TopTerms              int     `yaml:"top_terms"`
	MergePrefix           int     `yaml:"merge_prefix"`
	ShortKeyword          int     `yaml:"short_keyword"`
	BoostWeight           int     `yaml:"boost_weight"`
	TieEpsilon            float64 `yaml:"tie_epsilon"`
}

// DefaultAnalysis returns the standard thresholds.
func DefaultAnalysis() Analysis {
	return Analysis{
		MaxCitationAttributes: fca.DefaultMaxCitations,
		MinExtent:             rank.DefaultMinExtent,
		StopImportance:        rank.DefaultStopImportance,
		TopTerms:              terms.DefaultTopN,
		MergePrefix:           terms.DefaultMergePrefix,
		ShortKeyword:          terms.DefaultShortKeyword,
		BoostWeight:           terms.DefaultBoostWeight,
		TieEpsilon:            terms.DefaultTieEpsilon,
	}
}

// Validate rejects non-positive thresholds.
func (a Analysis) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"max_citation_attributes", float64(a.MaxCitationAttributes)},
		{"min_extent", float64(a.MinExtent)},
		{"stop_importance", float64(a.StopImportance)},
		{"top_terms", float64(a.TopTerms)},
		{"merge_prefix", float64(a.MergePrefix)},
		{"short_keyword", float64(a.ShortKeyword)},
		{"boost_weight", float64(a.BoostWeight)},
		{"tie_epsilon", a.TieEpsilon},
	}
	for _, c := range checks {
		if c.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", internalerr.ErrInvalidConfig, c.name, c.value)
		}
	}
	return nil
}

// RankOptions converts to ranker options.
func (a Analysis) RankOptions() rank.Options {
	return rank.Options{MinExtent: a.MinExtent, StopImportance: a.StopImportance}
}

// TermOptions converts to extractor options.
func (a Analysis) TermOptions() terms.Options {
	return terms.Options{
		TopN:         a.TopTerms,
		MergePrefix:  a.MergePrefix,
		ShortKeyword: a.ShortKeyword,
		BoostWeight:  a.BoostWeight,
		TieEpsilon:   a.TieEpsilon,
	}
}

// File is the on-disk configuration.
type File struct {
	Keywords  []string  `yaml:"keywords"`
	Stopwords *Stoplist `yaml:"stopwords"`
	Analysis  Analysis  `yaml:"analysis"`
}

// LoadFile reads a configuration file. Analysis fields left out of the file
// keep their defaults.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	f := File{Analysis: DefaultAnalysis()}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	return &f, nil
}

// Stoplist lists title words the normalizer discards, either inline under
// `stopwords` in the config file or as a standalone file.
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist reads a standalone stoplist file. The result replaces the
// default English set rather than extending it.
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stoplist %s: %w", path, err)
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("%w: stoplist %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	return &sl, nil
}
