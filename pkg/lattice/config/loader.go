package config

import (
	"fmt"

	"github.com/cognicore/lattice/pkg/lattice/stoplist"
)

// Loader loads configuration files and constructs components
type Loader struct {
	ConfigPath   string
	StoplistPath string // overrides stopwords declared in the config file
}

// Components holds all loaded configuration components
type Components struct {
	Stopwords *stoplist.Set
	Keywords  []string
	Analysis  Analysis
}

// Load reads the configured files and returns initialized components.
// Missing paths yield defaults.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{
		Stopwords: stoplist.Default(),
		Analysis:  DefaultAnalysis(),
	}

	if l.ConfigPath != "" {
		f, err := LoadFile(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		comp.Keywords = f.Keywords
		comp.Analysis = f.Analysis
		if f.Stopwords != nil {
			comp.Stopwords = stoplist.New(f.Stopwords.Terms...)
		}
	}

	if l.StoplistPath != "" {
		sl, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Stopwords = stoplist.New(sl.Terms...)
	}

	if err := comp.Analysis.Validate(); err != nil {
		return nil, err
	}

	return comp, nil
}
