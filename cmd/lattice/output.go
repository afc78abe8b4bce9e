package main

import (
	"time"

	"github.com/cognicore/lattice/pkg/lattice/store"
)

type conceptOutput struct {
	Extent []string `json:"extent"`
	Intent []string `json:"intent"`
}

type termOutput struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

type namedOutput struct {
	Rank       int          `json:"rank"`
	Name       string       `json:"name"`
	Importance int          `json:"importance"`
	Extent     []string     `json:"extent"`
	Intent     []string     `json:"intent"`
	Terms      []termOutput `json:"terms"`
}

type runOutput struct {
	ID          string              `json:"id"`
	CreatedAt   string              `json:"created_at"`
	Keywords    []string            `json:"keywords"`
	Documents   int                 `json:"documents"`
	Lattice     int                 `json:"lattice"`
	Concepts    []namedOutput       `json:"concepts"`
	Assignments map[string][]string `json:"assignments,omitempty"`
}

type summaryOutput struct {
	ID        string   `json:"id"`
	CreatedAt string   `json:"created_at"`
	Keywords  []string `json:"keywords"`
	Documents int      `json:"documents"`
	Concepts  int      `json:"concepts"`
}

func newRunOutput(run store.Run, assignments map[string][]string) runOutput {
	out := runOutput{
		ID:          run.ID,
		CreatedAt:   run.CreatedAt.Format(time.RFC3339),
		Keywords:    run.Keywords,
		Documents:   run.Documents,
		Lattice:     run.Lattice,
		Concepts:    make([]namedOutput, len(run.Concepts)),
		Assignments: assignments,
	}
	for i, c := range run.Concepts {
		terms := make([]termOutput, len(c.Terms))
		for j, t := range c.Terms {
			terms[j] = termOutput{Term: t.Stem, Score: t.Score}
		}
		out.Concepts[i] = namedOutput{
			Rank:       c.Rank,
			Name:       c.Name,
			Importance: c.Importance,
			Extent:     c.Extent,
			Intent:     c.Intent,
			Terms:      terms,
		}
	}
	return out
}
