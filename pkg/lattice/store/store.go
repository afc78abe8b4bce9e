package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/lattice/pkg/lattice"
)

// Store persists analysis runs for later inspection.
type Store interface {
	Close() error

	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// Run is an archived analysis.
type Run struct {
	ID        string
	CreatedAt time.Time
	Keywords  []string
	Documents int
	Lattice   int // concepts before ranking
	Concepts  []Concept
}

// Concept is one ranked, named concept of a run.
type Concept struct {
	Rank       int
	Name       string
	Importance int
	Extent     []string
	Intent     []string
	Terms      []Term
}

// Term is a scored concept term.
type Term struct {
	Stem  string
	Score float64
}

// Recorder turns reports into runs with monotonic ULIDs.
type Recorder struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewRecorder creates a recorder using the wall clock.
func NewRecorder() *Recorder {
	return &Recorder{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Record converts a report into a run.
func (r *Recorder) Record(report lattice.Report, keywords []string, documents int) Run {
	r.mu.Lock()
	now := r.now().UTC()
	id := ulid.MustNew(ulid.Timestamp(now), r.entropy).String()
	r.mu.Unlock()

	run := Run{
		ID:        id,
		CreatedAt: now,
		Keywords:  append([]string(nil), keywords...),
		Documents: documents,
		Lattice:   report.Lattice,
		Concepts:  make([]Concept, 0, len(report.Concepts)),
	}
	for _, n := range report.Concepts {
		c := Concept{
			Rank:       n.Rank,
			Name:       n.Name,
			Importance: n.Importance,
			Extent:     append([]string(nil), n.Concept.Extent...),
			Intent:     make([]string, len(n.Concept.Intent)),
			Terms:      make([]Term, len(n.Terms)),
		}
		for i, a := range n.Concept.Intent {
			c.Intent[i] = a.String()
		}
		for i, t := range n.Terms {
			c.Terms[i] = Term{Stem: t.Stem, Score: t.Score}
		}
		run.Concepts = append(run.Concepts, c)
	}
	return run
}
