package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/lattice/pkg/lattice/internalerr"
	"github.com/cognicore/lattice/pkg/lattice/store"
)

func sampleRun(id string) store.Run {
	return store.Run{
		ID:        id,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC),
		Keywords:  []string{"VISUAL|VIS", "ANALYT"},
		Documents: 12,
		Lattice:   9,
		Concepts: []store.Concept{
			{
				Rank:       1,
				Name:       "C1 - VISUAL",
				Importance: 8,
				Extent:     []string{"a", "b", "c", "d"},
				Intent:     []string{"VISUAL|VIS", "cite:x"},
				Terms:      []store.Term{{Stem: "visual", Score: 3.5}, {Stem: "graph", Score: 1.25}},
			},
			{
				Rank:       2,
				Name:       "C2",
				Importance: 4,
				Extent:     []string{"e", "f", "g", "h"},
				Intent:     []string{"ANALYT"},
			},
		},
	}
}

// TestSQLiteIntegrationBasic tests saving and loading a run
func TestSQLiteIntegrationBasic(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()

	run := sampleRun("01J00000000000000000000001")
	if err := st.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := st.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}

	if !got.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, run.CreatedAt)
	}
	if got.Documents != 12 || got.Lattice != 9 {
		t.Errorf("counts = %d/%d", got.Documents, got.Lattice)
	}
	if len(got.Keywords) != 2 || got.Keywords[0] != "VISUAL|VIS" {
		t.Errorf("Keywords = %v", got.Keywords)
	}
	if len(got.Concepts) != 2 {
		t.Fatalf("Expected 2 concepts, got %d", len(got.Concepts))
	}
	c := got.Concepts[0]
	if c.Name != "C1 - VISUAL" || c.Importance != 8 || len(c.Extent) != 4 || c.Intent[1] != "cite:x" {
		t.Errorf("concept = %+v", c)
	}
	if len(c.Terms) != 2 || c.Terms[1].Score != 1.25 {
		t.Errorf("terms = %+v", c.Terms)
	}
	if len(got.Concepts[1].Terms) != 0 {
		t.Errorf("second concept terms = %v, want none", got.Concepts[1].Terms)
	}
}

// TestSQLiteIntegrationResave tests that saving again replaces concepts
func TestSQLiteIntegrationResave(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()

	run := sampleRun("01J00000000000000000000001")
	if err := st.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	run.Concepts = run.Concepts[:1]
	run.Lattice = 3
	if err := st.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun again: %v", err)
	}

	got, err := st.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if len(got.Concepts) != 1 || got.Lattice != 3 {
		t.Errorf("resave not applied: %d concepts, lattice %d", len(got.Concepts), got.Lattice)
	}
}

// TestSQLiteIntegrationList tests ordering and limits
func TestSQLiteIntegrationList(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()

	for _, id := range []string{"01A", "01C", "01B"} {
		if err := st.SaveRun(ctx, sampleRun(id)); err != nil {
			t.Fatalf("SaveRun %s: %v", id, err)
		}
	}

	runs, err := st.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "01C" || runs[1].ID != "01B" {
		t.Errorf("ListRuns order wrong: %v", runs)
	}
	if len(runs[0].Concepts) != 2 {
		t.Errorf("listed runs should include concepts")
	}

	all, err := st.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 runs, got %d", len(all))
	}
}

// TestSQLiteIntegrationNotFound tests missing runs
func TestSQLiteIntegrationNotFound(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()

	if _, err := st.GetRun(ctx, "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := st.SaveRun(ctx, store.Run{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

// TestSQLiteIntegrationReopen tests persistence across connections
func TestSQLiteIntegrationReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := st.SaveRun(ctx, sampleRun("01X")); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	st.Close()

	st, err = OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()

	if _, err := st.GetRun(ctx, "01X"); err != nil {
		t.Errorf("run should survive reopen: %v", err)
	}
}
