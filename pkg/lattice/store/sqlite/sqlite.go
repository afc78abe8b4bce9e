package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/lattice/pkg/lattice/internalerr"
	"github.com/cognicore/lattice/pkg/lattice/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	keywords TEXT NOT NULL,
	documents INTEGER NOT NULL,
	lattice INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS run_concepts (
	run_id TEXT NOT NULL,
	ordinal INTEGER NOT NULL,
	name TEXT NOT NULL,
	importance INTEGER NOT NULL,
	extent TEXT NOT NULL,
	intent TEXT NOT NULL,
	terms TEXT NOT NULL,
	PRIMARY KEY(run_id, ordinal),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or replaces a run and its concepts
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("%w: run id is required", internalerr.ErrInvalidInput)
	}

	keywords, err := json.Marshal(nonNil(r.Keywords))
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const upsert = `
INSERT INTO runs (id, created_at, keywords, documents, lattice)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	created_at=excluded.created_at,
	keywords=excluded.keywords,
	documents=excluded.documents,
	lattice=excluded.lattice;
`
	if _, err := tx.ExecContext(ctx, upsert,
		r.ID,
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
		string(keywords),
		r.Documents,
		r.Lattice,
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_concepts WHERE run_id = ?`, r.ID); err != nil {
		return err
	}

	for _, c := range r.Concepts {
		extent, err := json.Marshal(nonNil(c.Extent))
		if err != nil {
			return err
		}
		intent, err := json.Marshal(nonNil(c.Intent))
		if err != nil {
			return err
		}
		terms, err := json.Marshal(c.Terms)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_concepts (run_id, ordinal, name, importance, extent, intent, terms) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, c.Rank, c.Name, c.Importance, string(extent), string(intent), string(terms),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetRun returns a run by ID
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, keywords, documents, lattice FROM runs WHERE id = ?`, id)

	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, err
	}

	r.Concepts, err = s.loadConcepts(ctx, id)
	if err != nil {
		return store.Run{}, err
	}
	return r, nil
}

// ListRuns returns up to limit runs, newest first. A non-positive limit
// returns every run.
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, keywords, documents, lattice FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}

	var runs []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range runs {
		concepts, err := s.loadConcepts(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Concepts = concepts
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (store.Run, error) {
	var (
		r         store.Run
		createdAt string
		keywords  string
	)
	if err := sc.Scan(&r.ID, &createdAt, &keywords, &r.Documents, &r.Lattice); err != nil {
		return store.Run{}, err
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return store.Run{}, fmt.Errorf("parse created_at: %w", err)
	}
	r.CreatedAt = t

	if err := json.Unmarshal([]byte(keywords), &r.Keywords); err != nil {
		return store.Run{}, fmt.Errorf("decode keywords: %w", err)
	}
	return r, nil
}

func (s *sqliteStore) loadConcepts(ctx context.Context, runID string) ([]store.Concept, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ordinal, name, importance, extent, intent, terms FROM run_concepts WHERE run_id = ? ORDER BY ordinal`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var concepts []store.Concept
	for rows.Next() {
		var (
			c                     store.Concept
			extent, intent, terms string
		)
		if err := rows.Scan(&c.Rank, &c.Name, &c.Importance, &extent, &intent, &terms); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(extent), &c.Extent); err != nil {
			return nil, fmt.Errorf("decode extent: %w", err)
		}
		if err := json.Unmarshal([]byte(intent), &c.Intent); err != nil {
			return nil, fmt.Errorf("decode intent: %w", err)
		}
		if err := json.Unmarshal([]byte(terms), &c.Terms); err != nil {
			return nil, fmt.Errorf("decode terms: %w", err)
		}
		concepts = append(concepts, c)
	}
	return concepts, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
