// Package sqlstore is an embedded SQLite store with the same tables as the PostgreSQL
// store, for local runs and demos.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS companies (
	job_id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	company_name            TEXT NOT NULL,
	job_role                TEXT,
	job_type                TEXT,
	stipend                 TEXT,
	location                TEXT,
	skills_required         TEXT,
	education_qualification TEXT,
	description             TEXT
);

CREATE TABLE IF NOT EXISTS candidates (
	candidate_id     INTEGER PRIMARY KEY AUTOINCREMENT,
	fullname         TEXT NOT NULL,
	email            TEXT NOT NULL UNIQUE,
	location         TEXT,
	status           TEXT NOT NULL DEFAULT 'pending',
	years_experience INTEGER,
	experience_text  TEXT
);

CREATE TABLE IF NOT EXISTS education (
	education_id    INTEGER PRIMARY KEY AUTOINCREMENT,
	candidate_id    INTEGER NOT NULL REFERENCES candidates(candidate_id) ON DELETE CASCADE,
	degree          TEXT,
	institution     TEXT,
	graduation_year INTEGER,
	gpa             REAL
);

CREATE TABLE IF NOT EXISTS skills (
	skill_id          INTEGER PRIMARY KEY AUTOINCREMENT,
	candidate_id      INTEGER NOT NULL REFERENCES candidates(candidate_id) ON DELETE CASCADE,
	skill_name        TEXT,
	skill_category    TEXT,
	proficiency_level TEXT
);

CREATE TABLE IF NOT EXISTS appliedcandidates (
	application_id      INTEGER PRIMARY KEY AUTOINCREMENT,
	candidate_id        INTEGER NOT NULL REFERENCES candidates(candidate_id) ON DELETE CASCADE,
	job_id              INTEGER NOT NULL REFERENCES companies(job_id) ON DELETE CASCADE,
	applied_at          TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	shortlisted         INTEGER NOT NULL DEFAULT 0,
	compatibility_score REAL,
	UNIQUE (candidate_id, job_id)
);`

// Store is a SQLite-backed job and applicant store
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; also keeps one in-memory database

	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database handle without touching the schema
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the tables when they do not exist
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
