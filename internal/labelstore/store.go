// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package labelstore persists per-document label tables in SQLite so
// multi-document builds can look up targets across files.
package labelstore

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/alexstoick/pandoc-xnos/pkg/refs"
	"github.com/alexstoick/pandoc-xnos/pkg/types"
)

const dbFile = "labels.db"

// Store manages the label index SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the label index at cfg.IndexDir/labels.db, creating
// the schema if needed.
func Open(cfg types.IndexConfig) (*Store, error) {
	dir := cfg.IndexDir
	if dir == "" {
		dir = "index"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			source_path TEXT,
			indexed_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS labels (
			doc_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			label TEXT NOT NULL,
			kind TEXT,
			ordinal INTEGER NOT NULL,
			PRIMARY KEY (doc_id, label)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_labels_label ON labels(label)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Put replaces the labels stored for one document and kind. kind is the
// element class prefix ("fig:"); pass an empty string when the table mixes
// kinds.
func (s *Store) Put(ctx context.Context, docID, sourcePath, kind string, table *refs.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (id, source_path, indexed_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET source_path=excluded.source_path, indexed_at=excluded.indexed_at`,
		docID, sourcePath, now); err != nil {
		return fmt.Errorf("upserting document %s: %w", docID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM labels WHERE doc_id = ? AND kind = ?`, docID, kind); err != nil {
		return fmt.Errorf("clearing labels for %s: %w", docID, err)
	}

	for _, label := range table.Labels() {
		ordinal, _ := table.Ordinal(label)
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO labels (doc_id, label, kind, ordinal) VALUES (?, ?, ?, ?)`,
			docID, label, kind, ordinal); err != nil {
			return fmt.Errorf("inserting label %s: %w", label, err)
		}
	}

	return tx.Commit()
}

// Occurrence is one indexed label.
type Occurrence struct {
	DocID   string `json:"doc_id" yaml:"doc_id"`
	Label   string `json:"label" yaml:"label"`
	Kind    string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Ordinal int    `json:"ordinal" yaml:"ordinal"`
}

// Lookup returns every document defining label.
func (s *Store) Lookup(ctx context.Context, label string) ([]Occurrence, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc_id, label, kind, ordinal FROM labels WHERE label = ? ORDER BY doc_id`, label)
	if err != nil {
		return nil, fmt.Errorf("querying label %s: %w", label, err)
	}
	defer rows.Close()
	return scanOccurrences(rows)
}

// Document returns the labels stored for docID in ordinal order.
func (s *Store) Document(ctx context.Context, docID string) ([]Occurrence, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc_id, label, kind, ordinal FROM labels WHERE doc_id = ? ORDER BY kind, ordinal`, docID)
	if err != nil {
		return nil, fmt.Errorf("querying document %s: %w", docID, err)
	}
	defer rows.Close()
	return scanOccurrences(rows)
}

func scanOccurrences(rows *sql.Rows) ([]Occurrence, error) {
	var out []Occurrence
	for rows.Next() {
		var o Occurrence
		if err := rows.Scan(&o.DocID, &o.Label, &o.Kind, &o.Ordinal); err != nil {
			return nil, fmt.Errorf("scanning label row: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ExportYAML writes the whole index to w as YAML, grouped by document.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc_id, label, kind, ordinal FROM labels ORDER BY doc_id, kind, ordinal`)
	if err != nil {
		return fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	occurrences, err := scanOccurrences(rows)
	if err != nil {
		return err
	}

	grouped := make(map[string][]Occurrence)
	for _, o := range occurrences {
		grouped[o.DocID] = append(grouped[o.DocID], o)
	}

	data, err := yaml.Marshal(grouped)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}
