// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists extracted records in a SQLite index so processed
// papers can be searched across runs. The CSV result file remains the
// canonical output; the index is a query convenience on the side.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-tabulator/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "papers.db"
)

// Store manages the record index database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the index database at OutputDir/index/papers.db,
// creating the schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.OutputDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
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
		`CREATE TABLE IF NOT EXISTS papers (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT,
			authors TEXT,
			abstract TEXT,
			language TEXT,
			publisher TEXT,
			journal TEXT,
			year TEXT,
			doi TEXT,
			body TEXT,
			reference_count INTEGER,
			reference_list TEXT,
			pages INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_year ON papers(year)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='papers_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE papers_fts USING fts5(title, abstract, body, content=papers, content_rowid=rowid)`,
			`CREATE TRIGGER papers_ai AFTER INSERT ON papers BEGIN
				INSERT INTO papers_fts(rowid, title, abstract, body) VALUES (new.rowid, new.title, new.abstract, new.body);
			END`,
			`CREATE TRIGGER papers_ad AFTER DELETE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, abstract, body) VALUES('delete', old.rowid, old.title, old.abstract, old.body);
			END`,
			`CREATE TRIGGER papers_au AFTER UPDATE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, abstract, body) VALUES('delete', old.rowid, old.title, old.abstract, old.body);
				INSERT INTO papers_fts(rowid, title, abstract, body) VALUES (new.rowid, new.title, new.abstract, new.body);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Put inserts or replaces the record for one paper, keyed by record ID.
func (s *Store) Put(ctx context.Context, rec types.Record) error {
	authors, err := json.Marshal(rec.Authors)
	if err != nil {
		return fmt.Errorf("marshaling authors for %s: %w", rec.ID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO papers
			(id, title, authors, abstract, language, publisher, journal, year, doi, body, reference_count, reference_list, pages)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			authors = excluded.authors,
			abstract = excluded.abstract,
			language = excluded.language,
			publisher = excluded.publisher,
			journal = excluded.journal,
			year = excluded.year,
			doi = excluded.doi,
			body = excluded.body,
			reference_count = excluded.reference_count,
			reference_list = excluded.reference_list,
			pages = excluded.pages`,
		rec.ID, rec.Title, string(authors), rec.Abstract, rec.Language,
		rec.Publisher, rec.Journal, rec.Year, rec.DOI, rec.Text,
		rec.ReferenceCount, rec.References, rec.Pages,
	)
	if err != nil {
		return fmt.Errorf("storing record %s: %w", rec.ID, err)
	}
	return nil
}

// PutAll stores every record, stopping at the first failure.
func (s *Store) PutAll(ctx context.Context, records []types.Record) error {
	for _, rec := range records {
		if err := s.Put(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// Search queries the index. A non-empty query runs an FTS5 match over
// title, abstract, and body, ranked by relevance; an empty query lists
// the most recently stored records. maxResults of zero uses the store
// default.
func (s *Store) Search(ctx context.Context, query string, maxResults int) ([]types.Record, error) {
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		rows *sql.Rows
		err  error
	)
	const columns = `p.id, p.title, p.authors, p.abstract, p.language, p.publisher,
		p.journal, p.year, p.doi, p.body, p.reference_count, p.reference_list, p.pages`

	if strings.TrimSpace(query) != "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+columns+`
			FROM papers_fts
			JOIN papers p ON p.rowid = papers_fts.rowid
			WHERE papers_fts MATCH ?
			ORDER BY papers_fts.rank
			LIMIT ?`, query, maxResults)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+columns+`
			FROM papers p
			ORDER BY p.rowid DESC
			LIMIT ?`, maxResults)
	}
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var records []types.Record
	for rows.Next() {
		var rec types.Record
		var authors string
		if err := rows.Scan(
			&rec.ID, &rec.Title, &authors, &rec.Abstract, &rec.Language,
			&rec.Publisher, &rec.Journal, &rec.Year, &rec.DOI, &rec.Text,
			&rec.ReferenceCount, &rec.References, &rec.Pages,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if authors != "" {
			if err := json.Unmarshal([]byte(authors), &rec.Authors); err != nil {
				return nil, fmt.Errorf("decoding authors for %s: %w", rec.ID, err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return records, nil
}
