package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/mikey/mailsift/internal/core"
)

// SQLiteTermStore is a SQLite implementation of the TermStore interface. The
// category priority order lives in the categories table so that curated
// databases can reorder without code changes.
type SQLiteTermStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteTermStore opens (or creates) a term database. An empty database is
// seeded with the built-in term lists.
func NewSQLiteTermStore(dbPath string, logger *zap.Logger) (*SQLiteTermStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS categories (
			name TEXT PRIMARY KEY,
			priority INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create categories table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS filter_terms (
			term TEXT NOT NULL,
			category TEXT NOT NULL,
			confidence REAL NOT NULL,
			PRIMARY KEY (term, category)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create filter_terms table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_terms_category ON filter_terms(category)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	s := &SQLiteTermStore{db: db, logger: logger}
	if err := s.seedIfEmpty(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteTermStore) seedIfEmpty() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	terms := DefaultTerms()
	for i, name := range DefaultCategoryOrder() {
		if _, err := tx.Exec(`INSERT INTO categories (name, priority) VALUES (?, ?)`, name, i); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", name, err)
		}
		for _, t := range terms[name] {
			if _, err := tx.Exec(`
				INSERT INTO filter_terms (term, category, confidence) VALUES (?, ?, ?)
			`, t.Text, name, t.Confidence); err != nil {
				return fmt.Errorf("failed to seed term %q: %w", t.Text, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	s.logger.Info("Seeded term database with built-in term lists",
		zap.String("db_path", "sqlite"),
		zap.Int("categories", len(terms)))
	return nil
}

// Categories returns the category names in stored priority order.
func (s *SQLiteTermStore) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY priority`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Terms returns the weighted terms for one category.
func (s *SQLiteTermStore) Terms(ctx context.Context, category string) ([]core.Term, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT term, confidence FROM filter_terms WHERE category = ? ORDER BY rowid
	`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query terms for %q: %w", category, err)
	}
	defer rows.Close()

	var terms []core.Term
	for rows.Next() {
		var t core.Term
		if err := rows.Scan(&t.Text, &t.Confidence); err != nil {
			return nil, fmt.Errorf("failed to scan term: %w", err)
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteTermStore) Close() error {
	return s.db.Close()
}
