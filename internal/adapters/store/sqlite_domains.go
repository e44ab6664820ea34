package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteDomainStore is a SQLite implementation of the DomainStore interface.
type SQLiteDomainStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteDomainStore opens (or creates) a domain database. An empty database
// is seeded with the built-in known-company list.
func NewSQLiteDomainStore(dbPath string, logger *zap.Logger) (*SQLiteDomainStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS known_domains (
			domain TEXT PRIMARY KEY
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	s := &SQLiteDomainStore{db: db, logger: logger}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM known_domains`).Scan(&count); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to count known domains: %w", err)
	}
	if count == 0 {
		for _, d := range DefaultKnownDomains() {
			if _, err := db.Exec(`INSERT OR IGNORE INTO known_domains (domain) VALUES (?)`, d); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to seed domain %q: %w", d, err)
			}
		}
		logger.Info("Seeded domain database with built-in known-company list")
	}

	return s, nil
}

// IsKnownCompanyDomain reports whether the exact domain is in the known list.
func (s *SQLiteDomainStore) IsKnownCompanyDomain(ctx context.Context, domain string) (bool, error) {
	var found string
	err := s.db.QueryRowContext(ctx, `
		SELECT domain FROM known_domains WHERE domain = ?
	`, domain).Scan(&found)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to query known domains: %w", err)
	}
	return true, nil
}

// Add inserts a domain into the known list.
func (s *SQLiteDomainStore) Add(ctx context.Context, domain string) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO known_domains (domain) VALUES (?)
	`, domain); err != nil {
		return fmt.Errorf("failed to insert domain: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteDomainStore) Close() error {
	return s.db.Close()
}
