package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// MySQLDomainStore is a MySQL implementation of the DomainStore interface,
// for deployments that share one curated domain list across filter instances.
type MySQLDomainStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLDomainStore connects to a MySQL domain database. An empty table is
// seeded with the built-in known-company list.
func NewMySQLDomainStore(dsn string, logger *zap.Logger) (*MySQLDomainStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS known_domains (
			domain VARCHAR(255) PRIMARY KEY,
			added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	s := &MySQLDomainStore{db: db, logger: logger}
	if err := s.seedIfEmpty(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *MySQLDomainStore) seedIfEmpty() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM known_domains`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count known domains: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, d := range DefaultKnownDomains() {
		if _, err := s.db.Exec(`INSERT IGNORE INTO known_domains (domain) VALUES (?)`, d); err != nil {
			return fmt.Errorf("failed to seed domain %q: %w", d, err)
		}
	}
	s.logger.Info("Seeded domain database with built-in known-company list")
	return nil
}

// IsKnownCompanyDomain reports whether the exact domain is in the known list.
func (s *MySQLDomainStore) IsKnownCompanyDomain(ctx context.Context, domain string) (bool, error) {
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
func (s *MySQLDomainStore) Add(ctx context.Context, domain string) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT IGNORE INTO known_domains (domain) VALUES (?)
	`, domain); err != nil {
		return fmt.Errorf("failed to insert domain: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *MySQLDomainStore) Close() error {
	return s.db.Close()
}
