package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/mikey/mailsift/internal/core"
)

// SQLiteResultStore persists classification verdicts and human corrections in
// SQLite. It implements both ResultSink and FeedbackSink.
type SQLiteResultStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteResultStore opens (or creates) a verdict database.
func NewSQLiteResultStore(dbPath string, logger *zap.Logger) (*SQLiteResultStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS verdicts (
			processing_id TEXT PRIMARY KEY,
			analyzed_at TIMESTAMP,
			sender TEXT,
			subject TEXT,
			category TEXT,
			action TEXT,
			confidence REAL,
			reasoning TEXT
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create verdicts table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS corrections (
			processing_id TEXT NOT NULL,
			corrected_at TIMESTAMP,
			corrected_category TEXT,
			note TEXT
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create corrections table: %w", err)
	}

	return &SQLiteResultStore{db: db, logger: logger}, nil
}

// Record stores one classification verdict.
func (s *SQLiteResultStore) Record(ctx context.Context, rec *core.VerdictRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO verdicts
			(processing_id, analyzed_at, sender, subject, category, action, confidence, reasoning)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ProcessingID, rec.Timestamp.Format(time.RFC3339), rec.Sender, rec.Subject,
		rec.Category, rec.Action, rec.Confidence, rec.Reasoning)
	if err != nil {
		return fmt.Errorf("failed to insert verdict: %w", err)
	}
	return nil
}

// RecordCorrection stores a human correction for an earlier verdict.
func (s *SQLiteResultStore) RecordCorrection(ctx context.Context, processingID string, corrected core.Category, note string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO corrections (processing_id, corrected_at, corrected_category, note)
		VALUES (?, ?, ?, ?)
	`, processingID, time.Now().Format(time.RFC3339), corrected.String(), note)
	if err != nil {
		return fmt.Errorf("failed to insert correction: %w", err)
	}
	s.logger.Info("Recorded verdict correction",
		zap.String("processing_id", processingID),
		zap.String("corrected_category", corrected.String()))
	return nil
}

// Close closes the underlying database.
func (s *SQLiteResultStore) Close() error {
	return s.db.Close()
}
