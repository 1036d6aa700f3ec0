// Package postgres persists scoring runs so labels and information values
// can be compared across datasets and reruns.
package postgres

import (
	"context"
	"fmt"
	"time"

	"credscore/domain/binning"
	"credscore/domain/core"
	"credscore/domain/risk"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ScoringRun is one persisted execution of the scoring pipeline.
type ScoringRun struct {
	ID               core.ID   `db:"id"`
	Boundary         float64   `db:"boundary"`
	BoundaryQuantile float64   `db:"boundary_quantile"`
	CreatedAt        time.Time `db:"created_at"`
}

// Store writes scoring runs, per-customer labels and per-feature
// information values to PostgreSQL.
type Store struct {
	db *sqlx.DB
}

// Connect opens a PostgreSQL connection pool and verifies it.
func Connect(url string) (*Store, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing connection, mainly for tests.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS scoring_runs (
			id TEXT PRIMARY KEY,
			boundary DOUBLE PRECISION NOT NULL,
			boundary_quantile DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS customer_scores (
			run_id TEXT NOT NULL REFERENCES scoring_runs(id),
			customer_id TEXT NOT NULL,
			recency INTEGER NOT NULL,
			frequency INTEGER NOT NULL,
			monetary DOUBLE PRECISION NOT NULL,
			std_deviation DOUBLE PRECISION NOT NULL,
			rfms_score DOUBLE PRECISION NOT NULL,
			risk_label TEXT NOT NULL,
			PRIMARY KEY (run_id, customer_id)
		)`,
		`CREATE TABLE IF NOT EXISTS feature_information_values (
			run_id TEXT NOT NULL REFERENCES scoring_runs(id),
			feature TEXT NOT NULL,
			iv DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (run_id, feature)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// SaveRun inserts a run header and its labeled customer scores in one
// transaction.
func (s *Store) SaveRun(ctx context.Context, run ScoringRun, records []risk.LabeledRecord) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO scoring_runs (id, boundary, boundary_quantile, created_at)
		VALUES ($1, $2, $3, $4)
	`, run.ID, run.Boundary, run.BoundaryQuantile, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	for _, rec := range records {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO customer_scores (run_id, customer_id, recency, frequency, monetary, std_deviation, rfms_score, risk_label)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, run.ID, rec.CustomerID, rec.Recency, rec.Frequency, rec.Monetary, rec.StdDeviation, rec.RFMSScore, rec.RiskLabel)
		if err != nil {
			return fmt.Errorf("failed to insert score for customer %s: %w", rec.CustomerID, err)
		}
	}

	return tx.Commit()
}

// SaveInformationValues stores the per-feature IVs of a run.
func (s *Store) SaveInformationValues(ctx context.Context, runID core.ID, reports []binning.ColumnReport) error {
	for _, report := range reports {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO feature_information_values (run_id, feature, iv)
			VALUES ($1, $2, $3)
		`, runID, report.Column, report.IV)
		if err != nil {
			return fmt.Errorf("failed to insert IV for feature %s: %w", report.Column, err)
		}
	}
	return nil
}

// GetRun loads a run header by id.
func (s *Store) GetRun(ctx context.Context, id core.ID) (*ScoringRun, error) {
	var run ScoringRun
	err := s.db.GetContext(ctx, &run, `
		SELECT id, boundary, boundary_quantile, created_at
		FROM scoring_runs
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	return &run, nil
}

// ListRuns returns run headers, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]ScoringRun, error) {
	query := `
		SELECT id, boundary, boundary_quantile, created_at
		FROM scoring_runs
		ORDER BY created_at DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	var runs []ScoringRun
	if err := s.db.SelectContext(ctx, &runs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
