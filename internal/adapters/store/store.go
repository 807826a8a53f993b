// Package store persists pipeline runs to SQLite and writes the
// classification report consumed by downstream tooling.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/stint/internal/domain/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			season INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			competitors INTEGER NOT NULL,
			seed_count INTEGER NOT NULL,
			predicted_count INTEGER NOT NULL,
			events_processed INTEGER NOT NULL,
			events_skipped INTEGER NOT NULL,
			training_accuracy REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS labeled_results (
			run_id TEXT NOT NULL,
			code TEXT NOT NULL,
			category TEXT NOT NULL,
			confidence REAL NOT NULL,
			seed INTEGER NOT NULL,
			risk_score REAL NOT NULL,
			points_delta REAL NOT NULL,
			qualifying_delta REAL NOT NULL,
			race_pace_delta REAL NOT NULL,
			position_delta REAL NOT NULL,
			consistency REAL NOT NULL,
			position_change REAL NOT NULL,
			tyre_wear_slope REAL NOT NULL,
			events INTEGER NOT NULL,
			PRIMARY KEY (run_id, code)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_season ON runs(season);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a run summary and its per-competitor rows.
func (s *Store) InsertRun(ctx context.Context, summary model.Summary, results []model.LabeledResult) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, season, created_at, competitors, seed_count, predicted_count, events_processed, events_skipped, training_accuracy)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID,
		summary.Season,
		time.Now().UTC().Format(time.RFC3339Nano),
		summary.Competitors,
		summary.SeedCount,
		summary.PredictedCount,
		summary.EventsProcessed,
		summary.EventsSkipped,
		summary.TrainingAccuracy,
	)
	if err != nil {
		return err
	}

	if len(results) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO labeled_results (run_id, code, category, confidence, seed, risk_score, points_delta, qualifying_delta, race_pace_delta, position_delta, consistency, position_change, tyre_wear_slope, events)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, r := range results {
			p := r.Profile
			if _, err := stmt.ExecContext(ctx,
				summary.RunID, r.Code, r.Category, r.Confidence, r.Seed,
				p.RiskScore, p.PointsDelta, p.QualifyingDelta, p.RacePaceDelta,
				p.PositionDelta, p.Consistency, p.PositionChange, p.TyreWearSlope,
				p.Events,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// ResultsForRun reloads the per-competitor rows of a stored run, ordered
// by competitor code.
func (s *Store) ResultsForRun(ctx context.Context, runID string) ([]model.LabeledResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, category, confidence, seed, risk_score, points_delta, qualifying_delta, race_pace_delta, position_delta, consistency, position_change, tyre_wear_slope, events
		 FROM labeled_results
		 WHERE run_id = ?
		 ORDER BY code ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var results []model.LabeledResult
	for rows.Next() {
		var r model.LabeledResult
		if err := rows.Scan(
			&r.Code, &r.Category, &r.Confidence, &r.Seed,
			&r.Profile.RiskScore, &r.Profile.PointsDelta, &r.Profile.QualifyingDelta, &r.Profile.RacePaceDelta,
			&r.Profile.PositionDelta, &r.Profile.Consistency, &r.Profile.PositionChange, &r.Profile.TyreWearSlope,
			&r.Profile.Events,
		); err != nil {
			return nil, err
		}
		r.Profile.Code = r.Code
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// LatestRun returns the most recent run summary for a season, or false
// when the season has no stored runs.
func (s *Store) LatestRun(ctx context.Context, season int) (model.Summary, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, season, competitors, seed_count, predicted_count, events_processed, events_skipped, training_accuracy
		 FROM runs
		 WHERE season = ?
		 ORDER BY created_at DESC
		 LIMIT 1`, season)

	var summary model.Summary
	err := row.Scan(
		&summary.RunID, &summary.Season, &summary.Competitors, &summary.SeedCount,
		&summary.PredictedCount, &summary.EventsProcessed, &summary.EventsSkipped,
		&summary.TrainingAccuracy,
	)
	if err == sql.ErrNoRows {
		return model.Summary{}, false, nil
	}
	if err != nil {
		return model.Summary{}, false, err
	}
	return summary, true, nil
}
