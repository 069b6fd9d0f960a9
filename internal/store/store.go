// Package store handles SQLite persistence of the result log.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/symdigit/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// LogKey identifies the result log. Every row is stored under it.
const LogKey = "sdmt_results"

// timeLayout is fixed width so stored timestamps sort and compare as text.
// Values are always written in UTC.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for result records.
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
		`CREATE TABLE IF NOT EXISTS results (
			seq INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			log_key TEXT NOT NULL,
			name TEXT NOT NULL,
			company TEXT NOT NULL,
			score INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			duration_seconds INTEGER NOT NULL,
			total INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			best_streak INTEGER NOT NULL,
			variant TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_ended_at ON results(log_key, ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Append adds a record to the end of the log. Records without an ID get one.
func (s *Store) Append(ctx context.Context, rec model.ResultRecord) (model.ResultRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (id, log_key, name, company, score, accuracy, duration_seconds, total, correct, best_streak, variant, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		LogKey,
		rec.Name,
		rec.Company,
		rec.Score,
		rec.Accuracy,
		rec.DurationSeconds,
		rec.Total,
		rec.Correct,
		rec.BestStreak,
		rec.Variant,
		formatTime(rec.StartedAt),
		formatTime(rec.EndedAt),
	)
	if err != nil {
		return model.ResultRecord{}, err
	}
	return rec, nil
}

// List returns records in append order, filtered by the given filter.
func (s *Store) List(ctx context.Context, f model.ResultFilter) ([]model.ResultRecord, error) {
	clauses := []string{"log_key = ?"}
	args := []any{LogKey}
	if f.Name != "" {
		clauses = append(clauses, "name LIKE ?")
		args = append(args, "%"+f.Name+"%")
	}
	if f.Company != "" {
		clauses = append(clauses, "company LIKE ?")
		args = append(args, "%"+f.Company+"%")
	}
	if f.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, formatTime(*f.Since))
	}
	query := fmt.Sprintf(`SELECT id, name, company, score, accuracy, duration_seconds, total, correct, best_streak, variant, started_at, ended_at
		FROM results
		WHERE %s
		ORDER BY seq ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.ResultRecord
	for rows.Next() {
		var rec model.ResultRecord
		var startedAt, endedAt string
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Company, &rec.Score, &rec.Accuracy, &rec.DurationSeconds,
			&rec.Total, &rec.Correct, &rec.BestStreak, &rec.Variant, &startedAt, &endedAt); err != nil {
			return nil, err
		}
		// RFC3339Nano parsing also accepts rows written before the fixed-width layout.
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if f.Last > 0 && len(records) > f.Last {
		records = records[len(records)-f.Last:]
	}
	return records, nil
}

// Count returns the number of records in the log.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results WHERE log_key = ?`, LogKey).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
