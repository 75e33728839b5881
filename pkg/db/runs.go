package db

import (
	"context"
	"fmt"
	"time"
)

// RoutineRun is a finished routine run.
type RoutineRun struct {
	ID         string
	ProfileID  int64
	Routine    string
	Status     string
	Steps      int
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// RunStore records routine run history.
type RunStore interface {
	Record(ctx context.Context, r *RoutineRun) error
	List(ctx context.Context, profileID int64, limit int) ([]*RoutineRun, error)
}

// Runs returns a RunStore for this database.
func (db *DB) Runs() RunStore {
	return &runStore{db: db}
}

type runStore struct {
	db *DB
}

// timeLayout keeps sub-second precision so runs sort correctly.
const timeLayout = "2006-01-02 15:04:05.000"

func (s *runStore) Record(ctx context.Context, r *RoutineRun) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO routine_runs (id, profile_id, routine, status, steps, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.ProfileID, r.Routine, r.Status, r.Steps, r.Error,
		r.StartedAt.UTC().Format(timeLayout), r.FinishedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to record routine run: %w", err)
	}
	return nil
}

// List returns the most recent runs first.
func (s *runStore) List(ctx context.Context, profileID int64, limit int) ([]*RoutineRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, profile_id, routine, status, steps, error, started_at, finished_at
		FROM routine_runs WHERE profile_id = ?
		ORDER BY started_at DESC LIMIT ?
	`, profileID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []*RoutineRun
	for rows.Next() {
		r := &RoutineRun{}
		var startedAt, finishedAt string
		if err := rows.Scan(&r.ID, &r.ProfileID, &r.Routine, &r.Status, &r.Steps, &r.Error, &startedAt, &finishedAt); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(timeLayout, startedAt)
		r.FinishedAt, _ = time.Parse(timeLayout, finishedAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
