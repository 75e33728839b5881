package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/relayctl/pkg/db"
	"github.com/urmzd/relayctl/pkg/routine"
)

// RunHistory stores finished runs for one profile.
type RunHistory struct {
	store     db.RunStore
	profileID int64
}

// NewRunHistory creates a RunHistory backed by store.
func NewRunHistory(store db.RunStore, profileID int64) *RunHistory {
	return &RunHistory{store: store, profileID: profileID}
}

// Record saves a finished run. Its signature matches routine.Scheduler.OnFinish.
func (h *RunHistory) Record(run routine.Run) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := h.store.Record(ctx, &db.RoutineRun{
		ID:         run.ID,
		ProfileID:  h.profileID,
		Routine:    run.Routine,
		Status:     string(run.Status),
		Steps:      run.Steps,
		Error:      run.Error,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	})
	if err != nil {
		log.Error().Err(err).Str("run", run.ID).Msg("Failed to record routine run")
	}
}

// Recent returns up to limit finished runs, newest first.
func (h *RunHistory) Recent(ctx context.Context, limit int) ([]routine.Run, error) {
	rows, err := h.store.List(ctx, h.profileID, limit)
	if err != nil {
		return nil, err
	}

	runs := make([]routine.Run, 0, len(rows))
	for _, r := range rows {
		runs = append(runs, routine.Run{
			ID:         r.ID,
			Routine:    r.Routine,
			Status:     routine.Status(r.Status),
			Steps:      r.Steps,
			Error:      r.Error,
			StartedAt:  r.StartedAt,
			FinishedAt: r.FinishedAt,
		})
	}
	return runs, nil
}
