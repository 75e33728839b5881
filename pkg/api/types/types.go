package types

import (
	"time"

	"github.com/urmzd/relayctl/pkg/device"
	"github.com/urmzd/relayctl/pkg/routine"
)

// --- Request DTOs ---

// WriteStateRequest is the request body for PUT /relays. Exactly one field is set.
type WriteStateRequest struct {
	Binary   string `json:"binary,omitempty" example:"11110000111100001111000011110000"`
	Hex      string `json:"hex,omitempty" example:"f0f0f0f0"`
	Channels []bool `json:"channels,omitempty"`
}

// SetChannelRequest is the request body for PUT /relays/:channel
type SetChannelRequest struct {
	On bool `json:"on"`
}

// PanelInputRequest is the request body for POST /panel/input
type PanelInputRequest struct {
	Input string `json:"input" binding:"required"`
}

// --- Response DTOs ---

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status     string    `json:"status"`
	Controller string    `json:"controller"`
	Routine    string    `json:"routine"`
	Timestamp  time.Time `json:"timestamp"`
}

// StateResponse is returned from the /relays endpoints
type StateResponse struct {
	Binary    string    `json:"binary"`
	Hex       string    `json:"hex"`
	Channels  []bool    `json:"channels"`
	Timestamp time.Time `json:"timestamp"`
}

// PanelResponse is returned from GET /panel
type PanelResponse struct {
	State   StateResponse `json:"state"`
	Status  string        `json:"status"`
	Input   string        `json:"input"`
	Command string        `json:"command"`
	Routine *RunResponse  `json:"routine,omitempty"`
}

// RoutineInfo describes a registered routine
type RoutineInfo struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Cycles      int           `json:"cycles"`
	Steps       []RoutineStep `json:"steps"`
}

// RoutineStep is one step of a routine
type RoutineStep struct {
	Label string `json:"label"`
	Hex   string `json:"hex"`
	Hold  int    `json:"hold_units"`
}

// ListRoutinesResponse is returned from GET /routines
type ListRoutinesResponse struct {
	Routines   []RoutineInfo `json:"routines"`
	Count      int           `json:"count"`
	UnitMillis int64         `json:"unit_ms"`
	Current    *RunResponse  `json:"current,omitempty"`
}

// RunResponse describes a routine run
type RunResponse struct {
	ID         string     `json:"id"`
	Routine    string     `json:"routine"`
	Status     string     `json:"status"`
	Steps      int        `json:"steps"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// ListRunsResponse is returned from GET /runs
type ListRunsResponse struct {
	Runs  []RunResponse `json:"runs"`
	Count int           `json:"count"`
}

// --- Conversions ---

// FromSnapshot converts a device snapshot
func FromSnapshot(s device.Snapshot) StateResponse {
	return StateResponse{
		Binary:    s.Binary,
		Hex:       s.Hex,
		Channels:  s.Channels,
		Timestamp: s.Timestamp,
	}
}

// FromRun converts a routine run
func FromRun(r routine.Run) RunResponse {
	resp := RunResponse{
		ID:        r.ID,
		Routine:   r.Routine,
		Status:    string(r.Status),
		Steps:     r.Steps,
		Error:     r.Error,
		StartedAt: r.StartedAt,
	}
	if !r.FinishedAt.IsZero() {
		finished := r.FinishedAt
		resp.FinishedAt = &finished
	}
	return resp
}

// FromDefinition converts a routine definition
func FromDefinition(d routine.Definition) RoutineInfo {
	info := RoutineInfo{
		Name:        d.Name,
		Description: d.Description,
		Cycles:      d.Cycles,
	}
	for _, s := range d.Steps {
		info.Steps = append(info.Steps, RoutineStep{Label: s.Label, Hex: s.Pattern.Hex(), Hold: s.Hold})
	}
	return info
}
