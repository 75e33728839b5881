package mcp

import (
	"github.com/urmzd/relayctl/pkg/device"
	"github.com/urmzd/relayctl/pkg/routine"
)

// --- Health Tool ---

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status     string `json:"status" jsonschema:"description=Overall health status (healthy or unhealthy)"`
	Controller string `json:"controller" jsonschema:"description=Relay board connection status"`
	Routine    string `json:"routine" jsonschema:"description=Routine scheduler status (idle or running)"`
	Timestamp  string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// --- Relay Tools ---

// RelayState is the relay state in tool outputs
type RelayState struct {
	Binary   string `json:"binary" jsonschema:"description=32 characters of 0/1 with channel 0 first"`
	Hex      string `json:"hex" jsonschema:"description=8 lowercase hex digits"`
	Channels []int  `json:"on_channels" jsonschema:"description=Indices of the channels that are on"`
}

// RelayStateOutput is the output for read_relays, write_relays, set_channel, all_on and all_off
type RelayStateOutput struct {
	State   RelayState `json:"state" jsonschema:"description=Relay state after the operation"`
	Message string     `json:"message,omitempty" jsonschema:"description=Human readable summary"`
}

// --- Panel Tool ---

// GetPanelOutput is the output for the get_panel tool
type GetPanelOutput struct {
	State   RelayState `json:"state" jsonschema:"description=Relay state shown on the panel"`
	Status  string     `json:"status" jsonschema:"description=Panel status line"`
	Input   string     `json:"input" jsonschema:"description=Panel manual input field"`
	Command string     `json:"command,omitempty" jsonschema:"description=Label of the last routine pattern"`
	Routine *RunInfo   `json:"routine,omitempty" jsonschema:"description=Running routine"`
}

// --- Routine Tools ---

// RoutineInfo describes a routine in tool outputs
type RoutineInfo struct {
	Name        string `json:"name" jsonschema:"description=Routine name"`
	Description string `json:"description,omitempty" jsonschema:"description=What the routine does"`
	Cycles      int    `json:"cycles" jsonschema:"description=Number of times the steps repeat"`
	Units       int    `json:"units" jsonschema:"description=Total duration in time units"`
}

// ListRoutinesOutput is the output for the list_routines tool
type ListRoutinesOutput struct {
	Routines   []RoutineInfo `json:"routines" jsonschema:"description=Registered routines"`
	Count      int           `json:"count" jsonschema:"description=Number of routines"`
	UnitMillis int64         `json:"unit_ms" jsonschema:"description=Length of one time unit in milliseconds"`
}

// RunInfo describes a routine run in tool outputs
type RunInfo struct {
	ID      string `json:"id" jsonschema:"description=Run ID"`
	Routine string `json:"routine" jsonschema:"description=Routine name"`
	Status  string `json:"status" jsonschema:"description=Run status"`
	Steps   int    `json:"steps" jsonschema:"description=Patterns applied so far"`
	Error   string `json:"error,omitempty" jsonschema:"description=Failure reason"`
}

// RunOutput is the output for start_routine and cancel_routine
type RunOutput struct {
	Run     RunInfo `json:"run" jsonschema:"description=Routine run"`
	Message string  `json:"message" jsonschema:"description=Human readable summary"`
}

// SnapshotToState converts a device snapshot
func SnapshotToState(s device.Snapshot) RelayState {
	on := make([]int, 0, len(s.Channels))
	for i, c := range s.Channels {
		if c {
			on = append(on, i)
		}
	}
	return RelayState{Binary: s.Binary, Hex: s.Hex, Channels: on}
}

// RunToInfo converts a routine run
func RunToInfo(r routine.Run) RunInfo {
	return RunInfo{
		ID:      r.ID,
		Routine: r.Routine,
		Status:  string(r.Status),
		Steps:   r.Steps,
		Error:   r.Error,
	}
}
