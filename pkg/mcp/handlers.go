package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/urmzd/relayctl/pkg/device/schema"
	"github.com/urmzd/relayctl/pkg/relay"
)

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	controllerStatus := "disconnected"
	if s.panel.Board().IsConnected() {
		controllerStatus = "connected"
	}

	routineStatus := "idle"
	if s.panel.Scheduler().Running() {
		routineStatus = "running"
	}

	status := "healthy"
	if controllerStatus != "connected" {
		status = "unhealthy"
	}

	out := GetHealthOutput{
		Status:     status,
		Controller: controllerStatus,
		Routine:    routineStatus,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleReadRelays(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.panel.ReadBoard(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read relays: %s", err)), nil
	}

	out := RelayStateOutput{State: SnapshotToState(snap)}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleWriteRelays(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	payload := map[string]any{}
	for _, key := range []string{"binary", "hex", "channels"} {
		if v, ok := args[key]; ok && v != nil {
			payload[key] = v
		}
	}

	if s.validator != nil {
		if err := s.validator.Validate(schema.WriteState, payload); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("validation error: %s", err)), nil
		}
	}

	state, err := stateFromArgs(payload)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap, err := s.panel.SetState(ctx, state)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to write relays: %s", err)), nil
	}

	out := RelayStateOutput{
		State:   SnapshotToState(snap),
		Message: fmt.Sprintf("relay writeall %s sent", snap.Hex),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleSetChannel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	chRaw, ok := args["channel"].(float64)
	if !ok || chRaw != float64(int(chRaw)) || chRaw < 0 || chRaw >= relay.Channels {
		return mcp.NewToolResultError("parameter \"channel\" must be an integer from 0 to 31"), nil
	}
	on, ok := args["on"].(bool)
	if !ok {
		return mcp.NewToolResultError("parameter \"on\" must be a boolean"), nil
	}

	snap, err := s.panel.SetChannel(ctx, int(chRaw), on)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set channel: %s", err)), nil
	}

	word := "off"
	if on {
		word = "on"
	}
	out := RelayStateOutput{
		State:   SnapshotToState(snap),
		Message: fmt.Sprintf("Channel %d switched %s", int(chRaw), word),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleAllOn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.panel.AllOn(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to switch relays on: %s", err)), nil
	}

	out := RelayStateOutput{State: SnapshotToState(snap), Message: "All relays on"}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleAllOff(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.panel.AllOff(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to switch relays off: %s", err)), nil
	}

	out := RelayStateOutput{State: SnapshotToState(snap), Message: "All relays off"}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetPanel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v := s.panel.View()

	out := GetPanelOutput{
		State:   SnapshotToState(v.Snapshot),
		Status:  v.Status,
		Input:   v.Input,
		Command: v.Command,
	}
	if v.Routine != nil {
		info := RunToInfo(*v.Routine)
		out.Routine = &info
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListRoutines(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sched := s.panel.Scheduler()
	defs := sched.Definitions()

	infos := make([]RoutineInfo, 0, len(defs))
	for _, d := range defs {
		infos = append(infos, RoutineInfo{
			Name:        d.Name,
			Description: d.Description,
			Cycles:      d.Cycles,
			Units:       d.Units(),
		})
	}

	out := ListRoutinesOutput{
		Routines:   infos,
		Count:      len(infos),
		UnitMillis: sched.Unit().Milliseconds(),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleStartRoutine(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requiredString(request, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	run, err := s.panel.StartRoutine(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start routine: %s", err)), nil
	}

	out := RunOutput{
		Run:     RunToInfo(run),
		Message: fmt.Sprintf("Routine %q started", name),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleCancelRoutine(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := request.GetArguments()["id"].(string)

	run, err := s.panel.CancelRoutine(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to cancel routine: %s", err)), nil
	}

	out := RunOutput{
		Run:     RunToInfo(run),
		Message: fmt.Sprintf("Routine %q cancelling", run.Routine),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// --- helpers ---

// stateFromArgs decodes a validated write_relays payload.
func stateFromArgs(args map[string]any) (relay.State, error) {
	if v, ok := args["binary"].(string); ok {
		return relay.DecodeBinary(v)
	}
	if v, ok := args["hex"].(string); ok {
		return relay.FromHex(v)
	}
	raw, ok := args["channels"].([]any)
	if !ok {
		return relay.State{}, fmt.Errorf("%w: one of binary, hex or channels is required", relay.ErrFormat)
	}
	channels := make([]bool, len(raw))
	for i, v := range raw {
		b, ok := v.(bool)
		if !ok {
			return relay.State{}, fmt.Errorf("%w: channel %d is not a boolean", relay.ErrFormat, i)
		}
		channels[i] = b
	}
	return relay.FromChannels(channels)
}

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
