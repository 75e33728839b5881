package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/relayctl/pkg/api/types"
	"github.com/urmzd/relayctl/pkg/panel"
	"github.com/urmzd/relayctl/pkg/routine"
)

// RunHistory lists finished routine runs, newest first.
type RunHistory interface {
	Recent(ctx context.Context, limit int) ([]routine.Run, error)
}

// RoutinesHandler handles routine endpoints
type RoutinesHandler struct {
	panel   *panel.Panel
	history RunHistory
}

// NewRoutinesHandler creates a new routines handler. history may be nil.
func NewRoutinesHandler(p *panel.Panel, history RunHistory) *RoutinesHandler {
	return &RoutinesHandler{panel: p, history: history}
}

// ListRoutines handles GET /routines
// @Summary      List routines
// @Description  Returns the registered routines and the run in progress, if any
// @Tags         routines
// @Produce      json
// @Success      200  {object}  types.ListRoutinesResponse
// @Router       /routines [get]
func (h *RoutinesHandler) ListRoutines(c *gin.Context) {
	sched := h.panel.Scheduler()
	defs := sched.Definitions()

	resp := types.ListRoutinesResponse{
		Routines:   make([]types.RoutineInfo, 0, len(defs)),
		Count:      len(defs),
		UnitMillis: sched.Unit().Milliseconds(),
	}
	for _, d := range defs {
		resp.Routines = append(resp.Routines, types.FromDefinition(d))
	}
	if cur := sched.Current(); cur != nil {
		run := types.FromRun(cur.Run())
		resp.Current = &run
	}

	c.JSON(http.StatusOK, resp)
}

// StartRoutine handles POST /routines/:name/start
// @Summary      Start a routine
// @Description  Launches a routine in the background. Only one routine runs at a time.
// @Tags         routines
// @Produce      json
// @Param        name  path      string  true  "Routine name"
// @Success      202   {object}  types.RunResponse
// @Failure      404   {object}  types.ErrorResponse  "Unknown routine"
// @Failure      409   {object}  types.ErrorResponse  "A routine is already running"
// @Router       /routines/{name}/start [post]
func (h *RoutinesHandler) StartRoutine(c *gin.Context) {
	run, err := h.panel.StartRoutine(c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, types.FromRun(run))
}

// CancelRun handles DELETE /runs/:id
// @Summary      Cancel a run
// @Description  Cancels the running routine. Use "current" to cancel whatever is running.
// @Tags         routines
// @Produce      json
// @Param        id   path      string  true  "Run ID or current"
// @Success      200  {object}  types.RunResponse
// @Failure      404  {object}  types.ErrorResponse  "No matching run in progress"
// @Router       /runs/{id} [delete]
func (h *RoutinesHandler) CancelRun(c *gin.Context) {
	id := c.Param("id")
	if id == "current" {
		id = ""
	}

	run, err := h.panel.CancelRoutine(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.FromRun(run))
}

// ListRuns handles GET /runs
// @Summary      List run history
// @Description  Returns finished routine runs, newest first
// @Tags         routines
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of runs (default 50)"
// @Success      200    {object}  types.ListRunsResponse
// @Failure      500    {object}  types.ErrorResponse  "History unavailable"
// @Router       /runs [get]
func (h *RoutinesHandler) ListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_limit",
			Message: "limit must be a positive integer",
		})
		return
	}

	resp := types.ListRunsResponse{Runs: []types.RunResponse{}}
	if h.history != nil {
		runs, err := h.history.Recent(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Error:   "history_error",
				Message: err.Error(),
			})
			return
		}
		for _, r := range runs {
			resp.Runs = append(resp.Runs, types.FromRun(r))
		}
	}
	resp.Count = len(resp.Runs)

	c.JSON(http.StatusOK, resp)
}

// Events handles GET /runs/events (SSE stream)
// @Summary      Subscribe to routine events
// @Description  Server-Sent Events stream of routine pattern and terminal events
// @Tags         routines
// @Produce      text/event-stream
// @Success      200  {string}  string  "SSE event stream"
// @Router       /runs/events [get]
func (h *RoutinesHandler) Events(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	eventChan := h.panel.Subscribe()
	defer h.panel.Unsubscribe(eventChan)

	sendSSEEvent(c.Writer, "connected", map[string]any{
		"timestamp": time.Now(),
		"message":   "Connected to routine event stream",
	})
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-clientGone:
			return

		case evt, ok := <-eventChan:
			if !ok {
				return
			}
			name := "pattern"
			if evt.Terminal() {
				name = string(evt.Status)
			}
			sendSSEEvent(c.Writer, name, eventPayload(evt))
			c.Writer.Flush()

		case <-ticker.C:
			sendSSEEvent(c.Writer, "heartbeat", map[string]any{
				"timestamp": time.Now(),
			})
			c.Writer.Flush()
		}
	}
}

func eventPayload(evt routine.Event) map[string]any {
	data := map[string]any{
		"run_id":    evt.RunID,
		"routine":   evt.Routine,
		"seq":       evt.Seq,
		"status":    evt.Status,
		"timestamp": evt.Time,
	}
	if !evt.Terminal() {
		data["cycle"] = evt.Cycle
		data["label"] = evt.Label
		data["binary"] = evt.State.Binary()
		data["hex"] = evt.State.Hex()
	}
	if evt.Err != nil {
		data["error"] = evt.Err.Error()
	}
	return data
}

// sendSSEEvent writes an SSE event to the response
func sendSSEEvent(w io.Writer, eventType string, data any) {
	jsonData, _ := json.Marshal(data)
	io.WriteString(w, "event: "+eventType+"\n")
	io.WriteString(w, "data: "+string(jsonData)+"\n\n")
}
