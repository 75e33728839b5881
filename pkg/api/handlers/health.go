package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/relayctl/pkg/api/types"
	"github.com/urmzd/relayctl/pkg/panel"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	panel *panel.Panel
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(p *panel.Panel) *HealthHandler {
	return &HealthHandler{panel: p}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Returns the health status of the API and the relay board link
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse  "Service is healthy"
// @Failure      503  {object}  types.HealthResponse  "Service is degraded"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	controllerStatus := "disconnected"
	if h.panel.Board().IsConnected() {
		controllerStatus = "connected"
	}

	routineStatus := "idle"
	if h.panel.Scheduler().Running() {
		routineStatus = "running"
	}

	status := "healthy"
	httpStatus := http.StatusOK

	if controllerStatus != "connected" {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:     status,
		Controller: controllerStatus,
		Routine:    routineStatus,
		Timestamp:  time.Now(),
	})
}
