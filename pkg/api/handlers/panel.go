package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/relayctl/pkg/api/types"
	"github.com/urmzd/relayctl/pkg/panel"
)

// PanelHandler exposes the control panel view
type PanelHandler struct {
	panel *panel.Panel
}

// NewPanelHandler creates a new panel handler
func NewPanelHandler(p *panel.Panel) *PanelHandler {
	return &PanelHandler{panel: p}
}

// GetPanel handles GET /panel
// @Summary      Get panel view
// @Description  Returns the mirrored relay controls, readouts, status line and running routine
// @Tags         panel
// @Produce      json
// @Success      200  {object}  types.PanelResponse
// @Router       /panel [get]
func (h *PanelHandler) GetPanel(c *gin.Context) {
	c.JSON(http.StatusOK, toPanelResponse(h.panel.View()))
}

// SubmitInput handles POST /panel/input
// @Summary      Submit manual input
// @Description  Applies a 32-character binary string as typed into the panel. Malformed input resets the panel input to all-off.
// @Tags         panel
// @Accept       json
// @Produce      json
// @Param        request  body      types.PanelInputRequest  true  "Binary input"
// @Success      200      {object}  types.PanelResponse
// @Failure      400      {object}  types.PanelResponse  "Malformed input"
// @Failure      409      {object}  types.ErrorResponse  "A routine is running"
// @Router       /panel/input [post]
func (h *PanelHandler) SubmitInput(c *gin.Context) {
	var req types.PanelInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	h.panel.SetInput(req.Input)
	if _, err := h.panel.ApplyInput(c.Request.Context()); err != nil {
		if isFormatError(err) {
			c.JSON(http.StatusBadRequest, toPanelResponse(h.panel.View()))
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPanelResponse(h.panel.View()))
}

func toPanelResponse(v panel.View) types.PanelResponse {
	resp := types.PanelResponse{
		State:   types.FromSnapshot(v.Snapshot),
		Status:  v.Status,
		Input:   v.Input,
		Command: v.Command,
	}
	if v.Routine != nil {
		run := types.FromRun(*v.Routine)
		resp.Routine = &run
	}
	return resp
}
