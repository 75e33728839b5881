package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/relayctl/pkg/api/types"
	"github.com/urmzd/relayctl/pkg/device/schema"
	"github.com/urmzd/relayctl/pkg/panel"
	"github.com/urmzd/relayctl/pkg/relay"
)

// RelaysHandler handles relay board state endpoints
type RelaysHandler struct {
	panel     *panel.Panel
	validator *schema.Validator
}

// NewRelaysHandler creates a new relays handler
func NewRelaysHandler(p *panel.Panel, validator *schema.Validator) *RelaysHandler {
	return &RelaysHandler{panel: p, validator: validator}
}

// GetState handles GET /relays
// @Summary      Read relay state
// @Description  Queries the board with relay readall and returns the reported state
// @Tags         relays
// @Produce      json
// @Success      200  {object}  types.StateResponse
// @Failure      409  {object}  types.ErrorResponse  "A routine is running"
// @Failure      502  {object}  types.ErrorResponse  "Board did not answer as expected"
// @Failure      503  {object}  types.ErrorResponse  "Board not connected"
// @Router       /relays [get]
func (h *RelaysHandler) GetState(c *gin.Context) {
	snap, err := h.panel.ReadBoard(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.FromSnapshot(snap))
}

// SetState handles PUT /relays
// @Summary      Write relay state
// @Description  Sets all 32 relays at once. Exactly one of binary, hex or channels must be given.
// @Tags         relays
// @Accept       json
// @Produce      json
// @Param        request  body      types.WriteStateRequest  true  "State to write"
// @Success      200      {object}  types.StateResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      409      {object}  types.ErrorResponse  "A routine is running"
// @Failure      502      {object}  types.ErrorResponse  "Board write failed"
// @Failure      503      {object}  types.ErrorResponse  "Board not connected"
// @Router       /relays [put]
func (h *RelaysHandler) SetState(c *gin.Context) {
	var req map[string]any
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	if err := h.validator.Validate(schema.WriteState, req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	state, err := decodeWriteState(req)
	if err != nil {
		writeError(c, err)
		return
	}

	snap, err := h.panel.SetState(c.Request.Context(), state)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.FromSnapshot(snap))
}

// SetChannel handles PUT /relays/:channel
// @Summary      Switch one relay
// @Description  Switches a single channel, keeping the others as currently shown
// @Tags         relays
// @Accept       json
// @Produce      json
// @Param        channel  path      int                      true  "Channel index (0-31)"
// @Param        request  body      types.SetChannelRequest  true  "Channel state"
// @Success      200      {object}  types.StateResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      409      {object}  types.ErrorResponse  "A routine is running"
// @Failure      502      {object}  types.ErrorResponse  "Board write failed"
// @Router       /relays/{channel} [put]
func (h *RelaysHandler) SetChannel(c *gin.Context) {
	ch, err := strconv.Atoi(c.Param("channel"))
	if err != nil || ch < 0 || ch >= relay.Channels {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_channel",
			Message: "Channel must be between 0 and 31",
		})
		return
	}

	var req map[string]any
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}
	if err := h.validator.Validate(schema.SetChannel, req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	on, _ := req["on"].(bool)
	snap, err := h.panel.SetChannel(c.Request.Context(), ch, on)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.FromSnapshot(snap))
}

// AllOn handles POST /relays/all-on
// @Summary      Switch all relays on
// @Tags         relays
// @Produce      json
// @Success      200  {object}  types.StateResponse
// @Failure      409  {object}  types.ErrorResponse  "A routine is running"
// @Failure      502  {object}  types.ErrorResponse  "Board write failed"
// @Router       /relays/all-on [post]
func (h *RelaysHandler) AllOn(c *gin.Context) {
	snap, err := h.panel.AllOn(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.FromSnapshot(snap))
}

// AllOff handles POST /relays/all-off
// @Summary      Switch all relays off
// @Tags         relays
// @Produce      json
// @Success      200  {object}  types.StateResponse
// @Failure      409  {object}  types.ErrorResponse  "A routine is running"
// @Failure      502  {object}  types.ErrorResponse  "Board write failed"
// @Router       /relays/all-off [post]
func (h *RelaysHandler) AllOff(c *gin.Context) {
	snap, err := h.panel.AllOff(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.FromSnapshot(snap))
}

// decodeWriteState turns a validated WriteState payload into a relay state.
func decodeWriteState(req map[string]any) (relay.State, error) {
	if s, ok := req["binary"].(string); ok {
		return relay.DecodeBinary(s)
	}
	if s, ok := req["hex"].(string); ok {
		return relay.FromHex(s)
	}

	raw, _ := req["channels"].([]any)
	channels := make([]bool, len(raw))
	for i, v := range raw {
		channels[i], _ = v.(bool)
	}
	return relay.FromChannels(channels)
}
