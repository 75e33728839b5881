package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/relayctl/pkg/api/types"
	"github.com/urmzd/relayctl/pkg/device"
	"github.com/urmzd/relayctl/pkg/relay"
	"github.com/urmzd/relayctl/pkg/routine"
)

// writeError maps domain errors onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, relay.ErrFormat):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_state", Message: err.Error()})
	case errors.Is(err, device.ErrBusy):
		c.JSON(http.StatusConflict, types.ErrorResponse{Error: "routine_running", Message: err.Error()})
	case errors.Is(err, routine.ErrUnknownRoutine):
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "not_found", Message: err.Error()})
	case errors.Is(err, device.ErrNotConnected):
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{Error: "controller_disconnected", Message: err.Error()})
	case errors.Is(err, device.ErrProtocol):
		c.JSON(http.StatusBadGateway, types.ErrorResponse{Error: "protocol_error", Message: err.Error()})
	case errors.Is(err, device.ErrTransport):
		c.JSON(http.StatusBadGateway, types.ErrorResponse{Error: "transport_error", Message: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, types.ErrorResponse{Error: "timeout", Message: "Request timed out waiting for the board"})
	default:
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "controller_error", Message: err.Error()})
	}
}

func isFormatError(err error) bool {
	return errors.Is(err, relay.ErrFormat)
}
