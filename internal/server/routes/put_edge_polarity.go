package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/strata-analytics/causeway/backend/internal/server/middleware"
	"github.com/strata-analytics/causeway/backend/pkg/common"
	"github.com/strata-analytics/causeway/backend/pkg/logger"
	"github.com/strata-analytics/causeway/backend/pkg/store"
)

// SetEdgePolarityHandler sets or clears the user polarity override of an
// edge. A null polarity clears the override and the edge falls back to
// its statement-derived polarity.
func SetEdgePolarityHandler(c echo.Context) error {
	type setPolarityBody struct {
		Polarity *common.Polarity `json:"polarity"`
	}

	type setPolarityResponse struct {
		Message string       `json:"message"`
		Edge    *common.Edge `json:"edge,omitempty"`
	}

	modelID := c.Param("id")
	edgeID := c.Param("edge_id")
	if modelID == "" || edgeID == "" {
		return c.JSON(http.StatusBadRequest, setPolarityResponse{Message: "Missing model or edge id"})
	}

	data := new(setPolarityBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, setPolarityResponse{Message: "Invalid request body"})
	}
	if data.Polarity != nil {
		switch *data.Polarity {
		case common.PolarityNegative, common.PolarityUnknown, common.PolarityPositive:
		default:
			return c.JSON(http.StatusBadRequest, setPolarityResponse{Message: "Polarity must be -1, 0 or 1"})
		}
	}

	ctx := c.Request().Context()
	service := c.(*middleware.AppContext).App.Service

	edge, err := service.SetUserPolarity(ctx, modelID, edgeID, data.Polarity)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, setPolarityResponse{Message: "Edge not found"})
		}
		logger.Error("[Server] Failed to set edge polarity", "model_id", modelID, "edge_id", edgeID, "err", err)
		return c.JSON(http.StatusInternalServerError, setPolarityResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, setPolarityResponse{
		Message: "Edge polarity updated",
		Edge:    edge,
	})
}
