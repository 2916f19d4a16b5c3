package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/strata-analytics/causeway/backend/internal/server/middleware"
	"github.com/strata-analytics/causeway/backend/pkg/cag"
	"github.com/strata-analytics/causeway/backend/pkg/logger"
	"github.com/strata-analytics/causeway/backend/pkg/store"
)

// SaveModelComponentsHandler bulk-upserts nodes, edges and groups of a
// graph. Records without an id are created, records with one are updated.
func SaveModelComponentsHandler(c echo.Context) error {
	type saveComponentsResponse struct {
		Message string `json:"message"`
	}

	modelID := c.Param("id")
	if modelID == "" {
		return c.JSON(http.StatusBadRequest, saveComponentsResponse{Message: "Missing model id"})
	}

	data := new(cag.ComponentBatch)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, saveComponentsResponse{Message: "Invalid request body"})
	}

	ctx := c.Request().Context()
	service := c.(*middleware.AppContext).App.Service

	if _, err := service.GetGraph(ctx, modelID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, saveComponentsResponse{Message: "Model not found"})
		}
		logger.Error("[Server] Failed to load model", "model_id", modelID, "err", err)
		return c.JSON(http.StatusInternalServerError, saveComponentsResponse{Message: "Internal server error"})
	}

	if err := service.SaveComponents(ctx, modelID, *data); err != nil {
		logger.Error("[Server] Failed to save model components", "model_id", modelID, "err", err)
		return c.JSON(http.StatusInternalServerError, saveComponentsResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, saveComponentsResponse{Message: "Components saved"})
}
