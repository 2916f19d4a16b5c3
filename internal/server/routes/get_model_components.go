package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/strata-analytics/causeway/backend/internal/server/middleware"
	"github.com/strata-analytics/causeway/backend/pkg/logger"
	"github.com/strata-analytics/causeway/backend/pkg/store"
)

// GetModelComponentsHandler returns a graph with all of its nodes and
// edges.
func GetModelComponentsHandler(c echo.Context) error {
	modelID := c.Param("id")
	if modelID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing model id"})
	}

	ctx := c.Request().Context()
	service := c.(*middleware.AppContext).App.Service

	components, err := service.GetComponents(ctx, modelID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Model not found"})
		}
		logger.Error("[Server] Failed to load model components", "model_id", modelID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, components)
}
