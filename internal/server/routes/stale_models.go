package routes

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/strata-analytics/causeway/backend/internal/queue"
	"github.com/strata-analytics/causeway/backend/internal/server/middleware"
	"github.com/strata-analytics/causeway/backend/internal/util"
	"github.com/strata-analytics/causeway/backend/pkg/logger"
)

// GetStaleModelsHandler lists the graphs of a project currently flagged
// stale.
func GetStaleModelsHandler(c echo.Context) error {
	type staleModelsResponse struct {
		ModelIDs []string `json:"model_ids"`
	}

	projectID := c.Param("id")
	if projectID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing project id"})
	}

	ctx := c.Request().Context()
	service := c.(*middleware.AppContext).App.Service

	ids, err := service.ListStaleGraphs(ctx, projectID)
	if err != nil {
		logger.Error("[Server] Failed to list stale models", "project_id", projectID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, staleModelsResponse{ModelIDs: ids})
}

// PostStaleModelsHandler flags every graph of a project that references
// one of the given statements as stale and queues their recalculation.
// The synchronous entry point of the staleness detector; the worker path
// reacts to curation messages instead.
func PostStaleModelsHandler(c echo.Context) error {
	type staleModelsBody struct {
		StatementIDs []string `json:"statement_ids" validate:"required"`
	}

	type staleModelsResponse struct {
		Message  string   `json:"message"`
		ModelIDs []string `json:"model_ids"`
	}

	projectID := c.Param("id")
	if projectID == "" {
		return c.JSON(http.StatusBadRequest, staleModelsResponse{Message: "Missing project id"})
	}

	data := new(staleModelsBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, staleModelsResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, staleModelsResponse{Message: "Invalid request body"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	flagged, err := app.Service.CheckStaleGraphs(ctx, projectID, data.StatementIDs)
	if err != nil {
		logger.Error("[Server] Failed to flag stale models", "project_id", projectID, "err", err)
		return c.JSON(http.StatusInternalServerError, staleModelsResponse{Message: "Internal server error"})
	}

	for _, modelID := range flagged {
		body, err := json.Marshal(queue.RecalcMsg{ModelID: modelID})
		if err != nil {
			continue
		}
		err = util.RetryErr(3, func() error {
			return queue.PublishFIFO(app.Queue, queue.RecalcQueue, body)
		})
		if err != nil {
			logger.Error("[Server] Failed to queue recalculation", "model_id", modelID, "err", err)
		}
	}

	return c.JSON(http.StatusOK, staleModelsResponse{
		Message:  "Stale models flagged",
		ModelIDs: flagged,
	})
}
