package routes

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/strata-analytics/causeway/backend/internal/queue"
	"github.com/strata-analytics/causeway/backend/internal/server/middleware"
	"github.com/strata-analytics/causeway/backend/internal/util"
	"github.com/strata-analytics/causeway/backend/pkg/logger"
)

// DeleteModelHandler queues the teardown of a graph and its dependents.
// The worker runs the cascade under the model lease so an in-flight
// recalculation does not race the delete.
func DeleteModelHandler(c echo.Context) error {
	modelID := c.Param("id")
	if modelID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing model id"})
	}

	body, err := json.Marshal(queue.DeleteMsg{ModelID: modelID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	ch := c.(*middleware.AppContext).App.Queue
	err = util.RetryErrWithContext(c.Request().Context(), 3, func(context.Context) error {
		return queue.PublishFIFO(ch, queue.DeleteQueue, body)
	})
	if err != nil {
		logger.Error("[Server] Failed to queue model delete", "model_id", modelID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusAccepted, map[string]string{"message": "Model delete queued"})
}
