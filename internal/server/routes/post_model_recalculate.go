package routes

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/strata-analytics/causeway/backend/internal/server/middleware"
	"github.com/strata-analytics/causeway/backend/pkg/leaselock"
	"github.com/strata-analytics/causeway/backend/pkg/logger"
	"github.com/strata-analytics/causeway/backend/pkg/store"
)

// RecalculateModelHandler recalculates a graph synchronously, for the
// load-time path where a client finds a stale graph and wants it fresh
// before rendering. Runs under the model lease without waiting: if a
// worker already holds the graph the client gets 409 and retries after
// the queued recalculation lands.
func RecalculateModelHandler(c echo.Context) error {
	modelID := c.Param("id")
	if modelID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing model id"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	err := app.Lock.WithLease(ctx, leaselock.ModelKey(modelID), leaselock.Options{
		TTL:         10 * time.Minute,
		RenewEvery:  4 * time.Minute,
		TokenPrefix: "recalc/" + modelID + "/",
	}, func(ctx context.Context) error {
		return app.Service.Recalculate(ctx, modelID)
	})
	if err != nil {
		if errors.Is(err, leaselock.ErrBusy) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "Model is being recalculated"})
		}
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Model not found"})
		}
		logger.Error("[Server] Failed to recalculate model", "model_id", modelID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Model recalculated"})
}
