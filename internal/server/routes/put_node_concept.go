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

// ChangeNodeConceptHandler renames a node's concept and cascades the new
// name through every edge endpoint and scenario constraint of the graph.
func ChangeNodeConceptHandler(c echo.Context) error {
	type changeConceptBody struct {
		Concept string `json:"concept" validate:"required"`
	}

	type changeConceptResponse struct {
		Message string             `json:"message"`
		Change  *cag.ConceptChange `json:"change,omitempty"`
	}

	modelID := c.Param("id")
	nodeID := c.Param("node_id")
	if modelID == "" || nodeID == "" {
		return c.JSON(http.StatusBadRequest, changeConceptResponse{Message: "Missing model or node id"})
	}

	data := new(changeConceptBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, changeConceptResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, changeConceptResponse{Message: "Invalid request body"})
	}

	ctx := c.Request().Context()
	service := c.(*middleware.AppContext).App.Service

	change, err := service.ChangeConcept(ctx, modelID, nodeID, data.Concept)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.JSON(http.StatusNotFound, changeConceptResponse{Message: "Node not found"})
		case errors.Is(err, cag.ErrDuplicateConcept):
			return c.JSON(http.StatusConflict, changeConceptResponse{Message: "Concept already exists in model"})
		default:
			logger.Error("[Server] Failed to rename concept", "model_id", modelID, "node_id", nodeID, "err", err)
			return c.JSON(http.StatusInternalServerError, changeConceptResponse{Message: "Internal server error"})
		}
	}

	return c.JSON(http.StatusOK, changeConceptResponse{
		Message: "Concept renamed",
		Change:  change,
	})
}
