package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/strata-analytics/causeway/backend/internal/server/middleware"
	"github.com/strata-analytics/causeway/backend/pkg/cag"
	"github.com/strata-analytics/causeway/backend/pkg/common"
	"github.com/strata-analytics/causeway/backend/pkg/logger"
)

// CreateModelHandler creates a new graph with its initial nodes and edges.
func CreateModelHandler(c echo.Context) error {
	type createModelBody struct {
		ProjectID string                `json:"project_id" validate:"required"`
		Name      string                `json:"name" validate:"required"`
		Parameter common.ModelParameter `json:"parameter"`
		Nodes     []common.Node         `json:"nodes"`
		Edges     []common.Edge         `json:"edges"`
	}

	type createModelResponse struct {
		Message string `json:"message"`
		ModelID string `json:"model_id,omitempty"`
	}

	data := new(createModelBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createModelResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createModelResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	service := c.(*middleware.AppContext).App.Service

	modelID, err := service.CreateGraph(ctx, cag.CreateGraphParams{
		ProjectID: data.ProjectID,
		Name:      data.Name,
		Parameter: data.Parameter,
	}, data.Nodes, data.Edges)
	if err != nil {
		logger.Error("[Server] Failed to create model", "project_id", data.ProjectID, "err", err)
		return c.JSON(http.StatusInternalServerError, createModelResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, createModelResponse{
		Message: "Model created successfully",
		ModelID: modelID,
	})
}
