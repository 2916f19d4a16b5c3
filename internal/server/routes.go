package server

import (
	"github.com/labstack/echo/v4"

	"github.com/strata-analytics/causeway/backend/internal/server/middleware"
	"github.com/strata-analytics/causeway/backend/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Model routes
	apiRoutes.POST("/models", routes.CreateModelHandler, middleware.RequirePermission("model.create"))
	apiRoutes.GET("/models/:id/components", routes.GetModelComponentsHandler, middleware.RequireAnyPermission("model.view", "model.view:all"))
	apiRoutes.POST("/models/:id/components", routes.SaveModelComponentsHandler, middleware.RequirePermission("model.update"))
	apiRoutes.DELETE("/models/:id", routes.DeleteModelHandler, middleware.RequirePermission("model.delete"))
	apiRoutes.POST("/models/:id/recalculate", routes.RecalculateModelHandler, middleware.RequirePermission("model.update"))

	// Model edit routes
	apiRoutes.PUT("/models/:id/nodes/:node_id/concept", routes.ChangeNodeConceptHandler, middleware.RequirePermission("model.update"))
	apiRoutes.PUT("/models/:id/edges/:edge_id/polarity", routes.SetEdgePolarityHandler, middleware.RequirePermission("model.update"))

	// Project routes
	apiRoutes.GET("/projects/:id/stale-models", routes.GetStaleModelsHandler, middleware.RequirePermission("project.view"))
	apiRoutes.POST("/projects/:id/stale-models", routes.PostStaleModelsHandler, middleware.RequirePermission("model.update"))
}
