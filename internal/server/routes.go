package server

import (
	"github.com/netweave/intrograph/backend/internal/server/middleware"
	"github.com/netweave/intrograph/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// People routes
	apiRoutes.PUT("/people/self", routes.RegisterSelfHandler)
	apiRoutes.GET("/people", routes.GetPeopleHandler, middleware.RequirePermission("people.view"))
	apiRoutes.GET("/people/:id", routes.GetPersonHandler, middleware.RequirePermission("people.view"))

	// Evidence routes
	apiRoutes.POST("/evidence/import", routes.ImportEvidenceHandler, middleware.RequirePermission("evidence.import"))
	apiRoutes.GET("/evidence/duplicates", routes.PreviewDuplicatesHandler)
	apiRoutes.DELETE("/evidence/duplicates", routes.DedupeEvidenceHandler, middleware.RequirePermission("evidence.dedupe"))

	// Graph routes
	apiRoutes.POST("/graph/rebuild", routes.RebuildGraphHandler, middleware.RequirePermission("graph.rebuild"))
	apiRoutes.GET("/graph/edges", routes.GetEdgesHandler)

	// Path discovery routes
	apiRoutes.POST("/intro-paths", routes.FindIntroPathsHandler)
}
