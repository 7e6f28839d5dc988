package routes

import (
	"net/http"

	"github.com/netweave/intrograph/backend/internal/queue"
	"github.com/netweave/intrograph/backend/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// RebuildGraphHandler enqueues an asynchronous graph rebuild for the
// caller. The worker dedupes evidence, recomputes edges and persists them.
func RebuildGraphHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	app := c.(*middleware.AppContext).App

	err := queue.PublishJob(app.Queue, queue.RebuildQueue, queue.JobMsg{UserID: user.UserID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to enqueue rebuild job"})
	}

	return c.JSON(http.StatusAccepted, map[string]string{"message": "Graph rebuild enqueued"})
}
