package routes

import (
	"net/http"
	"time"

	"github.com/netweave/intrograph/backend/internal/server/middleware"
	"github.com/netweave/intrograph/backend/pkg/graph"
	storepgx "github.com/netweave/intrograph/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// GetEdgesHandler recomputes the caller's full edge set from the current
// evidence snapshot and returns it. The computation is a pure function of
// the evidence; persisting the result is the rebuild job's business.
func GetEdgesHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	storage := storepgx.NewEvidenceDBStorage(app.DBConn)

	events, err := storage.ListEvidence(ctx, user.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Storage unavailable, retry later"})
	}
	people, err := storage.ListPeople(ctx, user.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Storage unavailable, retry later"})
	}

	gr, err := app.Engine.Build(ctx, user.UserID, people, graph.Dedupe(events), time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, gr.Edges)
}
