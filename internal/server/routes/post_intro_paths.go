package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/netweave/intrograph/backend/internal/server/middleware"
	"github.com/netweave/intrograph/backend/pkg/common"
	"github.com/netweave/intrograph/backend/pkg/graph"
	storepgx "github.com/netweave/intrograph/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// FindIntroPathsHandler searches the caller's relationship graph for the
// best-ranked introduction paths to a target person.
func FindIntroPathsHandler(c echo.Context) error {
	type findIntroPathsParams struct {
		TargetPersonID string `json:"target_person_id" validate:"required"`
		MaxHops        int    `json:"max_hops"`
		K              int    `json:"k"`
	}

	type findIntroPathsResponse struct {
		Message string        `json:"message,omitempty"`
		Paths   []common.Path `json:"paths"`
	}

	params := new(findIntroPathsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if params.MaxHops < 0 || params.K < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "max_hops and k must be non-negative"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	storage := storepgx.NewEvidenceDBStorage(app.DBConn)

	self, err := storage.GetSelfPerson(ctx, user.UserID)
	if err != nil {
		if errors.Is(err, storepgx.ErrPersonNotFound) {
			// No self node yet means nothing has been ingested; an empty
			// graph is an expected state, not a failure.
			return c.JSON(http.StatusOK, findIntroPathsResponse{Paths: []common.Path{}})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Storage unavailable, retry later"})
	}

	if self.PublicID == params.TargetPersonID {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Target must be someone other than yourself"})
	}

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

	paths, err := app.Engine.FindPaths(gr, self.PublicID, params.TargetPersonID, params.MaxHops, params.K)
	if err != nil {
		if errors.Is(err, graph.ErrSelfTarget) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Target must be someone other than yourself"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, findIntroPathsResponse{
		Paths: app.Engine.RankPaths(gr, paths),
	})
}
