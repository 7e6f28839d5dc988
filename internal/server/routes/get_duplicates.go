package routes

import (
	"net/http"

	"github.com/netweave/intrograph/backend/internal/server/middleware"
	storepgx "github.com/netweave/intrograph/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// PreviewDuplicatesHandler reports what a destructive dedupe run would
// remove, without mutating anything.
func PreviewDuplicatesHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	storage := storepgx.NewEvidenceDBStorage(c.(*middleware.AppContext).App.DBConn)

	preview, err := storage.PreviewDuplicates(ctx, user.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Storage unavailable, retry later"})
	}

	return c.JSON(http.StatusOK, preview)
}
