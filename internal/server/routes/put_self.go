package routes

import (
	"net/http"

	"github.com/netweave/intrograph/backend/internal/server/middleware"
	"github.com/netweave/intrograph/backend/pkg/common"
	"github.com/netweave/intrograph/backend/pkg/ingest"
	storepgx "github.com/netweave/intrograph/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// RegisterSelfHandler creates or updates the caller's own person node.
// Imports and intro-path queries need this node, so a fresh account
// registers itself here first.
func RegisterSelfHandler(c echo.Context) error {
	type registerSelfParams struct {
		Name         string `json:"name" validate:"required"`
		Email        string `json:"email"`
		Title        string `json:"title"`
		Organization string `json:"organization"`
	}

	params := new(registerSelfParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	publicID := ingest.PersonID(params.Email, params.Name)
	if publicID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	self := common.Person{
		PublicID:     publicID,
		Names:        []string{params.Name},
		Title:        params.Title,
		Organization: params.Organization,
	}
	if e := ingest.NormalizeEmail(params.Email); e != "" {
		self.Emails = []string{e}
	}

	ctx := c.Request().Context()
	storage := storepgx.NewEvidenceDBStorage(c.(*middleware.AppContext).App.DBConn)

	self, err := storage.UpsertSelfPerson(ctx, user.UserID, self)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Storage unavailable, retry later"})
	}

	return c.JSON(http.StatusOK, self)
}
