package routes

import (
	"errors"
	"net/http"

	"github.com/netweave/intrograph/backend/internal/server/middleware"
	storepgx "github.com/netweave/intrograph/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

func GetPeopleHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	storage := storepgx.NewEvidenceDBStorage(c.(*middleware.AppContext).App.DBConn)

	people, err := storage.ListPeople(ctx, user.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, people)
}

func GetPersonHandler(c echo.Context) error {
	type getPersonParams struct {
		PersonID string `param:"id" validate:"required"`
	}

	params := new(getPersonParams)
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

	ctx := c.Request().Context()
	storage := storepgx.NewEvidenceDBStorage(c.(*middleware.AppContext).App.DBConn)

	person, err := storage.GetPerson(ctx, user.UserID, params.PersonID)
	if err != nil {
		if errors.Is(err, storepgx.ErrPersonNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Person not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, person)
}
