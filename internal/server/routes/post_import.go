package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/netweave/intrograph/backend/internal/server/middleware"
	"github.com/netweave/intrograph/backend/pkg/ingest"
	ingestcsv "github.com/netweave/intrograph/backend/pkg/ingest/csv"
	ingestlinkedin "github.com/netweave/intrograph/backend/pkg/ingest/linkedin"
	storepgx "github.com/netweave/intrograph/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// ImportEvidenceHandler accepts a raw CSV upload and turns it into people
// and evidence events. The ?format= query selects the importer: "linkedin"
// for a LinkedIn connections archive, anything else is treated as a
// generic interaction log.
func ImportEvidenceHandler(c echo.Context) error {
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
			return c.JSON(http.StatusConflict, map[string]string{"error": "No self person exists for this account yet"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Storage unavailable, retry later"})
	}

	var importer ingest.Importer
	switch c.QueryParam("format") {
	case "linkedin":
		importer = ingestlinkedin.NewLinkedInImporter()
	default:
		importer = ingestcsv.NewCSVImporter()
	}

	batch, err := importer.Parse(ctx, c.Request().Body, ingest.ParseParams{
		UserID: user.UserID,
		SelfID: self.PublicID,
		Now:    time.Now().UTC(),
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Could not parse upload: " + err.Error()})
	}

	if err := storage.UpsertPeople(ctx, user.UserID, batch.People); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Storage unavailable, retry later"})
	}
	inserted, err := storage.InsertEvidence(ctx, batch.Events)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Storage unavailable, retry later"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"people_upserted": len(batch.People),
		"events_inserted": inserted,
		"rows_skipped":    batch.Skipped,
	})
}
