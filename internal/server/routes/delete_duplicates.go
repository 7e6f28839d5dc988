package routes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/netweave/intrograph/backend/internal/queue"
	"github.com/netweave/intrograph/backend/internal/server/middleware"
	"github.com/netweave/intrograph/backend/pkg/leaselock"
	storepgx "github.com/netweave/intrograph/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// DedupeEvidenceHandler runs the duplicate sweep for the caller. With
// ?mode=archive duplicates are marked superseded instead of deleted; with
// ?async=true the sweep is handed to the worker and the handler returns
// immediately.
func DedupeEvidenceHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	app := c.(*middleware.AppContext).App

	if c.QueryParam("async") == "true" {
		err := queue.PublishJob(app.Queue, queue.DedupeQueue, queue.JobMsg{UserID: user.UserID})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to enqueue dedupe job"})
		}
		return c.JSON(http.StatusAccepted, map[string]string{"message": "Dedupe job enqueued"})
	}

	ctx := c.Request().Context()
	storage := storepgx.NewEvidenceDBStorage(app.DBConn)

	var result storepgx.DedupeResult
	key := fmt.Sprintf("evidence:dedupe:%d", user.UserID)
	archive := c.QueryParam("mode") == "archive"
	err := app.Locks.WithLease(ctx, key, 10*time.Minute, func(ctx context.Context) error {
		var sweepErr error
		if archive {
			result, sweepErr = storage.ArchiveDuplicates(ctx, user.UserID)
		} else {
			result, sweepErr = storage.DedupeEvidence(ctx, user.UserID)
		}
		return sweepErr
	})
	if err != nil {
		if errors.Is(err, leaselock.ErrBusy) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "A dedupe run is already in progress"})
		}
		// Partial failures still produced exact counts; report them.
		if result.FailedBatches > 0 {
			return c.JSON(http.StatusOK, result)
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Storage unavailable, retry later"})
	}

	return c.JSON(http.StatusOK, result)
}
