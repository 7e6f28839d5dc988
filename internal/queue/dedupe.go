package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/netweave/intrograph/backend/pkg/leaselock"
	"github.com/netweave/intrograph/backend/pkg/logger"
	storepgx "github.com/netweave/intrograph/backend/pkg/store/pgx"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ProcessDedupeMessage runs a destructive duplicate sweep over one user's
// evidence. The sweep itself deletes in bounded batches and is safe to
// re-run after a partial failure; the lease only keeps concurrent sweeps
// for the same user from interleaving.
func ProcessDedupeMessage(ctx context.Context, conn *pgxpool.Pool, locks *leaselock.Client, body string) error {
	var job JobMsg
	if err := json.Unmarshal([]byte(body), &job); err != nil {
		return fmt.Errorf("invalid dedupe job payload: %w", err)
	}
	if job.UserID <= 0 {
		return fmt.Errorf("invalid dedupe job: missing user id")
	}

	key := fmt.Sprintf("evidence:dedupe:%d", job.UserID)
	return locks.WithLease(ctx, key, 10*time.Minute, func(ctx context.Context) error {
		storage := storepgx.NewEvidenceDBStorage(conn)

		result, err := storage.DedupeEvidence(ctx, job.UserID)
		if err != nil {
			return err
		}

		logger.Info("[Dedupe] Job finished",
			"user_id", job.UserID,
			"deleted", result.DeletedCount,
			"groups_cleaned", result.GroupsCleaned)
		return nil
	})
}
