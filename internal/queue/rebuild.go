package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/netweave/intrograph/backend/internal/engine"
	"github.com/netweave/intrograph/backend/pkg/graph"
	"github.com/netweave/intrograph/backend/pkg/leaselock"
	"github.com/netweave/intrograph/backend/pkg/logger"
	storepgx "github.com/netweave/intrograph/backend/pkg/store/pgx"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ProcessRebuildMessage recomputes one user's full edge set from the
// current evidence snapshot and swaps it into the store. The rebuild runs
// under a per-user lease so overlapping jobs cannot race each other.
func ProcessRebuildMessage(ctx context.Context, conn *pgxpool.Pool, locks *leaselock.Client, body string) error {
	var job JobMsg
	if err := json.Unmarshal([]byte(body), &job); err != nil {
		return fmt.Errorf("invalid rebuild job payload: %w", err)
	}
	if job.UserID <= 0 {
		return fmt.Errorf("invalid rebuild job: missing user id")
	}

	key := fmt.Sprintf("graph:rebuild:%d", job.UserID)
	return locks.WithLease(ctx, key, 10*time.Minute, func(ctx context.Context) error {
		return rebuildUserGraph(ctx, conn, job.UserID)
	})
}

func rebuildUserGraph(ctx context.Context, conn *pgxpool.Pool, userID int64) error {
	storage := storepgx.NewEvidenceDBStorage(conn)

	client, err := engine.NewClientFromEnv()
	if err != nil {
		return fmt.Errorf("failed to create graph client: %w", err)
	}

	events, err := storage.ListEvidence(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load evidence: %w", err)
	}
	people, err := storage.ListPeople(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load people: %w", err)
	}

	// The store may still hold duplicates between sweeps; scoring always
	// runs on the canonical set.
	events = graph.Dedupe(events)

	gr, err := client.Build(ctx, userID, people, events, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to build graph: %w", err)
	}

	if err := storage.ReplaceEdges(ctx, userID, gr.Edges); err != nil {
		return fmt.Errorf("failed to store edges: %w", err)
	}

	logger.Info("[Rebuild] Graph rebuilt",
		"user_id", userID, "nodes", len(gr.Nodes), "edges", len(gr.Edges))
	return nil
}
