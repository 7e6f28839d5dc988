package pgx

import (
	"context"
	"fmt"

	"github.com/netweave/intrograph/backend/pkg/common"
)

const deleteUserEdgesSQL = `DELETE FROM edges WHERE user_id = $1`

const insertEdgeSQL = `
INSERT INTO edges (user_id, from_person_id, to_person_id, strength, interaction_count, sources, last_interaction)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

const listEdgesSQL = `
SELECT from_person_id, to_person_id, strength, interaction_count, sources, last_interaction
FROM edges
WHERE user_id = $1
ORDER BY from_person_id, to_person_id
`

// ReplaceEdges swaps a user's derived edge set inside one transaction.
// Edges are pure derivations of evidence, so the previous set is dropped
// wholesale; on any error the transaction rolls back and the old edges
// stay visible.
func (s *EvidenceDBStorage) ReplaceEdges(ctx context.Context, userID int64, edges []common.Edge) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, deleteUserEdgesSQL, userID); err != nil {
		return fmt.Errorf("failed to clear previous edges: %w", err)
	}

	for _, e := range edges {
		sources := make([]string, len(e.Sources))
		for i, src := range e.Sources {
			sources[i] = string(src)
		}
		_, err := tx.Exec(ctx, insertEdgeSQL,
			userID, e.FromID, e.ToID, e.Strength, e.InteractionCount, sources, e.LastInteraction)
		if err != nil {
			return fmt.Errorf("failed to insert edge %s -> %s: %w", e.FromID, e.ToID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit edge replacement: %w", err)
	}
	return nil
}

// ListEdges returns a user's stored edge set in deterministic order.
func (s *EvidenceDBStorage) ListEdges(ctx context.Context, userID int64) ([]common.Edge, error) {
	rows, err := s.conn.Query(ctx, listEdgesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list edges: %w", err)
	}
	defer rows.Close()

	edges := make([]common.Edge, 0)
	for rows.Next() {
		var e common.Edge
		var sources []string
		err := rows.Scan(&e.FromID, &e.ToID, &e.Strength, &e.InteractionCount, &sources, &e.LastInteraction)
		if err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		e.Sources = make([]common.EventSource, len(sources))
		for i, src := range sources {
			e.Sources[i] = common.EventSource(src)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
