package pgx

import (
	"context"
	"fmt"

	"github.com/netweave/intrograph/backend/pkg/common"

	pgxv5 "github.com/jackc/pgx/v5"
)

const listEvidenceSQL = `
SELECT id, public_id, user_id, subject_person_id, object_person_id,
       event_type, source, occurred_at, created_at, metadata
FROM evidence_events
WHERE user_id = $1 AND status = 'active'
ORDER BY occurred_at, id
`

// listDuplicateEvidenceSQL returns every active row whose six-field
// identity key occurs more than once for the user. Survivor selection
// happens in the engine so preview and destructive runs share one plan.
const listDuplicateEvidenceSQL = `
SELECT e.id, e.public_id, e.user_id, e.subject_person_id, e.object_person_id,
       e.event_type, e.source, e.occurred_at, e.created_at, e.metadata
FROM evidence_events e
JOIN (
    SELECT user_id, subject_person_id, object_person_id, event_type, source, occurred_at
    FROM evidence_events
    WHERE user_id = $1 AND status = 'active'
    GROUP BY user_id, subject_person_id, object_person_id, event_type, source, occurred_at
    HAVING count(*) > 1
) dupes USING (user_id, subject_person_id, object_person_id, event_type, source, occurred_at)
WHERE e.status = 'active'
ORDER BY e.subject_person_id, e.object_person_id, e.event_type, e.source, e.occurred_at, e.created_at, e.id
`

const deleteEvidenceSQL = `DELETE FROM evidence_events WHERE id = ANY($1)`

const markEvidenceStatusSQL = `UPDATE evidence_events SET status = $2 WHERE id = ANY($1)`

func scanEvidenceRows(rows pgxv5.Rows) ([]common.EvidenceEvent, error) {
	defer rows.Close()

	events := make([]common.EvidenceEvent, 0)
	for rows.Next() {
		var ev common.EvidenceEvent
		var rawMeta []byte
		err := rows.Scan(
			&ev.ID, &ev.PublicID, &ev.UserID, &ev.SubjectID, &ev.ObjectID,
			&ev.Type, &ev.Source, &ev.OccurredAt, &ev.CreatedAt, &rawMeta,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evidence event: %w", err)
		}

		ev.Metadata, err = common.DecodeMetadata(ev.Type, rawMeta)
		if err != nil {
			// Bad metadata is an ingestion defect, not a reason to hide
			// the event from scoring; keep it opaque.
			ev.Metadata = common.EventMetadata{Raw: rawMeta}
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// ListEvidence returns one user's full active evidence set.
func (s *EvidenceDBStorage) ListEvidence(ctx context.Context, userID int64) ([]common.EvidenceEvent, error) {
	rows, err := s.conn.Query(ctx, listEvidenceSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evidence: %w", err)
	}
	return scanEvidenceRows(rows)
}

// ListDuplicateEvidence returns the rows that belong to duplicate groups.
func (s *EvidenceDBStorage) ListDuplicateEvidence(ctx context.Context, userID int64) ([]common.EvidenceEvent, error) {
	rows, err := s.conn.Query(ctx, listDuplicateEvidenceSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list duplicate evidence: %w", err)
	}
	return scanEvidenceRows(rows)
}

// DeleteEvidenceBatch removes the given rows and reports the exact count
// of affected records.
func (s *EvidenceDBStorage) DeleteEvidenceBatch(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := s.conn.Exec(ctx, deleteEvidenceSQL, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete evidence batch: %w", err)
	}
	return tag.RowsAffected(), nil
}

// MarkEvidenceStatus updates the status of the given rows and reports the
// exact count of affected records.
func (s *EvidenceDBStorage) MarkEvidenceStatus(ctx context.Context, ids []int64, status string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := s.conn.Exec(ctx, markEvidenceStatusSQL, ids, status)
	if err != nil {
		return 0, fmt.Errorf("failed to update evidence status: %w", err)
	}
	return tag.RowsAffected(), nil
}
