package pgx

import (
	"context"
	"fmt"

	"github.com/netweave/intrograph/backend/pkg/common"
)

const upsertPersonSQL = `
INSERT INTO people (user_id, public_id, names, emails, title, organization)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id, public_id) DO UPDATE
SET names        = CASE WHEN cardinality(EXCLUDED.names)  > 0 THEN EXCLUDED.names  ELSE people.names  END,
    emails       = CASE WHEN cardinality(EXCLUDED.emails) > 0 THEN EXCLUDED.emails ELSE people.emails END,
    title        = CASE WHEN EXCLUDED.title        <> '' THEN EXCLUDED.title        ELSE people.title        END,
    organization = CASE WHEN EXCLUDED.organization <> '' THEN EXCLUDED.organization ELSE people.organization END
`

const insertEvidenceSQL = `
INSERT INTO evidence_events (public_id, user_id, subject_person_id, object_person_id,
                             event_type, source, occurred_at, created_at, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

// UpsertPeople writes imported contacts. Known fields only ever get
// filled in, never blanked by a sparser re-import.
func (s *EvidenceDBStorage) UpsertPeople(ctx context.Context, userID int64, people []common.Person) error {
	for _, p := range people {
		names := p.Names
		if names == nil {
			names = []string{}
		}
		emails := p.Emails
		if emails == nil {
			emails = []string{}
		}
		_, err := s.conn.Exec(ctx, upsertPersonSQL, userID, p.PublicID, names, emails, p.Title, p.Organization)
		if err != nil {
			return fmt.Errorf("failed to upsert person %s: %w", p.PublicID, err)
		}
	}
	return nil
}

// InsertEvidence appends imported events and returns the inserted count.
// Duplicate detection is not done here; the dedupe sweep owns that.
func (s *EvidenceDBStorage) InsertEvidence(ctx context.Context, events []common.EvidenceEvent) (int64, error) {
	var inserted int64
	for _, ev := range events {
		payload, err := ev.Metadata.EncodePayload()
		if err != nil {
			return inserted, fmt.Errorf("failed to encode metadata for event %s: %w", ev.PublicID, err)
		}
		tag, err := s.conn.Exec(ctx, insertEvidenceSQL,
			ev.PublicID, ev.UserID, ev.SubjectID, ev.ObjectID,
			ev.Type, ev.Source, ev.OccurredAt, ev.CreatedAt, payload,
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert evidence event %s: %w", ev.PublicID, err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}
