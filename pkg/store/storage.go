package store

import (
	"context"

	"github.com/netweave/intrograph/backend/pkg/common"
)

// EvidenceStorage defines the storage boundary the engine consumes. Reads
// deliver one user's evidence snapshot and person catalog; writes are the
// administrative operations used by deduplication and edge rebuild flows
// and always report exact affected counts.
type EvidenceStorage interface {
	ListPeople(ctx context.Context, userID int64) ([]common.Person, error)
	GetPerson(ctx context.Context, userID int64, publicID string) (common.Person, error)
	// GetSelfPerson returns the node representing the owning user, the
	// source of every intro path query.
	GetSelfPerson(ctx context.Context, userID int64) (common.Person, error)
	// UpsertSelfPerson creates or refreshes that node; imports and path
	// queries depend on it existing.
	UpsertSelfPerson(ctx context.Context, userID int64, p common.Person) (common.Person, error)

	ListEvidence(ctx context.Context, userID int64) ([]common.EvidenceEvent, error)
	// ListDuplicateEvidence returns only the rows belonging to identity-key
	// groups with more than one member.
	ListDuplicateEvidence(ctx context.Context, userID int64) ([]common.EvidenceEvent, error)

	// UpsertPeople inserts or refreshes imported contacts keyed by public
	// ID; a re-import never produces a second row for the same contact.
	UpsertPeople(ctx context.Context, userID int64, people []common.Person) error
	InsertEvidence(ctx context.Context, events []common.EvidenceEvent) (int64, error)

	DeleteEvidenceBatch(ctx context.Context, ids []int64) (int64, error)
	MarkEvidenceStatus(ctx context.Context, ids []int64, status string) (int64, error)

	// ReplaceEdges swaps a user's derived edge set atomically; the previous
	// set stays intact when the write fails.
	ReplaceEdges(ctx context.Context, userID int64, edges []common.Edge) error
	ListEdges(ctx context.Context, userID int64) ([]common.Edge, error)
}
