package pgx

import (
	"context"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// EvidenceDBStorage implements the EvidenceStorage interface on PostgreSQL.
// It holds no per-request state; one instance is shared across handlers.
type EvidenceDBStorage struct {
	conn pgxIConn
}

// NewEvidenceDBStorage creates an EvidenceDBStorage on an existing
// database connection or pool.
func NewEvidenceDBStorage(conn pgxIConn) *EvidenceDBStorage {
	return &EvidenceDBStorage{conn: conn}
}
