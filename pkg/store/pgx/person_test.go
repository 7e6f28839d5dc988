package pgx

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/netweave/intrograph/backend/pkg/common"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type queryCall struct {
	sql  string
	args []any
}

type stubRow struct {
	err error
	id  int64
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) > 0 {
		if p, ok := dest[0].(*int64); ok {
			*p = r.id
		}
	}
	return nil
}

// stubConn records QueryRow calls and plays back canned rows in order.
type stubConn struct {
	calls []queryCall
	rows  []stubRow
}

func (c *stubConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("unexpected Exec")
}

func (c *stubConn) Query(ctx context.Context, sql string, args ...any) (pgxv5.Rows, error) {
	return nil, errors.New("unexpected Query")
}

func (c *stubConn) QueryRow(ctx context.Context, sql string, args ...any) pgxv5.Row {
	c.calls = append(c.calls, queryCall{sql: sql, args: args})
	if len(c.rows) == 0 {
		return stubRow{err: errors.New("no canned row")}
	}
	row := c.rows[0]
	c.rows = c.rows[1:]
	return row
}

func (c *stubConn) Begin(ctx context.Context) (pgxv5.Tx, error) {
	return nil, errors.New("unexpected Begin")
}

func TestUpsertSelfPersonInsertsWhenMissing(t *testing.T) {
	conn := &stubConn{rows: []stubRow{
		{err: pgxv5.ErrNoRows},
		{id: 42},
	}}
	storage := NewEvidenceDBStorage(conn)

	self, err := storage.UpsertSelfPerson(context.Background(), 7, common.Person{
		PublicID: "me@example.com",
		Names:    []string{"Me Myself"},
		Emails:   []string{"me@example.com"},
	})
	if err != nil {
		t.Fatalf("UpsertSelfPerson failed: %v", err)
	}

	if len(conn.calls) != 2 {
		t.Fatalf("expected update attempt then insert, got %d queries", len(conn.calls))
	}
	if !strings.Contains(conn.calls[0].sql, "UPDATE people") || !strings.Contains(conn.calls[0].sql, "is_self") {
		t.Errorf("first query should update the existing self row, got:\n%s", conn.calls[0].sql)
	}
	if !strings.Contains(conn.calls[1].sql, "INSERT INTO people") || !strings.Contains(conn.calls[1].sql, "TRUE") {
		t.Errorf("insert must set is_self, got:\n%s", conn.calls[1].sql)
	}
	if got := conn.calls[1].args[0]; got != int64(7) {
		t.Errorf("expected insert scoped to user 7, got %v", got)
	}

	if self.ID != 42 || self.PublicID != "me@example.com" {
		t.Errorf("unexpected upserted person: %+v", self)
	}
}

func TestUpsertSelfPersonUpdatesExisting(t *testing.T) {
	conn := &stubConn{rows: []stubRow{{id: 9}}}
	storage := NewEvidenceDBStorage(conn)

	self, err := storage.UpsertSelfPerson(context.Background(), 7, common.Person{
		PublicID: "me@example.com",
		Names:    []string{"Me Myself"},
	})
	if err != nil {
		t.Fatalf("UpsertSelfPerson failed: %v", err)
	}

	if len(conn.calls) != 1 {
		t.Fatalf("expected a single update, got %d queries", len(conn.calls))
	}
	if self.ID != 9 {
		t.Errorf("expected the existing row id, got %d", self.ID)
	}
}
