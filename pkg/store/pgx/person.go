package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/netweave/intrograph/backend/pkg/common"

	pgxv5 "github.com/jackc/pgx/v5"
)

// ErrPersonNotFound is returned when a person id is absent from a user's
// catalog.
var ErrPersonNotFound = errors.New("person not found")

const listPeopleSQL = `
SELECT id, public_id, names, emails, title, organization
FROM people
WHERE user_id = $1
ORDER BY public_id
`

const getPersonSQL = `
SELECT id, public_id, names, emails, title, organization
FROM people
WHERE user_id = $1 AND public_id = $2
`

const getSelfPersonSQL = `
SELECT id, public_id, names, emails, title, organization
FROM people
WHERE user_id = $1 AND is_self
`

const updateSelfPersonSQL = `
UPDATE people
SET public_id = $2, names = $3, emails = $4, title = $5, organization = $6
WHERE user_id = $1 AND is_self
RETURNING id
`

const insertSelfPersonSQL = `
INSERT INTO people (user_id, public_id, names, emails, title, organization, is_self)
VALUES ($1, $2, $3, $4, $5, $6, TRUE)
ON CONFLICT (user_id, public_id) DO UPDATE
SET names        = EXCLUDED.names,
    emails       = EXCLUDED.emails,
    title        = EXCLUDED.title,
    organization = EXCLUDED.organization,
    is_self      = TRUE
RETURNING id
`

func scanPerson(row pgxv5.Row) (common.Person, error) {
	var p common.Person
	err := row.Scan(&p.ID, &p.PublicID, &p.Names, &p.Emails, &p.Title, &p.Organization)
	return p, err
}

// ListPeople returns the person catalog for one user.
func (s *EvidenceDBStorage) ListPeople(ctx context.Context, userID int64) ([]common.Person, error) {
	rows, err := s.conn.Query(ctx, listPeopleSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	people := make([]common.Person, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

// GetPerson returns one person from a user's catalog.
func (s *EvidenceDBStorage) GetPerson(ctx context.Context, userID int64, publicID string) (common.Person, error) {
	p, err := scanPerson(s.conn.QueryRow(ctx, getPersonSQL, userID, publicID))
	if err != nil {
		if errors.Is(err, pgxv5.ErrNoRows) {
			return common.Person{}, ErrPersonNotFound
		}
		return common.Person{}, fmt.Errorf("failed to get person: %w", err)
	}
	return p, nil
}

// UpsertSelfPerson creates or refreshes the person node that represents
// the owning user. An existing self row is updated in place; otherwise
// the row is inserted, flipping is_self on a matching imported contact if
// one already exists under the same public ID. Every other read and
// write in the system assumes this node exists, so registration routes
// call this before anything else can work.
func (s *EvidenceDBStorage) UpsertSelfPerson(ctx context.Context, userID int64, p common.Person) (common.Person, error) {
	names := p.Names
	if names == nil {
		names = []string{}
	}
	emails := p.Emails
	if emails == nil {
		emails = []string{}
	}

	err := s.conn.QueryRow(ctx, updateSelfPersonSQL,
		userID, p.PublicID, names, emails, p.Title, p.Organization).Scan(&p.ID)
	if errors.Is(err, pgxv5.ErrNoRows) {
		err = s.conn.QueryRow(ctx, insertSelfPersonSQL,
			userID, p.PublicID, names, emails, p.Title, p.Organization).Scan(&p.ID)
	}
	if err != nil {
		return common.Person{}, fmt.Errorf("failed to upsert self person: %w", err)
	}
	return p, nil
}

// GetSelfPerson returns the person node that represents the owning user
// themselves, the source of every intro path query.
func (s *EvidenceDBStorage) GetSelfPerson(ctx context.Context, userID int64) (common.Person, error) {
	p, err := scanPerson(s.conn.QueryRow(ctx, getSelfPersonSQL, userID))
	if err != nil {
		if errors.Is(err, pgxv5.ErrNoRows) {
			return common.Person{}, ErrPersonNotFound
		}
		return common.Person{}, fmt.Errorf("failed to get self person: %w", err)
	}
	return p, nil
}
