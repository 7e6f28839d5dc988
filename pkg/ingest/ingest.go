// Package ingest turns uploaded network exports into people and evidence
// events. Each format lives in its own subpackage behind the Importer
// interface; the engine never sees raw upload bytes.
package ingest

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/netweave/intrograph/backend/pkg/common"
)

// ParseParams scopes one import run. SelfID is the public ID of the
// user's own node and becomes the subject of every produced event.
type ParseParams struct {
	UserID int64
	SelfID string
	Now    time.Time
}

// Batch is the parsed output of one import. Skipped counts rows that
// were present but could not be turned into an event.
type Batch struct {
	People  []common.Person
	Events  []common.EvidenceEvent
	Skipped int
}

// Importer parses one upload format into a batch for a user.
type Importer interface {
	Parse(ctx context.Context, r io.Reader, params ParseParams) (Batch, error)
}

// NormalizeEmail lowercases and trims an address so the same contact
// maps to the same person across imports.
func NormalizeEmail(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// PersonID derives a stable public ID for an imported contact. Email is
// preferred since it survives re-imports; contacts without one fall back
// to a name slug, which is the best identity the upload offers.
func PersonID(email, name string) string {
	if e := NormalizeEmail(email); e != "" {
		return e
	}
	slug := strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(slug), "-")
}
