package linkedin

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/netweave/intrograph/backend/pkg/common"
	"github.com/netweave/intrograph/backend/pkg/ingest"
)

var testParams = ingest.ParseParams{
	UserID: 7,
	SelfID: "me@example.com",
	Now:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
}

const testArchive = `Notes:
"When exporting your connection data, you may be missing information."

First Name,Last Name,URL,Email Address,Company,Position,Connected On
Alice,Smith,https://www.linkedin.com/in/alice,alice@corp.com,Corp,Engineer,04 Mar 2021
Bob,Jones,https://www.linkedin.com/in/bob,,Acme,Designer,15 Jan 2024
`

func TestParseConnectionsArchive(t *testing.T) {
	batch, err := NewLinkedInImporter().Parse(context.Background(), strings.NewReader(testArchive), testParams)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(batch.People) != 2 || len(batch.Events) != 2 {
		t.Fatalf("expected 2 people and 2 events, got %d and %d", len(batch.People), len(batch.Events))
	}

	alice := batch.People[0]
	if alice.PublicID != "alice@corp.com" {
		t.Errorf("expected email identity, got %q", alice.PublicID)
	}
	if alice.DisplayName() != "Alice Smith" {
		t.Errorf("expected joined display name, got %q", alice.DisplayName())
	}
	if alice.Title != "Engineer" || alice.Organization != "Corp" {
		t.Errorf("unexpected title/organization: %+v", alice)
	}

	ev := batch.Events[0]
	if ev.Type != common.EventLinkedIn || ev.Source != common.SourceLinkedInArchive {
		t.Errorf("unexpected type/source: %+v", ev)
	}
	wantOccurred := time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)
	if !ev.OccurredAt.Equal(wantOccurred) {
		t.Errorf("expected occurred_at %v, got %v", wantOccurred, ev.OccurredAt)
	}
	if ev.Metadata.LinkedIn == nil || ev.Metadata.LinkedIn.ConnectedOn != "04 Mar 2021" {
		t.Errorf("expected linkedin metadata, got %+v", ev.Metadata)
	}
	if ev.Metadata.LinkedIn.ProfileURL != "https://www.linkedin.com/in/alice" {
		t.Errorf("unexpected profile url %q", ev.Metadata.LinkedIn.ProfileURL)
	}

	bob := batch.People[1]
	if bob.PublicID != "bob-jones" {
		t.Errorf("expected name-slug identity for contact without email, got %q", bob.PublicID)
	}
}

func TestParseMissingHeader(t *testing.T) {
	_, err := NewLinkedInImporter().Parse(context.Background(), strings.NewReader("Notes:\njust some text\n"), testParams)
	if err != ErrNoHeader {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
}
