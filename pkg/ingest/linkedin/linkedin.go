// Package linkedin imports the Connections.csv file from a LinkedIn
// data archive.
package linkedin

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/netweave/intrograph/backend/pkg/common"
	"github.com/netweave/intrograph/backend/pkg/ingest"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrNoHeader means the connections header row was not found. Archives
// start with a few "Notes:" preamble lines before it.
var ErrNoHeader = errors.New("linkedin import: connections header not found")

// connectedOnLayout is the date format LinkedIn writes, e.g. "04 Mar 2021".
const connectedOnLayout = "02 Jan 2006"

type LinkedInImporter struct{}

func NewLinkedInImporter() *LinkedInImporter {
	return &LinkedInImporter{}
}

// Parse reads the connections export. Every row becomes one
// linkedin_connection event between the user and the contact, dated at
// the connection date.
func (i *LinkedInImporter) Parse(ctx context.Context, r io.Reader, params ingest.ParseParams) (ingest.Batch, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	cols, err := findHeader(reader)
	if err != nil {
		return ingest.Batch{}, err
	}

	field := func(record []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var batch ingest.Batch
	seen := make(map[string]bool)

	for {
		if err := ctx.Err(); err != nil {
			return ingest.Batch{}, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			batch.Skipped++
			continue
		}

		name := strings.TrimSpace(field(record, "first name") + " " + field(record, "last name"))
		email := field(record, "email address")
		personID := ingest.PersonID(email, name)
		if personID == "" || personID == params.SelfID {
			batch.Skipped++
			continue
		}

		connectedOn := field(record, "connected on")
		occurredAt, err := time.Parse(connectedOnLayout, connectedOn)
		if err != nil {
			batch.Skipped++
			continue
		}

		if !seen[personID] {
			seen[personID] = true
			p := common.Person{
				PublicID:     personID,
				Title:        field(record, "position"),
				Organization: field(record, "company"),
			}
			if name != "" {
				p.Names = []string{name}
			}
			if e := ingest.NormalizeEmail(email); e != "" {
				p.Emails = []string{e}
			}
			batch.People = append(batch.People, p)
		}

		publicID, err := gonanoid.New()
		if err != nil {
			return ingest.Batch{}, err
		}

		batch.Events = append(batch.Events, common.EvidenceEvent{
			PublicID:   publicID,
			UserID:     params.UserID,
			SubjectID:  params.SelfID,
			ObjectID:   personID,
			Type:       common.EventLinkedIn,
			Source:     common.SourceLinkedInArchive,
			OccurredAt: occurredAt.UTC(),
			CreatedAt:  params.Now,
			Metadata: common.EventMetadata{
				LinkedIn: &common.LinkedInMetadata{
					ConnectedOn: connectedOn,
					ProfileURL:  field(record, "url"),
				},
			},
		})
	}

	return batch, nil
}

// findHeader scans past the archive preamble until it sees the row with
// the "First Name" column.
func findHeader(reader *csv.Reader) (map[string]int, error) {
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil, ErrNoHeader
		}
		if err != nil {
			continue
		}

		cols := make(map[string]int, len(record))
		for idx, name := range record {
			cols[strings.ToLower(strings.TrimSpace(name))] = idx
		}
		if _, ok := cols["first name"]; ok {
			return cols, nil
		}
	}
}
