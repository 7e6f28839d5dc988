// Package csv imports generic interaction-log CSV files. The expected
// header is name,email,event_type,occurred_at with optional title and
// organization columns in any order.
package csv

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

// ErrNoHeader means the file has no usable header row.
var ErrNoHeader = errors.New("csv import: missing header row")

type CSVImporter struct{}

func NewCSVImporter() *CSVImporter {
	return &CSVImporter{}
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Parse reads the whole log. Rows missing a contact identity or a
// parseable timestamp are skipped and counted, never fatal; a malformed
// upload should still yield whatever evidence it does contain.
func (i *CSVImporter) Parse(ctx context.Context, r io.Reader, params ingest.ParseParams) (ingest.Batch, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return ingest.Batch{}, ErrNoHeader
	}
	cols := make(map[string]int, len(header))
	for idx, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = idx
	}
	if _, ok := cols["occurred_at"]; !ok {
		return ingest.Batch{}, ErrNoHeader
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

		name := field(record, "name")
		email := field(record, "email")
		personID := ingest.PersonID(email, name)
		if personID == "" || personID == params.SelfID {
			batch.Skipped++
			continue
		}

		occurredAt, ok := parseTime(field(record, "occurred_at"))
		if !ok {
			batch.Skipped++
			continue
		}

		if !seen[personID] {
			seen[personID] = true
			p := common.Person{
				PublicID:     personID,
				Title:        field(record, "title"),
				Organization: field(record, "organization"),
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

		eventType := common.EventType(field(record, "event_type"))
		if eventType == "" {
			eventType = common.EventEmailExchanged
		}

		batch.Events = append(batch.Events, common.EvidenceEvent{
			PublicID:   publicID,
			UserID:     params.UserID,
			SubjectID:  params.SelfID,
			ObjectID:   personID,
			Type:       eventType,
			Source:     common.SourceCSV,
			OccurredAt: occurredAt,
			CreatedAt:  params.Now,
		})
	}

	return batch, nil
}
