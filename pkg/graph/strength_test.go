package graph

import (
	"testing"
	"time"

	"github.com/netweave/intrograph/backend/pkg/common"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testClient(t *testing.T) *GraphClient {
	t.Helper()
	g, err := NewGraphClient(NewGraphClientParams{})
	if err != nil {
		t.Fatalf("NewGraphClient failed: %v", err)
	}
	return g
}

func meetingAt(id int64, occurred time.Time) common.EvidenceEvent {
	return common.EvidenceEvent{
		ID:         id,
		UserID:     1,
		SubjectID:  "me",
		ObjectID:   "alice",
		Type:       common.EventMeetingAttended,
		Source:     common.SourceCalendar,
		OccurredAt: occurred,
		CreatedAt:  occurred,
	}
}

func TestStrengthEmptyEvents(t *testing.T) {
	g := testClient(t)

	if got := g.Strength(nil, testNow); got != 0 {
		t.Fatalf("expected 0 for no evidence, got %f", got)
	}
	if got := g.Strength([]common.EvidenceEvent{}, testNow); got != 0 {
		t.Fatalf("expected 0 for empty evidence, got %f", got)
	}
}

func TestStrengthDecay(t *testing.T) {
	g := testClient(t)

	tests := []struct {
		name    string
		ageDays int
		min     float64
		max     float64
	}{
		{name: "fresh event", ageDays: 0, min: 0.99, max: 1.0},
		{name: "one month", ageDays: 30, min: 0.82, max: 0.88},
		{name: "half-life point", ageDays: 180, min: 0.34, max: 0.40},
		{name: "one year", ageDays: 365, min: 0.10, max: 0.16},
		{name: "two years", ageDays: 730, min: 0.0, max: 0.02},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := meetingAt(1, testNow.AddDate(0, 0, -tt.ageDays))
			got := g.Strength([]common.EvidenceEvent{ev}, testNow)
			if got < tt.min || got > tt.max {
				t.Fatalf("strength at %d days = %f, want in [%f, %f]", tt.ageDays, got, tt.min, tt.max)
			}
		})
	}
}

func TestStrengthFutureTimestampClamped(t *testing.T) {
	g := testClient(t)

	ev := meetingAt(1, testNow.AddDate(0, 0, 365))
	got := g.Strength([]common.EvidenceEvent{ev}, testNow)
	if got != 1 {
		t.Fatalf("expected future event recency to clamp to 1, got %f", got)
	}
}

func TestStrengthMonotoneInNewEvidence(t *testing.T) {
	g := testClient(t)

	events := []common.EvidenceEvent{
		meetingAt(1, testNow.AddDate(0, 0, -400)),
		meetingAt(2, testNow.AddDate(0, 0, -300)),
	}
	before := g.Strength(events, testNow)

	withRecent := append(events, meetingAt(3, testNow.AddDate(0, 0, -1)))
	after := g.Strength(withRecent, testNow)

	if after < before {
		t.Fatalf("adding recent evidence lowered strength: %f -> %f", before, after)
	}
}

func TestStrengthBounded(t *testing.T) {
	g := testClient(t)

	var events []common.EvidenceEvent
	for i := range 50 {
		events = append(events, meetingAt(int64(i+1), testNow.AddDate(0, 0, -i)))
	}

	got := g.Strength(events, testNow)
	if got < 0 || got > 1 {
		t.Fatalf("strength out of bounds: %f", got)
	}
	if got != 1 {
		t.Fatalf("expected 50 recent meetings to saturate at 1, got %f", got)
	}

	ancient := []common.EvidenceEvent{meetingAt(1, testNow.AddDate(-40, 0, 0))}
	got = g.Strength(ancient, testNow)
	if got < 0 || got > 1 {
		t.Fatalf("strength out of bounds for ancient evidence: %f", got)
	}
}

func TestStrengthTypeWeighting(t *testing.T) {
	g := testClient(t)

	when := testNow.AddDate(0, 0, -10)
	meeting := meetingAt(1, when)
	linkedin := meetingAt(2, when)
	linkedin.Type = common.EventLinkedIn

	sm := g.Strength([]common.EvidenceEvent{meeting}, testNow)
	sl := g.Strength([]common.EvidenceEvent{linkedin}, testNow)
	if sl >= sm {
		t.Fatalf("expected linkedin connection (%f) to weigh less than a meeting (%f)", sl, sm)
	}
}
