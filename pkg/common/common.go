package common

import (
	"time"
)

// EventType enumerates the kinds of interactions the engine knows how to score.
type EventType string

const (
	EventEmailExchanged  EventType = "email_exchanged"
	EventMeetingAttended EventType = "meeting_attended"
	EventLinkedIn        EventType = "linkedin_connection"
	EventMessageSent     EventType = "message_sent"
	EventMessageReceived EventType = "message_received"
)

// EventSource enumerates where an evidence event was ingested from.
type EventSource string

const (
	SourceGmail           EventSource = "gmail"
	SourceLinkedInArchive EventSource = "linkedin_archive"
	SourceCalendar        EventSource = "calendar"
	SourceCSV             EventSource = "csv"
	SourceManual          EventSource = "manual"
)

// Person represents an identity node in a user's network. The first entry
// in Names is the canonical display name. People are owned by the ingestion
// and storage layer; the engine treats them as read-only input.
type Person struct {
	ID           int64    `json:"-"`
	PublicID     string   `json:"id"`
	Names        []string `json:"names"`
	Emails       []string `json:"emails,omitempty"`
	Title        string   `json:"title,omitempty"`
	Organization string   `json:"organization,omitempty"`
}

// DisplayName returns the canonical display name of the person, falling
// back to the public ID when no name is known.
func (p Person) DisplayName() string {
	if len(p.Names) > 0 && p.Names[0] != "" {
		return p.Names[0]
	}
	return p.PublicID
}

// EvidenceEvent is a single observed interaction, always scoped to one
// owning user. ObjectID is empty for self-only signals. Two events are
// duplicates iff user, subject, object, type, source and OccurredAt all
// match; among duplicates the earliest-created row is canonical.
type EvidenceEvent struct {
	ID         int64         `json:"-"`
	PublicID   string        `json:"id"`
	UserID     int64         `json:"user_id"`
	SubjectID  string        `json:"subject_person_id"`
	ObjectID   string        `json:"object_person_id,omitempty"`
	Type       EventType     `json:"type"`
	Source     EventSource   `json:"source"`
	OccurredAt time.Time     `json:"occurred_at"`
	CreatedAt  time.Time     `json:"created_at"`
	Metadata   EventMetadata `json:"metadata,omitempty"`
}

// Edge is a derived, directed, per-user relationship summary. Edges are
// recomputed from the deduplicated evidence set and have no independent
// lifecycle.
type Edge struct {
	FromID           string        `json:"from_person_id"`
	ToID             string        `json:"to_person_id"`
	Strength         float64       `json:"strength"`
	InteractionCount int           `json:"interaction_count"`
	Sources          []EventSource `json:"sources"`
	LastInteraction  time.Time     `json:"last_interaction"`
}

// Path is one candidate introduction chain from the requesting user's own
// node to a target person. Paths are ephemeral query results.
type Path struct {
	PersonIDs   []string `json:"path"`
	Edges       []Edge   `json:"edges"`
	Score       float64  `json:"score"`
	Rank        int      `json:"rank"`
	Explanation string   `json:"explanation"`
}
