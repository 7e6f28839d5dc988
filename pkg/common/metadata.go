package common

import (
	"encoding/json"
	"fmt"
)

// EmailMetadata carries the email-specific fields of an evidence event.
type EmailMetadata struct {
	ThreadID string `json:"thread_id,omitempty"`
	Subject  string `json:"subject,omitempty"`
}

// MeetingMetadata carries the calendar-specific fields of an evidence event.
type MeetingMetadata struct {
	Title         string `json:"title,omitempty"`
	AttendeeCount int    `json:"attendee_count,omitempty"`
	DurationMin   int    `json:"duration_min,omitempty"`
}

// LinkedInMetadata carries the fields parsed from a LinkedIn connection
// archive row.
type LinkedInMetadata struct {
	ConnectedOn string `json:"connected_on,omitempty"`
	ProfileURL  string `json:"profile_url,omitempty"`
}

// EventMetadata is a typed union over the known event types, plus an opaque
// payload for anything the engine has no schema for. Exactly one of the
// typed fields is set for validated events; Raw keeps whatever the
// ingestion adapter delivered when the type is unknown.
type EventMetadata struct {
	Email    *EmailMetadata    `json:"email,omitempty"`
	Meeting  *MeetingMetadata  `json:"meeting,omitempty"`
	LinkedIn *LinkedInMetadata `json:"linkedin,omitempty"`
	Raw      json.RawMessage   `json:"raw,omitempty"`
}

// EncodePayload is the inverse of DecodeMetadata: it serializes the set
// typed field (or the opaque payload) back to the storage representation.
// Returns nil for empty metadata.
func (m EventMetadata) EncodePayload() ([]byte, error) {
	switch {
	case m.Email != nil:
		return json.Marshal(m.Email)
	case m.Meeting != nil:
		return json.Marshal(m.Meeting)
	case m.LinkedIn != nil:
		return json.Marshal(m.LinkedIn)
	case len(m.Raw) > 0:
		return m.Raw, nil
	}
	return nil, nil
}

// DecodeMetadata validates a raw metadata payload against the event type.
// Unknown event types keep the payload opaque instead of failing, so the
// ingestion boundary stays the single place that rejects bad data.
func DecodeMetadata(eventType EventType, raw []byte) (EventMetadata, error) {
	var meta EventMetadata
	if len(raw) == 0 {
		return meta, nil
	}

	switch eventType {
	case EventEmailExchanged, EventMessageSent, EventMessageReceived:
		m := &EmailMetadata{}
		if err := json.Unmarshal(raw, m); err != nil {
			return meta, fmt.Errorf("invalid email metadata: %w", err)
		}
		meta.Email = m
	case EventMeetingAttended:
		m := &MeetingMetadata{}
		if err := json.Unmarshal(raw, m); err != nil {
			return meta, fmt.Errorf("invalid meeting metadata: %w", err)
		}
		meta.Meeting = m
	case EventLinkedIn:
		m := &LinkedInMetadata{}
		if err := json.Unmarshal(raw, m); err != nil {
			return meta, fmt.Errorf("invalid linkedin metadata: %w", err)
		}
		meta.LinkedIn = m
	default:
		meta.Raw = json.RawMessage(raw)
	}

	return meta, nil
}
