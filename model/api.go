// Package model - API types exchanged between the dashboard and the backend
package model

import (
	"encoding/json"
	"time"
)

// StatusUpdateRequest is the body of PUT /api/organizations/{id}/status.
// Nil fields are omitted so a notes-only call never touches the status.
type StatusUpdateRequest struct {
	Status    *string `json:"status,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	NoteTaker *string `json:"note_taker,omitempty"`
}

// StatusUpdateResponse is returned by a successful status update
type StatusUpdateResponse struct {
	Success      bool          `json:"success"`
	Organization *Organization `json:"organization,omitempty"`
}

// OrganizationPatch is the authoritative record as received on the wire.
// Keys absent from the patch are left untouched when merged.
type OrganizationPatch map[string]json.RawMessage

// StatusUpdatedEvent is published after every successful status or note update
type StatusUpdatedEvent struct {
	EventType     string       `json:"event_type"`
	EventID       string       `json:"event_id"`
	EventTime     time.Time    `json:"event_time"`
	SchemaVersion string       `json:"schema_version"`
	Source        string       `json:"source"`
	Organization  Organization `json:"organization"`
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
