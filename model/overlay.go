// Package model - persisted overlay of operator edits on top of the dataset
package model

import "strconv"

// OverlaySchemaVersion is written into every persisted overlay document
const OverlaySchemaVersion = "1.0.0"

// Overlay holds the operator-edited fields of one organization
type Overlay struct {
	Status      string      `json:"status"`
	Notes       string      `json:"notes"`
	NoteTaker   string      `json:"note_taker"`
	NoteHistory []NoteEntry `json:"note_history"`
}

// OverlayState is the persisted document: overlays keyed by organization id
type OverlayState struct {
	SchemaVersion string             `json:"schema_version"`
	Organizations map[string]Overlay `json:"organizations"`
}

// NewOverlayState returns an empty overlay document at the current schema version
func NewOverlayState() OverlayState {
	return OverlayState{
		SchemaVersion: OverlaySchemaVersion,
		Organizations: map[string]Overlay{},
	}
}

// Get returns the overlay recorded for an organization id
func (s OverlayState) Get(id int) (Overlay, bool) {
	o, ok := s.Organizations[strconv.Itoa(id)]
	return o, ok
}

// Set records the current editable fields of an organization
func (s *OverlayState) Set(org Organization) {
	if s.Organizations == nil {
		s.Organizations = map[string]Overlay{}
	}
	history := make([]NoteEntry, len(org.NoteHistory))
	copy(history, org.NoteHistory)
	s.Organizations[strconv.Itoa(org.ID)] = Overlay{
		Status:      org.Status,
		Notes:       org.Notes,
		NoteTaker:   org.NoteTaker,
		NoteHistory: history,
	}
}

// Apply copies the overlay fields onto the organization
func (o Overlay) Apply(org *Organization) {
	if o.Status != "" {
		org.Status = o.Status
	}
	org.Notes = o.Notes
	org.NoteTaker = o.NoteTaker
	if o.NoteHistory != nil {
		org.NoteHistory = make([]NoteEntry, len(o.NoteHistory))
		copy(org.NoteHistory, o.NoteHistory)
	}
}
