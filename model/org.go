// Package model defines the data structures for organization verification tracking.
package model

import (
	"math"
	"strings"
)

// NoteEntry is one record of an organization's note history
type NoteEntry struct {
	NoteTaker string `json:"note_taker"`
	Note      string `json:"note"`
	Date      string `json:"date"`
}

// Organization represents a tracked community organization
type Organization struct {
	ID          int         `json:"id"`
	Name        string      `json:"name,omitempty"`
	Address     string      `json:"address,omitempty"`
	County      string      `json:"county,omitempty"`
	Zipcode     string      `json:"zipcode,omitempty"`
	Website     string      `json:"website,omitempty"`
	Phone       string      `json:"phone,omitempty"`
	Email       string      `json:"email,omitempty"`
	Status      string      `json:"status"`
	Notes       string      `json:"notes"`
	NoteTaker   string      `json:"note_taker"`
	NoteHistory []NoteEntry `json:"note_history"`
	Lat         *float64    `json:"lat"`
	Lon         *float64    `json:"lon"`
}

// HasLocation reports whether both coordinates are present and finite.
// This is the only rule deciding which location collection an organization belongs to.
func (o Organization) HasLocation() bool {
	return isFinite(o.Lat) && isFinite(o.Lon)
}

// StatusOrDefault returns the status, falling back to Pending when unset
func (o Organization) StatusOrDefault() string {
	if strings.TrimSpace(o.Status) == "" {
		return StatusPending
	}
	return o.Status
}

// Clone returns a deep copy so callers never share the note history slice
func (o Organization) Clone() Organization {
	c := o
	if o.NoteHistory != nil {
		c.NoteHistory = make([]NoteEntry, len(o.NoteHistory))
		copy(c.NoteHistory, o.NoteHistory)
	}
	if o.Lat != nil {
		lat := *o.Lat
		c.Lat = &lat
	}
	if o.Lon != nil {
		lon := *o.Lon
		c.Lon = &lon
	}
	return c
}

// SplitByLocation partitions organizations into the with-location and without-location collections.
// Input order is preserved inside each collection.
func SplitByLocation(orgs []Organization) (withLocation, withoutLocation []Organization) {
	withLocation = []Organization{}
	withoutLocation = []Organization{}
	for _, org := range orgs {
		if org.HasLocation() {
			withLocation = append(withLocation, org)
		} else {
			withoutLocation = append(withoutLocation, org)
		}
	}
	return withLocation, withoutLocation
}

func isFinite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
