package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ortelius/orgmap-backend/model"
)

// ErrNotFound is returned when an organization id is not in the store
var ErrNotFound = errors.New("organization not found")

// MutationKind identifies which local fallback to apply when the backend returns no record
type MutationKind int

const (
	// StatusMutation sets the status.
	StatusMutation MutationKind = iota + 1
	// NoteMutation sets notes and appends a history entry.
	NoteMutation
)

// Mutation describes the change that was requested from the backend
type Mutation struct {
	Kind      MutationKind
	Status    string
	Note      string
	NoteTaker string
}

// Location fields never change through a status or note update
var immutablePatchKeys = map[string]bool{"id": true, "lat": true, "lon": true}

// Store is the in-memory cache of the two disjoint organization collections
type Store struct {
	withLocation    []*model.Organization
	withoutLocation []*model.Organization
	index           map[int]*model.Organization
	now             func() time.Time
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{index: map[int]*model.Organization{}, now: time.Now}
}

// LoadAll replaces both collections.
// Records are re-partitioned by coordinate finiteness and duplicate ids keep their first occurrence.
func (s *Store) LoadAll(withLocation, withoutLocation []model.Organization) {
	s.withLocation = nil
	s.withoutLocation = nil
	s.index = make(map[int]*model.Organization, len(withLocation)+len(withoutLocation))

	add := func(src []model.Organization) {
		for i := range src {
			if _, dup := s.index[src[i].ID]; dup {
				continue
			}
			org := src[i].Clone()
			org.Status = org.StatusOrDefault()
			if org.NoteHistory == nil {
				org.NoteHistory = []model.NoteEntry{}
			}
			s.index[org.ID] = &org
			if org.HasLocation() {
				s.withLocation = append(s.withLocation, &org)
			} else {
				s.withoutLocation = append(s.withoutLocation, &org)
			}
		}
	}
	add(withLocation)
	add(withoutLocation)
}

// FindByID returns a copy of the organization with the given id
func (s *Store) FindByID(id int) (model.Organization, bool) {
	org, ok := s.index[id]
	if !ok {
		return model.Organization{}, false
	}
	return org.Clone(), true
}

// MergeUpdate applies a backend update to the stored organization.
// A non-empty record is shallow-merged: keys absent from it are untouched.
// An empty record applies the fallback mutation locally.
func (s *Store) MergeUpdate(id int, record model.OrganizationPatch, fallback Mutation) error {
	org, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if len(record) > 0 {
		return mergePatch(org, record)
	}

	switch fallback.Kind {
	case StatusMutation:
		org.Status = fallback.Status
	case NoteMutation:
		org.Notes = fallback.Note
		org.NoteTaker = fallback.NoteTaker
		org.NoteHistory = append(org.NoteHistory, model.NoteEntry{
			NoteTaker: fallback.NoteTaker,
			Note:      fallback.Note,
			Date:      s.now().Format("2006-01-02 15:04"),
		})
	}
	return nil
}

// WithLocation returns copies of the with-location collection in load order
func (s *Store) WithLocation() []model.Organization { return cloneAll(s.withLocation) }

// WithoutLocation returns copies of the without-location collection in load order
func (s *Store) WithoutLocation() []model.Organization { return cloneAll(s.withoutLocation) }

// All returns both collections, with-location first
func (s *Store) All() []model.Organization {
	return append(s.WithLocation(), s.WithoutLocation()...)
}

// Len returns the number of stored organizations
func (s *Store) Len() int { return len(s.index) }

func mergePatch(org *model.Organization, record model.OrganizationPatch) error {
	current, err := json.Marshal(org)
	if err != nil {
		return fmt.Errorf("failed to encode organization %d: %w", org.ID, err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(current, &fields); err != nil {
		return fmt.Errorf("failed to decode organization %d: %w", org.ID, err)
	}
	for k, v := range record {
		if immutablePatchKeys[k] {
			continue
		}
		fields[k] = v
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode merged organization %d: %w", org.ID, err)
	}

	var updated model.Organization
	if err := json.Unmarshal(merged, &updated); err != nil {
		return fmt.Errorf("failed to apply update to organization %d: %w", org.ID, err)
	}
	updated.Status = updated.StatusOrDefault()
	if updated.NoteHistory == nil {
		updated.NoteHistory = []model.NoteEntry{}
	}
	*org = updated
	return nil
}

func cloneAll(src []*model.Organization) []model.Organization {
	out := make([]model.Organization, 0, len(src))
	for _, org := range src {
		out = append(out, org.Clone())
	}
	return out
}
