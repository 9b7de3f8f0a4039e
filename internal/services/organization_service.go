// Package services provides the organization registry shared by the REST API,
// the GraphQL schema, the dashboard sessions and the event consumer.
package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/ortelius/orgmap-backend/database"
	"github.com/ortelius/orgmap-backend/internal/dashboard"
	"github.com/ortelius/orgmap-backend/internal/dataset"
	"github.com/ortelius/orgmap-backend/internal/metrics"
	"github.com/ortelius/orgmap-backend/model"
	"go.uber.org/zap"
)

// ErrOrganizationNotFound is returned for ids unknown to the registry
var ErrOrganizationNotFound = errors.New("organization not found")

// EventPublisher announces applied updates to other replicas
type EventPublisher interface {
	PublishStatusUpdated(ctx context.Context, org model.Organization) error
}

// OrganizationService holds the dataset with the operator overlay applied
type OrganizationService struct {
	mu      sync.RWMutex
	writeMu sync.Mutex // serializes update and persist so saves land in order

	orgs    []model.Organization
	index   map[int]int
	overlay model.OverlayState

	store     database.OverlayStore
	publisher EventPublisher
	source    string
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrganizationService builds the registry from the dataset and the persisted overlay
func NewOrganizationService(orgs []model.Organization, state model.OverlayState, store database.OverlayStore, logger *zap.Logger) *OrganizationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if state.Organizations == nil {
		state = model.NewOverlayState()
	}
	s := &OrganizationService{
		orgs:    make([]model.Organization, 0, len(orgs)),
		index:   make(map[int]int, len(orgs)),
		overlay: cloneState(state),
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
	for _, org := range orgs {
		if _, dup := s.index[org.ID]; dup {
			logger.Warn("Skipping duplicate organization id", zap.Int("org_id", org.ID))
			continue
		}
		org = org.Clone()
		org.Status = org.StatusOrDefault()
		if org.NoteHistory == nil {
			org.NoteHistory = []model.NoteEntry{}
		}
		s.index[org.ID] = len(s.orgs)
		s.orgs = append(s.orgs, org)
	}
	applied := dataset.ApplyOverlay(s.orgs, s.overlay)
	logger.Info("Organizations loaded", zap.Int("count", len(s.orgs)), zap.Int("overlays_applied", applied))
	return s
}

// SetPublisher enables event publishing; source identifies this replica in the events
func (s *OrganizationService) SetPublisher(p EventPublisher, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publisher = p
	s.source = source
}

// Source returns the replica identifier used in published events
func (s *OrganizationService) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Counties returns the unique county names sorted case-insensitively
func (s *OrganizationService) Counties() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return dataset.Counties(s.orgs)
}

// All returns every organization in dataset order
func (s *OrganizationService) All() []model.Organization {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Organization, 0, len(s.orgs))
	for _, org := range s.orgs {
		out = append(out, org.Clone())
	}
	return out
}

// WithLocation returns the organizations with finite coordinates
func (s *OrganizationService) WithLocation() []model.Organization {
	with, _ := model.SplitByLocation(s.All())
	return with
}

// WithoutLocation returns the organizations lacking finite coordinates
func (s *OrganizationService) WithoutLocation() []model.Organization {
	_, without := model.SplitByLocation(s.All())
	return without
}

// Find returns the organization with the given id
func (s *OrganizationService) Find(id int) (model.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return model.Organization{}, fmt.Errorf("%w: %d", ErrOrganizationNotFound, id)
	}
	return s.orgs[i].Clone(), nil
}

// MapOrganizations returns the organizations placed on the map for the query
func (s *OrganizationService) MapOrganizations(q dashboard.MapQuery) []model.Organization {
	return q.Select(s.WithLocation())
}

// State returns a copy of the overlay document
func (s *OrganizationService) State() model.OverlayState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.overlay)
}

// UpdateStatus applies a status and/or note change.
// An absent status keeps the current one. Present notes and note_taker overwrite, and a
// non-empty note appends one history entry. The overlay is persisted and an event published;
// failures of either are logged and do not fail the update.
func (s *OrganizationService) UpdateStatus(ctx context.Context, id int, req model.StatusUpdateRequest) (model.Organization, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return model.Organization{}, fmt.Errorf("%w: %d", ErrOrganizationNotFound, id)
	}
	org := &s.orgs[i]
	if req.Status != nil {
		org.Status = *req.Status
	}
	if req.Notes != nil {
		org.Notes = *req.Notes
	}
	if req.NoteTaker != nil {
		org.NoteTaker = *req.NoteTaker
	}
	if req.Notes != nil && *req.Notes != "" {
		taker := ""
		if req.NoteTaker != nil {
			taker = *req.NoteTaker
		}
		org.NoteHistory = append(org.NoteHistory, model.NoteEntry{
			NoteTaker: taker,
			Note:      *req.Notes,
			Date:      s.now().Format("2006-01-02 15:04"),
		})
	}
	s.overlay.Set(*org)
	updated := org.Clone()
	snapshot := cloneState(s.overlay)
	publisher := s.publisher
	s.mu.Unlock()

	kind := metrics.KindNote
	if req.Status != nil {
		kind = metrics.KindStatus
	}
	metrics.StatusUpdates.WithLabelValues(kind).Inc()

	if s.store != nil {
		if err := s.store.Save(ctx, snapshot); err != nil {
			s.logger.Error("Failed to persist overlay", zap.Int("org_id", id), zap.Error(err))
		}
	}
	if publisher != nil {
		if err := publisher.PublishStatusUpdated(ctx, updated); err != nil {
			s.logger.Error("Failed to publish status update", zap.Int("org_id", id), zap.Error(err))
		}
	}

	s.logger.Info("Organization updated", zap.Int("org_id", id), zap.String("status", updated.Status), zap.String("kind", kind))
	return updated, nil
}

// ApplyRemote merges an update published by another replica.
// Only the editable fields are taken; location and contact data stay as loaded.
// It reports whether the event changed this registry.
func (s *OrganizationService) ApplyRemote(event model.StatusUpdatedEvent) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.Source != "" && event.Source == s.source {
		return false
	}
	i, ok := s.index[event.Organization.ID]
	if !ok {
		s.logger.Warn("Ignoring update for unknown organization", zap.Int("org_id", event.Organization.ID), zap.String("source", event.Source))
		return false
	}
	remote := event.Organization.Clone()
	org := &s.orgs[i]
	org.Status = remote.StatusOrDefault()
	org.Notes = remote.Notes
	org.NoteTaker = remote.NoteTaker
	if remote.NoteHistory != nil {
		org.NoteHistory = remote.NoteHistory
	}
	s.overlay.Set(*org)
	metrics.StatusUpdates.WithLabelValues(metrics.KindRemote).Inc()
	return true
}

var exportColumns = []string{
	"id", "name", "address", "county", "zipcode", "website", "phone", "email",
	"lat", "lon", "status", "notes", "note_taker", "note_history",
}

// ExportCSV writes a snapshot of every organization, note history as a JSON string column
func (s *OrganizationService) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportColumns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, org := range s.All() {
		history, err := json.Marshal(org.NoteHistory)
		if err != nil {
			return fmt.Errorf("failed to encode note history of %d: %w", org.ID, err)
		}
		row := []string{
			strconv.Itoa(org.ID), org.Name, org.Address, org.County, org.Zipcode, org.Website,
			org.Phone, org.Email, formatCoordinate(org.Lat), formatCoordinate(org.Lon),
			org.Status, org.Notes, org.NoteTaker, string(history),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", org.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func cloneState(state model.OverlayState) model.OverlayState {
	out := model.OverlayState{
		SchemaVersion: state.SchemaVersion,
		Organizations: make(map[string]model.Overlay, len(state.Organizations)),
	}
	if out.SchemaVersion == "" {
		out.SchemaVersion = model.OverlaySchemaVersion
	}
	for k, v := range state.Organizations {
		history := make([]model.NoteEntry, len(v.NoteHistory))
		copy(history, v.NoteHistory)
		v.NoteHistory = history
		out.Organizations[k] = v
	}
	return out
}
