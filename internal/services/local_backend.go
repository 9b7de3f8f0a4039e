package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ortelius/orgmap-backend/internal/dashboard"
	"github.com/ortelius/orgmap-backend/internal/mapview"
	"github.com/ortelius/orgmap-backend/model"
)

// LocalBackend serves a dashboard controller from the in-process registry
type LocalBackend struct {
	Service  *OrganizationService
	Renderer *mapview.Renderer
}

// Counties returns the known counties
func (b *LocalBackend) Counties(_ context.Context) ([]string, error) {
	return b.Service.Counties(), nil
}

// Organizations returns the organizations with location
func (b *LocalBackend) Organizations(_ context.Context) ([]model.Organization, error) {
	return b.Service.WithLocation(), nil
}

// OrganizationsWithoutLocation returns the organizations without location
func (b *LocalBackend) OrganizationsWithoutLocation(_ context.Context) ([]model.Organization, error) {
	return b.Service.WithoutLocation(), nil
}

// MapDocument renders the map for the query
func (b *LocalBackend) MapDocument(_ context.Context, q dashboard.MapQuery) ([]byte, error) {
	return b.Renderer.RenderBytes(b.Service.MapOrganizations(q), q.Generation)
}

// UpdateStatus applies the update and returns the updated record as a patch
func (b *LocalBackend) UpdateStatus(ctx context.Context, id int, req model.StatusUpdateRequest) (model.OrganizationPatch, error) {
	org, err := b.Service.UpdateStatus(ctx, id, req)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(org)
	if err != nil {
		return nil, fmt.Errorf("failed to encode organization %d: %w", id, err)
	}
	patch := model.OrganizationPatch{}
	if err := json.Unmarshal(raw, &patch); err != nil {
		return nil, fmt.Errorf("failed to decode organization %d: %w", id, err)
	}
	return patch, nil
}
