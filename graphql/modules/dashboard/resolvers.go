// Package dashboard implements the resolvers for the organization dashboard.
package dashboard

import (
	"errors"

	"github.com/ortelius/orgmap-backend/internal/dashboard"
	"github.com/ortelius/orgmap-backend/internal/services"
	"github.com/ortelius/orgmap-backend/model"
)

// ResolveOrganization returns one organization, or nil when the id is unknown
func ResolveOrganization(svc *services.OrganizationService, id int) (interface{}, error) {
	org, err := svc.Find(id)
	if errors.Is(err, services.ErrOrganizationNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return organizationToMap(org), nil
}

// ResolveOrganizations lists organizations, optionally restricted by location membership
func ResolveOrganizations(svc *services.OrganizationService, withLocation *bool) []map[string]interface{} {
	var orgs []model.Organization
	switch {
	case withLocation == nil:
		orgs = svc.All()
	case *withLocation:
		orgs = svc.WithLocation()
	default:
		orgs = svc.WithoutLocation()
	}
	return organizationsToMaps(orgs)
}

// ResolveDashboard runs the dashboard filter pipeline over a snapshot of the registry
func ResolveDashboard(svc *services.OrganizationService, counties []string, restricted bool, status, search string) map[string]interface{} {
	store := dashboard.NewStore()
	store.LoadAll(svc.WithLocation(), svc.WithoutLocation())

	filter := dashboard.NewFilterState()
	if restricted {
		filter.SetCounties(counties)
	} else {
		filter.SelectAllCounties(svc.Counties())
	}
	filter.SetStatus(model.StatusBucket(status))
	filter.SetSearch(search)

	visible := dashboard.ComputeVisible(store, filter)
	stats := dashboard.ComputeStats(store, filter)

	return map[string]interface{}{
		"stats": map[string]interface{}{
			"total":            stats.Total,
			"with_location":    stats.WithLocation,
			"without_location": stats.WithoutLocation,
			"pending":          stats.Pending,
			"confirmed_yes":    stats.ConfirmedYes,
			"confirmed_no":     stats.ConfirmedNo,
			"in_process":       stats.InProcess,
			"other":            stats.Other,
		},
		"no_location":   organizationsToMaps(visible.WithoutLocation),
		"with_location": organizationsToMaps(visible.WithLocation),
	}
}

func organizationsToMaps(orgs []model.Organization) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(orgs))
	for _, org := range orgs {
		out = append(out, organizationToMap(org))
	}
	return out
}

func organizationToMap(org model.Organization) map[string]interface{} {
	history := make([]map[string]interface{}, 0, len(org.NoteHistory))
	for _, h := range org.NoteHistory {
		history = append(history, map[string]interface{}{
			"note_taker": h.NoteTaker,
			"note":       h.Note,
			"date":       h.Date,
		})
	}
	m := map[string]interface{}{
		"id":           org.ID,
		"name":         org.Name,
		"address":      org.Address,
		"county":       org.County,
		"zipcode":      org.Zipcode,
		"website":      org.Website,
		"phone":        org.Phone,
		"email":        org.Email,
		"status":       org.StatusOrDefault(),
		"status_class": model.StatusClass(org.StatusOrDefault()),
		"notes":        org.Notes,
		"note_taker":   org.NoteTaker,
		"note_history": history,
		"has_location": org.HasLocation(),
		"lat":          nil,
		"lon":          nil,
	}
	if org.HasLocation() {
		m["lat"] = *org.Lat
		m["lon"] = *org.Lon
	}
	return m
}
