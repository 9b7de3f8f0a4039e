package dashboard

import (
	"strings"

	"github.com/ortelius/orgmap-backend/model"
)

// Visible is the filtered view of the store
type Visible struct {
	WithLocation    []model.Organization
	WithoutLocation []model.Organization
}

// Stats are the aggregate counters shown on the dashboard
type Stats struct {
	Total           int `json:"total"`
	WithLocation    int `json:"with_location"`
	WithoutLocation int `json:"without_location"`
	Pending         int `json:"pending"`
	ConfirmedYes    int `json:"confirmed_yes"`
	ConfirmedNo     int `json:"confirmed_no"`
	InProcess       int `json:"in_process"`
	Other           int `json:"other"`
}

// ComputeVisible derives the visible collections for the given filters.
//
// The without-location list is filtered by status bucket and search text, then
// stably partitioned so pending organizations come first. The with-location list
// is filtered by county membership only; an empty county selection yields nothing.
func ComputeVisible(store *Store, filter *FilterState) Visible {
	return Visible{
		WithLocation:    visibleWithLocation(store, filter),
		WithoutLocation: visibleWithoutLocation(store, filter),
	}
}

func visibleWithLocation(store *Store, filter *FilterState) []model.Organization {
	out := []model.Organization{}
	if filter.CountyCount() == 0 {
		return out
	}
	for _, org := range store.withLocation {
		if org.HasLocation() && filter.HasCounty(org.County) {
			out = append(out, org.Clone())
		}
	}
	return out
}

func visibleWithoutLocation(store *Store, filter *FilterState) []model.Organization {
	var pending, rest []model.Organization
	for _, org := range store.withoutLocation {
		bucket := model.ClassifyStatus(org.Status)
		if filter.Status() != "" && bucket != filter.Status() {
			continue
		}
		if !MatchesSearch(*org, filter.Search()) {
			continue
		}
		if bucket == model.BucketPending {
			pending = append(pending, org.Clone())
		} else {
			rest = append(rest, org.Clone())
		}
	}
	out := make([]model.Organization, 0, len(pending)+len(rest))
	out = append(out, pending...)
	return append(out, rest...)
}

// MatchesSearch reports whether the lower-cased query is a substring of
// the name, address, county, phone or email. An empty query matches everything.
func MatchesSearch(org model.Organization, query string) bool {
	if query == "" {
		return true
	}
	for _, field := range []string{org.Name, org.Address, org.County, org.Phone, org.Email} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// ComputeStats derives the dashboard counters.
//
// The with-location counter follows the county filter. Total is the county-filtered
// with-location count plus every organization without location while any county is
// selected, otherwise the size of the whole dataset. Status counters are exact
// matches over the whole dataset after the status bucket filter.
func ComputeStats(store *Store, filter *FilterState) Stats {
	withLoc := len(visibleWithLocation(store, filter))
	withoutLoc := len(store.withoutLocation)

	stats := Stats{
		WithLocation:    withLoc,
		WithoutLocation: withoutLoc,
		Total:           store.Len(),
	}
	if filter.CountyCount() > 0 {
		stats.Total = withLoc + withoutLoc
	}

	count := func(org *model.Organization) {
		if filter.Status() != "" && model.ClassifyStatus(org.Status) != filter.Status() {
			return
		}
		switch strings.ToLower(strings.TrimSpace(org.Status)) {
		case "pending":
			stats.Pending++
		case "confirmed--yes":
			stats.ConfirmedYes++
		case "confirmed--no":
			stats.ConfirmedNo++
		case "in process", "in-process":
			stats.InProcess++
		case "other":
			stats.Other++
		}
	}
	for _, org := range store.withLocation {
		count(org)
	}
	for _, org := range store.withoutLocation {
		count(org)
	}
	return stats
}
