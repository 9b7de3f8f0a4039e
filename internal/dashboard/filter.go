// Package dashboard holds the dashboard state and the filter, merge and
// render pipeline behind the organization map and list views.
package dashboard

import (
	"sort"
	"strings"

	"github.com/ortelius/orgmap-backend/model"
)

// FilterState is the set of active filters: selected counties, coarse status bucket and search text.
// County names are trimmed on every mutation path and matched exactly.
type FilterState struct {
	counties map[string]struct{}
	status   model.StatusBucket
	search   string
}

// NewFilterState returns a filter with no counties, no status restriction and no search text
func NewFilterState() *FilterState {
	return &FilterState{counties: map[string]struct{}{}}
}

// SetCounties replaces the county selection
func (f *FilterState) SetCounties(names []string) {
	f.counties = map[string]struct{}{}
	f.addCounties(names)
}

// ToggleCounty includes or excludes one county
func (f *FilterState) ToggleCounty(name string, included bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if included {
		f.counties[name] = struct{}{}
	} else {
		delete(f.counties, name)
	}
}

// SelectAllCounties adds every given county to the selection
func (f *FilterState) SelectAllCounties(names []string) {
	f.addCounties(names)
}

// ClearCounties empties the county selection
func (f *FilterState) ClearCounties() {
	f.counties = map[string]struct{}{}
}

// SetStatus restricts the view to one coarse bucket.
// The empty bucket, or any value that is not a quick filter, means all.
func (f *FilterState) SetStatus(bucket model.StatusBucket) {
	b := model.ClassifyStatus(string(bucket))
	if strings.TrimSpace(string(bucket)) == "" || !b.IsQuickFilter() {
		f.status = ""
		return
	}
	f.status = b
}

// SetSearch stores the trimmed, lower-cased search text
func (f *FilterState) SetSearch(text string) {
	f.search = strings.ToLower(strings.TrimSpace(text))
}

// HasCounty reports whether the county is selected
func (f *FilterState) HasCounty(name string) bool {
	_, ok := f.counties[name]
	return ok
}

// Counties returns the selected counties in sorted order
func (f *FilterState) Counties() []string {
	out := make([]string, 0, len(f.counties))
	for c := range f.counties {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// CountyCount returns the number of selected counties
func (f *FilterState) CountyCount() int { return len(f.counties) }

// Status returns the active status bucket, empty when unrestricted
func (f *FilterState) Status() model.StatusBucket { return f.status }

// Search returns the normalized search text
func (f *FilterState) Search() string { return f.search }

// Clone returns an independent copy
func (f *FilterState) Clone() *FilterState {
	c := &FilterState{
		counties: make(map[string]struct{}, len(f.counties)),
		status:   f.status,
		search:   f.search,
	}
	for k := range f.counties {
		c.counties[k] = struct{}{}
	}
	return c
}

func (f *FilterState) addCounties(names []string) {
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			f.counties[n] = struct{}{}
		}
	}
}
