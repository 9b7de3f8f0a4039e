package dashboard

import (
	"github.com/ortelius/orgmap-backend/model"
	"github.com/ortelius/orgmap-backend/util"
)

const (
	defaultOrgName      = "Organization"
	noAddressList       = "No address provided"
	noAddressDetail     = "Not provided"
	emptyWithoutLocList = "No organizations without location"
)

// NoteView is one rendered note history entry
type NoteView struct {
	NoteTaker string
	Note      string
	Date      string
}

// StatusOption is one entry of a status picker
type StatusOption struct {
	Value    string
	Selected bool
}

// ListEntry is one card of the without-location list
type ListEntry struct {
	ID            int
	Name          string
	County        string
	Address       string
	Status        string
	StatusClass   string
	Notes         []NoteView
	StatusOptions []StatusOption
}

// ListView is the without-location list
type ListView struct {
	Entries      []ListEntry
	EmptyMessage string
}

// QuickFilter is a clickable status counter
type QuickFilter struct {
	Label  string
	Bucket model.StatusBucket
	Active bool
}

// StatsView holds the counters and the quick filters
type StatsView struct {
	Stats
	ActiveStatus model.StatusBucket
	QuickFilters []QuickFilter
}

// CountyOption is one county checkbox
type CountyOption struct {
	Name    string
	Checked bool
}

// CountyFilterView is the county checkbox list with its select-all state
type CountyFilterView struct {
	Options       []CountyOption
	AllChecked    bool
	Indeterminate bool
	Search        string
}

// MapView is an accepted map document
type MapView struct {
	Generation uint64
	Query      MapQuery
	Document   []byte
}

// WebsiteView is a website link; Href is empty when the website is missing
type WebsiteView struct {
	Text string
	Href string
}

// DetailView is the organization detail modal
type DetailView struct {
	ID            int
	Name          string
	County        string
	Address       string
	Zipcode       string
	Website       WebsiteView
	Phone         string
	Email         string
	Status        string
	StatusClass   string
	StatusOptions []StatusOption
	Notes         []NoteView
}

// NoteModalView is the note entry modal
type NoteModalView struct {
	ID          int
	Name        string
	Status      string
	StatusClass string
	Draft       string
	NoteTakers  []string
}

// ModalView holds the open modals; nil means closed
type ModalView struct {
	Detail *DetailView
	Note   *NoteModalView
}

// BuildListView renders the without-location list
func BuildListView(orgs []model.Organization) ListView {
	view := ListView{Entries: make([]ListEntry, 0, len(orgs))}
	if len(orgs) == 0 {
		view.EmptyMessage = emptyWithoutLocList
		return view
	}
	for _, org := range orgs {
		status := org.StatusOrDefault()
		view.Entries = append(view.Entries, ListEntry{
			ID:            org.ID,
			Name:          util.DisplayOr(org.Name, defaultOrgName),
			County:        util.DisplayOrMissing(org.County),
			Address:       util.DisplayOr(org.Address, noAddressList),
			Status:        status,
			StatusClass:   model.StatusClass(status),
			Notes:         buildNotes(org.NoteHistory),
			StatusOptions: buildStatusOptions(status),
		})
	}
	return view
}

// BuildStatsView renders the counters and marks the active quick filter
func BuildStatsView(stats Stats, active model.StatusBucket) StatsView {
	quick := []QuickFilter{
		{Label: "Pending", Bucket: model.BucketPending},
		{Label: "In Progress", Bucket: model.BucketInProgress},
		{Label: "Completed", Bucket: model.BucketDone},
	}
	for i := range quick {
		quick[i].Active = quick[i].Bucket == active
	}
	return StatsView{Stats: stats, ActiveStatus: active, QuickFilters: quick}
}

// BuildCountyFilterView renders the county checkboxes against the current selection
func BuildCountyFilterView(known []string, filter *FilterState) CountyFilterView {
	view := CountyFilterView{Options: make([]CountyOption, 0, len(known)), Search: filter.Search()}
	checked := 0
	for _, c := range known {
		on := filter.HasCounty(c)
		if on {
			checked++
		}
		view.Options = append(view.Options, CountyOption{Name: c, Checked: on})
	}
	view.AllChecked = len(known) > 0 && checked == len(known)
	view.Indeterminate = checked > 0 && checked < len(known)
	return view
}

// BuildDetailView renders the detail modal for an organization
func BuildDetailView(org model.Organization) DetailView {
	status := org.StatusOrDefault()
	website := WebsiteView{Text: util.Missing}
	if href, ok := util.WebsiteHref(org.Website); ok {
		website = WebsiteView{Text: util.CleanValue(org.Website), Href: href}
	}
	return DetailView{
		ID:            org.ID,
		Name:          util.DisplayOr(org.Name, defaultOrgName),
		County:        util.DisplayOrMissing(org.County),
		Address:       util.DisplayOr(org.Address, noAddressDetail),
		Zipcode:       util.DisplayOrMissing(org.Zipcode),
		Website:       website,
		Phone:         util.DisplayOrMissing(org.Phone),
		Email:         util.DisplayOrMissing(org.Email),
		Status:        status,
		StatusClass:   model.StatusClass(status),
		StatusOptions: buildStatusOptions(status),
		Notes:         buildNotes(org.NoteHistory),
	}
}

// BuildNoteModalView renders the note modal, prefilled with the latest note
func BuildNoteModalView(org model.Organization, noteTakers []string) NoteModalView {
	status := org.StatusOrDefault()
	return NoteModalView{
		ID:          org.ID,
		Name:        util.DisplayOr(org.Name, defaultOrgName),
		Status:      status,
		StatusClass: model.StatusClass(status),
		Draft:       org.Notes,
		NoteTakers:  append([]string(nil), noteTakers...),
	}
}

func buildNotes(history []model.NoteEntry) []NoteView {
	notes := make([]NoteView, 0, len(history))
	for _, h := range history {
		notes = append(notes, NoteView{NoteTaker: h.NoteTaker, Note: h.Note, Date: h.Date})
	}
	return notes
}

func buildStatusOptions(current string) []StatusOption {
	opts := make([]StatusOption, 0, len(model.StatusVocabulary))
	for _, s := range model.StatusVocabulary {
		opts = append(opts, StatusOption{Value: s, Selected: s == current})
	}
	return opts
}
