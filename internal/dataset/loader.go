// Package dataset reads the organization dataset from CSV and normalizes each record.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ortelius/orgmap-backend/model"
	"github.com/ortelius/orgmap-backend/util"
)

// Column aliases, first match wins
var (
	idColumns        = []string{"id"}
	nameColumns      = []string{"ORGANIZATION", "name", "Name"}
	addressColumns   = []string{"ADDRESS", "address", "Address"}
	phoneColumns     = []string{"PHONE", "phone", "Phone"}
	emailColumns     = []string{"EMAIL", "email", "Email"}
	websiteColumns   = []string{"WEBSITE", "website", "Website"}
	countyColumns    = []string{"county", "COUNTY", "County"}
	zipcodeColumns   = []string{"zipcode", "ZIPCODE", "Zipcode", "ZIP", "Zip"}
	latColumns       = []string{"lat", "latitude", "LAT", "Lat", "Latitude"}
	lonColumns       = []string{"lon", "longitude", "LON", "Lon", "lng", "LNG", "Longitude"}
	statusColumns    = []string{"status", "STATUS", "Status"}
	notesColumns     = []string{"notes", "NOTES", "Notes"}
	noteTakerColumns = []string{"note_taker"}
	historyColumns   = []string{"note_history"}
)

// LoadFile reads organizations from a CSV file
func LoadFile(path string) ([]model.Organization, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads organizations from CSV with a header row.
// Rows without a usable id get their 1-based row number.
func Load(r io.Reader) ([]model.Organization, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return []model.Organization{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	headerMap := make(map[string]int, len(headers))
	for i, header := range headers {
		h := strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
		if _, seen := headerMap[h]; !seen {
			headerMap[h] = i
		}
	}

	orgs := []model.Organization{}
	for idx := 1; ; idx++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset row %d: %w", idx, err)
		}
		orgs = append(orgs, buildOrganization(row, headerMap, idx))
	}
	return orgs, nil
}

func buildOrganization(row []string, headerMap map[string]int, idx int) model.Organization {
	field := func(names []string) string {
		for _, name := range names {
			if i, ok := headerMap[name]; ok && i < len(row) {
				if v := util.CleanValue(row[i]); v != "" {
					return v
				}
			}
		}
		return ""
	}

	org := model.Organization{
		ID:          idx,
		Name:        field(nameColumns),
		Address:     field(addressColumns),
		County:      field(countyColumns),
		Zipcode:     util.NormalizeZipcode(field(zipcodeColumns)),
		Website:     field(websiteColumns),
		Phone:       field(phoneColumns),
		Email:       field(emailColumns),
		Status:      field(statusColumns),
		Notes:       field(notesColumns),
		NoteTaker:   field(noteTakerColumns),
		NoteHistory: []model.NoteEntry{},
		Lat:         util.ParseCoordinate(field(latColumns)),
		Lon:         util.ParseCoordinate(field(lonColumns)),
	}

	if id, err := strconv.ParseFloat(field(idColumns), 64); err == nil && id >= 1 && id == float64(int(id)) {
		org.ID = int(id)
	}
	if org.Status == "" {
		org.Status = model.StatusPending
	}
	if raw := field(historyColumns); raw != "" {
		var history []model.NoteEntry
		if err := json.Unmarshal([]byte(raw), &history); err == nil {
			org.NoteHistory = history
		}
	}
	return org
}

// ApplyOverlay copies persisted operator edits onto the dataset in place
func ApplyOverlay(orgs []model.Organization, state model.OverlayState) int {
	applied := 0
	for i := range orgs {
		if overlay, ok := state.Get(orgs[i].ID); ok {
			overlay.Apply(&orgs[i])
			applied++
		}
	}
	return applied
}

// Counties returns the unique cleaned county names sorted case-insensitively
func Counties(orgs []model.Organization) []string {
	seen := map[string]bool{}
	counties := []string{}
	for _, org := range orgs {
		c := util.CleanValue(org.County)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		counties = append(counties, c)
	}
	sort.SliceStable(counties, func(i, j int) bool {
		li, lj := strings.ToLower(counties[i]), strings.ToLower(counties[j])
		if li == lj {
			return counties[i] < counties[j]
		}
		return li < lj
	})
	return counties
}
