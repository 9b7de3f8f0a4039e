package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestHasLocation(t *testing.T) {
	tests := []struct {
		name string
		lat  *float64
		lon  *float64
		want bool
	}{
		{"both finite", ptr(38.8), ptr(-77.1), true},
		{"zero is a location", ptr(0), ptr(0), true},
		{"missing lat", nil, ptr(-77.1), false},
		{"missing lon", ptr(38.8), nil, false},
		{"nan", ptr(math.NaN()), ptr(-77.1), false},
		{"inf", ptr(38.8), ptr(math.Inf(1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Organization{Lat: tt.lat, Lon: tt.lon}.HasLocation())
		})
	}
}

func TestSplitByLocationIsAPartition(t *testing.T) {
	orgs := []Organization{
		{ID: 1, Lat: ptr(1), Lon: ptr(1)},
		{ID: 2},
		{ID: 3, Lat: ptr(math.NaN()), Lon: ptr(3)},
		{ID: 4, Lat: ptr(4), Lon: ptr(4)},
	}

	with, without := SplitByLocation(orgs)

	require.Len(t, with, 2)
	require.Len(t, without, 2)
	assert.Equal(t, 1, with[0].ID)
	assert.Equal(t, 4, with[1].ID)
	assert.Equal(t, 2, without[0].ID)
	assert.Equal(t, 3, without[1].ID)
}

func TestCloneDoesNotShareHistory(t *testing.T) {
	org := Organization{ID: 1, Lat: ptr(1), NoteHistory: []NoteEntry{{Note: "a"}}}
	c := org.Clone()
	c.NoteHistory[0].Note = "b"
	*c.Lat = 2

	assert.Equal(t, "a", org.NoteHistory[0].Note)
	assert.Equal(t, 1.0, *org.Lat)
}

func TestStatusOrDefault(t *testing.T) {
	assert.Equal(t, StatusPending, Organization{}.StatusOrDefault())
	assert.Equal(t, StatusPending, Organization{Status: "  "}.StatusOrDefault())
	assert.Equal(t, "Other", Organization{Status: "Other"}.StatusOrDefault())
}

func TestOverlaySetAndApply(t *testing.T) {
	state := NewOverlayState()
	state.Set(Organization{ID: 7, Status: "Other", Notes: "n", NoteTaker: "Luke", NoteHistory: []NoteEntry{{NoteTaker: "Luke", Note: "n"}}})

	overlay, ok := state.Get(7)
	require.True(t, ok)

	org := Organization{ID: 7, Status: StatusPending}
	overlay.Apply(&org)
	assert.Equal(t, "Other", org.Status)
	assert.Equal(t, "Luke", org.NoteTaker)
	require.Len(t, org.NoteHistory, 1)

	_, ok = state.Get(8)
	assert.False(t, ok)
}
