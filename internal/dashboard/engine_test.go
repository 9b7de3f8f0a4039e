package dashboard

import (
	"testing"

	"github.com/ortelius/orgmap-backend/model"
	"github.com/stretchr/testify/assert"
)

func alphaBetaGamma() *Store {
	s := NewStore()
	s.LoadAll(
		[]model.Organization{
			located(1, "Alpha", "Pending"),
			located(2, "Beta", "Confirmed--Yes"),
			located(3, "Gamma", "Other"),
		},
		[]model.Organization{
			unlocated(10, "Food Bank", "Confirmed--No"),
			unlocated(11, "Shelter", "Pending"),
			unlocated(12, "Clinic", "in progress"),
			unlocated(13, "Pantry", ""),
		},
	)
	return s
}

func TestComputeVisibleCountySelection(t *testing.T) {
	s := alphaBetaGamma()
	f := NewFilterState()
	f.SelectAllCounties([]string{"Alpha", "Beta"})
	f.ToggleCounty("Beta", false)

	v := ComputeVisible(s, f)
	assert.Equal(t, []int{1}, ids(v.WithLocation))

	stats := ComputeStats(s, f)
	assert.Equal(t, 1, stats.WithLocation)
	assert.Equal(t, 1+4, stats.Total)
}

func TestComputeVisibleEmptyCountiesYieldsNothing(t *testing.T) {
	s := alphaBetaGamma()
	f := NewFilterState()

	v := ComputeVisible(s, f)
	assert.Empty(t, v.WithLocation)
	assert.Len(t, v.WithoutLocation, 4)

	stats := ComputeStats(s, f)
	assert.Equal(t, 0, stats.WithLocation)
	assert.Equal(t, s.Len(), stats.Total)
}

func TestComputeVisiblePendingFirstStablePartition(t *testing.T) {
	s := alphaBetaGamma()
	v := ComputeVisible(s, NewFilterState())

	// pending 11 and 13 keep their order, then the rest in load order
	assert.Equal(t, []int{11, 13, 10, 12}, ids(v.WithoutLocation))
}

func TestComputeVisibleStatusBucket(t *testing.T) {
	s := alphaBetaGamma()
	f := NewFilterState()
	f.SetStatus(model.BucketInProgress)

	v := ComputeVisible(s, f)
	assert.Equal(t, []int{12}, ids(v.WithoutLocation))
}

func TestComputeVisibleSearch(t *testing.T) {
	s := alphaBetaGamma()
	f := NewFilterState()
	f.SetSearch("FOOD")

	v := ComputeVisible(s, f)
	assert.Equal(t, []int{10}, ids(v.WithoutLocation))

	f.SetSearch("alpha")
	v = ComputeVisible(s, f)
	assert.Len(t, v.WithoutLocation, 4)
}

func TestMatchesSearchFields(t *testing.T) {
	org := model.Organization{Name: "Clinic", Address: "1 Main St", County: "Alpha", Phone: "555-0100", Email: "info@clinic.org"}
	for _, q := range []string{"", "clinic", "main st", "alpha", "0100", "info@"} {
		assert.True(t, MatchesSearch(org, q), q)
	}
	assert.False(t, MatchesSearch(org, "zipcode"))
}

func TestComputeStatsStatusCounters(t *testing.T) {
	s := alphaBetaGamma()
	f := NewFilterState()
	f.SelectAllCounties([]string{"Alpha", "Beta", "Gamma"})

	stats := ComputeStats(s, f)
	assert.Equal(t, Stats{
		Total:           7,
		WithLocation:    3,
		WithoutLocation: 4,
		Pending:         3,
		ConfirmedYes:    1,
		ConfirmedNo:     1,
		InProcess:       0,
		Other:           1,
	}, stats)

	f.SetStatus(model.BucketPending)
	stats = ComputeStats(s, f)
	assert.Equal(t, 3, stats.Pending)
	assert.Equal(t, 0, stats.ConfirmedYes)
	assert.Equal(t, 0, stats.Other)
}
