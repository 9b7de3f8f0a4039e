package dashboard

import (
	"testing"

	"github.com/ortelius/orgmap-backend/model"
	"github.com/stretchr/testify/assert"
)

func TestFilterStateCounties(t *testing.T) {
	f := NewFilterState()
	f.SelectAllCounties([]string{" Alpha ", "Beta", ""})
	assert.Equal(t, []string{"Alpha", "Beta"}, f.Counties())

	f.ToggleCounty("Beta ", false)
	assert.False(t, f.HasCounty("Beta"))
	assert.True(t, f.HasCounty("Alpha"))

	f.ToggleCounty(" Gamma", true)
	assert.Equal(t, []string{"Alpha", "Gamma"}, f.Counties())

	f.SetCounties([]string{"Delta"})
	assert.Equal(t, []string{"Delta"}, f.Counties())

	f.ClearCounties()
	assert.Equal(t, 0, f.CountyCount())
}

func TestFilterStateCountiesAreCaseSensitive(t *testing.T) {
	f := NewFilterState()
	f.SetCounties([]string{"Alpha"})
	assert.False(t, f.HasCounty("alpha"))
}

func TestFilterStateStatusAndSearch(t *testing.T) {
	f := NewFilterState()
	f.SetStatus("in progress")
	assert.Equal(t, model.BucketInProgress, f.Status())

	f.SetStatus("")
	assert.Equal(t, model.StatusBucket(""), f.Status())

	f.SetStatus("done")
	f.SetStatus("Confirmed--Yes")
	assert.Equal(t, model.StatusBucket(""), f.Status())

	f.SetStatus("xyz")
	assert.Equal(t, model.StatusBucket(""), f.Status())

	f.SetSearch("  Food BANK ")
	assert.Equal(t, "food bank", f.Search())
}

func TestFilterStateClone(t *testing.T) {
	f := NewFilterState()
	f.SetCounties([]string{"Alpha"})
	c := f.Clone()
	c.ToggleCounty("Beta", true)

	assert.Equal(t, 1, f.CountyCount())
	assert.Equal(t, 2, c.CountyCount())
}
