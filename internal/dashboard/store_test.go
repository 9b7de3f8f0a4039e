package dashboard

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ortelius/orgmap-backend/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLoadAllPartitions(t *testing.T) {
	s := NewStore()
	// a record sent in the wrong collection is re-partitioned by its coordinates
	s.LoadAll(
		[]model.Organization{located(1, "Alpha", ""), unlocated(2, "misfiled", "")},
		[]model.Organization{unlocated(3, "c", "Other"), located(1, "Alpha", "dup")},
	)

	assert.Equal(t, []int{1}, ids(s.WithLocation()))
	assert.Equal(t, []int{2, 3}, ids(s.WithoutLocation()))
	assert.Equal(t, 3, s.Len())

	org, ok := s.FindByID(1)
	require.True(t, ok)
	assert.Equal(t, model.StatusPending, org.Status)
	assert.NotNil(t, org.NoteHistory)

	_, ok = s.FindByID(99)
	assert.False(t, ok)
}

func TestStoreFindByIDReturnsCopy(t *testing.T) {
	s := NewStore()
	s.LoadAll(nil, []model.Organization{unlocated(1, "a", "")})

	org, _ := s.FindByID(1)
	org.Status = "changed"

	again, _ := s.FindByID(1)
	assert.Equal(t, model.StatusPending, again.Status)
}

func patchOf(t *testing.T, v map[string]interface{}) model.OrganizationPatch {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	patch := model.OrganizationPatch{}
	require.NoError(t, json.Unmarshal(raw, &patch))
	return patch
}

func TestMergeUpdateShallowMerge(t *testing.T) {
	s := NewStore()
	org := located(5, "Alpha", "Pending")
	org.Phone = "555"
	s.LoadAll([]model.Organization{org}, nil)

	patch := patchOf(t, map[string]interface{}{
		"id":     5,
		"status": "Confirmed--Yes",
		"lat":    nil,
		"lon":    nil,
	})
	require.NoError(t, s.MergeUpdate(5, patch, Mutation{Kind: StatusMutation, Status: "ignored"}))

	got, _ := s.FindByID(5)
	assert.Equal(t, "Confirmed--Yes", got.Status)
	assert.Equal(t, "555", got.Phone)
	assert.True(t, got.HasLocation())
	assert.Equal(t, []int{5}, ids(s.WithLocation()))
}

func TestMergeUpdateIsIdempotent(t *testing.T) {
	s := NewStore()
	s.LoadAll(nil, []model.Organization{unlocated(7, "a", "")})

	patch := patchOf(t, map[string]interface{}{
		"notes":        "called",
		"note_taker":   "Luke",
		"note_history": []map[string]string{{"note_taker": "Luke", "note": "called", "date": "2024-01-01 10:00"}},
	})
	require.NoError(t, s.MergeUpdate(7, patch, Mutation{}))
	once, _ := s.FindByID(7)
	require.NoError(t, s.MergeUpdate(7, patch, Mutation{}))
	twice, _ := s.FindByID(7)

	assert.Equal(t, once, twice)
	assert.Len(t, twice.NoteHistory, 1)
}

func TestMergeUpdateFallback(t *testing.T) {
	s := NewStore()
	s.now = func() time.Time { return time.Date(2024, 3, 9, 14, 27, 55, 0, time.UTC) }
	s.LoadAll(nil, []model.Organization{unlocated(7, "a", "Other")})

	require.NoError(t, s.MergeUpdate(7, nil, Mutation{Kind: NoteMutation, Note: "left voicemail", NoteTaker: "Rachel"}))
	got, _ := s.FindByID(7)
	assert.Equal(t, "Other", got.Status)
	assert.Equal(t, "left voicemail", got.Notes)
	require.Len(t, got.NoteHistory, 1)
	assert.Equal(t, model.NoteEntry{NoteTaker: "Rachel", Note: "left voicemail", Date: "2024-03-09 14:27"}, got.NoteHistory[0])

	require.NoError(t, s.MergeUpdate(7, model.OrganizationPatch{}, Mutation{Kind: StatusMutation, Status: "In Process"}))
	got, _ = s.FindByID(7)
	assert.Equal(t, "In Process", got.Status)
	assert.Len(t, got.NoteHistory, 1)
}

func TestMergeUpdateBlankStatusStaysPending(t *testing.T) {
	s := NewStore()
	s.LoadAll(nil, []model.Organization{unlocated(4, "a", "Pending")})

	require.NoError(t, s.MergeUpdate(4, patchOf(t, map[string]interface{}{"status": nil}), Mutation{}))
	got, _ := s.FindByID(4)
	assert.Equal(t, model.StatusPending, got.Status)

	require.NoError(t, s.MergeUpdate(4, patchOf(t, map[string]interface{}{"status": " "}), Mutation{}))
	got, _ = s.FindByID(4)
	assert.Equal(t, model.StatusPending, got.Status)

	assert.Equal(t, 1, ComputeStats(s, NewFilterState()).Pending)
}

func TestMergeUpdateUnknownID(t *testing.T) {
	s := NewStore()
	err := s.MergeUpdate(1, nil, Mutation{Kind: StatusMutation, Status: "Other"})
	assert.ErrorIs(t, err, ErrNotFound)
}
