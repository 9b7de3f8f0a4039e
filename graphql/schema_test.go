package graphql

import (
	"encoding/json"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/ortelius/orgmap-backend/internal/services"
	"github.com/ortelius/orgmap-backend/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coord(v float64) *float64 { return &v }

func testSchema(t *testing.T) graphql.Schema {
	t.Helper()
	InitService(services.NewOrganizationService([]model.Organization{
		{ID: 1, Name: "Food Bank", County: "Fairfax", Status: "Confirmed--Yes", Lat: coord(38.8), Lon: coord(-77.3)},
		{ID: 2, Name: "Shelter", County: "Fairfax"},
		{ID: 3, Name: "Clinic", County: "Loudoun", Status: "In Process"},
		{ID: 4, Name: "Pantry", County: "Loudoun", Lat: coord(39.1), Lon: coord(-77.6)},
	}, model.OverlayState{}, nil, nil))
	schema, err := CreateSchema()
	require.NoError(t, err)
	return schema
}

func run(t *testing.T, schema graphql.Schema, query string) string {
	t.Helper()
	result := graphql.Do(graphql.Params{Schema: schema, RequestString: query})
	require.Empty(t, result.Errors)
	data, err := json.Marshal(result.Data)
	require.NoError(t, err)
	return string(data)
}

func TestCountiesQuery(t *testing.T) {
	schema := testSchema(t)
	assert.JSONEq(t, `{"counties":["Fairfax","Loudoun"]}`, run(t, schema, `{ counties }`))
}

func TestOrganizationQuery(t *testing.T) {
	schema := testSchema(t)

	assert.JSONEq(t,
		`{"organization":{"id":1,"status":"Confirmed--Yes","has_location":true,"lat":38.8}}`,
		run(t, schema, `{ organization(id: 1) { id status has_location lat } }`))
	assert.JSONEq(t,
		`{"organization":{"id":2,"status":"Pending","lat":null}}`,
		run(t, schema, `{ organization(id: 2) { id status lat } }`))
	assert.JSONEq(t, `{"organization":null}`, run(t, schema, `{ organization(id: 99) { id } }`))
}

func TestOrganizationsQuery(t *testing.T) {
	schema := testSchema(t)

	assert.JSONEq(t, `{"organizations":[{"id":1},{"id":4}]}`,
		run(t, schema, `{ organizations(withLocation: true) { id } }`))
	assert.JSONEq(t, `{"organizations":[{"id":2},{"id":3}]}`,
		run(t, schema, `{ organizations(withLocation: false) { id } }`))
	assert.JSONEq(t, `{"organizations":[{"id":1},{"id":2},{"id":3},{"id":4}]}`,
		run(t, schema, `{ organizations { id } }`))
}

func TestDashboardQuery(t *testing.T) {
	schema := testSchema(t)

	assert.JSONEq(t,
		`{"dashboard":{"stats":{"total":4,"with_location":2,"pending":2},"with_location":[{"id":1},{"id":4}],"no_location":[{"id":2},{"id":3}]}}`,
		run(t, schema, `{ dashboard { stats { total with_location pending } with_location { id } no_location { id } } }`))

	assert.JSONEq(t,
		`{"dashboard":{"stats":{"total":3,"with_location":1},"with_location":[{"id":4}]}}`,
		run(t, schema, `{ dashboard(counties: ["Loudoun"]) { stats { total with_location } with_location { id } } }`))

	assert.JSONEq(t,
		`{"dashboard":{"no_location":[{"id":3}]}}`,
		run(t, schema, `{ dashboard(status: "In Process") { no_location { id } } }`))
}
