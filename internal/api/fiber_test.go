package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/orgmap-backend/internal/mapview"
	"github.com/ortelius/orgmap-backend/internal/services"
	"github.com/ortelius/orgmap-backend/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coord(v float64) *float64 { return &v }

func newTestApp(t *testing.T) (*fiber.App, *services.OrganizationService) {
	t.Helper()
	svc := services.NewOrganizationService([]model.Organization{
		{ID: 1, Name: "Food Bank", County: "Fairfax", Lat: coord(38.8), Lon: coord(-77.3)},
		{ID: 2, Name: "Shelter", County: "Loudoun"},
	}, model.OverlayState{}, nil, nil)
	app, err := NewFiberApp(Deps{
		Service:  svc,
		Renderer: mapview.NewRenderer(mapview.Options{Zoom: 9}),
	})
	require.NoError(t, err)
	return app, svc
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHealthAndMetrics(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"healthy"}`, body)

	status, body = do(t, app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "go_goroutines")
}

func TestOrganizationRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/counties", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `["Fairfax","Loudoun"]`, body)

	for path, want := range map[string][]int{
		"/api/organizations":                  {1},
		"/api/organizations_with_location":    {1},
		"/api/organizations_without_location": {2},
		"/api/organizations_full":             {1, 2},
	} {
		status, body := do(t, app, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, status, path)
		var orgs []model.Organization
		require.NoError(t, json.Unmarshal([]byte(body), &orgs), path)
		got := make([]int, 0, len(orgs))
		for _, o := range orgs {
			got = append(got, o.ID)
		}
		assert.Equal(t, want, got, path)
	}
}

func putStatus(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestUpdateStatusRoute(t *testing.T) {
	app, svc := newTestApp(t)

	status, body := do(t, app, putStatus("/api/organizations/2/status", `{"status":"Confirmed--Yes"}`))
	require.Equal(t, http.StatusOK, status)
	var resp model.StatusUpdateResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Organization)
	assert.Equal(t, "Confirmed--Yes", resp.Organization.Status)

	status, _ = do(t, app, putStatus("/api/organizations/2/status", `{"notes":"left message","note_taker":"Jennifer"}`))
	require.Equal(t, http.StatusOK, status)
	org, err := svc.Find(2)
	require.NoError(t, err)
	assert.Equal(t, "Confirmed--Yes", org.Status)
	require.Len(t, org.NoteHistory, 1)
	assert.Equal(t, "Jennifer", org.NoteHistory[0].NoteTaker)

	status, body = do(t, app, putStatus("/api/organizations/99/status", `{"status":"Other"}`))
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"success":false,"message":"Organization not found"}`, body)

	status, _ = do(t, app, putStatus("/api/organizations/abc/status", `{"status":"Other"}`))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, putStatus("/api/organizations/1/status", `{"status":`))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestStateAndExportRoutes(t *testing.T) {
	app, _ := newTestApp(t)
	do(t, app, putStatus("/api/organizations/1/status", `{"status":"Other"}`))

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	require.Equal(t, http.StatusOK, status)
	var state model.OverlayState
	require.NoError(t, json.Unmarshal([]byte(body), &state))
	assert.Equal(t, model.OverlaySchemaVersion, state.SchemaVersion)
	overlay, ok := state.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Other", overlay.Status)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/export.csv", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "organizations_export.csv")
	csvBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(csvBody), "id,name,address,county"))
}

func TestMapRoute(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/map?counties=Fairfax&gen=4", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "mapReady")
}

func TestGraphQLRoute(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/graphql", strings.NewReader(`{"query":"{ counties }"}`))
	req.Header.Set("Content-Type", "application/json")
	status, body := do(t, app, req)

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"data":{"counties":["Fairfax","Loudoun"]}}`, body)
}
