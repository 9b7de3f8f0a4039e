package dashboard

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	core "github.com/ortelius/orgmap-backend/internal/dashboard"
	"github.com/ortelius/orgmap-backend/internal/mapview"
	"github.com/ortelius/orgmap-backend/internal/services"
	"github.com/ortelius/orgmap-backend/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func coord(v float64) *float64 { return &v }

type client struct {
	t       *testing.T
	app     *fiber.App
	cookies []*http.Cookie
}

func newClient(t *testing.T) (*client, *Sessions) {
	t.Helper()
	svc := services.NewOrganizationService([]model.Organization{
		{ID: 1, Name: "Food Bank", County: "Fairfax", Lat: coord(38.8), Lon: coord(-77.3)},
		{ID: 2, Name: "Shelter", County: "Loudoun"},
	}, model.OverlayState{}, nil, nil)
	backend := &services.LocalBackend{Service: svc, Renderer: mapview.NewRenderer(mapview.Options{Zoom: 9})}

	sessions, err := NewSessions(8, backend, zap.NewNop(), core.WithNoteTakers([]string{"Luke", "Rachel"}))
	require.NoError(t, err)

	app := fiber.New()
	h := &Handlers{Sessions: sessions, Store: session.New(), Logger: zap.NewNop()}
	h.Register(app)
	return &client{t: t, app: app}, sessions
}

func (c *client) do(req *http.Request) (*http.Response, string) {
	c.t.Helper()
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if len(resp.Cookies()) > 0 {
		c.cookies = resp.Cookies()
	}
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, string(body)
}

func (c *client) form(path string, values url.Values, asJSON bool) (*http.Response, string) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if asJSON {
		req.Header.Set("Accept", "application/json")
	}
	return c.do(req)
}

func (c *client) state() PageData {
	c.t.Helper()
	resp, body := c.do(httptest.NewRequest(http.MethodGet, "/dashboard/state", nil))
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
	var data PageData
	require.NoError(c.t, json.Unmarshal([]byte(body), &data))
	return data
}

func TestDashboardSessionLifecycle(t *testing.T) {
	c, sessions := newClient(t)

	data := c.state()
	assert.True(t, data.Counties.AllChecked)
	assert.Equal(t, 2, data.Stats.Total)
	assert.Equal(t, 1, data.Stats.WithLocation)
	assert.Equal(t, uint64(1), data.MapGen)
	require.Len(t, data.List.Entries, 1)
	assert.Equal(t, 2, data.List.Entries[0].ID)

	resp, body := c.form("/dashboard/counties", url.Values{"all": {"off"}}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success":true}`, body)
	data = c.state()
	assert.False(t, data.Counties.AllChecked)
	assert.Equal(t, 0, data.Stats.WithLocation)

	resp, _ = c.form("/dashboard/counties", url.Values{"county": {"Fairfax"}}, false)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Equal(t, 1, c.state().Stats.WithLocation)

	assert.Equal(t, 1, sessions.Len())
}

func TestDashboardStatusAndNotes(t *testing.T) {
	c, _ := newClient(t)
	c.state()

	req := httptest.NewRequest(http.MethodPost, "/dashboard/messages", strings.NewReader(`{"type":"openOrgModal","orgId":"2"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := c.do(req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := c.state()
	require.NotNil(t, data.Modals.Detail)
	assert.Equal(t, 2, data.Modals.Detail.ID)

	resp, _ = c.form("/dashboard/organizations/2/status", url.Values{"status": {"Confirmed--Yes"}}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = c.state()
	assert.Equal(t, 1, data.Stats.ConfirmedYes)
	assert.Nil(t, data.Modals.Detail)

	resp, _ = c.form("/dashboard/organizations/2/note/open", url.Values{}, false)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	data = c.state()
	require.NotNil(t, data.Modals.Note)
	assert.Equal(t, []string{"Luke", "Rachel"}, data.Modals.Note.NoteTakers)

	c.form("/dashboard/organizations/2/note", url.Values{"note": {"called twice"}, "note_taker": {"Rachel"}}, true)
	data = c.state()
	assert.Nil(t, data.Modals.Note)
	assert.Contains(t, data.Notices, core.Notice{Level: core.NoticeInfo, Message: "Note saved successfully!"})
	assert.Empty(t, c.state().Notices)

	resp, _ = c.form("/dashboard/organizations/2/status", url.Values{"status": {" "}}, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = c.form("/dashboard/organizations/x/done", url.Values{}, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboardModalsOpenOnlyByPost(t *testing.T) {
	c, _ := newClient(t)
	c.state()

	for _, path := range []string{"/dashboard/organizations/2", "/dashboard/organizations/2/open", "/dashboard/organizations/2/note", "/dashboard/organizations/2/note/open"} {
		resp, _ := c.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Contains(t, []int{http.StatusNotFound, http.StatusMethodNotAllowed}, resp.StatusCode, path)
	}
	data := c.state()
	assert.Nil(t, data.Modals.Detail)
	assert.Nil(t, data.Modals.Note)

	resp, _ := c.form("/dashboard/organizations/2/open", url.Values{}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = c.state()
	require.NotNil(t, data.Modals.Detail)
	assert.Equal(t, 2, data.Modals.Detail.ID)
}

func TestDashboardRejectsBadMessages(t *testing.T) {
	c, _ := newClient(t)

	req := httptest.NewRequest(http.MethodPost, "/dashboard/messages", strings.NewReader(`{"type":"resize"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := c.do(req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboardPageAndMap(t *testing.T) {
	c, _ := newClient(t)

	resp, body := c.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "/dashboard/messages")
	assert.Contains(t, body, "ev.origin !== window.location.origin")
	assert.Contains(t, body, `action="/dashboard/organizations/2/open"`)
	assert.NotContains(t, body, `href="/dashboard/organizations/`)
	assert.Contains(t, body, "Shelter")

	resp, body = c.do(httptest.NewRequest(http.MethodGet, "/dashboard/map", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "mapReady")
}
