package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ortelius/orgmap-backend/model"
)

// ErrBackend is returned when the backend answers with a non-success status
var ErrBackend = errors.New("backend request failed")

// Backend is the collaborator holding the authoritative organization data
type Backend interface {
	Counties(ctx context.Context) ([]string, error)
	Organizations(ctx context.Context) ([]model.Organization, error)
	OrganizationsWithoutLocation(ctx context.Context) ([]model.Organization, error)
	MapDocument(ctx context.Context, query MapQuery) ([]byte, error)
	// UpdateStatus returns the authoritative record, or an empty patch when the backend sent none.
	UpdateStatus(ctx context.Context, id int, req model.StatusUpdateRequest) (model.OrganizationPatch, error)
}

// MapQuery carries the filters of one map fetch
type MapQuery struct {
	Counties []string
	// CountiesRestricted sends the counties parameter even when Counties is empty,
	// which asks the backend for a map without organizations.
	CountiesRestricted bool
	Status             model.StatusBucket
	Search             string
	Generation         uint64
}

// Values encodes the query parameters, omitting filters that do not restrict anything
func (q MapQuery) Values() url.Values {
	v := url.Values{}
	if q.CountiesRestricted {
		names := make([]string, 0, len(q.Counties))
		for _, c := range q.Counties {
			if c = strings.TrimSpace(c); c != "" {
				names = append(names, c)
			}
		}
		v.Set("counties", strings.Join(names, ","))
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Generation > 0 {
		v.Set("gen", strconv.FormatUint(q.Generation, 10))
	}
	return v
}

// ParseMapQuery decodes query parameters produced by Values.
// A present but empty counties parameter restricts the map to no county.
func ParseMapQuery(v url.Values) MapQuery {
	q := MapQuery{
		Status: model.StatusBucket(strings.TrimSpace(v.Get("status"))),
		Search: strings.ToLower(strings.TrimSpace(v.Get("search"))),
	}
	if q.Status != "" {
		q.Status = model.ClassifyStatus(string(q.Status))
	}
	if _, ok := v["counties"]; ok {
		q.CountiesRestricted = true
		for _, c := range strings.Split(v.Get("counties"), ",") {
			if c = strings.TrimSpace(c); c != "" {
				q.Counties = append(q.Counties, c)
			}
		}
	}
	if gen, err := strconv.ParseUint(v.Get("gen"), 10, 64); err == nil {
		q.Generation = gen
	}
	return q
}

// Select returns the organizations with location matching the query, in input order
func (q MapQuery) Select(orgs []model.Organization) []model.Organization {
	var counties map[string]bool
	if q.CountiesRestricted {
		counties = make(map[string]bool, len(q.Counties))
		for _, c := range q.Counties {
			counties[strings.TrimSpace(c)] = true
		}
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := []model.Organization{}
	for _, org := range orgs {
		if !org.HasLocation() {
			continue
		}
		if counties != nil && !counties[org.County] {
			continue
		}
		if q.Status != "" && model.ClassifyStatus(org.Status) != model.ClassifyStatus(string(q.Status)) {
			continue
		}
		if !MatchesSearch(org, search) {
			continue
		}
		out = append(out, org)
	}
	return out
}

// HTTPBackend talks to the REST API of a remote backend
type HTTPBackend struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPBackend returns a backend client rooted at baseURL
func NewHTTPBackend(baseURL string) *HTTPBackend {
	return &HTTPBackend{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Counties fetches GET /api/counties
func (b *HTTPBackend) Counties(ctx context.Context) ([]string, error) {
	var counties []string
	if err := b.getJSON(ctx, "/api/counties", &counties); err != nil {
		return nil, err
	}
	return counties, nil
}

// Organizations fetches GET /api/organizations
func (b *HTTPBackend) Organizations(ctx context.Context) ([]model.Organization, error) {
	var orgs []model.Organization
	if err := b.getJSON(ctx, "/api/organizations", &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// OrganizationsWithoutLocation fetches GET /api/organizations_without_location
func (b *HTTPBackend) OrganizationsWithoutLocation(ctx context.Context) ([]model.Organization, error) {
	var orgs []model.Organization
	if err := b.getJSON(ctx, "/api/organizations_without_location", &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// MapDocument fetches GET /api/map with the query filters
func (b *HTTPBackend) MapDocument(ctx context.Context, query MapQuery) ([]byte, error) {
	path := "/api/map"
	if enc := query.Values().Encode(); enc != "" {
		path += "?" + enc
	}
	resp, err := b.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// UpdateStatus sends PUT /api/organizations/{id}/status
func (b *HTTPBackend) UpdateStatus(ctx context.Context, id int, req model.StatusUpdateRequest) (model.OrganizationPatch, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode status update: %w", err)
	}
	resp, err := b.do(ctx, http.MethodPut, fmt.Sprintf("/api/organizations/%d/status", id), body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope struct {
		Organization json.RawMessage `json:"organization"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode status update response: %w", err)
	}
	patch := model.OrganizationPatch{}
	if len(envelope.Organization) == 0 || string(envelope.Organization) == "null" {
		return patch, nil
	}
	if err := json.Unmarshal(envelope.Organization, &patch); err != nil {
		return nil, fmt.Errorf("failed to decode updated organization: %w", err)
	}
	return patch, nil
}

func (b *HTTPBackend) getJSON(ctx context.Context, path string, out any) error {
	resp, err := b.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// do issues the request and returns the response only for 2xx statuses
func (b *HTTPBackend) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, b.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s %s returned %d", ErrBackend, method, path, resp.StatusCode)
	}
	return resp, nil
}
