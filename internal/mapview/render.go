// Package mapview renders the interactive map document: a Leaflet map with clustered,
// status-colored markers and popups carrying a "Verify / Change Status" control.
package mapview

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/ortelius/orgmap-backend/internal/metrics"
	"github.com/ortelius/orgmap-backend/model"
	"github.com/ortelius/orgmap-backend/util"
)

// Options positions the map
type Options struct {
	Center      [2]float64
	EmptyCenter [2]float64
	Zoom        int
}

type marker struct {
	ID      int     `json:"id"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Color   string  `json:"color"`
	Tooltip string  `json:"tooltip"`
	Popup   string  `json:"popup"`
}

type popupData struct {
	ID          int
	Name        string
	Address     string
	HasAddress  bool
	Phone       string
	Email       string
	WebsiteText string
	WebsiteHref string
	Status      string
	County      string
	Zipcode     string
	Notes       []model.NoteEntry
}

type pageData struct {
	Center     [2]float64
	Zoom       int
	Markers    []marker
	Generation uint64
}

// Renderer produces map documents
type Renderer struct {
	opts  Options
	page  *template.Template
	popup *template.Template
}

// NewRenderer returns a renderer with the given map position
func NewRenderer(opts Options) *Renderer {
	if opts.Zoom == 0 {
		opts.Zoom = 9
	}
	return &Renderer{
		opts:  opts,
		page:  template.Must(template.New("map").Parse(pageTemplate)),
		popup: template.Must(template.New("popup").Parse(popupTemplate)),
	}
}

// Render writes the map document for orgs. Organizations without a finite location are skipped.
// An empty selection renders the default map at the empty center.
func (r *Renderer) Render(w io.Writer, orgs []model.Organization, generation uint64) error {
	start := time.Now()
	defer func() {
		metrics.MapRenders.Inc()
		metrics.MapRenderSeconds.Observe(time.Since(start).Seconds())
	}()

	data := pageData{Center: r.opts.Center, Zoom: r.opts.Zoom, Markers: []marker{}, Generation: generation}
	for _, org := range orgs {
		if !org.HasLocation() {
			continue
		}
		popup, err := r.renderPopup(org)
		if err != nil {
			return err
		}
		data.Markers = append(data.Markers, marker{
			ID:      org.ID,
			Lat:     *org.Lat,
			Lon:     *org.Lon,
			Color:   model.StatusColor(org.StatusOrDefault()),
			Tooltip: util.DisplayOr(org.Name, "Organization"),
			Popup:   popup,
		})
	}
	if len(data.Markers) == 0 {
		data.Center = r.opts.EmptyCenter
	}
	if err := r.page.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render map: %w", err)
	}
	return nil
}

// RenderBytes renders the map document into memory
func (r *Renderer) RenderBytes(orgs []model.Organization, generation uint64) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, orgs, generation); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) renderPopup(org model.Organization) (string, error) {
	address := util.CleanValue(org.Address)
	data := popupData{
		ID:         org.ID,
		Name:       util.DisplayOr(org.Name, "Organization"),
		Address:    util.DisplayOr(address, "No address provided"),
		HasAddress: address != "",
		Phone:      util.DisplayOrMissing(org.Phone),
		Email:      util.DisplayOrMissing(org.Email),
		Status:     org.StatusOrDefault(),
		County:     util.DisplayOrMissing(org.County),
		Zipcode:    util.DisplayOrMissing(org.Zipcode),
		Notes:      org.NoteHistory,
	}
	data.WebsiteText = util.Missing
	if href, ok := util.WebsiteHref(org.Website); ok {
		data.WebsiteText = util.CleanValue(org.Website)
		data.WebsiteHref = href
	}

	var buf bytes.Buffer
	if err := r.popup.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render popup for organization %d: %w", org.ID, err)
	}
	return buf.String(), nil
}

const popupTemplate = `<div class="org-popup">
<h3>{{.Name}}</h3>
<p><strong>Address:</strong> {{.Address}}</p>
{{- if not .HasAddress}}
<p class="hint"><em>No address on file. Phone: {{.Phone}}, Email: {{.Email}}</em></p>
{{- end}}
<p><strong>Phone:</strong> {{.Phone}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Website:</strong> {{if .WebsiteHref}}<a href="{{.WebsiteHref}}" target="_blank" rel="noopener">{{.WebsiteText}}</a>{{else}}{{.WebsiteText}}{{end}}</p>
<p><strong>Status:</strong> <span class="status">{{.Status}}</span></p>
<p><strong>County:</strong> {{.County}}</p>
<p><strong>Zipcode:</strong> {{.Zipcode}}</p>
{{- if .Notes}}
<div class="notes"><strong>Notes:</strong><ul>
{{- range .Notes}}
<li><strong>{{.NoteTaker}}</strong>: {{.Note}} <span class="date">{{.Date}}</span></li>
{{- end}}
</ul></div>
{{- end}}
<button type="button" data-verify-id="{{.ID}}">Verify / Change Status</button>
</div>`

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.css">
<link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.Default.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script src="https://unpkg.com/leaflet.markercluster@1.5.3/dist/leaflet.markercluster.js"></script>
<style>
html, body, #map { height: 100%; margin: 0; }
.org-popup { width: 250px; font-family: 'Times New Roman', Times, serif; }
.org-popup p { margin: 5px 0; }
.org-popup .status { color: orange; }
.org-popup .date { color: #666; }
.org-popup button { display: block; width: 100%; margin-top: 10px; padding: 8px 12px; background: #667eea; color: #fff; border: none; border-radius: 4px; cursor: pointer; font-weight: 600; }
</style>
</head>
<body>
<div id="map"></div>
<script>
(function () {
  var markers = {{.Markers}};
  var map = L.map('map').setView([{{index .Center 0}}, {{index .Center 1}}], {{.Zoom}});
  L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
    maxZoom: 19,
    attribution: '&copy; OpenStreetMap contributors'
  }).addTo(map);

  var cluster = L.markerClusterGroup();
  markers.forEach(function (m) {
    L.circleMarker([m.lat, m.lon], { radius: 8, color: '#333', weight: 1, fillColor: m.color, fillOpacity: 0.9 })
      .bindPopup(m.popup, { maxWidth: 300 })
      .bindTooltip(m.tooltip)
      .addTo(cluster);
  });
  map.addLayer(cluster);

  function host() {
    return window.parent && window.parent !== window ? window.parent : window;
  }

  document.addEventListener('click', function (ev) {
    var el = ev.target && ev.target.closest ? ev.target.closest('[data-verify-id]') : null;
    if (!el) { return; }
    ev.preventDefault();
    var id = parseInt(el.getAttribute('data-verify-id'), 10);
    if (isNaN(id)) { return; }
    host().postMessage({ type: 'openOrgModal', orgId: id }, '*');
  });

  map.whenReady(function () {
    host().postMessage({ type: 'mapReady', generation: {{.Generation}} }, '*');
  });
})();
</script>
</body>
</html>
`
