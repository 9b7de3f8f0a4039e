package dashboard

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Organization Verification Dashboard</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; margin: 0; background: #f5f6fa; color: #333; }
header { background: #667eea; color: #fff; padding: 16px 24px; }
main { display: grid; grid-template-columns: 280px 1fr 360px; gap: 16px; padding: 16px; }
section { background: #fff; border-radius: 8px; padding: 12px; box-shadow: 0 1px 3px rgba(0,0,0,.1); }
iframe { width: 100%; height: 640px; border: 0; }
.stats { display: flex; gap: 8px; flex-wrap: wrap; padding: 16px; }
.stat { background: #fff; border-radius: 8px; padding: 8px 12px; min-width: 90px; text-align: center; }
.stat strong { display: block; font-size: 1.4em; }
.quick button.active { background: #667eea; color: #fff; }
.notice { margin: 8px 16px; padding: 8px 12px; border-radius: 6px; }
.notice.info { background: #e6f4ea; }
.notice.error { background: #fce8e6; }
form.inline { display: inline; }
button.link { background: none; border: 0; padding: 0; color: #667eea; cursor: pointer; font: inherit; }
.org-card { border-bottom: 1px solid #eee; padding: 8px 0; }
.status-badge { padding: 2px 8px; border-radius: 10px; font-size: .85em; background: #eee; }
.status-pending { background: #fff3cd; }
.status-confirmedyes { background: #d4edda; }
.status-confirmedno { background: #f8d7da; }
.status-inprocess { background: #d1ecf1; }
.modal { position: fixed; inset: 0; background: rgba(0,0,0,.4); display: flex; align-items: center; justify-content: center; }
.modal > div { background: #fff; border-radius: 8px; padding: 16px; width: 480px; max-height: 80vh; overflow: auto; }
</style>
</head>
<body>
<header><h1>Organization Verification Dashboard</h1></header>

{{range .Notices}}<div class="notice {{.Level}}">{{.Message}}</div>{{end}}

<div class="stats">
  <div class="stat"><strong>{{.Stats.Total}}</strong>Total</div>
  <div class="stat"><strong>{{.Stats.WithLocation}}</strong>With location</div>
  <div class="stat"><strong>{{.Stats.WithoutLocation}}</strong>Without location</div>
  <div class="stat"><strong>{{.Stats.Pending}}</strong>Pending</div>
  <div class="stat"><strong>{{.Stats.ConfirmedYes}}</strong>Confirmed--Yes</div>
  <div class="stat"><strong>{{.Stats.ConfirmedNo}}</strong>Confirmed--No</div>
  <div class="stat"><strong>{{.Stats.InProcess}}</strong>In Process</div>
  <div class="stat"><strong>{{.Stats.Other}}</strong>Other</div>
  <form class="quick" method="post" action="/dashboard/status">
    {{range .Stats.QuickFilters}}<button type="submit" name="status" value="{{.Bucket}}"{{if .Active}} class="active"{{end}}>{{.Label}}</button>{{end}}
    <button type="submit" name="status" value="">All</button>
  </form>
</div>

<main>
  <section>
    <h2>Counties</h2>
    <form method="post" action="/dashboard/counties">
      <button type="submit" name="all" value="{{if .Counties.AllChecked}}off{{else}}on{{end}}">{{if .Counties.AllChecked}}Clear all{{else}}Select all{{end}}</button>
    </form>
    <form method="post" action="/dashboard/counties">
      {{range .Counties.Options}}
      <label><input type="checkbox" name="county" value="{{.Name}}"{{if .Checked}} checked{{end}}> {{.Name}}</label><br>
      {{end}}
      <button type="submit">Apply</button>
    </form>
    <h2>Search</h2>
    <form method="post" action="/dashboard/search">
      <input type="search" name="search" value="{{.Counties.Search}}" placeholder="Name, address, county, phone, email">
      <button type="submit">Search</button>
    </form>
  </section>

  <section>
    <iframe id="map-frame" src="/dashboard/map?gen={{.MapGen}}" title="Organization map"></iframe>
  </section>

  <section>
    <h2>Organizations without location</h2>
    {{if .List.EmptyMessage}}<p>{{.List.EmptyMessage}}</p>{{end}}
    {{range .List.Entries}}
    <div class="org-card">
      <form class="inline" method="post" action="/dashboard/organizations/{{.ID}}/open"><button type="submit" class="link"><strong>{{.Name}}</strong></button></form>
      <span class="status-badge status-{{.StatusClass}}">{{.Status}}</span>
      <div>{{.County}} &middot; {{.Address}}</div>
      {{range .Notes}}<div><small><strong>{{.NoteTaker}}</strong>: {{.Note}} ({{.Date}})</small></div>{{end}}
      <form method="post" action="/dashboard/organizations/{{.ID}}/status">
        <select name="status">{{range .StatusOptions}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>{{end}}</select>
        <button type="submit">Update</button>
      </form>
      <form class="inline" method="post" action="/dashboard/organizations/{{.ID}}/note/open"><button type="submit" class="link">Add note</button></form>
    </div>
    {{end}}
  </section>
</main>

{{with .Modals.Detail}}
<div class="modal"><div>
  <h2>{{.Name}}</h2>
  <p><strong>County:</strong> {{.County}}</p>
  <p><strong>Address:</strong> {{.Address}}</p>
  <p><strong>Zipcode:</strong> {{.Zipcode}}</p>
  <p><strong>Website:</strong> {{if .Website.Href}}<a href="{{.Website.Href}}" target="_blank" rel="noopener">{{.Website.Text}}</a>{{else}}{{.Website.Text}}{{end}}</p>
  <p><strong>Phone:</strong> {{.Phone}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>Status:</strong> <span class="status-badge status-{{.StatusClass}}">{{.Status}}</span></p>
  {{if .Notes}}<h3>Notes</h3><ul>{{range .Notes}}<li><strong>{{.NoteTaker}}</strong>: {{.Note}} ({{.Date}})</li>{{end}}</ul>{{end}}
  <form method="post" action="/dashboard/organizations/{{.ID}}/status">
    <select name="status">{{range .StatusOptions}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>{{end}}</select>
    <button type="submit">Change status</button>
  </form>
  <form method="post" action="/dashboard/organizations/{{.ID}}/done"><button type="submit">Mark as done</button></form>
  <form class="inline" method="post" action="/dashboard/organizations/{{.ID}}/note/open"><button type="submit" class="link">Add note</button></form>
  <form method="post" action="/dashboard/close"><button type="submit" name="modal" value="detail">Close</button></form>
</div></div>
{{end}}

{{with .Modals.Note}}
<div class="modal"><div>
  <h3>{{.Name}}</h3>
  <p><strong>Current Status:</strong> <span class="status-badge status-{{.StatusClass}}">{{.Status}}</span></p>
  <form method="post" action="/dashboard/organizations/{{.ID}}/note">
    <label>Note Taker
      <select name="note_taker"><option value="">Select a name</option>{{range .NoteTakers}}<option value="{{.}}">{{.}}</option>{{end}}</select>
    </label>
    <textarea name="note" rows="5" style="width:100%">{{.Draft}}</textarea>
    <button type="submit">Save note</button>
  </form>
  <form method="post" action="/dashboard/close"><button type="submit" name="modal" value="note">Cancel</button></form>
</div></div>
{{end}}

<script>
window.addEventListener('message', function (ev) {
  if (ev.origin !== window.location.origin) { return; }
  var data = ev.data;
  if (!data || (data.type !== 'openOrgModal' && data.type !== 'mapReady')) { return; }
  fetch('/dashboard/messages', {
    method: 'POST',
    headers: { 'Content-Type': 'application/json' },
    credentials: 'same-origin',
    body: JSON.stringify(data)
  }).then(function (resp) {
    if (resp.ok && data.type === 'openOrgModal') { window.location.reload(); }
  });
});
</script>
</body>
</html>
`
