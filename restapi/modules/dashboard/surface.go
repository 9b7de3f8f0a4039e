// Package dashboard serves the server-rendered dashboard page. Every browser session
// owns a dashboard controller whose rendered view models are kept by a SessionSurface.
package dashboard

import (
	"sync"

	core "github.com/ortelius/orgmap-backend/internal/dashboard"
)

// SessionSurface keeps the latest view models rendered by a controller
type SessionSurface struct {
	mu       sync.Mutex
	counties core.CountyFilterView
	list     core.ListView
	stats    core.StatsView
	mapView  core.MapView
	modals   core.ModalView
	notices  []core.Notice
}

// PageData is one consistent snapshot of the session views
type PageData struct {
	Counties core.CountyFilterView `json:"counties"`
	List     core.ListView         `json:"list"`
	Stats    core.StatsView        `json:"stats"`
	MapGen   uint64                `json:"map_generation"`
	Modals   core.ModalView        `json:"modals"`
	Notices  []core.Notice         `json:"notices"`
}

// RenderCounties stores the county filter view
func (s *SessionSurface) RenderCounties(v core.CountyFilterView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counties = v
}

// RenderList stores the without-location list
func (s *SessionSurface) RenderList(v core.ListView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = v
}

// RenderStats stores the counters
func (s *SessionSurface) RenderStats(v core.StatsView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = v
}

// RenderMap stores the map document
func (s *SessionSurface) RenderMap(v core.MapView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mapView = v
}

// RenderModals stores the modal views
func (s *SessionSurface) RenderModals(v core.ModalView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modals = v
}

// Notify queues a notice until the next page render
func (s *SessionSurface) Notify(n core.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, n)
}

// Map returns the last accepted map document
func (s *SessionSurface) Map() core.MapView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mapView
}

// Snapshot returns the current views and drains the queued notices
func (s *SessionSurface) Snapshot() PageData {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := PageData{
		Counties: s.counties,
		List:     s.list,
		Stats:    s.stats,
		MapGen:   s.mapView.Generation,
		Modals:   s.modals,
		Notices:  s.notices,
	}
	s.notices = nil
	return data
}
