// Package metrics registers the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Update kinds
const (
	KindStatus = "status"
	KindNote   = "note"
	KindRemote = "remote"
)

var (
	// Registry holds every collector exposed on /metrics
	Registry = prometheus.NewRegistry()

	// StatusUpdates counts applied organization updates by kind
	StatusUpdates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orgmap_status_updates_total",
		Help: "Organization status and note updates applied.",
	}, []string{"kind"})

	// MapRenders counts rendered map documents
	MapRenders = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orgmap_map_renders_total",
		Help: "Map documents rendered.",
	})

	// MapRenderSeconds observes map rendering latency
	MapRenderSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orgmap_map_render_seconds",
		Help:    "Time spent rendering a map document.",
		Buckets: prometheus.DefBuckets,
	})

	// StaleMaps counts map responses dropped because a newer fetch was issued
	StaleMaps = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orgmap_dashboard_stale_maps_total",
		Help: "Superseded map documents discarded by dashboard sessions.",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		StatusUpdates,
		MapRenders,
		MapRenderSeconds,
		StaleMaps,
	)
}

// Handler serves the registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
