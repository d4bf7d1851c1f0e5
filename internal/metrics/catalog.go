package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Catalog backend and specification cache metrics.
var (
	CatalogRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "apicat",
			Name:      "catalog_requests_total",
			Help:      "Total number of requests sent to the catalog data API",
		},
		[]string{"method", "status"},
	)

	CatalogRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "apicat",
			Name:      "catalog_request_duration_seconds",
			Help:      "Catalog data API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method"},
	)

	CatalogPagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "apicat",
			Name:      "catalog_pages_total",
			Help:      "Listing pages fetched, by kind",
		},
		[]string{"kind"}, // "first" / "next" / "skipped"
	)

	SpecCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "apicat",
			Name:      "spec_cache_total",
			Help:      "Specification cache lookups",
		},
		[]string{"result"}, // "hit" / "miss" / "shared"
	)

	BrowseStaleDropsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "apicat",
			Name:      "browse_stale_responses_total",
			Help:      "Page responses discarded because the search intent changed",
		},
	)
)

var registerCatalogOnce sync.Once

// RegisterCatalogMetrics registers the catalog metrics with the default registry.
// Safe to call more than once.
func RegisterCatalogMetrics() {
	registerCatalogOnce.Do(func() {
		prometheus.MustRegister(
			CatalogRequestsTotal,
			CatalogRequestDuration,
			CatalogPagesTotal,
			SpecCacheTotal,
			BrowseStaleDropsTotal,
		)
	})
}
