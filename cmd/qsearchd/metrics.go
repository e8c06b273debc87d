package main

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fraglab/qsearch/metrics"
)

// registerMetrics wires a metrics.Collector polling srv's engine into the
// default Prometheus registry, scraped via GET /metrics (promhttp.Handler
// in server.go reads from the same default registry).
func registerMetrics(srv *server) error {
	collector := metrics.NewCollector(
		func() (itemCount, fragmentCount int) {
			stats := srv.engine.Stats()
			return stats.ItemCount, stats.FragmentCount
		},
		func() (maxItemsPerFragment, maxParentsPerFragment int) {
			fs := srv.engine.InspectFragments()
			return fs.MaxItemsPerFragment, fs.MaxParentsPerFragment
		},
	)
	return prometheus.Register(collector)
}
