// Package metrics exposes the engine's size as Prometheus gauges, polled
// on every scrape rather than pushed on every write — the engine's own
// Stats call is already a lock-free atomic read, so there is nothing to
// gain from maintaining separate counters in the hot path.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	itemsDesc = prometheus.NewDesc(
		"qsearch_items_total",
		"Number of items currently registered in the fragment graph.",
		nil, nil,
	)
	fragmentsDesc = prometheus.NewDesc(
		"qsearch_fragments_total",
		"Number of live fragment nodes currently in the graph.",
		nil, nil,
	)
	maxItemsDesc = prometheus.NewDesc(
		"qsearch_max_items_per_fragment",
		"Largest number of items attached to any single fragment node.",
		nil, nil,
	)
	maxParentsDesc = prometheus.NewDesc(
		"qsearch_max_parents_per_fragment",
		"Largest number of parent edges on any single fragment node.",
		nil, nil,
	)
)

// StatsSource reports the current item and fragment counts, the role
// qsearch.Engine.Stats plays. Collector depends on this narrow interface
// rather than *qsearch.Engine so it stays decoupled from the core package.
type StatsSource func() (itemCount, fragmentCount int)

// FragmentStatsSource reports per-node load extremes, the role
// qsearch.Engine.InspectFragments plays. It walks the whole graph, so
// Collector only calls it on scrape, not on every write.
type FragmentStatsSource func() (maxItemsPerFragment, maxParentsPerFragment int)

// Collector adapts a StatsSource and a FragmentStatsSource to
// prometheus.Collector.
type Collector struct {
	stats         StatsSource
	fragmentStats FragmentStatsSource
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a Collector that reports stats() and
// fragmentStats() on every scrape.
func NewCollector(stats StatsSource, fragmentStats FragmentStatsSource) *Collector {
	return &Collector{stats: stats, fragmentStats: fragmentStats}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- itemsDesc
	ch <- fragmentsDesc
	ch <- maxItemsDesc
	ch <- maxParentsDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	items, fragments := c.stats()
	ch <- prometheus.MustNewConstMetric(itemsDesc, prometheus.GaugeValue, float64(items))
	ch <- prometheus.MustNewConstMetric(fragmentsDesc, prometheus.GaugeValue, float64(fragments))

	maxItems, maxParents := c.fragmentStats()
	ch <- prometheus.MustNewConstMetric(maxItemsDesc, prometheus.GaugeValue, float64(maxItems))
	ch <- prometheus.MustNewConstMetric(maxParentsDesc, prometheus.GaugeValue, float64(maxParents))
}
