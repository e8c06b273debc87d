package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorReportsStats(t *testing.T) {
	c := NewCollector(
		func() (int, int) { return 3, 14 },
		func() (int, int) { return 5, 2 },
	)

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	got, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, got, 4)

	values := make(map[string]float64)
	for _, mf := range got {
		values[mf.GetName()] = metricValue(mf.GetMetric()[0])
	}
	assert.Equal(t, 3.0, values["qsearch_items_total"])
	assert.Equal(t, 14.0, values["qsearch_fragments_total"])
	assert.Equal(t, 5.0, values["qsearch_max_items_per_fragment"])
	assert.Equal(t, 2.0, values["qsearch_max_parents_per_fragment"])
}

func metricValue(m *dto.Metric) float64 {
	return m.GetGauge().GetValue()
}
