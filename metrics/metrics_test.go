// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func TestNoopMetrics(t *testing.T) {
	m := defaultNoopMetrics()
	assert.Nil(t, m.GetOrCreateHandler())
	// must not panic
	m.GetOrCreateCountMeter("c").Add(1)
	m.GetOrCreateGaugeVecMeter("g", []string{"l"}).SetWithLabel(1, map[string]string{"l": "x"})
	m.GetOrCreateHistogramMeter("h", nil).Observe(1)
}

func gather(t *testing.T) map[string]*dto.MetricFamily {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily)
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()
	assert.False(t, NoOp())

	lazy := LazyLoadCounter("test_calls")
	lazy().Add(2)
	Counter("test_calls").Add(3)

	CounterVec("test_reverts", []string{"kind"}).AddWithLabel(1, map[string]string{"kind": "auth"})
	Gauge("test_supply").Set(42)
	GaugeVec("test_weights", []string{"gauge"}).SetWithLabel(7, map[string]string{"gauge": "g1"})
	Histogram("test_gas", BucketGas).Observe(60_000)

	families := gather(t)
	assert.Equal(t, float64(5), families["vedao_test_calls"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, float64(1), families["vedao_test_reverts"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, float64(42), families["vedao_test_supply"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, float64(7), families["vedao_test_weights"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, uint64(1), families["vedao_test_gas"].GetMetric()[0].GetHistogram().GetSampleCount())

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "vedao_test_calls 5")
}
