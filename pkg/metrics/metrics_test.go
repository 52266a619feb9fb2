package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCounters(t *testing.T) {
	m := NewRegistry(prometheus.NewRegistry())

	m.RecordSearch("recent", "success")
	m.RecordSearch("recent", "success")
	m.RecordSearch("weekly", "failed")
	m.RecordSimulationDay(true)
	m.RecordSimulationDay(false)
	m.RecordSimulationRun("completed")

	m.StartStepTimer("synthesize").Stop(nil)
	m.StartStepTimer("synthesize").Stop(errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SearchQueries.WithLabelValues("recent", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchQueries.WithLabelValues("weekly", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SimulationDays.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SimulationRuns.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModelCalls.WithLabelValues("synthesize", "failed")))
}

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	m := NewNop()
	m.RecordAnalysis("basic", true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `stock_advisor_analysis_runs_total{mode="basic",outcome="success"} 1`)
}
