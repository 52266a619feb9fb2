package metrics

import (
	"net/http"
	"time"

	"golang-stock-advisor/pkg/common"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics of the advisor.
type Registry struct {
	gatherer prometheus.Gatherer

	SearchQueries  *prometheus.CounterVec
	ModelCalls     *prometheus.CounterVec
	StepDuration   *prometheus.HistogramVec
	AnalysisRuns   *prometheus.CounterVec
	SimulationDays *prometheus.CounterVec
	SimulationRuns *prometheus.CounterVec
}

// NewRegistry creates the advisor metrics and registers them on reg.
func NewRegistry(reg *prometheus.Registry) *Registry {
	m := &Registry{
		gatherer: reg,
		SearchQueries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: common.MetricsNamespace,
				Name:      "search_queries_total",
				Help:      "Search queries issued by evidence category and outcome",
			},
			[]string{"category", "outcome"},
		),
		ModelCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: common.MetricsNamespace,
				Name:      "model_calls_total",
				Help:      "Generative model calls by pipeline step and outcome",
			},
			[]string{"step", "outcome"},
		),
		StepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: common.MetricsNamespace,
				Name:      "step_duration_seconds",
				Help:      "Duration of each pipeline step in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"step", "outcome"},
		),
		AnalysisRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: common.MetricsNamespace,
				Name:      "analysis_runs_total",
				Help:      "One-shot analyses by pipeline mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		SimulationDays: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: common.MetricsNamespace,
				Name:      "simulation_days_total",
				Help:      "Simulated trading days by outcome",
			},
			[]string{"outcome"},
		),
		SimulationRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: common.MetricsNamespace,
				Name:      "simulation_runs_total",
				Help:      "Simulation runs by final state",
			},
			[]string{"state"},
		),
	}

	reg.MustRegister(
		m.SearchQueries,
		m.ModelCalls,
		m.StepDuration,
		m.AnalysisRuns,
		m.SimulationDays,
		m.SimulationRuns,
	)
	return m
}

// NewNop returns metrics registered on a private registry.
func NewNop() *Registry {
	return NewRegistry(prometheus.NewRegistry())
}

// StepTimer measures the duration of one pipeline step.
type StepTimer struct {
	m     *Registry
	step  string
	start time.Time
}

// StartStepTimer starts timing step.
func (m *Registry) StartStepTimer(step string) *StepTimer {
	return &StepTimer{m: m, step: step, start: time.Now()}
}

// Stop records the elapsed time and counts the model call outcome.
func (st *StepTimer) Stop(err error) {
	outcome := common.StatusSuccess
	if err != nil {
		outcome = common.StatusFailed
	}
	st.m.StepDuration.WithLabelValues(st.step, outcome).Observe(time.Since(st.start).Seconds())
	st.m.ModelCalls.WithLabelValues(st.step, outcome).Inc()
}

func (m *Registry) RecordSearch(category, outcome string) {
	m.SearchQueries.WithLabelValues(category, outcome).Inc()
}

func (m *Registry) RecordAnalysis(mode string, success bool) {
	m.AnalysisRuns.WithLabelValues(mode, outcomeOf(success)).Inc()
}

func (m *Registry) RecordSimulationDay(success bool) {
	m.SimulationDays.WithLabelValues(outcomeOf(success)).Inc()
}

func (m *Registry) RecordSimulationRun(state string) {
	m.SimulationRuns.WithLabelValues(state).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func outcomeOf(success bool) string {
	if success {
		return common.StatusSuccess
	}
	return common.StatusFailed
}
