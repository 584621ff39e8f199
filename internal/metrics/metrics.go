package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	samplesTotal    *prometheus.CounterVec
	sampleDuration  *prometheus.HistogramVec
	resultsEmitted  *prometheus.CounterVec
	collectorPhases *prometheus.CounterVec
	runsTotal       *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		samplesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "benchwrap_samples_total",
				Help: "Total number of benchmark samples collected",
			},
			[]string{"tool", "status"},
		),

		sampleDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "benchwrap_sample_duration_seconds",
				Help:    "Benchmark sample duration in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"tool"},
		),

		resultsEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "benchwrap_results_emitted_total",
				Help: "Total number of result documents handed to the exporter",
			},
			[]string{"tool", "status"},
		),

		collectorPhases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "benchwrap_collector_phases_total",
				Help: "Collector lifecycle phases executed",
			},
			[]string{"collector", "phase", "status"},
		),

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "benchwrap_runs_total",
				Help: "Total number of benchmark runs",
			},
			[]string{"tool", "status"},
		),
	}

	reg.MustRegister(r.samplesTotal)
	reg.MustRegister(r.sampleDuration)
	reg.MustRegister(r.resultsEmitted)
	reg.MustRegister(r.collectorPhases)
	reg.MustRegister(r.runsTotal)

	return r
}

// RecordSample records one collected benchmark sample.
func (r *Registry) RecordSample(tool, status string, duration float64) {
	r.samplesTotal.WithLabelValues(tool, status).Inc()
	r.sampleDuration.WithLabelValues(tool).Observe(duration)
}

// RecordResults records result documents handed to the exporter.
func (r *Registry) RecordResults(tool, status string, count int) {
	r.resultsEmitted.WithLabelValues(tool, status).Add(float64(count))
}

// RecordCollectorPhase records a collector lifecycle phase.
func (r *Registry) RecordCollectorPhase(collector, phase, status string) {
	r.collectorPhases.WithLabelValues(collector, phase, status).Inc()
}

// RecordRun records a completed benchmark run.
func (r *Registry) RecordRun(tool, status string) {
	r.runsTotal.WithLabelValues(tool, status).Inc()
}

// Handler returns an HTTP handler exposing the registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{})
}
