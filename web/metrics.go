// ABOUTME: Prometheus collectors for analysis and simulation activity.
// ABOUTME: Each server owns a private registry so tests can run side by side.
package web

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	analysesTotal    *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	attractorsFound  prometheus.Counter
	simSessions      prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on a fresh
// registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		analysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "basin_analyses_total",
			Help: "Analyses finished, labelled by terminal status.",
		}, []string{"status"}),
		analysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "basin_analysis_duration_seconds",
			Help:    "Wall-clock duration of finished analyses.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		attractorsFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "basin_attractors_found_total",
			Help: "Attractors discovered across completed analyses.",
		}),
		simSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "basin_simulation_sessions",
			Help: "Live interactive simulation sessions.",
		}),
	}
	m.registry.MustRegister(m.analysesTotal, m.analysisDuration, m.attractorsFound, m.simSessions)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// AnalysisFinished records one finished analysis run.
func (m *Metrics) AnalysisFinished(status string, elapsed time.Duration) {
	m.analysesTotal.WithLabelValues(status).Inc()
	m.analysisDuration.Observe(elapsed.Seconds())
}

// AttractorsFound adds to the running attractor count.
func (m *Metrics) AttractorsFound(n int) {
	m.attractorsFound.Add(float64(n))
}

// SetSimulationSessions updates the live session gauge.
func (m *Metrics) SetSimulationSessions(n int) {
	m.simSessions.Set(float64(n))
}
