// Package metrics exposes Prometheus series for analyses, HTTP traffic and
// dashboard connections. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "workshopzones"

// Analysis sources
const (
	SourceComputed = "computed"
	SourceCache    = "cache"
)

type Metrics struct {
	registry *prometheus.Registry

	AnalysesTotal     *prometheus.CounterVec
	AnalysisDuration  prometheus.Histogram
	RespondentsScored prometheus.Counter
	DivergentGroups   prometheus.Counter

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DashboardConnections prometheus.Gauge
}

// New registers every series on a private registry.
//
//   - workshopzones_analyses_total{source}
//   - workshopzones_analysis_duration_seconds
//   - workshopzones_respondents_scored_total
//   - workshopzones_divergent_groups_total
//   - workshopzones_http_requests_total{route,method,code}
//   - workshopzones_http_request_duration_seconds{route,method}
//   - workshopzones_dashboard_connections
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		AnalysesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Group analyses served, by source.",
		}, []string{"source"}),
		AnalysisDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent running the scoring engine for one group.",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		RespondentsScored: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "respondents_scored_total",
			Help:      "Respondents classified by the engine.",
		}),
		DivergentGroups: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "divergent_groups_total",
			Help:      "Analyses where the average and count readings disagreed.",
		}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route template, method and status code.",
		}, []string{"route", "method", "code"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		DashboardConnections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dashboard_connections",
			Help:      "Open dashboard websocket connections.",
		}),
	}
}

// Registry is the registry backing Handler
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveAnalysis records one served analysis. Engine timing and respondent
// counts are only recorded for computed results.
func (m *Metrics) ObserveAnalysis(source string, respondents int, divergent bool, took time.Duration) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(source).Inc()
	if source != SourceComputed {
		return
	}
	m.AnalysisDuration.Observe(took.Seconds())
	m.RespondentsScored.Add(float64(respondents))
	if divergent {
		m.DivergentGroups.Inc()
	}
}

func (m *Metrics) ObserveRequest(route, method string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route, method).Observe(took.Seconds())
}

func (m *Metrics) DashboardConnected() {
	if m != nil {
		m.DashboardConnections.Inc()
	}
}

func (m *Metrics) DashboardDisconnected() {
	if m != nil {
		m.DashboardConnections.Dec()
	}
}
