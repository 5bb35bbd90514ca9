package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Record pipeline metrics
	DecodesTotal  *prometheus.CounterVec
	FetchesTotal  *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	ExportsTotal  *prometheus.CounterVec

	// Navigation metrics
	NavTogglesTotal *prometheus.CounterVec
	NavHiddenItems  *prometheus.GaugeVec

	// WebSocket metrics
	WSConnections prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldex_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fieldex_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		DecodesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldex_record_decodes_total",
				Help: "Total record decode attempts by outcome",
			},
			[]string{"outcome"},
		),
		FetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldex_record_fetches_total",
				Help: "Total record XML fetches by outcome",
			},
			[]string{"outcome"},
		),
		FetchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fieldex_record_fetch_duration_seconds",
				Help:    "Record XML fetch duration in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		ExportsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldex_exports_total",
				Help: "Total record exports by format",
			},
			[]string{"format"},
		),

		NavTogglesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldex_nav_toggles_total",
				Help: "Total hide-list toggles by scope kind and action",
			},
			[]string{"scope", "action"},
		),
		NavHiddenItems: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fieldex_nav_hidden_items",
				Help: "Currently hidden menu items per scope kind",
			},
			[]string{"scope"},
		),

		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "fieldex_ws_connections",
				Help: "Active WebSocket connections",
			},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "fieldex_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}
}

// RecordHTTPRequest records one handled request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordDecode records a decode attempt.
func (m *Metrics) RecordDecode(outcome string) {
	m.DecodesTotal.WithLabelValues(outcome).Inc()
}

// RecordFetch records a record XML fetch.
func (m *Metrics) RecordFetch(outcome string, duration time.Duration) {
	m.FetchesTotal.WithLabelValues(outcome).Inc()
	m.FetchDuration.Observe(duration.Seconds())
}

// RecordExport records an export by format ("json" or "csv").
func (m *Metrics) RecordExport(format string) {
	m.ExportsTotal.WithLabelValues(format).Inc()
}

// RecordNavToggle records a hide-list mutation.
func (m *Metrics) RecordNavToggle(scope string, checked bool) {
	action := "show"
	if checked {
		action = "hide"
	}
	m.NavTogglesTotal.WithLabelValues(scope, action).Inc()
}

// UpdateUptime refreshes the uptime gauge.
func (m *Metrics) UpdateUptime() {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}
