package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "pairlens"

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics for the exporter endpoint
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Run metrics
	runsTotal           *prometheus.CounterVec
	runDuration         prometheus.Histogram
	lastSuccess         prometheus.Gauge
	trendsClassified    *prometheus.CounterVec
	correlationComputed *prometheus.CounterVec
	artifactsWritten    *prometheus.CounterVec
	seriesPoints        *prometheus.GaugeVec
	commentaryTotal     *prometheus.CounterVec
	notificationsTotal  *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	r.runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of analysis runs by outcome",
		},
		[]string{"status"},
	)
	r.runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Analysis run duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)
	r.lastSuccess = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run",
		},
	)
	r.trendsClassified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trends_total",
			Help:      "Trend results by asset and direction",
		},
		[]string{"asset", "direction"},
	)
	r.correlationComputed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "correlations_total",
			Help:      "Correlation results by availability",
		},
		[]string{"available"},
	)
	r.artifactsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_written_total",
			Help:      "Artifacts published by name",
		},
		[]string{"artifact"},
	)
	r.seriesPoints = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "series_points",
			Help:      "Points fetched for each asset in the last run",
		},
		[]string{"asset"},
	)
	r.commentaryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commentary_total",
			Help:      "Commentary requests by provider and outcome",
		},
		[]string{"provider", "status"},
	)
	r.notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Run announcements by notifier and outcome",
		},
		[]string{"notifier", "status"},
	)

	reg.MustRegister(r.runsTotal)
	reg.MustRegister(r.runDuration)
	reg.MustRegister(r.lastSuccess)
	reg.MustRegister(r.trendsClassified)
	reg.MustRegister(r.correlationComputed)
	reg.MustRegister(r.artifactsWritten)
	reg.MustRegister(r.seriesPoints)
	reg.MustRegister(r.commentaryTotal)
	reg.MustRegister(r.notificationsTotal)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordRun records a finished run. status is "success" or "failure".
func (r *Registry) RecordRun(status string, duration time.Duration, finished time.Time) {
	r.runsTotal.WithLabelValues(status).Inc()
	r.runDuration.Observe(duration.Seconds())
	if status == StatusSuccess {
		r.lastSuccess.Set(float64(finished.Unix()))
	}
}

// Run outcomes.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// RecordTrend records one asset's trend direction, or its kind when no
// direction was classified.
func (r *Registry) RecordTrend(asset, direction string) {
	r.trendsClassified.WithLabelValues(asset, direction).Inc()
}

// RecordCorrelation records whether a correlation was computed.
func (r *Registry) RecordCorrelation(available bool) {
	label := "false"
	if available {
		label = "true"
	}
	r.correlationComputed.WithLabelValues(label).Inc()
}

// RecordArtifact records a published artifact.
func (r *Registry) RecordArtifact(name string) {
	r.artifactsWritten.WithLabelValues(name).Inc()
}

// SetSeriesPoints sets the number of fetched points for asset.
func (r *Registry) SetSeriesPoints(asset string, n int) {
	r.seriesPoints.WithLabelValues(asset).Set(float64(n))
}

// RecordCommentary records a commentary request outcome.
func (r *Registry) RecordCommentary(provider, status string) {
	r.commentaryTotal.WithLabelValues(provider, status).Inc()
}

// RecordNotification records a run announcement outcome.
func (r *Registry) RecordNotification(notifier, status string) {
	r.notificationsTotal.WithLabelValues(notifier, status).Inc()
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
