package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ForegroundEvents counts foreground-change events by outcome
	// (processed, ignored, dropped).
	ForegroundEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foreground_events_total",
			Help: "Total number of foreground-change events by outcome",
		},
		[]string{"outcome"},
	)

	// BlockDecisions counts evaluator outcomes (allow, block).
	BlockDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "block_decisions_total",
			Help: "Total number of blocking decisions by outcome",
		},
		[]string{"decision"},
	)

	// OverlayRequests counts overlay display requests by result
	// (shown, permission_denied, error).
	OverlayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overlay_requests_total",
			Help: "Total number of overlay display requests by result",
		},
		[]string{"result"},
	)

	// ScheduleResets counts completed daily resets.
	ScheduleResets = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "schedule_resets_total",
			Help: "Total number of completed daily schedule resets",
		},
	)

	// MonitorBlocking is 1 while the monitor is in the Blocking state.
	MonitorBlocking = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "monitor_blocking",
			Help: "Whether the foreground monitor currently shows a block (0 or 1)",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestDuration, RequestTotal,
			ForegroundEvents, BlockDecisions, OverlayRequests,
			ScheduleResets, MonitorBlocking,
		)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /schedule/monday/tasks/2 -> /schedule/monday/tasks/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}
