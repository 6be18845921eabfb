// Package metrics tracks server-level Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks loreleaf Prometheus metrics.
//
// All methods are safe on a nil receiver, so callers can pass nil to
// disable collection with zero overhead.
type Metrics struct {
	// HTTPRequestsTotal counts API requests by method, route and status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration tracks API latency distribution
	HTTPRequestDuration *prometheus.HistogramVec

	// SyncRunsTotal counts reconciliation passes by trigger and result
	SyncRunsTotal *prometheus.CounterVec

	// SyncItemsTotal counts reconciled entries by action
	SyncItemsTotal *prometheus.CounterVec

	// SyncDuration tracks full reconciliation pass duration
	SyncDuration prometheus.Histogram

	// ProcessorRunsTotal counts metadata extraction runs by file type and status
	ProcessorRunsTotal *prometheus.CounterVec

	// UploadBytes tracks the size distribution of accepted uploads
	UploadBytes prometheus.Histogram

	// WatcherEventsTotal counts debounced filesystem events by kind
	WatcherEventsTotal *prometheus.CounterVec
}

// NewMetrics creates the metrics set with the loreleaf_ prefix.
//
// Panics if registration fails (expected during initialization only).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loreleaf_http_requests_total",
				Help: "Total API requests by method, route pattern and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loreleaf_http_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		SyncRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loreleaf_sync_runs_total",
				Help: "Total reconciliation passes by trigger and result",
			},
			[]string{"trigger", "result"}, // trigger: "forced", "watcher"; result: "ok", "error"
		),
		SyncItemsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loreleaf_sync_items_total",
				Help: "Total reconciled entries by action",
			},
			[]string{"action"}, // "created", "updated", "deleted", "no_change", "error"
		),
		SyncDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "loreleaf_sync_duration_seconds",
				Help:    "Full reconciliation pass duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
			},
		),
		ProcessorRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loreleaf_processor_runs_total",
				Help: "Total metadata extraction runs by file type and status",
			},
			[]string{"file_type", "status"}, // status: "complete", "failed"
		),
		UploadBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "loreleaf_upload_bytes",
				Help: "Size distribution of accepted uploads",
				Buckets: []float64{
					32768,     // 32KB
					262144,    // 256KB
					1048576,   // 1MB
					10485760,  // 10MB
					52428800,  // 50MB
					104857600, // 100MB - upload cap
				},
			},
		),
		WatcherEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loreleaf_watcher_events_total",
				Help: "Total debounced filesystem events by kind",
			},
			[]string{"kind"}, // "upsert", "remove"
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SyncRunsTotal,
		m.SyncItemsTotal,
		m.SyncDuration,
		m.ProcessorRunsTotal,
		m.UploadBytes,
		m.WatcherEventsTotal,
	)

	return m
}

// RecordHTTPRequest records one completed API request.
func (m *Metrics) RecordHTTPRequest(method, route, status string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

// RecordSyncRun records one reconciliation pass.
func (m *Metrics) RecordSyncRun(trigger, result string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.SyncRunsTotal.WithLabelValues(trigger, result).Inc()
	m.SyncDuration.Observe(durationSeconds)
}

// RecordSyncItem records one reconciled entry.
func (m *Metrics) RecordSyncItem(action string) {
	if m == nil {
		return
	}
	m.SyncItemsTotal.WithLabelValues(action).Inc()
}

// RecordProcessorRun records one metadata extraction run.
func (m *Metrics) RecordProcessorRun(fileType, status string) {
	if m == nil {
		return
	}
	m.ProcessorRunsTotal.WithLabelValues(fileType, status).Inc()
}

// RecordUpload records the size of one accepted upload.
func (m *Metrics) RecordUpload(bytes int64) {
	if m == nil {
		return
	}
	m.UploadBytes.Observe(float64(bytes))
}

// RecordWatcherEvent records one debounced filesystem event.
func (m *Metrics) RecordWatcherEvent(kind string) {
	if m == nil {
		return
	}
	m.WatcherEventsTotal.WithLabelValues(kind).Inc()
}

// NullMetrics returns nil, which acts as a no-op collector. All Metrics
// methods handle a nil receiver gracefully.
func NullMetrics() *Metrics {
	return nil
}
