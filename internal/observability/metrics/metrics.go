// Package metrics exposes Prometheus metrics for the HTTP server and the
// upload pipeline. Each Metrics value owns a private registry so tests and
// multiple servers never collide on the global one.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/datalens/internal/core"
)

const namespace = "datalens"

// Metrics holds every collector and the registry they are registered in.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	uploadsTotal    *prometheus.CounterVec
	uploadBytes     *prometheus.HistogramVec
	uploadDuration  *prometheus.HistogramVec
	rowsParsed      *prometheus.HistogramVec
	columnsTotal    *prometheus.CounterVec
	mappingDuration prometheus.Histogram
}

var _ core.Recorder = (*Metrics)(nil)

// New creates the collectors in a fresh registry. Go runtime and process
// collectors are included.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests processed.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		requestInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "in_flight_requests",
				Help:      "Number of in-flight HTTP requests.",
			},
		),
		uploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "upload",
				Name:      "total",
				Help:      "Uploads by file format and outcome.",
			},
			[]string{"format", "outcome"},
		),
		uploadBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "upload",
				Name:      "bytes",
				Help:      "Size of uploaded files in bytes.",
				Buckets:   prometheus.ExponentialBuckets(1<<10, 4, 8), // 1 KiB .. 16 MiB
			},
			[]string{"format"},
		),
		uploadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "upload",
				Name:      "duration_seconds",
				Help:      "Time from receiving an upload to loading the dataset.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"format", "outcome"},
		),
		rowsParsed: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "parser",
				Name:      "rows",
				Help:      "Data rows per parsed file.",
				Buckets:   prometheus.ExponentialBuckets(1, 10, 7),
			},
			[]string{"format"},
		),
		columnsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mapper",
				Name:      "columns_total",
				Help:      "Columns classified by the mapper, by result.",
			},
			[]string{"result"},
		),
		mappingDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "mapper",
				Name:      "duration_seconds",
				Help:      "Time to score every column of a dataset.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestTotal,
		m.requestDuration,
		m.requestInFlight,
		m.uploadsTotal,
		m.uploadBytes,
		m.uploadDuration,
		m.rowsParsed,
		m.columnsTotal,
		m.mappingDuration,
	)
	return m
}

// Registry returns the registry the collectors are registered in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WatchUploadSlots exports upload limiter usage, read at scrape time.
func (m *Metrics) WatchUploadSlots(status func() core.UploadLimiterStatus) {
	m.registry.MustRegister(
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "upload",
				Name:      "active",
				Help:      "Uploads currently holding a slot.",
			},
			func() float64 { return float64(status().Active) },
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "upload",
				Name:      "slots",
				Help:      "Configured upload slots.",
			},
			func() float64 { return float64(status().MaxConcurrent) },
		),
	)
}

// Middleware records request count, latency and in-flight requests. Routes
// are labelled by their chi pattern so path parameters do not explode
// cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(ww, r)

		route := routePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// ObserveUpload implements core.Recorder.
func (m *Metrics) ObserveUpload(format, outcome string, bytes int64, elapsed time.Duration) {
	m.uploadsTotal.WithLabelValues(format, outcome).Inc()
	m.uploadDuration.WithLabelValues(format, outcome).Observe(elapsed.Seconds())
	if bytes > 0 {
		m.uploadBytes.WithLabelValues(format).Observe(float64(bytes))
	}
}

// ObserveMapping implements core.Recorder.
func (m *Metrics) ObserveMapping(columns, mapped int, elapsed time.Duration) {
	m.columnsTotal.WithLabelValues("mapped").Add(float64(mapped))
	m.columnsTotal.WithLabelValues("unmapped").Add(float64(columns - mapped))
	m.mappingDuration.Observe(elapsed.Seconds())
}

// ObserveRows implements core.Recorder.
func (m *Metrics) ObserveRows(format string, rows int) {
	m.rowsParsed.WithLabelValues(format).Observe(float64(rows))
}
