// Package metrics provides Prometheus instrumentation for photofeed.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prn-tf/photofeed/internal/domain"
)

const namespace = "photofeed"

// Outcome label values for store operations.
const (
	OutcomeOK           = "ok"
	OutcomeInvalidInput = "invalid_input"
	OutcomeNotFound     = "not_found"
	OutcomeConflict     = "conflict"
	OutcomeFileAccess   = "file_access"
	OutcomeError        = "error"
)

// Metrics holds all collectors. Each instance owns its registry so tests and
// multiple servers in one process do not collide.
type Metrics struct {
	registry *prometheus.Registry

	// StoreOperations counts store operations by entity, operation and outcome.
	StoreOperations *prometheus.CounterVec

	// Entities tracks the number of stored users, posts and images.
	Entities *prometheus.GaugeVec

	// ImageBytesStored counts bytes written to blob storage.
	ImageBytesStored prometheus.Counter

	// ImageBytesServed counts bytes read back from blob storage.
	ImageBytesServed prometheus.Counter

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates a Metrics instance with all collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		StoreOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_operations_total",
				Help:      "Total number of store operations",
			},
			[]string{"entity", "operation", "outcome"},
		),
		Entities: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "entities",
				Help:      "Number of stored entities",
			},
			[]string{"entity"},
		),
		ImageBytesStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_bytes_stored_total",
			Help:      "Total bytes of image data written to blob storage",
		}),
		ImageBytesServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_bytes_served_total",
			Help:      "Total bytes of image data read from blob storage",
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	m.registry.MustRegister(
		m.StoreOperations,
		m.Entities,
		m.ImageBytesStored,
		m.ImageBytesServed,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordOperation counts one store operation, deriving the outcome from err.
// A nil receiver is a no-op.
func (m *Metrics) RecordOperation(entity, operation string, err error) {
	if m == nil {
		return
	}
	m.StoreOperations.WithLabelValues(entity, operation, Outcome(err)).Inc()
}

// AddEntities adjusts the stored entity gauge.
func (m *Metrics) AddEntities(entity string, delta int) {
	if m == nil {
		return
	}
	m.Entities.WithLabelValues(entity).Add(float64(delta))
}

// RecordImageStored counts bytes written for one image.
func (m *Metrics) RecordImageStored(size int) {
	if m == nil {
		return
	}
	m.ImageBytesStored.Add(float64(size))
}

// RecordImageServed counts bytes read for one image.
func (m *Metrics) RecordImageServed(size int) {
	if m == nil {
		return
	}
	m.ImageBytesServed.Add(float64(size))
}

// RecordHTTPRequest records one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Outcome maps an error to its outcome label.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	switch domain.Kind(err) {
	case domain.ErrInvalidInput:
		return OutcomeInvalidInput
	case domain.ErrNotFound:
		return OutcomeNotFound
	case domain.ErrConflict:
		return OutcomeConflict
	case domain.ErrFileAccess:
		return OutcomeFileAccess
	default:
		return OutcomeError
	}
}
