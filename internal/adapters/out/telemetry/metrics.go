// Package telemetry exposes launcher metrics in the Prometheus format.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/johnmschoonover/multi-llm-hosting/internal/boundaries/out"
)

const namespace = "launcher"

// Ensure Metrics implements out.Metrics.
var _ out.Metrics = (*Metrics)(nil)

// Metrics holds the launcher's Prometheus instruments on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// Container lifecycle
	coldStarts        *prometheus.CounterVec
	coldStartDuration *prometheus.HistogramVec
	containerStops    *prometheus.CounterVec
	running           *prometheus.GaugeVec

	// Request path
	forwards *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

// NewMetrics creates and registers all launcher instruments. A nil registry
// gets a fresh one with the Go and process collectors attached.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{
		registry: registry,
		coldStarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cold_starts_total",
			Help:      "Cold starts by container and result.",
		}, []string{"container", "result"}),
		// Model servers take from a few seconds to several minutes to load.
		coldStartDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cold_start_duration_seconds",
			Help:      "Time from container start to first healthy probe.",
			Buckets:   []float64{1, 5, 10, 20, 30, 60, 90, 120, 180, 300},
		}, []string{"container"}),
		containerStops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "container_stops_total",
			Help:      "Containers stopped by the launcher, by reason.",
		}, []string{"container", "reason"}),
		running: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "container_running",
			Help:      "1 while the launcher believes the container is running.",
		}, []string{"container"}),
		forwards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forwarded_requests_total",
			Help:      "Requests forwarded to backends by mode, route and status.",
		}, []string{"mode", "route", "status"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_requests_total",
			Help:      "Requests answered by the launcher itself, by error code.",
		}, []string{"reason"}),
	}

	registry.MustRegister(
		m.coldStarts,
		m.coldStartDuration,
		m.containerStops,
		m.running,
		m.forwards,
		m.rejected,
	)

	return m
}

// Registry returns the registry the instruments live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry for Prometheus scrapes.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

func (m *Metrics) ObserveColdStart(container string, d time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.coldStarts.WithLabelValues(container, result).Inc()
	if err == nil {
		m.coldStartDuration.WithLabelValues(container).Observe(d.Seconds())
	}
}

func (m *Metrics) IncContainerStop(container, reason string) {
	m.containerStops.WithLabelValues(container, reason).Inc()
}

func (m *Metrics) SetRunning(container string, running bool) {
	v := 0.0
	if running {
		v = 1
	}
	m.running.WithLabelValues(container).Set(v)
}

func (m *Metrics) IncForward(mode, route string, status int) {
	m.forwards.WithLabelValues(mode, route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) IncRejected(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}
