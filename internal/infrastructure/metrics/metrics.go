// Package metrics expone métricas Prometheus del servicio: transiciones del flujo
// de trabajo y latencia HTTP. Usa un registro propio, no el global.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/procura-api/internal/application/ports"
)

var _ ports.TransitionRecorder = (*Metrics)(nil)

const namespace = "procura"

// Metrics agrupa los colectores del servicio.
type Metrics struct {
	registry *prometheus.Registry

	transitionsTotal *prometheus.CounterVec
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
}

// New crea el registro y los colectores. Incluye métricas de proceso y runtime de Go.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		transitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "workflow_transitions_total",
				Help:      "Transiciones de estado por entidad (order, material_request, purchase_order, production).",
			},
			[]string{"kind", "status"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Peticiones HTTP atendidas.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Latencia de las peticiones HTTP.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	registry.MustRegister(
		m.transitionsTotal,
		m.requestsTotal,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordTransition implementa ports.TransitionRecorder.
func (m *Metrics) RecordTransition(kind, status string) {
	m.transitionsTotal.WithLabelValues(kind, status).Inc()
}

// ObserveRequest registra una petición HTTP. route es el patrón de la ruta, no la URL.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler devuelve el handler HTTP para /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
