package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	requestsTotal          *prometheus.CounterVec
	latencySeconds         *prometheus.HistogramVec
	errorsTotal            *prometheus.CounterVec
	transitionsTotal       *prometheus.CounterVec
	notificationsPublished *prometheus.CounterVec
	overdueAlertsTotal     prometheus.Counter
	sseClientsActive       prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used by the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gatepass_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gatepass_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gatepass_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		transitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gatepass_transitions_total",
			Help: "Total number of committed gate pass state transitions.",
		}, []string{"action"})

		notificationsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gatepass_notifications_published_total",
			Help: "Total number of notifications announced to subscribers.",
		}, []string{"type"})

		overdueAlertsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gatepass_overdue_alerts_total",
			Help: "Total number of overdue-return alerts emitted by the sweeper.",
		})

		sseClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gatepass_sse_clients_active",
			Help: "Number of currently connected notification stream clients.",
		})

		prometheus.MustRegister(requestsTotal, latencySeconds, errorsTotal,
			transitionsTotal, notificationsPublished, overdueAlertsTotal, sseClientsActive)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Errors exposes the counter for API error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// TransitionsTotal exposes the counter for gate pass transitions.
func TransitionsTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return transitionsTotal
}

// NotificationsPublishedTotal exposes the counter for announced notifications.
func NotificationsPublishedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsPublished
}

// OverdueAlertsTotal exposes the counter for emitted overdue alerts.
func OverdueAlertsTotal() prometheus.Counter {
	RegisterMetrics()
	return overdueAlertsTotal
}

// SSEClientsActive exposes the gauge of connected stream clients.
func SSEClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return sseClientsActive
}
