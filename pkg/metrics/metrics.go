package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus-метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration  *prometheus.HistogramVec
	DBConnectionsOpen prometheus.Gauge
	DBConnectionsIdle prometheus.Gauge
	DBConnectionsInUse prometheus.Gauge

	// Доменные метрики планирования
	ReschedulesTotal          *prometheus.CounterVec
	CancellationsTotal        *prometheus.CounterVec
	CompensationFailuresTotal prometheus.Counter
	SlotsBecameFullTotal      prometheus.Counter
}

// New создает и регистрирует метрики сервиса
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		DBConnectionsOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_open",
			Help:        "Number of open database connections",
			ConstLabels: constLabels,
		}),

		DBConnectionsIdle: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_idle",
			Help:        "Number of idle database connections",
			ConstLabels: constLabels,
		}),

		DBConnectionsInUse: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_in_use",
			Help:        "Number of database connections in use",
			ConstLabels: constLabels,
		}),

		ReschedulesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "order_reschedules_total",
			Help:        "Total number of order reschedule attempts by result",
			ConstLabels: constLabels,
		}, []string{"result"}),

		CancellationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "order_cancellations_total",
			Help:        "Total number of scheduled order cancellations by source",
			ConstLabels: constLabels,
		}, []string{"source"}),

		CompensationFailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "saga_compensation_failures_total",
			Help:        "Total number of failed saga compensations (requires manual reconciliation)",
			ConstLabels: constLabels,
		}),

		SlotsBecameFullTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "slots_became_full_total",
			Help:        "Total number of slots that transitioned to full occupancy",
			ConstLabels: constLabels,
		}),
	}
}
