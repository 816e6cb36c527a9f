package monitor

import (
	"github.com/prometheus/client_golang/prometheus"

	"training.pl/warehouse/concurrency"
)

// Metrics exports queue activity to Prometheus. It implements concurrency.Observer.
type Metrics struct {
	registry  *prometheus.Registry
	puts      prometheus.Counter
	takes     prometheus.Counter
	length    prometheus.Gauge
	capacity  prometheus.Gauge
	blocked   *prometheus.CounterVec
	cancelled *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		puts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "warehouse",
			Name:      "orders_put_total",
			Help:      "Orders stored in the warehouse.",
		}),
		takes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "warehouse",
			Name:      "orders_taken_total",
			Help:      "Orders shipped from the warehouse.",
		}),
		length: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "warehouse",
			Name:      "queue_length",
			Help:      "Orders currently stored.",
		}),
		capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "warehouse",
			Name:      "queue_capacity",
			Help:      "Maximum number of stored orders.",
		}),
		blocked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "warehouse",
			Name:      "blocked_waits_total",
			Help:      "Operations that had to wait for the warehouse.",
		}, []string{"op"}),
		cancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "warehouse",
			Name:      "cancellations_total",
			Help:      "Operations abandoned because their worker was cancelled.",
		}, []string{"op"}),
	}
	m.registry.MustRegister(m.puts, m.takes, m.length, m.capacity, m.blocked, m.cancelled)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) OrderPut(length, capacity int) {
	m.puts.Inc()
	m.length.Set(float64(length))
	m.capacity.Set(float64(capacity))
}

func (m *Metrics) OrderTaken(length, capacity int) {
	m.takes.Inc()
	m.length.Set(float64(length))
	m.capacity.Set(float64(capacity))
}

func (m *Metrics) Blocked(op concurrency.Operation) {
	m.blocked.WithLabelValues(string(op)).Inc()
}

func (m *Metrics) Cancelled(op concurrency.Operation) {
	m.cancelled.WithLabelValues(string(op)).Inc()
}
