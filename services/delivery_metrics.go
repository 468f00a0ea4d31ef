package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DeliveryMetrics are shared by every contact deliverer and labelled by
// provider.
type DeliveryMetrics struct {
	sendLatency *prometheus.HistogramVec
	errorCount  *prometheus.CounterVec
	sentCount   *prometheus.CounterVec
}

// NewDeliveryMetrics registers the delivery collectors with reg.
func NewDeliveryMetrics(reg prometheus.Registerer) *DeliveryMetrics {
	m := &DeliveryMetrics{
		sendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_contact_delivery_duration_seconds",
			Help:    "Time taken to deliver contact messages",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		errorCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_contact_delivery_errors_total",
			Help: "Total number of contact delivery errors",
		}, []string{"provider"}),
		sentCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_contact_messages_sent_total",
			Help: "Total number of contact messages delivered",
		}, []string{"provider"}),
	}

	reg.MustRegister(m.sendLatency)
	reg.MustRegister(m.errorCount)
	reg.MustRegister(m.sentCount)

	return m
}

func (m *DeliveryMetrics) observe(provider string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.sendLatency.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	if err != nil {
		m.errorCount.WithLabelValues(provider).Inc()
		return
	}
	m.sentCount.WithLabelValues(provider).Inc()
}
