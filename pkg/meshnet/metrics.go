package meshnet

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the engine's Prometheus collectors on an isolated
// registry, so embedding a second engine in the same process (as the
// demo CLI does) never collides with the default global registry.
type Metrics struct {
	Registry *prometheus.Registry

	NotificationsReceivedTotal *prometheus.CounterVec // label: result=accepted|dropped_short|dropped_protocol|dropped_duplicate|dropped_strategy
	NotificationsSentTotal     prometheus.Counter
	AcksReceivedTotal          *prometheus.CounterVec // label: result=applied|dropped
	SentinelsSentTotal         prometheus.Counter
	TransmitQueueDepth         prometheus.Gauge
	StoreSize                  prometheus.Gauge
}

// NewMetrics creates a Metrics instance with all collectors registered on
// a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		NotificationsReceivedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oppnet_notifications_received_total",
			Help: "Frames processed by the receive pipeline, by outcome.",
		}, []string{"result"}),
		NotificationsSentTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oppnet_notifications_sent_total",
			Help: "Data frames successfully handed to the transport.",
		}),
		AcksReceivedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oppnet_acks_received_total",
			Help: "Acknowledgement frames processed, by outcome.",
		}, []string{"result"}),
		SentinelsSentTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oppnet_sentinels_sent_total",
			Help: "End-of-session sentinels successfully sent.",
		}),
		TransmitQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "oppnet_transmit_queue_depth",
			Help: "Entries remaining in the current session's transmit queue.",
		}),
		StoreSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "oppnet_store_size",
			Help: "Notifications currently held in the store.",
		}),
	}

	reg.MustRegister(
		m.NotificationsReceivedTotal,
		m.NotificationsSentTotal,
		m.AcksReceivedTotal,
		m.SentinelsSentTotal,
		m.TransmitQueueDepth,
		m.StoreSize,
	)
	return m
}

// The following accessors are nil-receiver safe so call sites never need
// to branch on whether metrics are enabled.

func (m *Metrics) recvResult(result string) {
	if m == nil {
		return
	}
	m.NotificationsReceivedTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) sentOne() {
	if m == nil {
		return
	}
	m.NotificationsSentTotal.Inc()
}

func (m *Metrics) ackResult(result string) {
	if m == nil {
		return
	}
	m.AcksReceivedTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) sentinelSent() {
	if m == nil {
		return
	}
	m.SentinelsSentTotal.Inc()
}

func (m *Metrics) setQueueDepth(n int) {
	if m == nil {
		return
	}
	m.TransmitQueueDepth.Set(float64(n))
}

func (m *Metrics) setStoreSize(n int) {
	if m == nil {
		return
	}
	m.StoreSize.Set(float64(n))
}
