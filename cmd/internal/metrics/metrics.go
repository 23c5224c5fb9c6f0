// Package metrics holds the prometheus collectors of the feed. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	StreamInstruments = "instruments"
	StreamQuotes      = "quotes"
)

type Metrics struct {
	ActiveInstruments  prometheus.Gauge
	Subscribers        *prometheus.GaugeVec
	EventsPublished    *prometheus.CounterVec
	SubscribersDropped *prometheus.CounterVec
	SinkDropped        prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ActiveInstruments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "feed",
			Name:      "active_instruments",
			Help:      "Number of instruments currently active",
		}),
		Subscribers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "feed",
			Name:      "subscribers",
			Help:      "Connected subscribers per stream",
		}, []string{"stream"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feed",
			Name:      "events_published_total",
			Help:      "Events published to subscribers, by message type",
		}, []string{"type"}),
		SubscribersDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feed",
			Name:      "subscribers_dropped_total",
			Help:      "Subscribers removed after a failed send",
		}, []string{"stream"}),
		SinkDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feed",
			Name:      "sink_dropped_total",
			Help:      "Events dropped because the sink buffer was full",
		}),
	}

	reg.MustRegister(m.ActiveInstruments, m.Subscribers, m.EventsPublished, m.SubscribersDropped, m.SinkDropped)
	return m
}

func (m *Metrics) SetActive(n int) {
	if m == nil {
		return
	}
	m.ActiveInstruments.Set(float64(n))
}

func (m *Metrics) SetSubscribers(stream string, n int) {
	if m == nil {
		return
	}
	m.Subscribers.WithLabelValues(stream).Set(float64(n))
}

func (m *Metrics) Published(msgType string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(msgType).Inc()
}

func (m *Metrics) Dropped(stream string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.SubscribersDropped.WithLabelValues(stream).Add(float64(n))
}

func (m *Metrics) SinkDrop() {
	if m == nil {
		return
	}
	m.SinkDropped.Inc()
}
