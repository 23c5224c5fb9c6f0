package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/shubham-shewale/stock-market-feed/cmd/internal/metrics"
)

func TestMetrics_Record(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.SetActive(7)
	m.SetSubscribers(metrics.StreamQuotes, 3)
	m.Published("QUOTE")
	m.Published("QUOTE")
	m.Dropped(metrics.StreamInstruments, 2)
	m.SinkDrop()

	if got := testutil.ToFloat64(m.ActiveInstruments); got != 7 {
		t.Errorf("Expected 7 active, got %v", got)
	}
	if got := testutil.ToFloat64(m.Subscribers.WithLabelValues(metrics.StreamQuotes)); got != 3 {
		t.Errorf("Expected 3 quote subscribers, got %v", got)
	}
	if got := testutil.ToFloat64(m.EventsPublished.WithLabelValues("QUOTE")); got != 2 {
		t.Errorf("Expected 2 quotes published, got %v", got)
	}
	if got := testutil.ToFloat64(m.SubscribersDropped.WithLabelValues(metrics.StreamInstruments)); got != 2 {
		t.Errorf("Expected 2 drops, got %v", got)
	}
	if got := testutil.ToFloat64(m.SinkDropped); got != 1 {
		t.Errorf("Expected 1 sink drop, got %v", got)
	}
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *metrics.Metrics
	m.SetActive(1)
	m.SetSubscribers(metrics.StreamQuotes, 1)
	m.Published("ADD")
	m.Dropped(metrics.StreamQuotes, 1)
	m.SinkDrop()
}
