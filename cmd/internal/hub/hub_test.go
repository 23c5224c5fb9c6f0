package hub_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shubham-shewale/stock-market-feed/cmd/internal/hub"
	"github.com/shubham-shewale/stock-market-feed/cmd/internal/metrics"
	"github.com/shubham-shewale/stock-market-feed/cmd/internal/protocol"
	"github.com/shubham-shewale/stock-market-feed/cmd/internal/testutils"
	"github.com/shubham-shewale/stock-market-feed/pkg/models"
)

var (
	nvda = models.Instrument{ID: "NVDA", Description: "NVIDIA Corporation"}
	aapl = models.Instrument{ID: "AAPL", Description: "Apple Inc."}
	tsla = models.Instrument{ID: "TSLA", Description: "Tesla, Inc."}
)

func frame(t *testing.T, ev protocol.Event) string {
	t.Helper()
	b, err := ev.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return string(b)
}

func TestQuoteHub_FailedSendDropsOnlyThatSubscriber(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	h := hub.NewQuoteHub(zap.NewNop(), m)

	s1 := testutils.NewMockSubscriber("s1")
	s1.FailAfter = 1 // simulated closed connection
	s2 := testutils.NewMockSubscriber("s2")
	h.Subscribe(s1)
	h.Subscribe(s2)

	q := models.Quote{InstrumentID: "AAPL", Price: decimal.RequireFromString("150.1234")}
	h.Publish(q)

	got := s2.Received()
	if len(got) != 1 || got[0] != `{"type":"QUOTE","data":{"isin":"AAPL","price":150.1234}}` {
		t.Errorf("S2 should receive the quote, got %v", got)
	}
	if h.SubscriberCount() != 1 {
		t.Errorf("S1 should be removed from the registry, count=%d", h.SubscriberCount())
	}
	if !s1.IsClosed() {
		t.Error("Dropped subscriber should be closed")
	}
	if v := testutil.ToFloat64(m.SubscribersDropped.WithLabelValues(metrics.StreamQuotes)); v != 1 {
		t.Errorf("Expected 1 drop recorded, got %v", v)
	}

	// later publishes only reach S2
	h.Publish(q)
	if len(s2.Received()) != 2 {
		t.Errorf("Expected S2 to keep receiving, got %d frames", len(s2.Received()))
	}
}

func TestQuoteHub_NoReplayOnJoin(t *testing.T) {
	h := hub.NewQuoteHub(zap.NewNop(), nil)
	h.Publish(models.Quote{InstrumentID: "AAPL", Price: decimal.NewFromInt(1)})

	late := testutils.NewMockSubscriber("late")
	h.Subscribe(late)

	if len(late.Received()) != 0 {
		t.Errorf("Quote subscribers must not receive history, got %v", late.Received())
	}
}

func TestQuoteHub_DeliveryOrder(t *testing.T) {
	h := hub.NewQuoteHub(zap.NewNop(), nil)
	s := testutils.NewMockSubscriber("s")
	h.Subscribe(s)

	for i := 1; i <= 5; i++ {
		h.Publish(models.Quote{InstrumentID: "AAPL", Price: decimal.NewFromInt(int64(i))})
	}

	got := s.Received()
	for i, f := range got {
		want := fmt.Sprintf(`{"type":"QUOTE","data":{"isin":"AAPL","price":%d.0000}}`, i+1)
		if f != want {
			t.Errorf("frame %d: got %s want %s", i, f, want)
		}
	}
}

func TestInstrumentHub_SnapshotThenLive(t *testing.T) {
	h := hub.NewInstrumentHub(zap.NewNop(), nil)
	h.AddInstrument(nvda)
	h.AddInstrument(aapl)

	late := testutils.NewMockSubscriber("late")
	h.Subscribe(late)
	h.AddInstrument(tsla)
	h.RemoveInstrument(nvda)

	want := []string{
		frame(t, protocol.AddEvent(nvda)),
		frame(t, protocol.AddEvent(aapl)),
		frame(t, protocol.AddEvent(tsla)),
		frame(t, protocol.DeleteEvent(nvda)),
	}
	got := late.Received()
	if len(got) != len(want) {
		t.Fatalf("Expected %d frames, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("frame %d: got %s want %s", i, got[i], want[i])
		}
	}

	active := h.Active()
	if len(active) != 2 || active[0] != aapl || active[1] != tsla {
		t.Errorf("Unexpected active list %v", active)
	}
}

func TestInstrumentHub_RemoveMatchesByID(t *testing.T) {
	h := hub.NewInstrumentHub(zap.NewNop(), nil)
	h.AddInstrument(nvda)

	h.RemoveInstrument(models.Instrument{ID: "NVDA"})
	if len(h.Active()) != 0 {
		t.Errorf("Expected NVDA removed by id, active=%v", h.Active())
	}
}

func TestInstrumentHub_SnapshotFailureDropsSubscriber(t *testing.T) {
	h := hub.NewInstrumentHub(zap.NewNop(), nil)
	h.AddInstrument(nvda)
	h.AddInstrument(aapl)

	s := testutils.NewMockSubscriber("flaky")
	s.FailAfter = 2
	h.Subscribe(s)

	if h.SubscriberCount() != 0 {
		t.Errorf("Subscriber failing during snapshot should be dropped, count=%d", h.SubscriberCount())
	}
	if !s.IsClosed() {
		t.Error("Dropped subscriber should be closed")
	}
}

func TestInstrumentHub_FailedSendDoesNotAbortDelivery(t *testing.T) {
	h := hub.NewInstrumentHub(zap.NewNop(), nil)
	bad := testutils.NewMockSubscriber("bad")
	bad.FailAfter = 1
	good := testutils.NewMockSubscriber("good")
	h.Subscribe(bad)
	h.Subscribe(good)

	h.AddInstrument(nvda)

	if len(good.Received()) != 1 {
		t.Errorf("Good subscriber should get the ADD, got %v", good.Received())
	}
	if h.SubscriberCount() != 1 {
		t.Errorf("Expected 1 subscriber left, got %d", h.SubscriberCount())
	}
	if len(h.Active()) != 1 {
		t.Error("Instrument must stay active regardless of send failures")
	}
}

func TestUnsubscribe_Idempotent(t *testing.T) {
	ih := hub.NewInstrumentHub(zap.NewNop(), nil)
	qh := hub.NewQuoteHub(zap.NewNop(), nil)
	s := testutils.NewMockSubscriber("s")

	ih.Subscribe(s)
	qh.Subscribe(s)
	ih.Unsubscribe(s)
	ih.Unsubscribe(s)
	qh.Unsubscribe(s)
	qh.Unsubscribe(s)

	if ih.SubscriberCount() != 0 || qh.SubscriberCount() != 0 {
		t.Errorf("Expected empty registries, got %d / %d", ih.SubscriberCount(), qh.SubscriberCount())
	}

	// never registered
	qh.Unsubscribe(testutils.NewMockSubscriber("ghost"))
}

func TestSubscribe_DuplicateIgnored(t *testing.T) {
	h := hub.NewInstrumentHub(zap.NewNop(), nil)
	h.AddInstrument(nvda)

	s := testutils.NewMockSubscriber("s")
	h.Subscribe(s)
	h.Subscribe(s)

	if h.SubscriberCount() != 1 {
		t.Errorf("Expected 1 registration, got %d", h.SubscriberCount())
	}
	if len(s.Received()) != 1 {
		t.Errorf("Snapshot should be sent once, got %d frames", len(s.Received()))
	}
}

func TestHub_ConcurrentJoinersSeeConsistentSnapshot(t *testing.T) {
	// Run with `go test -race ./...`
	h := hub.NewInstrumentHub(zap.NewNop(), nil)
	stocks := make([]models.Instrument, 40)
	for i := range stocks {
		stocks[i] = models.Instrument{ID: fmt.Sprintf("S%02d", i), Description: "stock"}
	}

	subs := make([]*testutils.MockSubscriber, 20)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, s := range stocks {
			h.AddInstrument(s)
		}
		for _, s := range stocks[:20] {
			h.RemoveInstrument(s)
		}
	}()

	for i := range subs {
		subs[i] = testutils.NewMockSubscriber(fmt.Sprintf("c%d", i))
		wg.Add(1)
		go func(s *testutils.MockSubscriber) {
			defer wg.Done()
			h.Subscribe(s)
		}(subs[i])
	}
	wg.Wait()

	final := make(map[string]bool)
	for _, a := range h.Active() {
		final[a.ID] = true
	}

	// replaying snapshot + live events must reconstruct the final active set
	for _, s := range subs {
		view := make(map[string]bool)
		for _, f := range s.Received() {
			msg, data, err := protocol.Decode([]byte(f))
			if err != nil {
				t.Fatalf("%s: invalid frame %s: %v", s.IDVal, f, err)
			}
			isin := data.(protocol.InstrumentData).ISIN
			switch msg.Type {
			case protocol.TypeAdd:
				if view[isin] {
					t.Fatalf("%s: duplicate ADD for %s", s.IDVal, isin)
				}
				view[isin] = true
			case protocol.TypeDelete:
				if !view[isin] {
					t.Fatalf("%s: DELETE before ADD for %s", s.IDVal, isin)
				}
				delete(view, isin)
			}
		}
		if len(view) != len(final) {
			t.Errorf("%s reconstructed %d instruments, want %d", s.IDVal, len(view), len(final))
		}
		for id := range final {
			if !view[id] {
				t.Errorf("%s is missing %s", s.IDVal, id)
			}
		}
	}
}
