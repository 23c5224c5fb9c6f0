package hub

import (
	"go.uber.org/zap"

	"github.com/shubham-shewale/stock-market-feed/cmd/internal/metrics"
	"github.com/shubham-shewale/stock-market-feed/cmd/internal/protocol"
	"github.com/shubham-shewale/stock-market-feed/pkg/models"
)

// QuoteHub fans quotes out to live subscribers. Nothing is replayed on join.
type QuoteHub struct {
	broadcaster
}

func NewQuoteHub(logger *zap.Logger, m *metrics.Metrics) *QuoteHub {
	return &QuoteHub{broadcaster: newBroadcaster(metrics.StreamQuotes, logger, m)}
}

func (h *QuoteHub) Publish(q models.Quote) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.publishLocked(protocol.QuoteEvent(q))
}

func (h *QuoteHub) Subscribe(s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.addLocked(s)
}

func (h *QuoteHub) Unsubscribe(s Subscriber) { h.unsubscribe(s) }
