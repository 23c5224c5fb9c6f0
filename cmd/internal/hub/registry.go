package hub

import (
	"sync"

	"go.uber.org/zap"

	"github.com/shubham-shewale/stock-market-feed/cmd/internal/metrics"
	"github.com/shubham-shewale/stock-market-feed/cmd/internal/protocol"
)

// Subscriber is a connected consumer of one stream. Send must not block;
// any error it returns removes the subscriber from the hub.
type Subscriber interface {
	ID() string
	Send(msg []byte) error
	Close()
}

// broadcaster is the registry shared by both hubs. Subscribers are kept in
// join order and every publish walks them in that order.
type broadcaster struct {
	stream  string
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu   sync.Mutex
	subs []Subscriber
}

func newBroadcaster(stream string, logger *zap.Logger, m *metrics.Metrics) broadcaster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return broadcaster{stream: stream, logger: logger.With(zap.String("stream", stream)), metrics: m}
}

func (b *broadcaster) addLocked(s Subscriber) bool {
	for _, existing := range b.subs {
		if existing == s {
			return false
		}
	}
	b.subs = append(b.subs, s)
	b.metrics.SetSubscribers(b.stream, len(b.subs))
	b.logger.Debug("Subscriber joined", zap.String("id", s.ID()), zap.Int("subscribers", len(b.subs)))
	return true
}

func (b *broadcaster) removeLocked(s Subscriber) bool {
	for i, existing := range b.subs {
		if existing == s {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			b.metrics.SetSubscribers(b.stream, len(b.subs))
			return true
		}
	}
	return false
}

// unsubscribe removes s and closes it. Calling it for a subscriber that is
// already gone is a no-op apart from the (idempotent) Close.
func (b *broadcaster) unsubscribe(s Subscriber) {
	b.mu.Lock()
	removed := b.removeLocked(s)
	b.mu.Unlock()

	if removed {
		b.logger.Debug("Subscriber left", zap.String("id", s.ID()))
	}
	s.Close()
}

// publishLocked delivers ev to every subscriber. Failed subscribers are
// dropped and closed; delivery to the others continues.
func (b *broadcaster) publishLocked(ev protocol.Event) {
	msg, err := ev.Encode()
	if err != nil {
		b.logger.Error("Encode Error", zap.Error(err))
		return
	}

	kept := b.subs[:0]
	dropped := 0
	for _, s := range b.subs {
		if err := s.Send(msg); err != nil {
			b.drop(s, err)
			dropped++
			continue
		}
		kept = append(kept, s)
	}
	for i := len(kept); i < len(b.subs); i++ {
		b.subs[i] = nil
	}
	b.subs = kept

	b.metrics.Published(string(ev.Type))
	if dropped > 0 {
		b.metrics.Dropped(b.stream, dropped)
		b.metrics.SetSubscribers(b.stream, len(b.subs))
	}
}

func (b *broadcaster) drop(s Subscriber, err error) {
	b.logger.Warn("Dropping subscriber", zap.String("id", s.ID()), zap.Error(err))
	s.Close()
}

func (b *broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
