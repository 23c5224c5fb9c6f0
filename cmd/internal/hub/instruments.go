package hub

import (
	"go.uber.org/zap"

	"github.com/shubham-shewale/stock-market-feed/cmd/internal/metrics"
	"github.com/shubham-shewale/stock-market-feed/cmd/internal/protocol"
	"github.com/shubham-shewale/stock-market-feed/pkg/models"
)

// InstrumentHub owns the active instrument list and broadcasts lifecycle
// changes. New subscribers first receive one ADD per active instrument.
type InstrumentHub struct {
	broadcaster
	active []models.Instrument
}

func NewInstrumentHub(logger *zap.Logger, m *metrics.Metrics) *InstrumentHub {
	return &InstrumentHub{broadcaster: newBroadcaster(metrics.StreamInstruments, logger, m)}
}

func (h *InstrumentHub) AddInstrument(inst models.Instrument) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.active = append(h.active, inst)
	h.metrics.SetActive(len(h.active))
	h.publishLocked(protocol.AddEvent(inst))
}

// RemoveInstrument drops the instrument with the same ID and announces it.
func (h *InstrumentHub) RemoveInstrument(inst models.Instrument) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, a := range h.active {
		if a.ID == inst.ID {
			h.active = append(h.active[:i], h.active[i+1:]...)
			break
		}
	}
	h.metrics.SetActive(len(h.active))
	h.publishLocked(protocol.DeleteEvent(inst))
}

// Subscribe registers s and replays the active set to it. Registration and
// replay happen under the same lock as publishing, so s sees the snapshot
// before any later lifecycle event.
func (h *InstrumentHub) Subscribe(s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.addLocked(s) {
		return
	}

	for _, inst := range h.active {
		msg, err := protocol.AddEvent(inst).Encode()
		if err != nil {
			h.logger.Error("Encode Error", zap.Error(err))
			continue
		}
		if err := s.Send(msg); err != nil {
			h.removeLocked(s)
			h.metrics.Dropped(h.stream, 1)
			h.drop(s, err)
			return
		}
	}
}

func (h *InstrumentHub) Unsubscribe(s Subscriber) { h.unsubscribe(s) }

// Active returns a copy of the active instruments in announcement order.
func (h *InstrumentHub) Active() []models.Instrument {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]models.Instrument, len(h.active))
	copy(out, h.active)
	return out
}
