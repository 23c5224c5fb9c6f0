// Package sink mirrors generated events to optional external systems. The
// generator hands events to a Dispatcher, which never blocks it: a single
// worker drains a bounded queue and writes to every configured Writer.
package sink

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shubham-shewale/stock-market-feed/cmd/internal/metrics"
	"github.com/shubham-shewale/stock-market-feed/cmd/internal/protocol"
)

const writeTimeout = 2 * time.Second

type Dispatcher struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
	writers []Writer
	events  chan protocol.Event
}

func NewDispatcher(logger *zap.Logger, m *metrics.Metrics, buffer int, writers ...Writer) *Dispatcher {
	return &Dispatcher{
		logger:  logger,
		metrics: m,
		writers: writers,
		events:  make(chan protocol.Event, buffer),
	}
}

// Emit queues ev for the worker. A full queue drops the event.
func (d *Dispatcher) Emit(ev protocol.Event) {
	select {
	case d.events <- ev:
	default:
		// NON-BLOCKING: the generator must never wait on a slow sink
		d.metrics.SinkDrop()
		d.logger.Warn("Dropping sink event", zap.String("type", string(ev.Type)), zap.String("isin", ev.ISIN()))
	}
}

// Run writes queued events until ctx is cancelled, then flushes what is
// already queued and closes the writers.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info("Sink dispatcher started", zap.Int("writers", len(d.writers)))

	for {
		select {
		case <-ctx.Done():
			d.drain()
			d.close()
			return nil
		case ev := <-d.events:
			d.write(ev)
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case ev := <-d.events:
			d.write(ev)
		default:
			return
		}
	}
}

func (d *Dispatcher) write(ev protocol.Event) {
	// Background context prevents cancellation mid-write during the final flush
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	for _, w := range d.writers {
		if err := w.Write(ctx, ev); err != nil {
			d.logger.Error("Sink Write Error", zap.String("sink", w.Name()), zap.String("isin", ev.ISIN()), zap.Error(err))
		}
	}
}

func (d *Dispatcher) close() {
	for _, w := range d.writers {
		if err := w.Close(); err != nil {
			d.logger.Error("Error closing sink", zap.String("sink", w.Name()), zap.Error(err))
		} else {
			d.logger.Info("Sink closed cleanly", zap.String("sink", w.Name()))
		}
	}
}
