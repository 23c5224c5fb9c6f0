package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/gobwas/ws"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shubham-shewale/stock-market-feed/cmd/internal/hub"
)

type stream interface {
	Subscribe(s hub.Subscriber)
	Unsubscribe(s hub.Subscriber)
	SubscriberCount() int
}

// Handler upgrades HTTP requests into stream subscriptions.
type Handler struct {
	instruments *hub.InstrumentHub
	quotes      *hub.QuoteHub
	logger      *zap.Logger
	opts        Options
}

func NewHandler(instruments *hub.InstrumentHub, quotes *hub.QuoteHub, logger *zap.Logger, opts Options) *Handler {
	return &Handler{
		instruments: instruments,
		quotes:      quotes,
		logger:      logger,
		opts:        opts,
	}
}

// Routes wires the stream endpoints, health, metrics and optional static files.
func (h *Handler) Routes(staticDir, metricsPath string, metrics http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/instruments", h.ServeInstruments)
	mux.HandleFunc("/quotes", h.ServeQuotes)
	mux.HandleFunc("/healthz", h.ServeHealth)
	if metrics != nil && metricsPath != "" {
		mux.Handle(metricsPath, metrics)
	}
	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	return mux
}

func (h *Handler) ServeInstruments(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "instruments", h.instruments)
}

func (h *Handler) ServeQuotes(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "quotes", h.quotes)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, name string, st stream) {
	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		h.logger.Debug("Upgrade failed", zap.String("stream", name), zap.Error(err))
		return
	}

	id := uuid.NewString()
	client := NewClient(conn, id, h.logger.With(
		zap.String("stream", name),
		zap.String("client", id),
		zap.String("remote", conn.RemoteAddr().String()),
	), h.opts)

	st.Subscribe(client)
	client.Start(func() { st.Unsubscribe(client) })
}

type health struct {
	Status                string `json:"status"`
	ActiveInstruments     int    `json:"active_instruments"`
	InstrumentSubscribers int    `json:"instrument_subscribers"`
	QuoteSubscribers      int    `json:"quote_subscribers"`
}

func (h *Handler) ServeHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health{
		Status:                "ok",
		ActiveInstruments:     len(h.instruments.Active()),
		InstrumentSubscribers: h.instruments.SubscriberCount(),
		QuoteSubscribers:      h.quotes.SubscriberCount(),
	})
}
