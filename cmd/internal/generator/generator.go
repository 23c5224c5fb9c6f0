package generator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shubham-shewale/stock-market-feed/cmd/internal/catalog"
	"github.com/shubham-shewale/stock-market-feed/cmd/internal/protocol"
	"github.com/shubham-shewale/stock-market-feed/cmd/internal/randomwalk"
	"github.com/shubham-shewale/stock-market-feed/pkg/models"
)

const (
	DefaultAddProbability    = 0.10
	DefaultRemoveProbability = 0.05
	DefaultTick              = 100 * time.Millisecond
)

type Config struct {
	Min  int
	Max  int
	Tick time.Duration

	AddProbability    float64
	RemoveProbability float64
}

// DefaultConfig uses the standard churn probabilities.
func DefaultConfig(min, max int, tick time.Duration) Config {
	return Config{
		Min:               min,
		Max:               max,
		Tick:              tick,
		AddProbability:    DefaultAddProbability,
		RemoveProbability: DefaultRemoveProbability,
	}
}

type activeInstrument struct {
	instrument models.Instrument
	walk       *randomwalk.Walker
}

// Generator drives instrument churn and quote emission. The pool, the active
// list and the walkers belong to the goroutine running Seed/Tick/Run.
type Generator struct {
	logger      *zap.Logger
	cfg         Config
	pool        *catalog.Pool
	instruments InstrumentBroadcaster
	quotes      QuoteBroadcaster
	sink        EventSink
	rand        Rand
	clock       Clock

	active []*activeInstrument
	seeded bool
}

func NewGenerator(
	logger *zap.Logger,
	cfg Config,
	pool *catalog.Pool,
	instruments InstrumentBroadcaster,
	quotes QuoteBroadcaster,
	rnd Rand,
	clock Clock,
) *Generator {
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultTick
	}
	return &Generator{
		logger:      logger,
		cfg:         cfg,
		pool:        pool,
		instruments: instruments,
		quotes:      quotes,
		rand:        rnd,
		clock:       clock,
	}
}

// SetSink attaches an optional event mirror. Must be called before Run.
func (g *Generator) SetSink(s EventSink) { g.sink = s }

// Seed activates Min instruments, fewer if the pool runs dry. It only runs once.
func (g *Generator) Seed() {
	if g.seeded {
		return
	}
	g.seeded = true

	for i := 0; i < g.cfg.Min; i++ {
		if !g.addInstrument() {
			g.logger.Warn("Catalog exhausted during seeding", zap.Int("active", len(g.active)), zap.Int("min", g.cfg.Min))
			break
		}
	}
	g.logger.Info("Generator seeded", zap.Int("active", len(g.active)))
}

// Tick runs one round: maybe add, maybe remove, then quote one instrument.
func (g *Generator) Tick() {
	if g.rand.Float64() < g.cfg.AddProbability && len(g.active) < g.cfg.Max && g.pool.AvailableCount() > 0 {
		g.addInstrument()
	}

	if g.rand.Float64() < g.cfg.RemoveProbability && len(g.active) > g.cfg.Min {
		g.removeInstrument()
	}

	if len(g.active) > 0 {
		a := g.active[g.rand.Intn(len(g.active))]
		q := models.Quote{InstrumentID: a.instrument.ID, Price: a.walk.NextPrice()}
		g.quotes.Publish(q)
		g.emit(protocol.QuoteEvent(q))
		g.logger.Debug("Sent quote", zap.String("isin", q.InstrumentID), zap.String("price", q.Price.StringFixed(randomwalk.PriceScale)))
	}
}

// Run seeds the feed and ticks on a fixed cadence until ctx is cancelled.
func (g *Generator) Run(ctx context.Context) {
	g.Seed()
	g.logger.Info("Generator Started",
		zap.Int("min", g.cfg.Min),
		zap.Int("max", g.cfg.Max),
		zap.Duration("tick", g.cfg.Tick),
	)

	next := g.clock.Now()
	for {
		select {
		case <-ctx.Done():
			g.logger.Info("Generator stopped", zap.Int("active", len(g.active)))
			return
		default:
			g.Tick()

			next = next.Add(g.cfg.Tick)
			if wait := next.Sub(g.clock.Now()); wait > 0 {
				g.clock.Sleep(wait)
			} else {
				// fell behind; restart the cadence instead of bursting
				next = g.clock.Now()
			}
		}
	}
}

func (g *Generator) ActiveCount() int { return len(g.active) }

// Active returns the active instruments in activation order.
func (g *Generator) Active() []models.Instrument {
	out := make([]models.Instrument, len(g.active))
	for i, a := range g.active {
		out[i] = a.instrument
	}
	return out
}

func (g *Generator) addInstrument() bool {
	entry, ok := g.pool.Reserve()
	if !ok {
		return false
	}

	inst := models.InstrumentFrom(entry)
	g.active = append(g.active, &activeInstrument{
		instrument: inst,
		walk:       randomwalk.New(g.rand),
	})
	g.instruments.AddInstrument(inst)
	g.emit(protocol.AddEvent(inst))

	g.logger.Info("Instrument added", zap.String("isin", inst.ID), zap.Int("active", len(g.active)))
	return true
}

func (g *Generator) removeInstrument() {
	i := g.rand.Intn(len(g.active))
	removed := g.active[i]
	g.active = append(g.active[:i], g.active[i+1:]...)

	g.pool.Release(removed.instrument.Entry())
	g.instruments.RemoveInstrument(removed.instrument)
	g.emit(protocol.DeleteEvent(removed.instrument))

	g.logger.Info("Instrument removed", zap.String("isin", removed.instrument.ID), zap.Int("active", len(g.active)))
}

func (g *Generator) emit(ev protocol.Event) {
	if g.sink != nil {
		g.sink.Emit(ev)
	}
}
