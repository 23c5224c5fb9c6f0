package generator

import (
	"math/rand"
	"sync"
	"time"

	"github.com/shubham-shewale/stock-market-feed/cmd/internal/protocol"
	"github.com/shubham-shewale/stock-market-feed/pkg/models"
)

// for deterministic testing
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// for deterministic values
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// InstrumentBroadcaster announces lifecycle changes. Implementations must
// not block on subscriber I/O.
type InstrumentBroadcaster interface {
	AddInstrument(inst models.Instrument)
	RemoveInstrument(inst models.Instrument)
}

// QuoteBroadcaster announces quotes. Implementations must not block on
// subscriber I/O.
type QuoteBroadcaster interface {
	Publish(q models.Quote)
}

// EventSink receives a copy of every event, e.g. for external mirrors.
type EventSink interface {
	Emit(ev protocol.Event)
}

type RealClock struct{}

func (RealClock) Now() time.Time        { return time.Now() }
func (RealClock) Sleep(d time.Duration) { time.Sleep(d) }

// RealRand wraps *rand.Rand with a mutex so it can be shared safely.
type RealRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewRealRand(seed int64) *RealRand {
	return &RealRand{r: rand.New(rand.NewSource(seed))}
}

func (r *RealRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Intn(n)
}

func (r *RealRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Float64()
}
