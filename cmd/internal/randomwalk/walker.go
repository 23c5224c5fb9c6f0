// Package randomwalk generates bounded, trending price paths. The walk moves
// in legs: each leg picks an integer target near the current price and a
// number of steps to get there, and every step adds the leg's slope plus noise.
package randomwalk

import (
	"github.com/shopspring/decimal"
)

const (
	PriceScale = 4

	minStartPrice = 50
	maxStartPrice = 499

	minLegSteps = 10
	maxLegSteps = 50
	maxLegMove  = 50
)

var priceFloor = decimal.NewFromInt(1)

// Rand is the randomness a Walker draws from.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Walker holds the random-walk state of a single instrument. It is not safe
// for concurrent use.
type Walker struct {
	rand Rand

	step        int
	startPrice  int64
	targetPrice int64
	targetSteps int
	stepWidth   float64
	lastPrice   decimal.Decimal
}

// New starts a walk at a random integer price in [50, 500).
func New(rnd Rand) *Walker {
	return NewAt(rnd, between(rnd, minStartPrice, maxStartPrice))
}

// NewAt starts a walk at startPrice and draws its first leg.
func NewAt(rnd Rand, startPrice int64) *Walker {
	w := &Walker{
		rand:      rnd,
		lastPrice: decimal.NewFromInt(startPrice).Round(PriceScale),
	}
	w.resample(startPrice)
	return w
}

// NextPrice advances the walk by one step and returns the new price.
// The result is never below 1 and always carries PriceScale fractional digits.
func (w *Walker) NextPrice() decimal.Decimal {
	w.step++
	if w.step >= w.targetSteps {
		w.resample(w.lastPrice.IntPart())
	}

	noise := w.rand.Float64() - 0.5
	next := w.lastPrice.Add(decimal.NewFromFloat(w.stepWidth + noise))
	if next.LessThan(priceFloor) {
		next = priceFloor
	}

	// stored rounded so the next step starts from the published value
	w.lastPrice = next.Round(PriceScale)
	return w.lastPrice
}

func (w *Walker) resample(start int64) {
	w.startPrice = start
	w.targetPrice = start + between(w.rand, -maxLegMove, maxLegMove)
	if w.targetPrice < 1 {
		w.targetPrice = 1
	}
	w.targetSteps = int(between(w.rand, minLegSteps, maxLegSteps))
	w.step = 0
	w.stepWidth = float64(w.targetPrice-w.startPrice) / float64(w.targetSteps)
}

func (w *Walker) Step() int                  { return w.step }
func (w *Walker) StartPrice() int64          { return w.startPrice }
func (w *Walker) TargetPrice() int64         { return w.targetPrice }
func (w *Walker) TargetSteps() int           { return w.targetSteps }
func (w *Walker) StepWidth() float64         { return w.stepWidth }
func (w *Walker) LastPrice() decimal.Decimal { return w.lastPrice }

// between draws a uniform integer in [lo, hi].
func between(rnd Rand, lo, hi int) int64 {
	return int64(lo + rnd.Intn(hi-lo+1))
}
