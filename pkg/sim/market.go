package sim

import (
	"math"
	"math/rand"
	"time"
)

// Params configures the synthetic market process. Defaults live in the
// params package.
type Params struct {
	Price  WalkParams
	Spread WalkParams
	// Freq drives the simulated hours between consecutive orders.
	Freq WalkParams
	// Overlap widens the order price distribution relative to the
	// spread; larger values put more orders inside the spread and make
	// crosses more frequent.
	Overlap     float64
	Instruments []string
}

// Condition is one synthetic market state: a mid price and a spread at a
// point in simulated time.
type Condition struct {
	Time   time.Time
	Price  float64
	Spread float64
}

// Market yields a random series of market conditions. Simulated time
// advances by a random number of hours drawn from the frequency walk.
type Market struct {
	t      time.Time
	price  *Walk
	spread *Walk
	freq   *Walk
}

// NewMarket opens a market at the given simulated time.
func NewMarket(open time.Time, p Params, rng *rand.Rand) *Market {
	return &Market{
		t:      open,
		price:  NewWalk(p.Price, rng),
		spread: NewWalk(p.Spread, rng),
		freq:   NewWalk(p.Freq, rng),
	}
}

// Next returns the current condition and advances simulated time.
func (m *Market) Next() Condition {
	c := Condition{Time: m.t, Price: m.price.Next(), Spread: m.spread.Next()}
	hours := math.Abs(m.freq.Next())
	m.t = m.t.Add(time.Duration(hours * float64(time.Hour)))
	return c
}
