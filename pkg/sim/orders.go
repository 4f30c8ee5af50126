package sim

import (
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hyunwoo-p/marketreplay/pkg/book"
)

// Generator draws random limit orders from a market condition stream.
// It is deterministic for a given seed and never touches the global rand
// source.
type Generator struct {
	market *Market
	p      Params
	rng    *rand.Rand
}

// NewGenerator creates an order generator over a fresh market opened at
// the given simulated time.
func NewGenerator(open time.Time, p Params, rng *rand.Rand) *Generator {
	return &Generator{market: NewMarket(open, p, rng), p: p, rng: rng}
}

// Next draws one limit order. Sells lean above the mid, buys below it,
// with Gaussian noise scaled by spread/overlap; prices are rounded to
// two decimal places and sizes are non-negative.
func (g *Generator) Next() book.IncomingOrder {
	c := g.market.Next()

	instrument := g.p.Instruments[g.rng.Intn(len(g.p.Instruments))]

	side, lean := book.Sell, 2.0
	if g.rng.Float64() <= 0.5 {
		side, lean = book.Buy, -2.0
	}

	price := c.Price + c.Spread/lean + g.rng.NormFloat64()*(c.Spread/g.p.Overlap)
	size := int64(math.Abs(g.rng.NormFloat64() * 100))

	return book.IncomingOrder{
		Time:       c.Time,
		Instrument: instrument,
		Side:       side,
		Price:      decimal.NewFromFloat(price).Round(2),
		Size:       size,
	}
}
