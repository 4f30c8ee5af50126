package book

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side of the book an order rests on or aggresses into.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// InitialLife is the number of same-side insertion events a resting order
// survives before it expires unmatched.
const InitialLife = 10

// RestingOrder is one unit of resting liquidity. It has no identity
// beyond its position in a ledger.
type RestingOrder struct {
	Price decimal.Decimal
	Size  int64
	Life  int
}

// IncomingOrder is one record of the order stream. It is consumed by
// Book.Process and never stored.
type IncomingOrder struct {
	Time       time.Time
	Instrument string
	Side       Side
	Price      decimal.Decimal
	Size       int64
}

// Snapshot is an immutable view of both ledgers, emitted once per
// processed order. Its ledgers never alias live book state.
type Snapshot struct {
	Time time.Time
	Bids Ledger
	Asks Ledger
}
