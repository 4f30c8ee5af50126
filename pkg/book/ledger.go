package book

import (
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Ledger is one side's resting liquidity. After sorting, the best price
// sits at the front: bids descending, asks ascending. Orders at equal
// prices keep their ledger order; there is no FIFO guarantee beyond that.
type Ledger []RestingOrder

// Insert prepends a fresh resting order at full life and ages every
// prior entry by one tick, dropping entries whose life runs out. Aging on
// insertion bounds ledger growth: liquidity older than InitialLife
// same-side insertions expires without an explicit capacity limit.
//
// The result is unsorted; callers re-sort by price before uncrossing.
func (l Ledger) Insert(price decimal.Decimal, size int64) Ledger {
	out := make(Ledger, 0, len(l)+1)
	out = append(out, RestingOrder{Price: price, Size: size, Life: InitialLife})
	return append(out, lo.FilterMap(l, func(o RestingOrder, _ int) (RestingOrder, bool) {
		o.Life--
		return o, o.Life > 0
	})...)
}

// SortBids orders the ledger best bid first (descending price).
func (l Ledger) SortBids() {
	sort.SliceStable(l, func(i, j int) bool { return l[i].Price.GreaterThan(l[j].Price) })
}

// SortAsks orders the ledger best ask first (ascending price).
func (l Ledger) SortAsks() {
	sort.SliceStable(l, func(i, j int) bool { return l[i].Price.LessThan(l[j].Price) })
}

// Clone copies the ledger so published snapshots cannot alias live state.
func (l Ledger) Clone() Ledger {
	if len(l) == 0 {
		return nil
	}
	out := make(Ledger, len(l))
	copy(out, l)
	return out
}
