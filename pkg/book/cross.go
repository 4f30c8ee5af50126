package book

import "github.com/shopspring/decimal"

// Comparator reports whether an aggressing price crosses a resting price.
type Comparator func(incoming, resting decimal.Decimal) bool

// BidOverAsk is the crossing condition for a bid consuming asks.
func BidOverAsk(incoming, resting decimal.Decimal) bool {
	return incoming.GreaterThanOrEqual(resting)
}

// Match is the outcome of one crossing resolution.
type Match struct {
	// Notional is the sum of fill size times resting price across the
	// sweep. No consumer reads it yet; it is the seam for a future trade
	// reporting feed.
	Notional decimal.Decimal

	// Leftover is the incoming size the opposite ledger could not absorb.
	Leftover int64

	// Opposite is the opposite ledger after consumption.
	Opposite Ledger
}

// Cross sweeps the opposite ledger front to back, consuming resting
// liquidity while cmp holds and incoming size remains. It returns false
// when the ledger is empty or the front does not cross; that is a
// normal stop, not an error. A crossing order with zero size left is
// still a match: it fills nothing and leaves the ledger untouched.
//
// A front entry larger than the remaining incoming size is trimmed in
// place of its fill and keeps its remaining life; the tail is untouched.
// If the sweep ends with incoming size left over, either because the
// ledger ran out or the next entry no longer crosses, the match still
// stands and the leftover is reported to the caller.
func Cross(price decimal.Decimal, size int64, opposite Ledger, cmp Comparator) (Match, bool) {
	m := Match{Notional: decimal.Zero}
	matched := false
	i := 0
	for i < len(opposite) {
		top := opposite[i]
		if !cmp(price, top.Price) {
			break
		}
		if size == 0 {
			matched = true
			break
		}
		filled := min(size, top.Size)
		m.Notional = m.Notional.Add(top.Price.Mul(decimal.NewFromInt(filled)))
		matched = true
		if top.Size > size {
			rest := make(Ledger, 0, len(opposite)-i)
			rest = append(rest, RestingOrder{Price: top.Price, Size: top.Size - size, Life: top.Life})
			m.Opposite = append(rest, opposite[i+1:]...)
			return m, true
		}
		size -= filled
		i++
	}
	if !matched {
		return Match{}, false
	}
	m.Opposite = opposite[i:]
	m.Leftover = size
	return m, true
}

// Uncross resolves all crosses between the two ledgers. The current best
// bid always acts as the aggressor against the ask ledger; both ledgers
// must be price-sorted before calling.
//
// A fully consumed bid is dropped, as is a crossing bid with no size to
// fill. A bid that outlives the compatible ask liquidity is re-seated
// with its leftover size and its life aged one tick, expiring like any
// other resting order if the tick exhausts it.
// Calling Uncross on an already-uncrossed pair returns it unchanged.
func Uncross(bids, asks Ledger) (Ledger, Ledger) {
	for len(bids) > 0 && len(asks) > 0 {
		top := bids[0]
		m, ok := Cross(top.Price, top.Size, asks, BidOverAsk)
		if !ok {
			break
		}
		asks = m.Opposite
		if m.Leftover > 0 && top.Life > 1 {
			rebid := make(Ledger, 0, len(bids))
			rebid = append(rebid, RestingOrder{Price: top.Price, Size: m.Leftover, Life: top.Life - 1})
			bids = append(rebid, bids[1:]...)
		} else {
			bids = bids[1:]
		}
	}
	return bids, asks
}
