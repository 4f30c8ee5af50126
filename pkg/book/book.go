package book

// Book holds one instrument's resting liquidity. A Book value is owned by
// exactly one logical stream of Process calls; it needs no locking.
type Book struct {
	Bids Ledger
	Asks Ledger
}

// Process applies one incoming order: insert-and-age on the order's side,
// re-sort that side, uncross the pair, and emit a snapshot carrying the
// order's timestamp. It is a pure state transition; orders must arrive in
// timestamp order.
//
// Callers are expected to validate input upstream: the core assumes
// non-negative sizes and positive, finite prices.
func (b Book) Process(o IncomingOrder) (Book, Snapshot) {
	switch o.Side {
	case Buy:
		b.Bids = b.Bids.Insert(o.Price, o.Size)
		b.Bids.SortBids()
	case Sell:
		b.Asks = b.Asks.Insert(o.Price, o.Size)
		b.Asks.SortAsks()
	}
	b.Bids, b.Asks = Uncross(b.Bids, b.Asks)
	return b, Snapshot{Time: o.Time, Bids: b.Bids.Clone(), Asks: b.Asks.Clone()}
}
