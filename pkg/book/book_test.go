package book

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(ts int, side Side, price string, size int64) IncomingOrder {
	return IncomingOrder{
		Time:       time.Date(2026, 1, 1, 0, 30, 0, 0, time.UTC).Add(time.Duration(ts) * time.Hour),
		Instrument: "DOGE",
		Side:       side,
		Price:      d(price),
		Size:       size,
	}
}

func TestBookProcessScenario(t *testing.T) {
	var b Book

	// Bid rests untouched on an empty book.
	b, snap := b.Process(order(0, Buy, "100", 5))
	require.Len(t, snap.Bids, 1)
	assert.True(t, snap.Bids[0].Price.Equal(d("100")))
	assert.Equal(t, int64(5), snap.Bids[0].Size)
	assert.Equal(t, 10, snap.Bids[0].Life)
	assert.Empty(t, snap.Asks)

	// Marketable ask: 3 filled against the bid, which survives partially
	// filled with its life aged one tick.
	b, snap = b.Process(order(1, Sell, "90", 3))
	require.Len(t, snap.Bids, 1)
	assert.Equal(t, int64(2), snap.Bids[0].Size)
	assert.Equal(t, 9, snap.Bids[0].Life)
	assert.Empty(t, snap.Asks)

	// Exact fill clears both sides.
	_, snap = b.Process(order(2, Sell, "100", 2))
	assert.Empty(t, snap.Bids)
	assert.Empty(t, snap.Asks)
}

func TestBookInvariants(t *testing.T) {
	orders := []IncomingOrder{
		order(0, Buy, "100", 5),
		order(1, Buy, "98.50", 4),
		order(2, Sell, "101", 6),
		order(3, Sell, "99.25", 3),
		order(4, Buy, "102", 10),
		order(5, Sell, "97", 8),
		order(6, Buy, "96.75", 2),
		order(7, Sell, "96", 1),
		order(8, Buy, "103.10", 7),
		order(9, Sell, "95.40", 12),
	}

	var b Book
	for i, o := range orders {
		var snap Snapshot
		b, snap = b.Process(o)

		for j := 1; j < len(snap.Bids); j++ {
			assert.False(t, snap.Bids[j].Price.GreaterThan(snap.Bids[j-1].Price),
				"order %d: bids not descending", i)
		}
		for j := 1; j < len(snap.Asks); j++ {
			assert.False(t, snap.Asks[j].Price.LessThan(snap.Asks[j-1].Price),
				"order %d: asks not ascending", i)
		}
		if len(snap.Bids) > 0 && len(snap.Asks) > 0 {
			assert.True(t, snap.Bids[0].Price.LessThan(snap.Asks[0].Price),
				"order %d: book still crossed: bid %s >= ask %s",
				i, snap.Bids[0].Price, snap.Asks[0].Price)
		}
		for _, ro := range append(snap.Bids.Clone(), snap.Asks...) {
			assert.Positive(t, ro.Life)
			assert.GreaterOrEqual(t, ro.Size, int64(0))
		}
		assert.Equal(t, orders[i].Time, snap.Time)
	}
}

func TestBookSnapshotIsolation(t *testing.T) {
	var b Book
	b, first := b.Process(order(0, Buy, "100", 5))
	b.Process(order(1, Buy, "99", 4))

	require.Len(t, first.Bids, 1)
	assert.Equal(t, int64(5), first.Bids[0].Size)
	assert.Equal(t, 10, first.Bids[0].Life, "earlier snapshot must not see later aging")
}

func TestBookAgingNeverTouchesOppositeSide(t *testing.T) {
	var b Book
	b, _ = b.Process(order(0, Buy, "90", 5))

	// Non-crossing asks age each other, never the resting bid.
	b, _ = b.Process(order(1, Sell, "100", 1))
	b, snap := b.Process(order(2, Sell, "101", 1))

	require.Len(t, snap.Bids, 1)
	assert.Equal(t, 10, snap.Bids[0].Life)
	require.Len(t, snap.Asks, 2)
	assert.Equal(t, 9, snap.Asks[0].Life, "first ask aged by the second")
	assert.Equal(t, 10, snap.Asks[1].Life)
}

func TestBookZeroSizeBidNeverLeavesBookCrossed(t *testing.T) {
	var b Book
	b, _ = b.Process(order(0, Buy, "110", 0))

	_, snap := b.Process(order(1, Sell, "100", 5))

	assert.Empty(t, snap.Bids, "empty crossing bid resolves away")
	require.Len(t, snap.Asks, 1)
	assert.Equal(t, int64(5), snap.Asks[0].Size)
	assert.Equal(t, 10, snap.Asks[0].Life)
}

func TestBookZeroSizeOrderRests(t *testing.T) {
	var b Book
	_, snap := b.Process(IncomingOrder{
		Time:  time.Now(),
		Side:  Buy,
		Price: decimal.NewFromInt(100),
		Size:  0,
	})
	require.Len(t, snap.Bids, 1)
	assert.Equal(t, int64(0), snap.Bids[0].Size)
}
