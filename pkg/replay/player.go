package replay

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/hyunwoo-p/marketreplay/pkg/book"
	"github.com/hyunwoo-p/marketreplay/pkg/tape"
	"github.com/hyunwoo-p/marketreplay/pkg/util"
)

// Player replays one instrument's tape records through its order book.
// The book is owned exclusively by the Run loop; readers only ever see
// published snapshots, replaced atomically after each processed order.
type Player struct {
	symbol   string
	tapePath string
	realtime bool
	clock    util.Clock
	logger   *zap.SugaredLogger

	latest atomic.Pointer[book.Snapshot]

	// OnSnapshot, when set, observes every published snapshot. The API
	// server uses it to fan snapshots out to WebSocket subscribers. Set
	// it before calling Run.
	OnSnapshot func(symbol string, s book.Snapshot)
}

// NewPlayer creates a replay player for one instrument. With realtime
// enabled, snapshot delivery is paced so that tape time offsets map onto
// wall-clock offsets measured on the given clock.
func NewPlayer(symbol, tapePath string, realtime bool, clock util.Clock, logger *zap.SugaredLogger) *Player {
	return &Player{
		symbol:   symbol,
		tapePath: tapePath,
		realtime: realtime,
		clock:    clock,
		logger:   logger,
	}
}

// Symbol returns the instrument this player replays.
func (p *Player) Symbol() string { return p.symbol }

// Latest returns the most recently published snapshot, or nil before the
// first order is processed. The snapshot is immutable and safe to read
// concurrently with the Run loop.
func (p *Player) Latest() *book.Snapshot { return p.latest.Load() }

// Run replays the tape until it is exhausted or the context is
// cancelled. Records for other instruments are skipped; each processed
// order publishes one snapshot. The book is never left mid-transition:
// cancellation takes effect between orders.
func (p *Player) Run(ctx context.Context) error {
	r, err := tape.Open(p.tapePath)
	if err != nil {
		return fmt.Errorf("open tape: %w", err)
	}
	defer r.Close()

	var (
		b         book.Book
		simStart  time.Time
		wallStart = p.clock.Now()
		processed int
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		o, err := r.Next()
		if err == io.EOF {
			p.logger.Infow("tape_exhausted", "symbol", p.symbol, "orders", processed)
			return nil
		}
		if err != nil {
			return err
		}
		if o.Instrument != p.symbol {
			continue
		}
		if simStart.IsZero() {
			simStart = o.Time
		}

		var snap book.Snapshot
		b, snap = b.Process(o)

		if p.realtime {
			if err := p.wait(ctx, wallStart, o.Time.Sub(simStart)); err != nil {
				return err
			}
		}
		p.publish(snap)
		processed++
	}
}

// wait holds a snapshot back until wall-clock time catches up with its
// offset into the tape.
func (p *Player) wait(ctx context.Context, wallStart time.Time, offset time.Duration) error {
	d := wallStart.Add(offset).Sub(p.clock.Now())
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.clock.After(d):
		return nil
	}
}

func (p *Player) publish(s book.Snapshot) {
	p.latest.Store(&s)
	if p.OnSnapshot != nil {
		p.OnSnapshot(p.symbol, s)
	}
}
