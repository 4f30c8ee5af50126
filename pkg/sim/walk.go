package sim

import (
	"math"
	"math/rand"
)

// WalkParams bounds one random walk.
type WalkParams struct {
	Min, Max, Std float64
}

// Walk is a bounded random walk: Gaussian steps folded back into
// [Min, Max]. Price, spread, and order arrival frequency each evolve on
// their own walk.
type Walk struct {
	p   WalkParams
	x   float64
	rng *rand.Rand
}

// NewWalk creates a walk seeded from the given source. The walk starts at
// the upper bound.
func NewWalk(p WalkParams, rng *rand.Rand) *Walk {
	return &Walk{p: p, x: p.Max, rng: rng}
}

// Next advances the walk one step and returns a value in [Min, Max].
func (w *Walk) Next() float64 {
	span := w.p.Max - w.p.Min
	w.x += w.rng.NormFloat64() * w.p.Std
	m := math.Mod(w.x, span*2)
	if m < 0 {
		m += span * 2
	}
	return math.Abs(m-span) + w.p.Min
}
