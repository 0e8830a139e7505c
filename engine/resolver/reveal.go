package resolver

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/engine/grid"
	"github.com/Carmen-Shannon/oxy-swarm/engine/jitter"
	"github.com/Carmen-Shannon/oxy-swarm/engine/phase"
)

// ErrInvalidReveal is returned when the reveal ramps cannot finish inside their window.
var ErrInvalidReveal = errors.New("resolver: invalid column reveal")

// RevealConfig shapes the column reveal. Spread, Jitter and Ramp are fractions of the reveal window.
type RevealConfig struct {
	// Spread is how much of the window the column sweep covers, left to right.
	Spread float64 `yaml:"spread"`
	// Jitter adds up to this fraction of per-column delay.
	Jitter float64 `yaml:"jitter"`
	// Ramp is the length of each column's fade in.
	Ramp float64 `yaml:"ramp"`
}

// DefaultRevealConfig returns the reference show's reveal sweep.
func DefaultRevealConfig() RevealConfig {
	return RevealConfig{Spread: 0.5, Jitter: 0.1, Ramp: 0.4}
}

// ColumnReveal fades columns in one after another across the reveal window. Every column has finished
// by the window end, so the factor is exactly 1 from then on.
type ColumnReveal struct {
	start    float64
	duration float64
	columns  int
	cfg      RevealConfig
}

// NewColumnReveal builds the reveal for the given window.
//
// Parameters:
//   - w: the column reveal phase window
//   - columns: grid width
//   - cfg: reveal shape
//
// Returns:
//   - ColumnReveal: the reveal
//   - error: ErrInvalidReveal if the window is empty or the ramps overrun it
func NewColumnReveal(w phase.Window, columns int, cfg RevealConfig) (ColumnReveal, error) {
	d := w.Duration()
	if !(d > 0) || columns <= 0 {
		return ColumnReveal{}, fmt.Errorf("%w: window [%g, %g) over %d columns", ErrInvalidReveal, w.Start, w.End, columns)
	}
	if cfg.Spread < 0 || cfg.Jitter < 0 || cfg.Ramp <= 0 || cfg.Spread+cfg.Jitter+cfg.Ramp > 1 {
		return ColumnReveal{}, fmt.Errorf("%w: spread %g + jitter %g + ramp %g must fit the window",
			ErrInvalidReveal, cfg.Spread, cfg.Jitter, cfg.Ramp)
	}
	return ColumnReveal{start: w.Start, duration: d, columns: columns, cfg: cfg}, nil
}

// ColumnStart returns when the column starts fading in.
func (r ColumnReveal) ColumnStart(col int) float64 {
	sweep := float64(col) / float64(r.columns) * r.cfg.Spread
	return r.start + (sweep+jitter.At(col, jitter.SaltRevealDelay)*r.cfg.Jitter)*r.duration
}

// End returns the time every column is fully revealed.
func (r ColumnReveal) End() float64 {
	return r.start + r.duration
}

// Factor returns the particle's reveal factor at t.
func (r ColumnReveal) Factor(p grid.Particle, t float64) float64 {
	if t >= r.End() {
		return 1
	}
	return common.Smoothstep(common.Progress(t, r.ColumnStart(p.Col), r.cfg.Ramp*r.duration))
}
