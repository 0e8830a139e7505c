package formation

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/engine/grid"
	"github.com/Carmen-Shannon/oxy-swarm/engine/jitter"
)

// FinaleConfig parameterizes the closing convergence.
type FinaleConfig struct {
	Start float64 `yaml:"start"`
	// StartJitter adds up to this many seconds of per-particle delay.
	StartJitter float64 `yaml:"start_jitter"`
	// Point is where the whole swarm gathers.
	Point common.Vec3 `yaml:"point"`
	// Scatter is the largest resting distance from Point.
	Scatter float64 `yaml:"scatter"`
	// Tau is the time constant of the exponential approach.
	Tau float64 `yaml:"tau"`
}

// DefaultFinaleConfig returns the reference show's finale, gathering in front of the audience.
func DefaultFinaleConfig() FinaleConfig {
	return FinaleConfig{
		Start:       76,
		StartJitter: 1.5,
		Point:       common.Vec3{0, 30, 140},
		Scatter:     3,
		Tau:         4,
	}
}

// Finale pulls every particle toward a single point with an exponential approach that never ends. Each
// particle keeps its own bearing from the point and settles within a small jittered scatter radius.
type Finale struct {
	cfg FinaleConfig
}

var _ Formation = &Finale{}

// NewFinale validates cfg and builds the formation.
func NewFinale(cfg FinaleConfig) (*Finale, error) {
	if cfg.Tau <= 0 || cfg.Scatter < 0 || cfg.StartJitter < 0 {
		return nil, fmt.Errorf("%w: finale tau=%g scatter=%g", ErrInvalidConfig, cfg.Tau, cfg.Scatter)
	}
	return &Finale{cfg: cfg}, nil
}

func (f *Finale) Name() string { return "finale" }

func (f *Finale) Kind() Kind { return KindFinale }

// Point returns the convergence point.
func (f *Finale) Point() common.Vec3 { return f.cfg.Point }

// ScatterRadius returns the particle's resting distance bound.
func (f *Finale) ScatterRadius(p grid.Particle) float64 {
	return f.cfg.Scatter * (0.35 + 0.65*jitter.At(p.Index, jitter.SaltFinaleScatter))
}

func (f *Finale) Plan(p grid.Particle) Plan {
	return Plan{
		Participates: true,
		Start:        f.cfg.Start + jitter.At(p.Index, jitter.SaltFinaleDelay)*f.cfg.StartJitter,
		Duration:     math.Inf(1),
	}
}

// bearing returns the unit direction from the point toward from and the starting distance.
func (f *Finale) bearing(p grid.Particle, from common.Vec3) (common.Vec3, float64) {
	off := from.Sub(f.cfg.Point)
	d0 := off.Length()
	if d0 < 1e-9 {
		return jitter.Direction(p.Index, jitter.SaltFinaleScatter), 0
	}
	return off.Scale(1 / d0), d0
}

func (f *Finale) Target(p grid.Particle, from common.Vec3) Target {
	dir, d0 := f.bearing(p, from)
	return Target{
		Position:     f.cfg.Point.Add(dir.Scale(math.Min(f.ScatterRadius(p), d0))),
		Participates: true,
	}
}

func (f *Finale) Position(p grid.Particle, from common.Vec3, t float64) common.Vec3 {
	elapsed := t - f.Plan(p).Start
	if !(elapsed > 0) {
		return from
	}
	dir, d0 := f.bearing(p, from)
	rest := math.Min(f.ScatterRadius(p), d0)
	pr := 1 - math.Exp(-elapsed/f.cfg.Tau)
	return f.cfg.Point.Add(dir.Scale((1-pr)*d0 + pr*rest))
}
