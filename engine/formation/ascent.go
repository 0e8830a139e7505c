package formation

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/engine/grid"
	"github.com/Carmen-Shannon/oxy-swarm/engine/jitter"
)

// AscentConfig parameterizes the grid ascent.
type AscentConfig struct {
	// Start is the show time the first row leaves the ground.
	Start float64 `yaml:"start"`
	// RowStagger delays each row by row * RowStagger so the lift sweeps across the grid.
	RowStagger float64 `yaml:"row_stagger"`
	// StartJitter adds up to this many seconds of per-particle delay.
	StartJitter float64 `yaml:"start_jitter"`
	// CruiseBase and CruiseRange bound the randomized cruise altitude.
	CruiseBase  float64 `yaml:"cruise_base"`
	CruiseRange float64 `yaml:"cruise_range"`
	// LiftFraction is the share of the climb covered by the quick initial lift.
	LiftFraction float64 `yaml:"lift_fraction"`
	// LiftDuration and ClimbDuration are the lengths of the two sub-stages.
	LiftDuration  float64 `yaml:"lift_duration"`
	ClimbDuration float64 `yaml:"climb_duration"`
}

// DefaultAscentConfig returns the reference show's ascent.
func DefaultAscentConfig() AscentConfig {
	return AscentConfig{
		Start:         6,
		RowStagger:    0.03,
		StartJitter:   0.3,
		CruiseBase:    40,
		CruiseRange:   12,
		LiftFraction:  0.35,
		LiftDuration:  1.5,
		ClimbDuration: 4,
	}
}

// Ascent lifts every particle from its pad to a randomized cruise altitude in two eased sub-stages:
// a quick ease-out lift, then a slower smoothstep climb. X and Z are untouched.
type Ascent struct {
	cfg AscentConfig
}

var _ Formation = &Ascent{}

// NewAscent validates cfg and builds the formation.
func NewAscent(cfg AscentConfig) (*Ascent, error) {
	if cfg.LiftDuration <= 0 || cfg.ClimbDuration <= 0 || cfg.RowStagger < 0 || cfg.StartJitter < 0 {
		return nil, fmt.Errorf("%w: ascent durations must be positive, got lift=%g climb=%g stagger=%g",
			ErrInvalidConfig, cfg.LiftDuration, cfg.ClimbDuration, cfg.RowStagger)
	}
	if cfg.LiftFraction < 0 || cfg.LiftFraction > 1 {
		return nil, fmt.Errorf("%w: ascent lift fraction %g outside [0, 1]", ErrInvalidConfig, cfg.LiftFraction)
	}
	return &Ascent{cfg: cfg}, nil
}

func (a *Ascent) Name() string { return "ascent" }

func (a *Ascent) Kind() Kind { return KindAscent }

// Cruise returns the particle's randomized cruise altitude.
func (a *Ascent) Cruise(p grid.Particle) float64 {
	return a.cfg.CruiseBase + jitter.At(p.Index, jitter.SaltCruise)*a.cfg.CruiseRange
}

func (a *Ascent) Plan(p grid.Particle) Plan {
	return Plan{
		Participates: true,
		Start:        a.cfg.Start + float64(p.Row)*a.cfg.RowStagger + jitter.At(p.Index, jitter.SaltAscentDelay)*a.cfg.StartJitter,
		Duration:     a.cfg.LiftDuration + a.cfg.ClimbDuration,
	}
}

func (a *Ascent) Target(p grid.Particle, from common.Vec3) Target {
	return Target{Position: common.Vec3{from[0], a.Cruise(p), from[2]}, Participates: true}
}

func (a *Ascent) Position(p grid.Particle, from common.Vec3, t float64) common.Vec3 {
	plan := a.Plan(p)
	elapsed := t - plan.Start
	if elapsed <= 0 {
		return from
	}

	cruise := a.Cruise(p)
	liftY := common.Mix(from[1], cruise, a.cfg.LiftFraction)

	var y float64
	if elapsed < a.cfg.LiftDuration {
		y = common.Mix(from[1], liftY, common.EaseOutCubic(elapsed/a.cfg.LiftDuration))
	} else {
		y = common.Mix(liftY, cruise, common.Smoothstep((elapsed-a.cfg.LiftDuration)/a.cfg.ClimbDuration))
	}
	return common.Vec3{from[0], y, from[2]}
}
