package formation

import (
	"fmt"
	"math"
	"strings"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/engine/grid"
	"github.com/Carmen-Shannon/oxy-swarm/engine/jitter"
)

// Plane is the orientation of an arc's semicircle.
type Plane uint8

const (
	// PlaneVertical stands the arc upright, facing the audience.
	PlaneVertical Plane = iota
	// PlaneHorizontalDepth lays the arc flat, opening toward or away from the audience.
	PlaneHorizontalDepth
	// PlaneDiagonal45 tilts the arc 45 degrees back from vertical.
	PlaneDiagonal45
)

func (p Plane) String() string {
	switch p {
	case PlaneVertical:
		return "vertical"
	case PlaneHorizontalDepth:
		return "horizontal_depth"
	case PlaneDiagonal45:
		return "diagonal_45"
	}
	return fmt.Sprintf("plane(%d)", uint8(p))
}

// ParsePlane resolves a plane from its String form.
func ParsePlane(name string) (Plane, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "vertical", "":
		return PlaneVertical, nil
	case "horizontal_depth", "horizontal":
		return PlaneHorizontalDepth, nil
	case "diagonal_45", "diagonal":
		return PlaneDiagonal45, nil
	}
	return 0, fmt.Errorf("%w: unknown arc plane %q", ErrInvalidConfig, name)
}

// Arc is a semicircle of particles drawn from a contiguous band of rows. Particles are ordered along the arc
// by their index within the band and revealed as a wave spreading out from the arc's midpoint.
type Arc struct {
	name        string
	columns     int
	rowStart    int
	rows        int
	radius      float64
	center      common.Vec3
	plane       Plane
	sign        float64
	start       float64
	duration    float64
	waveSpread  float64
	startJitter float64
	hue         float64
}

var _ RowClaimer = &Arc{}

// NewArc builds an arc over rows of g.
//
// Parameters:
//   - name: unique formation name
//   - g: the particle grid
//   - opts: arc options
//
// Returns:
//   - *Arc: the formation
//   - error: ErrInvalidConfig when the arc is degenerate
func NewArc(name string, g grid.Grid, opts ...ArcBuilderOption) (*Arc, error) {
	a := &Arc{
		name:        name,
		columns:     g.Columns(),
		rows:        1,
		radius:      10,
		plane:       PlaneVertical,
		sign:        1,
		duration:    3.2,
		waveSpread:  2.5,
		startJitter: 0.2,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.rows <= 0 || a.radius <= 0 || a.duration <= 0 || a.waveSpread < 0 || a.startJitter < 0 {
		return nil, fmt.Errorf("%w: arc %q rows=%d radius=%g duration=%g wave=%g",
			ErrInvalidConfig, name, a.rows, a.radius, a.duration, a.waveSpread)
	}
	if a.sign != 1 && a.sign != -1 {
		return nil, fmt.Errorf("%w: arc %q sign must be +1 or -1, got %g", ErrInvalidConfig, name, a.sign)
	}
	return a, nil
}

func (a *Arc) Name() string { return a.name }

func (a *Arc) Kind() Kind { return KindArc }

func (a *Arc) Rows() (start, end int) {
	return a.rowStart, a.rowStart + a.rows
}

// Hue returns the arc's signature hue in [0, 1).
func (a *Arc) Hue() float64 { return a.hue }

// Claims reports whether the arc owns the given grid row.
func (a *Arc) Claims(row int) bool {
	return row >= a.rowStart && row < a.rowStart+a.rows
}

// Slot returns the particle's position along the arc and the arc's particle count.
func (a *Arc) Slot(p grid.Particle) (k, n int, ok bool) {
	if !a.Claims(p.Row) {
		return 0, 0, false
	}
	return (p.Row-a.rowStart)*a.columns + p.Col, a.rows * a.columns, true
}

// WaveDelay returns how long after the arc start the particle begins moving: 0 at the arc midpoint,
// growing to waveSpread at both ends.
func (a *Arc) WaveDelay(p grid.Particle) float64 {
	k, n, ok := a.Slot(p)
	if !ok {
		return 0
	}
	mid := float64(n) / 2
	return math.Abs(float64(k)+0.5-mid) / mid * a.waveSpread
}

// point returns the arc point at angle theta.
func (a *Arc) point(theta float64) common.Vec3 {
	x := a.radius * math.Cos(theta)
	s := a.sign * a.radius * math.Sin(theta)

	var off common.Vec3
	switch a.plane {
	case PlaneHorizontalDepth:
		off = common.Vec3{x, 0, s}
	case PlaneDiagonal45:
		r := a.radius * math.Sin(theta) / math.Sqrt2
		off = common.Vec3{x, a.sign * r, -r}
	default:
		off = common.Vec3{x, s, 0}
	}
	return a.center.Add(off)
}

func (a *Arc) Plan(p grid.Particle) Plan {
	if !a.Claims(p.Row) {
		return Plan{}
	}
	return Plan{
		Participates: true,
		Start:        a.start + a.WaveDelay(p) + jitter.At(p.Index, jitter.SaltArcDelay)*a.startJitter,
		Duration:     a.duration,
	}
}

func (a *Arc) Target(p grid.Particle, from common.Vec3) Target {
	k, n, ok := a.Slot(p)
	if !ok {
		return Target{Position: from}
	}
	theta := math.Pi * (float64(k) + 0.5) / float64(n)
	return Target{Position: a.point(theta), Participates: true}
}

func (a *Arc) Position(p grid.Particle, from common.Vec3, t float64) common.Vec3 {
	target := a.Target(p, from)
	if !target.Participates {
		return from
	}
	plan := a.Plan(p)
	return blend(from, target.Position, t, plan.Start, plan.Duration)
}
