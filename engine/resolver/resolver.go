// Package resolver threads each particle through the ordered formation stages and answers where it is,
// and how visible it is, at any show time. Nothing is cached between calls: the position a stage starts
// from is recomputed by evaluating the earlier stages at that stage's own start time.
package resolver

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/engine/formation"
	"github.com/Carmen-Shannon/oxy-swarm/engine/grid"
	"github.com/Carmen-Shannon/oxy-swarm/engine/phase"
)

var (
	// ErrDuplicateStage is returned when two stages share a name.
	ErrDuplicateStage = errors.New("resolver: duplicate stage name")
	// ErrNilStage is returned for a nil formation in the stage list.
	ErrNilStage = errors.New("resolver: nil stage")
)

// Trace is a resolved record together with the state of the stage currently driving the particle.
type Trace struct {
	Record   common.FrameRecord
	Particle grid.Particle
	// Stage is the index of the active stage, or -1 while the particle still rests on the ground.
	Stage     int
	Formation formation.Formation
	// From is the position the active stage started from.
	From common.Vec3
	// Target is where the active stage is heading.
	Target common.Vec3
	// Progress is positional progress toward Target in [0, 1]: 0 at From, 1 on arrival.
	Progress float64
}

// Resolver is the per-particle position pipeline.
type Resolver interface {
	// Grid returns the particle grid.
	Grid() grid.Grid

	// Stages returns the ordered formation stages.
	Stages() []formation.Formation

	// Reveal returns the column reveal.
	Reveal() ColumnReveal

	// Resolve computes a particle's frame record at t.
	//
	// Parameters:
	//   - index: particle index
	//   - t: show time in seconds
	//
	// Returns:
	//   - common.FrameRecord: position and reveal factor, or the sentinel for an unknown index
	Resolve(index int, t float64) common.FrameRecord

	// Trace is Resolve plus the active stage details used for coloring.
	//
	// Parameters:
	//   - index: particle index
	//   - t: show time in seconds
	//
	// Returns:
	//   - Trace: the record and stage state; Stage is -1 for an unknown index
	Trace(index int, t float64) Trace
}

type resolver struct {
	grid   grid.Grid
	ground formation.Ground
	stages []formation.Formation
	reveal *ColumnReveal
}

var _ Resolver = &resolver{}

// NewResolver builds the pipeline over the ground layout.
//
// Parameters:
//   - g: the particle grid
//   - ground: launch pad layout, the position every particle starts from
//   - opts: stages and reveal options
//
// Returns:
//   - Resolver: the pipeline
//   - error: when a stage is nil, names repeat, or row claims overlap
func NewResolver(g grid.Grid, ground formation.Ground, opts ...ResolverBuilderOption) (Resolver, error) {
	r := &resolver{grid: g, ground: ground}
	for _, opt := range opts {
		opt(r)
	}

	names := make(map[string]struct{}, len(r.stages))
	var claimers []formation.RowClaimer
	for i, s := range r.stages {
		if s == nil {
			return nil, fmt.Errorf("%w: position %d", ErrNilStage, i)
		}
		if _, dup := names[s.Name()]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateStage, s.Name())
		}
		names[s.Name()] = struct{}{}
		if rc, ok := s.(formation.RowClaimer); ok {
			claimers = append(claimers, rc)
		}
	}
	if err := formation.ValidateRows(g, claimers...); err != nil {
		return nil, err
	}

	if r.reveal == nil {
		sched, err := phase.NewScheduler()
		if err != nil {
			return nil, err
		}
		cr, err := NewColumnReveal(sched.Window(phase.ColumnReveal), g.Columns(), DefaultRevealConfig())
		if err != nil {
			return nil, err
		}
		r.reveal = &cr
	}
	return r, nil
}

func (r *resolver) Grid() grid.Grid { return r.grid }

func (r *resolver) Stages() []formation.Formation {
	return append([]formation.Formation(nil), r.stages...)
}

func (r *resolver) Reveal() ColumnReveal { return *r.reveal }

// positionThrough evaluates stages [0, k] at t.
func (r *resolver) positionThrough(k int, p grid.Particle, t float64) common.Vec3 {
	for ; k >= 0; k-- {
		plan := r.stages[k].Plan(p)
		if plan.Participates && t >= plan.Start {
			from := r.positionThrough(k-1, p, plan.Start)
			return r.stages[k].Position(p, from, t)
		}
	}
	return r.ground.Position(p)
}

func (r *resolver) Resolve(index int, t float64) common.FrameRecord {
	p, ok := r.grid.Particle(index)
	if !ok {
		return common.SentinelRecord
	}
	return common.FrameRecord{
		Position:     r.positionThrough(len(r.stages)-1, p, t),
		RevealFactor: r.reveal.Factor(p, t),
	}
}

func (r *resolver) Trace(index int, t float64) Trace {
	p, ok := r.grid.Particle(index)
	if !ok {
		return Trace{Record: common.SentinelRecord, Stage: -1}
	}

	tr := Trace{Particle: p, Stage: -1}
	for k := len(r.stages) - 1; k >= 0; k-- {
		plan := r.stages[k].Plan(p)
		if plan.Participates && t >= plan.Start {
			tr.Stage = k
			tr.Formation = r.stages[k]
			tr.From = r.positionThrough(k-1, p, plan.Start)
			tr.Target = r.stages[k].Target(p, tr.From).Position
			tr.Record.Position = r.stages[k].Position(p, tr.From, t)
			break
		}
	}
	if tr.Stage < 0 {
		tr.Record.Position = r.ground.Position(p)
		tr.From = tr.Record.Position
		tr.Target = tr.Record.Position
	}
	tr.Record.RevealFactor = r.reveal.Factor(p, t)
	tr.Progress = positional(tr.From, tr.Record.Position, tr.Target)
	return tr
}

// positional is 1 - |pos-target| / |from-target|, clamped. A stage with nowhere to go counts as arrived.
func positional(from, pos, target common.Vec3) float64 {
	total := from.Distance(target)
	if total < 1e-9 {
		return 1
	}
	return common.Clamp01(1 - pos.Distance(target)/total)
}
