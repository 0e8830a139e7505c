// Package formation is the library of target shapes the swarm moves through. Every formation is an
// immutable value: given a particle and the position it started the stage from, it answers where the
// particle should be at time t. Formations claim particles by row/column predicates, so independent
// formations can share the particle pool as long as their row ranges do not overlap.
package formation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/engine/grid"
)

var (
	// ErrInvalidConfig is returned for non-positive sizes, durations or radii.
	ErrInvalidConfig = errors.New("formation: invalid configuration")
	// ErrRowRange is returned when a formation claims rows outside the grid.
	ErrRowRange = errors.New("formation: rows outside the grid")
	// ErrRowOverlap is returned when two formations claim the same rows.
	ErrRowOverlap = errors.New("formation: row ranges overlap")
	// ErrCanvasShape is returned when a canvas cannot be tiled by its participating particles.
	ErrCanvasShape = errors.New("formation: canvas shape does not match participants")
)

// Kind identifies the family a formation belongs to. The compositor uses it to pick a color treatment.
type Kind uint8

const (
	KindAscent Kind = iota
	KindBifurcation
	KindCanvas
	KindArc
	KindFinale
)

func (k Kind) String() string {
	switch k {
	case KindAscent:
		return "ascent"
	case KindBifurcation:
		return "bifurcation"
	case KindCanvas:
		return "canvas"
	case KindArc:
		return "arc"
	case KindFinale:
		return "finale"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Plan is a particle's activation window for one formation.
type Plan struct {
	// Participates is false when the formation does not claim the particle; the particle then passes through.
	Participates bool
	// Start is the show time at which the particle begins moving for this formation.
	Start float64
	// Duration is the movement length in seconds; +Inf marks an open-ended stage.
	Duration float64
}

// End returns Start + Duration.
func (p Plan) End() float64 {
	return p.Start + p.Duration
}

// Target is a formation's resting point for a particle.
type Target struct {
	Position     common.Vec3
	Participates bool
}

// Formation is one stage of the choreography.
type Formation interface {
	// Name returns the formation's identifier, unique within a show.
	Name() string

	// Kind returns the formation family.
	Kind() Kind

	// Plan returns whether the particle participates and when it moves.
	//
	// Parameters:
	//   - p: the particle
	//
	// Returns:
	//   - Plan: the particle's activation window
	Plan(p grid.Particle) Plan

	// Target returns the resting position for the particle given the position it entered the stage with.
	//
	// Parameters:
	//   - p: the particle
	//   - from: position captured when the stage activated
	//
	// Returns:
	//   - Target: the resting point and participation flag
	Target(p grid.Particle, from common.Vec3) Target

	// Position returns where the particle is at t, for t at or after its plan start.
	//
	// Parameters:
	//   - p: the particle
	//   - from: position captured when the stage activated
	//   - t: show time in seconds
	//
	// Returns:
	//   - common.Vec3: the particle's position
	Position(p grid.Particle, from common.Vec3, t float64) common.Vec3
}

// RowClaimer is implemented by formations that claim a contiguous band of grid rows.
type RowClaimer interface {
	Formation
	// Rows returns the claimed half-open row range [start, end).
	Rows() (start, end int)
}

// blend eases from -> to with smoothstep over [start, start+duration].
func blend(from, to common.Vec3, t, start, duration float64) common.Vec3 {
	return from.Lerp(to, common.Smoothstep(common.Progress(t, start, duration)))
}

// ValidateRows checks that every row-claiming formation stays inside the grid and that no two of them
// claim the same row.
//
// Parameters:
//   - g: the particle grid
//   - claimers: formations to check
//
// Returns:
//   - error: ErrRowRange or ErrRowOverlap, wrapped with the offending names
func ValidateRows(g grid.Grid, claimers ...RowClaimer) error {
	type band struct {
		name       string
		start, end int
	}
	bands := make([]band, 0, len(claimers))
	for _, c := range claimers {
		s, e := c.Rows()
		if s < 0 || e > g.Rows() || s >= e {
			return fmt.Errorf("%w: %s claims rows [%d, %d) of %d", ErrRowRange, c.Name(), s, e, g.Rows())
		}
		bands = append(bands, band{c.Name(), s, e})
	}
	sort.Slice(bands, func(i, j int) bool { return bands[i].start < bands[j].start })
	for i := 1; i < len(bands); i++ {
		if bands[i].start < bands[i-1].end {
			return fmt.Errorf("%w: %s [%d, %d) and %s [%d, %d)", ErrRowOverlap,
				bands[i-1].name, bands[i-1].start, bands[i-1].end,
				bands[i].name, bands[i].start, bands[i].end)
		}
	}
	return nil
}
