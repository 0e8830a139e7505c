package formation

import "github.com/Carmen-Shannon/oxy-swarm/common"

// ArcBuilderOption is a functional option for configuring an Arc.
// Use the With* functions to create options.
type ArcBuilderOption func(a *Arc)

// WithRows sets the band of grid rows the arc draws its particles from.
//
// Parameters:
//   - start: first claimed row
//   - count: number of claimed rows
//
// Returns:
//   - ArcBuilderOption: option function to apply
func WithRows(start, count int) ArcBuilderOption {
	return func(a *Arc) {
		a.rowStart = start
		a.rows = count
	}
}

// WithRadius sets the semicircle radius.
//
// Parameters:
//   - radius: radius in world units
//
// Returns:
//   - ArcBuilderOption: option function to apply
func WithRadius(radius float64) ArcBuilderOption {
	return func(a *Arc) {
		a.radius = radius
	}
}

// WithCenter sets the point the semicircle is drawn around.
func WithCenter(center common.Vec3) ArcBuilderOption {
	return func(a *Arc) {
		a.center = center
	}
}

// WithPlane sets the arc orientation.
func WithPlane(plane Plane) ArcBuilderOption {
	return func(a *Arc) {
		a.plane = plane
	}
}

// WithSign flips the arc: +1 bulges up (or toward the audience), -1 bulges down (or away).
func WithSign(sign float64) ArcBuilderOption {
	return func(a *Arc) {
		a.sign = sign
	}
}

// WithStart sets the show time the arc's midpoint starts moving.
func WithStart(start float64) ArcBuilderOption {
	return func(a *Arc) {
		a.start = start
	}
}

// WithDuration sets how long each particle takes to reach the arc.
func WithDuration(duration float64) ArcBuilderOption {
	return func(a *Arc) {
		a.duration = duration
	}
}

// WithWaveSpread sets the extra delay of the arc ends relative to its midpoint.
func WithWaveSpread(spread float64) ArcBuilderOption {
	return func(a *Arc) {
		a.waveSpread = spread
	}
}

// WithArcStartJitter sets the per-particle random start delay.
func WithArcStartJitter(j float64) ArcBuilderOption {
	return func(a *Arc) {
		a.startJitter = j
	}
}

// WithHue sets the arc's signature hue in [0, 1).
func WithHue(hue float64) ArcBuilderOption {
	return func(a *Arc) {
		a.hue = common.Fract(hue)
	}
}
