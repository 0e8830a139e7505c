// Package jitter is the engine's only source of per-particle variation: a stateless hash from
// (index, salt) to [0, 1). There is no RNG object, so every frame can be evaluated in parallel and
// recomputed at any time with identical results.
package jitter

import (
	"math"

	"github.com/Carmen-Shannon/oxy-swarm/common"
)

// hashScale is the classic shader constant for the sin-fract hash.
const hashScale = 43758.5453123

// Salts used by the built-in formations. Each concern hashes with its own salt so that, for example,
// a particle's ascent delay and its cruise altitude are uncorrelated.
const (
	SaltRevealDelay    = 11
	SaltAscentDelay    = 101
	SaltCruise         = 137
	SaltSplitDelay     = 211
	SaltCanvasStart    = 307
	SaltCanvasVertical = 331
	SaltCanvasLateral  = 353
	SaltCanvasDepth    = 379
	SaltCanvasPause    = 401
	SaltArcDelay       = 503
	SaltFinaleDelay    = 601
	SaltFinaleScatter  = 607
	SaltTwinkle        = 701
)

// Hash maps a seed to a pseudo-random value in [0, 1) as fract(sin(seed) * 43758.5453).
// It is pure: the same seed always yields the same output.
//
// Parameters:
//   - seed: any finite value
//
// Returns:
//   - float64: the hashed value in [0, 1)
func Hash(seed float64) float64 {
	return common.Fract(math.Sin(seed) * hashScale)
}

// Seed combines a particle index and a small integer salt into a hash seed. The multipliers are
// irrational-ish so neighbouring (index, salt) pairs land far apart on the sine curve.
func Seed(index, salt int) float64 {
	return float64(index)*12.9898 + float64(salt)*78.233 + 0.5
}

// At returns the jitter value in [0, 1) for (index, salt).
func At(index, salt int) float64 {
	return Hash(Seed(index, salt))
}

// Signed returns the jitter value remapped to [-1, 1).
func Signed(index, salt int) float64 {
	return At(index, salt)*2 - 1
}

// Range returns a jittered value in [lo, hi).
func Range(index, salt int, lo, hi float64) float64 {
	return lo + (hi-lo)*At(index, salt)
}

// Direction returns a deterministic unit vector for (index, salt), roughly uniform over the sphere.
func Direction(index, salt int) common.Vec3 {
	z := Signed(index, salt)
	phi := 2 * math.Pi * At(index, salt+1)
	r := math.Sqrt(math.Max(0, 1-z*z))
	return common.Vec3{r * math.Cos(phi), r * math.Sin(phi), z}
}
