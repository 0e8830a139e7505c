// package common contains plain value types and math helpers shared by every engine package. They are not
// interface-wrapped structs, just plain structs that express commonly used data-types.
package common

import "math"

// Vec3 is a point or direction in show space. +Y is up, +Z points toward the audience.
type Vec3 [3]float64

// X returns the x component.
func (v Vec3) X() float64 { return v[0] }

// Y returns the y component.
func (v Vec3) Y() float64 { return v[1] }

// Z returns the z component.
func (v Vec3) Z() float64 { return v[2] }

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Length returns the euclidean length of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Distance returns |v - o|.
func (v Vec3) Distance(o Vec3) float64 {
	return v.Sub(o).Length()
}

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Lerp linearly interpolates from v toward o. t is not clamped.
//
// Parameters:
//   - o: the destination point
//   - t: interpolation factor (0 = v, 1 = o)
//
// Returns:
//   - Vec3: the interpolated point
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{
		v[0] + (o[0]-v[0])*t,
		v[1] + (o[1]-v[1])*t,
		v[2] + (o[2]-v[2])*t,
	}
}

// Float32 converts v to the single precision layout used by GPU buffers.
func (v Vec3) Float32() [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}

// FrameRecord is the per-particle output of the position resolver for one frame: where the particle is
// and how visible it is. A RevealFactor of 0 means the particle must render fully dark whatever its color.
type FrameRecord struct {
	// Position is the particle's world position for the frame.
	Position Vec3
	// RevealFactor gates the emitted brightness, in [0, 1].
	RevealFactor float64
}

// SentinelRecord is returned for indices outside the particle range: parked at the origin and invisible.
var SentinelRecord = FrameRecord{}

// Visible reports whether the record can emit any light.
func (r FrameRecord) Visible() bool {
	return r.RevealFactor > 0
}

// Rect is a normalized texture rectangle. U runs left to right and V top to bottom, both in [0, 1].
type Rect struct {
	U0, V0 float64
	U1, V1 float64
}

// Center returns the midpoint of r.
func (r Rect) Center() (u, v float64) {
	return (r.U0 + r.U1) / 2, (r.V0 + r.V1) / 2
}
