package common

import "math"

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Fract returns the fractional part of v, always in [0, 1).
func Fract(v float64) float64 {
	f := v - math.Floor(v)
	if f >= 1 {
		return 0
	}
	return f
}

// Mix linearly interpolates between a and b.
func Mix(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Progress returns how far t is through the window [start, start+duration], clamped to [0, 1].
// A non-positive duration is treated as an instant step at start.
//
// Parameters:
//   - t: the time being evaluated
//   - start: window start time
//   - duration: window length in seconds
//
// Returns:
//   - float64: the clamped progress ratio
func Progress(t, start, duration float64) float64 {
	if duration <= 0 {
		if t >= start {
			return 1
		}
		return 0
	}
	return Clamp01((t - start) / duration)
}

// Smoothstep is the cubic Hermite ease 3x² - 2x³ applied to a clamped x.
func Smoothstep(x float64) float64 {
	x = Clamp01(x)
	return x * x * (3 - 2*x)
}

// EaseOutCubic starts fast and settles slowly: 1 - (1-x)³.
func EaseOutCubic(x float64) float64 {
	x = Clamp01(x)
	inv := 1 - x
	return 1 - inv*inv*inv
}
