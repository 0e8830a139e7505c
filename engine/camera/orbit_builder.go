package camera

import "github.com/Carmen-Shannon/oxy-swarm/common"

// OrbitBuilderOption is a functional option for configuring an Orbit camera.
type OrbitBuilderOption func(*orbit)

// WithTarget sets the look-at point.
//
// Parameters:
//   - target: world-space look-at point
//
// Returns:
//   - OrbitBuilderOption: option function to apply
func WithTarget(target common.Vec3) OrbitBuilderOption {
	return func(o *orbit) {
		o.target = target
	}
}

// WithRadius sets the initial distance from the target.
//
// Parameters:
//   - radius: distance in world units
//
// Returns:
//   - OrbitBuilderOption: option function to apply
func WithRadius(radius float64) OrbitBuilderOption {
	return func(o *orbit) {
		o.radius = radius
	}
}

// WithAngles sets the initial azimuth and elevation.
//
// Parameters:
//   - azimuth: rotation around +Y in radians, 0 places the eye on +Z
//   - elevation: angle above the horizontal plane in radians
//
// Returns:
//   - OrbitBuilderOption: option function to apply
func WithAngles(azimuth, elevation float64) OrbitBuilderOption {
	return func(o *orbit) {
		o.azimuth, o.elevation = azimuth, elevation
	}
}

// WithRadiusBounds limits how close and how far the camera can zoom.
//
// Parameters:
//   - min, max: radius bounds in world units
//
// Returns:
//   - OrbitBuilderOption: option function to apply
func WithRadiusBounds(min, max float64) OrbitBuilderOption {
	return func(o *orbit) {
		o.minRadius, o.maxRadius = min, max
	}
}

// WithFov sets the vertical field of view.
//
// Parameters:
//   - fovY: field of view in radians
//
// Returns:
//   - OrbitBuilderOption: option function to apply
func WithFov(fovY float64) OrbitBuilderOption {
	return func(o *orbit) {
		if fovY > 0 {
			o.fovY = fovY
		}
	}
}

// WithMouseSensitivity sets radians of rotation per pixel of drag.
//
// Parameters:
//   - sensitivity: radians per pixel
//
// Returns:
//   - OrbitBuilderOption: option function to apply
func WithMouseSensitivity(sensitivity float64) OrbitBuilderOption {
	return func(o *orbit) {
		o.mouseSensitivity = sensitivity
	}
}

// WithZoomSpeed sets world units of zoom per scroll step.
//
// Parameters:
//   - speed: units per scroll step
//
// Returns:
//   - OrbitBuilderOption: option function to apply
func WithZoomSpeed(speed float64) OrbitBuilderOption {
	return func(o *orbit) {
		o.zoomSpeed = speed
	}
}
