package gpu

import (
	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/lucasb-eyer/go-colorful"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithClearColor sets the color the surface is cleared to before each frame.
//
// Parameters:
//   - c: the background color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(c colorful.Color) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = c.Clamped()
	}
}

// WithPointSize sets the billboard half extent of each particle in world units.
//
// Parameters:
//   - size: the half extent, ignored when not positive
//
// Returns:
//   - RendererBuilderOption: a function that applies the point size option to a renderer
func WithPointSize(size float64) RendererBuilderOption {
	return func(r *renderer) {
		if size > 0 {
			r.view.PointSize = float32(size)
		}
	}
}

// WithCamera sets the initial camera.
//
// Parameters:
//   - eye: camera position in world space
//   - center: point the camera looks at
//   - fovY: vertical field of view in radians
//
// Returns:
//   - RendererBuilderOption: a function that applies the camera option to a renderer
func WithCamera(eye, center common.Vec3, fovY float64) RendererBuilderOption {
	return func(r *renderer) {
		r.eye, r.center, r.fovY = eye, center, fovY
	}
}

// WithForceFallbackAdapter requests the software fallback adapter instead of a hardware one.
//
// Returns:
//   - RendererBuilderOption: a function that applies the fallback option to a renderer
func WithForceFallbackAdapter() RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallback = true
	}
}
