package engine

import (
	"github.com/Carmen-Shannon/oxy-swarm/engine/camera"
	"github.com/Carmen-Shannon/oxy-swarm/engine/clock"
	"github.com/Carmen-Shannon/oxy-swarm/engine/gpu"
	"github.com/Carmen-Shannon/oxy-swarm/engine/raster"
	"github.com/Carmen-Shannon/oxy-swarm/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables frame statistics output.
//
// Parameters:
//   - enabled: if true, enables profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the tick rate in ticks per second, overriding the show's playback section.
// Values <= 0 are treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.engineTickRate = tickInterval(fps)
	}
}

// WithClock supplies the show clock, replacing the one built from the show's playback speed.
//
// Parameters:
//   - c: the clock to advance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(c clock.Clock) EngineBuilderOption {
	return func(e *engine) {
		e.clock = c
	}
}

// WithSpeed builds the engine's clock with the given speed multiplier.
//
// Parameters:
//   - speed: show seconds per wall second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSpeed(speed float64) EngineBuilderOption {
	return func(e *engine) {
		e.clock = clock.NewClock(clock.WithSpeed(speed))
	}
}

// WithWindow attaches a window. The engine binds its resize, scroll, drag, and key callbacks.
//
// Parameters:
//   - w: a spawned Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer attaches the renderer the render goroutine draws through.
//
// Parameters:
//   - r: a Renderer sized for the show's particle count
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r gpu.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithCamera replaces the default orbit camera.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Orbit) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithRasterizer replaces the default bitmap-font rasterizer.
//
// Parameters:
//   - r: the rasterizer used to turn messages into bitmaps
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRasterizer(r raster.Rasterizer) EngineBuilderOption {
	return func(e *engine) {
		e.rasterizer = r
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.SetRenderFrameLimit(fps)
	}
}

// WithStopAt makes Run return once the show clock reaches t.
//
// Parameters:
//   - t: show time in seconds (0 = run until Quit)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithStopAt(t float64) EngineBuilderOption {
	return func(e *engine) {
		e.stopAt = t
	}
}
