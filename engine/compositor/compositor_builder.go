package compositor

import "github.com/Carmen-Shannon/oxy-swarm/engine/text"

// CompositorBuilderOption is a functional option for configuring a Compositor.
// Use the With* functions to create options.
type CompositorBuilderOption func(c *compositor)

// WithSampler sets the text sampler consulted during text display. Without one the canvas shows its
// background level.
//
// Parameters:
//   - s: the text sampler
//
// Returns:
//   - CompositorBuilderOption: option function to apply
func WithSampler(s text.Sampler) CompositorBuilderOption {
	return func(c *compositor) {
		c.sampler = s
	}
}

// WithPalette replaces the default palette.
//
// Parameters:
//   - p: the palette
//
// Returns:
//   - CompositorBuilderOption: option function to apply
func WithPalette(p Palette) CompositorBuilderOption {
	return func(c *compositor) {
		c.palette = p
	}
}

// WithSeed seeds the twinkle noise.
//
// Parameters:
//   - seed: noise seed
//
// Returns:
//   - CompositorBuilderOption: option function to apply
func WithSeed(seed int64) CompositorBuilderOption {
	return func(c *compositor) {
		c.seed = seed
	}
}
