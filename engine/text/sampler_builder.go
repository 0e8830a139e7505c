package text

// SamplerBuilderOption is a functional option for configuring a Sampler.
// Use the With* functions to create options.
type SamplerBuilderOption func(s *sampler)

// WithPerCharDelay sets the delay between consecutive character cells starting their reveal.
//
// Parameters:
//   - delay: seconds between character starts
//
// Returns:
//   - SamplerBuilderOption: option function to apply
func WithPerCharDelay(delay float64) SamplerBuilderOption {
	return func(s *sampler) {
		s.perCharDelay = delay
	}
}

// WithCharReveal sets how long one character cell takes to reach full intensity.
//
// Parameters:
//   - duration: ramp length in seconds
//
// Returns:
//   - SamplerBuilderOption: option function to apply
func WithCharReveal(duration float64) SamplerBuilderOption {
	return func(s *sampler) {
		s.charReveal = duration
	}
}

// WithFadeOut sets the length of the closing fade.
//
// Parameters:
//   - duration: fade length in seconds
//
// Returns:
//   - SamplerBuilderOption: option function to apply
func WithFadeOut(duration float64) SamplerBuilderOption {
	return func(s *sampler) {
		s.fadeOut = duration
	}
}
