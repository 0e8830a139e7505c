package clock

// ClockBuilderOption is a functional option for configuring a Clock.
// Use the With* functions to create options.
type ClockBuilderOption func(c *showClock)

// WithSpeed sets the initial speed multiplier. Invalid values are ignored.
//
// Parameters:
//   - speed: multiplier, 0 or more
//
// Returns:
//   - ClockBuilderOption: option function to apply
func WithSpeed(speed float64) ClockBuilderOption {
	return func(c *showClock) {
		if speed >= 0 {
			c.speed = speed
		}
	}
}

// WithStart sets the initial show time.
//
// Parameters:
//   - t: start time in seconds
//
// Returns:
//   - ClockBuilderOption: option function to apply
func WithStart(t float64) ClockBuilderOption {
	return func(c *showClock) {
		if t > 0 {
			c.now = t
		}
	}
}
