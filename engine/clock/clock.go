// Package clock holds the show time. The host advances it by wall-clock deltas; the choreography only ever
// sees the resulting scalar.
package clock

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidSpeed is returned for a negative or non-finite speed multiplier.
var ErrInvalidSpeed = errors.New("clock: invalid speed")

// Clock is a pausable show clock with a speed multiplier. It is safe for concurrent use.
type Clock interface {
	// Now returns the current show time in seconds.
	Now() float64

	// Advance moves the clock forward by dt wall-clock seconds scaled by the speed. A paused clock ignores it.
	//
	// Parameters:
	//   - dt: elapsed wall-clock seconds
	//
	// Returns:
	//   - float64: the new show time
	Advance(dt float64) float64

	// Speed returns the multiplier applied by Advance.
	Speed() float64

	// SetSpeed changes the multiplier.
	//
	// Parameters:
	//   - speed: new multiplier, 0 or more
	//
	// Returns:
	//   - error: ErrInvalidSpeed for a negative or non-finite value
	SetSpeed(speed float64) error

	// Paused reports whether Advance is currently ignored.
	Paused() bool

	// SetPaused pauses or resumes the clock.
	SetPaused(paused bool)

	// Seek jumps to t, which may be earlier than Now. Negative values clamp to 0.
	Seek(t float64)

	// Reset returns to show start.
	Reset()
}

type showClock struct {
	mu     sync.RWMutex
	now    float64
	speed  float64
	paused bool
}

var _ Clock = &showClock{}

// NewClock creates a clock at t = 0 running at normal speed.
//
// Parameters:
//   - opts: variadic list of ClockBuilderOption functions
//
// Returns:
//   - Clock: the clock
func NewClock(opts ...ClockBuilderOption) Clock {
	c := &showClock{speed: 1}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *showClock) Now() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *showClock) Advance(dt float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused && dt > 0 {
		c.now += dt * c.speed
	}
	return c.now
}

func (c *showClock) Speed() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.speed
}

func (c *showClock) SetSpeed(speed float64) error {
	if !(speed >= 0) || speed > 1e6 {
		return fmt.Errorf("%w: %g", ErrInvalidSpeed, speed)
	}
	c.mu.Lock()
	c.speed = speed
	c.mu.Unlock()
	return nil
}

func (c *showClock) Paused() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.paused
}

func (c *showClock) SetPaused(paused bool) {
	c.mu.Lock()
	c.paused = paused
	c.mu.Unlock()
}

func (c *showClock) Seek(t float64) {
	if !(t > 0) {
		t = 0
	}
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func (c *showClock) Reset() {
	c.Seek(0)
}
