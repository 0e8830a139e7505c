package clock

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func TestAdvance(t *testing.T) {
	tests := []struct {
		name   string
		opts   []ClockBuilderOption
		steps  []float64
		paused bool
		want   float64
	}{
		{"normal", nil, []float64{0.5, 0.25}, false, 0.75},
		{"double speed", []ClockBuilderOption{WithSpeed(2)}, []float64{1, 1}, false, 4},
		{"paused", nil, []float64{1, 1}, true, 0},
		{"negative step ignored", nil, []float64{1, -5}, false, 1},
		{"start offset", []ClockBuilderOption{WithStart(10)}, []float64{1}, false, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClock(tt.opts...)
			c.SetPaused(tt.paused)
			for _, dt := range tt.steps {
				c.Advance(dt)
			}
			if got := c.Now(); got != tt.want {
				t.Errorf("Now() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeekAndReset(t *testing.T) {
	c := NewClock()
	c.Advance(30)
	c.Seek(12)
	if c.Now() != 12 {
		t.Errorf("after Seek(12) Now() = %v", c.Now())
	}
	c.Seek(-4)
	if c.Now() != 0 {
		t.Errorf("after Seek(-4) Now() = %v", c.Now())
	}
	c.Advance(5)
	c.Reset()
	if c.Now() != 0 {
		t.Errorf("after Reset Now() = %v", c.Now())
	}
}

func TestSetSpeed(t *testing.T) {
	c := NewClock()
	for _, bad := range []float64{-1, math.NaN(), math.Inf(1)} {
		if err := c.SetSpeed(bad); !errors.Is(err, ErrInvalidSpeed) {
			t.Errorf("SetSpeed(%v) = %v, want ErrInvalidSpeed", bad, err)
		}
	}
	if err := c.SetSpeed(0.5); err != nil {
		t.Fatalf("SetSpeed(0.5): %v", err)
	}
	c.Advance(2)
	if c.Now() != 1 || c.Speed() != 0.5 {
		t.Errorf("Now() = %v Speed() = %v", c.Now(), c.Speed())
	}
}

func TestConcurrentAdvance(t *testing.T) {
	c := NewClock()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Advance(0.5)
				_ = c.Now()
			}
		}()
	}
	wg.Wait()
	if c.Now() != 500 {
		t.Errorf("Now() = %v, want 500", c.Now())
	}
}
