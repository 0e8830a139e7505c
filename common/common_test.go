package common

import (
	"math"
	"testing"
)

func TestFract(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.25, 0.25},
		{-0.25, 0.75},
		{3, 0},
	}
	for _, tt := range tests {
		if got := Fract(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Fract(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name               string
		t, start, duration float64
		want               float64
	}{
		{"before", 0, 1, 2, 0},
		{"middle", 2, 1, 2, 0.5},
		{"after", 9, 1, 2, 1},
		{"zero duration before", 0.5, 1, 0, 0},
		{"zero duration at", 1, 1, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.t, tt.start, tt.duration); got != tt.want {
				t.Errorf("Progress(%v, %v, %v) = %v, want %v", tt.t, tt.start, tt.duration, got, tt.want)
			}
		})
	}
}

func TestEasingEndpoints(t *testing.T) {
	eases := map[string]func(float64) float64{
		"Smoothstep":   Smoothstep,
		"EaseOutCubic": EaseOutCubic,
	}
	for name, f := range eases {
		if f(0) != 0 {
			t.Errorf("%s(0) = %v, want 0", name, f(0))
		}
		if f(1) != 1 {
			t.Errorf("%s(1) = %v, want 1", name, f(1))
		}
		prev := 0.0
		for i := 1; i <= 100; i++ {
			v := f(float64(i) / 100)
			if v < prev {
				t.Errorf("%s not monotonic at %d: %v < %v", name, i, v, prev)
			}
			prev = v
		}
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{2, 4, -6}
	mid := a.Lerp(b, 0.5)
	if mid != (Vec3{1, 2, -3}) {
		t.Errorf("Lerp midpoint = %v, want {1 2 -3}", mid)
	}
	if d := a.Distance(b); math.Abs(d-math.Sqrt(56)) > 1e-12 {
		t.Errorf("Distance = %v, want %v", d, math.Sqrt(56))
	}
}

func TestViewProjectionCentersTarget(t *testing.T) {
	var vp [16]float32
	ViewProjection(vp[:], [3]float32{0, 0, 10}, [3]float32{0, 0, 0}, 1.0, 1.0, 0.1, 100)

	// The look-at target must project to the middle of clip space.
	x := vp[12]
	y := vp[13]
	w := vp[15]
	if math.Abs(float64(x/w)) > 1e-5 || math.Abs(float64(y/w)) > 1e-5 {
		t.Errorf("target projects to (%v, %v), want (0, 0)", x/w, y/w)
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce(0, 0, 3, 4); got != 3 {
		t.Errorf("Coalesce = %v, want 3", got)
	}
	if got := Coalesce("", ""); got != "" {
		t.Errorf("Coalesce of zeros = %q, want empty", got)
	}
}
