package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-swarm/common"
)

func TestOrbitEyeDistance(t *testing.T) {
	o := NewOrbit(WithTarget(common.Vec3{1, 2, 3}), WithRadius(50), WithAngles(0.7, 0.3))
	if d := o.Eye().Distance(o.Target()); math.Abs(d-50) > 1e-9 {
		t.Errorf("eye distance = %v, want 50", d)
	}
}

func TestOrbitDefaultFacesFromPositiveZ(t *testing.T) {
	o := NewOrbit(WithAngles(0, 0))
	eye, target := o.Eye(), o.Target()
	if eye[2] <= target[2] {
		t.Errorf("eye z = %v, want in front of target z = %v", eye[2], target[2])
	}
	if math.Abs(eye[0]-target[0]) > 1e-9 || math.Abs(eye[1]-target[1]) > 1e-9 {
		t.Errorf("eye = %v, want level with target %v", eye, target)
	}
}

func TestOrbitZoomClamped(t *testing.T) {
	tests := []struct {
		name  string
		delta float64
		want  float64
	}{
		{"zoom in past minimum", 1000, 20},
		{"zoom out past maximum", -1000, 600},
		{"small step", 1, 160},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOrbit(WithRadius(170))
			o.Zoom(tt.delta)
			if got := o.Radius(); got != tt.want {
				t.Errorf("Radius() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOrbitDragClampsElevation(t *testing.T) {
	o := NewOrbit()
	o.Drag(0, 1e6)
	if got := o.Elevation(); got != math.Pi/2-0.1 {
		t.Errorf("Elevation() = %v, want clamp at max", got)
	}
	o.Drag(0, -1e6)
	if got := o.Elevation(); got != -0.2 {
		t.Errorf("Elevation() = %v, want clamp at min", got)
	}
}

func TestOrbitReset(t *testing.T) {
	o := NewOrbit()
	before := o.Eye()
	o.Drag(120, 40)
	o.Zoom(3)
	o.Reset()
	if after := o.Eye(); after.Distance(before) > 1e-9 {
		t.Errorf("Eye() after reset = %v, want %v", after, before)
	}
}
