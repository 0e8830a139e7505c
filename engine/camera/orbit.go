package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-swarm/common"
)

// orbit is the implementation of the Orbit interface.
// Position is derived from spherical coordinates (radius, azimuth, elevation) around the target.
type orbit struct {
	mu *sync.Mutex

	target common.Vec3
	fovY   float64

	radius    float64
	azimuth   float64 // around +Y, 0 places the eye on +Z
	elevation float64 // above the horizontal plane

	minRadius, maxRadius       float64
	minElevation, maxElevation float64

	mouseSensitivity float64
	zoomSpeed        float64

	initial [3]float64 // radius, azimuth, elevation restored by Reset
}

// Orbit is a third-person camera circling a fixed look-at point, driven by mouse drag and scroll.
type Orbit interface {
	// Eye returns the camera's world-space position.
	Eye() common.Vec3

	// Target returns the look-at point.
	Target() common.Vec3

	// SetTarget moves the look-at point, keeping the spherical offset.
	//
	// Parameters:
	//   - target: world-space look-at point
	SetTarget(target common.Vec3)

	// FovY returns the vertical field of view in radians.
	FovY() float64

	// Drag rotates the camera by a cursor delta. Positive dx orbits right, positive dy tilts down.
	//
	// Parameters:
	//   - dx, dy: cursor movement in pixels
	Drag(dx, dy float64)

	// Zoom moves the camera toward the target for positive delta, clamped to the radius bounds.
	//
	// Parameters:
	//   - delta: scroll amount scaled by the zoom speed
	Zoom(delta float64)

	// Radius returns the current distance from the target.
	Radius() float64

	// Elevation returns the current elevation angle in radians.
	Elevation() float64

	// Reset restores the radius and angles the orbit was created with.
	Reset()
}

var _ Orbit = &orbit{}

// NewOrbit creates an Orbit camera with defaults framing the show volume from the audience side.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Orbit: the newly created camera
func NewOrbit(options ...OrbitBuilderOption) Orbit {
	o := &orbit{
		mu:     &sync.Mutex{},
		target: common.Vec3{0, 40, 0},
		fovY:   math.Pi / 3,

		radius:    170,
		azimuth:   0,
		elevation: 0.12,

		minRadius:    20,
		maxRadius:    600,
		minElevation: -0.2,
		maxElevation: math.Pi/2 - 0.1,

		mouseSensitivity: 0.005,
		zoomSpeed:        10,
	}
	for _, opt := range options {
		opt(o)
	}
	o.radius = common.Clamp(o.radius, o.minRadius, o.maxRadius)
	o.elevation = common.Clamp(o.elevation, o.minElevation, o.maxElevation)
	o.initial = [3]float64{o.radius, o.azimuth, o.elevation}
	return o
}

func (o *orbit) Eye() common.Vec3 {
	o.mu.Lock()
	defer o.mu.Unlock()
	cosElev, sinElev := math.Cos(o.elevation), math.Sin(o.elevation)
	return common.Vec3{
		o.target[0] + o.radius*cosElev*math.Sin(o.azimuth),
		o.target[1] + o.radius*sinElev,
		o.target[2] + o.radius*cosElev*math.Cos(o.azimuth),
	}
}

func (o *orbit) Target() common.Vec3 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.target
}

func (o *orbit) SetTarget(target common.Vec3) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.target = target
}

func (o *orbit) FovY() float64 {
	return o.fovY
}

func (o *orbit) Drag(dx, dy float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.azimuth += dx * o.mouseSensitivity
	o.elevation = common.Clamp(o.elevation+dy*o.mouseSensitivity, o.minElevation, o.maxElevation)
}

func (o *orbit) Zoom(delta float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.radius = common.Clamp(o.radius-delta*o.zoomSpeed, o.minRadius, o.maxRadius)
}

func (o *orbit) Radius() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.radius
}

func (o *orbit) Elevation() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.elevation
}

func (o *orbit) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.radius, o.azimuth, o.elevation = o.initial[0], o.initial[1], o.initial[2]
}
