package gpu

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/lucasb-eyer/go-colorful"
)

// SwarmShaderSource is the WGSL program that draws every particle as a camera facing quad.
// The storage struct layouts below match GPUParticle and GPUColor exactly.
//
//go:embed assets/swarm.wgsl
var SwarmShaderSource string

// GPUParticle is the GPU-aligned representation of one frame record.
// Size: 16 bytes (std430 aligned).
type GPUParticle struct {
	Position [3]float32 // offset  0: world position (vec3<f32>)
	Reveal   float32    // offset 12: reveal factor in [0, 1]
}

// GPUColor is the GPU-aligned representation of one emitted particle color.
// Size: 16 bytes (std430 aligned).
type GPUColor struct {
	RGBA [4]float32
}

// GPUViewUniform is the per-frame view uniform consumed by the swarm vertex shader.
// Size: 112 bytes (WGSL uniform aligned).
type GPUViewUniform struct {
	ViewProj  [16]float32 // offset  0: combined view-projection matrix (mat4x4<f32>)
	Right     [3]float32  // offset 64: camera right axis in world space
	PointSize float32     // offset 76: billboard half extent in world units
	Up        [3]float32  // offset 80: camera up axis in world space
	_pad0     float32     // offset 92
	_pad1     [4]float32  // offset 96: padding to 112 bytes
}

// Size returns the size of the GPUViewUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (112)
func (g *GPUViewUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUViewUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUViewUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Right[i]))
		binary.LittleEndian.PutUint32(buf[80+i*4:], math.Float32bits(g.Up[i]))
	}
	binary.LittleEndian.PutUint32(buf[76:], math.Float32bits(g.PointSize))
	return buf
}

// PackParticles converts frame records into GPU particles, reusing dst when it has enough capacity.
//
// Parameters:
//   - dst: destination slice to reuse, may be nil
//   - records: the frame records to convert
//
// Returns:
//   - []GPUParticle: one entry per record
func PackParticles(dst []GPUParticle, records []common.FrameRecord) []GPUParticle {
	if cap(dst) < len(records) {
		dst = make([]GPUParticle, len(records))
	}
	dst = dst[:len(records)]
	for i, r := range records {
		dst[i] = GPUParticle{
			Position: r.Position.Float32(),
			Reveal:   float32(common.Clamp01(r.RevealFactor)),
		}
	}
	return dst
}

// PackColors converts emitted colors into GPU colors with opaque alpha, reusing dst when it has enough capacity.
//
// Parameters:
//   - dst: destination slice to reuse, may be nil
//   - colors: the emitted particle colors
//
// Returns:
//   - []GPUColor: one entry per color
func PackColors(dst []GPUColor, colors []colorful.Color) []GPUColor {
	if cap(dst) < len(colors) {
		dst = make([]GPUColor, len(colors))
	}
	dst = dst[:len(colors)]
	for i, c := range colors {
		c = c.Clamped()
		dst[i] = GPUColor{RGBA: [4]float32{float32(c.R), float32(c.G), float32(c.B), 1}}
	}
	return dst
}

// CameraAxes returns the world space right and up axes of a camera at eye looking at center.
//
// Parameters:
//   - eye: camera position
//   - center: point the camera looks at
//
// Returns:
//   - [3]float32: the right axis
//   - [3]float32: the up axis
func CameraAxes(eye, center common.Vec3) ([3]float32, [3]float32) {
	forward := center.Sub(eye).Normalize()
	worldUp := common.Vec3{0, 1, 0}
	right := common.Vec3{
		forward[1]*worldUp[2] - forward[2]*worldUp[1],
		forward[2]*worldUp[0] - forward[0]*worldUp[2],
		forward[0]*worldUp[1] - forward[1]*worldUp[0],
	}.Normalize()
	up := common.Vec3{
		right[1]*forward[2] - right[2]*forward[1],
		right[2]*forward[0] - right[0]*forward[2],
		right[0]*forward[1] - right[1]*forward[0],
	}
	return right.Float32(), up.Float32()
}
