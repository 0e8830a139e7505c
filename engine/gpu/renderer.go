package gpu

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrNoSurface is returned when a renderer is created without a surface descriptor.
	ErrNoSurface = errors.New("gpu: surface descriptor is required")
	// ErrParticleCount is returned when an upload does not match the renderer's particle count.
	ErrParticleCount = errors.New("gpu: particle count mismatch")
	// ErrNotConfigured is returned when drawing before the surface has been configured.
	ErrNotConfigured = errors.New("gpu: surface not configured")
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

func (m PresentMode) wgpu() wgpu.PresentMode {
	if m == PresentModeUncapped {
		return wgpu.PresentModeImmediate
	}
	return wgpu.PresentModeFifo
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat *wgpu.TextureFormat
	width, height int

	pipeline        *wgpu.RenderPipeline
	bindGroupLayout *wgpu.BindGroupLayout
	bindGroup       *wgpu.BindGroup
	viewBuffer      *wgpu.Buffer
	particleBuffer  *wgpu.Buffer
	colorBuffer     *wgpu.Buffer

	layout        ShaderLayout
	count         int
	particles     []GPUParticle
	colors        []GPUColor
	view          GPUViewUniform
	clearColor    colorful.Color
	presentMode   PresentMode
	forceFallback bool
	fovY          float64
	eye, center   common.Vec3
}

// Renderer draws one swarm frame per call onto a window surface.
// Particles are drawn as additive, camera facing discs whose brightness is the emitted color times the reveal factor.
type Renderer interface {
	// ConfigureSurface (re)configures the swarm surface for the given pixel size and builds the
	// pipeline on first use.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	//
	// Returns:
	//   - error: an error if the pipeline could not be created
	ConfigureSurface(width, height int) error

	// SetPresentMode changes how frames are presented. Takes effect on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetCamera positions the view used for subsequent draws.
	//
	// Parameters:
	//   - eye: camera position in world space
	//   - center: point the camera looks at
	//   - fovY: vertical field of view in radians
	SetCamera(eye, center common.Vec3, fovY float64)

	// Upload writes one frame's records and colors to the GPU.
	//
	// Parameters:
	//   - records: one frame record per particle
	//   - colors: one emitted color per particle
	//
	// Returns:
	//   - error: ErrParticleCount if either slice does not match the renderer's particle count
	Upload(records []common.FrameRecord, colors []colorful.Color) error

	// Draw renders the uploaded frame and presents it.
	//
	// Returns:
	//   - error: an error if the surface texture could not be acquired
	Draw() error

	// Count returns the number of particles the renderer was sized for.
	Count() int

	// Release frees every GPU resource owned by the renderer.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer bound to the given surface, sized for count particles.
// The calling goroutine is locked to its OS thread, matching the window system's requirements.
//
// Parameters:
//   - surfaceDescriptor: the platform surface to draw on
//   - count: the number of particles per frame
//   - options: variadic list of RendererBuilderOption functions to configure the renderer
//
// Returns:
//   - Renderer: the created renderer
//   - error: an error if the adapter or device could not be acquired
func NewRenderer(surfaceDescriptor *wgpu.SurfaceDescriptor, count int, options ...RendererBuilderOption) (Renderer, error) {
	if surfaceDescriptor == nil {
		return nil, ErrNoSurface
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrParticleCount, count)
	}
	r := &renderer{
		mu:          &sync.Mutex{},
		count:       count,
		clearColor:  colorful.Color{},
		presentMode: PresentModeVSync,
		fovY:        0.9,
		eye:         common.Vec3{0, 40, 170},
		center:      common.Vec3{0, 40, 0},
	}
	r.view.PointSize = 0.35
	for _, opt := range options {
		opt(r)
	}

	layout, err := ParseShaderLayout(SwarmShaderSource)
	if err != nil {
		return nil, err
	}
	r.layout = layout

	runtime.LockOSThread()
	r.instance = wgpu.CreateInstance(nil)
	r.surface = r.instance.CreateSurface(surfaceDescriptor)

	a, err := r.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: r.forceFallback,
		CompatibleSurface:    r.surface,
	})
	if err != nil {
		r.Release()
		return nil, fmt.Errorf("gpu: request adapter: %w", err)
	}
	r.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Swarm Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		r.Release()
		return nil, fmt.Errorf("gpu: request device: %w", err)
	}
	r.device = d
	r.queue = d.GetQueue()

	if err := r.initBuffers(); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

func (r *renderer) initBuffers() error {
	var err error
	r.viewBuffer, err = r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Swarm View Uniform",
		Size:  uint64(r.view.Size()),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: view buffer: %w", err)
	}
	r.particleBuffer, err = r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Swarm Particles",
		Size:  uint64(r.count) * uint64(unsafe.Sizeof(GPUParticle{})),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: particle buffer: %w", err)
	}
	r.colorBuffer, err = r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Swarm Colors",
		Size:  uint64(r.count) * uint64(unsafe.Sizeof(GPUColor{})),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: color buffer: %w", err)
	}

	r.bindGroupLayout, err = r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Swarm Bind Group Layout",
		Entries: r.layout.Entries,
	})
	if err != nil {
		return fmt.Errorf("gpu: bind group layout: %w", err)
	}

	buffers := map[string]*wgpu.Buffer{
		"view":      r.viewBuffer,
		"particles": r.particleBuffer,
		"colors":    r.colorBuffer,
	}
	entries := make([]wgpu.BindGroupEntry, 0, len(buffers))
	for name, buf := range buffers {
		binding, ok := r.layout.Names[name]
		if !ok {
			return fmt.Errorf("%w: shader does not declare %s", ErrShaderLayout, name)
		}
		entries = append(entries, wgpu.BindGroupEntry{Binding: binding, Buffer: buf, Offset: 0, Size: wgpu.WholeSize})
	}
	r.bindGroup, err = r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "Swarm Bind Group",
		Layout:  r.bindGroupLayout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("gpu: bind group: %w", err)
	}
	return nil
}

func (r *renderer) initPipeline() error {
	module, err := r.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Swarm Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: SwarmShaderSource},
	})
	if err != nil {
		return fmt.Errorf("gpu: shader module: %w", err)
	}
	defer module.Release()

	layout, err := r.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Swarm Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.bindGroupLayout},
	})
	if err != nil {
		return fmt.Errorf("gpu: pipeline layout: %w", err)
	}
	defer layout.Release()

	additive := wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOne,
		Operation: wgpu.BlendOperationAdd,
	}
	p, err := r.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Swarm Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: r.layout.VertexEntry,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: r.layout.FragmentEntry,
			Targets: []wgpu.ColorTargetState{{
				Format:    *r.surfaceFormat,
				WriteMask: wgpu.ColorWriteMaskAll,
				Blend:     &wgpu.BlendState{Color: additive, Alpha: additive},
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: render pipeline: %w", err)
	}
	r.pipeline = p
	return nil
}

func (r *renderer) ConfigureSurface(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if width <= 0 || height <= 0 {
		return nil
	}
	capabilities := r.surface.GetCapabilities(r.adapter)
	format := capabilities.Formats[0]
	r.surface.Configure(r.adapter, r.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: r.presentMode.wgpu(),
		AlphaMode:   capabilities.AlphaModes[0],
	})
	r.width, r.height = width, height

	if r.pipeline != nil && r.surfaceFormat != nil && *r.surfaceFormat == format {
		return nil
	}
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
	r.surfaceFormat = &format
	return r.initPipeline()
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presentMode = mode
}

func (r *renderer) SetCamera(eye, center common.Vec3, fovY float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eye, r.center, r.fovY = eye, center, fovY
}

func (r *renderer) Upload(records []common.FrameRecord, colors []colorful.Color) error {
	if len(records) != r.count || len(colors) != r.count {
		return fmt.Errorf("%w: want %d, got %d records and %d colors", ErrParticleCount, r.count, len(records), len(colors))
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.particles = PackParticles(r.particles, records)
	r.colors = PackColors(r.colors, colors)
	r.queue.WriteBuffer(r.particleBuffer, 0, common.SliceToBytes(r.particles))
	r.queue.WriteBuffer(r.colorBuffer, 0, common.SliceToBytes(r.colors))
	return nil
}

func (r *renderer) Draw() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pipeline == nil || r.width == 0 || r.height == 0 {
		return ErrNotConfigured
	}

	aspect := float32(r.width) / float32(r.height)
	common.ViewProjection(r.view.ViewProj[:], r.eye.Float32(), r.center.Float32(), float32(r.fovY), aspect, 0.1, 1000)
	r.view.Right, r.view.Up = CameraAxes(r.eye, r.center)
	r.queue.WriteBuffer(r.viewBuffer, 0, r.view.Marshal())

	surfaceTexture, err := r.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("gpu: acquire surface texture: %w", err)
	}
	defer surfaceTexture.Release()
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("gpu: surface view: %w", err)
	}
	defer view.Release()

	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("gpu: command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: r.clearColor.R,
				G: r.clearColor.G,
				B: r.clearColor.B,
				A: 1,
			},
		}},
	})
	pass.SetPipeline(r.pipeline)
	pass.SetBindGroup(0, r.bindGroup, nil)
	pass.Draw(6, uint32(r.count), 0, 0)
	pass.End()
	pass.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("gpu: finish encoder: %w", err)
	}
	r.queue.Submit(commandBuffer)
	commandBuffer.Release()
	r.surface.Present()
	return nil
}

func (r *renderer) Count() int {
	return r.count
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
	if r.bindGroup != nil {
		r.bindGroup.Release()
		r.bindGroup = nil
	}
	if r.bindGroupLayout != nil {
		r.bindGroupLayout.Release()
		r.bindGroupLayout = nil
	}
	for _, buf := range []**wgpu.Buffer{&r.viewBuffer, &r.particleBuffer, &r.colorBuffer} {
		if *buf != nil {
			(*buf).Release()
			*buf = nil
		}
	}
	if r.queue != nil {
		r.queue.Release()
		r.queue = nil
	}
	if r.device != nil {
		r.device.Release()
		r.device = nil
	}
	if r.adapter != nil {
		r.adapter.Release()
		r.adapter = nil
	}
	if r.surface != nil {
		r.surface.Release()
		r.surface = nil
	}
	if r.instance != nil {
		r.instance.Release()
		r.instance = nil
	}
}
