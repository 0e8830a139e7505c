package engine

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/engine/camera"
	"github.com/Carmen-Shannon/oxy-swarm/engine/clock"
	"github.com/Carmen-Shannon/oxy-swarm/engine/framestore"
	"github.com/Carmen-Shannon/oxy-swarm/engine/gpu"
	"github.com/Carmen-Shannon/oxy-swarm/engine/phase"
	"github.com/Carmen-Shannon/oxy-swarm/engine/profiler"
	"github.com/Carmen-Shannon/oxy-swarm/engine/raster"
	"github.com/Carmen-Shannon/oxy-swarm/engine/show"
	"github.com/Carmen-Shannon/oxy-swarm/engine/text"
	"github.com/Carmen-Shannon/oxy-swarm/engine/window"
)

// seekStep is how far the arrow keys move the show clock, in seconds.
const seekStep = 5.0

// engine implements the Engine interface.
// Coordinates the tick, render, and window threads around one show.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	runMu   sync.Mutex
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	show       show.Show
	clock      clock.Clock
	rasterizer raster.Rasterizer

	window   window.Window
	renderer gpu.Renderer
	camera   camera.Orbit

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate   time.Duration
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	stopAt           float64       // show time at which the engine quits; 0 = never

	// back is owned by the tick goroutine; front is shared under frameMu
	back       *framestore.Frame
	front      *framestore.Frame
	generation uint64
	frameMu    sync.RWMutex

	frameCallback func(f *framestore.Frame)
	textKey       string
	lastTitle     time.Time
}

// Engine runs a show: it advances the show clock at a fixed tick rate, computes a full frame per tick,
// and hands the latest frame to the renderer when one is attached.
type Engine interface {
	// Show returns the show being played.
	Show() show.Show

	// Clock returns the show clock. Transport controls (pause, seek, speed) act on it directly.
	Clock() clock.Clock

	// Window returns the attached window, or nil when running headless.
	Window() window.Window

	// Camera returns the viewer camera.
	Camera() camera.Orbit

	// EnableProfiler enables frame statistics output to the log.
	EnableProfiler()

	// DisableProfiler disables frame statistics output.
	DisableProfiler()

	// SetTickRate sets the tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// SetFrameCallback registers a function called on the tick goroutine with every computed frame.
	// The frame is only valid for the duration of the call.
	//
	// Parameters:
	//   - callback: function receiving the frame (or nil to disable)
	SetFrameCallback(callback func(f *framestore.Frame))

	// Step advances the clock by dt seconds of wall time and computes one frame synchronously.
	// This is the body of the tick loop; it is exported for deterministic offline playback and must
	// not be called while Run is active.
	//
	// Parameters:
	//   - dt: wall time elapsed since the previous step, scaled by the clock speed
	//
	// Returns:
	//   - float64: the show time of the computed frame
	Step(dt float64) float64

	// LatestFrame returns a copy of the most recently computed frame, or nil before the first tick.
	LatestFrame() *framestore.Frame

	// HandleKey applies a transport or camera control for a key code from common's key table.
	//
	// Parameters:
	//   - keyCode: the virtual key code
	HandleKey(keyCode uint32)

	// Run starts the engine loops. With a window it blocks until the window closes; headless it
	// blocks until Quit is called or the stop time is reached.
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine playing s. Tick rate and speed default to the show's playback section.
//
// Parameters:
//   - s: the assembled show
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: an error if an option produced an invalid configuration
func NewEngine(s show.Show, options ...EngineBuilderOption) (Engine, error) {
	playback := s.Config().Playback
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		show:            s,
		rasterizer:      raster.NewRasterizer(),
		profiler:        profiler.NewProfiler(time.Second),
		engineTickRate:  tickInterval(float64(playback.TickRate)),
		back:            &framestore.Frame{},
	}
	speed := common.Coalesce(playback.Speed, 1)

	for _, opt := range options {
		opt(e)
	}

	if e.clock == nil {
		e.clock = clock.NewClock(clock.WithSpeed(speed))
	}
	if e.camera == nil {
		e.camera = camera.NewOrbit(camera.WithTarget(cameraTarget(s)))
	}
	if e.renderer != nil && e.renderer.Count() != s.Grid().Count() {
		return nil, fmt.Errorf("%w: renderer sized for %d, show has %d", gpu.ErrParticleCount, e.renderer.Count(), s.Grid().Count())
	}

	if e.window != nil {
		e.bindWindow()
	}
	return e, nil
}

// cameraTarget frames the canvas, where the show spends most of its time.
func cameraTarget(s show.Show) common.Vec3 {
	if s.Canvas() != nil {
		return s.Config().Canvas.Center
	}
	return common.Vec3{0, 40, 0}
}

func (e *engine) bindWindow() {
	e.window.SetResizeCallback(func(width, height int) {
		if e.renderer != nil {
			if err := e.renderer.ConfigureSurface(width, height); err != nil {
				log.Printf("[Engine] configure surface: %v", err)
			}
		}
	})
	e.window.SetScrollCallback(func(delta float32) {
		e.camera.Zoom(float64(delta))
	})
	e.window.SetDragCallback(func(dx, dy float32) {
		e.camera.Drag(float64(dx), float64(dy))
	})
	e.window.SetKeyDownCallback(e.HandleKey)
	e.window.SetUpdateCallback(e.updateTitle)
}

func (e *engine) Show() show.Show {
	return e.show
}

func (e *engine) Clock() clock.Clock {
	return e.clock
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Camera() camera.Orbit {
	return e.camera
}

func (e *engine) Run() {
	e.runMu.Lock()
	e.running = true
	e.runMu.Unlock()

	if e.window != nil && e.renderer != nil {
		if err := e.renderer.ConfigureSurface(e.window.Width(), e.window.Height()); err != nil {
			log.Printf("[Engine] configure surface: %v", err)
			e.signalQuit()
			return
		}
	}

	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	}
	e.wg.Wait()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.runMu.Lock()
		e.running = false
		e.runMu.Unlock()
		close(e.quitChannel)
	})
}

// handle launches the tick and render goroutines. Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(1)
	go e.handleTick()
	if e.renderer != nil {
		e.wg.Add(1)
		go e.handleRender()
	}
}

// handleTick runs the fixed-rate tick loop in its own goroutine.
// Listens for dynamic rate changes via tickRateChannel and exits when the quit channel is closed.
func (e *engine) handleTick() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] tick goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()
	e.Step(0)

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := now.Sub(lastTick).Seconds()
			lastTick = now

			t := e.Step(dt)
			if e.stopAt > 0 && t >= e.stopAt {
				e.signalQuit()
				return
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

func (e *engine) Step(dt float64) float64 {
	t := e.clock.Advance(dt)
	e.prepareText(t)

	start := time.Now()
	e.show.Frames().ComputeInto(e.back, t)
	elapsed := time.Since(start)

	if e.frameCallback != nil {
		e.frameCallback(e.back)
	}

	e.frameMu.Lock()
	e.front, e.back = e.back, e.front
	e.generation++
	e.frameMu.Unlock()
	if e.back == nil {
		e.back = &framestore.Frame{}
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Observe(elapsed, t)
	}
	return t
}

// prepareText rasterizes the message visible at t, or the next one scheduled, whenever it differs
// from the bitmap currently published to the sampler.
func (e *engine) prepareText(t float64) {
	msg, ok := upcomingMessage(e.show.Messages(), t)
	if !ok || msg.Key() == e.textKey {
		return
	}
	bmp := e.rasterizer.Rasterize(msg)
	if bmp == nil {
		return
	}
	e.show.Bitmaps().Set(bmp)
	e.textKey = msg.Key()
}

// upcomingMessage returns the message active at t, or failing that the earliest one starting after t.
func upcomingMessage(ms text.Messages, t float64) (text.Message, bool) {
	if m, ok := ms.Active(t); ok {
		return m, true
	}
	var next text.Message
	found := false
	for _, m := range ms {
		if m.Start > t && (!found || m.Start < next.Start) {
			next, found = m, true
		}
	}
	return next, found
}

func (e *engine) LatestFrame() *framestore.Frame {
	e.frameMu.RLock()
	defer e.frameMu.RUnlock()
	if e.front == nil {
		return nil
	}
	return &framestore.Frame{
		Time:    e.front.Time,
		Records: append([]common.FrameRecord(nil), e.front.Records...),
		Colors:  append(e.front.Colors[:0:0], e.front.Colors...),
	}
}

// handleRender runs the (optionally frame-limited) render loop in its own goroutine.
// Uploads the newest frame when it changed, then draws. Recovers from panics and signals quit.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	var uploaded uint64
	for {
		select {
		case <-e.quitChannel:
			return
		default:
			frameStart := time.Now()

			e.frameMu.RLock()
			if e.front != nil && e.generation != uploaded {
				if err := e.renderer.Upload(e.front.Records, e.front.Colors); err != nil {
					log.Printf("[Engine] upload frame: %v", err)
				}
				uploaded = e.generation
			}
			e.frameMu.RUnlock()

			e.renderer.SetCamera(e.camera.Eye(), e.camera.Target(), e.camera.FovY())
			if err := e.renderer.Draw(); err != nil && !errors.Is(err, gpu.ErrNotConfigured) {
				log.Printf("[Engine] draw: %v", err)
			}

			limit := e.renderFrameLimit
			if limit <= 0 {
				limit = time.Millisecond
			}
			if remaining := limit - time.Since(frameStart); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// HandleKey maps the viewer's keys onto the clock and camera.
func (e *engine) HandleKey(keyCode uint32) {
	switch keyCode {
	case common.KeySpace:
		e.clock.SetPaused(!e.clock.Paused())
	case common.KeyR:
		e.clock.Reset()
		e.camera.Reset()
	case common.KeyF:
		e.clock.Seek(e.show.Scheduler().Window(phase.Finale).Start)
	case common.KeyRight:
		e.clock.Seek(e.clock.Now() + seekStep)
	case common.KeyLeft:
		e.clock.Seek(e.clock.Now() - seekStep)
	case common.KeyUp:
		e.setSpeed(e.clock.Speed() * 2)
	case common.KeyDown:
		e.setSpeed(e.clock.Speed() / 2)
	case common.Key1:
		e.setSpeed(1)
	}
}

func (e *engine) setSpeed(speed float64) {
	if err := e.clock.SetSpeed(common.Clamp(speed, 0.125, 16)); err != nil {
		log.Printf("[Engine] set speed: %v", err)
	}
}

// updateTitle runs on the window thread and shows the transport state at most four times a second.
func (e *engine) updateTitle() {
	if time.Since(e.lastTitle) < 250*time.Millisecond {
		return
	}
	e.lastTitle = time.Now()
	title := fmt.Sprintf("%s  t=%.1fs  x%g", e.show.Config().Window.Title, e.clock.Now(), e.clock.Speed())
	if e.clock.Paused() {
		title += "  [paused]"
	}
	e.window.SetTitle(title)
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	newRate := tickInterval(fps)

	e.runMu.Lock()
	running := e.running
	e.runMu.Unlock()
	if !running {
		e.engineTickRate = newRate
		return
	}

	// replace any pending update that the loop has not consumed yet
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) SetFrameCallback(callback func(f *framestore.Frame)) {
	e.frameCallback = callback
}

// tickInterval converts a rate to a ticker period, defaulting to 60Hz.
func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}
