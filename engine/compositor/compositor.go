// Package compositor decides each particle's color from the show phase, the particle's progress through its
// active formation and, while text is shown, the text sampler. The emitted color is always gated by the
// particle's reveal factor.
package compositor

import (
	"math"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/engine/formation"
	"github.com/Carmen-Shannon/oxy-swarm/engine/jitter"
	"github.com/Carmen-Shannon/oxy-swarm/engine/phase"
	"github.com/Carmen-Shannon/oxy-swarm/engine/resolver"
	"github.com/Carmen-Shannon/oxy-swarm/engine/text"
	"github.com/aquilax/go-perlin"
	"github.com/lucasb-eyer/go-colorful"
)

// Compositor computes particle colors.
type Compositor interface {
	// ColorAt returns the raw, ungated color of a particle.
	//
	// Parameters:
	//   - index: particle index
	//   - t: show time in seconds
	//   - frame: the particle's resolved record for t
	//
	// Returns:
	//   - colorful.Color: the raw color, black for an unknown index
	ColorAt(index int, t float64, frame common.FrameRecord) colorful.Color

	// ColorOf is ColorAt for a trace the caller has already resolved.
	ColorOf(tr resolver.Trace, t float64) colorful.Color

	// Emit gates a raw color by the record's reveal factor. A reveal factor of 0 always yields black.
	//
	// Parameters:
	//   - c: the raw color
	//   - frame: the particle's record
	//
	// Returns:
	//   - colorful.Color: the emitted color, clamped to the displayable range
	Emit(c colorful.Color, frame common.FrameRecord) colorful.Color
}

type compositor struct {
	scheduler phase.Scheduler
	resolver  resolver.Resolver
	sampler   text.Sampler
	canvas    *formation.Canvas
	finale    *formation.Finale
	palette   Palette
	seed      int64
	noise     *perlin.Perlin
	columns   int
	highlight map[int]struct{}
}

var _ Compositor = &compositor{}

// NewCompositor builds a compositor over the resolver's stages. The canvas and finale stages, when present,
// are picked up from the resolver.
//
// Parameters:
//   - sched: the phase scheduler
//   - res: the position resolver
//   - opts: variadic list of CompositorBuilderOption functions
//
// Returns:
//   - Compositor: the compositor
//   - error: ErrInvalidPalette for a bad palette
func NewCompositor(sched phase.Scheduler, res resolver.Resolver, opts ...CompositorBuilderOption) (Compositor, error) {
	c := &compositor{
		scheduler: sched,
		resolver:  res,
		palette:   DefaultPalette(),
		seed:      1,
		columns:   res.Grid().Columns(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.palette.Validate(); err != nil {
		return nil, err
	}

	for _, s := range res.Stages() {
		switch f := s.(type) {
		case *formation.Canvas:
			c.canvas = f
		case *formation.Finale:
			c.finale = f
		}
	}
	c.highlight = make(map[int]struct{}, len(c.palette.HighlightColumns))
	for _, col := range c.palette.HighlightColumns {
		c.highlight[col] = struct{}{}
	}
	c.noise = perlin.NewPerlin(2, 2, 3, c.seed)
	return c, nil
}

func (c *compositor) ColorAt(index int, t float64, frame common.FrameRecord) colorful.Color {
	if !c.resolver.Grid().Contains(index) {
		return colorful.Color{}
	}
	tr := c.resolver.Trace(index, t)
	tr.Record = frame
	return c.ColorOf(tr, t)
}

func (c *compositor) ColorOf(tr resolver.Trace, t float64) colorful.Color {
	switch c.scheduler.PhaseOf(t) {
	case phase.FormationAssembly:
		return c.assembly(tr, t)
	case phase.BorderDissolve:
		return c.dissolve(tr, t)
	case phase.TextDisplay:
		return c.textDisplay(tr, t)
	case phase.Finale:
		return c.finaleColor(tr, t)
	}
	return c.flight(tr, t)
}

func (c *compositor) Emit(col colorful.Color, frame common.FrameRecord) colorful.Color {
	r := common.Clamp01(frame.RevealFactor)
	if r == 0 {
		return colorful.Color{}
	}
	return scale(col, r).Clamped()
}

// flight is the pre-assembly look: warm glow on the ground, column rainbow in the air.
func (c *compositor) flight(tr resolver.Trace, t float64) colorful.Color {
	if tr.Stage < 0 {
		return scale(c.palette.Warm, c.twinkle(tr, t))
	}
	return scale(c.columnColor(tr.Particle.Col), c.twinkle(tr, t))
}

func (c *compositor) assembly(tr resolver.Trace, t float64) colorful.Color {
	switch f := tr.Formation.(type) {
	case *formation.Canvas:
		return c.gradient(tr.Progress, c.palette.Gradient[3])
	case *formation.Arc:
		return c.gradient(tr.Progress, arcColor(f))
	}
	return c.flight(tr, t)
}

func (c *compositor) dissolve(tr resolver.Trace, t float64) colorful.Color {
	if arc, ok := tr.Formation.(*formation.Arc); ok {
		return arcColor(arc)
	}
	if c.canvas == nil || !c.canvas.Claims(tr.Particle.Row) {
		return c.flight(tr, t)
	}

	w := c.scheduler.Window(phase.BorderDissolve)
	start := w.Start + c.canvas.BorderDepth(tr.Particle)*c.palette.DissolveSpread
	local := 1 - common.Smoothstep(common.Progress(t, start, c.palette.DissolveFade))
	global := common.Mix(1, c.palette.DissolveFloor, common.Progress(t, w.Start, w.Duration()))
	return scale(c.palette.Gradient[3], local*global)
}

func (c *compositor) textDisplay(tr resolver.Trace, t float64) colorful.Color {
	if arc, ok := tr.Formation.(*formation.Arc); ok {
		return scale(arcColor(arc), c.twinkle(tr, t))
	}
	if c.canvas == nil || !c.canvas.Claims(tr.Particle.Row) {
		return c.flight(tr, t)
	}

	base := c.palette.Gradient[3]
	level := 0.0
	if c.sampler != nil {
		if msg, intensity, ok := c.sampler.Sample(tr.Particle.Row, tr.Particle.Col, t); ok {
			base = msg.Color
			level = band(intensity)
		}
	}
	if level == 0 {
		level = c.palette.Background
	}
	if c.canvas.IsBorder(tr.Particle) {
		level = math.Max(level, c.palette.BorderGlow*c.breath(t, 0))
	}
	return scale(base, level)
}

func (c *compositor) finaleColor(tr resolver.Trace, t float64) colorful.Color {
	proximity := 0.0
	if f, ok := tr.Formation.(*formation.Finale); ok {
		d0 := tr.From.Distance(f.Point())
		proximity = 1
		if d0 > 0 {
			proximity = common.Clamp01(1 - tr.Record.Position.Distance(f.Point())/d0)
		}
	}
	col := c.palette.FinaleCool.BlendRgb(c.palette.FinaleWarm, proximity)
	return scale(col, c.breath(t, jitter.At(tr.Particle.Index, jitter.SaltTwinkle)*2*math.Pi))
}

// gradient maps positional progress onto the four assembly stops, replacing the last stop with near.
func (c *compositor) gradient(progress float64, near colorful.Color) colorful.Color {
	stops := [4]colorful.Color{c.palette.Gradient[0], c.palette.Gradient[1], c.palette.Gradient[2], near}
	s := common.Clamp01(progress) * 3
	i := int(s)
	if i >= 3 {
		return stops[3]
	}
	return stops[i].BlendLab(stops[i+1], s-float64(i)).Clamped()
}

func (c *compositor) columnColor(col int) colorful.Color {
	if _, ok := c.highlight[col]; ok {
		return c.palette.Highlight
	}
	return colorful.Hsv(360*float64(col)/float64(c.columns), 0.85, 1)
}

// twinkle is a brightness multiplier around 1 driven by smooth noise over (particle, time).
func (c *compositor) twinkle(tr resolver.Trace, t float64) float64 {
	n := c.noise.Noise2D(float64(tr.Particle.Index)*0.37+jitter.At(tr.Particle.Index, jitter.SaltTwinkle), t*1.3)
	return math.Max(0, 1+c.palette.Twinkle*n)
}

// breath is a slow oscillation in [0.8, 1].
func (c *compositor) breath(t, offset float64) float64 {
	return 0.9 + 0.1*math.Sin(2*math.Pi*t/c.palette.BreathPeriod+offset)
}

func arcColor(a *formation.Arc) colorful.Color {
	return colorful.Hsv(360*a.Hue(), 0.8, 1)
}

func scale(c colorful.Color, s float64) colorful.Color {
	return colorful.Color{R: c.R * s, G: c.G * s, B: c.B * s}
}
