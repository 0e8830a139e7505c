package show

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-swarm/engine/compositor"
	"github.com/Carmen-Shannon/oxy-swarm/engine/formation"
	"github.com/Carmen-Shannon/oxy-swarm/engine/framestore"
	"github.com/Carmen-Shannon/oxy-swarm/engine/grid"
	"github.com/Carmen-Shannon/oxy-swarm/engine/phase"
	"github.com/Carmen-Shannon/oxy-swarm/engine/resolver"
	"github.com/Carmen-Shannon/oxy-swarm/engine/text"
)

// Show is an assembled show: every component built from one Config, ready to produce frames.
type Show interface {
	// Config returns the configuration the show was built from.
	Config() *Config

	// Grid returns the particle grid.
	Grid() grid.Grid

	// Scheduler returns the phase scheduler.
	Scheduler() phase.Scheduler

	// Resolver returns the position pipeline.
	Resolver() resolver.Resolver

	// Canvas returns the text canvas formation.
	Canvas() *formation.Canvas

	// Messages returns the text schedule.
	Messages() text.Messages

	// Bitmaps returns the slot the text rasterizer publishes into.
	Bitmaps() *text.Store

	// Sampler returns the text sampler.
	Sampler() text.Sampler

	// Compositor returns the color compositor.
	Compositor() compositor.Compositor

	// Frames returns the frame store.
	Frames() framestore.FrameStore
}

type show struct {
	cfg        *Config
	grid       grid.Grid
	scheduler  phase.Scheduler
	resolver   resolver.Resolver
	canvas     *formation.Canvas
	messages   text.Messages
	bitmaps    *text.Store
	sampler    text.Sampler
	compositor compositor.Compositor
	frames     framestore.FrameStore
}

var _ Show = &show{}

// New builds every component of the show described by cfg.
//
// Parameters:
//   - cfg: a validated configuration, typically from Load, Parse or Default
//
// Returns:
//   - Show: the assembled show
//   - error: the first component construction error, wrapped with the component name
func New(cfg *Config) (Show, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &show{cfg: cfg, bitmaps: &text.Store{}}

	var err error
	if s.grid, err = grid.New(cfg.Particles.Count, cfg.Particles.Columns); err != nil {
		return nil, fmt.Errorf("show: grid: %w", err)
	}
	if s.scheduler, err = cfg.Scheduler(); err != nil {
		return nil, fmt.Errorf("show: phases: %w", err)
	}

	ground := formation.NewGround(s.grid, cfg.Particles.Spacing)
	stages, err := s.buildStages(ground)
	if err != nil {
		return nil, err
	}

	reveal, err := resolver.NewColumnReveal(s.scheduler.Window(phase.ColumnReveal), s.grid.Columns(), cfg.Reveal)
	if err != nil {
		return nil, fmt.Errorf("show: reveal: %w", err)
	}
	if s.resolver, err = resolver.NewResolver(s.grid, ground, resolver.WithStages(stages...), resolver.WithReveal(reveal)); err != nil {
		return nil, fmt.Errorf("show: resolver: %w", err)
	}

	s.messages = make(text.Messages, len(cfg.Text.Messages))
	for i, m := range cfg.Text.Messages {
		s.messages[i] = text.Message{Text: m.Text, Color: m.Color.Color, Start: m.Start, End: m.End}
	}
	s.sampler, err = text.NewSampler(s.canvas, s.bitmaps, s.messages,
		text.WithPerCharDelay(cfg.Text.PerCharDelay),
		text.WithCharReveal(cfg.Text.CharReveal),
		text.WithFadeOut(cfg.Text.FadeOut),
	)
	if err != nil {
		return nil, fmt.Errorf("show: text: %w", err)
	}

	pal, err := cfg.CompositorPalette()
	if err != nil {
		return nil, fmt.Errorf("show: palette: %w", err)
	}
	s.compositor, err = compositor.NewCompositor(s.scheduler, s.resolver,
		compositor.WithSampler(s.sampler),
		compositor.WithPalette(pal),
		compositor.WithSeed(cfg.Seed),
	)
	if err != nil {
		return nil, fmt.Errorf("show: compositor: %w", err)
	}

	s.frames = framestore.NewFrameStore(s.resolver, s.compositor,
		framestore.WithWorkers(cfg.Playback.Workers),
		framestore.WithChunkSize(cfg.Playback.ChunkSize),
	)
	return s, nil
}

// buildStages creates the formations in pipeline order.
func (s *show) buildStages(ground formation.Ground) ([]formation.Formation, error) {
	cfg := s.cfg

	ascent, err := formation.NewAscent(cfg.Ascent)
	if err != nil {
		return nil, fmt.Errorf("show: ascent: %w", err)
	}
	split, err := formation.NewBifurcation(s.grid, ground, cfg.Bifurcation)
	if err != nil {
		return nil, fmt.Errorf("show: bifurcation: %w", err)
	}
	if s.canvas, err = formation.NewCanvas(s.grid, cfg.Canvas); err != nil {
		return nil, fmt.Errorf("show: canvas: %w", err)
	}

	stages := []formation.Formation{ascent, split, s.canvas}
	for _, a := range cfg.Arcs {
		plane, err := formation.ParsePlane(a.Plane)
		if err != nil {
			return nil, fmt.Errorf("show: arc %q: %w", a.Name, err)
		}
		opts := []formation.ArcBuilderOption{
			formation.WithRows(a.RowStart, a.Rows),
			formation.WithRadius(a.Radius),
			formation.WithCenter(a.Center),
			formation.WithPlane(plane),
			formation.WithSign(a.Sign),
			formation.WithStart(a.Start),
			formation.WithDuration(a.Duration),
			formation.WithWaveSpread(a.WaveSpread),
			formation.WithHue(a.Hue),
		}
		if a.StartJitter > 0 {
			opts = append(opts, formation.WithArcStartJitter(a.StartJitter))
		}
		arc, err := formation.NewArc(a.Name, s.grid, opts...)
		if err != nil {
			return nil, fmt.Errorf("show: arc %q: %w", a.Name, err)
		}
		stages = append(stages, arc)
	}

	finale, err := formation.NewFinale(cfg.Finale)
	if err != nil {
		return nil, fmt.Errorf("show: finale: %w", err)
	}
	return append(stages, finale), nil
}

func (s *show) Config() *Config { return s.cfg }

func (s *show) Grid() grid.Grid { return s.grid }

func (s *show) Scheduler() phase.Scheduler { return s.scheduler }

func (s *show) Resolver() resolver.Resolver { return s.resolver }

func (s *show) Canvas() *formation.Canvas { return s.canvas }

func (s *show) Messages() text.Messages { return append(text.Messages(nil), s.messages...) }

func (s *show) Bitmaps() *text.Store { return s.bitmaps }

func (s *show) Sampler() text.Sampler { return s.sampler }

func (s *show) Compositor() compositor.Compositor { return s.compositor }

func (s *show) Frames() framestore.FrameStore { return s.frames }
