// Package show loads a show description from YAML and assembles the choreography components from it.
package show

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/engine/compositor"
	"github.com/Carmen-Shannon/oxy-swarm/engine/formation"
	"github.com/Carmen-Shannon/oxy-swarm/engine/phase"
	"github.com/Carmen-Shannon/oxy-swarm/engine/resolver"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed default_show.yaml
var defaultShow []byte

// ErrInvalidConfig is returned for show files that parse but describe an impossible show.
var ErrInvalidConfig = errors.New("show: invalid configuration")

// Config is a complete show description.
type Config struct {
	Particles   ParticlesConfig             `yaml:"particles"`
	Seed        int64                       `yaml:"seed"`
	Phases      map[string]float64          `yaml:"phases"`
	Reveal      resolver.RevealConfig       `yaml:"reveal"`
	Ascent      formation.AscentConfig      `yaml:"ascent"`
	Bifurcation formation.BifurcationConfig `yaml:"bifurcation"`
	Canvas      formation.CanvasConfig      `yaml:"canvas"`
	Arcs        []ArcConfig                 `yaml:"arcs"`
	Finale      formation.FinaleConfig      `yaml:"finale"`
	Text        TextConfig                  `yaml:"text"`
	Palette     PaletteConfig               `yaml:"palette"`
	Playback    PlaybackConfig              `yaml:"playback"`
	Window      WindowConfig                `yaml:"window"`
}

// ParticlesConfig sizes the swarm.
type ParticlesConfig struct {
	Count   int     `yaml:"count"`
	Columns int     `yaml:"columns"`
	Spacing float64 `yaml:"spacing"`
}

// ArcConfig describes one arc formation.
type ArcConfig struct {
	Name        string      `yaml:"name"`
	RowStart    int         `yaml:"row_start"`
	Rows        int         `yaml:"rows"`
	Radius      float64     `yaml:"radius"`
	Center      common.Vec3 `yaml:"center"`
	Plane       string      `yaml:"plane"`
	Sign        float64     `yaml:"sign"`
	Start       float64     `yaml:"start"`
	Duration    float64     `yaml:"duration"`
	WaveSpread  float64     `yaml:"wave_spread"`
	StartJitter float64     `yaml:"start_jitter"`
	Hue         float64     `yaml:"hue"`
}

// TextConfig holds the message schedule and the sampler envelopes.
type TextConfig struct {
	PerCharDelay float64         `yaml:"per_char_delay"`
	CharReveal   float64         `yaml:"char_reveal"`
	FadeOut      float64         `yaml:"fade_out"`
	Messages     []MessageConfig `yaml:"messages"`
}

// MessageConfig is one scheduled message.
type MessageConfig struct {
	Text  string  `yaml:"text"`
	Color Color   `yaml:"color"`
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// PaletteConfig is the YAML form of compositor.Palette.
type PaletteConfig struct {
	Warm             Color   `yaml:"warm"`
	Highlight        Color   `yaml:"highlight"`
	HighlightColumns []int   `yaml:"highlight_columns"`
	Gradient         []Color `yaml:"gradient"`
	FinaleCool       Color   `yaml:"finale_cool"`
	FinaleWarm       Color   `yaml:"finale_warm"`
	DissolveSpread   float64 `yaml:"dissolve_spread"`
	DissolveFade     float64 `yaml:"dissolve_fade"`
	DissolveFloor    float64 `yaml:"dissolve_floor"`
	BorderGlow       float64 `yaml:"border_glow"`
	Background       float64 `yaml:"background"`
	BreathPeriod     float64 `yaml:"breath_period"`
	Twinkle          float64 `yaml:"twinkle"`
}

// PlaybackConfig drives the host loop.
type PlaybackConfig struct {
	Speed     float64 `yaml:"speed"`
	TickRate  int     `yaml:"tick_rate"`
	Workers   int     `yaml:"workers"`
	ChunkSize int     `yaml:"chunk_size"`
}

// WindowConfig sizes the viewer window.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// baseConfig is the show with every package default and no arcs or messages.
func baseConfig() *Config {
	phases := make(map[string]float64, len(phase.DefaultStarts))
	for id, start := range phase.DefaultStarts {
		phases[id.String()] = start
	}
	pal := compositor.DefaultPalette()
	gradient := make([]Color, len(pal.Gradient))
	for i, c := range pal.Gradient {
		gradient[i] = Color{c}
	}

	return &Config{
		Particles:   ParticlesConfig{Count: 4096, Columns: 32, Spacing: 1},
		Seed:        1,
		Phases:      phases,
		Reveal:      resolver.DefaultRevealConfig(),
		Ascent:      formation.DefaultAscentConfig(),
		Bifurcation: formation.DefaultBifurcationConfig(),
		Canvas:      formation.DefaultCanvasConfig(),
		Finale:      formation.DefaultFinaleConfig(),
		Text:        TextConfig{PerCharDelay: 0.35, CharReveal: 0.8, FadeOut: 1.2},
		Palette: PaletteConfig{
			Warm:             Color{pal.Warm},
			Highlight:        Color{pal.Highlight},
			HighlightColumns: pal.HighlightColumns,
			Gradient:         gradient,
			FinaleCool:       Color{pal.FinaleCool},
			FinaleWarm:       Color{pal.FinaleWarm},
			DissolveSpread:   pal.DissolveSpread,
			DissolveFade:     pal.DissolveFade,
			DissolveFloor:    pal.DissolveFloor,
			BorderGlow:       pal.BorderGlow,
			Background:       pal.Background,
			BreathPeriod:     pal.BreathPeriod,
			Twinkle:          pal.Twinkle,
		},
		Playback: PlaybackConfig{Speed: 1, TickRate: 60, ChunkSize: 256},
		Window:   WindowConfig{Width: 1280, Height: 720, Title: "oxy-swarm"},
	}
}

// Parse decodes a show file. Keys missing from data keep their defaults.
//
// Parameters:
//   - data: YAML show description
//
// Returns:
//   - *Config: the validated configuration
//   - error: a decoding error or ErrInvalidConfig
func Parse(data []byte) (*Config, error) {
	cfg := baseConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("show: parsing: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses a show file.
//
// Parameters:
//   - path: file path
//
// Returns:
//   - *Config: the validated configuration
//   - error: a read, decoding or validation error
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("show: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the built-in show.
func Default() *Config {
	cfg, err := Parse(defaultShow)
	if err != nil {
		panic(fmt.Sprintf("show: embedded default show is invalid: %v", err))
	}
	return cfg
}

// DefaultYAML returns the built-in show file, useful as a template.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultShow...)
}

func (c *Config) applyDefaults() {
	for i := range c.Arcs {
		a := &c.Arcs[i]
		a.Sign = common.Coalesce(a.Sign, 1)
		a.Duration = common.Coalesce(a.Duration, 3.2)
		a.WaveSpread = common.Coalesce(a.WaveSpread, 2.5)
		a.Name = common.Coalesce(a.Name, fmt.Sprintf("arc-%d", i+1))
	}
	c.Playback.Speed = common.Coalesce(c.Playback.Speed, 1)
	c.Playback.TickRate = common.Coalesce(c.Playback.TickRate, 60)
	c.Playback.ChunkSize = common.Coalesce(c.Playback.ChunkSize, 256)
}

// Scheduler builds the phase scheduler described by the config.
func (c *Config) Scheduler() (phase.Scheduler, error) {
	opts := make([]phase.SchedulerBuilderOption, 0, len(c.Phases))
	for name, start := range c.Phases {
		id, err := phase.Parse(name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, phase.WithPhaseStart(id, start))
	}
	return phase.NewScheduler(opts...)
}

// CompositorPalette converts the palette section.
func (c *Config) CompositorPalette() (compositor.Palette, error) {
	p := c.Palette
	if len(p.Gradient) != 4 {
		return compositor.Palette{}, fmt.Errorf("%w: palette gradient needs 4 colors, got %d", ErrInvalidConfig, len(p.Gradient))
	}
	var gradient [4]colorful.Color
	for i, g := range p.Gradient {
		gradient[i] = g.Color
	}
	pal := compositor.Palette{
		Warm:             p.Warm.Color,
		Highlight:        p.Highlight.Color,
		HighlightColumns: append([]int(nil), p.HighlightColumns...),
		Gradient:         gradient,
		FinaleCool:       p.FinaleCool.Color,
		FinaleWarm:       p.FinaleWarm.Color,
		DissolveSpread:   p.DissolveSpread,
		DissolveFade:     p.DissolveFade,
		DissolveFloor:    p.DissolveFloor,
		BorderGlow:       p.BorderGlow,
		Background:       p.Background,
		BreathPeriod:     p.BreathPeriod,
		Twinkle:          p.Twinkle,
	}
	return pal, pal.Validate()
}

// Validate checks the parts of the show that span packages: formations must start inside their own phase
// window, arc names must be unique, and the palette must convert. Per-component checks happen when the
// components are built.
func (c *Config) Validate() error {
	if c.Particles.Count <= 0 || c.Particles.Columns <= 0 || !(c.Particles.Spacing > 0) {
		return fmt.Errorf("%w: particles count=%d columns=%d spacing=%g",
			ErrInvalidConfig, c.Particles.Count, c.Particles.Columns, c.Particles.Spacing)
	}
	if !(c.Playback.Speed >= 0) || c.Playback.TickRate <= 0 {
		return fmt.Errorf("%w: playback speed=%g tick_rate=%d", ErrInvalidConfig, c.Playback.Speed, c.Playback.TickRate)
	}

	sched, err := c.Scheduler()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	type stageStart struct {
		name  string
		start float64
		id    phase.PhaseID
	}
	starts := []stageStart{
		{"ascent", c.Ascent.Start, phase.Ascent},
		{"bifurcation", c.Bifurcation.Start, phase.Bifurcation},
		{"canvas", c.Canvas.Start, phase.FormationAssembly},
		{"finale", c.Finale.Start, phase.Finale},
	}
	for _, a := range c.Arcs {
		starts = append(starts, stageStart{a.Name, a.Start, phase.FormationAssembly})
	}
	for _, s := range starts {
		w := sched.Window(s.id)
		if s.start < w.Start || s.start >= w.End {
			return fmt.Errorf("%w: %s starts at %g, outside the %s window [%g, %g)",
				ErrInvalidConfig, s.name, s.start, s.id, w.Start, w.End)
		}
	}

	names := make(map[string]struct{}, len(c.Arcs))
	for _, a := range c.Arcs {
		if _, dup := names[a.Name]; dup {
			return fmt.Errorf("%w: arc name %q repeats", ErrInvalidConfig, a.Name)
		}
		names[a.Name] = struct{}{}
		if _, err := formation.ParsePlane(a.Plane); err != nil {
			return fmt.Errorf("%w: arc %q: %w", ErrInvalidConfig, a.Name, err)
		}
		if math.IsNaN(a.Hue) {
			return fmt.Errorf("%w: arc %q hue is NaN", ErrInvalidConfig, a.Name)
		}
	}

	if _, err := c.CompositorPalette(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
