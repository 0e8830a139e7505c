package compositor

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/engine/formation"
	"github.com/Carmen-Shannon/oxy-swarm/engine/grid"
	"github.com/Carmen-Shannon/oxy-swarm/engine/phase"
	"github.com/Carmen-Shannon/oxy-swarm/engine/resolver"
	"github.com/Carmen-Shannon/oxy-swarm/engine/text"
	"github.com/lucasb-eyer/go-colorful"
)

type fixture struct {
	grid     grid.Grid
	canvas   *formation.Canvas
	arc      *formation.Arc
	resolver resolver.Resolver
	store    *text.Store
	hi       text.Message
	comp     Compositor
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	g, err := grid.New(4096, 32)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	ground := formation.NewGround(g, 1)
	ascent, _ := formation.NewAscent(formation.DefaultAscentConfig())
	split, _ := formation.NewBifurcation(g, ground, formation.DefaultBifurcationConfig())
	canvas, err := formation.NewCanvas(g, formation.DefaultCanvasConfig())
	if err != nil {
		t.Fatalf("NewCanvas: %v", err)
	}
	arc, _ := formation.NewArc("arc-1", g, formation.WithRows(32, 12), formation.WithRadius(58),
		formation.WithCenter(common.Vec3{0, 45, -6}), formation.WithStart(26), formation.WithHue(0.33))
	finale, _ := formation.NewFinale(formation.DefaultFinaleConfig())

	res, err := resolver.NewResolver(g, ground, resolver.WithStages(ascent, split, canvas, arc, finale))
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	sched, _ := phase.NewScheduler()

	hi := text.Message{Text: "HI", Color: colorful.Color{R: 0.02, G: 0.84, B: 0.63}, Start: 57, End: 64}
	store := &text.Store{}
	sampler, err := text.NewSampler(canvas, store, text.Messages{hi})
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}
	comp, err := NewCompositor(sched, res, WithSampler(sampler), WithSeed(7))
	if err != nil {
		t.Fatalf("NewCompositor: %v", err)
	}
	return fixture{grid: g, canvas: canvas, arc: arc, resolver: res, store: store, hi: hi, comp: comp}
}

func (f fixture) color(index int, t float64) colorful.Color {
	return f.comp.ColorAt(index, t, f.resolver.Resolve(index, t))
}

func brightness(c colorful.Color) float64 {
	return math.Max(c.R, math.Max(c.G, c.B))
}

func solidBitmap(key string, v float32) *text.Bitmap {
	pix := make([]float32, 14*13)
	for i := range pix {
		pix[i] = v
	}
	return &text.Bitmap{Key: key, Width: 14, Height: 13, Pix: pix}
}

func TestEmitInvisibleWhenUnrevealed(t *testing.T) {
	f := newFixture(t)
	f.store.Set(solidBitmap("HI", 1))

	for _, ts := range []float64{0, 1, 2.5, 30, 45, 60, 90} {
		for i := 0; i < f.grid.Count(); i += 37 {
			rec := f.resolver.Resolve(i, ts)
			raw := f.comp.ColorAt(i, ts, rec)
			if rec.RevealFactor == 0 && f.comp.Emit(raw, rec) != (colorful.Color{}) {
				t.Fatalf("particle %d at t=%v emits %v with reveal 0", i, ts, f.comp.Emit(raw, rec))
			}
			hidden := rec
			hidden.RevealFactor = 0
			if got := f.comp.Emit(raw, hidden); got != (colorful.Color{}) {
				t.Fatalf("forced reveal 0 emits %v", got)
			}
		}
	}
	if got := f.comp.Emit(colorful.Color{R: 5, G: 5, B: 5}, common.FrameRecord{RevealFactor: 1}); got.R > 1 {
		t.Errorf("Emit did not clamp: %v", got)
	}
}

func TestUnknownIndexIsBlack(t *testing.T) {
	f := newFixture(t)
	if got := f.comp.ColorAt(f.grid.Count()+5, 60, common.SentinelRecord); got != (colorful.Color{}) {
		t.Errorf("ColorAt(out of range) = %v", got)
	}
}

func TestTextDisplayInteriorAndBackground(t *testing.T) {
	f := newFixture(t)
	interior := f.grid.Index(15, 15)
	p, _ := f.grid.Particle(interior)
	if f.canvas.IsBorder(p) {
		t.Fatal("test particle should be inside the canvas")
	}

	f.store.Set(solidBitmap("HI", 1))
	got := f.color(interior, 60)
	if math.Abs(got.R-f.hi.Color.R) > 1e-9 || math.Abs(got.G-f.hi.Color.G) > 1e-9 || math.Abs(got.B-f.hi.Color.B) > 1e-9 {
		t.Errorf("lit interior = %v, want message color %v", got, f.hi.Color)
	}

	// Before the second character's reveal has finished the cell is dimmer.
	right := f.grid.Index(15, 16)
	early := f.color(right, 57.5)
	if brightness(early) >= brightness(f.hi.Color) {
		t.Errorf("second cell at t=57.5 = %v, want dimmer than full", early)
	}

	f.store.Set(solidBitmap("HI", 0))
	if b := brightness(f.color(interior, 60)); b > 0.02 {
		t.Errorf("background brightness = %v, want near zero", b)
	}

	// A bitmap for another message is ignored.
	f.store.Set(solidBitmap("HELLO", 1))
	if b := brightness(f.color(interior, 60)); b > 0.02 {
		t.Errorf("stale bitmap brightness = %v", b)
	}
}

func TestTextDisplayBorderGlow(t *testing.T) {
	f := newFixture(t)
	f.store.Set(solidBitmap("HI", 0))

	corner := f.grid.Index(0, 0)
	p, _ := f.grid.Particle(corner)
	if !f.canvas.IsBorder(p) {
		t.Fatal("corner particle should be on the border")
	}
	if b := brightness(f.color(corner, 60)); b < 0.2 {
		t.Errorf("border glow brightness = %v", b)
	}
}

func TestAssemblyGradientFollowsProgress(t *testing.T) {
	f := newFixture(t)
	pal := DefaultPalette()
	idx := f.grid.Index(3, 3)
	p, _ := f.grid.Particle(idx)
	plan := f.canvas.Plan(p)

	if got := f.color(idx, plan.Start); got.DistanceRgb(pal.Gradient[0]) > 1e-6 {
		t.Errorf("color at assembly start = %v, want %v", got, pal.Gradient[0])
	}
	if plan.End() < 44 {
		if got := f.color(idx, plan.End()+0.01); got.DistanceRgb(pal.Gradient[3]) > 1e-6 {
			t.Errorf("color on arrival = %v, want %v", got, pal.Gradient[3])
		}
	}
}

func TestInFlightColumnColors(t *testing.T) {
	f := newFixture(t)
	// Column 0 is a highlight column: white, possibly dimmed by the twinkle.
	c := f.color(0, 12)
	if math.Abs(c.R-c.G) > 1e-9 || math.Abs(c.G-c.B) > 1e-9 {
		t.Errorf("highlight column color = %v, want grey", c)
	}
	// Two ordinary columns get different hues.
	a, b := f.color(5, 12), f.color(20, 12)
	ha, _, _ := a.Hsv()
	hb, _, _ := b.Hsv()
	if math.Abs(ha-hb) < 30 {
		t.Errorf("hues %v and %v too close", ha, hb)
	}
}

func TestBorderDissolvesFirst(t *testing.T) {
	f := newFixture(t)
	border := f.grid.Index(0, 0)
	inner := f.grid.Index(15, 15)

	ts := 45.2
	if bb, bi := brightness(f.color(border, ts)), brightness(f.color(inner, ts)); bb >= bi {
		t.Errorf("at t=%v border %v should be darker than interior %v", ts, bb, bi)
	}
	if b := brightness(f.color(inner, 47.99)); b > 0.05 {
		t.Errorf("interior still lit at the end of the dissolve: %v", b)
	}

	arcIdx := f.grid.Index(36, 4)
	if b := brightness(f.color(arcIdx, 46)); b < 0.5 {
		t.Errorf("arc particle dissolved: %v", b)
	}
}

func TestFinaleWarmsWithProximity(t *testing.T) {
	f := newFixture(t)
	pal := DefaultPalette()
	idx := 1234

	early := f.color(idx, 77.6)
	late := f.color(idx, 150)
	if early.DistanceRgb(pal.FinaleWarm) <= late.DistanceRgb(pal.FinaleWarm) {
		t.Errorf("finale color did not warm: early %v late %v", early, late)
	}
}

func TestNewCompositorRejectsBadPalette(t *testing.T) {
	f := newFixture(t)
	sched, _ := phase.NewScheduler()
	pal := DefaultPalette()
	pal.BreathPeriod = 0
	if _, err := NewCompositor(sched, f.resolver, WithPalette(pal)); !errors.Is(err, ErrInvalidPalette) {
		t.Errorf("error = %v, want ErrInvalidPalette", err)
	}
}

func TestBand(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1, 1}, {0.9, 1}, {0.75, 0.8}, {0.5, 0.55}, {0.25, 0.3}, {0.01, 0.08}, {0, 0},
	}
	for _, tt := range tests {
		if got := band(tt.in); got != tt.want {
			t.Errorf("band(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
