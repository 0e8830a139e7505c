package resolver

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/engine/formation"
	"github.com/Carmen-Shannon/oxy-swarm/engine/grid"
	"github.com/Carmen-Shannon/oxy-swarm/engine/phase"
)

type fixture struct {
	grid        grid.Grid
	ground      formation.Ground
	ascent      *formation.Ascent
	bifurcation *formation.Bifurcation
	canvas      *formation.Canvas
	arc         *formation.Arc
	finale      *formation.Finale
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	g, err := grid.New(4096, 32)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	f := fixture{grid: g, ground: formation.NewGround(g, 1)}
	if f.ascent, err = formation.NewAscent(formation.DefaultAscentConfig()); err != nil {
		t.Fatalf("NewAscent: %v", err)
	}
	if f.bifurcation, err = formation.NewBifurcation(g, f.ground, formation.DefaultBifurcationConfig()); err != nil {
		t.Fatalf("NewBifurcation: %v", err)
	}
	if f.canvas, err = formation.NewCanvas(g, formation.DefaultCanvasConfig()); err != nil {
		t.Fatalf("NewCanvas: %v", err)
	}
	f.arc, err = formation.NewArc("arc-1", g,
		formation.WithRows(32, 12),
		formation.WithRadius(58),
		formation.WithCenter(common.Vec3{0, 45, -6}),
		formation.WithStart(26),
	)
	if err != nil {
		t.Fatalf("NewArc: %v", err)
	}
	if f.finale, err = formation.NewFinale(formation.DefaultFinaleConfig()); err != nil {
		t.Fatalf("NewFinale: %v", err)
	}
	return f
}

func (f fixture) stages() []formation.Formation {
	return []formation.Formation{f.ascent, f.bifurcation, f.canvas, f.arc, f.finale}
}

func (f fixture) resolver(t *testing.T, stages ...formation.Formation) Resolver {
	t.Helper()
	r, err := NewResolver(f.grid, f.ground, WithStages(stages...))
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return r
}

func TestResolveAtShowStart(t *testing.T) {
	f := newFixture(t)
	r := f.resolver(t, f.stages()...)

	for i := 0; i < f.grid.Count(); i++ {
		p, _ := f.grid.Particle(i)
		rec := r.Resolve(i, 0)
		if rec.Position != f.ground.Position(p) {
			t.Fatalf("particle %d at %v, want ground %v", i, rec.Position, f.ground.Position(p))
		}
		if rec.RevealFactor != 0 {
			t.Fatalf("particle %d reveal = %v, want 0", i, rec.RevealFactor)
		}
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	f := newFixture(t)
	r := f.resolver(t, f.stages()...)
	times := []float64{0, 3.3, 9.1, 18, 24.5, 30.2, 47, 60, 80, 130}

	want := make(map[[2]float64]common.FrameRecord)
	for _, ts := range times {
		for i := 0; i < f.grid.Count(); i += 97 {
			want[[2]float64{float64(i), ts}] = r.Resolve(i, ts)
		}
	}
	// Walk time backwards; answers must not depend on call order.
	for j := len(times) - 1; j >= 0; j-- {
		ts := times[j]
		for i := 0; i < f.grid.Count(); i += 97 {
			if got := r.Resolve(i, ts); got != want[[2]float64{float64(i), ts}] {
				t.Fatalf("Resolve(%d, %v) = %v, previously %v", i, ts, got, want[[2]float64{float64(i), ts}])
			}
		}
	}
}

func TestResolveOutOfRange(t *testing.T) {
	f := newFixture(t)
	r := f.resolver(t, f.stages()...)

	for _, idx := range []int{-1, f.grid.Count(), f.grid.Count() + 1000} {
		for _, ts := range []float64{0, 30, 100} {
			if got := r.Resolve(idx, ts); got != common.SentinelRecord {
				t.Errorf("Resolve(%d, %v) = %v, want sentinel", idx, ts, got)
			}
			if tr := r.Trace(idx, ts); tr.Record != common.SentinelRecord || tr.Stage != -1 {
				t.Errorf("Trace(%d, %v) = %+v, want sentinel", idx, ts, tr)
			}
		}
	}
}

func TestRevealMonotonicAndComplete(t *testing.T) {
	f := newFixture(t)
	r := f.resolver(t, f.stages()...)
	sched, _ := phase.NewScheduler()
	w := sched.Window(phase.ColumnReveal)

	for i := 0; i < f.grid.Count(); i += 31 {
		prev := 0.0
		for ts := w.Start; ts < w.End; ts += 0.01 {
			v := r.Resolve(i, ts).RevealFactor
			if v < prev {
				t.Fatalf("particle %d: reveal dropped at t=%v: %v < %v", i, ts, v, prev)
			}
			prev = v
		}
		if v := r.Resolve(i, w.End).RevealFactor; v != 1.0 {
			t.Fatalf("particle %d: reveal at window end = %v, want exactly 1", i, v)
		}
		if v := r.Resolve(i, 90).RevealFactor; v != 1.0 {
			t.Fatalf("particle %d: reveal after the window = %v", i, v)
		}
	}
}

func TestNewColumnRevealRejectsOverrun(t *testing.T) {
	w := phase.Window{Start: 2, End: 6, Phase: phase.ColumnReveal}
	tests := []struct {
		name string
		cfg  RevealConfig
		w    phase.Window
	}{
		{"overrun", RevealConfig{Spread: 0.7, Jitter: 0.2, Ramp: 0.4}, w},
		{"zero ramp", RevealConfig{Spread: 0.5, Ramp: 0}, w},
		{"empty window", DefaultRevealConfig(), phase.Window{Start: 2, End: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewColumnReveal(tt.w, 32, tt.cfg); !errors.Is(err, ErrInvalidReveal) {
				t.Errorf("error = %v, want ErrInvalidReveal", err)
			}
		})
	}
}

func TestAscentMidpointThroughPipeline(t *testing.T) {
	f := newFixture(t)
	r := f.resolver(t, f.stages()...)

	for col := 0; col < f.grid.Columns(); col++ {
		p, _ := f.grid.Particle(col)
		plan := f.ascent.Plan(p)
		y := r.Resolve(p.Index, plan.Start+plan.Duration/2).Position[1]
		if !(y > 0 && y < f.ascent.Cruise(p)) {
			t.Errorf("col %d: height %v not inside (0, %v)", col, y, f.ascent.Cruise(p))
		}
	}
}

func TestStageStartsFromPreviousOutput(t *testing.T) {
	f := newFixture(t)
	full := f.resolver(t, f.stages()...)
	upToSplit := f.resolver(t, f.ascent, f.bifurcation)

	for _, idx := range []int{0, 100, 517, 1023} {
		p, _ := f.grid.Particle(idx)
		start := f.canvas.Plan(p).Start
		got := full.Resolve(idx, start).Position
		want := upToSplit.Resolve(idx, start).Position
		if got.Distance(want) > 1e-9 {
			t.Errorf("particle %d: canvas starts at %v, split ended at %v", idx, got, want)
		}

		tr := full.Trace(idx, start+0.5)
		if tr.Formation != formation.Formation(f.canvas) {
			t.Fatalf("particle %d: active stage %v, want canvas", idx, tr.Formation)
		}
		if tr.From.Distance(want) > 1e-9 {
			t.Errorf("particle %d: trace from %v, want %v", idx, tr.From, want)
		}
	}
}

func TestNonParticipantsPassThrough(t *testing.T) {
	f := newFixture(t)
	full := f.resolver(t, f.stages()...)
	upToSplit := f.resolver(t, f.ascent, f.bifurcation)

	// Row 60 belongs to neither the canvas nor arc-1.
	idx := f.grid.Index(60, 5)
	for _, ts := range []float64{20, 25, 35, 60} {
		if got, want := full.Resolve(idx, ts), upToSplit.Resolve(idx, ts); got != want {
			t.Errorf("t=%v: %v, want pass through %v", ts, got, want)
		}
	}
	tr := full.Trace(idx, 40)
	if tr.Formation == nil || tr.Formation.Kind() != formation.KindBifurcation {
		t.Errorf("active stage = %v, want bifurcation", tr.Formation)
	}
	if tr.Progress < 0.999 {
		t.Errorf("settled particle progress = %v", tr.Progress)
	}
}

func TestTraceProgress(t *testing.T) {
	f := newFixture(t)
	r := f.resolver(t, f.stages()...)

	idx := f.grid.Index(4, 9)
	p, _ := f.grid.Particle(idx)
	plan := f.canvas.Plan(p)

	if tr := r.Trace(idx, 1); tr.Stage != -1 || tr.Progress != 1 {
		t.Errorf("grounded trace = %+v", tr)
	}
	if tr := r.Trace(idx, plan.Start); tr.Progress > 1e-9 {
		t.Errorf("progress at stage start = %v", tr.Progress)
	}
	prev := 0.0
	for ts := plan.Start; ts <= plan.End(); ts += 0.1 {
		tr := r.Trace(idx, ts)
		if tr.Progress < prev-1e-9 {
			t.Fatalf("progress dropped at t=%v: %v < %v", ts, tr.Progress, prev)
		}
		prev = tr.Progress
	}
	if tr := r.Trace(idx, plan.End()+0.01); tr.Progress < 1-1e-9 {
		t.Errorf("progress after arrival = %v", tr.Progress)
	}
}

func TestFinaleConvergesThroughPipeline(t *testing.T) {
	f := newFixture(t)
	r := f.resolver(t, f.stages()...)
	point := f.finale.Point()

	for i := 0; i < f.grid.Count(); i += 211 {
		p, _ := f.grid.Particle(i)
		prev := math.Inf(1)
		for ts := 78.0; ts < 160; ts += 0.25 {
			d := r.Resolve(i, ts).Position.Distance(point)
			if d > prev+1e-9 {
				t.Fatalf("particle %d: distance grew at t=%v", i, ts)
			}
			prev = d
		}
		if prev > f.finale.ScatterRadius(p)+1e-3 {
			t.Errorf("particle %d: distance %v still above scatter %v", i, prev, f.finale.ScatterRadius(p))
		}
	}
}

func TestNewResolverRejectsBadStages(t *testing.T) {
	f := newFixture(t)
	overlap, _ := formation.NewArc("overlap", f.grid, formation.WithRows(20, 20))

	tests := []struct {
		name   string
		stages []formation.Formation
		want   error
	}{
		{"duplicate", []formation.Formation{f.ascent, f.ascent}, ErrDuplicateStage},
		{"nil", []formation.Formation{f.ascent, nil}, ErrNilStage},
		{"row overlap", []formation.Formation{f.canvas, overlap}, formation.ErrRowOverlap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewResolver(f.grid, f.ground, WithStages(tt.stages...)); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}
