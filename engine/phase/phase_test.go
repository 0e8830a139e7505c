package phase

import (
	"errors"
	"math"
	"testing"
)

func mustDefault(t *testing.T) Scheduler {
	t.Helper()
	s, err := NewScheduler()
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	return s
}

func TestPhaseOfDefaults(t *testing.T) {
	s := mustDefault(t)
	tests := []struct {
		t    float64
		want PhaseID
	}{
		{-5, Hidden},
		{0, Hidden},
		{1.99, Hidden},
		{2, ColumnReveal},
		{6, Ascent},
		{15.999, Ascent},
		{16, Bifurcation},
		{30, FormationAssembly},
		{44, BorderDissolve},
		{50, TextDisplay},
		{76, Finale},
		{1e9, Finale},
		{math.NaN(), Hidden},
	}
	for _, tt := range tests {
		if got := s.PhaseOf(tt.t); got != tt.want {
			t.Errorf("PhaseOf(%v) = %s, want %s", tt.t, got, tt.want)
		}
	}
}

func TestPhaseOfTotalAndMonotonic(t *testing.T) {
	s := mustDefault(t)
	prev := Hidden
	for step := 0; step <= 100000; step++ {
		tm := float64(step) * 0.001
		got := s.PhaseOf(tm)
		if got >= phaseCount {
			t.Fatalf("PhaseOf(%v) = %d, not a phase", tm, got)
		}
		if got < prev {
			t.Fatalf("PhaseOf went backwards at t=%v: %s after %s", tm, got, prev)
		}
		if w := s.Window(got); !w.Contains(tm) {
			t.Fatalf("t=%v not inside the window of %s: %+v", tm, got, w)
		}
		prev = got
	}
}

func TestProgress(t *testing.T) {
	s := mustDefault(t)
	id, p := s.Progress(11)
	if id != Ascent || math.Abs(p-0.5) > 1e-12 {
		t.Errorf("Progress(11) = (%s, %v), want (ascent, 0.5)", id, p)
	}
	if id, p := s.Progress(500); id != Finale || p != 0 {
		t.Errorf("Progress(500) = (%s, %v), want (finale, 0)", id, p)
	}
}

func TestWithPhaseStart(t *testing.T) {
	s, err := NewScheduler(WithPhaseStart(Ascent, 7), WithPhaseStart(Finale, 90))
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	if w := s.Window(ColumnReveal); w.End != 7 {
		t.Errorf("ColumnReveal.End = %v, want 7", w.End)
	}
	if w := s.Window(TextDisplay); w.End != 90 {
		t.Errorf("TextDisplay.End = %v, want 90", w.End)
	}
}

func TestMalformedTables(t *testing.T) {
	inf := math.Inf(1)
	full := func() []Window {
		ws := make([]Window, 0, phaseCount)
		for i, id := range All() {
			ws = append(ws, Window{Start: float64(i), End: float64(i + 1), Phase: id})
		}
		ws[len(ws)-1].End = inf
		return ws
	}

	tests := []struct {
		name    string
		options []SchedulerBuilderOption
		want    error
	}{
		{"out of order start", []SchedulerBuilderOption{WithPhaseStart(Ascent, 30)}, ErrPhaseOrder},
		{"duplicate start", []SchedulerBuilderOption{WithPhaseStart(Ascent, 2)}, ErrPhaseOverlap},
		{"late first phase", []SchedulerBuilderOption{WithPhaseStart(Hidden, 1)}, ErrPhaseStart},
		{"empty table", []SchedulerBuilderOption{WithWindows()}, ErrEmptyPhaseTable},
		{"unknown phase", []SchedulerBuilderOption{WithPhaseStart(PhaseID(42), 3)}, ErrUnknownPhase},
		{"overlap", []SchedulerBuilderOption{WithWindows(func() []Window {
			ws := full()
			ws[2].End = 3.5
			return ws
		}()...)}, ErrPhaseOverlap},
		{"gap", []SchedulerBuilderOption{WithWindows(func() []Window {
			ws := full()
			ws[2].End = 2.5
			return ws
		}()...)}, ErrPhaseGap},
		{"missing", []SchedulerBuilderOption{WithWindows(func() []Window {
			ws := full()[:phaseCount-1]
			ws[len(ws)-1].End = inf
			return ws
		}()...)}, ErrMissingPhase},
		{"closed finale", []SchedulerBuilderOption{WithWindows(func() []Window {
			ws := full()
			ws[len(ws)-1].End = 100
			return ws
		}()...)}, ErrPhaseGap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScheduler(tt.options...)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewScheduler error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, id := range All() {
		got, err := Parse(id.String())
		if err != nil || got != id {
			t.Errorf("Parse(%q) = (%s, %v), want %s", id.String(), got, err, id)
		}
	}
	if _, err := Parse("intermission"); !errors.Is(err, ErrUnknownPhase) {
		t.Errorf("Parse(intermission) error = %v, want ErrUnknownPhase", err)
	}
}
