package profiler

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestObserveReportsPerInterval(t *testing.T) {
	start := time.Unix(0, 0)
	now := start
	var logged []string

	p := NewProfiler(time.Second)
	p.now = func() time.Time { return now }
	p.lastTime = start
	p.logf = func(format string, args ...any) { logged = append(logged, fmt.Sprintf(format, args...)) }

	computes := []time.Duration{2 * time.Millisecond, 6 * time.Millisecond, 4 * time.Millisecond}
	for i, d := range computes[:2] {
		now = start.Add(time.Duration(i+1) * 300 * time.Millisecond)
		if _, ok := p.Observe(d, float64(i)); ok {
			t.Fatalf("reported early on frame %d", i)
		}
	}

	now = start.Add(time.Second)
	stats, ok := p.Observe(computes[2], 12.5)
	if !ok {
		t.Fatal("no report after the interval elapsed")
	}
	if stats.Frames != 3 {
		t.Errorf("Frames = %d, want 3", stats.Frames)
	}
	if stats.FPS != 3 {
		t.Errorf("FPS = %v, want 3", stats.FPS)
	}
	if stats.AvgCompute != 4*time.Millisecond {
		t.Errorf("AvgCompute = %v, want 4ms", stats.AvgCompute)
	}
	if stats.MaxCompute != 6*time.Millisecond {
		t.Errorf("MaxCompute = %v, want 6ms", stats.MaxCompute)
	}
	if stats.ShowTime != 12.5 {
		t.Errorf("ShowTime = %v, want 12.5", stats.ShowTime)
	}
	if len(logged) != 1 || !strings.HasPrefix(logged[0], "[Profiler]") {
		t.Errorf("logged = %q", logged)
	}

	now = now.Add(100 * time.Millisecond)
	if _, ok := p.Observe(time.Millisecond, 13); ok {
		t.Error("counters were not reset after reporting")
	}
}

func TestNewProfilerDefaultInterval(t *testing.T) {
	if p := NewProfiler(0); p.updateInterval != time.Second {
		t.Errorf("interval = %v, want 1s", p.updateInterval)
	}
}
