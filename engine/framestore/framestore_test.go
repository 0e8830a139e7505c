package framestore

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/engine/compositor"
	"github.com/Carmen-Shannon/oxy-swarm/engine/formation"
	"github.com/Carmen-Shannon/oxy-swarm/engine/grid"
	"github.com/Carmen-Shannon/oxy-swarm/engine/phase"
	"github.com/Carmen-Shannon/oxy-swarm/engine/resolver"
)

func newResolver(t *testing.T, count int) resolver.Resolver {
	t.Helper()
	g, err := grid.New(count, 32)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	ground := formation.NewGround(g, 1)
	ascent, _ := formation.NewAscent(formation.DefaultAscentConfig())
	split, _ := formation.NewBifurcation(g, ground, formation.DefaultBifurcationConfig())
	finale, _ := formation.NewFinale(formation.DefaultFinaleConfig())
	res, err := resolver.NewResolver(g, ground, resolver.WithStages(ascent, split, finale))
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return res
}

func TestComputeFrameMatchesResolve(t *testing.T) {
	res := newResolver(t, 4096)
	fs := NewFrameStore(res, nil, WithWorkers(4), WithChunkSize(100))

	indices := make([]int, 0, 4096+3)
	for i := 4095; i >= 0; i-- {
		indices = append(indices, i)
	}
	indices = append(indices, 4096, 9999, -3)

	for _, ts := range []float64{0, 4, 11, 18.5, 90} {
		got := fs.ComputeFrame(indices, ts)
		if len(got) != len(indices) {
			t.Fatalf("len = %d, want %d", len(got), len(indices))
		}
		for i, idx := range indices {
			if want := res.Resolve(idx, ts); got[i] != want {
				t.Fatalf("t=%v index %d: %v, want %v", ts, idx, got[i], want)
			}
		}
		for _, rec := range got[4096:] {
			if rec != common.SentinelRecord {
				t.Errorf("out of range record = %v", rec)
			}
		}
	}
}

func TestComputeIntoReusesBuffers(t *testing.T) {
	res := newResolver(t, 1000)
	fs := NewFrameStore(res, nil, WithChunkSize(64))

	f := fs.Compute(12)
	if len(f.Records) != 1000 || f.Time != 12 || len(f.Colors) != 0 {
		t.Fatalf("frame = %d records, %d colors, t=%v", len(f.Records), len(f.Colors), f.Time)
	}
	first := &f.Records[0]
	fs.ComputeInto(f, 3)
	if &f.Records[0] != first {
		t.Error("ComputeInto reallocated the record buffer")
	}
	for i := range f.Records {
		if f.Records[i] != res.Resolve(i, 3) {
			t.Fatalf("record %d stale after ComputeInto", i)
		}
	}
}

func TestComputeWithColors(t *testing.T) {
	res := newResolver(t, 2048)
	sched, _ := phase.NewScheduler()
	comp, err := compositor.NewCompositor(sched, res)
	if err != nil {
		t.Fatalf("NewCompositor: %v", err)
	}
	fs := NewFrameStore(res, comp)

	f := fs.Compute(14)
	if len(f.Colors) != 2048 {
		t.Fatalf("colors = %d", len(f.Colors))
	}
	for i := 0; i < 2048; i += 50 {
		if want := comp.ColorAt(i, 14, f.Records[i]); f.Colors[i] != want {
			t.Errorf("color %d = %v, want %v", i, f.Colors[i], want)
		}
	}
}

func TestConcurrentFrames(t *testing.T) {
	res := newResolver(t, 4096)
	fs := NewFrameStore(res, nil)
	want := fs.Compute(20)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := fs.Compute(20)
			for i := range got.Records {
				if got.Records[i] != want.Records[i] {
					t.Errorf("record %d differs between concurrent frames", i)
					return
				}
			}
		}()
	}
	wg.Wait()
}
