// Package phase maps global show time onto the named segments of the show.
package phase

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// PhaseID names one segment of the show. Values are ordered: a later phase always has a larger ID.
type PhaseID uint8

const (
	Hidden PhaseID = iota
	ColumnReveal
	Ascent
	Bifurcation
	FormationAssembly
	BorderDissolve
	TextDisplay
	Finale

	phaseCount
)

var phaseNames = [phaseCount]string{
	Hidden:            "hidden",
	ColumnReveal:      "column_reveal",
	Ascent:            "ascent",
	Bifurcation:       "bifurcation",
	FormationAssembly: "formation_assembly",
	BorderDissolve:    "border_dissolve",
	TextDisplay:       "text_display",
	Finale:            "finale",
}

// String returns the snake_case name used in show configuration files.
func (p PhaseID) String() string {
	if p < phaseCount {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// All returns every phase in show order.
func All() []PhaseID {
	ids := make([]PhaseID, phaseCount)
	for i := range ids {
		ids[i] = PhaseID(i)
	}
	return ids
}

// Parse resolves a configuration name to its PhaseID.
func Parse(name string) (PhaseID, error) {
	for i, n := range phaseNames {
		if n == name {
			return PhaseID(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPhase, name)
}

var (
	ErrEmptyPhaseTable = errors.New("phase: empty phase table")
	ErrUnknownPhase    = errors.New("phase: unknown phase")
	ErrPhaseStart      = errors.New("phase: first window must start at t=0")
	ErrPhaseOrder      = errors.New("phase: windows are not in show order")
	ErrPhaseOverlap    = errors.New("phase: windows overlap")
	ErrPhaseGap        = errors.New("phase: windows leave a gap")
	ErrMissingPhase    = errors.New("phase: phase missing from table")
)

// Window is the time span [Start, End) during which Phase is active. The final window has End = +Inf.
type Window struct {
	Start float64
	End   float64
	Phase PhaseID
}

// Duration returns End - Start (+Inf for the open-ended finale).
func (w Window) Duration() float64 {
	return w.End - w.Start
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t float64) bool {
	return t >= w.Start && t < w.End
}

// Scheduler answers which phase is active at a given show time.
// A Scheduler is immutable once built and safe for concurrent use.
type Scheduler interface {
	// PhaseOf returns the phase active at t. Negative or NaN times clamp to Hidden.
	//
	// Parameters:
	//   - t: show time in seconds
	//
	// Returns:
	//   - PhaseID: the active phase
	PhaseOf(t float64) PhaseID

	// Window returns the window of the given phase.
	//
	// Parameters:
	//   - id: the phase to look up
	//
	// Returns:
	//   - Window: the phase's window
	Window(id PhaseID) Window

	// Windows returns a copy of the full ordered table.
	//
	// Returns:
	//   - []Window: all windows in show order
	Windows() []Window

	// Progress returns the active phase at t together with how far through its window t is, in [0, 1].
	// The open-ended finale always reports 0.
	//
	// Parameters:
	//   - t: show time in seconds
	//
	// Returns:
	//   - PhaseID: the active phase
	//   - float64: fraction of the phase window elapsed
	Progress(t float64) (PhaseID, float64)
}

type scheduler struct {
	windows [phaseCount]Window
	starts  [phaseCount]float64
}

var _ Scheduler = &scheduler{}

// DefaultStarts are the start times of the reference show, in seconds.
var DefaultStarts = map[PhaseID]float64{
	Hidden:            0,
	ColumnReveal:      2,
	Ascent:            6,
	Bifurcation:       16,
	FormationAssembly: 22,
	BorderDissolve:    44,
	TextDisplay:       48,
	Finale:            76,
}

// NewScheduler builds a Scheduler from the supplied options, starting from DefaultStarts.
// The table is validated here; a malformed table aborts construction with a descriptive error.
//
// Parameters:
//   - options: functional options (WithPhaseStart, WithWindows)
//
// Returns:
//   - Scheduler: the validated scheduler
//   - error: a wrapped Err* sentinel if the table is malformed
func NewScheduler(options ...SchedulerBuilderOption) (Scheduler, error) {
	b := &schedulerBuilder{starts: make(map[PhaseID]float64, phaseCount)}
	for id, start := range DefaultStarts {
		b.starts[id] = start
	}
	for _, opt := range options {
		opt(b)
	}
	if b.err != nil {
		return nil, b.err
	}

	windows := b.windows
	if windows == nil {
		windows = windowsFromStarts(b.starts)
	}
	if err := validate(windows); err != nil {
		return nil, err
	}

	s := &scheduler{}
	for i, w := range windows {
		s.windows[i] = w
		s.starts[i] = w.Start
	}
	return s, nil
}

// windowsFromStarts sorts the start table by time and derives each End from the following Start.
func windowsFromStarts(starts map[PhaseID]float64) []Window {
	windows := make([]Window, 0, len(starts))
	for id, start := range starts {
		windows = append(windows, Window{Start: start, Phase: id})
	}
	sort.SliceStable(windows, func(i, j int) bool {
		if windows[i].Start == windows[j].Start {
			return windows[i].Phase < windows[j].Phase
		}
		return windows[i].Start < windows[j].Start
	})
	for i := range windows {
		if i+1 < len(windows) {
			windows[i].End = windows[i+1].Start
		} else {
			windows[i].End = math.Inf(1)
		}
	}
	return windows
}

func validate(windows []Window) error {
	if len(windows) == 0 {
		return ErrEmptyPhaseTable
	}
	if windows[0].Start != 0 {
		return fmt.Errorf("%w: %s starts at %g", ErrPhaseStart, windows[0].Phase, windows[0].Start)
	}

	seen := make(map[PhaseID]bool, len(windows))
	for i, w := range windows {
		if w.Phase >= phaseCount {
			return fmt.Errorf("%w: id %d", ErrUnknownPhase, w.Phase)
		}
		if seen[w.Phase] {
			return fmt.Errorf("%w: %s appears twice", ErrPhaseOverlap, w.Phase)
		}
		seen[w.Phase] = true

		if math.IsNaN(w.Start) || math.IsNaN(w.End) || !(w.End > w.Start) {
			return fmt.Errorf("%w: %s has empty span [%g, %g)", ErrPhaseOverlap, w.Phase, w.Start, w.End)
		}
		if i == 0 {
			continue
		}
		prev := windows[i-1]
		if w.Phase != prev.Phase+1 {
			return fmt.Errorf("%w: %s follows %s", ErrPhaseOrder, w.Phase, prev.Phase)
		}
		if w.Start < prev.End {
			return fmt.Errorf("%w: %s starts at %g before %s ends at %g", ErrPhaseOverlap, w.Phase, w.Start, prev.Phase, prev.End)
		}
		if w.Start > prev.End {
			return fmt.Errorf("%w: between %s (ends %g) and %s (starts %g)", ErrPhaseGap, prev.Phase, prev.End, w.Phase, w.Start)
		}
	}

	for _, id := range All() {
		if !seen[id] {
			return fmt.Errorf("%w: %s", ErrMissingPhase, id)
		}
	}
	if last := windows[len(windows)-1]; !math.IsInf(last.End, 1) {
		return fmt.Errorf("%w: %s must be open ended, ends at %g", ErrPhaseGap, last.Phase, last.End)
	}
	return nil
}

func (s *scheduler) PhaseOf(t float64) PhaseID {
	if !(t > 0) {
		return Hidden
	}
	// First start strictly greater than t; the phase before it is active.
	i := sort.Search(int(phaseCount), func(i int) bool { return s.starts[i] > t })
	if i == 0 {
		return Hidden
	}
	return s.windows[i-1].Phase
}

func (s *scheduler) Window(id PhaseID) Window {
	if id >= phaseCount {
		return Window{}
	}
	return s.windows[id]
}

func (s *scheduler) Windows() []Window {
	out := make([]Window, phaseCount)
	copy(out, s.windows[:])
	return out
}

func (s *scheduler) Progress(t float64) (PhaseID, float64) {
	id := s.PhaseOf(t)
	w := s.windows[id]
	if math.IsInf(w.End, 1) {
		return id, 0
	}
	p := (t - w.Start) / w.Duration()
	if !(p > 0) {
		p = 0
	} else if p > 1 {
		p = 1
	}
	return id, p
}
