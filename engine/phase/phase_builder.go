package phase

import "fmt"

type schedulerBuilder struct {
	starts  map[PhaseID]float64
	windows []Window
	err     error
}

// SchedulerBuilderOption is a functional option for configuring a Scheduler.
type SchedulerBuilderOption func(*schedulerBuilder)

// WithPhaseStart overrides the start time of a single phase. Each window ends where the next phase
// (by time) begins; if the resulting time order disagrees with the show order, NewScheduler fails.
//
// Parameters:
//   - id: the phase to move
//   - start: its new start time in seconds
//
// Returns:
//   - SchedulerBuilderOption: option function to apply
func WithPhaseStart(id PhaseID, start float64) SchedulerBuilderOption {
	return func(b *schedulerBuilder) {
		if id >= phaseCount {
			b.err = fmt.Errorf("%w: id %d", ErrUnknownPhase, id)
			return
		}
		b.starts[id] = start
	}
}

// WithWindows supplies the complete table explicitly, including end times. The windows are used as
// given (not sorted) so that out-of-order or overlapping tables are reported rather than repaired.
//
// Parameters:
//   - windows: the full phase table in show order
//
// Returns:
//   - SchedulerBuilderOption: option function to apply
func WithWindows(windows ...Window) SchedulerBuilderOption {
	return func(b *schedulerBuilder) {
		b.windows = append(make([]Window, 0, len(windows)), windows...)
	}
}
