// Package text turns the active message into a per-particle intensity. A collaborator rasterizes the
// message into a Bitmap and publishes it to a Store; the Sampler reads the bitmap through the canvas
// layout and shapes it with a per-character reveal and a closing fade.
package text

import (
	"math"

	"github.com/Carmen-Shannon/oxy-swarm/common"
)

// Layout maps grid coordinates onto normalized bitmap rectangles. The canvas formation implements it.
type Layout interface {
	SampleRect(row, col int) (common.Rect, bool)
}

// Sampler answers how brightly a particle should show the active message.
type Sampler interface {
	// Messages returns the text schedule.
	Messages() Messages

	// Sample returns the active message at t and the particle's intensity for it.
	//
	// Parameters:
	//   - row: grid row
	//   - col: grid column
	//   - t: show time in seconds
	//
	// Returns:
	//   - Message: the active message
	//   - float64: intensity in [0, 1]
	//   - bool: false when no message is active
	Sample(row, col int, t float64) (Message, float64, bool)

	// IntensityAt returns the particle's intensity for the active message, 0 when nothing is shown.
	IntensityAt(row, col int, t float64) float64
}

type sampler struct {
	layout       Layout
	store        *Store
	messages     Messages
	perCharDelay float64
	charReveal   float64
	fadeOut      float64
}

var _ Sampler = &sampler{}

// NewSampler builds a sampler over the canvas layout.
//
// Parameters:
//   - layout: grid to bitmap mapping
//   - store: bitmap slot written by the rasterizer
//   - messages: the text schedule
//   - opts: envelope options
//
// Returns:
//   - Sampler: the sampler
//   - error: when the schedule is invalid
func NewSampler(layout Layout, store *Store, messages Messages, opts ...SamplerBuilderOption) (Sampler, error) {
	if err := messages.Validate(); err != nil {
		return nil, err
	}
	s := &sampler{
		layout:       layout,
		store:        store,
		messages:     append(Messages(nil), messages...),
		perCharDelay: 0.35,
		charReveal:   0.8,
		fadeOut:      1.2,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *sampler) Messages() Messages {
	return append(Messages(nil), s.messages...)
}

func (s *sampler) Sample(row, col int, t float64) (Message, float64, bool) {
	msg, ok := s.messages.Active(t)
	if !ok {
		return Message{}, 0, false
	}

	bmp := s.store.Load()
	if bmp == nil || bmp.Key != msg.Key() {
		return msg, 0, true
	}
	rect, ok := s.layout.SampleRect(row, col)
	if !ok {
		return msg, 0, true
	}

	u, _ := rect.Center()
	return msg, bmp.Average(rect) * s.revealEnvelope(msg, u, t) * s.fadeEnvelope(msg, t), true
}

func (s *sampler) IntensityAt(row, col int, t float64) float64 {
	_, v, _ := s.Sample(row, col, t)
	return v
}

// revealEnvelope ramps each character cell in turn, left to right.
func (s *sampler) revealEnvelope(msg Message, u, t float64) float64 {
	cells := msg.Cells()
	cell := int(math.Floor(common.Clamp01(u) * float64(cells)))
	if cell >= cells {
		cell = cells - 1
	}
	start := msg.Start + float64(cell)*s.perCharDelay
	return common.EaseOutCubic(common.Progress(t, start, s.charReveal))
}

// fadeEnvelope falls from 1 to 0 over the last fadeOut seconds of the message.
func (s *sampler) fadeEnvelope(msg Message, t float64) float64 {
	return 1 - common.Smoothstep(common.Progress(t, msg.End-s.fadeOut, s.fadeOut))
}
