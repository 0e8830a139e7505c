package compositor

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidPalette is returned for palettes with impossible timings or levels.
var ErrInvalidPalette = errors.New("compositor: invalid palette")

// Palette holds every color and brightness constant the compositor uses.
type Palette struct {
	// Warm is the glow of revealed particles still resting on the ground.
	Warm colorful.Color
	// Highlight replaces the rainbow hue on HighlightColumns.
	Highlight        colorful.Color
	HighlightColumns []int
	// Gradient runs far, moving, approaching, near, keyed by positional progress during assembly.
	Gradient [4]colorful.Color
	// FinaleCool and FinaleWarm are blended by proximity to the convergence point.
	FinaleCool colorful.Color
	FinaleWarm colorful.Color

	// DissolveSpread delays the innermost ring's fade relative to the border, in seconds.
	DissolveSpread float64
	// DissolveFade is the length of each particle's fade.
	DissolveFade float64
	// DissolveFloor is the global multiplier reached at the end of the dissolve.
	DissolveFloor float64

	// BorderGlow is the canvas border ring brightness during text display.
	BorderGlow float64
	// Background is the brightness of canvas cells outside the glyphs.
	Background float64
	// BreathPeriod is the period of the slow breathing oscillators, in seconds.
	BreathPeriod float64
	// Twinkle is the amplitude of the noise driven brightness flicker.
	Twinkle float64
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultPalette returns the reference show's palette.
func DefaultPalette() Palette {
	return Palette{
		Warm:             mustHex("#ffb347"),
		Highlight:        mustHex("#ffffff"),
		HighlightColumns: []int{0, 31},
		Gradient: [4]colorful.Color{
			mustHex("#3a0ca3"),
			mustHex("#4361ee"),
			mustHex("#4cc9f0"),
			mustHex("#f1faee"),
		},
		FinaleCool:     mustHex("#4895ef"),
		FinaleWarm:     mustHex("#ff9e00"),
		DissolveSpread: 2.5,
		DissolveFade:   1,
		DissolveFloor:  0.25,
		BorderGlow:     0.35,
		Background:     0.015,
		BreathPeriod:   3.2,
		Twinkle:        0.15,
	}
}

// Validate checks the timing and level constants.
func (p Palette) Validate() error {
	switch {
	case p.DissolveSpread < 0 || p.DissolveFade <= 0:
		return fmt.Errorf("%w: dissolve spread %g fade %g", ErrInvalidPalette, p.DissolveSpread, p.DissolveFade)
	case p.DissolveFloor < 0 || p.DissolveFloor > 1:
		return fmt.Errorf("%w: dissolve floor %g outside [0, 1]", ErrInvalidPalette, p.DissolveFloor)
	case p.BreathPeriod <= 0:
		return fmt.Errorf("%w: breath period %g", ErrInvalidPalette, p.BreathPeriod)
	case p.Twinkle < 0 || p.Twinkle > 1 || p.BorderGlow < 0 || p.Background < 0:
		return fmt.Errorf("%w: negative brightness", ErrInvalidPalette)
	}
	return nil
}

// band steps text intensity into a few brightness levels, approximating anti-aliased glyph edges.
func band(intensity float64) float64 {
	switch {
	case intensity >= 0.9:
		return 1
	case intensity >= 0.7:
		return 0.8
	case intensity >= 0.45:
		return 0.55
	case intensity >= 0.2:
		return 0.3
	case intensity > 0:
		return 0.08
	}
	return 0
}
