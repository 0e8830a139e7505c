package raster

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/engine/text"
)

func TestRasterizeSize(t *testing.T) {
	r := NewRasterizer(WithPadding(2))
	tests := []struct {
		msg   string
		width int
	}{
		{"HI", 14},
		{"HELLO", 35},
		{"DREAM", 35},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			bmp := r.Rasterize(text.Message{Text: tt.msg})
			if bmp.Key != tt.msg {
				t.Errorf("Key = %q", bmp.Key)
			}
			if bmp.Width != tt.width {
				t.Errorf("Width = %d, want %d", bmp.Width, tt.width)
			}
			if bmp.Height != 13+4 {
				t.Errorf("Height = %d, want 17", bmp.Height)
			}
		})
	}
}

func TestRasterizeDrawsGlyphs(t *testing.T) {
	bmp := NewRasterizer().Rasterize(text.Message{Text: "HI"})

	whole := bmp.Average(common.Rect{U0: 0, V0: 0, U1: 1, V1: 1})
	if whole <= 0 || whole >= 1 {
		t.Fatalf("average intensity = %v, want some ink", whole)
	}
	// Padding rows stay blank.
	for x := 0; x < bmp.Width; x++ {
		if bmp.At(x, 0) != 0 {
			t.Fatalf("ink in the padding row at x=%d", x)
		}
	}
	// Each character cell carries ink.
	for _, cell := range []common.Rect{{U0: 0, V0: 0, U1: 0.5, V1: 1}, {U0: 0.5, V0: 0, U1: 1, V1: 1}} {
		if bmp.Average(cell) == 0 {
			t.Errorf("no ink in cell %+v", cell)
		}
	}
}

func TestRasterizeEmpty(t *testing.T) {
	bmp := NewRasterizer().Rasterize(text.Message{})
	if bmp.Width != 1 || bmp.Average(common.Rect{U1: 1, V1: 1}) != 0 {
		t.Errorf("empty message bitmap = %dx%d", bmp.Width, bmp.Height)
	}
}
