// Package raster renders message strings into single channel bitmaps for the text sampler.
package raster

import (
	"image"
	"image/color"

	"github.com/Carmen-Shannon/oxy-swarm/engine/text"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Rasterizer turns a message into a bitmap keyed by the message.
type Rasterizer interface {
	// Rasterize draws msg into a new bitmap. The text spans the full bitmap width so that equal slices of
	// the bitmap line up with the message's character cells.
	//
	// Parameters:
	//   - msg: the message to draw
	//
	// Returns:
	//   - *text.Bitmap: the rendered bitmap
	Rasterize(msg text.Message) *text.Bitmap
}

type rasterizer struct {
	face    font.Face
	padding int
}

var _ Rasterizer = &rasterizer{}

// NewRasterizer creates a Rasterizer using the 7x13 bitmap face unless another face is supplied.
//
// Parameters:
//   - opts: variadic list of RasterizerBuilderOption functions
//
// Returns:
//   - Rasterizer: the rasterizer
func NewRasterizer(opts ...RasterizerBuilderOption) Rasterizer {
	r := &rasterizer{
		face:    basicfont.Face7x13,
		padding: 1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *rasterizer) Rasterize(msg text.Message) *text.Bitmap {
	m := r.face.Metrics()
	width := font.MeasureString(r.face, msg.Text).Ceil()
	if width < 1 {
		width = 1
	}
	height := (m.Ascent + m.Descent).Ceil() + 2*r.padding

	img := image.NewGray(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Gray{Y: 255}),
		Face: r.face,
		Dot:  fixed.Point26_6{X: 0, Y: fixed.I(r.padding) + m.Ascent},
	}
	d.DrawString(msg.Text)

	return text.NewBitmapFromGray(msg.Key(), img)
}
