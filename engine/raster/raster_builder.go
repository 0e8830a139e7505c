package raster

import "golang.org/x/image/font"

// RasterizerBuilderOption is a functional option for configuring a Rasterizer.
// Use the With* functions to create options.
type RasterizerBuilderOption func(r *rasterizer)

// WithFace sets the font face used to draw messages.
//
// Parameters:
//   - face: the font face
//
// Returns:
//   - RasterizerBuilderOption: option function to apply
func WithFace(face font.Face) RasterizerBuilderOption {
	return func(r *rasterizer) {
		r.face = face
	}
}

// WithPadding sets the blank rows added above and below the text.
//
// Parameters:
//   - rows: padding in pixels
//
// Returns:
//   - RasterizerBuilderOption: option function to apply
func WithPadding(rows int) RasterizerBuilderOption {
	return func(r *rasterizer) {
		if rows >= 0 {
			r.padding = rows
		}
	}
}
