package text

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-swarm/common"
)

// ErrBitmapSize is returned when pixel data does not match the declared size.
var ErrBitmapSize = errors.New("text: bitmap size mismatch")

// Bitmap is a single channel intensity image, row major, values in [0, 1]. Key names the message the
// bitmap was rendered for. A Bitmap is never modified after it has been published to a Store.
type Bitmap struct {
	Key    string
	Width  int
	Height int
	Pix    []float32
}

// NewBitmap wraps pix as a bitmap.
//
// Parameters:
//   - key: message key the bitmap belongs to
//   - width: width in pixels
//   - height: height in pixels
//   - pix: width*height intensities, row major
//
// Returns:
//   - *Bitmap: the bitmap
//   - error: ErrBitmapSize when the dimensions and data disagree
func NewBitmap(key string, width, height int, pix []float32) (*Bitmap, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height {
		return nil, fmt.Errorf("%w: %dx%d with %d pixels", ErrBitmapSize, width, height, len(pix))
	}
	return &Bitmap{Key: key, Width: width, Height: height, Pix: pix}, nil
}

// NewBitmapFromGray converts a grayscale image into a bitmap.
func NewBitmapFromGray(key string, img *image.Gray) *Bitmap {
	b := img.Bounds()
	bmp := &Bitmap{Key: key, Width: b.Dx(), Height: b.Dy(), Pix: make([]float32, b.Dx()*b.Dy())}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			bmp.Pix[y*bmp.Width+x] = float32(img.GrayAt(b.Min.X+x, b.Min.Y+y).Y) / 255
		}
	}
	return bmp
}

// At returns the intensity at (x, y), or 0 outside the bitmap.
func (b *Bitmap) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return 0
	}
	return float64(b.Pix[y*b.Width+x])
}

// Average returns the mean intensity over the pixels touched by a normalized rectangle. At least one
// pixel is always sampled so that cells smaller than a pixel still see the text.
func (b *Bitmap) Average(r common.Rect) float64 {
	if b == nil || b.Width == 0 || b.Height == 0 {
		return 0
	}
	x0, x1 := pixelSpan(r.U0, r.U1, b.Width)
	y0, y1 := pixelSpan(r.V0, r.V1, b.Height)

	var sum float64
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			sum += float64(b.Pix[y*b.Width+x])
		}
	}
	return sum / float64((x1-x0)*(y1-y0))
}

func pixelSpan(lo, hi float64, size int) (int, int) {
	a := int(math.Floor(common.Clamp01(lo) * float64(size)))
	z := int(math.Ceil(common.Clamp01(hi) * float64(size)))
	if a >= size {
		a = size - 1
	}
	if z <= a {
		z = a + 1
	}
	return a, z
}

// Store holds the current bitmap. One writer replaces it whenever the active message changes; any number
// of frame workers read it concurrently.
type Store struct {
	current atomic.Pointer[Bitmap]
}

// Set publishes b. The previous bitmap is left untouched for readers still holding it.
func (s *Store) Set(b *Bitmap) {
	s.current.Store(b)
}

// Load returns the published bitmap, or nil.
func (s *Store) Load() *Bitmap {
	return s.current.Load()
}
