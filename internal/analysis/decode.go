package analysis

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"

	// Registered decoders for every format a phone or scanner is likely to produce.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrDecode is returned when the input bytes are not a decodable image.
var ErrDecode = errors.New("analysis: cannot decode image")

// Canvas is the working raster of one analysis run.
type Canvas struct {
	Image          *image.NRGBA
	OriginalWidth  int
	OriginalHeight int
}

// Width of the working raster in px.
func (c Canvas) Width() int { return c.Image.Rect.Dx() }

// Height of the working raster in px.
func (c Canvas) Height() int { return c.Image.Rect.Dy() }

// DecodeCanvas decodes data and downsizes it so neither side exceeds maxSize.
func DecodeCanvas(data []byte, maxSize int) (Canvas, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Canvas{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return Canvas{}, fmt.Errorf("%w: empty %s image", ErrDecode, format)
	}
	return NewCanvas(img, maxSize), nil
}

// NewCanvas downsizes an already decoded image into a working raster.
func NewCanvas(img image.Image, maxSize int) Canvas {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	scale := math.Min(1, math.Min(float64(maxSize)/float64(w), float64(maxSize)/float64(h)))
	cw := max(1, int(math.Floor(float64(w)*scale)))
	ch := max(1, int(math.Floor(float64(h)*scale)))

	var out *image.NRGBA
	if cw == w && ch == h {
		out = imaging.Clone(img)
	} else {
		out = imaging.Resize(img, cw, ch, imaging.Lanczos)
	}
	return Canvas{Image: out, OriginalWidth: w, OriginalHeight: h}
}
