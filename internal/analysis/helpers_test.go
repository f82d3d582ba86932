package analysis

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func rect(x, y, w, h int) DetectedRectangle {
	return DetectedRectangle{
		X: x, Y: y, Width: w, Height: h,
		Area:        w * h,
		AspectRatio: float64(w) / float64(h),
		CenterX:     float64(x) + float64(w)/2,
		CenterY:     float64(y) + float64(h)/2,
	}
}

// drawRing marks a one-pixel outline whose bounding box spans w x h px.
func drawRing(m EdgeMap, x0, y0, w, h int) {
	for x := x0; x <= x0+w; x++ {
		m.Set(x, y0)
		m.Set(x, y0+h)
	}
	for y := y0; y <= y0+h; y++ {
		m.Set(x0, y)
		m.Set(x0+w, y)
	}
}

// gridRects lays out cols x rows rectangles of w x h with the given gap.
func gridRects(x0, y0, w, h, gap, cols, rows int) []DetectedRectangle {
	var out []DetectedRectangle
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out = append(out, rect(x0+c*(w+gap), y0+r*(h+gap), w, h))
		}
	}
	return out
}

func uniformImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
)
