package analysis

import (
	"image"
	"math"
)

const edgeValue = 255

// EdgeMap is a binary raster; a pixel is either 0 or edgeValue.
type EdgeMap struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewEdgeMap returns an empty map of the given size.
func NewEdgeMap(w, h int) EdgeMap {
	return EdgeMap{Width: w, Height: h, Pix: make([]uint8, w*h)}
}

// IsEdge reports whether (x, y) is an edge pixel.
func (m EdgeMap) IsEdge(x, y int) bool {
	return m.Pix[y*m.Width+x] == edgeValue
}

// Set marks (x, y) as an edge pixel.
func (m EdgeMap) Set(x, y int) {
	m.Pix[y*m.Width+x] = edgeValue
}

// Count returns the number of edge pixels.
func (m EdgeMap) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v == edgeValue {
			n++
		}
	}
	return n
}

// Density is the fraction of edge pixels.
func (m EdgeMap) Density() float64 {
	if len(m.Pix) == 0 {
		return 0
	}
	return float64(m.Count()) / float64(len(m.Pix))
}

// DetectEdges combines a Sobel operator with a weighted Roberts cross on the
// luminance channel. The outermost ring of pixels is never an edge.
func DetectEdges(img *image.NRGBA, p Params) EdgeMap {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	gray := luminance(img)
	edges := NewEdgeMap(w, h)
	at := func(x, y int) float64 { return gray[y*w+x] }

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
			gy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)
			sobel := math.Hypot(gx, gy)

			rx := at(x, y) - at(x+1, y+1)
			ry := at(x+1, y) - at(x, y+1)
			roberts := math.Hypot(rx, ry) * p.RobertsWeight

			if math.Max(sobel, roberts) > p.EdgeThreshold {
				edges.Set(x, y)
			}
		}
	}
	return edges
}
