package analysis

import "math"

// DetectedRectangle is the bounding box of one candidate label outline, in
// working-canvas px.
type DetectedRectangle struct {
	X             int     `json:"x"`
	Y             int     `json:"y"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Area          int     `json:"area"`
	AspectRatio   float64 `json:"aspect_ratio"`
	ContourLength int     `json:"contour_length"`
	Complexity    float64 `json:"complexity"`
	CenterX       float64 `json:"center_x"`
	CenterY       float64 `json:"center_y"`
}

type bounds struct {
	minX, minY, maxX, maxY int
}

func (b *bounds) extend(x, y int) {
	b.minX = min(b.minX, x)
	b.minY = min(b.minY, y)
	b.maxX = max(b.maxX, x)
	b.maxY = max(b.maxY, y)
}

// FindRectangles traces every 8-connected edge component and keeps those
// whose bounding box looks like a label.
func FindRectangles(edges EdgeMap, p Params) []DetectedRectangle {
	w, h := edges.Width, edges.Height
	visited := make([]bool, len(edges.Pix))
	minDim := float64(min(w, h))
	minSize, maxSize := minDim*p.MinSizeFraction, minDim*p.MaxSizeFraction

	var rects []DetectedRectangle
	for y := p.ScanBorder; y < h-p.ScanBorder; y++ {
		for x := p.ScanBorder; x < w-p.ScanBorder; x++ {
			if !edges.IsEdge(x, y) || visited[y*w+x] {
				continue
			}
			length, box := traceContour(edges, x, y, visited)
			if length <= p.MinContourLength {
				continue
			}
			if r, ok := p.rectangleFrom(length, box, minSize, maxSize); ok {
				rects = append(rects, r)
			}
		}
	}
	return RemoveOverlapping(rects, p.OverlapThreshold)
}

// traceContour flood-fills the component containing (x, y) and returns its
// pixel count and bounding box.
func traceContour(edges EdgeMap, startX, startY int, visited []bool) (int, bounds) {
	w, h := edges.Width, edges.Height
	start := startY*w + startX
	visited[start] = true
	stack := []int{start}
	box := bounds{minX: startX, minY: startY, maxX: startX, maxY: startY}
	count := 0

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		count++
		box.extend(x, y)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if !visited[j] && edges.Pix[j] == edgeValue {
					visited[j] = true
					stack = append(stack, j)
				}
			}
		}
	}
	return count, box
}

func (p Params) rectangleFrom(length int, box bounds, minSize, maxSize float64) (DetectedRectangle, bool) {
	width := box.maxX - box.minX
	height := box.maxY - box.minY
	fw, fh := float64(width), float64(height)

	if fw < minSize || fw > maxSize || fh < minSize || fh > maxSize {
		return DetectedRectangle{}, false
	}

	aspect := fw / fh
	area := width * height
	if !(aspect >= p.MinAspectRatio && aspect <= p.MaxAspectRatio) || float64(area) <= p.MinArea {
		return DetectedRectangle{}, false
	}

	complexity := float64(length*length) / float64(area)
	if complexity >= p.MaxComplexity {
		return DetectedRectangle{}, false
	}

	return DetectedRectangle{
		X:             box.minX,
		Y:             box.minY,
		Width:         width,
		Height:        height,
		Area:          area,
		AspectRatio:   aspect,
		ContourLength: length,
		Complexity:    complexity,
		CenterX:       float64(box.minX) + fw/2,
		CenterY:       float64(box.minY) + fh/2,
	}, true
}

// RemoveOverlapping drops near-duplicate rectangles. When two rectangles
// overlap by more than threshold IoU, the larger one is kept in the position
// of the first.
func RemoveOverlapping(rects []DetectedRectangle, threshold float64) []DetectedRectangle {
	out := make([]DetectedRectangle, 0, len(rects))
	for _, r := range rects {
		duplicate := false
		for i := range out {
			if intersectionOverUnion(r, out[i]) > threshold {
				if r.Area > out[i].Area {
					out[i] = r
				}
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, r)
		}
	}
	return out
}

func intersectionOverUnion(a, b DetectedRectangle) float64 {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.Width, b.X+b.Width)
	y2 := min(a.Y+a.Height, b.Y+b.Height)
	if x2 <= x1 || y2 <= y1 {
		return 0
	}
	inter := float64((x2 - x1) * (y2 - y1))
	union := float64(a.Area+b.Area) - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// sizeDistance is the normalised width plus height difference of two rectangles.
func sizeDistance(a, b DetectedRectangle) float64 {
	return relDiff(float64(a.Width), float64(b.Width)) + relDiff(float64(a.Height), float64(b.Height))
}

func relDiff(a, b float64) float64 {
	m := math.Max(a, b)
	if m == 0 {
		return 0
	}
	return math.Abs(a-b) / m
}
