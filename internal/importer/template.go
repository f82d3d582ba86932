package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/labelsheet/internal/model"
)

// templateTolerance is the distance in mm under which template coordinates
// are considered equal.
const templateTolerance = 0.5

type point struct{ X, Y float64 }

// segment is a line between two points, used to chain loose LINE and ARC
// entities into closed outlines.
type segment struct {
	start point
	end   point
}

// box is an axis-aligned bounding box in DXF coordinates (y up).
type box struct {
	minX, minY, maxX, maxY float64
}

func (b box) width() float64  { return b.maxX - b.minX }
func (b box) height() float64 { return b.maxY - b.minY }
func (b box) area() float64   { return b.width() * b.height() }

func (b box) contains(o box) bool {
	return o.minX >= b.minX-templateTolerance && o.maxX <= b.maxX+templateTolerance &&
		o.minY >= b.minY-templateTolerance && o.maxY <= b.maxY+templateTolerance
}

func boundsOf(pts []point) box {
	b := box{minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)}
	for _, p := range pts {
		b.minX, b.maxX = math.Min(b.minX, p.X), math.Max(b.maxX, p.X)
		b.minY, b.maxY = math.Min(b.minY, p.Y), math.Max(b.maxY, p.Y)
	}
	return b
}

// TemplateResult holds the layout inferred from a die-cut template.
type TemplateResult struct {
	Config      model.PageConfig
	Labels      int  // label outlines used for the layout
	PageOutline bool // whether a sheet outline was found in the drawing
	Errors      []string
	Warnings    []string
}

// ImportTemplateDXF infers a sheet layout from a DXF die-cut template drawn
// in millimetres. Every closed shape (LWPOLYLINE, CIRCLE, or chain of
// LINEs and ARCs) is reduced to its bounding box. A box enclosing all the
// others is taken as the sheet; otherwise the drawing origin is the sheet's
// bottom-left corner and base supplies the sheet size. The most common box
// size is the label size. Styling and text settings are kept from base.
func ImportTemplateDXF(path string, base model.PageConfig) TemplateResult {
	result := TemplateResult{Config: base}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var boxes []box
	var segments []segment
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if len(e.Vertices) < 3 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			pts := make([]point, len(e.Vertices))
			for i, v := range e.Vertices {
				pts[i] = point{X: v[0], Y: v[1]}
			}
			boxes = append(boxes, boundsOf(pts))

		case *entity.Circle:
			cx, cy, r := e.Center[0], e.Center[1], e.Radius
			boxes = append(boxes, box{minX: cx - r, minY: cy - r, maxX: cx + r, maxY: cy + r})

		case *entity.Arc:
			pts := arcToPoints(e, 8)
			for i := 1; i < len(pts); i++ {
				segments = append(segments, segment{start: pts[i-1], end: pts[i]})
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: point{X: e.Start[0], Y: e.Start[1]},
				end:   point{X: e.End[0], Y: e.End[1]},
			})

		default:
			// Text, dimensions and other annotations carry no geometry
		}
	}

	for _, chain := range chainSegments(segments, 0.01) {
		boxes = append(boxes, boundsOf(chain))
	}

	var shapes []box
	for _, b := range boxes {
		if b.width() < 0.01 || b.height() < 0.01 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f mm)", b.width(), b.height()))
			continue
		}
		shapes = append(shapes, b)
	}
	if len(shapes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	sheet, labels, found := splitSheet(shapes)
	result.PageOutline = found
	if !found {
		sheet = box{maxX: base.PageWidth, maxY: base.PageHeight}
		result.Warnings = append(result.Warnings, "No sheet outline found, using the configured page size")
	}
	if len(labels) == 0 {
		result.Errors = append(result.Errors, "No label outlines found in DXF file")
		return result
	}

	size := commonSize(labels)
	var matching []box
	for _, b := range labels {
		if math.Abs(b.width()-size.Width) <= templateTolerance && math.Abs(b.height()-size.Height) <= templateTolerance {
			matching = append(matching, b)
		}
	}
	if ignored := len(labels) - len(matching); ignored > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Ignored %d shapes not matching the %.1f x %.1f mm label size", ignored, size.Width, size.Height))
	}

	result.Config = layoutFromBoxes(base, sheet, found, matching, size)
	result.Labels = len(matching)
	return result
}

// splitSheet separates the outline enclosing every other shape from the rest.
func splitSheet(shapes []box) (box, []box, bool) {
	if len(shapes) < 2 {
		return box{}, shapes, false
	}
	largest := 0
	for i, b := range shapes {
		if b.area() > shapes[largest].area() {
			largest = i
		}
	}
	for i, b := range shapes {
		if i != largest && !shapes[largest].contains(b) {
			return box{}, shapes, false
		}
	}
	rest := make([]box, 0, len(shapes)-1)
	rest = append(rest, shapes[:largest]...)
	rest = append(rest, shapes[largest+1:]...)
	return shapes[largest], rest, true
}

// commonSize returns the most frequent box size, rounded to 0.1 mm.
func commonSize(boxes []box) model.Size {
	counts := make(map[model.Size]int)
	var best model.Size
	for _, b := range boxes {
		s := model.Size{Width: roundTo(b.width(), 1), Height: roundTo(b.height(), 1)}
		counts[s]++
		if counts[s] > counts[best] {
			best = s
		}
	}
	return best
}

func layoutFromBoxes(base model.PageConfig, sheet box, hasSheet bool, labels []box, size model.Size) model.PageConfig {
	var lefts, tops []float64
	for _, b := range labels {
		lefts = append(lefts, b.minX)
		tops = append(tops, b.maxY)
	}
	columns := distinct(lefts)
	rows := distinct(tops)
	sort.Float64s(columns)
	sort.Sort(sort.Reverse(sort.Float64Slice(rows)))

	c := base.Clone()
	if hasSheet {
		c.PageWidth, c.PageHeight = roundTo(sheet.width(), 2), roundTo(sheet.height(), 2)
		c.PageSize, c.Orientation = matchPaper(c.PageWidth, c.PageHeight)
	}

	c.LabelWidth, c.LabelHeight = size.Width, size.Height
	c.LabelsPerRow, c.LabelsPerColumn = len(columns), len(rows)
	c.HorizontalSpacing, c.VerticalSpacing = 0, 0
	if n := len(columns); n > 1 {
		c.HorizontalSpacing = roundTo((columns[n-1]-columns[0])/float64(n-1)-size.Width, 2)
	}
	if n := len(rows); n > 1 {
		c.VerticalSpacing = roundTo((rows[0]-rows[n-1])/float64(n-1)-size.Height, 2)
	}

	c.MarginLeft = roundTo(math.Max(0, columns[0]-sheet.minX), 2)
	c.MarginTop = roundTo(math.Max(0, sheet.maxY-rows[0]), 2)
	c.MarginRight = roundTo(math.Max(0, sheet.maxX-(columns[len(columns)-1]+size.Width)), 2)
	c.MarginBottom = roundTo(math.Max(0, (rows[len(rows)-1]-size.Height)-sheet.minY), 2)

	c.StartRow, c.StartColumn = 0, 0
	c.UsedPositions = []model.Position{}
	return c
}

// matchPaper names a sheet size when it matches a known paper size.
func matchPaper(w, h float64) (string, model.Orientation) {
	for _, name := range model.PaperSizeNames() {
		ps := model.PaperSizes[name]
		if math.Abs(ps.Width-w) <= templateTolerance && math.Abs(ps.Height-h) <= templateTolerance {
			return name, model.Portrait
		}
		if math.Abs(ps.Height-w) <= templateTolerance && math.Abs(ps.Width-h) <= templateTolerance {
			return name, model.Landscape
		}
	}
	return "Custom", model.Portrait
}

// distinct collapses values closer than templateTolerance.
func distinct(values []float64) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	var out []float64
	for _, v := range sorted {
		if len(out) == 0 || v-out[len(out)-1] > templateTolerance {
			out = append(out, v)
		}
	}
	return out
}

// roundTo rounds v to the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// arcToPoints converts a DXF ARC entity to a series of line points.
func arcToPoints(a *entity.Arc, numSegments int) []point {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius
	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]point, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = point{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	return pts
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum distance between endpoints to consider them connected.
func chainSegments(segs []segment, tolerance float64) [][]point {
	used := make([]bool, len(segs))
	var outlines [][]point

	for start := range segs {
		if used[start] {
			continue
		}
		chain := []point{segs[start].start, segs[start].end}
		used[start] = true

		for extended := true; extended; {
			extended = false
			tail := chain[len(chain)-1]
			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
				} else if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
				} else {
					continue
				}
				used[i] = true
				extended = true
				break
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, chain[:len(chain)-1])
		}
	}
	return outlines
}

func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}
