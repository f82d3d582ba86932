package widgets

import (
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/labelsheet/internal/analysis"
)

// Overlay colors for detection results.
var (
	colorDetected = color.NRGBA{R: 30, G: 120, B: 255, A: 230} // Blue for grid members
	colorOutlier  = color.NRGBA{R: 255, G: 60, B: 60, A: 200}  // Red for rejected rectangles
	colorRowLine  = color.NRGBA{R: 50, G: 200, B: 50, A: 220}  // Green row guides
	colorBackdrop = color.NRGBA{R: 240, G: 240, B: 240, A: 255}
)

// DetectionPreview renders an analysed photo with the detected label
// rectangles and row guides drawn over it.
type DetectionPreview struct {
	widget.BaseWidget
	img       image.Image
	pattern   analysis.Pattern
	frameW    int
	frameH    int
	maxWidth  float32
	maxHeight float32
}

// NewDetectionPreview creates a preview of img, which must be the working
// raster the pattern coordinates refer to.
func NewDetectionPreview(img image.Image, pattern analysis.Pattern, maxW, maxH float32) *DetectionPreview {
	b := img.Bounds()
	dp := &DetectionPreview{
		img:       img,
		pattern:   pattern,
		frameW:    b.Dx(),
		frameH:    b.Dy(),
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	dp.ExtendBaseWidget(dp)
	return dp
}

// CreateRenderer implements fyne.Widget.
func (dp *DetectionPreview) CreateRenderer() fyne.WidgetRenderer {
	return newDetectionPreviewRenderer(dp)
}

func (dp *DetectionPreview) scale() float32 {
	return FitScale(float64(dp.frameW), float64(dp.frameH), dp.maxWidth, dp.maxHeight)
}

type detectionPreviewRenderer struct {
	dp      *DetectionPreview
	objects []fyne.CanvasObject
}

func newDetectionPreviewRenderer(dp *DetectionPreview) *detectionPreviewRenderer {
	r := &detectionPreviewRenderer{dp: dp}
	r.rebuild()
	return r
}

func (r *detectionPreviewRenderer) rebuild() {
	r.objects = nil

	dp := r.dp
	if dp.frameW <= 0 || dp.frameH <= 0 {
		return
	}
	scale := dp.scale()
	w := float32(dp.frameW) * scale
	h := float32(dp.frameH) * scale

	bg := canvas.NewRectangle(colorBackdrop)
	bg.Resize(fyne.NewSize(w, h))
	r.objects = append(r.objects, bg)

	photo := canvas.NewImageFromImage(dp.img)
	photo.FillMode = canvas.ImageFillStretch
	photo.Resize(fyne.NewSize(w, h))
	r.objects = append(r.objects, photo)

	// Grid members are the rectangles kept in rows; everything else found
	// by the contour pass is drawn as an outlier.
	inRows := make(map[analysis.DetectedRectangle]bool)
	for _, row := range dp.pattern.Rows {
		for _, rect := range row {
			inRows[rect] = true
		}
	}
	for _, rect := range dp.pattern.Labels {
		col := colorOutlier
		if inRows[rect] {
			col = colorDetected
		}
		outline := canvas.NewRectangle(color.Transparent)
		outline.StrokeColor = col
		outline.StrokeWidth = 2
		outline.Move(fyne.NewPos(float32(rect.X)*scale, float32(rect.Y)*scale))
		outline.Resize(fyne.NewSize(float32(rect.Width)*scale, float32(rect.Height)*scale))
		r.objects = append(r.objects, outline)
	}

	// Row guides through the label centres
	for _, row := range dp.pattern.Rows {
		for i := 1; i < len(row); i++ {
			x1, y1 := float32(row[i-1].CenterX)*scale, float32(row[i-1].CenterY)*scale
			x2, y2 := float32(row[i].CenterX)*scale, float32(row[i].CenterY)*scale
			line := canvas.NewLine(colorRowLine)
			line.StrokeWidth = 1.5
			line.Position1 = fyne.NewPos(x1, y1)
			line.Position2 = fyne.NewPos(x2, y2)
			r.objects = append(r.objects, line)
			r.drawDashedOverlay(x1, y1, x2, y2)
		}
	}
}

// drawDashedOverlay adds gaps along a row guide for a dashed appearance.
func (r *detectionPreviewRenderer) drawDashedOverlay(x1, y1, x2, y2 float32) {
	dx := x2 - x1
	dy := y2 - y1
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if length < 8 {
		return
	}

	dashLen := float32(6)
	gapLen := float32(4)
	nx := dx / length
	ny := dy / length

	cursor := dashLen
	for cursor+gapLen < length {
		gap := canvas.NewLine(colorBackdrop)
		gap.StrokeWidth = 2
		gap.Position1 = fyne.NewPos(x1+nx*cursor, y1+ny*cursor)
		gap.Position2 = fyne.NewPos(x1+nx*(cursor+gapLen), y1+ny*(cursor+gapLen))
		r.objects = append(r.objects, gap)
		cursor += dashLen + gapLen
	}
}

func (r *detectionPreviewRenderer) Layout(size fyne.Size)        {}
func (r *detectionPreviewRenderer) Refresh()                     { r.rebuild() }
func (r *detectionPreviewRenderer) Destroy()                     {}
func (r *detectionPreviewRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *detectionPreviewRenderer) MinSize() fyne.Size {
	scale := r.dp.scale()
	return fyne.NewSize(float32(r.dp.frameW)*scale, float32(r.dp.frameH)*scale)
}
