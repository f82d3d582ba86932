package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/labelsheet/internal/engine"
	"github.com/piwi3910/labelsheet/internal/model"
)

// Cell fills by status.
var statusColors = map[model.CellStatus]color.NRGBA{
	model.CellAvailable: {R: 76, G: 175, B: 80, A: 60},
	model.CellUsed:      {R: 244, G: 67, B: 54, A: 140},
	model.CellSkipped:   {R: 158, G: 158, B: 158, A: 120},
}

var (
	colorPage   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	colorLabel  = color.NRGBA{R: 33, G: 150, B: 243, A: 200}
	colorMargin = color.NRGBA{R: 255, G: 152, B: 0, A: 255}
)

// PageCanvas renders one sheet: every grid cell tinted by its status and,
// when a page is set, the labels printed on it. Tapping a cell reports it
// through OnCellTapped.
type PageCanvas struct {
	widget.BaseWidget
	config    model.PageConfig
	page      *model.Page
	maxWidth  float32
	maxHeight float32

	OnCellTapped func(pos model.Position)
}

func NewPageCanvas(cfg model.PageConfig, page *model.Page, maxW, maxH float32) *PageCanvas {
	pc := &PageCanvas{
		config:    cfg,
		page:      page,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	pc.ExtendBaseWidget(pc)
	return pc
}

// SetConfig replaces the sheet and redraws.
func (pc *PageCanvas) SetConfig(cfg model.PageConfig) {
	pc.config = cfg
	pc.Refresh()
}

func (pc *PageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newPageCanvasRenderer(pc)
}

// Tapped implements fyne.Tappable.
func (pc *PageCanvas) Tapped(ev *fyne.PointEvent) {
	if pc.OnCellTapped == nil {
		return
	}
	if pos, ok := CellAt(pc.config, pc.scale(), ev.Position.X, ev.Position.Y); ok {
		pc.OnCellTapped(pos)
	}
}

func (pc *PageCanvas) scale() float32 {
	return FitScale(pc.config.PageWidth, pc.config.PageHeight, pc.maxWidth, pc.maxHeight)
}

// FitScale returns the px-per-mm factor that fits a w x h mm sheet into
// maxW x maxH px.
func FitScale(w, h float64, maxW, maxH float32) float32 {
	if w <= 0 || h <= 0 {
		return 1
	}
	return min(maxW/float32(w), maxH/float32(h))
}

// CellAt maps a point on a canvas drawn at scale px/mm to the grid cell
// under it. Points on margins or spacing hit no cell.
func CellAt(cfg model.PageConfig, scale, x, y float32) (model.Position, bool) {
	if scale <= 0 {
		return model.Position{}, false
	}
	mmX := float64(x/scale) - cfg.MarginLeft
	mmY := float64(y/scale) - cfg.MarginTop
	if mmX < 0 || mmY < 0 {
		return model.Position{}, false
	}
	pitchX := cfg.LabelWidth + cfg.HorizontalSpacing
	pitchY := cfg.LabelHeight + cfg.VerticalSpacing
	if pitchX <= 0 || pitchY <= 0 {
		return model.Position{}, false
	}

	col, row := int(mmX/pitchX), int(mmY/pitchY)
	perRow, perColumn := cfg.GridSize()
	if col >= perRow || row >= perColumn {
		return model.Position{}, false
	}
	if mmX-float64(col)*pitchX > cfg.LabelWidth || mmY-float64(row)*pitchY > cfg.LabelHeight {
		return model.Position{}, false
	}
	return model.Position{Row: row, Col: col}, true
}

type pageCanvasRenderer struct {
	pc      *PageCanvas
	objects []fyne.CanvasObject
}

func newPageCanvasRenderer(pc *PageCanvas) *pageCanvasRenderer {
	r := &pageCanvasRenderer{pc: pc}
	r.rebuild()
	return r
}

func (r *pageCanvasRenderer) rebuild() {
	r.objects = nil

	cfg := r.pc.config
	scale := r.pc.scale()
	pageW := float32(cfg.PageWidth) * scale
	pageH := float32(cfg.PageHeight) * scale

	bg := canvas.NewRectangle(colorPage)
	bg.StrokeColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	bg.StrokeWidth = 2
	bg.Resize(fyne.NewSize(pageW, pageH))
	r.objects = append(r.objects, bg)

	// Printable area inside the margins
	area := canvas.NewRectangle(color.Transparent)
	area.StrokeColor = colorMargin
	area.StrokeWidth = 1
	area.Move(fyne.NewPos(float32(cfg.MarginLeft)*scale, float32(cfg.MarginTop)*scale))
	area.Resize(fyne.NewSize(
		float32(cfg.PageWidth-cfg.MarginLeft-cfg.MarginRight)*scale,
		float32(cfg.PageHeight-cfg.MarginTop-cfg.MarginBottom)*scale))
	r.objects = append(r.objects, area)

	cellW := float32(cfg.LabelWidth) * scale
	cellH := float32(cfg.LabelHeight) * scale
	for _, row := range engine.GeneratePositionGrid(cfg) {
		for _, cell := range row {
			x := float32(cfg.MarginLeft+float64(cell.Col)*(cfg.LabelWidth+cfg.HorizontalSpacing)) * scale
			y := float32(cfg.MarginTop+float64(cell.Row)*(cfg.LabelHeight+cfg.VerticalSpacing)) * scale

			rect := canvas.NewRectangle(statusColors[cell.Status])
			rect.StrokeColor = color.NRGBA{R: 120, G: 120, B: 120, A: 255}
			rect.StrokeWidth = 1
			rect.Move(fyne.NewPos(x, y))
			rect.Resize(fyne.NewSize(cellW, cellH))
			r.objects = append(r.objects, rect)

			if r.pc.page == nil && cellW > 30 && cellH > 14 {
				pos := canvas.NewText(fmt.Sprintf("%d,%d", cell.Row+1, cell.Col+1), color.NRGBA{R: 60, G: 60, B: 60, A: 255})
				pos.TextSize = 9
				pos.Move(fyne.NewPos(x+3, y+2))
				r.objects = append(r.objects, pos)
			}
		}
	}

	if r.pc.page == nil {
		return
	}
	for _, l := range r.pc.page.Labels {
		x := float32(l.Position.X) * scale
		y := float32(l.Position.Y) * scale
		w := float32(l.Dimensions.Width) * scale
		h := float32(l.Dimensions.Height) * scale

		rect := canvas.NewRectangle(colorLabel)
		rect.Move(fyne.NewPos(x, y))
		rect.Resize(fyne.NewSize(w, h))
		r.objects = append(r.objects, rect)

		if w > 30 && h > 12 {
			text := canvas.NewText(l.Text, color.White)
			text.TextSize = min(11, h/2)
			text.Move(fyne.NewPos(x+3, y+(h-text.TextSize)/2-2))
			r.objects = append(r.objects, text)
		}
	}
}

func (r *pageCanvasRenderer) Layout(size fyne.Size)        {}
func (r *pageCanvasRenderer) Refresh()                     { r.rebuild(); canvas.Refresh(r.pc) }
func (r *pageCanvasRenderer) Destroy()                     {}
func (r *pageCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *pageCanvasRenderer) MinSize() fyne.Size {
	scale := r.pc.scale()
	return fyne.NewSize(float32(r.pc.config.PageWidth)*scale, float32(r.pc.config.PageHeight)*scale)
}

// RenderPages creates a scrollable container of all laid-out pages.
func RenderPages(pages []model.Page, cfg model.PageConfig) fyne.CanvasObject {
	if len(pages) == 0 {
		return widget.NewLabel("No labels to preview. Add item IDs on the Items tab.")
	}

	var items []fyne.CanvasObject
	dropped := 0
	for i := range pages {
		page := pages[i]
		header := widget.NewLabel(fmt.Sprintf("Page %d: %d labels", page.PageIndex+1, page.TotalLabels))
		header.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, header, NewPageCanvas(cfg, &page, 420, 560), widget.NewSeparator())
		dropped += page.Dropped
	}

	if dropped > 0 {
		warning := widget.NewLabel(fmt.Sprintf(
			"WARNING: %d items did not fit the free cells of their page and will not be printed.", dropped))
		warning.Importance = widget.DangerImportance
		items = append(items, warning)
	}
	return container.NewVScroll(container.NewVBox(items...))
}
