package export

import (
	"encoding/base64"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/piwi3910/labelsheet/internal/engine"
	"github.com/piwi3910/labelsheet/internal/model"
)

// SVGOptions controls the page preview.
type SVGOptions struct {
	DPI      float64 // pixel density; 0 means model.ScreenDPI
	ShowGrid bool    // draw every grid cell tinted by its status under the labels
}

// Status fills of the grid overlay.
var gridFills = map[model.CellStatus]string{
	model.CellAvailable: "#e8f5e9",
	model.CellUsed:      "#ffcdd2",
	model.CellSkipped:   "#eeeeee",
}

// WriteSVG renders a single page as an SVG preview.
func WriteSVG(w io.Writer, page model.Page, cfg model.PageConfig, opts SVGOptions) error {
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = model.ScreenDPI
	}
	px := func(mm float64) int { return int(math.Round(model.MmToPx(mm, dpi))) }

	canvas := svg.New(w)
	canvas.Start(px(cfg.PageWidth), px(cfg.PageHeight))
	canvas.Title(fmt.Sprintf("Page %d", page.PageIndex+1))
	canvas.Rect(0, 0, px(cfg.PageWidth), px(cfg.PageHeight), "fill:#ffffff;stroke:#999999;stroke-width:1")

	if opts.ShowGrid {
		canvas.Gid("grid")
		for _, row := range engine.GeneratePositionGrid(cfg) {
			for _, cell := range row {
				x := cfg.MarginLeft + float64(cell.Col)*(cfg.LabelWidth+cfg.HorizontalSpacing)
				y := cfg.MarginTop + float64(cell.Row)*(cfg.LabelHeight+cfg.VerticalSpacing)
				canvas.Rect(px(x), px(y), px(cfg.LabelWidth), px(cfg.LabelHeight),
					fmt.Sprintf("fill:%s;stroke:#bdbdbd;stroke-dasharray:4,2", gridFills[cell.Status]),
					fmt.Sprintf(`data-status="%s"`, cell.Status))
			}
		}
		canvas.Gend()
	}

	fontPx := func(pt float64) int { return int(math.Round(pt * dpi / 72)) }
	canvas.Gid("labels")
	for _, label := range page.Labels {
		x, y := px(label.Position.X), px(label.Position.Y)
		lw, lh := px(label.Dimensions.Width), px(label.Dimensions.Height)

		style := "fill:" + normalizeHex(cfg.BackgroundColor)
		if cfg.BorderWidth > 0 {
			style += fmt.Sprintf(";stroke:%s;stroke-width:%g", normalizeHex(cfg.BorderColor), cfg.BorderWidth)
		}
		canvas.Rect(x, y, lw, lh, style, fmt.Sprintf(`id="%s"`, label.ID))

		textW := lw
		code, err := encodeCode(cfg.Code, label.Text)
		if err != nil {
			return fmt.Errorf("label %s: %w", label.ID, err)
		}
		if code != nil {
			href := "data:image/png;base64," + base64.StdEncoding.EncodeToString(code)
			if cfg.Code == model.CodeQR {
				size := min(lh-4, lw/2)
				canvas.Image(x+lw-size-2, y+(lh-size)/2, size, size, href)
				textW = lw - size - 2
			} else {
				canvas.Image(x+2, y+lh/2, lw-4, lh/2-2, href)
			}
		}

		anchor, tx := "middle", x+textW/2
		switch cfg.TextAlign {
		case "left":
			anchor, tx = "start", x+2
		case "right":
			anchor, tx = "end", x+textW-2
		}
		ty := y + lh/2
		if cfg.Code == model.CodeCode128 {
			ty = y + lh/4
		}
		fontSize := OptimalFontSize(label.Text, label.Dimensions.Width, label.Dimensions.Height, cfg.FontSize)
		canvas.Text(tx, ty, label.Text, fmt.Sprintf(
			"font-family:%s;font-size:%dpx;font-weight:%s;fill:%s;text-anchor:%s;dominant-baseline:middle",
			cfg.FontFamily, fontPx(fontSize), cfg.FontWeight, normalizeHex(cfg.TextColor), anchor))
	}
	canvas.Gend()
	canvas.End()
	return nil
}
