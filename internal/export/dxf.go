package export

import (
	"fmt"
	"log/slog"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/labelsheet/internal/engine"
	"github.com/piwi3910/labelsheet/internal/model"
)

// DXF layers of a cutter template.
const (
	LayerSheet  = "SHEET"
	LayerLabels = "LABELS"
	LayerUsed   = "USED"
)

// ExportDXF writes a die-cut template of the sheet: the page outline and one
// rectangle per grid cell. Cells listed as used go on their own layer. DXF
// y runs upwards, so rows are mirrored against the page height.
func ExportDXF(path string, cfg model.PageConfig) error {
	d, err := BuildDXF(cfg)
	if err != nil {
		return err
	}
	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write DXF file: %w", err)
	}
	slog.Info("exported DXF template", "path", path)
	return nil
}

// BuildDXF assembles the template drawing for cfg.
func BuildDXF(cfg model.PageConfig) (*drawing.Drawing, error) {
	d := dxf.NewDrawing()

	if _, err := d.AddLayer(LayerSheet, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return nil, fmt.Errorf("failed to add layer %s: %w", LayerSheet, err)
	}
	if err := rectangle(d, 0, 0, cfg.PageWidth, cfg.PageHeight); err != nil {
		return nil, err
	}

	grid := engine.GeneratePositionGrid(cfg)
	layers := []struct {
		name string
		cl   color.ColorNumber
		used bool
	}{
		{LayerLabels, 1, false},
		{LayerUsed, 8, true},
	}
	for _, layer := range layers {
		if _, err := d.AddLayer(layer.name, layer.cl, dxf.DefaultLineType, true); err != nil {
			return nil, fmt.Errorf("failed to add layer %s: %w", layer.name, err)
		}
		for _, row := range grid {
			for _, cell := range row {
				if (cell.Status == model.CellUsed) != layer.used {
					continue
				}
				x := cfg.MarginLeft + float64(cell.Col)*(cfg.LabelWidth+cfg.HorizontalSpacing)
				top := cfg.MarginTop + float64(cell.Row)*(cfg.LabelHeight+cfg.VerticalSpacing)
				y := cfg.PageHeight - top - cfg.LabelHeight
				if err := rectangle(d, x, y, cfg.LabelWidth, cfg.LabelHeight); err != nil {
					return nil, err
				}
			}
		}
	}
	return d, nil
}

// rectangle draws an axis-aligned rectangle with its lower-left corner at x, y.
func rectangle(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i, c := range corners {
		next := corners[(i+1)%len(corners)]
		if _, err := d.Line(c[0], c[1], 0, next[0], next[1], 0); err != nil {
			return fmt.Errorf("failed to draw outline: %w", err)
		}
	}
	return nil
}
