package importer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/labelsheet/internal/model"
)

func drawRect(t *testing.T, d *drawing.Drawing, x, y, w, h float64) {
	t.Helper()
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%4]
		_, err := d.Line(a[0], a[1], 0, b[0], b[1], 0)
		require.NoError(t, err)
	}
}

func saveDrawing(t *testing.T, d *drawing.Drawing) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.dxf")
	require.NoError(t, d.SaveAs(path))
	return path
}

// ─── Template Import Tests ─────────────────────────────────

func TestImportTemplateDXF_WithSheetOutline(t *testing.T) {
	d := dxf.NewDrawing()
	drawRect(t, d, 0, 0, 210, 297)
	for r := 0; r < 3; r++ {
		for c := 0; c < 2; c++ {
			top := 282 - float64(r)*45
			drawRect(t, d, 20+float64(c)*90, top-40, 80, 40)
		}
	}
	_, err := d.Circle(200, 10, 0, 5)
	require.NoError(t, err)

	base := model.DefaultPageConfig()
	base.Prefix = "ID-"
	base.StartRow = 4
	res := ImportTemplateDXF(saveDrawing(t, d), base)

	require.Empty(t, res.Errors)
	assert.True(t, res.PageOutline)
	assert.Equal(t, 6, res.Labels)
	assert.Contains(t, res.Warnings, "Ignored 1 shapes not matching the 80.0 x 40.0 mm label size")

	c := res.Config
	assert.Equal(t, "A4", c.PageSize)
	assert.Equal(t, model.Portrait, c.Orientation)
	assert.InDelta(t, 80, c.LabelWidth, 1e-9)
	assert.InDelta(t, 40, c.LabelHeight, 1e-9)
	assert.Equal(t, 2, c.LabelsPerRow)
	assert.Equal(t, 3, c.LabelsPerColumn)
	assert.InDelta(t, 10, c.HorizontalSpacing, 1e-9)
	assert.InDelta(t, 5, c.VerticalSpacing, 1e-9)
	assert.InDelta(t, 20, c.MarginLeft, 1e-9)
	assert.InDelta(t, 15, c.MarginTop, 1e-9)
	assert.InDelta(t, 20, c.MarginRight, 1e-9)
	assert.InDelta(t, 152, c.MarginBottom, 1e-9)
	assert.Equal(t, 0, c.StartRow)
	assert.Equal(t, "ID-", c.Prefix)
	assert.Empty(t, c.Validate())
}

func TestImportTemplateDXF_WithoutSheetOutline(t *testing.T) {
	d := dxf.NewDrawing()
	drawRect(t, d, 10, 250, 60, 30)
	drawRect(t, d, 75, 250, 60, 30)

	base := model.DefaultPageConfig()
	res := ImportTemplateDXF(saveDrawing(t, d), base)

	require.Empty(t, res.Errors)
	assert.False(t, res.PageOutline)
	assert.Contains(t, res.Warnings, "No sheet outline found, using the configured page size")

	c := res.Config
	assert.Equal(t, base.PageWidth, c.PageWidth)
	assert.Equal(t, 2, c.LabelsPerRow)
	assert.Equal(t, 1, c.LabelsPerColumn)
	assert.InDelta(t, 5, c.HorizontalSpacing, 1e-9)
	assert.Zero(t, c.VerticalSpacing)
	assert.InDelta(t, 10, c.MarginLeft, 1e-9)
	assert.InDelta(t, 297-280, c.MarginTop, 1e-9)
	assert.InDelta(t, 250, c.MarginBottom, 1e-9)
}

func TestImportTemplateDXF_Errors(t *testing.T) {
	res := ImportTemplateDXF("/nonexistent/template.dxf", model.DefaultPageConfig())
	assert.NotEmpty(t, res.Errors)

	res = ImportTemplateDXF(saveDrawing(t, dxf.NewDrawing()), model.DefaultPageConfig())
	assert.Equal(t, []string{"DXF file contains no entities"}, res.Errors)

	d := dxf.NewDrawing()
	_, err := d.Line(0, 0, 0, 50, 0, 0)
	require.NoError(t, err)
	res = ImportTemplateDXF(saveDrawing(t, d), model.DefaultPageConfig())
	assert.Equal(t, []string{"No closed shapes found in DXF file"}, res.Errors)
}

// ─── Geometry Helper Tests ─────────────────────────────────

func TestChainSegments(t *testing.T) {
	square := []segment{
		{point{0, 0}, point{10, 0}},
		{point{10, 10}, point{10, 0}}, // reversed
		{point{10, 10}, point{0, 10}},
		{point{0, 10}, point{0, 0}},
		{point{50, 50}, point{60, 50}}, // open
	}
	chains := chainSegments(square, 0.01)
	require.Len(t, chains, 1)
	assert.Len(t, chains[0], 4)
	assert.Equal(t, box{0, 0, 10, 10}, boundsOf(chains[0]))
}

func TestMatchPaper(t *testing.T) {
	name, o := matchPaper(297, 210)
	assert.Equal(t, "A4", name)
	assert.Equal(t, model.Landscape, o)

	name, o = matchPaper(215.9, 279.4)
	assert.Equal(t, "Letter", name)
	assert.Equal(t, model.Portrait, o)

	name, _ = matchPaper(100, 100)
	assert.Equal(t, "Custom", name)
}

func TestDistinct(t *testing.T) {
	assert.Equal(t, []float64{10, 20.6}, distinct([]float64{20.6, 10, 10.2, 20.9}))
	assert.Nil(t, distinct(nil))
}
