package export

import (
	"bytes"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/labelsheet/internal/engine"
	"github.com/piwi3910/labelsheet/internal/importer"
	"github.com/piwi3910/labelsheet/internal/model"
)

func items(n int) []string {
	return importer.GenerateSampleIDs(n)
}

func decodePNG(t *testing.T, data []byte) *gozxing.BinaryBitmap {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)
	return bmp
}

// ─── Style Tests ───────────────────────────────────────────

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want rgb
	}{
		{"#ff0000", rgb{255, 0, 0}},
		{"#FFFFFF", rgb{255, 255, 255}},
		{"00ff00", rgb{0, 255, 0}},
		{"#abc", rgb{170, 187, 204}},
		{"not-a-colour", rgb{}},
		{"", rgb{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseColor(tt.in))
		})
	}
	assert.True(t, isWhite("#ffffff"))
	assert.False(t, isWhite("#fffffe"))
}

func TestPdfFont(t *testing.T) {
	assert.Equal(t, "Helvetica", pdfFont("Arial"))
	assert.Equal(t, "Times", pdfFont("Times New Roman"))
	assert.Equal(t, "Courier", pdfFont("courier new"))
	assert.Equal(t, "Helvetica", pdfFont("Comic Sans"))
	assert.Equal(t, "B", pdfFontStyle("bold"))
	assert.Equal(t, "", pdfFontStyle("normal"))
	assert.Equal(t, "LM", pdfAlign("left"))
	assert.Equal(t, "RM", pdfAlign("right"))
	assert.Equal(t, "CM", pdfAlign("center"))
}

func TestOptimalFontSize(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		w, h, base float64
		want       float64
	}{
		{"short text keeps size", "EMP0001", 50, 25, 12, 12},
		{"long text on small label", "ABCDEFGHIJKL", 30, 20, 12, 10},
		{"very long text on medium label", "ABCDEFGHIJKLMNOP", 50, 25, 12, 9},
		{"long text on large label", "ABCDEFGHIJKLMNOP", 80, 40, 12, 12},
		{"clamped low", "ABCDEFGHIJKL", 30, 20, 7, 6},
		{"clamped high", "A", 80, 40, 40, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, OptimalFontSize(tt.text, tt.w, tt.h, tt.base), 1e-9)
		})
	}
}

// ─── Code Tests ────────────────────────────────────────────

func TestEncodeQR_Decodes(t *testing.T) {
	data, err := EncodeQR("EMP0042", 256)
	require.NoError(t, err)

	result, err := zxqr.NewQRCodeReader().Decode(decodePNG(t, data), nil)
	require.NoError(t, err)
	assert.Equal(t, "EMP0042", result.GetText())
}

func TestEncodeCode128_Decodes(t *testing.T) {
	data, err := EncodeCode128("ID-12345", 80)
	require.NoError(t, err)

	result, err := oned.NewCode128Reader().Decode(decodePNG(t, data), nil)
	require.NoError(t, err)
	assert.Equal(t, "ID-12345", result.GetText())
}

func TestEncodeCode_None(t *testing.T) {
	data, err := encodeCode(model.CodeNone, "X")
	require.NoError(t, err)
	assert.Nil(t, data)
}

// ─── PDF Tests ─────────────────────────────────────────────

func TestExportPDF_PageCount(t *testing.T) {
	cfg := model.DefaultPageConfig()
	pages := engine.Layout(items(65), cfg)
	require.Len(t, pages, 3)

	path := filepath.Join(t.TempDir(), "labels.pdf")
	require.NoError(t, ExportPDF(path, pages, cfg))

	n, err := api.PageCountFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestExportPDF_StylesAndCodes(t *testing.T) {
	for _, code := range []model.CodeKind{model.CodeQR, model.CodeCode128} {
		t.Run(string(code), func(t *testing.T) {
			cfg := model.DefaultPageConfig()
			cfg.Orientation = model.Landscape
			cfg.PageWidth, cfg.PageHeight = 297, 210
			cfg.BackgroundColor = "#fff3e0"
			cfg.FontWeight = "bold"
			cfg.TextAlign = "left"
			cfg.FontFamily = "Courier New"
			cfg.Code = code
			cfg.Prefix = "Émp-"

			var buf bytes.Buffer
			require.NoError(t, WritePDF(&buf, engine.Layout(items(5), cfg), cfg))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		})
	}
}

func TestRenderLabel_BorderWidthInScreenPixels(t *testing.T) {
	cfg := model.DefaultPageConfig()
	cfg.BorderWidth = 3
	label := engine.Layout(items(1), cfg)[0].Labels[0]

	pdf := newDocument(cfg)
	pdf.AddPage()
	require.NoError(t, renderLabel(pdf, pdf.UnicodeTranslatorFromDescriptor(""), label, cfg))

	// 3 px at 96 dpi, the same stroke the SVG and HTML previews draw
	assert.InDelta(t, 3*25.4/96, pdf.GetLineWidth(), 1e-9)
	assert.InDelta(t, model.PxToMm(3, model.ScreenDPI), pdf.GetLineWidth(), 1e-9)
}

func TestWritePDF_NoPages(t *testing.T) {
	var buf bytes.Buffer
	err := WritePDF(&buf, nil, model.DefaultPageConfig())
	assert.ErrorIs(t, err, ErrNoPages)
	assert.Zero(t, buf.Len())
}

func TestFitText(t *testing.T) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	same := func(s string) string { return s }

	assert.Equal(t, "ID1", fitText(pdf, same, "ID1", 40))

	got := fitText(pdf, same, "A-VERY-LONG-EMPLOYEE-IDENTIFIER", 20)
	assert.True(t, strings.HasSuffix(got, "..."), got)
	assert.LessOrEqual(t, pdf.GetStringWidth(got), 20.0)
}

// ─── SVG Tests ─────────────────────────────────────────────

func TestWriteSVG(t *testing.T) {
	cfg := model.DefaultPageConfig()
	cfg.StartRow = 1
	cfg.UsedPositions = []model.Position{{Row: 2, Col: 0}, {Row: 2, Col: 1}}
	cfg.Suffix = " <A&B>"
	pages := engine.Layout(items(4), cfg)
	require.Len(t, pages, 1)

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, pages[0], cfg, SVGOptions{ShowGrid: true}))
	out := buf.String()

	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, `width="794"`)
	assert.Contains(t, out, "EMP0001 &lt;A&amp;B&gt;")
	assert.Equal(t, 2, strings.Count(out, `data-status="used"`))
	assert.Equal(t, 3, strings.Count(out, `data-status="skipped"`))
	assert.Equal(t, 25, strings.Count(out, `data-status="available"`))
	assert.Contains(t, out, `id="label-0-3"`)
}

func TestWriteSVG_WithQR(t *testing.T) {
	cfg := model.DefaultPageConfig()
	cfg.Code = model.CodeQR
	pages := engine.Layout(items(2), cfg)

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, pages[0], cfg, SVGOptions{DPI: 150}))
	assert.Equal(t, 2, strings.Count(buf.String(), "data:image/png;base64,"))
	assert.NotContains(t, buf.String(), "data-status")
}

// ─── HTML Tests ────────────────────────────────────────────

func TestWritePrintHTML(t *testing.T) {
	cfg := model.DefaultPageConfig()
	pages := engine.Layout(append(items(31), "<script>"), cfg)
	require.Len(t, pages, 2)

	var buf bytes.Buffer
	require.NoError(t, WritePrintHTML(&buf, pages, cfg))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "@page { size: 210mm 297mm; margin: 0; }")
	assert.Equal(t, 2, strings.Count(out, `class="page"`))
	assert.Equal(t, 32, strings.Count(out, `class="label"`))
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "<script>")
}

func TestWritePrintHTML_NoPages(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WritePrintHTML(&buf, []model.Page{}, model.DefaultPageConfig()), ErrNoPages)
}

func TestLabelStyle(t *testing.T) {
	cfg := model.DefaultPageConfig()
	cfg.TextAlign = "right"
	cfg.BorderWidth = 2
	cfg.BorderColor = "#FF0000"
	label := engine.Layout([]string{"A1"}, cfg)[0].Labels[0]

	style := LabelStyle(label, cfg)
	assert.Contains(t, style, "position: absolute")
	assert.Contains(t, style, "left: 37.8px")
	assert.Contains(t, style, "width: 188.98px")
	assert.Contains(t, style, "font-size: 12pt")
	assert.Contains(t, style, "justify-content: flex-end")
	assert.Contains(t, style, "border: 2px solid #ff0000")

	page := PageStyle(cfg)
	assert.Contains(t, page, "width: 793.7px")
	assert.Contains(t, page, "height: 1122.52px")
}

func TestExportPrintHTML_File(t *testing.T) {
	cfg := model.DefaultPageConfig()
	cfg.Code = model.CodeCode128
	path := filepath.Join(t.TempDir(), "labels.html")
	require.NoError(t, ExportPrintHTML(path, engine.Layout(items(3), cfg), cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), `alt="code128"`))
}

// ─── DXF Tests ─────────────────────────────────────────────

func TestExportDXF_RoundTrip(t *testing.T) {
	cfg := model.DefaultPageConfig()
	cfg.UsedPositions = []model.Position{{Row: 0, Col: 0}}
	path := filepath.Join(t.TempDir(), "template.dxf")
	require.NoError(t, ExportDXF(path, cfg))

	res := importer.ImportTemplateDXF(path, model.DefaultPageConfig())
	require.Empty(t, res.Errors)
	assert.Equal(t, 30, res.Labels)
	assert.Equal(t, "A4", res.Config.PageSize)
	assert.InDelta(t, 50, res.Config.LabelWidth, 0.01)
	assert.InDelta(t, 25, res.Config.LabelHeight, 0.01)
	assert.Equal(t, 3, res.Config.LabelsPerRow)
	assert.Equal(t, 10, res.Config.LabelsPerColumn)
	assert.InDelta(t, 10, res.Config.MarginLeft, 0.01)
	assert.InDelta(t, 10, res.Config.MarginTop, 0.01)
	assert.InDelta(t, 5, res.Config.HorizontalSpacing, 0.01)
	assert.InDelta(t, 3, res.Config.VerticalSpacing, 0.01)
}

func TestBuildDXF_Layers(t *testing.T) {
	cfg := model.DefaultPageConfig()
	cfg.UsedPositions = []model.Position{{Row: 1, Col: 1}, {Row: 4, Col: 2}}

	d, err := BuildDXF(cfg)
	require.NoError(t, err)
	// sheet + 30 cells, four lines each
	assert.Len(t, d.Entities(), 4*31)
}
