package export

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/labelsheet/internal/model"
)

// ExportPDF writes one PDF page per layout page to path.
func ExportPDF(path string, pages []model.Page, cfg model.PageConfig) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create PDF file: %w", err)
	}
	if err := WritePDF(f, pages, cfg); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write PDF file: %w", err)
	}
	slog.Info("exported PDF", "path", path, "pages", len(pages))
	return nil
}

// WritePDF renders pages at their physical size. Every label gets its
// background, border and text (with prefix and suffix already applied by the
// layout), plus the configured machine-readable code.
func WritePDF(w io.Writer, pages []model.Page, cfg model.PageConfig) error {
	if len(pages) == 0 {
		return ErrNoPages
	}

	pdf := newDocument(cfg)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, page := range pages {
		pdf.AddPage()
		for _, label := range page.Labels {
			if err := renderLabel(pdf, tr, label, cfg); err != nil {
				return err
			}
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}

// newDocument sizes the document to the sheet. fpdf expects portrait
// dimensions together with the orientation flag.
func newDocument(cfg model.PageConfig) *fpdf.Fpdf {
	orientation := "P"
	w, h := cfg.PageWidth, cfg.PageHeight
	if w > h {
		orientation = "L"
		w, h = h, w
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Labels", true)
	return pdf
}

// renderLabel draws a single label on the current page.
func renderLabel(pdf *fpdf.Fpdf, tr func(string) string, label model.PlacedLabel, cfg model.PageConfig) error {
	x, y := label.Position.X, label.Position.Y
	lw, lh := label.Dimensions.Width, label.Dimensions.Height

	// Background
	if !isWhite(cfg.BackgroundColor) {
		bg := parseColor(cfg.BackgroundColor)
		pdf.SetFillColor(bg.R, bg.G, bg.B)
		pdf.Rect(x, y, lw, lh, "F")
	}

	// Border
	if cfg.BorderWidth > 0 {
		bc := parseColor(cfg.BorderColor)
		pdf.SetDrawColor(bc.R, bc.G, bc.B)
		pdf.SetLineWidth(model.PxToMm(cfg.BorderWidth, model.ScreenDPI))
		pdf.Rect(x, y, lw, lh, "D")
	}

	textW, textH := lw, lh
	code, err := encodeCode(cfg.Code, label.Text)
	if err != nil {
		return fmt.Errorf("label %s: %w", label.ID, err)
	}
	if code != nil {
		name := "code_" + label.ID
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(code))
		switch cfg.Code {
		case model.CodeQR:
			// Square on the right, text takes the rest
			size := min(lh-2*textPadding, lw/2)
			pdf.ImageOptions(name, x+lw-size-textPadding, y+(lh-size)/2, size, size, false, opts, 0, "")
			textW = lw - size - textPadding
		case model.CodeCode128:
			// Lower half, text above
			barH := lh / 2
			pdf.ImageOptions(name, x+textPadding, y+lh-barH-textPadding/2, lw-2*textPadding, barH, false, opts, 0, "")
			textH = lh - barH - textPadding/2
		}
	}

	fontSize := OptimalFontSize(label.Text, lw, lh, cfg.FontSize)
	pdf.SetFont(pdfFont(cfg.FontFamily), pdfFontStyle(cfg.FontWeight), fontSize)
	tc := parseColor(cfg.TextColor)
	pdf.SetTextColor(tc.R, tc.G, tc.B)

	text := fitText(pdf, tr, label.Text, textW-2*textPadding)
	pdf.SetXY(x+textPadding, y)
	pdf.CellFormat(textW-2*textPadding, textH, text, "", 0, pdfAlign(cfg.TextAlign), false, 0, "")

	return pdf.Error()
}

// fitText translates text for the core fonts and truncates it with "..."
// until it fits maxWidth at the current font.
func fitText(pdf *fpdf.Fpdf, tr func(string) string, text string, maxWidth float64) string {
	if maxWidth <= 0 || pdf.GetStringWidth(tr(text)) <= maxWidth {
		return tr(text)
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := tr(string(runes) + "...")
		if pdf.GetStringWidth(candidate) <= maxWidth {
			return candidate
		}
	}
	return ""
}
