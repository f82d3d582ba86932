// Package export renders laid-out label pages to PDF, SVG, print-ready HTML
// and DXF die-cut templates.
package export

import (
	"errors"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrNoPages is returned when there is nothing to render.
var ErrNoPages = errors.New("export: no pages to render")

// textPadding is the horizontal inset of label text, in mm.
const textPadding = 1.0

// rgb is an 8-bit colour.
type rgb struct {
	R, G, B int
}

// parseColor reads a #rrggbb (or #rgb) colour. Anything unparsable is black.
func parseColor(hex string) rgb {
	c, err := colorful.Hex(normalizeHex(hex))
	if err != nil {
		return rgb{}
	}
	r, g, b := c.RGB255()
	return rgb{R: int(r), G: int(g), B: int(b)}
}

func normalizeHex(hex string) string {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	return strings.ToLower(hex)
}

// isWhite reports whether hex is pure white; white backgrounds are not painted.
func isWhite(hex string) bool {
	return parseColor(hex) == rgb{R: 255, G: 255, B: 255}
}

// pdfFont maps a CSS font family to one of the PDF core fonts.
func pdfFont(family string) string {
	switch strings.ToLower(strings.TrimSpace(family)) {
	case "times new roman", "times":
		return "Times"
	case "courier new", "courier":
		return "Courier"
	default:
		return "Helvetica"
	}
}

// pdfFontStyle maps a CSS font weight to an fpdf style string.
func pdfFontStyle(weight string) string {
	if strings.EqualFold(weight, "bold") {
		return "B"
	}
	return ""
}

// pdfAlign maps a CSS text alignment to an fpdf cell alignment, vertically centred.
func pdfAlign(align string) string {
	switch align {
	case "left":
		return "LM"
	case "right":
		return "RM"
	default:
		return "CM"
	}
}

// OptimalFontSize shrinks the configured font size for long IDs on small
// labels. Label dimensions are in mm; the result is clamped to 6-24 pt.
func OptimalFontSize(text string, labelWidth, labelHeight, fontSize float64) float64 {
	const minFontSize, maxFontSize = 6.0, 24.0

	n := len([]rune(text))
	area := labelWidth * labelHeight
	switch {
	case n > 10 && area < 1000:
		fontSize = max(minFontSize, fontSize-2)
	case n > 15 && area < 1500:
		fontSize = max(minFontSize, fontSize-3)
	}
	return min(maxFontSize, max(minFontSize, fontSize))
}
