package model

import "math"

const (
	mmPerInch   = 25.4
	pointsPerMm = 2.834645669

	// ScreenDPI is the CSS reference pixel density used for previews.
	ScreenDPI = 96.0
)

// GridFit is the number of labels that physically fit on a sheet.
type GridFit struct {
	LabelsPerRow    int `json:"labels_per_row"`
	LabelsPerColumn int `json:"labels_per_column"`
	TotalPerPage    int `json:"total_per_page"`
}

// CalculateLabelsPerPage derives the grid from page size, margins, label size
// and spacing. Each axis is clamped to at least one label, so degenerate
// configurations still produce a 1x1 grid.
func CalculateLabelsPerPage(c PageConfig) GridFit {
	availW := c.PageWidth - c.MarginLeft - c.MarginRight
	availH := c.PageHeight - c.MarginTop - c.MarginBottom

	perRow := fitCount(availW, c.LabelWidth, c.HorizontalSpacing)
	perColumn := fitCount(availH, c.LabelHeight, c.VerticalSpacing)

	return GridFit{
		LabelsPerRow:    perRow,
		LabelsPerColumn: perColumn,
		TotalPerPage:    perRow * perColumn,
	}
}

// fitCount returns floor((avail+gap)/(size+gap)), at least 1.
func fitCount(avail, size, gap float64) int {
	pitch := size + gap
	if pitch <= 0 {
		return 1
	}
	n := int(math.Floor((avail + gap) / pitch))
	if n < 1 {
		return 1
	}
	return n
}

// MmToPx converts millimetres to pixels at the given density.
func MmToPx(mm, dpi float64) float64 {
	return mm * dpi / mmPerInch
}

// PxToMm converts pixels at the given density to millimetres.
func PxToMm(px, dpi float64) float64 {
	return px * mmPerInch / dpi
}

// MmToPoints converts millimetres to typographic points.
func MmToPoints(mm float64) float64 {
	return mm * pointsPerMm
}

// PointsToMm converts typographic points to millimetres.
func PointsToMm(pt float64) float64 {
	return pt / pointsPerMm
}
