package model

import "fmt"

// Orientation of the sheet.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// CodeKind selects an optional machine-readable code printed next to the label text.
type CodeKind string

const (
	CodeNone    CodeKind = ""
	CodeQR      CodeKind = "qr"
	CodeCode128 CodeKind = "code128"
)

// Position addresses one grid cell (0-based).
type Position struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d-%d", p.Row, p.Col)
}

// PageConfig describes one label sheet: page geometry, label geometry,
// the first cell to print into and the cells already peeled off.
// All lengths are in mm.
type PageConfig struct {
	PageSize    string      `json:"page_size" yaml:"page_size"`
	Orientation Orientation `json:"orientation" yaml:"orientation"`
	PageWidth   float64     `json:"page_width" yaml:"page_width"`
	PageHeight  float64     `json:"page_height" yaml:"page_height"`

	MarginTop    float64 `json:"margin_top" yaml:"margin_top"`
	MarginBottom float64 `json:"margin_bottom" yaml:"margin_bottom"`
	MarginLeft   float64 `json:"margin_left" yaml:"margin_left"`
	MarginRight  float64 `json:"margin_right" yaml:"margin_right"`

	LabelWidth        float64 `json:"label_width" yaml:"label_width"`
	LabelHeight       float64 `json:"label_height" yaml:"label_height"`
	HorizontalSpacing float64 `json:"horizontal_spacing" yaml:"horizontal_spacing"`
	VerticalSpacing   float64 `json:"vertical_spacing" yaml:"vertical_spacing"`

	// Zero means "derive from geometry", see GridSize.
	LabelsPerRow    int `json:"labels_per_row" yaml:"labels_per_row"`
	LabelsPerColumn int `json:"labels_per_column" yaml:"labels_per_column"`

	StartRow      int        `json:"start_row" yaml:"start_row"`
	StartColumn   int        `json:"start_column" yaml:"start_column"`
	UsedPositions []Position `json:"used_positions" yaml:"used_positions"`

	// Text styling, carried through to renderers untouched.
	FontSize        float64  `json:"font_size" yaml:"font_size"` // pt
	FontFamily      string   `json:"font_family" yaml:"font_family"`
	FontWeight      string   `json:"font_weight" yaml:"font_weight"` // "normal" or "bold"
	TextAlign       string   `json:"text_align" yaml:"text_align"`   // "left", "center", "right"
	TextColor       string   `json:"text_color" yaml:"text_color"`
	BackgroundColor string   `json:"background_color" yaml:"background_color"`
	BorderColor     string   `json:"border_color" yaml:"border_color"`
	BorderWidth     float64  `json:"border_width" yaml:"border_width"` // px
	Prefix          string   `json:"prefix" yaml:"prefix"`
	Suffix          string   `json:"suffix" yaml:"suffix"`
	Code            CodeKind `json:"code,omitempty" yaml:"code,omitempty"`
}

// DefaultPageConfig returns an A4 sheet of 50x25 mm labels in a 3x10 grid.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		PageSize:          "A4",
		Orientation:       Portrait,
		PageWidth:         210,
		PageHeight:        297,
		MarginTop:         10,
		MarginBottom:      10,
		MarginLeft:        10,
		MarginRight:       10,
		LabelWidth:        50,
		LabelHeight:       25,
		HorizontalSpacing: 5,
		VerticalSpacing:   3,
		LabelsPerRow:      3,
		LabelsPerColumn:   10,
		UsedPositions:     []Position{},
		FontSize:          12,
		FontFamily:        "Arial",
		FontWeight:        "normal",
		TextAlign:         "center",
		TextColor:         "#000000",
		BackgroundColor:   "#ffffff",
		BorderColor:       "#cccccc",
		BorderWidth:       1,
	}
}

// GridSize returns the label grid of the sheet. Explicit LabelsPerRow and
// LabelsPerColumn win when both are set; otherwise the grid is derived from
// the page geometry.
func (c PageConfig) GridSize() (perRow, perColumn int) {
	if c.LabelsPerRow >= 1 && c.LabelsPerColumn >= 1 {
		return c.LabelsPerRow, c.LabelsPerColumn
	}
	fit := CalculateLabelsPerPage(c)
	return fit.LabelsPerRow, fit.LabelsPerColumn
}

// WithDerivedGrid returns a copy whose grid is recomputed from the geometry.
func (c PageConfig) WithDerivedGrid() PageConfig {
	fit := CalculateLabelsPerPage(c)
	c.LabelsPerRow = fit.LabelsPerRow
	c.LabelsPerColumn = fit.LabelsPerColumn
	return c
}

// Clone returns a deep copy of the config.
func (c PageConfig) Clone() PageConfig {
	used := make([]Position, len(c.UsedPositions))
	copy(used, c.UsedPositions)
	c.UsedPositions = used
	return c
}

// IsUsed reports whether the cell is listed in UsedPositions.
func (c PageConfig) IsUsed(row, col int) bool {
	for _, p := range c.UsedPositions {
		if p.Row == row && p.Col == col {
			return true
		}
	}
	return false
}

// Validate returns a human-readable message for every violated constraint.
// An empty result means the config is usable as-is.
func (c PageConfig) Validate() []string {
	var errs []string
	if c.PageWidth <= 0 || c.PageHeight <= 0 {
		errs = append(errs, "Page width and height must be greater than 0")
	}
	if c.LabelWidth <= 0 {
		errs = append(errs, "Label width must be greater than 0")
	}
	if c.LabelHeight <= 0 {
		errs = append(errs, "Label height must be greater than 0")
	}
	if c.LabelsPerRow < 0 {
		errs = append(errs, "Labels per row must be greater than 0")
	}
	if c.LabelsPerColumn < 0 {
		errs = append(errs, "Labels per column must be greater than 0")
	}
	if c.FontSize <= 0 {
		errs = append(errs, "Font size must be greater than 0")
	}
	if c.MarginLeft < 0 || c.MarginRight < 0 || c.MarginTop < 0 || c.MarginBottom < 0 {
		errs = append(errs, "Margins cannot be negative")
	}
	if c.HorizontalSpacing < 0 || c.VerticalSpacing < 0 {
		errs = append(errs, "Spacing cannot be negative")
	}

	perRow, perColumn := c.GridSize()
	if c.StartRow < 0 || c.StartRow >= perColumn {
		errs = append(errs, fmt.Sprintf("Start row %d is outside the grid (0-%d)", c.StartRow, perColumn-1))
	}
	if c.StartColumn < 0 || c.StartColumn >= perRow {
		errs = append(errs, fmt.Sprintf("Start column %d is outside the grid (0-%d)", c.StartColumn, perRow-1))
	}
	for _, p := range c.UsedPositions {
		if p.Row < 0 || p.Row >= perColumn || p.Col < 0 || p.Col >= perRow {
			errs = append(errs, fmt.Sprintf("Used position %s is outside the %dx%d grid", p, perRow, perColumn))
		}
	}
	return errs
}

// CellStatus classifies a grid cell for printing.
type CellStatus int

const (
	CellAvailable CellStatus = iota // Will receive a label
	CellUsed                        // Already peeled off the sheet
	CellSkipped                     // Before the start position
)

func (s CellStatus) String() string {
	switch s {
	case CellUsed:
		return "used"
	case CellSkipped:
		return "skipped"
	default:
		return "available"
	}
}

// GridCell is one cell of a position grid.
type GridCell struct {
	Row    int        `json:"row"`
	Col    int        `json:"col"`
	Status CellStatus `json:"status"`
}

// Point is a page coordinate in mm from the top-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in mm.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PlacedLabel is a label positioned on a page.
type PlacedLabel struct {
	ID           string `json:"id"`
	SourceItemID string `json:"source_item_id"`
	Text         string `json:"text"`
	Position     Point  `json:"position"`
	Dimensions   Size   `json:"dimensions"`
	Row          int    `json:"row"`
	Col          int    `json:"col"`
}

// Page is one printed sheet.
type Page struct {
	PageIndex   int           `json:"page_index"`
	Labels      []PlacedLabel `json:"labels"`
	TotalLabels int           `json:"total_labels"`
	Dropped     int           `json:"dropped"` // items of this page's chunk that found no free cell
}
