package analysis

import "github.com/piwi3910/labelsheet/internal/model"

// DebugInfo records intermediate results of an analysis run.
type DebugInfo struct {
	Frame           Frame         `json:"frame"`
	Scale           float64       `json:"scale"`
	EdgePixels      int           `json:"edge_pixels"`
	EdgeDensity     float64       `json:"edge_density"`
	TotalRectangles int           `json:"total_rectangles"`
	Pattern         Pattern       `json:"pattern"`
	Measurements    *Measurements `json:"measurements,omitempty"`
	Error           string        `json:"error,omitempty"`
}

// LayoutProposal is the inferred sheet layout for a photographed sheet.
type LayoutProposal struct {
	LabelWidth           float64           `json:"label_width"`
	LabelHeight          float64           `json:"label_height"`
	MarginTop            float64           `json:"margin_top"`
	MarginLeft           float64           `json:"margin_left"`
	MarginRight          float64           `json:"margin_right"`
	MarginBottom         float64           `json:"margin_bottom"`
	HorizontalSpacing    float64           `json:"horizontal_spacing"`
	VerticalSpacing      float64           `json:"vertical_spacing"`
	LabelsPerRow         int               `json:"labels_per_row"`
	LabelsPerColumn      int               `json:"labels_per_column"`
	TotalLabels          int               `json:"total_labels"`
	EstimatedDPI         int               `json:"estimated_dpi,omitempty"`
	DetectedStandardSize string            `json:"detected_standard_size,omitempty"`
	MeasurementSource    MeasurementSource `json:"measurement_confidence"`

	DetectedLabels int          `json:"detected_labels"`
	GridDetected   bool         `json:"grid_detected"`
	Confidence     float64      `json:"confidence"`
	ImageQuality   ImageQuality `json:"image_quality"`
	Suggestions    []string     `json:"suggestions"`
	Debug          DebugInfo    `json:"debug"`
}

func newProposal(m Measurements) LayoutProposal {
	return LayoutProposal{
		LabelWidth:           m.LabelWidth,
		LabelHeight:          m.LabelHeight,
		MarginTop:            m.MarginTop,
		MarginLeft:           m.MarginLeft,
		MarginRight:          m.MarginRight,
		MarginBottom:         m.MarginBottom,
		HorizontalSpacing:    m.HorizontalSpacing,
		VerticalSpacing:      m.VerticalSpacing,
		LabelsPerRow:         m.LabelsPerRow,
		LabelsPerColumn:      m.LabelsPerColumn,
		TotalLabels:          m.TotalLabels,
		EstimatedDPI:         m.EstimatedDPI,
		DetectedStandardSize: m.DetectedStandardSize,
		MeasurementSource:    m.Source,
	}
}

// ApplyTo copies the proposed geometry onto a page config. Page size, text
// styling and used cells are kept; the start position is reset.
func (lp LayoutProposal) ApplyTo(c model.PageConfig) model.PageConfig {
	c.LabelWidth = lp.LabelWidth
	c.LabelHeight = lp.LabelHeight
	c.MarginTop = lp.MarginTop
	c.MarginLeft = lp.MarginLeft
	c.MarginRight = lp.MarginRight
	c.MarginBottom = lp.MarginBottom
	c.HorizontalSpacing = lp.HorizontalSpacing
	c.VerticalSpacing = lp.VerticalSpacing
	if lp.LabelsPerRow > 0 && lp.LabelsPerColumn > 0 {
		c.LabelsPerRow = lp.LabelsPerRow
		c.LabelsPerColumn = lp.LabelsPerColumn
	}
	c.StartRow, c.StartColumn = 0, 0
	return c
}
