package model

import "sort"

// PaperSize is a named sheet size in portrait orientation.
type PaperSize struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`  // mm
	Height float64 `json:"height"` // mm
}

// PaperSizes lists the supported sheet sizes keyed by name.
var PaperSizes = map[string]PaperSize{
	"A4":     {Name: "A4", Width: 210, Height: 297},
	"Letter": {Name: "Letter", Width: 215.9, Height: 279.4},
	"Legal":  {Name: "Legal", Width: 215.9, Height: 355.6},
	"A3":     {Name: "A3", Width: 297, Height: 420},
	"A5":     {Name: "A5", Width: 148, Height: 210},
}

// PaperSizeNames returns the paper size names sorted alphabetically.
func PaperSizeNames() []string {
	names := make([]string, 0, len(PaperSizes))
	for name := range PaperSizes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPaperSize sets the page dimensions from a named paper size, honouring
// the config's orientation. Unknown names leave the config unchanged and
// return false.
func ApplyPaperSize(c PageConfig, name string) (PageConfig, bool) {
	ps, ok := PaperSizes[name]
	if !ok {
		return c, false
	}
	c.PageSize = ps.Name
	c.PageWidth, c.PageHeight = ps.Width, ps.Height
	if c.Orientation == Landscape {
		c.PageWidth, c.PageHeight = ps.Height, ps.Width
	}
	return c, true
}

// LabelPreset describes a commercially available label sheet.
type LabelPreset struct {
	Key               string  `json:"key"`
	Name              string  `json:"name"`
	PageSize          string  `json:"page_size"`
	LabelWidth        float64 `json:"label_width"`
	LabelHeight       float64 `json:"label_height"`
	LabelsPerRow      int     `json:"labels_per_row"`
	LabelsPerColumn   int     `json:"labels_per_column"`
	MarginTop         float64 `json:"margin_top"`
	MarginLeft        float64 `json:"margin_left"`
	HorizontalSpacing float64 `json:"horizontal_spacing"`
	VerticalSpacing   float64 `json:"vertical_spacing"`
}

// LabelPresets are the built-in sheet layouts, in display order.
var LabelPresets = []LabelPreset{
	{Key: "avery_5160", Name: "Avery 5160 (Address Labels)", PageSize: "Letter", LabelWidth: 66.7, LabelHeight: 25.4, LabelsPerRow: 3, LabelsPerColumn: 10, MarginTop: 12.7, MarginLeft: 4.7, HorizontalSpacing: 3.2},
	{Key: "avery_5161", Name: "Avery 5161 (Address Labels)", PageSize: "Letter", LabelWidth: 101.6, LabelHeight: 25.4, LabelsPerRow: 2, LabelsPerColumn: 10, MarginTop: 12.7, MarginLeft: 4.7, HorizontalSpacing: 3.2},
	{Key: "avery_5162", Name: "Avery 5162 (Address Labels)", PageSize: "Letter", LabelWidth: 101.6, LabelHeight: 33.9, LabelsPerRow: 2, LabelsPerColumn: 7, MarginTop: 21.2, MarginLeft: 4.7, HorizontalSpacing: 3.2},
	{Key: "custom_small", Name: "Small ID Labels", PageSize: "A4", LabelWidth: 40, LabelHeight: 20, LabelsPerRow: 4, LabelsPerColumn: 12, MarginTop: 15, MarginLeft: 10, HorizontalSpacing: 5, VerticalSpacing: 3},
	{Key: "custom_medium", Name: "Medium ID Labels", PageSize: "A4", LabelWidth: 60, LabelHeight: 30, LabelsPerRow: 3, LabelsPerColumn: 8, MarginTop: 15, MarginLeft: 10, HorizontalSpacing: 5, VerticalSpacing: 5},
	{Key: "custom_large", Name: "Large ID Labels", PageSize: "A4", LabelWidth: 80, LabelHeight: 40, LabelsPerRow: 2, LabelsPerColumn: 6, MarginTop: 20, MarginLeft: 15, HorizontalSpacing: 10, VerticalSpacing: 8},
}

// FindLabelPreset looks a built-in preset up by key or display name.
func FindLabelPreset(keyOrName string) (LabelPreset, bool) {
	for _, p := range LabelPresets {
		if p.Key == keyOrName || p.Name == keyOrName {
			return p, true
		}
	}
	return LabelPreset{}, false
}

// ApplyPreset merges a label preset into a config. Styling, start position and
// used cells are kept; the start position is reset when it falls off the
// preset's grid.
func ApplyPreset(c PageConfig, p LabelPreset) PageConfig {
	c, _ = ApplyPaperSize(c, p.PageSize)
	c.LabelWidth = p.LabelWidth
	c.LabelHeight = p.LabelHeight
	c.LabelsPerRow = p.LabelsPerRow
	c.LabelsPerColumn = p.LabelsPerColumn
	c.MarginTop = p.MarginTop
	c.MarginLeft = p.MarginLeft
	c.HorizontalSpacing = p.HorizontalSpacing
	c.VerticalSpacing = p.VerticalSpacing

	if c.StartRow >= p.LabelsPerColumn || c.StartColumn >= p.LabelsPerRow {
		c.StartRow, c.StartColumn = 0, 0
	}
	return c
}
