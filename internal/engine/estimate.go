package engine

import "github.com/piwi3910/labelsheet/internal/model"

// SheetEstimate summarises how a print run maps onto sheets before any
// label is placed.
type SheetEstimate struct {
	Items             int `json:"items"`
	LabelsPerSheet    int `json:"labels_per_sheet"`    // grid capacity
	AvailableOnFirst  int `json:"available_on_first"`  // free cells on the first sheet
	AvailablePerSheet int `json:"available_per_sheet"` // free cells on every later sheet
	SheetsNeeded      int `json:"sheets_needed"`
	Placeable         int `json:"placeable"` // items that will be printed
	Dropped           int `json:"dropped"`   // items lost to used or skipped cells
}

// HasOverflow reports whether some items will not be printed.
func (s SheetEstimate) HasOverflow() bool {
	return s.Dropped > 0
}

// Estimate computes the sheet count and item loss for itemCount items
// without building the layout.
func (e *Engine) Estimate(itemCount int) SheetEstimate {
	perRow, perColumn := e.Config.GridSize()
	available := CalculateAvailablePositions(e.Config)

	est := SheetEstimate{
		Items:             itemCount,
		LabelsPerSheet:    perRow * perColumn,
		AvailableOnFirst:  available,
		AvailablePerSheet: available,
	}
	if e.firstSheetOnly {
		est.AvailablePerSheet = est.LabelsPerSheet
	}

	for _, p := range e.plan(itemCount) {
		placed := min(p.end-p.start, len(p.slots))
		est.Placeable += placed
		est.Dropped += p.end - p.start - placed
		est.SheetsNeeded++
	}
	return est
}

// EstimateSheets is Estimate with the default engine for cfg.
func EstimateSheets(itemCount int, cfg model.PageConfig) SheetEstimate {
	return New(cfg).Estimate(itemCount)
}
