package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/labelsheet/internal/engine"
	"github.com/piwi3910/labelsheet/internal/ui/widgets"
)

// ─── Preview Panel ─────────────────────────────────────────

func (a *App) buildPreviewPanel() fyne.CanvasObject {
	a.previewContainer = container.NewStack()
	a.refreshPreview()

	toolbar := container.NewHBox(
		widget.NewLabelWithStyle("Print Preview", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		layout.NewSpacer(),
		widget.NewButton("Export PDF...", func() { a.exportFile(formatPDF) }),
		widget.NewButton("Export Print HTML...", func() { a.exportFile(formatHTML) }),
	)
	return container.NewBorder(toolbar, nil, nil, nil, a.previewContainer)
}

func (a *App) refreshPreview() {
	if a.previewContainer == nil {
		return
	}
	a.previewContainer.Objects = []fyne.CanvasObject{widgets.RenderPages(a.pages(), a.layout)}
	a.previewContainer.Refresh()
}

// showCompareDialog estimates the current run against every built-in preset.
func (a *App) showCompareDialog() {
	if len(a.items) == 0 {
		dialog.ShowInformation("Nothing to compare", "Add at least one ID first.", a.window)
		return
	}

	results := engine.CompareScenarios(engine.BuildPresetScenarios(a.layout), len(a.items), a.engineOptions()...)

	grid := container.NewGridWithColumns(5,
		widget.NewLabelWithStyle("Sheet", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Per Sheet", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Sheets", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Not Printed", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Coverage", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	for _, r := range results {
		grid.Add(widget.NewLabel(r.Scenario.Name))
		grid.Add(widget.NewLabel(fmt.Sprintf("%d", r.Estimate.LabelsPerSheet)))
		grid.Add(widget.NewLabel(fmt.Sprintf("%d", r.Estimate.SheetsNeeded)))
		grid.Add(widget.NewLabel(fmt.Sprintf("%d", r.Estimate.Dropped)))
		grid.Add(widget.NewLabel(fmt.Sprintf("%.1f%%", r.Utilisation)))
	}

	d := dialog.NewCustom(fmt.Sprintf("Compare Sheets for %d IDs", len(a.items)), "Close",
		container.NewVScroll(grid), a.window)
	d.Resize(fyne.NewSize(760, 360))
	d.Show()
}
