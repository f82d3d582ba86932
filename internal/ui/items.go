package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/labelsheet/internal/engine"
	"github.com/piwi3910/labelsheet/internal/importer"
)

// ─── Items Panel ───────────────────────────────────────────

func (a *App) buildItemsPanel() fyne.CanvasObject {
	entry := widget.NewMultiLineEntry()
	entry.SetPlaceHolder("Paste IDs separated by new lines, commas, semicolons, pipes or tabs")
	entry.SetMinRowsVisible(8)

	addBtn := widget.NewButtonWithIcon("Add IDs", theme.ContentAddIcon(), func() {
		ids := importer.ParseIDs(entry.Text)
		if len(ids) == 0 {
			dialog.ShowInformation("No IDs", "No valid IDs found in the text.", a.window)
			return
		}
		a.snapshot("Add IDs")
		a.items = appendUnique(a.items, ids)
		entry.SetText("")
		a.refreshAll()
	})
	sampleBtn := widget.NewButton("Sample IDs", func() {
		a.snapshot("Sample IDs")
		a.items = appendUnique(a.items, importer.GenerateSampleIDs(25))
		a.refreshAll()
	})

	a.itemsContainer = container.NewVBox()
	a.refreshItems()

	toolbar := container.NewHBox(
		widget.NewLabelWithStyle("Item IDs", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		layout.NewSpacer(),
		newIconButtonWithTooltip(theme.FolderOpenIcon(), "Import IDs from CSV", a.importCSV),
		newIconButtonWithTooltip(theme.GridIcon(), "Import IDs from Excel", a.importExcel),
		newIconButtonWithTooltip(theme.ContentUndoIcon(), "Undo", a.undo),
		newIconButtonWithTooltip(theme.ContentRedoIcon(), "Redo", a.redo),
	)

	return container.NewBorder(
		container.NewVBox(toolbar, entry, container.NewHBox(addBtn, sampleBtn)),
		nil, nil, nil,
		container.NewVScroll(a.itemsContainer),
	)
}

// appendUnique adds ids not yet present, keeping order.
func appendUnique(items, ids []string) []string {
	seen := make(map[string]bool, len(items))
	for _, id := range items {
		seen[id] = true
	}
	out := append([]string{}, items...)
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (a *App) refreshItems() {
	if a.itemsContainer == nil {
		return
	}
	a.itemsContainer.RemoveAll()

	if len(a.items) == 0 {
		a.itemsContainer.Add(widget.NewLabel("No IDs added yet. Paste IDs above or import a CSV or Excel file."))
		return
	}

	est := engine.New(a.layout, a.engineOptions()...).Estimate(len(a.items))
	summary := widget.NewLabel(fmt.Sprintf(
		"%d IDs, %d sheet(s) needed, %d free cells on the first sheet",
		est.Items, est.SheetsNeeded, est.AvailableOnFirst))
	summary.TextStyle = fyne.TextStyle{Bold: true}
	a.itemsContainer.Add(summary)
	if est.HasOverflow() {
		warn := widget.NewLabel(fmt.Sprintf(
			"%d IDs will not be printed because used or skipped cells leave too few free cells per sheet.", est.Dropped))
		warn.Importance = widget.DangerImportance
		warn.Wrapping = fyne.TextWrapWord
		a.itemsContainer.Add(warn)
	}
	a.itemsContainer.Add(widget.NewSeparator())

	for i := range a.items {
		idx := i // capture
		row := container.NewBorder(nil, nil,
			widget.NewLabel(fmt.Sprintf("%d.", idx+1)),
			widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
				a.snapshot("Remove ID")
				a.items = append(a.items[:idx:idx], a.items[idx+1:]...)
				a.refreshAll()
			}),
			widget.NewLabel(a.items[idx]),
		)
		a.itemsContainer.Add(row)
	}
}

// ─── Import ────────────────────────────────────────────────

func (a *App) importCSV() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		a.handleImportResult(path, importer.ImportCSV(path))
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".csv", ".txt", ".tsv"}))
	d.Show()
}

func (a *App) importExcel() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		a.handleImportResult(path, importer.ImportExcel(path))
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".xlsx", ".xlsm"}))
	d.Show()
}

func (a *App) handleImportResult(path string, result importer.ImportResult) {
	if len(result.IDs) == 0 {
		msg := "No IDs imported."
		if len(result.Errors) > 0 {
			msg = strings.Join(result.Errors, "\n")
		}
		a.showError(fmt.Errorf("%s", msg))
		return
	}

	a.snapshot("Import IDs")
	a.items = appendUnique(a.items, result.IDs)
	a.rememberFile(path)
	a.refreshAll()

	a.logger.Info("imported IDs", "path", path, "count", len(result.IDs), "column", result.Column)
	msg := fmt.Sprintf("Imported %d IDs from column '%s' (%d rows).", len(result.IDs), result.Column, result.TotalRows)
	if problems := append(append([]string{}, result.Warnings...), result.Errors...); len(problems) > 0 {
		msg += "\n\n" + strings.Join(problems, "\n")
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}
