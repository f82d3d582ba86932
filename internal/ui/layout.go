package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/labelsheet/internal/engine"
	"github.com/piwi3910/labelsheet/internal/model"
	"github.com/piwi3910/labelsheet/internal/ui/widgets"
)

// layoutStatus holds the widgets that follow every field edit.
type layoutStatus struct {
	canvas     *widgets.PageCanvas
	validation *widget.Label
	summary    *widget.Label
	usedEntry  *widget.Entry
	syncing    bool // usedEntry is being set from the canvas
}

var (
	fontFamilies = []string{"Arial", "Helvetica", "Times New Roman", "Courier New"}
	codeKinds    = map[string]model.CodeKind{"None": model.CodeNone, "QR code": model.CodeQR, "Code 128": model.CodeCode128}
	codeNames    = []string{"None", "QR code", "Code 128"}
)

func codeName(k model.CodeKind) string {
	for name, kind := range codeKinds {
		if kind == k {
			return name
		}
	}
	return "None"
}

// ─── Layout Panel ──────────────────────────────────────────

func (a *App) buildLayoutPanel() fyne.CanvasObject {
	a.layoutContainer = container.NewStack()
	a.refreshLayout()
	return a.layoutContainer
}

// refreshLayout rebuilds the layout form from the current sheet.
func (a *App) refreshLayout() {
	if a.layoutContainer == nil {
		return
	}
	status := &layoutStatus{
		validation: widget.NewLabel(""),
		summary:    widget.NewLabel(""),
	}
	status.validation.Importance = widget.DangerImportance
	status.validation.Wrapping = fyne.TextWrapWord

	status.canvas = widgets.NewPageCanvas(a.layout, nil, 420, 594)
	status.canvas.OnCellTapped = func(pos model.Position) {
		a.snapshot("Toggle Used Cell")
		a.layout.UsedPositions = toggleUsed(a.layout.UsedPositions, pos)
		status.syncing = true
		status.usedEntry.SetText(engine.FormatUsedPositions(a.layout.UsedPositions))
		status.syncing = false
		a.updateLayoutStatus(status)
	}

	changed := func() { a.updateLayoutStatus(status) }

	floatEntry := func(field string, val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.FormatFloat(*val, 'f', -1, 64))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil && v != *val {
				a.snapshotEdit(field)
				*val = v
				changed()
			}
		}
		return e
	}
	intEntry := func(field string, val *int) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.Itoa(*val))
		e.OnChanged = func(text string) {
			if v, err := strconv.Atoi(strings.TrimSpace(text)); err == nil && v != *val {
				a.snapshotEdit(field)
				*val = v
				changed()
			}
		}
		return e
	}
	textEntry := func(field string, val *string) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(*val)
		e.OnChanged = func(text string) {
			a.snapshotEdit(field)
			*val = text
			changed()
		}
		return e
	}

	cfg := &a.layout

	presetSelect := widget.NewSelect(a.presetChoices(), func(name string) {
		a.applyPresetByName(name)
	})
	presetSelect.PlaceHolder = "Apply a preset..."

	paperSelect := widget.NewSelect(model.PaperSizeNames(), func(name string) {
		c, ok := model.ApplyPaperSize(a.layout, name)
		if !ok || (c.PageSize == a.layout.PageSize && c.PageWidth == a.layout.PageWidth && c.PageHeight == a.layout.PageHeight) {
			return
		}
		a.snapshot("Paper Size")
		a.layout = c
		a.refreshLayout()
	})
	paperSelect.SetSelected(cfg.PageSize)

	orientation := widget.NewRadioGroup([]string{string(model.Portrait), string(model.Landscape)}, func(v string) {
		o := model.Orientation(v)
		if o == a.layout.Orientation {
			return
		}
		a.snapshot("Orientation")
		a.layout.Orientation = o
		a.layout.PageWidth, a.layout.PageHeight = a.layout.PageHeight, a.layout.PageWidth
		a.refreshLayout()
	})
	orientation.Horizontal = true
	orientation.SetSelected(string(cfg.Orientation))

	status.usedEntry = widget.NewEntry()
	status.usedEntry.SetPlaceHolder("e.g. 0-0, 0-1, 2-3")
	status.usedEntry.SetText(engine.FormatUsedPositions(cfg.UsedPositions))
	status.usedEntry.OnChanged = func(text string) {
		if status.syncing {
			return
		}
		a.snapshotEdit("Used Positions")
		a.layout.UsedPositions = engine.ParseUsedPositions(text)
		changed()
	}

	deriveBtn := widget.NewButton("Fit Grid to Page", func() {
		a.snapshot("Fit Grid")
		a.layout = a.layout.WithDerivedGrid()
		a.refreshLayout()
	})
	savePresetBtn := widget.NewButton("Save as Preset...", a.showSavePresetDialog)

	familySelect := widget.NewSelect(fontFamilies, func(v string) { cfg.FontFamily = v; changed() })
	familySelect.SetSelected(cfg.FontFamily)
	boldCheck := widget.NewCheck("Bold", func(on bool) {
		cfg.FontWeight = "normal"
		if on {
			cfg.FontWeight = "bold"
		}
		changed()
	})
	boldCheck.SetChecked(cfg.FontWeight == "bold")
	alignSelect := widget.NewSelect([]string{"left", "center", "right"}, func(v string) { cfg.TextAlign = v; changed() })
	alignSelect.SetSelected(cfg.TextAlign)
	codeSelect := widget.NewSelect(codeNames, func(v string) { cfg.Code = codeKinds[v]; changed() })
	codeSelect.SetSelected(codeName(cfg.Code))

	sheetForm := widget.NewForm(
		widget.NewFormItem("Preset", presetSelect),
		widget.NewFormItem("Paper Size", paperSelect),
		widget.NewFormItem("Orientation", orientation),
		widget.NewFormItem("Page Width (mm)", floatEntry("Page Width", &cfg.PageWidth)),
		widget.NewFormItem("Page Height (mm)", floatEntry("Page Height", &cfg.PageHeight)),
		widget.NewFormItem("Margin Top (mm)", floatEntry("Margin Top", &cfg.MarginTop)),
		widget.NewFormItem("Margin Bottom (mm)", floatEntry("Margin Bottom", &cfg.MarginBottom)),
		widget.NewFormItem("Margin Left (mm)", floatEntry("Margin Left", &cfg.MarginLeft)),
		widget.NewFormItem("Margin Right (mm)", floatEntry("Margin Right", &cfg.MarginRight)),
		widget.NewFormItem("Label Width (mm)", floatEntry("Label Width", &cfg.LabelWidth)),
		widget.NewFormItem("Label Height (mm)", floatEntry("Label Height", &cfg.LabelHeight)),
		widget.NewFormItem("Horizontal Spacing (mm)", floatEntry("Horizontal Spacing", &cfg.HorizontalSpacing)),
		widget.NewFormItem("Vertical Spacing (mm)", floatEntry("Vertical Spacing", &cfg.VerticalSpacing)),
		widget.NewFormItem("Labels per Row", intEntry("Labels per Row", &cfg.LabelsPerRow)),
		widget.NewFormItem("Labels per Column", intEntry("Labels per Column", &cfg.LabelsPerColumn)),
	)
	startForm := widget.NewForm(
		widget.NewFormItem("Start Row", intEntry("Start Row", &cfg.StartRow)),
		widget.NewFormItem("Start Column", intEntry("Start Column", &cfg.StartColumn)),
		widget.NewFormItem("Used Positions", status.usedEntry),
	)
	styleForm := widget.NewForm(
		widget.NewFormItem("Font Size (pt)", floatEntry("Font Size", &cfg.FontSize)),
		widget.NewFormItem("Font", familySelect),
		widget.NewFormItem("Weight", boldCheck),
		widget.NewFormItem("Alignment", alignSelect),
		widget.NewFormItem("Text Color", textEntry("Text Color", &cfg.TextColor)),
		widget.NewFormItem("Background", textEntry("Background", &cfg.BackgroundColor)),
		widget.NewFormItem("Border Color", textEntry("Border Color", &cfg.BorderColor)),
		widget.NewFormItem("Border Width (px)", floatEntry("Border Width", &cfg.BorderWidth)),
		widget.NewFormItem("Prefix", textEntry("Prefix", &cfg.Prefix)),
		widget.NewFormItem("Suffix", textEntry("Suffix", &cfg.Suffix)),
		widget.NewFormItem("Code", codeSelect),
	)

	forms := container.NewAppTabs(
		container.NewTabItem("Sheet", container.NewVBox(sheetForm, container.NewHBox(deriveBtn, savePresetBtn))),
		container.NewTabItem("Start & Used", container.NewVBox(startForm,
			widget.NewLabel("Tap a cell on the sheet to mark it as used."))),
		container.NewTabItem("Style", styleForm),
	)

	right := container.NewBorder(
		container.NewVBox(status.summary, status.validation), nil, nil, nil,
		container.NewScroll(container.NewCenter(status.canvas)),
	)

	split := container.NewHSplit(container.NewVScroll(forms), right)
	split.Offset = 0.45

	a.layoutContainer.Objects = []fyne.CanvasObject{split}
	a.layoutContainer.Refresh()
	a.updateLayoutStatus(status)
}

// updateLayoutStatus redraws the sheet canvas and validation after an edit.
func (a *App) updateLayoutStatus(s *layoutStatus) {
	if errs := a.layout.Validate(); len(errs) > 0 {
		s.validation.SetText(strings.Join(errs, "\n"))
		s.validation.Show()
	} else {
		s.validation.SetText("")
		s.validation.Hide()
	}

	perRow, perColumn := a.layout.GridSize()
	fit := model.CalculateLabelsPerPage(a.layout)
	s.summary.SetText(fmt.Sprintf("Grid %d x %d (%d fit the page), %d of %d cells available",
		perRow, perColumn, fit.TotalPerPage,
		engine.CalculateAvailablePositions(a.layout), perRow*perColumn))

	s.canvas.SetConfig(a.layout)
	a.refreshItems()
}

// toggleUsed adds pos to the used list or removes it when present.
func toggleUsed(used []model.Position, pos model.Position) []model.Position {
	out := make([]model.Position, 0, len(used)+1)
	found := false
	for _, p := range used {
		if p == pos {
			found = true
			continue
		}
		out = append(out, p)
	}
	if !found {
		out = append(out, pos)
	}
	return out
}
