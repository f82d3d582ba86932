package ui

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/labelsheet/internal/model"
	"github.com/piwi3910/labelsheet/internal/project"
)

// presetChoices lists built-in sheet presets followed by saved user presets.
func (a *App) presetChoices() []string {
	var names []string
	for _, p := range model.LabelPresets {
		names = append(names, p.Name)
	}
	return append(names, a.presets.Names()...)
}

// applyPresetByName applies a built-in sheet preset (geometry only) or a
// saved user preset (the whole configuration).
func (a *App) applyPresetByName(name string) {
	if lp, ok := model.FindLabelPreset(name); ok {
		a.snapshot("Apply Preset")
		a.layout = model.ApplyPreset(a.layout, lp)
		a.refreshAll()
		return
	}
	if up := a.presets.FindByName(name); up != nil {
		a.snapshot("Apply Preset")
		a.layout = up.Config.Clone()
		a.refreshAll()
	}
}

func (a *App) showSavePresetDialog() {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Preset name")

	dialog.ShowForm("Save Preset", "Save", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", nameEntry)},
		func(ok bool) {
			if !ok {
				return
			}
			if nameEntry.Text == "" {
				a.showError(errors.New("preset name cannot be empty"))
				return
			}
			if errs := a.layout.Validate(); len(errs) > 0 {
				a.showError(fmt.Errorf("cannot save an invalid layout: %s", errs[0]))
				return
			}
			if existing := a.presets.FindByName(nameEntry.Text); existing != nil && !existing.IsBuiltIn {
				existing.Config = a.layout.Clone()
			} else {
				a.presets.Add(model.NewUserPreset(nameEntry.Text, a.layout))
			}
			if err := a.savePresets(); err != nil {
				a.showError(fmt.Errorf("failed to save presets: %w", err))
				return
			}
			a.refreshLayout()
		},
		a.window,
	)
}

// showPresetManager lists the saved presets with delete, default and
// file exchange actions.
func (a *App) showPresetManager() {
	list := container.NewVBox()
	var refresh func()
	refresh = func() {
		list.RemoveAll()
		for i := range a.presets.Presets {
			p := a.presets.Presets[i]
			name := p.Name
			if p.ID == a.config.DefaultPreset {
				name += " (default)"
			}
			deleteBtn := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
				if a.presets.Remove(p.ID) {
					if a.config.DefaultPreset == p.ID {
						a.config.DefaultPreset = model.DefaultPresetID
						_ = a.saveConfig()
					}
					if err := a.savePresets(); err != nil {
						a.showError(err)
					}
					refresh()
				}
			})
			if p.IsBuiltIn {
				deleteBtn.Disable()
			}
			list.Add(container.NewHBox(
				widget.NewLabel(name),
				layout.NewSpacer(),
				widget.NewButton("Apply", func() { a.applyPresetByName(p.Name) }),
				widget.NewButton("Make Default", func() {
					a.config.DefaultPreset = p.ID
					if err := a.saveConfig(); err != nil {
						a.showError(err)
					}
					refresh()
				}),
				deleteBtn,
			))
		}
	}
	refresh()

	exportBtn := widget.NewButton("Export Presets...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			path := writer.URI().Path()
			writer.Close()
			if err := project.ExportPresets(path, a.presets); err != nil {
				a.showError(err)
			}
		}, a.window)
		d.SetFileName("label-printer-presets.json")
		d.Show()
	})
	importBtn := widget.NewButton("Import Presets...", func() {
		d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			path := reader.URI().Path()
			reader.Close()
			presets, err := project.ImportPresets(path)
			if err != nil {
				a.showError(err)
				return
			}
			n := a.presets.Merge(presets)
			if err := a.savePresets(); err != nil {
				a.showError(err)
				return
			}
			refresh()
			dialog.ShowInformation("Import Complete", fmt.Sprintf("%d presets added or updated.", n), a.window)
		}, a.window)
		d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
		d.Show()
	})

	content := container.NewBorder(nil, container.NewHBox(exportBtn, importBtn), nil, nil,
		container.NewVScroll(list))
	d := dialog.NewCustom("Presets", "Close", content, a.window)
	d.SetOnClosed(a.refreshLayout)
	d.Resize(fyne.NewSize(560, 420))
	d.Show()
}
