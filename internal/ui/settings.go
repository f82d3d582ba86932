package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/labelsheet/internal/analysis"
	"github.com/piwi3910/labelsheet/internal/model"
	"github.com/piwi3910/labelsheet/internal/project"
)

// showSettingsDialog displays the application settings editor.
func (a *App) showSettingsDialog() {
	cfg := a.config

	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(fmt.Sprintf("%.0f", *val))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				*val = v
			}
		}
		return e
	}

	intEntry := func(val *int) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(fmt.Sprintf("%d", *val))
		e.OnChanged = func(text string) {
			if v, err := strconv.Atoi(text); err == nil {
				*val = v
			}
		}
		return e
	}

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	logSelect := widget.NewSelect([]string{"debug", "info", "warn", "error"}, func(selected string) {
		cfg.LogLevel = selected
	})
	logSelect.SetSelected(cfg.LogLevel)

	firstSheet := widget.NewCheck("Start position and used cells apply to the first sheet only", func(on bool) {
		cfg.FirstSheetOnly = on
	})
	firstSheet.SetChecked(cfg.FirstSheetOnly)

	useCurrent := widget.NewButton("Use Current Layout as Default", func() {
		cfg.DefaultLayout = a.layout.Clone()
	})

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Log Level", logSelect),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Sheets", firstSheet),
		widget.NewFormItem("Default Layout", useCurrent),
		widget.NewFormItem("Preview DPI", floatEntry(&cfg.PreviewDPI)),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Analysis Max Image Size (px)", intEntry(&cfg.AnalysisMaxImageSize)),
		widget.NewFormItem("Analysis Workers (0 = per CPU)", intEntry(&cfg.AnalysisWorkers)),
	}

	d := dialog.NewForm("Settings", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			a.applyConfig(cfg)
			if err := a.saveConfig(); err != nil {
				a.showError(fmt.Errorf("failed to save settings: %w", err))
			} else {
				dialog.ShowInformation("Settings Saved", "Application settings have been saved.", a.window)
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(520, 460))
	d.Show()
}

// applyConfig switches the running app to cfg.
func (a *App) applyConfig(cfg model.AppConfig) {
	a.config = cfg
	a.theme.SetPreference(cfg.Theme)
	a.app.Settings().SetTheme(a.theme)
	a.analyzer = analysis.New(analysis.DefaultParams().WithMaxImageSize(cfg.AnalysisMaxImageSize), analysis.WithLogger(a.logger))
	a.refreshAll()
}

// showImportExportDialog displays the import/export data dialog.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			path := writer.URI().Path()
			writer.Close()
			if err := project.ExportAllData(path, a.config, a.presets); err != nil {
				a.showError(err)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("Settings and presets exported to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("labelsheet-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your current settings and merge the backed up presets.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					path := reader.URI().Path()
					reader.Close()
					backup, err := project.ImportAllData(path)
					if err != nil {
						a.showError(err)
						return
					}
					a.presets.Merge(backup.Presets.Presets)
					a.applyConfig(backup.Config)
					if err := a.saveConfig(); err != nil {
						a.showError(fmt.Errorf("failed to save imported settings: %w", err))
						return
					}
					if err := a.savePresets(); err != nil {
						a.showError(fmt.Errorf("failed to save imported presets: %w", err))
						return
					}
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Data imported successfully from backup created at %s.", backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export settings and presets to a backup file,\nor import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Import / Export Data", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}
