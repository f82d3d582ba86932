package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/labelsheet/internal/analysis"
	"github.com/piwi3910/labelsheet/internal/engine"
	"github.com/piwi3910/labelsheet/internal/model"
	"github.com/piwi3910/labelsheet/internal/project"
)

// App holds all application state and UI references.
type App struct {
	app     fyne.App
	window  fyne.Window
	tabs    *container.AppTabs
	theme   *LabelSheetTheme
	logger  *slog.Logger
	history *History

	// Session state
	items   []string
	layout  model.PageConfig
	config  model.AppConfig
	presets model.PresetStore

	analyzer *analysis.Analyzer

	// UI references for dynamic updates
	itemsContainer   *fyne.Container
	layoutContainer  *fyne.Container
	previewContainer *fyne.Container
	calibrateState   *calibrateState
}

// NewApp creates the application from persisted settings and presets.
func NewApp(application fyne.App, window fyne.Window, cfg model.AppConfig, presets model.PresetStore, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	params := analysis.DefaultParams().WithMaxImageSize(cfg.AnalysisMaxImageSize)
	a := &App{
		app:      application,
		window:   window,
		theme:    NewLabelSheetTheme(cfg.Theme),
		logger:   logger,
		history:  NewHistory(),
		items:    []string{},
		layout:   initialLayout(cfg, presets),
		config:   cfg,
		presets:  presets,
		analyzer: analysis.New(params, analysis.WithLogger(logger)),
	}
	application.Settings().SetTheme(a.theme)
	return a
}

// initialLayout picks the configured default preset, falling back to the
// default layout of the app config.
func initialLayout(cfg model.AppConfig, presets model.PresetStore) model.PageConfig {
	if p := presets.FindByID(cfg.DefaultPreset); p != nil && p.ID != model.DefaultPresetID {
		return p.Config.Clone()
	}
	if lp, ok := model.FindLabelPreset(cfg.DefaultPreset); ok {
		return model.ApplyPreset(cfg.DefaultLayout.Clone(), lp)
	}
	return cfg.DefaultLayout.Clone()
}

// engineOptions reflects the app preferences in layout engine options.
func (a *App) engineOptions() []engine.Option {
	opts := []engine.Option{engine.WithLogger(a.logger)}
	if a.config.FirstSheetOnly {
		opts = append(opts, engine.WithFirstSheetOnly())
	}
	return opts
}

// pages lays the current items out on the current sheet.
func (a *App) pages() []model.Page {
	return engine.New(a.layout, a.engineOptions()...).Layout(a.items)
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Session", func() {
			a.snapshot("New Session")
			a.items = []string{}
			a.layout = initialLayout(a.config, a.presets)
			a.refreshAll()
		}),
		fyne.NewMenuItem("Open Layout...", a.openLayout),
		fyne.NewMenuItem("Save Layout...", a.saveLayout),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import IDs from CSV...", a.importCSV),
		fyne.NewMenuItem("Import IDs from Excel...", a.importExcel),
		fyne.NewMenuItem("Import Sheet Template (DXF)...", a.importTemplate),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF...", func() { a.exportFile(formatPDF) }),
		fyne.NewMenuItem("Export Print HTML...", func() { a.exportFile(formatHTML) }),
		fyne.NewMenuItem("Export SVG Preview...", func() { a.exportFile(formatSVG) }),
		fyne.NewMenuItem("Export Cutter Template (DXF)...", func() { a.exportFile(formatDXF) }),
		fyne.NewMenuItem("Export IDs to CSV...", func() { a.exportFile(formatCSV) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", a.undo),
		fyne.NewMenuItem("Redo", a.redo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear All IDs", func() {
			a.snapshot("Clear IDs")
			a.items = []string{}
			a.refreshAll()
		}),
		fyne.NewMenuItem("Clear Used Positions", func() {
			a.snapshot("Clear Used Positions")
			a.layout.UsedPositions = []model.Position{}
			a.refreshAll()
		}),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Calibrate from Photo...", func() {
			a.tabs.SelectIndex(3)
			a.chooseCalibrationImage()
		}),
		fyne.NewMenuItem("Compare Sheet Presets", a.showCompareDialog),
		fyne.NewMenuItem("Manage Presets...", a.showPresetManager),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Settings...", a.showSettingsDialog),
		fyne.NewMenuItem("Import / Export Data...", a.showImportExportDialog),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About LabelSheet",
		"LabelSheet: ID Label Sheet Printer\n\n"+
			"Lays item IDs out on partially used label sheets and\n"+
			"prints them as PDF or HTML. A photo of a blank sheet\n"+
			"can be analysed to infer the sheet layout.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container, wrapped in
// the window's tooltip layer.
func (a *App) Build() fyne.CanvasObject {
	itemsTab := container.NewTabItem("Items", a.buildItemsPanel())
	layoutTab := container.NewTabItem("Layout", a.buildLayoutPanel())
	previewTab := container.NewTabItem("Preview", a.buildPreviewPanel())
	calibrateTab := container.NewTabItem("Calibrate", a.buildCalibratePanel())

	a.tabs = container.NewAppTabs(itemsTab, layoutTab, previewTab, calibrateTab)
	a.tabs.SetTabLocation(container.TabLocationTop)
	a.tabs.OnSelected = func(tab *container.TabItem) {
		if tab == previewTab {
			a.refreshPreview()
		}
	}
	return fynetooltip.AddWindowToolTipLayer(a.tabs, a.window.Canvas())
}

// refreshAll redraws every panel from the session state.
func (a *App) refreshAll() {
	a.refreshItems()
	a.refreshLayout()
	a.refreshPreview()
}

// ─── Undo / Redo ───────────────────────────────────────────

// snapshot records the state before a change.
func (a *App) snapshot(label string) {
	a.history.Push(MakeSnapshot(a.items, a.layout, label))
}

// snapshotEdit records the state before a field edit; repeated edits of
// the same field share one undo step.
func (a *App) snapshotEdit(field string) {
	a.history.PushEdit(MakeSnapshot(a.items, a.layout, "Edit "+field))
}

func (a *App) restore(s Snapshot) {
	a.items = append([]string{}, s.Items...)
	a.layout = s.Config.Clone()
	a.refreshAll()
}

func (a *App) undo() {
	label := a.history.UndoLabel()
	if s, ok := a.history.Undo(MakeSnapshot(a.items, a.layout, "")); ok {
		a.logger.Debug("undo", "change", label)
		a.restore(s)
	}
}

func (a *App) redo() {
	label := a.history.RedoLabel()
	if s, ok := a.history.Redo(MakeSnapshot(a.items, a.layout, "")); ok {
		a.logger.Debug("redo", "change", label)
		a.restore(s)
	}
}

// ─── Persistence ───────────────────────────────────────────

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(project.DefaultConfigPath(), a.config)
}

// savePresets persists the preset store to disk.
func (a *App) savePresets() error {
	return project.SaveDefaultPresets(a.presets)
}

func (a *App) showError(err error) {
	a.logger.Error("operation failed", "error", err)
	dialog.ShowError(err, a.window)
}

func (a *App) rememberFile(path string) {
	a.config.AddRecentFile(path)
	if err := a.saveConfig(); err != nil {
		a.logger.Warn("failed to save recent files", "error", err)
	}
}
