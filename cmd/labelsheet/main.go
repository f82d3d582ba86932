// LabelSheet is a label sheet layout designer.
//
// A cross-platform desktop application that lays item IDs onto label
// sheets, skips cells that were already peeled off, and exports print-ready
// PDF, HTML and SVG. Layouts can be calibrated from a photo of a sheet.
//
// Build:
//   go build -o labelsheet ./cmd/labelsheet
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o labelsheet.exe ./cmd/labelsheet
//   GOOS=darwin  GOARCH=amd64 go build -o labelsheet-darwin ./cmd/labelsheet
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/piwi3910/labelsheet/internal/model"
	"github.com/piwi3910/labelsheet/internal/project"
	"github.com/piwi3910/labelsheet/internal/ui"
)

func main() {
	cfg, cfgErr := project.LoadAppConfig(project.DefaultConfigPath())
	if cfgErr != nil {
		cfg = model.DefaultAppConfig()
	}
	logger := project.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	if cfgErr != nil {
		logger.Warn("using default settings", "error", cfgErr)
	}

	presets, err := project.LoadDefaultPresets()
	if err != nil {
		logger.Warn("using built-in presets", "error", err)
		presets = model.NewPresetStore()
	}

	application := app.NewWithID("com.piwi3910.labelsheet")
	window := application.NewWindow("LabelSheet - Label Sheet Designer")

	appUI := ui.NewApp(application, window, cfg, presets, logger)
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()
	window.ShowAndRun()
}
