package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/labelsheet/internal/engine"
	"github.com/piwi3910/labelsheet/internal/importer"
	"github.com/piwi3910/labelsheet/internal/model"
	"github.com/piwi3910/labelsheet/internal/project"
)

// sheetFlags select and adjust the page configuration shared by the layout,
// grid and template commands.
type sheetFlags struct {
	layout      string
	preset      string
	presetsPath string
	paper       string
	landscape   bool
	startRow    int
	startCol    int
	used        string
}

func (sf *sheetFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&sf.layout, "layout", "", "Layout file (.yaml, .yml or .json)")
	fs.StringVar(&sf.preset, "preset", "", "Built-in preset key or name, or a saved preset name")
	fs.StringVar(&sf.presetsPath, "presets", project.DefaultPresetsPath(), "Saved presets file")
	fs.StringVar(&sf.paper, "paper", "", "Paper size (A4, Letter, Legal, A3, A5)")
	fs.BoolVar(&sf.landscape, "landscape", false, "Landscape orientation")
	fs.IntVar(&sf.startRow, "start-row", -1, "First row to print (0-based)")
	fs.IntVar(&sf.startCol, "start-col", -1, "First column to print (0-based)")
	fs.StringVar(&sf.used, "used", "", `Cells already used, e.g. "0-0, 0-1"`)
}

// config builds the page configuration: layout file or preset first, then
// the paper, start and used overrides. The result is validated.
func (sf *sheetFlags) config() (model.PageConfig, error) {
	cfg := model.DefaultPageConfig()

	switch {
	case sf.layout != "":
		loaded, err := project.LoadPageConfig(sf.layout)
		if err != nil && !errors.Is(err, project.ErrInvalidLayout) {
			return model.PageConfig{}, err
		}
		cfg = loaded
	case sf.preset != "":
		preset, err := sf.findPreset()
		if err != nil {
			return model.PageConfig{}, err
		}
		cfg = preset
	}

	if sf.paper != "" {
		var ok bool
		if cfg, ok = model.ApplyPaperSize(cfg, sf.paper); !ok {
			return model.PageConfig{}, fmt.Errorf("unknown paper size %q", sf.paper)
		}
	}
	if sf.landscape && cfg.Orientation != model.Landscape {
		cfg.Orientation = model.Landscape
		cfg.PageWidth, cfg.PageHeight = cfg.PageHeight, cfg.PageWidth
	}
	if sf.startRow >= 0 {
		cfg.StartRow = sf.startRow
	}
	if sf.startCol >= 0 {
		cfg.StartColumn = sf.startCol
	}
	if sf.used != "" {
		cfg.UsedPositions = engine.ParseUsedPositions(sf.used)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return model.PageConfig{}, fmt.Errorf("%w: %s", project.ErrInvalidLayout, strings.Join(errs, "; "))
	}
	return cfg, nil
}

func (sf *sheetFlags) findPreset() (model.PageConfig, error) {
	if lp, ok := model.FindLabelPreset(sf.preset); ok {
		return model.ApplyPreset(model.DefaultPageConfig(), lp), nil
	}
	store, err := project.LoadPresets(sf.presetsPath)
	if err != nil {
		return model.PageConfig{}, fmt.Errorf("failed to load presets: %w", err)
	}
	if p := store.FindByName(sf.preset); p != nil {
		return p.Config.Clone(), nil
	}
	if p := store.FindByID(sf.preset); p != nil {
		return p.Config.Clone(), nil
	}
	return model.PageConfig{}, fmt.Errorf("unknown preset %q", sf.preset)
}

// loadItems reads item IDs from a CSV, Excel or plain text file.
func loadItems(path string) ([]string, error) {
	var res importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		res = importer.ImportCSV(path)
	case ".xlsx", ".xlsm", ".xls":
		res = importer.ImportExcel(path)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read items: %w", err)
		}
		return importer.ParseIDs(string(data)), nil
	}

	for _, w := range res.Warnings {
		slog.Warn("import warning", "file", path, "warning", w)
	}
	if len(res.IDs) == 0 && len(res.Errors) > 0 {
		return nil, fmt.Errorf("failed to import %s: %s", filepath.Base(path), strings.Join(res.Errors, "; "))
	}
	for _, e := range res.Errors {
		slog.Warn("import error", "file", path, "error", e)
	}
	return res.IDs, nil
}
