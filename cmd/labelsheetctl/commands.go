package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/bmatcuk/doublestar"

	"github.com/piwi3910/labelsheet/internal/analysis"
	"github.com/piwi3910/labelsheet/internal/engine"
	"github.com/piwi3910/labelsheet/internal/export"
	"github.com/piwi3910/labelsheet/internal/importer"
	"github.com/piwi3910/labelsheet/internal/model"
	"github.com/piwi3910/labelsheet/internal/project"
)

// ─── layout ─────────────────────────────────────────────────

func runLayout(_ context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("layout", flag.ContinueOnError)
	var sf sheetFlags
	sf.register(fs)
	itemsPath := fs.String("items", "", "Items file (.csv, .xlsx or one ID per line)")
	sample := fs.Int("sample", 0, "Lay out N generated sample IDs instead of an items file")
	output := fs.String("o", "", "Output file (.pdf, .svg or .html)")
	firstOnly := fs.Bool("first-sheet-only", false, "Apply start and used cells to the first sheet only")
	showGrid := fs.Bool("grid", false, "Draw the position grid in SVG output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *output == "" {
		return errors.New("layout: -o is required")
	}

	cfg, err := sf.config()
	if err != nil {
		return err
	}

	var items []string
	switch {
	case *itemsPath != "":
		if items, err = loadItems(*itemsPath); err != nil {
			return err
		}
	case *sample > 0:
		items = importer.GenerateSampleIDs(*sample)
	default:
		return errors.New("layout: either -items or -sample is required")
	}

	opts := []engine.Option{engine.WithLogger(slog.Default())}
	if *firstOnly {
		opts = append(opts, engine.WithFirstSheetOnly())
	}
	e := engine.New(cfg, opts...)
	est := e.Estimate(len(items))
	pages := e.Layout(items)

	written, err := writeLayout(*output, pages, cfg, *showGrid)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%d items on %d sheet(s), %d label(s) per sheet\n", len(items), len(pages), est.LabelsPerSheet)
	if est.HasOverflow() {
		fmt.Fprintf(out, "warning: %d item(s) do not fit the available cells and were dropped\n", est.Dropped)
	}
	for _, path := range written {
		fmt.Fprintf(out, "wrote %s\n", path)
	}
	return nil
}

// writeLayout exports pages by output extension. SVG writes one file per
// page, numbered when there is more than one.
func writeLayout(path string, pages []model.Page, cfg model.PageConfig, showGrid bool) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return []string{path}, export.ExportPDF(path, pages, cfg)
	case ".html", ".htm":
		return []string{path}, export.ExportPrintHTML(path, pages, cfg)
	case ".svg":
		if len(pages) == 0 {
			return nil, export.ErrNoPages
		}
		var written []string
		for i, page := range pages {
			name := path
			if len(pages) > 1 {
				name = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, filepath.Ext(path)), i+1, filepath.Ext(path))
			}
			if err := writeSVGFile(name, page, cfg, showGrid); err != nil {
				return written, err
			}
			written = append(written, name)
		}
		return written, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", ext)
	}
}

func writeSVGFile(path string, page model.Page, cfg model.PageConfig, showGrid bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create SVG file: %w", err)
	}
	if err := export.WriteSVG(f, page, cfg, export.SVGOptions{ShowGrid: showGrid}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ─── grid ───────────────────────────────────────────────────

var cellMarks = map[model.CellStatus]string{
	model.CellAvailable: ".",
	model.CellUsed:      "x",
	model.CellSkipped:   "-",
}

func runGrid(_ context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("grid", flag.ContinueOnError)
	var sf sheetFlags
	sf.register(fs)
	count := fs.Int("count", 0, "Estimate sheets for this many items")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := sf.config()
	if err != nil {
		return err
	}

	perRow, perColumn := cfg.GridSize()
	fmt.Fprintf(out, "%s %s, %dx%d grid, %d of %d cells available\n",
		cfg.PageSize, cfg.Orientation, perRow, perColumn,
		engine.CalculateAvailablePositions(cfg), perRow*perColumn)

	for _, row := range engine.GeneratePositionGrid(cfg) {
		marks := make([]string, len(row))
		for i, cell := range row {
			marks[i] = cellMarks[cell.Status]
		}
		fmt.Fprintln(out, strings.Join(marks, " "))
	}

	if *count > 0 {
		est := engine.EstimateSheets(*count, cfg)
		fmt.Fprintf(out, "%d items need %d sheet(s); %d placed, %d dropped\n",
			est.Items, est.SheetsNeeded, est.Placeable, est.Dropped)
	}
	return nil
}

// ─── template ───────────────────────────────────────────────

func runTemplate(_ context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("template", flag.ContinueOnError)
	var sf sheetFlags
	sf.register(fs)
	output := fs.String("o", "", "Write a DXF cutter template for the layout")
	input := fs.String("in", "", "Read a layout from a DXF die-cut template")
	save := fs.String("save", "", "Save the layout read with -in (.yaml or .json)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*output == "") == (*input == "") {
		return errors.New("template: exactly one of -o or -in is required")
	}

	cfg, err := sf.config()
	if err != nil {
		return err
	}

	if *output != "" {
		if err := export.ExportDXF(*output, cfg); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", *output)
		return nil
	}

	res := importer.ImportTemplateDXF(*input, cfg)
	for _, w := range res.Warnings {
		slog.Warn("template warning", "file", *input, "warning", w)
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("failed to read template: %s", strings.Join(res.Errors, "; "))
	}

	if *save != "" {
		if err := project.SavePageConfig(*save, res.Config); err != nil {
			return err
		}
		fmt.Fprintf(out, "saved %s (%d labels)\n", *save, res.Labels)
		return nil
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Config)
}

// ─── analyze ────────────────────────────────────────────────

// analysisReport is the JSON record written per analysed image.
type analysisReport struct {
	File     string                   `json:"file"`
	Proposal *analysis.LayoutProposal `json:"proposal,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

func runAnalyze(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	configPath := fs.String("config", project.DefaultConfigPath(), "App config supplying the worker and image size defaults")
	workers := fs.Int("j", -1, "Parallel workers (0 = one per CPU, -1 = from config)")
	maxSize := fs.Int("max-size", 0, "Long side of the working image in px (0 = from config)")
	output := fs.String("o", "", "Write the JSON report to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("analyze: at least one image path or glob is required")
	}

	appCfg, err := project.LoadAppConfig(*configPath)
	if err != nil {
		slog.Warn("using default analysis settings", "config", *configPath, "error", err)
		appCfg = model.DefaultAppConfig()
	}
	if *workers < 0 {
		*workers = appCfg.AnalysisWorkers
	}
	if *maxSize <= 0 {
		*maxSize = appCfg.AnalysisMaxImageSize
	}

	var files []string
	for _, pattern := range fs.Args() {
		matches, err := doublestar.Glob(pattern)
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			slog.Warn("pattern matched no files", "pattern", pattern)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return errors.New("analyze: no images found")
	}

	inputs := make([][]byte, len(files))
	for i, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		inputs[i] = data
	}

	a := analysis.New(analysis.DefaultParams().WithMaxImageSize(*maxSize), analysis.WithLogger(slog.Default()))
	results := a.AnalyzeBatch(ctx, inputs, *workers)

	reports := make([]analysisReport, len(results))
	for i, r := range results {
		reports[i] = analysisReport{File: files[i]}
		if r.Err != nil {
			reports[i].Error = r.Err.Error()
			continue
		}
		proposal := r.Proposal
		reports[i].Proposal = &proposal
		slog.Info("analysed image", "file", files[i],
			"labels", proposal.DetectedLabels, "confidence", proposal.Confidence)
	}

	w := out
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

// ─── presets ────────────────────────────────────────────────

func runPresets(_ context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("presets", flag.ContinueOnError)
	presetsPath := fs.String("presets", project.DefaultPresetsPath(), "Saved presets file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := project.LoadPresets(*presetsPath)
	if err != nil {
		return fmt.Errorf("failed to load presets: %w", err)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tPAPER\tLABEL (mm)\tGRID")
	for _, p := range model.LabelPresets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%gx%g\t%dx%d\n",
			p.Key, p.Name, p.PageSize, p.LabelWidth, p.LabelHeight, p.LabelsPerRow, p.LabelsPerColumn)
	}
	for _, p := range store.Presets {
		c := p.Config
		perRow, perColumn := c.GridSize()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%gx%g\t%dx%d\n",
			p.ID, p.Name, c.PageSize, c.LabelWidth, c.LabelHeight, perRow, perColumn)
	}
	return tw.Flush()
}
