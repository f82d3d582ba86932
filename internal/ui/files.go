package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"github.com/piwi3910/labelsheet/internal/export"
	"github.com/piwi3910/labelsheet/internal/importer"
	"github.com/piwi3910/labelsheet/internal/model"
	"github.com/piwi3910/labelsheet/internal/project"
)

// exportFormat is an output file type of the export menu.
type exportFormat struct {
	name      string
	extension string
	needsIDs  bool
}

var (
	formatPDF  = exportFormat{name: "PDF", extension: ".pdf", needsIDs: true}
	formatHTML = exportFormat{name: "Print HTML", extension: ".html", needsIDs: true}
	formatSVG  = exportFormat{name: "SVG Preview", extension: ".svg", needsIDs: false}
	formatDXF  = exportFormat{name: "Cutter Template", extension: ".dxf", needsIDs: false}
	formatCSV  = exportFormat{name: "ID List", extension: ".csv", needsIDs: true}
)

// exportFile asks for a target path and writes the session in the given format.
func (a *App) exportFile(format exportFormat) {
	if format.needsIDs && len(a.items) == 0 {
		dialog.ShowInformation("Nothing to export", "Add at least one ID first.", a.window)
		return
	}
	if errs := a.layout.Validate(); len(errs) > 0 {
		a.showError(fmt.Errorf("fix the layout before exporting:\n%s", strings.Join(errs, "\n")))
		return
	}

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := a.writeExport(format, path); err != nil {
			a.showError(err)
			return
		}
		a.logger.Info("exported", "format", format.name, "path", path)
		if dir := filepath.Dir(path); dir != a.config.OutputDir {
			a.config.OutputDir = dir
			if err := a.saveConfig(); err != nil {
				a.logger.Warn("failed to remember output folder", "error", err)
			}
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("%s saved to:\n%s", format.name, path), a.window)
	}, a.window)
	d.SetFileName("labels" + format.extension)
	if a.config.OutputDir != "" {
		if dir, err := storage.ListerForURI(storage.NewFileURI(a.config.OutputDir)); err == nil {
			d.SetLocation(dir)
		}
	}
	d.SetFilter(storage.NewExtensionFileFilter([]string{format.extension}))
	d.Show()
}

func (a *App) writeExport(format exportFormat, path string) error {
	switch format {
	case formatPDF:
		return export.ExportPDF(path, a.pages(), a.layout)
	case formatHTML:
		return export.ExportPrintHTML(path, a.pages(), a.layout)
	case formatDXF:
		return export.ExportDXF(path, a.layout)
	case formatCSV:
		return importer.ExportCSVFile(path, a.items)
	case formatSVG:
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		// Without IDs the blank sheet is drawn with its grid status
		page := model.Page{Labels: []model.PlacedLabel{}}
		if pages := a.pages(); len(pages) > 0 {
			page = pages[0]
		}
		return export.WriteSVG(f, page, a.layout, export.SVGOptions{DPI: a.config.PreviewDPI, ShowGrid: true})
	}
	return fmt.Errorf("unsupported export format %s", format.name)
}

// ─── Layout Files ──────────────────────────────────────────

func (a *App) openLayout() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		cfg, err := project.LoadPageConfig(path)
		if err != nil {
			a.showError(err)
			return
		}
		a.snapshot("Open Layout")
		a.layout = cfg
		a.rememberFile(path)
		a.refreshAll()
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".yaml", ".yml", ".json"}))
	d.Show()
}

func (a *App) saveLayout() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := project.SavePageConfig(path, a.layout); err != nil {
			a.showError(err)
			return
		}
		a.rememberFile(path)
	}, a.window)
	d.SetFileName("sheet.yaml")
	d.Show()
}

// importTemplate reads sheet geometry from a die-cut DXF drawing.
func (a *App) importTemplate() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		res := importer.ImportTemplateDXF(path, a.layout)
		if len(res.Errors) > 0 {
			a.showError(fmt.Errorf("%s", strings.Join(res.Errors, "\n")))
			return
		}
		msg := fmt.Sprintf("Detected %d labels of %.1f x %.1f mm in a %d x %d grid.",
			res.Labels, res.Config.LabelWidth, res.Config.LabelHeight,
			res.Config.LabelsPerRow, res.Config.LabelsPerColumn)
		if len(res.Warnings) > 0 {
			msg += "\n\n" + strings.Join(res.Warnings, "\n")
		}
		dialog.ShowConfirm("Apply Template", msg+"\n\nApply this layout?", func(ok bool) {
			if !ok {
				return
			}
			a.snapshot("Import Template")
			a.layout = res.Config
			a.refreshAll()
		}, a.window)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".dxf"}))
	d.Show()
}
