package ui

import (
	"fmt"
	"io"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/labelsheet/internal/analysis"
	"github.com/piwi3910/labelsheet/internal/ui/widgets"
)

// calibrateState holds the calibrate tab widgets.
type calibrateState struct {
	content  *fyne.Container
	progress *widget.ProgressBarInfinite
	status   *widget.Label
	busy     bool
}

// ─── Calibrate Panel ───────────────────────────────────────

func (a *App) buildCalibratePanel() fyne.CanvasObject {
	s := &calibrateState{
		content:  container.NewStack(widget.NewLabel("Photograph a blank label sheet straight on and open the photo to infer its layout.")),
		progress: widget.NewProgressBarInfinite(),
		status:   widget.NewLabel(""),
	}
	s.progress.Stop()
	s.progress.Hide()
	a.calibrateState = s

	openBtn := widget.NewButtonWithIcon("Open Photo...", theme.FileImageIcon(), a.chooseCalibrationImage)
	toolbar := container.NewHBox(
		widget.NewLabelWithStyle("Sheet Calibration", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		layout.NewSpacer(),
		s.status,
		openBtn,
	)
	return container.NewBorder(container.NewVBox(toolbar, s.progress), nil, nil, nil, s.content)
}

func (a *App) chooseCalibrationImage() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		data, err := io.ReadAll(reader)
		if err != nil {
			a.showError(fmt.Errorf("failed to read image: %w", err))
			return
		}
		a.runCalibration(reader.URI().Name(), data)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}))
	d.Show()
}

// runCalibration analyses the photo off the UI goroutine and shows the
// proposal when done.
func (a *App) runCalibration(name string, data []byte) {
	s := a.calibrateState
	if s.busy {
		return
	}
	s.busy = true
	s.status.SetText("Analysing " + name + "...")
	s.progress.Show()
	s.progress.Start()

	analyzer := a.analyzer
	go func() {
		// The detected coordinates refer to this working raster.
		canvas, err := analysis.DecodeCanvas(data, analyzer.Params().MaxImageSize)
		var proposal analysis.LayoutProposal
		if err == nil {
			proposal = analyzer.AnalyzeCanvas(canvas)
		}

		fyne.Do(func() {
			s.busy = false
			s.progress.Stop()
			s.progress.Hide()
			if err != nil {
				s.status.SetText("")
				a.showError(err)
				return
			}
			s.status.SetText(name)
			a.logger.Info("calibration finished", "image", name,
				"labels", proposal.DetectedLabels, "confidence", proposal.Confidence)

			preview := widgets.NewDetectionPreview(canvas.Image, proposal.Debug.Pattern, 560, 560)
			a.showProposal(proposal, preview)
		})
	}()
}

// showProposal presents the inferred layout. Nothing is applied until the
// user confirms.
func (a *App) showProposal(p analysis.LayoutProposal, preview fyne.CanvasObject) {
	s := a.calibrateState

	value := func(v float64) *widget.Label { return widget.NewLabel(fmt.Sprintf("%.1f mm", v)) }
	details := widget.NewForm(
		widget.NewFormItem("Confidence", widget.NewLabel(fmt.Sprintf("%.0f%%", p.Confidence*100))),
		widget.NewFormItem("Image Quality", widget.NewLabel(fmt.Sprintf("%s (%.0f%%)", p.ImageQuality.Level, p.ImageQuality.Score*100))),
		widget.NewFormItem("Labels Found", widget.NewLabel(fmt.Sprintf("%d", p.DetectedLabels))),
		widget.NewFormItem("Grid", widget.NewLabel(fmt.Sprintf("%d x %d", p.LabelsPerRow, p.LabelsPerColumn))),
		widget.NewFormItem("Label Size", widget.NewLabel(fmt.Sprintf("%.1f x %.1f mm", p.LabelWidth, p.LabelHeight))),
		widget.NewFormItem("Measured By", widget.NewLabel(measurementText(p))),
		widget.NewFormItem("Margin Top", value(p.MarginTop)),
		widget.NewFormItem("Margin Left", value(p.MarginLeft)),
		widget.NewFormItem("Margin Right", value(p.MarginRight)),
		widget.NewFormItem("Margin Bottom", value(p.MarginBottom)),
		widget.NewFormItem("Horizontal Spacing", value(p.HorizontalSpacing)),
		widget.NewFormItem("Vertical Spacing", value(p.VerticalSpacing)),
	)

	suggestions := widget.NewLabel(strings.Join(p.Suggestions, "\n"))
	suggestions.Wrapping = fyne.TextWrapWord
	if p.Confidence < 0.5 {
		suggestions.Importance = widget.WarningImportance
	}

	applyBtn := widget.NewButtonWithIcon("Apply to Layout...", theme.ConfirmIcon(), func() {
		dialog.ShowConfirm("Apply Detected Layout",
			fmt.Sprintf("Replace the label size, margins, spacing and grid of the current sheet with the detected values?\n\nConfidence: %.0f%%", p.Confidence*100),
			func(ok bool) {
				if !ok {
					return
				}
				a.snapshot("Apply Calibration")
				a.layout = p.ApplyTo(a.layout)
				a.refreshAll()
				a.tabs.SelectIndex(1)
			}, a.window)
	})
	if p.DetectedLabels == 0 {
		applyBtn.Disable()
	}

	side := container.NewVBox(details, widget.NewSeparator(), suggestions, applyBtn)
	split := container.NewHSplit(container.NewScroll(container.NewCenter(preview)), container.NewVScroll(side))
	split.Offset = 0.6

	s.content.Objects = []fyne.CanvasObject{split}
	s.content.Refresh()
}

func measurementText(p analysis.LayoutProposal) string {
	switch p.MeasurementSource {
	case analysis.SourceDetected:
		return fmt.Sprintf("detected scale (%d dpi)", p.EstimatedDPI)
	case analysis.SourceStandard:
		return "standard size " + p.DetectedStandardSize
	default:
		return "defaults"
	}
}
