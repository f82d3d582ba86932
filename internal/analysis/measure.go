package analysis

import (
	"fmt"
	"math"

	"github.com/piwi3910/labelsheet/internal/model"
)

// MeasurementSource says where the proposed label size came from.
type MeasurementSource string

const (
	SourceDefault  MeasurementSource = "default"  // nothing detected
	SourceDetected MeasurementSource = "detected" // measured from the image
	SourceStandard MeasurementSource = "standard" // snapped or blended towards a standard size
)

// StandardLabelSize is a common commercial label format.
type StandardLabelSize struct {
	Name        string  `json:"name"`
	Width       float64 `json:"width"`  // mm
	Height      float64 `json:"height"` // mm
	AspectRatio float64 `json:"aspect_ratio"`
}

// StandardLabelSizes are matched against measured label dimensions.
var StandardLabelSizes = []StandardLabelSize{
	{Name: "Standard ID", Width: 50, Height: 25, AspectRatio: 2.0},
	{Name: "Avery 5160", Width: 66.7, Height: 25.4, AspectRatio: 2.63},
	{Name: "Avery 5161", Width: 101.6, Height: 25.4, AspectRatio: 4.0},
	{Name: "Avery 5162", Width: 101.6, Height: 33.9, AspectRatio: 3.0},
	{Name: "Avery 5163", Width: 101.6, Height: 50.8, AspectRatio: 2.0},
	{Name: "Large ID", Width: 70, Height: 37, AspectRatio: 1.89},
	{Name: "Small Address", Width: 38.1, Height: 21.2, AspectRatio: 1.8},
	{Name: "Medium Address", Width: 63.5, Height: 29.6, AspectRatio: 2.15},
}

// referencePapers are the sheet sizes a photographed page is compared with.
var referencePapers = []string{"A4", "Letter", "Legal"}

// Frame relates the working canvas to the original image.
type Frame struct {
	Width          int `json:"width"`
	Height         int `json:"height"`
	OriginalWidth  int `json:"original_width"`
	OriginalHeight int `json:"original_height"`
}

// Scale is canvas width over original width.
func (f Frame) Scale() float64 {
	if f.OriginalWidth == 0 {
		return 1
	}
	return float64(f.Width) / float64(f.OriginalWidth)
}

// Frame returns the canvas geometry.
func (c Canvas) Frame() Frame {
	return Frame{Width: c.Width(), Height: c.Height(), OriginalWidth: c.OriginalWidth, OriginalHeight: c.OriginalHeight}
}

// DPIEstimate is one candidate scan density.
type DPIEstimate struct {
	DPI        float64 `json:"dpi"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"` // "paper_size", "label_size" or "fallback"
	Reference  string  `json:"reference,omitempty"`
}

// StandardMatch is the closest standard size to a measurement.
type StandardMatch struct {
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}

// Correction records a rescale of implausible measurements.
type Correction struct {
	Factor float64 `json:"factor"`
	Reason string  `json:"reason"`
}

// Measurements are the physical dimensions inferred from a pattern.
type Measurements struct {
	LabelWidth           float64           `json:"label_width"`
	LabelHeight          float64           `json:"label_height"`
	MarginTop            float64           `json:"margin_top"`
	MarginLeft           float64           `json:"margin_left"`
	MarginRight          float64           `json:"margin_right"`
	MarginBottom         float64           `json:"margin_bottom"`
	HorizontalSpacing    float64           `json:"horizontal_spacing"`
	VerticalSpacing      float64           `json:"vertical_spacing"`
	LabelsPerRow         int               `json:"labels_per_row"`
	LabelsPerColumn      int               `json:"labels_per_column"`
	TotalLabels          int               `json:"total_labels"`
	EstimatedDPI         int               `json:"estimated_dpi"`
	DetectedStandardSize string            `json:"detected_standard_size,omitempty"`
	Source               MeasurementSource `json:"measurement_confidence"`

	AveragePixelSize model.Size     `json:"average_pixel_size"`
	DPICandidates    []DPIEstimate  `json:"dpi_candidates,omitempty"`
	ChosenDPI        DPIEstimate    `json:"chosen_dpi"`
	InitialSize      model.Size     `json:"initial_size"`
	Correction       *Correction    `json:"correction,omitempty"`
	StandardMatch    *StandardMatch `json:"standard_match,omitempty"`
}

// DefaultMeasurements is proposed when no labels were found.
func DefaultMeasurements() Measurements {
	return Measurements{
		LabelWidth:        50,
		LabelHeight:       25,
		MarginTop:         10,
		MarginLeft:        10,
		MarginRight:       10,
		MarginBottom:      10,
		HorizontalSpacing: 5,
		VerticalSpacing:   3,
		LabelsPerRow:      3,
		LabelsPerColumn:   10,
		TotalLabels:       30,
		Source:            SourceDefault,
	}
}

// EstimateMeasurements converts the pixel geometry of a pattern into
// millimetres.
func EstimateMeasurements(pat Pattern, f Frame, p Params) Measurements {
	labels := pat.Labels
	if len(labels) == 0 {
		return DefaultMeasurements()
	}

	scale := f.Scale()
	var sumW, sumH float64
	minX, minY := labels[0].X, labels[0].Y
	maxX, maxY := labels[0].X+labels[0].Width, labels[0].Y+labels[0].Height
	for _, l := range labels {
		sumW += float64(l.Width)
		sumH += float64(l.Height)
		minX, minY = min(minX, l.X), min(minY, l.Y)
		maxX, maxY = max(maxX, l.X+l.Width), max(maxY, l.Y+l.Height)
	}
	avg := model.Size{Width: sumW / float64(len(labels)), Height: sumH / float64(len(labels))}

	candidates := dpiCandidates(avg, len(labels), f, p)
	chosen := candidates[0]
	for _, c := range candidates[1:] {
		if c.Confidence > chosen.Confidence {
			chosen = c
		}
	}
	pxToMm := func(px float64) float64 { return px / scale / chosen.DPI * 25.4 }

	m := Measurements{
		AveragePixelSize: avg,
		DPICandidates:    candidates,
		ChosenDPI:        chosen,
		Source:           SourceDetected,
	}

	width, height := pxToMm(avg.Width), pxToMm(avg.Height)
	m.InitialSize = model.Size{Width: width, Height: height}
	if width < 5 || width > 300 || height < 3 || height > 200 {
		columns := pat.Columns
		if columns == 0 {
			columns = 3
		}
		expected := (210.0 - 20.0) / float64(columns)
		factor := expected / width
		width, height = expected, height*factor
		m.Correction = &Correction{
			Factor: factor,
			Reason: fmt.Sprintf("measured %.1fx%.1fmm is implausible, rescaled to %d columns across A4", m.InitialSize.Width, m.InitialSize.Height, columns),
		}
	}

	size, match, source := resolveStandardSize(width, height, m.Correction != nil, p)
	m.StandardMatch = &match
	m.Source = source
	if source == SourceStandard {
		m.DetectedStandardSize = match.Name
	}

	m.LabelWidth = round1(size.Width)
	m.LabelHeight = round1(size.Height)
	m.MarginTop = round1(math.Max(p.MinMarginMm, pxToMm(float64(minY))))
	m.MarginLeft = round1(math.Max(p.MinMarginMm, pxToMm(float64(minX))))
	m.MarginRight = round1(math.Max(p.MinMarginMm, pxToMm(float64(f.Width-maxX))))
	m.MarginBottom = round1(math.Max(p.MinMarginMm, pxToMm(float64(f.Height-maxY))))

	rows := pat.Rows
	if rows == nil {
		rows = GroupRows(labels, p)
	}
	hGaps, vGaps := rowGaps(rows)
	m.HorizontalSpacing = math.Max(p.MinSpacingMm, spacingMm(hGaps, pxToMm, 5, p))
	m.VerticalSpacing = math.Max(p.MinSpacingMm, spacingMm(vGaps, pxToMm, 3, p))

	m.LabelsPerRow = pat.Columns
	m.LabelsPerColumn = pat.RowCount
	m.TotalLabels = len(labels)
	m.EstimatedDPI = int(math.Round(chosen.DPI))
	return m
}

// dpiCandidates lists every plausible scan density, always ending with the
// fallback.
func dpiCandidates(avg model.Size, labelCount int, f Frame, p Params) []DPIEstimate {
	var out []DPIEstimate

	ow, oh := float64(f.OriginalWidth), float64(f.OriginalHeight)
	for _, dpi := range p.CandidateDPIs {
		best := DPIEstimate{DPI: dpi, Method: "paper_size"}
		for _, name := range referencePapers {
			paper := model.PaperSizes[name]
			for _, dims := range [2][2]float64{{paper.Width, paper.Height}, {paper.Height, paper.Width}} {
				ew := dims[0] / 25.4 * dpi
				eh := dims[1] / 25.4 * dpi
				wd := math.Abs(ow-ew) / ew
				hd := math.Abs(oh-eh) / eh
				if wd >= p.PaperTolerance || hd >= p.PaperTolerance {
					continue
				}
				if conf := 1 - (wd+hd)/2; conf > best.Confidence {
					best.Confidence = conf
					best.Reference = name
				}
			}
		}
		if best.Confidence > 0 {
			out = append(out, best)
		}
	}

	if labelCount >= p.MinLabelsForSizeMatch && avg.Height > 0 {
		scale := f.Scale()
		ar := avg.Width / avg.Height
		for _, std := range StandardLabelSizes {
			dpiW := (avg.Width / scale) / (std.Width / 25.4)
			dpiH := (avg.Height / scale) / (std.Height / 25.4)
			if !plausibleDPI(dpiW, p) || !plausibleDPI(dpiH, p) {
				continue
			}
			consistency := 1 - math.Abs(dpiW-dpiH)/math.Max(dpiW, dpiH)
			aspectMatch := 1 - math.Abs(ar-std.AspectRatio)/std.AspectRatio
			conf := math.Min(consistency, aspectMatch) * p.LabelMatchWeight
			if conf > p.MinLabelMatchScore {
				out = append(out, DPIEstimate{
					DPI:        (dpiW + dpiH) / 2,
					Confidence: conf,
					Method:     "label_size",
					Reference:  std.Name,
				})
			}
		}
	}

	return append(out, DPIEstimate{DPI: p.FallbackDPI, Confidence: p.FallbackConfidence, Method: "fallback"})
}

func plausibleDPI(dpi float64, p Params) bool {
	return dpi > p.MinPlausibleDPI && dpi < p.MaxPlausibleDPI
}

// MatchStandardSize returns the standard size closest to w x h mm.
func MatchStandardSize(w, h float64) (StandardLabelSize, StandardMatch) {
	ar := w / h
	var best StandardLabelSize
	match := StandardMatch{Score: math.Inf(1)}
	for _, std := range StandardLabelSizes {
		arDiff := math.Abs(ar-std.AspectRatio) / std.AspectRatio
		score := (relDiff(w, std.Width)+relDiff(h, std.Height))*0.7 + arDiff*0.3
		if score < match.Score {
			best = std
			match = StandardMatch{Name: std.Name, Score: score}
		}
	}
	match.Confidence = math.Max(0, 1-match.Score)
	return best, match
}

// resolveStandardSize keeps, blends or replaces a measured size depending
// on how well it matches a standard one. Corrected sizes are never replaced.
func resolveStandardSize(w, h float64, corrected bool, p Params) (model.Size, StandardMatch, MeasurementSource) {
	detected := model.Size{Width: w, Height: h}
	std, match := MatchStandardSize(w, h)

	switch {
	case match.Confidence < p.StandardBlendLow || corrected:
		return detected, match, SourceDetected
	case match.Confidence > p.StandardBlendHigh:
		return model.Size{Width: std.Width, Height: std.Height}, match, SourceStandard
	default:
		r := (match.Confidence - p.StandardBlendLow) / (p.StandardBlendHigh - p.StandardBlendLow)
		return model.Size{
			Width:  w*(1-r) + std.Width*r,
			Height: h*(1-r) + std.Height*r,
		}, match, SourceStandard
	}
}

// spacingMm is the median of the plausible gaps, or fallback when none are.
func spacingMm(gapsPx []float64, pxToMm func(float64) float64, fallback float64, p Params) float64 {
	var mm []float64
	for _, g := range gapsPx {
		if v := pxToMm(g); v >= p.MinSpacingMm && v <= p.MaxSpacingMm {
			mm = append(mm, v)
		}
	}
	if len(mm) == 0 {
		return fallback
	}
	return math.Max(p.MinSpacingMm, round1(median(mm)))
}
