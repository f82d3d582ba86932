package analysis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/labelsheet/internal/model"
)

func quietAnalyzer() *Analyzer {
	return New(DefaultParams(), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

// ─── Pipeline Tests ─────────────────────────────────────────

// syntheticSheet is a 600x800 edge map of a 3x4 grid of 100x50 px outlines
// with 30 px gaps.
func syntheticSheet() EdgeMap {
	m := NewEdgeMap(600, 800)
	for _, y := range []int{60, 140, 220, 300} {
		for _, x := range []int{50, 180, 310} {
			drawRing(m, x, y, 100, 50)
		}
	}
	return m
}

func TestAnalyzeEdges_SyntheticGrid(t *testing.T) {
	a := quietAnalyzer()
	frame := Frame{Width: 600, Height: 800, OriginalWidth: 600, OriginalHeight: 800}
	lp := a.analyzeEdges(syntheticSheet(), frame, ImageQuality{Level: QualityGood})

	assert.Equal(t, 12, lp.DetectedLabels)
	assert.True(t, lp.GridDetected)
	assert.Equal(t, 3, lp.LabelsPerRow)
	assert.Equal(t, 4, lp.LabelsPerColumn)
	assert.Equal(t, 12, lp.TotalLabels)

	// 100 px matches the 50 mm standard ID label at 50.8 dpi.
	assert.Equal(t, 51, lp.EstimatedDPI)
	assert.Equal(t, SourceStandard, lp.MeasurementSource)
	assert.Equal(t, "Standard ID", lp.DetectedStandardSize)
	assert.InDelta(t, 50.0, lp.LabelWidth, 1e-9)
	assert.InDelta(t, 25.0, lp.LabelHeight, 1e-9)

	assert.InDelta(t, 30.0, lp.MarginTop, 1e-9)
	assert.InDelta(t, 25.0, lp.MarginLeft, 1e-9)
	assert.InDelta(t, 95.0, lp.MarginRight, 1e-9)
	assert.InDelta(t, 225.0, lp.MarginBottom, 1e-9)
	assert.InDelta(t, 15.0, lp.HorizontalSpacing, 1e-9)
	assert.InDelta(t, 15.0, lp.VerticalSpacing, 1e-9)

	assert.InDelta(t, 1.0, lp.Confidence, 1e-9)
	assert.Equal(t, []string{suggestStandardSize, suggestSuccess}, lp.Suggestions)

	assert.Equal(t, 12, lp.Debug.TotalRectangles)
	assert.Equal(t, 3600, lp.Debug.EdgePixels)
	assert.InDelta(t, 0.0075, lp.Debug.EdgeDensity, 1e-12)
	require.NotNil(t, lp.Debug.Measurements)
	assert.Equal(t, "label_size", lp.Debug.Measurements.ChosenDPI.Method)
	assert.Empty(t, lp.Debug.Error)
}

func TestAnalyze_BlankImage(t *testing.T) {
	lp, err := quietAnalyzer().Analyze(encodePNG(t, uniformImage(400, 300, white)))
	require.NoError(t, err)

	assert.Equal(t, 0, lp.DetectedLabels)
	assert.False(t, lp.GridDetected)
	assert.Equal(t, SourceDefault, lp.MeasurementSource)
	assert.Equal(t, 50.0, lp.LabelWidth)
	assert.Equal(t, 25.0, lp.LabelHeight)
	assert.Equal(t, 30, lp.TotalLabels)
	assert.InDelta(t, 0.3, lp.Confidence, 1e-9)
	assert.Equal(t, "No labels detected", lp.Debug.Error)
	assert.Nil(t, lp.Debug.Measurements)

	assert.Equal(t, QualityPoor, lp.ImageQuality.Level)
	require.NotEmpty(t, lp.Suggestions)
	assert.Equal(t, suggestLowConfidence, lp.Suggestions[0])
	assert.Contains(t, lp.Suggestions, suggestTooBright)
	assert.Contains(t, lp.Suggestions, suggestLowContrast)
	assert.Contains(t, lp.Suggestions, suggestBlurry)
	assert.Contains(t, lp.Suggestions, suggestNoGrid)
	assert.Contains(t, lp.Suggestions, suggestFewLabels)
}

func TestAnalyze_CorruptInput(t *testing.T) {
	_, err := quietAnalyzer().Analyze([]byte("definitely not an image"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))

	_, err = Analyze(nil)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestAnalyze_Downscales(t *testing.T) {
	lp, err := quietAnalyzer().Analyze(encodePNG(t, uniformImage(2400, 1600, white)))
	require.NoError(t, err)

	assert.Equal(t, Frame{Width: 1200, Height: 800, OriginalWidth: 2400, OriginalHeight: 1600}, lp.Debug.Frame)
	assert.InDelta(t, 0.5, lp.Debug.Scale, 1e-12)
}

func TestAnalyzeImage(t *testing.T) {
	a := New(DefaultParams().WithMaxImageSize(100), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	lp := a.AnalyzeImage(uniformImage(400, 200, white))
	assert.Equal(t, 100, lp.Debug.Frame.Width)
	assert.Equal(t, 50, lp.Debug.Frame.Height)
	assert.Equal(t, SourceDefault, lp.MeasurementSource)
}

func TestAnalyzeCanvas_MatchesAnalyze(t *testing.T) {
	a := quietAnalyzer()
	data := encodePNG(t, uniformImage(2400, 1600, white))

	canvas, err := DecodeCanvas(data, a.Params().MaxImageSize)
	require.NoError(t, err)
	fromCanvas := a.AnalyzeCanvas(canvas)

	fromBytes, err := a.Analyze(data)
	require.NoError(t, err)
	assert.Equal(t, fromBytes, fromCanvas)
	assert.Equal(t, canvas.Width(), fromCanvas.Debug.Frame.Width)
	assert.Equal(t, canvas.Height(), fromCanvas.Debug.Frame.Height)
}

func TestLayoutProposal_ApplyTo(t *testing.T) {
	cfg := model.DefaultPageConfig()
	cfg.StartRow, cfg.StartColumn = 2, 1
	cfg.Prefix = "ID-"

	lp := LayoutProposal{
		LabelWidth: 66.7, LabelHeight: 25.4,
		MarginTop: 12.7, MarginLeft: 4.7, MarginRight: 4.7, MarginBottom: 12.7,
		HorizontalSpacing: 3.2, VerticalSpacing: 0.5,
		LabelsPerRow: 3, LabelsPerColumn: 10,
	}
	out := lp.ApplyTo(cfg)

	assert.Equal(t, 66.7, out.LabelWidth)
	assert.Equal(t, 4.7, out.MarginLeft)
	assert.Equal(t, 3, out.LabelsPerRow)
	assert.Equal(t, 10, out.LabelsPerColumn)
	assert.Equal(t, 0, out.StartRow)
	assert.Equal(t, 0, out.StartColumn)
	assert.Equal(t, "ID-", out.Prefix)
	assert.Equal(t, cfg.PageWidth, out.PageWidth)

	// A proposal without a grid keeps the existing grid.
	out = LayoutProposal{LabelWidth: 40, LabelHeight: 20}.ApplyTo(cfg)
	assert.Equal(t, cfg.LabelsPerRow, out.LabelsPerRow)
}

// ─── Concurrency Tests ──────────────────────────────────────

func TestAnalyzeAsync(t *testing.T) {
	ch := quietAnalyzer().AnalyzeAsync(encodePNG(t, uniformImage(64, 64, white)))
	res, ok := <-ch
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Equal(t, SourceDefault, res.Proposal.MeasurementSource)

	_, ok = <-ch
	assert.False(t, ok, "channel should be closed after one result")
}

func TestAnalyzeBatch_PreservesOrder(t *testing.T) {
	inputs := [][]byte{
		encodePNG(t, uniformImage(64, 32, white)),
		[]byte("garbage"),
		encodePNG(t, uniformImage(32, 64, white)),
	}
	results := quietAnalyzer().AnalyzeBatch(context.Background(), inputs, 2)
	require.Len(t, results, 3)

	require.NoError(t, results[0].Err)
	assert.Equal(t, 64, results[0].Proposal.Debug.Frame.Width)
	assert.ErrorIs(t, results[1].Err, ErrDecode)
	require.NoError(t, results[2].Err)
	assert.Equal(t, 32, results[2].Proposal.Debug.Frame.Width)
}

func TestAnalyzeBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := quietAnalyzer().AnalyzeBatch(ctx, [][]byte{{1}, {2}}, 0)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}
