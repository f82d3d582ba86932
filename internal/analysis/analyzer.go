// Package analysis infers a label sheet layout from a photo or scan of a
// printed sheet.
package analysis

import (
	"context"
	"image"
	"log/slog"
	"runtime"
	"sync"
)

// Analyzer runs the detection pipeline with a fixed parameter set. It holds
// no mutable state and is safe for concurrent use.
type Analyzer struct {
	params Params
	logger *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for pipeline diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an Analyzer.
func New(params Params, opts ...Option) *Analyzer {
	a := &Analyzer{params: params, logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Params returns the analyzer's thresholds.
func (a *Analyzer) Params() Params { return a.params }

// Analyze decodes an image and proposes a layout with default parameters.
func Analyze(data []byte) (LayoutProposal, error) {
	return New(DefaultParams()).Analyze(data)
}

// Analyze decodes an image and proposes a layout. Only undecodable input is
// an error; finding no labels yields the default proposal.
func (a *Analyzer) Analyze(data []byte) (LayoutProposal, error) {
	canvas, err := DecodeCanvas(data, a.params.MaxImageSize)
	if err != nil {
		return LayoutProposal{}, err
	}
	return a.AnalyzeCanvas(canvas), nil
}

// AnalyzeImage proposes a layout for an already decoded image.
func (a *Analyzer) AnalyzeImage(img image.Image) LayoutProposal {
	return a.AnalyzeCanvas(NewCanvas(img, a.params.MaxImageSize))
}

// AnalyzeCanvas proposes a layout for a decoded working raster. Detected
// coordinates refer to c.Image.
func (a *Analyzer) AnalyzeCanvas(c Canvas) LayoutProposal {
	quality := AssessQuality(c.Image, a.params)
	edges := DetectEdges(Preprocess(c.Image), a.params)
	return a.analyzeEdges(edges, c.Frame(), quality)
}

func (a *Analyzer) analyzeEdges(edges EdgeMap, f Frame, quality ImageQuality) LayoutProposal {
	edgePixels := edges.Count()
	density := 0.0
	if len(edges.Pix) > 0 {
		density = float64(edgePixels) / float64(len(edges.Pix))
	}

	rects := FindRectangles(edges, a.params)
	pat := AnalyzePattern(rects, a.params)
	m := EstimateMeasurements(pat, f, a.params)
	conf := ScoreConfidence(pat, len(rects), density)

	a.logger.Debug("layout analysis",
		"canvas_width", f.Width,
		"canvas_height", f.Height,
		"edge_density", density,
		"rectangles", len(rects),
		"labels", len(pat.Labels),
		"grid", pat.GridDetected,
		"confidence", conf,
	)

	lp := newProposal(m)
	lp.DetectedLabels = len(pat.Labels)
	lp.GridDetected = pat.GridDetected
	lp.Confidence = conf
	lp.ImageQuality = quality
	lp.Suggestions = Suggest(conf, quality, pat, m.Source)
	lp.Debug = DebugInfo{
		Frame:           f,
		Scale:           f.Scale(),
		EdgePixels:      edgePixels,
		EdgeDensity:     density,
		TotalRectangles: len(rects),
		Pattern:         pat,
	}
	if len(pat.Labels) == 0 {
		lp.Debug.Error = "No labels detected"
	} else {
		lp.Debug.Measurements = &m
	}
	return lp
}

// Result is the outcome of one asynchronous or batched analysis.
type Result struct {
	Proposal LayoutProposal
	Err      error
}

// AnalyzeAsync runs Analyze in a goroutine. The channel receives exactly
// one Result and is then closed.
func (a *Analyzer) AnalyzeAsync(data []byte) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		lp, err := a.Analyze(data)
		ch <- Result{Proposal: lp, Err: err}
	}()
	return ch
}

// AnalyzeBatch analyses several images with at most workers in flight
// (one per CPU when workers <= 0). Results are in input order. Inputs not
// started before ctx is done carry ctx.Err().
func (a *Analyzer) AnalyzeBatch(ctx context.Context, inputs [][]byte, workers int) []Result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]Result, len(inputs))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, data := range inputs {
		if err := ctx.Err(); err != nil {
			results[i] = Result{Err: err}
			continue
		}
		select {
		case <-ctx.Done():
			results[i] = Result{Err: ctx.Err()}
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(idx int, data []byte) {
			defer wg.Done()
			defer func() { <-sem }()
			lp, err := a.Analyze(data)
			results[idx] = Result{Proposal: lp, Err: err}
		}(i, data)
	}

	wg.Wait()
	a.logger.Debug("batch analysis finished", "images", len(inputs), "workers", workers)
	return results
}
