package analysis

// Params holds every tuning threshold of the layout inference pipeline.
type Params struct {
	// Decoding
	MaxImageSize int // long side of the working canvas in px

	// Edge detection
	EdgeThreshold float64 // combined gradient magnitude above which a pixel is an edge
	RobertsWeight float64 // Roberts cross magnitude multiplier

	// Contour filtering
	ScanBorder       int     // px excluded from contour seeding on every side
	MinContourLength int     // contours must have more pixels than this
	MinSizeFraction  float64 // bbox sides relative to min(image w, h)
	MaxSizeFraction  float64
	MinAspectRatio   float64
	MaxAspectRatio   float64
	MinArea          float64 // bbox area in px²
	MaxComplexity    float64 // contourLength² / area
	OverlapThreshold float64 // IoU above which two rectangles are the same label

	// Pattern analysis
	ClusterThreshold      float64 // normalised size distance for one size cluster
	RowToleranceFraction  float64 // of the first label height
	RowToleranceFallback  float64 // px, when the label height is 0
	MinRowConsistency     float64
	MinSpacingConsistency float64
	SpacingVarianceScale  float64

	// Measurement
	CandidateDPIs         []float64
	PaperTolerance        float64 // relative error allowed per axis for a paper match
	MinLabelsForSizeMatch int
	MinPlausibleDPI       float64
	MaxPlausibleDPI       float64
	LabelMatchWeight      float64 // label-size DPI confidence multiplier
	MinLabelMatchScore    float64
	FallbackDPI           float64
	FallbackConfidence    float64
	StandardBlendLow      float64 // below: keep detected size
	StandardBlendHigh     float64 // above: snap to the standard size
	MinMarginMm           float64
	MinSpacingMm          float64
	MaxSpacingMm          float64

	// Quality
	NoiseSamples       int
	SharpnessThreshold float64
}

// DefaultParams returns the thresholds tuned for phone photos and flatbed
// scans of printed label sheets.
func DefaultParams() Params {
	return Params{
		MaxImageSize: 1200,

		EdgeThreshold: 25,
		RobertsWeight: 1.5, // Roberts picks up fine detail Sobel smooths away

		ScanBorder:       2,
		MinContourLength: 20,
		MinSizeFraction:  0.02,
		MaxSizeFraction:  0.4,
		MinAspectRatio:   0.5,
		MaxAspectRatio:   10,
		MinArea:          100,
		MaxComplexity:    50,
		OverlapThreshold: 0.3,

		ClusterThreshold:      0.2,
		RowToleranceFraction:  0.3,
		RowToleranceFallback:  20,
		MinRowConsistency:     0.7,
		MinSpacingConsistency: 0.6,
		SpacingVarianceScale:  1000,

		CandidateDPIs:         []float64{150, 200, 300, 600},
		PaperTolerance:        0.15,
		MinLabelsForSizeMatch: 3,
		MinPlausibleDPI:       50,
		MaxPlausibleDPI:       800,
		LabelMatchWeight:      0.8, // paper matches are more trustworthy
		MinLabelMatchScore:    0.3,
		FallbackDPI:           200,
		FallbackConfidence:    0.2,
		StandardBlendLow:      0.6,
		StandardBlendHigh:     0.8,
		MinMarginMm:           1,
		MinSpacingMm:          0.5,
		MaxSpacingMm:          50,

		NoiseSamples:       1000,
		SharpnessThreshold: 30,
	}
}

// WithMaxImageSize returns a copy of params with a different working canvas size.
func (p Params) WithMaxImageSize(px int) Params {
	if px > 0 {
		p.MaxImageSize = px
	}
	return p
}
