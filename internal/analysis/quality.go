package analysis

import (
	"image"
	"math"
)

// QualityLevel buckets the overall image quality score.
type QualityLevel string

const (
	QualityExcellent QualityLevel = "excellent"
	QualityGood      QualityLevel = "good"
	QualityFair      QualityLevel = "fair"
	QualityPoor      QualityLevel = "poor"
)

// QualityFactor is one scored aspect of the image.
type QualityFactor struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// QualityMetrics are the raw measurements behind the factors.
type QualityMetrics struct {
	Brightness  float64 `json:"brightness"`
	Contrast    float64 `json:"contrast"`
	EdgeDensity float64 `json:"edge_density"`
	NoiseLevel  float64 `json:"noise_level"`
}

// ImageQuality summarises whether a photo is usable for detection.
type ImageQuality struct {
	Level   QualityLevel    `json:"level"`
	Score   float64         `json:"score"`
	Factors []QualityFactor `json:"factors"`
	Metrics QualityMetrics  `json:"metrics"`
}

// AssessQuality scores brightness, contrast, noise and sharpness of an
// unsmoothed raster.
func AssessQuality(img *image.NRGBA, p Params) ImageQuality {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	gray := luminance(img)

	var m QualityMetrics
	if len(gray) > 0 {
		lo, hi, sum := 255.0, 0.0, 0.0
		for _, v := range gray {
			sum += v
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
		m.Brightness = sum / float64(len(gray))
		m.Contrast = hi - lo
	}
	m.NoiseLevel = noiseLevel(img, m.Brightness, p.NoiseSamples)
	m.EdgeDensity = sharpEdgeDensity(gray, w, h, p.SharpnessThreshold)

	factors := []QualityFactor{
		{Name: "brightness", Score: brightnessScore(m.Brightness)},
		{Name: "contrast", Score: contrastScore(m.Contrast)},
		{Name: "noise", Score: math.Max(0, 1-m.NoiseLevel/10000)},
		{Name: "sharpness", Score: math.Min(1, m.EdgeDensity*20)},
	}
	var total float64
	for _, f := range factors {
		total += f.Score
	}
	score := total / float64(len(factors))

	return ImageQuality{Level: qualityLevel(score), Score: score, Factors: factors, Metrics: m}
}

func brightnessScore(b float64) float64 {
	switch {
	case b >= 120 && b <= 200:
		return 1
	case b >= 80 && b <= 240:
		return 0.7
	default:
		return 0.3
	}
}

func contrastScore(c float64) float64 {
	switch {
	case c >= 150:
		return 1
	case c >= 100:
		return 0.8
	case c >= 50:
		return 0.5
	default:
		return 0.2
	}
}

func qualityLevel(score float64) QualityLevel {
	switch {
	case score >= 0.8:
		return QualityExcellent
	case score >= 0.65:
		return QualityGood
	case score >= 0.45:
		return QualityFair
	default:
		return QualityPoor
	}
}

// noiseLevel is the mean squared channel deviation from the image-wide
// brightness over an evenly strided sample.
func noiseLevel(img *image.NRGBA, brightness float64, samples int) float64 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	n := min(samples, w*h/10)
	if n <= 0 {
		return 0
	}
	step := (w * h) / n
	var total float64
	for i := 0; i < n; i++ {
		idx := i*step + step/2
		x, y := idx%w, idx/w
		o := y*img.Stride + x*4
		r, g, b := float64(img.Pix[o]), float64(img.Pix[o+1]), float64(img.Pix[o+2])
		total += (r-brightness)*(r-brightness) + (g-brightness)*(g-brightness) + (b-brightness)*(b-brightness)
	}
	return total / float64(n)
}

// sharpEdgeDensity is the fraction of pixels with a 4-neighbour whose
// luminance differs by more than threshold.
func sharpEdgeDensity(gray []float64, w, h int, threshold float64) float64 {
	if w == 0 || h == 0 {
		return 0
	}
	count := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			c := gray[y*w+x]
			for _, n := range [4]float64{gray[(y-1)*w+x], gray[(y+1)*w+x], gray[y*w+x-1], gray[y*w+x+1]} {
				if math.Abs(c-n) > threshold {
					count++
					break
				}
			}
		}
	}
	return float64(count) / float64(w*h)
}

// Suggestion texts.
const (
	suggestLowConfidence    = "Detection confidence is low. Try a sharper photo with even lighting."
	suggestMediumConfidence = "Detection confidence is moderate. Check the proposed values before applying them."
	suggestTooDark          = "The image is too dark. Retake it with more light."
	suggestTooBright        = "The image is overexposed. Reduce the light or avoid glare."
	suggestLowContrast      = "Contrast is weak. Make sure the label edges stand out from the sheet."
	suggestBlurry           = "The image looks blurry. Hold the camera steady and check the focus."
	suggestNoGrid           = "No regular grid was found. Photograph the whole sheet straight on."
	suggestFewLabels        = "Only a few labels were detected. Make sure every label is visible."
	suggestStandardSize     = "A standard label size was substituted. Verify it against the sheet."
	suggestSuccess          = "Layout detected. The proposed settings can be applied."
	suggestComplete         = "Analysis complete. Review the proposed settings."
)

// Suggest returns user guidance for a finished analysis.
func Suggest(confidence float64, q ImageQuality, pat Pattern, source MeasurementSource) []string {
	var out []string

	if confidence < 0.5 {
		out = append(out, suggestLowConfidence)
	} else if confidence < 0.7 {
		out = append(out, suggestMediumConfidence)
	}

	if q.Level == QualityPoor {
		if q.Metrics.Brightness < 100 {
			out = append(out, suggestTooDark)
		} else if q.Metrics.Brightness > 220 {
			out = append(out, suggestTooBright)
		}
		if q.Metrics.Contrast < 50 {
			out = append(out, suggestLowContrast)
		}
		if q.Metrics.EdgeDensity < 0.01 {
			out = append(out, suggestBlurry)
		}
	}

	if !pat.GridDetected {
		out = append(out, suggestNoGrid)
	}
	if len(pat.Labels) < 4 {
		out = append(out, suggestFewLabels)
	}
	if source == SourceStandard {
		out = append(out, suggestStandardSize)
	}
	if confidence >= 0.8 && (q.Level == QualityGood || q.Level == QualityExcellent) {
		out = append(out, suggestSuccess)
	}

	if len(out) == 0 {
		out = append(out, suggestComplete)
	}
	return out
}
