package analysis

// ScoreConfidence rates how trustworthy a proposal is, in [0, 1].
func ScoreConfidence(pat Pattern, rectCount int, edgeDensity float64) float64 {
	conf := 0.3

	if pat.GridDetected {
		conf += 0.4
		if pat.GridConfidence > 0.8 {
			conf += 0.1
		}
	}

	switch n := len(pat.Labels); {
	case n >= 6:
		conf += 0.15
	case n >= 3:
		conf += 0.1
	}

	if len(pat.Labels) > 1 {
		widths := make([]float64, len(pat.Labels))
		heights := make([]float64, len(pat.Labels))
		for i, l := range pat.Labels {
			widths[i], heights[i] = float64(l.Width), float64(l.Height)
		}
		cvW, cvH := coefficientOfVariation(widths), coefficientOfVariation(heights)
		switch {
		case cvW < 0.15 && cvH < 0.15:
			conf += 0.15
		case cvW < 0.25 && cvH < 0.25:
			conf += 0.1
		}
	}

	if edgeDensity > 0.02 && edgeDensity < 0.15 {
		conf += 0.1
	}

	if len(pat.ClusterSizes) > 0 && rectCount > 0 {
		if float64(pat.MainClusterSize())/float64(rectCount) > 0.7 {
			conf += 0.05
		}
	}

	return min(1, max(0, conf))
}
