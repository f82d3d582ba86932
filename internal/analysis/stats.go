package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// popVariance is the population variance; 0 for an empty sample.
func popVariance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	_, v := stat.PopMeanVariance(xs, nil)
	return v
}

// coefficientOfVariation is stddev/mean. A zero mean yields +Inf so that
// no "consistent size" threshold is met.
func coefficientOfVariation(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m, v := stat.PopMeanVariance(xs, nil)
	if m == 0 {
		return math.Inf(1)
	}
	return math.Sqrt(v) / m
}

// median averages the two middle values of an even-sized sample.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// mode returns the most frequent value; the first value to reach the top
// count wins ties.
func mode(xs []int) int {
	if len(xs) == 0 {
		return 0
	}
	counts := make(map[int]int, len(xs))
	best, bestCount := xs[0], 0
	for _, x := range xs {
		counts[x]++
		if counts[x] > bestCount {
			best, bestCount = x, counts[x]
		}
	}
	return best
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
