package analysis

import (
	"math"
	"sort"
)

// Spacing is a pair of mean gaps in px.
type Spacing struct {
	Horizontal float64 `json:"horizontal"`
	Vertical   float64 `json:"vertical"`
}

// Pattern describes how the detected rectangles are arranged.
type Pattern struct {
	Labels             []DetectedRectangle   `json:"labels"`
	Rows               [][]DetectedRectangle `json:"-"`
	GridDetected       bool                  `json:"grid_detected"`
	RowCount           int                   `json:"rows"`
	Columns            int                   `json:"columns"`
	ClusterSizes       []int                 `json:"cluster_sizes"`
	RowConsistency     float64               `json:"row_consistency"`
	SpacingConsistency float64               `json:"spacing_consistency"`
	GridConfidence     float64               `json:"grid_confidence"`
	Spacing            Spacing               `json:"spacing"`
}

// MainClusterSize is the member count of the largest size cluster.
func (p Pattern) MainClusterSize() int {
	n := 0
	for _, s := range p.ClusterSizes {
		n = max(n, s)
	}
	return n
}

// AnalyzePattern keeps the dominant same-size cluster and checks whether it
// forms a regular grid.
func AnalyzePattern(rects []DetectedRectangle, p Params) Pattern {
	if len(rects) < 2 {
		pat := Pattern{Labels: rects, Columns: len(rects), ClusterSizes: []int{}}
		if len(rects) > 0 {
			pat.RowCount = 1
			pat.Rows = [][]DetectedRectangle{rects}
		}
		return pat
	}

	clusters := ClusterBySize(rects, p.ClusterThreshold)
	sizes := make([]int, len(clusters))
	main := clusters[0]
	for i, c := range clusters {
		sizes[i] = len(c)
		if len(c) > len(main) {
			main = c
		}
	}

	if len(main) < 2 {
		return Pattern{
			Labels:       rects,
			Rows:         [][]DetectedRectangle{rects},
			RowCount:     1,
			Columns:      len(rects),
			ClusterSizes: sizes,
		}
	}

	pat := analyzeGrid(main, p)
	pat.ClusterSizes = sizes
	return pat
}

// ClusterBySize greedily groups rectangles whose normalised size distance
// to the cluster seed is below threshold.
func ClusterBySize(rects []DetectedRectangle, threshold float64) [][]DetectedRectangle {
	used := make([]bool, len(rects))
	var clusters [][]DetectedRectangle
	for i := range rects {
		if used[i] {
			continue
		}
		used[i] = true
		cluster := []DetectedRectangle{rects[i]}
		for j := i + 1; j < len(rects); j++ {
			if !used[j] && sizeDistance(rects[i], rects[j]) < threshold {
				used[j] = true
				cluster = append(cluster, rects[j])
			}
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}

// GroupRows sorts rectangles top to bottom and buckets them into rows. A
// rectangle joins the current row when its top edge is within the tolerance
// of the row anchor; each row is then ordered left to right.
func GroupRows(rects []DetectedRectangle, p Params) [][]DetectedRectangle {
	if len(rects) == 0 {
		return nil
	}
	sorted := append([]DetectedRectangle(nil), rects...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	tolerance := float64(sorted[0].Height) * p.RowToleranceFraction
	if tolerance == 0 {
		tolerance = p.RowToleranceFallback
	}

	var rows [][]DetectedRectangle
	var row []DetectedRectangle
	anchor := sorted[0].Y
	for _, r := range sorted {
		if math.Abs(float64(r.Y-anchor)) <= tolerance {
			row = append(row, r)
			continue
		}
		rows = append(rows, row)
		row = []DetectedRectangle{r}
		anchor = r.Y
	}
	rows = append(rows, row)

	for _, r := range rows {
		sort.SliceStable(r, func(i, j int) bool { return r[i].X < r[j].X })
	}
	return rows
}

func analyzeGrid(labels []DetectedRectangle, p Params) Pattern {
	rows := GroupRows(labels, p)

	lengths := make([]int, len(rows))
	for i, r := range rows {
		lengths[i] = len(r)
	}
	columns := mode(lengths)
	consistent := 0
	for _, n := range lengths {
		if n >= columns-1 && n <= columns+1 {
			consistent++
		}
	}
	rowConsistency := float64(consistent) / float64(len(rows))

	var spacing Spacing
	var spacingConsistency float64
	if len(rows) > 1 {
		hGaps, vGaps := rowGaps(rows)
		spacingConsistency = 1 / (1 + (popVariance(hGaps)+popVariance(vGaps))/p.SpacingVarianceScale)
		spacing = Spacing{Horizontal: mean(hGaps), Vertical: mean(vGaps)}
	}

	return Pattern{
		Labels:             labels,
		Rows:               rows,
		GridDetected:       rowConsistency > p.MinRowConsistency && spacingConsistency > p.MinSpacingConsistency && len(rows) >= 2,
		RowCount:           len(rows),
		Columns:            columns,
		RowConsistency:     rowConsistency,
		SpacingConsistency: spacingConsistency,
		GridConfidence:     (rowConsistency + spacingConsistency) / 2,
		Spacing:            spacing,
	}
}

// rowGaps returns the positive px gaps between neighbours in a row and
// between the first labels of consecutive rows.
func rowGaps(rows [][]DetectedRectangle) (horizontal, vertical []float64) {
	for _, row := range rows {
		for i := 1; i < len(row); i++ {
			if gap := row[i].X - (row[i-1].X + row[i-1].Width); gap > 0 {
				horizontal = append(horizontal, float64(gap))
			}
		}
	}
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1][0], rows[i][0]
		if gap := cur.Y - (prev.Y + prev.Height); gap > 0 {
			vertical = append(vertical, float64(gap))
		}
	}
	return horizontal, vertical
}
