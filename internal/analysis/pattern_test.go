package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Pattern Tests ──────────────────────────────────────────

func TestAnalyzePattern_Degenerate(t *testing.T) {
	p := DefaultParams()

	pat := AnalyzePattern(nil, p)
	assert.Equal(t, 0, pat.RowCount)
	assert.Equal(t, 0, pat.Columns)
	assert.False(t, pat.GridDetected)
	assert.Empty(t, pat.ClusterSizes)

	pat = AnalyzePattern([]DetectedRectangle{rect(10, 10, 50, 20)}, p)
	assert.Equal(t, 1, pat.RowCount)
	assert.Equal(t, 1, pat.Columns)
	assert.Len(t, pat.Labels, 1)
	assert.False(t, pat.GridDetected)
}

func TestAnalyzePattern_NoDominantSize(t *testing.T) {
	rects := []DetectedRectangle{rect(10, 10, 100, 50), rect(200, 10, 40, 40)}
	pat := AnalyzePattern(rects, DefaultParams())

	assert.Len(t, pat.Labels, 2)
	assert.Equal(t, 1, pat.RowCount)
	assert.Equal(t, 2, pat.Columns)
	assert.Equal(t, []int{1, 1}, pat.ClusterSizes)
	assert.False(t, pat.GridDetected)
}

func TestAnalyzePattern_Grid(t *testing.T) {
	rects := gridRects(50, 60, 100, 50, 30, 3, 4)
	rects = append(rects, rect(450, 500, 140, 90)) // outlier size

	pat := AnalyzePattern(rects, DefaultParams())
	assert.Len(t, pat.Labels, 12)
	assert.Equal(t, []int{12, 1}, pat.ClusterSizes)
	assert.Equal(t, 12, pat.MainClusterSize())
	assert.True(t, pat.GridDetected)
	assert.Equal(t, 4, pat.RowCount)
	assert.Equal(t, 3, pat.Columns)
	assert.InDelta(t, 1.0, pat.RowConsistency, 1e-12)
	assert.InDelta(t, 1.0, pat.SpacingConsistency, 1e-12)
	assert.InDelta(t, 1.0, pat.GridConfidence, 1e-12)
	assert.InDelta(t, 30.0, pat.Spacing.Horizontal, 1e-12)
	assert.InDelta(t, 30.0, pat.Spacing.Vertical, 1e-12)
}

func TestAnalyzePattern_SingleRowIsNotAGrid(t *testing.T) {
	pat := AnalyzePattern(gridRects(10, 10, 60, 30, 10, 4, 1), DefaultParams())
	assert.Equal(t, 1, pat.RowCount)
	assert.Equal(t, 4, pat.Columns)
	assert.Zero(t, pat.SpacingConsistency)
	assert.False(t, pat.GridDetected)
}

func TestAnalyzePattern_RaggedRows(t *testing.T) {
	rects := gridRects(10, 10, 60, 30, 10, 3, 2)
	rects = append(rects, rect(10, 90, 60, 30))                    // row of one
	rects = append(rects, gridRects(10, 130, 60, 30, 10, 3, 1)...) // full row

	pat := AnalyzePattern(rects, DefaultParams())
	assert.Equal(t, 4, pat.RowCount)
	assert.Equal(t, 3, pat.Columns, "columns follow the most common row length")
	assert.InDelta(t, 0.75, pat.RowConsistency, 1e-12)
}

func TestGroupRows_ToleratesJitter(t *testing.T) {
	rects := []DetectedRectangle{
		rect(200, 62, 50, 30),
		rect(10, 60, 50, 30),
		rect(100, 58, 50, 30),
		rect(10, 120, 50, 30),
	}
	rows := GroupRows(rects, DefaultParams())
	require.Len(t, rows, 2)
	require.Len(t, rows[0], 3)
	assert.Equal(t, []int{10, 100, 200}, []int{rows[0][0].X, rows[0][1].X, rows[0][2].X})
	assert.Len(t, rows[1], 1)

	assert.Nil(t, GroupRows(nil, DefaultParams()))
}

func TestClusterBySize(t *testing.T) {
	rects := []DetectedRectangle{
		rect(0, 0, 100, 50),
		rect(0, 0, 40, 40),
		rect(0, 0, 105, 52), // within 20% of the first
		rect(0, 0, 42, 38),
	}
	clusters := ClusterBySize(rects, 0.2)
	require.Len(t, clusters, 2)
	assert.Len(t, clusters[0], 2)
	assert.Len(t, clusters[1], 2)
}
