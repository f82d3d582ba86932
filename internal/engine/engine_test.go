package engine

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/piwi3910/labelsheet/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems(n int) []string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf("EMP%04d", i+1)
	}
	return items
}

func TestNew(t *testing.T) {
	cfg := model.DefaultPageConfig()

	e := New(cfg)
	assert.Equal(t, cfg, e.Config)
	assert.False(t, e.firstSheetOnly)
	assert.Same(t, slog.Default(), e.logger)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e = New(cfg, WithFirstSheetOnly(), WithLogger(logger))
	assert.True(t, e.firstSheetOnly)
	assert.Same(t, logger, e.logger)
}

// ─── Layout Tests ──────────────────────────────────────────

func TestLayout_FullDefaultSheet(t *testing.T) {
	pages := Layout(sampleItems(30), model.DefaultPageConfig())

	require.Len(t, pages, 1)
	page := pages[0]
	assert.Equal(t, 0, page.PageIndex)
	assert.Equal(t, 30, page.TotalLabels)
	assert.Equal(t, 0, page.Dropped)
	require.Len(t, page.Labels, 30)

	first := page.Labels[0]
	assert.Equal(t, "EMP0001", first.SourceItemID)
	assert.Equal(t, "EMP0001", first.Text)
	assert.Equal(t, model.Point{X: 10, Y: 10}, first.Position)
	assert.Equal(t, model.Size{Width: 50, Height: 25}, first.Dimensions)

	second := page.Labels[1]
	assert.Equal(t, 0, second.Row)
	assert.Equal(t, 1, second.Col)
	assert.InDelta(t, 65.0, second.Position.X, 1e-9)

	fourth := page.Labels[3]
	assert.Equal(t, 1, fourth.Row)
	assert.Equal(t, 0, fourth.Col)
	assert.InDelta(t, 38.0, fourth.Position.Y, 1e-9)

	last := page.Labels[29]
	assert.Equal(t, 9, last.Row)
	assert.Equal(t, 2, last.Col)
	assert.InDelta(t, 120.0, last.Position.X, 1e-9)
	assert.InDelta(t, 262.0, last.Position.Y, 1e-9)
}

func TestLayout_EmptyItems(t *testing.T) {
	pages := Layout(nil, model.DefaultPageConfig())
	assert.NotNil(t, pages)
	assert.Empty(t, pages)
}

func TestLayout_SecondPageForOverflow(t *testing.T) {
	pages := Layout(sampleItems(31), model.DefaultPageConfig())

	require.Len(t, pages, 2)
	assert.Equal(t, 30, pages[0].TotalLabels)
	assert.Equal(t, 1, pages[1].TotalLabels)
	assert.Equal(t, "EMP0031", pages[1].Labels[0].SourceItemID)
	assert.Equal(t, 0, pages[1].Labels[0].Row)
	assert.Equal(t, 0, pages[1].Labels[0].Col)
}

func TestLayout_StartPositionSkipsCells(t *testing.T) {
	cfg := model.DefaultPageConfig()
	cfg.StartRow = 2
	cfg.StartColumn = 1

	pages := Layout(sampleItems(30), cfg)

	require.Len(t, pages, 1)
	assert.Equal(t, 23, pages[0].TotalLabels)
	assert.Equal(t, 7, pages[0].Dropped)

	first := pages[0].Labels[0]
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, 1, first.Col)
	assert.InDelta(t, 65.0, first.Position.X, 1e-9)
	assert.InDelta(t, 66.0, first.Position.Y, 1e-9)
}

func TestLayout_UsedCellsAreNotPrinted(t *testing.T) {
	cfg := model.DefaultPageConfig()
	cfg.UsedPositions = []model.Position{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 2}}

	pages := Layout(sampleItems(5), cfg)

	require.Len(t, pages, 1)
	got := make([]model.Position, 0, len(pages[0].Labels))
	for _, l := range pages[0].Labels {
		assert.False(t, cfg.IsUsed(l.Row, l.Col), "label placed on used cell %d-%d", l.Row, l.Col)
		got = append(got, model.Position{Row: l.Row, Col: l.Col})
	}
	assert.Equal(t, []model.Position{{Row: 0, Col: 2}, {Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 2, Col: 0}, {Row: 2, Col: 1}}, got)
}

func TestLayout_SkipAppliesToEveryPage(t *testing.T) {
	cfg := model.DefaultPageConfig()
	cfg.StartRow = 1

	pages := Layout(sampleItems(60), cfg)

	require.Len(t, pages, 2)
	for _, p := range pages {
		assert.Equal(t, 27, p.TotalLabels)
		assert.Equal(t, 3, p.Dropped)
		assert.Equal(t, 1, p.Labels[0].Row, "page %d starts below the skipped row", p.PageIndex)
	}
	// Items 28-30 of the first chunk are the ones lost.
	assert.Equal(t, "EMP0031", pages[1].Labels[0].SourceItemID)
}

func TestLayout_FirstSheetOnly(t *testing.T) {
	cfg := model.DefaultPageConfig()
	cfg.StartRow = 1

	pages := New(cfg, WithFirstSheetOnly()).Layout(sampleItems(60))

	require.Len(t, pages, 3)
	assert.Equal(t, 27, pages[0].TotalLabels)
	assert.Equal(t, 30, pages[1].TotalLabels)
	assert.Equal(t, 3, pages[2].TotalLabels)
	assert.Equal(t, 0, pages[1].Labels[0].Row)
	assert.Equal(t, "EMP0028", pages[1].Labels[0].SourceItemID)

	total := 0
	for _, p := range pages {
		total += p.TotalLabels
		assert.Zero(t, p.Dropped)
	}
	assert.Equal(t, 60, total)
}

func TestLayout_FirstSheetOnlyWithFullSheetUsed(t *testing.T) {
	cfg := model.DefaultPageConfig()
	cfg.LabelsPerRow = 1
	cfg.LabelsPerColumn = 1
	cfg.UsedPositions = []model.Position{{Row: 0, Col: 0}}

	pages := New(cfg, WithFirstSheetOnly()).Layout(sampleItems(2))

	require.Len(t, pages, 3)
	assert.Equal(t, 0, pages[0].TotalLabels)
	assert.Equal(t, 1, pages[1].TotalLabels)
	assert.Equal(t, 1, pages[2].TotalLabels)
}

func TestLayout_PrefixAndSuffix(t *testing.T) {
	cfg := model.DefaultPageConfig()
	cfg.Prefix = "ID: "
	cfg.Suffix = " *"

	pages := Layout([]string{"42"}, cfg)

	require.Len(t, pages, 1)
	assert.Equal(t, "ID: 42 *", pages[0].Labels[0].Text)
	assert.Equal(t, "42", pages[0].Labels[0].SourceItemID)
	assert.Equal(t, "label-0-0", pages[0].Labels[0].ID)
}

func TestLayout_Idempotent(t *testing.T) {
	cfg := model.DefaultPageConfig()
	cfg.StartColumn = 2
	cfg.UsedPositions = []model.Position{{Row: 3, Col: 1}}
	items := sampleItems(75)

	assert.Equal(t, Layout(items, cfg), Layout(items, cfg))
}

func TestLayout_Invariants(t *testing.T) {
	configs := []model.PageConfig{model.DefaultPageConfig()}
	for _, p := range model.LabelPresets {
		cfg := model.ApplyPreset(model.DefaultPageConfig(), p)
		cfg.StartRow = 1
		cfg.StartColumn = 1
		cfg.UsedPositions = []model.Position{{Row: 2, Col: 0}, {Row: 3, Col: 1}}
		configs = append(configs, cfg)
	}

	for _, cfg := range configs {
		for _, n := range []int{0, 1, 7, 30, 100} {
			pages := Layout(sampleItems(n), cfg)
			available := CalculateAvailablePositions(cfg)

			total := 0
			for _, p := range pages {
				total += p.TotalLabels
				seen := map[model.Position]bool{}
				for _, l := range p.Labels {
					pos := model.Position{Row: l.Row, Col: l.Col}
					assert.False(t, seen[pos], "cell %s used twice", pos)
					seen[pos] = true
					assert.False(t, cfg.IsUsed(l.Row, l.Col))
					assert.False(t, l.Row < cfg.StartRow || (l.Row == cfg.StartRow && l.Col < cfg.StartColumn))
				}
			}
			assert.LessOrEqual(t, total, n)
			if n <= available {
				assert.Equal(t, n, total)
				assert.LessOrEqual(t, len(pages), 1)
			}
		}
	}
}

// ─── Estimate Tests ────────────────────────────────────────

func TestEstimateSheets(t *testing.T) {
	cfg := model.DefaultPageConfig()
	cfg.StartRow = 1

	est := EstimateSheets(60, cfg)
	assert.Equal(t, 30, est.LabelsPerSheet)
	assert.Equal(t, 27, est.AvailableOnFirst)
	assert.Equal(t, 27, est.AvailablePerSheet)
	assert.Equal(t, 2, est.SheetsNeeded)
	assert.Equal(t, 54, est.Placeable)
	assert.Equal(t, 6, est.Dropped)
	assert.True(t, est.HasOverflow())

	est = New(cfg, WithFirstSheetOnly()).Estimate(60)
	assert.Equal(t, 30, est.AvailablePerSheet)
	assert.Equal(t, 3, est.SheetsNeeded)
	assert.Equal(t, 60, est.Placeable)
	assert.False(t, est.HasOverflow())
}

func TestEstimateMatchesLayout(t *testing.T) {
	cfg := model.DefaultPageConfig()
	cfg.StartColumn = 2
	cfg.UsedPositions = []model.Position{{Row: 5, Col: 0}}

	pages := Layout(sampleItems(95), cfg)
	est := EstimateSheets(95, cfg)

	placed, dropped := 0, 0
	for _, p := range pages {
		placed += p.TotalLabels
		dropped += p.Dropped
	}
	assert.Equal(t, len(pages), est.SheetsNeeded)
	assert.Equal(t, placed, est.Placeable)
	assert.Equal(t, dropped, est.Dropped)
}

// ─── Comparison Tests ──────────────────────────────────────

func TestCompareScenarios(t *testing.T) {
	scenarios := BuildPresetScenarios(model.DefaultPageConfig())
	require.Len(t, scenarios, 1+len(model.LabelPresets))
	assert.Equal(t, "Current Settings", scenarios[0].Name)

	results := CompareScenarios(scenarios, 100)
	require.Len(t, results, len(scenarios))

	current := results[0]
	assert.Equal(t, 4, current.Estimate.SheetsNeeded)
	// 30 labels of 50x25 on A4
	assert.InDelta(t, 30*50*25/(210*297.0)*100, current.Utilisation, 1e-9)

	for i, r := range results {
		assert.Equal(t, scenarios[i].Name, r.Scenario.Name)
		assert.Equal(t, 100, r.Estimate.Placeable)
	}
}
