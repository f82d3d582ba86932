// Package engine lays items out on label sheets: it classifies the sheet grid
// into available, used and skipped cells and assigns items to pages.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/piwi3910/labelsheet/internal/model"
)

// Engine lays items out on pages for one sheet configuration.
type Engine struct {
	Config model.PageConfig

	firstSheetOnly bool
	logger         *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithFirstSheetOnly applies the start position and used cells to the first
// page only. Later pages use the whole grid and no item is dropped.
func WithFirstSheetOnly() Option {
	return func(e *Engine) { e.firstSheetOnly = true }
}

// WithLogger sets the logger used for layout diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine for cfg with the given options applied.
func New(cfg model.PageConfig, opts ...Option) *Engine {
	e := &Engine{Config: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Layout places items with the default engine for cfg.
func Layout(items []string, cfg model.PageConfig) []model.Page {
	return New(cfg).Layout(items)
}

// pagePlan is the item chunk assigned to one page and the cells it may use.
type pagePlan struct {
	start, end int
	slots      []model.Position
}

// plan splits itemCount items into pages. By default every page takes a
// chunk of perRow*perColumn items and reuses the same available cells, so
// a chunk larger than the available cells loses its tail.
func (e *Engine) plan(itemCount int) []pagePlan {
	perRow, perColumn := e.Config.GridSize()
	perPage := perRow * perColumn
	available := AvailableCells(e.Config)
	full := allCells(perRow, perColumn)

	var plans []pagePlan
	for start, pageIndex := 0, 0; start < itemCount; pageIndex++ {
		slots := available
		size := perPage
		if e.firstSheetOnly {
			if pageIndex > 0 {
				slots = full
			}
			size = len(slots)
		}

		end := min(start+size, itemCount)
		plans = append(plans, pagePlan{start: start, end: end, slots: slots})
		start = end
	}
	return plans
}

// Layout assigns items to pages in order. The i-th item of a page goes to the
// page's i-th available cell. An empty item list yields no pages.
func (e *Engine) Layout(items []string) []model.Page {
	pages := []model.Page{}
	for pageIndex, p := range e.plan(len(items)) {
		page := e.placePage(pageIndex, items[p.start:p.end], p.slots)
		if page.Dropped > 0 {
			e.logger.Debug("items dropped on page",
				"page", pageIndex, "dropped", page.Dropped, "available", len(p.slots))
		}
		pages = append(pages, page)
	}
	return pages
}

func (e *Engine) placePage(pageIndex int, chunk []string, slots []model.Position) model.Page {
	cfg := e.Config
	labels := make([]model.PlacedLabel, 0, min(len(chunk), len(slots)))

	for i, item := range chunk {
		if i >= len(slots) {
			break
		}
		cell := slots[i]
		labels = append(labels, model.PlacedLabel{
			ID:           fmt.Sprintf("label-%d-%d", pageIndex, i),
			SourceItemID: item,
			Text:         cfg.Prefix + item + cfg.Suffix,
			Position: model.Point{
				X: cfg.MarginLeft + float64(cell.Col)*(cfg.LabelWidth+cfg.HorizontalSpacing),
				Y: cfg.MarginTop + float64(cell.Row)*(cfg.LabelHeight+cfg.VerticalSpacing),
			},
			Dimensions: model.Size{Width: cfg.LabelWidth, Height: cfg.LabelHeight},
			Row:        cell.Row,
			Col:        cell.Col,
		})
	}

	return model.Page{
		PageIndex:   pageIndex,
		Labels:      labels,
		TotalLabels: len(labels),
		Dropped:     len(chunk) - len(labels),
	}
}
