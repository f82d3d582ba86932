package engine

import "github.com/piwi3910/labelsheet/internal/model"

// GeneratePositionGrid classifies every cell of the sheet grid, indexed
// [row][col]. A listed used cell is CellUsed; a cell before the start
// position (earlier row, or same row and earlier column) is CellSkipped;
// everything else is CellAvailable.
func GeneratePositionGrid(cfg model.PageConfig) [][]model.GridCell {
	perRow, perColumn := cfg.GridSize()
	used := usedSet(cfg.UsedPositions)

	grid := make([][]model.GridCell, perColumn)
	for row := 0; row < perColumn; row++ {
		cells := make([]model.GridCell, perRow)
		for col := 0; col < perRow; col++ {
			cells[col] = model.GridCell{
				Row:    row,
				Col:    col,
				Status: cellStatus(cfg, used, row, col),
			}
		}
		grid[row] = cells
	}
	return grid
}

// CalculateAvailablePositions counts the cells that will receive a label.
func CalculateAvailablePositions(cfg model.PageConfig) int {
	return len(AvailableCells(cfg))
}

// AvailableCells lists the available cells in row-major order. This is the
// order in which items are assigned to cells.
func AvailableCells(cfg model.PageConfig) []model.Position {
	perRow, perColumn := cfg.GridSize()
	used := usedSet(cfg.UsedPositions)

	cells := make([]model.Position, 0, perRow*perColumn)
	for row := 0; row < perColumn; row++ {
		for col := 0; col < perRow; col++ {
			if cellStatus(cfg, used, row, col) == model.CellAvailable {
				cells = append(cells, model.Position{Row: row, Col: col})
			}
		}
	}
	return cells
}

// allCells lists every cell of a perRow x perColumn grid in row-major order.
func allCells(perRow, perColumn int) []model.Position {
	cells := make([]model.Position, 0, perRow*perColumn)
	for row := 0; row < perColumn; row++ {
		for col := 0; col < perRow; col++ {
			cells = append(cells, model.Position{Row: row, Col: col})
		}
	}
	return cells
}

func cellStatus(cfg model.PageConfig, used map[model.Position]bool, row, col int) model.CellStatus {
	if used[model.Position{Row: row, Col: col}] {
		return model.CellUsed
	}
	if row < cfg.StartRow || (row == cfg.StartRow && col < cfg.StartColumn) {
		return model.CellSkipped
	}
	return model.CellAvailable
}

func usedSet(positions []model.Position) map[model.Position]bool {
	set := make(map[model.Position]bool, len(positions))
	for _, p := range positions {
		set[p] = true
	}
	return set
}
