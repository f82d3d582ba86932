package engine

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/piwi3910/labelsheet/internal/model"
)

// recordSeparators split used-position text into records.
var recordSeparators = regexp.MustCompile(`[;|\n]+`)

// ParseUsedPositions reads a free-form list of cells. Records are separated
// by ';', '|' or newlines. A record containing '-' holds comma separated
// "row-col" pairs ("0-0, 0-1"); any other record is a flat comma separated
// list read two numbers at a time ("0,0" or "0,0,1,2"). Only non-negative
// integers are accepted and malformed pairs are dropped, so the result is
// never nil and never an error.
func ParseUsedPositions(text string) []model.Position {
	positions := []model.Position{}
	for _, record := range recordSeparators.Split(text, -1) {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}

		if strings.Contains(record, "-") {
			for _, pair := range strings.Split(record, ",") {
				parts := strings.Split(pair, "-")
				if len(parts) != 2 {
					continue
				}
				if p, ok := parseCell(parts[0], parts[1]); ok {
					positions = append(positions, p)
				}
			}
			continue
		}

		fields := strings.Split(record, ",")
		for i := 0; i+1 < len(fields); i += 2 {
			if p, ok := parseCell(fields[i], fields[i+1]); ok {
				positions = append(positions, p)
			}
		}
	}
	return positions
}

// FormatUsedPositions renders positions in the "row-col, row-col" form
// accepted by ParseUsedPositions.
func FormatUsedPositions(positions []model.Position) string {
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

func parseCell(rowStr, colStr string) (model.Position, bool) {
	row, err := strconv.Atoi(strings.TrimSpace(rowStr))
	if err != nil || row < 0 {
		return model.Position{}, false
	}
	col, err := strconv.Atoi(strings.TrimSpace(colStr))
	if err != nil || col < 0 {
		return model.Position{}, false
	}
	return model.Position{Row: row, Col: col}, true
}
