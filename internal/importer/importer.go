// Package importer reads item ID lists from CSV, Excel and free text, and
// label layouts from DXF die-cut templates.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// MaxIDLength is the longest accepted item ID, in characters.
const MaxIDLength = 20

// ImportResult holds the results of an import operation.
type ImportResult struct {
	IDs       []string
	Column    string // header of the column the IDs were read from
	TotalRows int    // data rows, excluding the header and blank lines
	Errors    []string
	Warnings  []string
}

// idColumnAliases are header names that hold item IDs, in priority order.
var idColumnAliases = []string{
	"id", "employee_id", "employeeid", "emp_id", "empid",
	"employee_number", "employee_no", "employeenumber",
	"staff_id", "staffid", "badge_number", "badge_id",
	"user_id", "userid", "number", "code",
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent multi-column split wins; single-column files fall back to comma.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectIDColumn returns the index of the header cell holding item IDs.
// Aliases are tried case-insensitively as exact matches first, then as
// partial matches in either direction; otherwise the first column is used.
// The second return value is false when no alias matched.
func DetectIDColumn(header []string) (int, bool) {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	for _, alias := range idColumnAliases {
		for i, h := range normalized {
			if h == alias {
				return i, true
			}
		}
	}
	for _, alias := range idColumnAliases {
		for i, h := range normalized {
			if h != "" && (strings.Contains(h, alias) || strings.Contains(alias, h)) {
				return i, true
			}
		}
	}
	return 0, false
}

// getCell safely retrieves a trimmed cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports item IDs from a CSV file. The text encoding and the
// delimiter are detected automatically.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	raw, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	data, encoding, err := decodeText(raw)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot decode file: %v", err))
		return result
	}
	if encoding != "utf-8" {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Decoded %s text", encoding))
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports item IDs from UTF-8 CSV with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	records, err := readCSV(reader, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importFromRows(records, "Line", nil)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1
	return csvReader.ReadAll()
}

// ImportExcel imports item IDs from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// The first row is always a header.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	if len(rows) == 0 || isEmptyRow(rows[0]) {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	header := rows[0]
	col, matched := DetectIDColumn(header)
	result.Column = strings.TrimSpace(header[col])
	if !matched {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("No ID column found, using first column '%s'", result.Column))
	}

	seen := make(map[string]bool)
	var duplicates []string
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		result.TotalRows++
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)

		id := getCell(row, col)
		switch {
		case id == "":
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Empty ID", rowLabel))
		case utf8.RuneCountInString(id) > MaxIDLength:
			result.Errors = append(result.Errors, fmt.Sprintf("%s: ID too long (%s)", rowLabel, id))
		case seen[id]:
			duplicates = append(duplicates, id)
		default:
			seen[id] = true
			result.IDs = append(result.IDs, id)
		}
	}

	if len(duplicates) > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Skipped duplicate IDs: %s", strings.Join(duplicates, ", ")))
	}
	if len(result.IDs) == 0 {
		result.Errors = append(result.Errors, "No valid IDs found")
	}
	return result
}

var idSeparators = regexp.MustCompile(`[\n,;|\t]+`)

// ParseIDs splits pasted text into IDs on newlines, commas, semicolons,
// pipes and tabs. Invalid IDs are dropped and duplicates keep their first
// occurrence. The result is never nil.
func ParseIDs(text string) []string {
	ids := []string{}
	seen := make(map[string]bool)
	for _, part := range idSeparators.Split(text, -1) {
		id := strings.TrimSpace(part)
		if !ValidateID(id) || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// ValidateID reports whether id is non-blank and at most MaxIDLength
// characters after trimming.
func ValidateID(id string) bool {
	trimmed := strings.TrimSpace(id)
	return trimmed != "" && utf8.RuneCountInString(trimmed) <= MaxIDLength
}

// GenerateSampleIDs returns EMP0001, EMP0002, ... for previews and tests.
func GenerateSampleIDs(count int) []string {
	ids := make([]string, 0, max(count, 0))
	for i := 1; i <= count; i++ {
		ids = append(ids, fmt.Sprintf("EMP%04d", i))
	}
	return ids
}

var sampleDepartments = []struct {
	upTo int
	name string
}{
	{20, "IT"},
	{35, "HR"},
	{50, "Finance"},
}

// WriteSampleCSV writes a 50-row employee list with an ID column.
func WriteSampleCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"employee_id", "name", "department"}); err != nil {
		return err
	}
	for i, id := range GenerateSampleIDs(50) {
		n := i + 1
		dept := sampleDepartments[len(sampleDepartments)-1].name
		for _, d := range sampleDepartments {
			if n <= d.upTo {
				dept = d.name
				break
			}
		}
		if err := cw.Write([]string{id, fmt.Sprintf("Employee %d", n), dept}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes ids as a single employee_id column.
func ExportCSV(w io.Writer, ids []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"employee_id"}); err != nil {
		return err
	}
	for _, id := range ids {
		if err := cw.Write([]string{id}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSVFile writes ids to a CSV file at path.
func ExportCSVFile(path string, ids []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	if err := ExportCSV(f, ids); err != nil {
		f.Close()
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return f.Close()
}
