// =============================================================================
// Ledger Analyzer - XLSX Parser
// =============================================================================
//
// This module turns an uploaded XLSX workbook into a raw types.Table.
//
// LAYOUT EXPECTED:
//   - Only the first sheet is read; other sheets are ignored.
//   - The table is anchored at cell A1: row 1 is the header row and the
//     data starts on row 2.
//
//   | A       | B          | C         | ... |
//   |---------|------------|-----------|-----|
//   | partner | datum      | egyseg_ar | ... |
//   | Acme    | 45292      | 1200      | ... |
//
// Cells are read as raw values, so a date cell arrives as its Excel serial
// day number (45292 is 2024-01-01) and a number arrives without display
// formatting. The validation package knows how to read both.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/ledger-analyzer/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile reads an XLSX workbook from disk.
func ParseFile(filePath string) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file, filepath.Base(filePath))
}

// Parse reads the first sheet of an XLSX byte stream.
//
// PARAMETERS:
//   - r: The uploaded bytes.
//   - source: Name used in messages, usually the file name.
//
// RETURNS:
//   - The table. Blank rows are skipped and short rows padded.
//   - An error if the workbook cannot be opened, has no sheet, or its first
//     row is empty.
func Parse(r io.Reader, source string) (*types.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}

	if len(rows) == 0 || isRowEmpty(rows[0]) {
		return nil, fmt.Errorf("sheet %s has no header in row 1", sheetName)
	}

	table := &types.Table{
		Columns: cleanHeaders(rows[0]),
		Source:  source,
	}

	for i, row := range rows[1:] {
		line := i + 2

		if isRowEmpty(row) {
			continue
		}

		cells, err := parseRow(row, len(table.Columns), line)
		if err != nil {
			return nil, err
		}

		table.Rows = append(table.Rows, cells)
		table.Lines = append(table.Lines, line)
	}

	return table, nil
}

// parseRow trims the cells of one sheet row and fits it to the header
// width. A value to the right of the last header is an error.
func parseRow(row []string, width, line int) ([]string, error) {
	cells := make([]string, width)
	for i, cell := range row {
		value := strings.TrimSpace(cell)
		if i >= width {
			if value != "" {
				col, _ := excelize.ColumnNumberToName(i + 1)
				return nil, fmt.Errorf("row %d: value in column %s has no header", line, col)
			}
			continue
		}
		cells[i] = value
	}
	return cells, nil
}

// cleanHeaders trims header cells. Blank headers are named after their
// column letter so mismatch reports can point at them.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			col, _ := excelize.ColumnNumberToName(i + 1)
			header = "Column_" + col
		}
		cleaned[i] = header
	}
	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
