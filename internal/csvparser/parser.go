// =============================================================================
// Ledger Analyzer - CSV Parser Module
// =============================================================================
//
// This module turns an uploaded CSV byte stream into a raw types.Table.
// It handles:
//   - Different delimiters (comma, semicolon, pipe, tab)
//   - Legacy single-byte encodings used by Hungarian accounting exports
//     (ISO-8859-2, Windows-1250) as well as ISO-8859-1 / Windows-1252
//   - A UTF-8 byte order mark on the header row
//   - Blank rows, which are skipped but keep the source row numbering
//
// No typing happens here: every cell stays a trimmed string. The schema
// validator and the ledger normalizer decide what the cells mean.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/ledger-analyzer/internal/config"
	"github.com/ginjaninja78/ledger-analyzer/internal/types"
)

// =============================================================================
// ERRORS
// =============================================================================

// RowWidthError reports a data row carrying non-empty cells beyond the
// header width.
type RowWidthError struct {
	Line    int
	Fields  int
	Columns int
}

func (e *RowWidthError) Error() string {
	return fmt.Sprintf("row %d has %d fields but the header has %d columns", e.Line, e.Fields, e.Columns)
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile reads a CSV file from disk.
func ParseFile(filePath string, settings config.CSVSettings) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file, settings, filepath.Base(filePath))
}

// Parse reads a CSV byte stream and returns the raw table.
//
// PARAMETERS:
//   - r: The uploaded bytes.
//   - settings: Delimiter and encoding.
//   - source: Name used in messages, usually the file name.
//
// RETURNS:
//   - The table with its header row and data rows. Short rows are padded
//     with empty cells.
//   - An error if the stream is not valid CSV, is empty, or a row is wider
//     than the header.
//
// PARSING PROCESS:
//   1. Decode the configured encoding to UTF-8
//   2. Configure the CSV reader with the configured delimiter
//   3. Take the first row as the header
//   4. Read the data rows, skipping blank ones and recording the source
//      line of each kept row
func Parse(r io.Reader, settings config.CSVSettings, source string) (*types.Table, error) {
	decoder, err := lookupEncoding(settings.Encoding)
	if err != nil {
		return nil, err
	}

	var reader io.Reader = bufio.NewReader(r)
	if decoder != nil {
		reader = transform.NewReader(reader, decoder.NewDecoder())
	}

	csvReader := csv.NewReader(reader)
	configureReader(csvReader, settings)

	var table *types.Table

	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		// encoding/csv skips blank lines, so take the line from the reader.
		line, _ := csvReader.FieldPos(0)

		if table == nil {
			table = &types.Table{
				Columns: cleanHeaders(row),
				Source:  source,
			}
			continue
		}

		if isRowEmpty(row) {
			continue
		}

		cells, err := fitRow(row, len(table.Columns), line)
		if err != nil {
			return nil, err
		}

		table.Rows = append(table.Rows, cells)
		table.Lines = append(table.Lines, line)
	}

	if table == nil {
		return nil, fmt.Errorf("CSV file is empty")
	}

	return table, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	// Handle special cases for common delimiters.
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Width is checked against the header in fitRow.
	reader.FieldsPerRecord = -1

	// Exports from spreadsheet tools are not always strict about quoting.
	reader.LazyQuotes = true

	reader.TrimLeadingSpace = true
}

// lookupEncoding returns the decoder for a configured encoding name.
// UTF-8 needs no decoder and yields nil.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "_", "-")) {
	case "", "UTF-8", "UTF8":
		return nil, nil
	case "ISO-8859-2", "LATIN2", "LATIN-2":
		return charmap.ISO8859_2, nil
	case "WINDOWS-1250", "CP1250":
		return charmap.Windows1250, nil
	case "ISO-8859-1", "LATIN1", "LATIN-1":
		return charmap.ISO8859_1, nil
	case "WINDOWS-1252", "CP1252":
		return charmap.Windows1252, nil
	}
	return nil, fmt.Errorf("unsupported CSV encoding %q", name)
}

// cleanHeaders trims header values and strips a UTF-8 byte order mark.
//
// Empty headers get a positional placeholder so that the schema validator
// can name them in its mismatch report.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, "\ufeff")
		}
		header = strings.TrimSpace(header)

		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}

		cleaned[i] = header
	}

	return cleaned
}

// fitRow trims every cell and pads or cuts the row to the header width.
// Only empty trailing cells may be cut.
func fitRow(row []string, width, line int) ([]string, error) {
	cells := make([]string, width)
	for i, cell := range row {
		value := strings.TrimSpace(cell)
		if i >= width {
			if value != "" {
				return nil, &RowWidthError{Line: line, Fields: len(row), Columns: width}
			}
			continue
		}
		cells[i] = value
	}
	return cells, nil
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
