// =============================================================================
// Ledger Analyzer - File Manager Utility
// =============================================================================
//
// This module provides the file handling the CLI needs around the core:
//   - Input format detection (CSV or XLSX)
//   - Reading input files into memory
//   - Output directory management
//   - Output file naming
//
// =============================================================================

package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/ledger-analyzer/internal/types"
)

// zipMagic starts every XLSX file.
var zipMagic = []byte("PK\x03\x04")

// =============================================================================
// FORMAT DETECTION
// =============================================================================

// DetectFormat decides whether a file is CSV or XLSX.
//
// PARAMETERS:
//   - name: The file name; its extension wins when it is known.
//   - head: The first bytes of the content, used when the extension is
//     missing or unknown.
//
// RETURNS:
//   - FormatXLSX for .xlsx/.xlsm files or zip content, FormatCSV otherwise.
func DetectFormat(name string, head []byte) types.Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return types.FormatXLSX
	case ".csv", ".txt", ".tsv":
		return types.FormatCSV
	}
	if bytes.HasPrefix(head, zipMagic) {
		return types.FormatXLSX
	}
	return types.FormatCSV
}

// InputFile is an input read into memory.
type InputFile struct {
	Path   string
	Format types.Format
	Data   []byte
}

// ReadInput reads a whole input file and detects its format.
func ReadInput(path string) (*InputFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	head := data
	if len(head) > len(zipMagic) {
		head = head[:len(zipMagic)]
	}
	return &InputFile{Path: path, Format: DetectFormat(path, head), Data: data}, nil
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates dir and its parents if they don't exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a unique output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//             Any key of params may be used as {key} as well.
//   - params: Extra placeholder values.
//   - ext: The extension to enforce, e.g. ".xlsx".
//
// EXAMPLE:
//   format: "{report}_{timestamp}"
//   params: {"report": "expense"}
//   output: "expense_20240115_143022.xlsx"
func GenerateOutputFileName(format string, params map[string]string, ext string) string {
	return generateOutputFileName(time.Now(), format, params, ext)
}

func generateOutputFileName(now time.Time, format string, params map[string]string, ext string) string {
	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}
	return result
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
