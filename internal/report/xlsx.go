package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// maxSheetName is the Excel limit on worksheet names.
const maxSheetName = 31

// XLSX writes sheets into a workbook, one worksheet per sheet.
type XLSX struct {
	// ColumnWidth is applied to every column. Zero keeps Excel's default.
	ColumnWidth float64
}

// NewXLSX returns a workbook writer with readable column widths.
func NewXLSX() *XLSX {
	return &XLSX{ColumnWidth: 18}
}

// Build creates the workbook in memory. The caller must Close it.
//
// PARAMETERS:
//   - sheets: The tables to write, in worksheet order. Titles become
//     worksheet names, shortened and made unique as Excel requires.
//
// RETURNS:
//   - The workbook
//   - An error if a worksheet could not be written
func (x *XLSX) Build(sheets ...Sheet) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	used := make(map[string]bool)
	for i, s := range sheets {
		name := sheetName(s.Title, i, used)

		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to add sheet %q: %w", name, err)
		}

		if err := x.writeSheet(f, name, s, bold); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write sheet %q: %w", name, err)
		}
	}

	return f, nil
}

// Write builds the workbook and writes it to w.
func (x *XLSX) Write(w io.Writer, sheets ...Sheet) error {
	f, err := x.Build(sheets...)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Save builds the workbook and writes it to path.
func (x *XLSX) Save(path string, sheets ...Sheet) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := x.Write(out, sheets...); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (x *XLSX) writeSheet(f *excelize.File, name string, s Sheet, headerStyle int) error {
	header := make([]interface{}, len(s.Headers))
	for i, h := range s.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	if len(s.Headers) > 0 {
		last, err := excelize.CoordinatesToCellName(len(s.Headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
			return err
		}
		if x.ColumnWidth > 0 {
			lastCol, err := excelize.ColumnNumberToName(len(s.Headers))
			if err != nil {
				return err
			}
			if err := f.SetColWidth(name, "A", lastCol, x.ColumnWidth); err != nil {
				return err
			}
		}
	}

	for r, row := range s.Rows {
		values := make([]interface{}, len(row))
		for i, c := range row {
			if c.Value != nil {
				values[i] = c.Value
			} else {
				values[i] = c.Text
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

// sheetName makes a valid, unique worksheet name from a title.
func sheetName(title string, index int, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	name = strings.Trim(name, "'")
	if name == "" {
		name = "Sheet" + strconv.Itoa(index+1)
	}
	name = truncate(name, maxSheetName)

	base := name
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := " (" + strconv.Itoa(n) + ")"
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
