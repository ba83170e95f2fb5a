// Package headcount holds the monthly staff-count series used to turn
// ledger totals into per-head figures.
//
// Each row of the uploaded table is one calendar month; the remaining
// columns are staff groups (by default vam, penzugy, egyeb and osszes, the
// last being the total). Quarterly figures are the mean of the monthly
// counts present in the quarter, rounded to one decimal.
package headcount

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/ledger-analyzer/internal/ledger"
	"github.com/ginjaninja78/ledger-analyzer/internal/types"
	"github.com/ginjaninja78/ledger-analyzer/internal/validation"
)

// DuplicatePeriodError rejects a table with two rows for the same month.
type DuplicatePeriodError struct {
	Year     int
	Month    int
	FirstRow int
	Row      int
}

func (e *DuplicatePeriodError) Error() string {
	return fmt.Sprintf("headcount for %04d-%02d given on row %d and again on row %d", e.Year, e.Month, e.FirstRow, e.Row)
}

// CountParseError reports a headcount cell that is not a number.
type CountParseError struct {
	Row    int
	Column string
	Value  string
}

func (e *CountParseError) Error() string {
	return fmt.Sprintf("row %d: column %s: cannot parse headcount %q", e.Row, e.Column, e.Value)
}

// Record is the headcount of one month. Groups with a blank cell are
// absent from Counts.
type Record struct {
	Year    int
	Quarter int
	Month   int
	Period  string
	Counts  map[string]decimal.Decimal
}

type period struct{ year, month int }

// Table is an immutable headcount series.
type Table struct {
	groups  []string
	records []Record
	lines   []int
	index   map[period]int
}

// Decode reads an accepted headcount table.
func Decode(t *types.Table, columns types.Columns, dateLayouts []string) (*Table, error) {
	dateIdx := columns.IndexOf(types.RoleDate)
	groupIdx := columns.All(types.RoleHeadcountGroup)
	if dateIdx < 0 || len(groupIdx) == 0 {
		return nil, fmt.Errorf("headcount schema needs a date column and at least one group column")
	}

	out := &Table{index: make(map[period]int)}
	for _, g := range groupIdx {
		out.groups = append(out.groups, columns[g].Name)
	}

	for i, row := range t.Rows {
		line := t.Line(i)

		raw := cellAt(row, dateIdx)
		date, err := validation.ParseDate(raw, dateLayouts)
		if err != nil {
			return nil, &ledger.DateParseError{Row: line, Column: columns[dateIdx].Name, Value: raw}
		}

		key := period{date.Year(), int(date.Month())}
		if first, ok := out.index[key]; ok {
			return nil, &DuplicatePeriodError{
				Year: key.year, Month: key.month,
				FirstRow: out.lines[first], Row: line,
			}
		}

		rec := Record{
			Year:    key.year,
			Quarter: (key.month-1)/3 + 1,
			Month:   key.month,
			Period:  fmt.Sprintf("%04d-%02d", key.year, key.month),
			Counts:  make(map[string]decimal.Decimal, len(groupIdx)),
		}
		for _, g := range groupIdx {
			v := strings.TrimSpace(cellAt(row, g))
			if v == "" {
				continue
			}
			n, err := validation.ParseDecimal(v)
			if err != nil {
				return nil, &CountParseError{Row: line, Column: columns[g].Name, Value: v}
			}
			rec.Counts[columns[g].Name] = n
		}

		out.index[key] = len(out.records)
		out.records = append(out.records, rec)
		out.lines = append(out.lines, line)
	}

	return out, nil
}

// Groups returns the staff-group names in column order.
func (h *Table) Groups() []string {
	if h == nil {
		return nil
	}
	return append([]string(nil), h.groups...)
}

// HasGroup reports whether group is one of the table's columns.
func (h *Table) HasGroup(group string) bool {
	for _, g := range h.Groups() {
		if g == group {
			return true
		}
	}
	return false
}

// Len returns the number of months.
func (h *Table) Len() int {
	if h == nil {
		return 0
	}
	return len(h.records)
}

// Records returns the months in table order. Counts maps are shared and
// must not be modified.
func (h *Table) Records() []Record {
	if h == nil {
		return nil
	}
	return append([]Record(nil), h.records...)
}

// Count returns the headcount of a group in one month.
func (h *Table) Count(year, month int, group string) (decimal.Decimal, bool) {
	if h == nil {
		return decimal.Zero, false
	}
	i, ok := h.index[period{year, month}]
	if !ok {
		return decimal.Zero, false
	}
	n, ok := h.records[i].Counts[group]
	return n, ok
}

// QuarterMean returns the mean monthly headcount of a group over the months
// of a quarter that have a value, rounded half-to-even to one decimal.
func (h *Table) QuarterMean(year, quarter int, group string) (decimal.Decimal, bool) {
	sum := decimal.Zero
	n := 0
	for m := (quarter-1)*3 + 1; m <= quarter*3; m++ {
		if c, ok := h.Count(year, m, group); ok {
			sum = sum.Add(c)
			n++
		}
	}
	if n == 0 {
		return decimal.Zero, false
	}
	return sum.Div(decimal.NewFromInt(int64(n))).RoundBank(1), true
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
