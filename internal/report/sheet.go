// =============================================================================
// Ledger Analyzer - Report Tables
// =============================================================================
//
// This module turns query results into Sheets, the neutral table model both
// report writers consume:
//
//   Text  - aligned tables for the terminal
//   XLSX  - one worksheet per Sheet
//
// Every cell carries the display text produced by aggregate.Formatter and,
// for numeric cells, the raw value so that spreadsheets receive numbers
// rather than formatted strings.
//
// =============================================================================

package report

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/ledger-analyzer/internal/aggregate"
	"github.com/ginjaninja78/ledger-analyzer/internal/compare"
	"github.com/ginjaninja78/ledger-analyzer/internal/filter"
)

// =============================================================================
// SHEET MODEL
// =============================================================================

// Cell is one table cell.
type Cell struct {
	// Text is what the terminal shows.
	Text string
	// Value is written to spreadsheets instead of Text when set. It is an
	// int or a float64.
	Value interface{}
}

// Sheet is a titled table.
type Sheet struct {
	Title   string
	Headers []string
	// Numeric marks columns that are right aligned.
	Numeric []bool
	Rows    [][]Cell
	// Footer is printed under the table by the text writer.
	Footer string
}

// Empty reports whether the sheet has no rows.
func (s Sheet) Empty() bool {
	return len(s.Rows) == 0
}

// TextRows returns the display text of every row.
func (s Sheet) TextRows() [][]string {
	out := make([][]string, len(s.Rows))
	for i, row := range s.Rows {
		out[i] = make([]string, len(row))
		for j, c := range row {
			out[i][j] = c.Text
		}
	}
	return out
}

func (s Sheet) numeric(col int) bool {
	return col < len(s.Numeric) && s.Numeric[col]
}

func text(s string) Cell {
	return Cell{Text: s}
}

func integer(n int) Cell {
	return Cell{Text: strconv.Itoa(n), Value: n}
}

func amount(f *aggregate.Formatter, d decimal.Decimal) Cell {
	return Cell{Text: f.Amount(d), Value: d.InexactFloat64()}
}

func nullAmount(f *aggregate.Formatter, d decimal.NullDecimal) Cell {
	if !d.Valid {
		return text(f.NullAmount(d))
	}
	return amount(f, d.Decimal)
}

func percent(f *aggregate.Formatter, d decimal.NullDecimal) Cell {
	if !d.Valid {
		return text(f.Percent(d))
	}
	return Cell{Text: f.Percent(d), Value: d.Decimal.InexactFloat64()}
}

func headcount(f *aggregate.Formatter, d decimal.NullDecimal) Cell {
	if !d.Valid {
		return text(f.Headcount(d))
	}
	return Cell{Text: f.Headcount(d), Value: d.Decimal.InexactFloat64()}
}

// StatusText describes a comparison status for display. Compared rows show
// nothing.
func StatusText(s compare.Status) string {
	switch s {
	case compare.NoPriorValue:
		return "no prior value"
	case compare.NoCurrentValue:
		return "no current value"
	case compare.NoHeadcountData:
		return "no headcount data"
	}
	return ""
}

// =============================================================================
// BUILDERS
// =============================================================================

// Groups builds the sheet of an aggregation result.
func Groups(title string, res *aggregate.Result, f *aggregate.Formatter) Sheet {
	s := Sheet{Title: title}
	for _, l := range res.Levels {
		s.Headers = append(s.Headers, string(l))
		s.Numeric = append(s.Numeric, false)
	}
	s.Headers = append(s.Headers, "amount", "share", "rows")
	s.Numeric = append(s.Numeric, true, true, true)

	for _, g := range res.Groups {
		var row []Cell
		for _, k := range g.Keys {
			row = append(row, text(k))
		}
		row = append(row, amount(f, g.Sum), percent(f, g.Percent), integer(g.Count))
		s.Rows = append(s.Rows, row)
	}
	s.Footer = "total " + f.Amount(res.Total) + " in " + strconv.Itoa(res.Rows) + " rows"
	return s
}

// Rollup builds the sheet of a rollup tree, one row per node, labels
// indented by depth. Only the first aggregate.MaxRollupDepth levels are
// listed; the footer says how many were left out.
func Rollup(title string, root *aggregate.Node, f *aggregate.Formatter) Sheet {
	s := Sheet{
		Title:   title,
		Headers: []string{"level", "label", "amount", "share", "rows"},
		Numeric: []bool{false, false, true, true, true},
	}
	if hidden := root.Depth() - aggregate.MaxRollupDepth; hidden > 0 {
		s.Footer = strconv.Itoa(hidden) + " deeper level(s) not shown"
	}
	root.Limit(aggregate.MaxRollupDepth).Walk(func(n *aggregate.Node, depth int) {
		level := string(n.Level)
		if depth == 0 {
			level = "-"
		}
		s.Rows = append(s.Rows, []Cell{
			text(level),
			text(strings.Repeat("  ", depth) + n.Label),
			amount(f, n.Value),
			percent(f, n.Percent),
			integer(n.Count),
		})
	})
	return s
}

// Series builds the sheet of a time series.
func Series(title string, series *aggregate.Series, f *aggregate.Formatter) Sheet {
	s := Sheet{
		Title:   title,
		Headers: []string{"period", "amount", "rows"},
		Numeric: []bool{false, true, true},
	}
	for _, p := range series.Points {
		s.Rows = append(s.Rows, []Cell{text(p.Label), amount(f, p.Sum), integer(p.Count)})
	}
	s.Footer = "total " + f.Amount(series.Total)
	return s
}

// SeriesSet builds one sheet holding every series of a multi-series
// comparison, one row per (series, period).
func SeriesSet(title string, set *compare.SeriesSet, f *aggregate.Formatter) Sheet {
	s := Sheet{
		Title:   title,
		Headers: []string{"ledger", "year", string(set.Level), "period", "amount", "rows"},
		Numeric: []bool{false, false, false, false, true, true},
	}
	for _, k := range set.Keys {
		series, _ := set.Get(k)
		if series.Empty() {
			s.Rows = append(s.Rows, []Cell{
				text(string(k.Kind)), integer(k.Year), text(k.Group),
				text(aggregate.Undefined), amount(f, decimal.Zero), integer(0),
			})
			continue
		}
		for _, p := range series.Points {
			s.Rows = append(s.Rows, []Cell{
				text(string(k.Kind)), integer(k.Year), text(k.Group),
				text(p.Label), amount(f, p.Sum), integer(p.Count),
			})
		}
	}
	return s
}

// Comparison builds the sheet of a period comparison. labelA and labelB
// name the two periods, e.g. "2023" and "2024".
func Comparison(title string, tbl *compare.Table, labelA, labelB string, f *aggregate.Formatter) Sheet {
	s := Sheet{
		Title:   title,
		Headers: []string{string(tbl.Key), labelA, labelB, "change", "note"},
		Numeric: []bool{false, true, true, true, false},
	}
	for _, r := range tbl.Rows {
		a := text(aggregate.Undefined)
		if r.HasA {
			a = amount(f, r.A)
		}
		b := text(aggregate.Undefined)
		if r.HasB {
			b = amount(f, r.B)
		}
		s.Rows = append(s.Rows, []Cell{text(r.Key), a, b, percent(f, r.Delta), text(StatusText(r.Status))})
	}
	return s
}

// Ratios builds the sheet of a headcount comparison.
func Ratios(title, group string, ratios []compare.Ratio, f *aggregate.Formatter) Sheet {
	s := Sheet{
		Title:   title,
		Headers: []string{"period", "income", "expense", group, "income/head", "expense/head", "note"},
		Numeric: []bool{false, true, true, true, true, true, false},
	}
	for _, r := range ratios {
		s.Rows = append(s.Rows, []Cell{
			text(r.Period),
			amount(f, r.Income),
			amount(f, r.Expense),
			headcount(f, r.Headcount),
			nullAmount(f, r.IncomePerHead),
			nullAmount(f, r.ExpensePerHead),
			text(StatusText(r.Status)),
		})
	}
	return s
}

// Options builds the sheet of the cascading filter options.
func Options(title string, opts []filter.FieldOptions) Sheet {
	s := Sheet{
		Title:   title,
		Headers: []string{"field", "count", "values"},
		Numeric: []bool{false, true, false},
	}
	for _, o := range opts {
		s.Rows = append(s.Rows, []Cell{text(string(o.Field)), integer(len(o.Values)), text(strings.Join(o.Values, ", "))})
	}
	return s
}
