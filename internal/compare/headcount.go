package compare

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/ledger-analyzer/internal/aggregate"
	"github.com/ginjaninja78/ledger-analyzer/internal/headcount"
	"github.com/ginjaninja78/ledger-analyzer/internal/ledger"
)

// RatioPrecision is the number of decimals per-head values are rounded to.
const RatioPrecision int32 = 2

// Ratio is one period of a headcount comparison.
type Ratio struct {
	Period string
	Year   int
	// Index is the month (1-12) or quarter (1-4).
	Index int

	Income  decimal.Decimal
	Expense decimal.Decimal

	// Headcount is the monthly count, or the quarterly mean of the monthly
	// counts. Invalid when the period has no count.
	Headcount decimal.NullDecimal

	IncomePerHead  decimal.NullDecimal
	ExpensePerHead decimal.NullDecimal

	Status Status
}

// WithHeadcount divides the income and expense of every period by the
// headcount of one staff group.
//
// Periods are the union of the periods in which either ledger has records,
// in chronological order. A period whose count is missing or zero is kept
// with status NoHeadcountData and no per-head values.
//
// RETURNS:
//   - The ratios, oldest period first
//   - An error if the group is not a headcount column or the granularity is
//     unknown
func WithHeadcount(income, expense *ledger.Ledger, hc *headcount.Table, group string, g aggregate.Granularity) ([]Ratio, error) {
	if hc == nil {
		return nil, errors.New("no headcount table loaded")
	}
	if !hc.HasGroup(group) {
		return nil, fmt.Errorf("unknown headcount group %q (have %v)", group, hc.Groups())
	}

	in, err := aggregate.OverTime(income, g)
	if err != nil {
		return nil, err
	}
	ex, err := aggregate.OverTime(expense, g)
	if err != nil {
		return nil, err
	}

	type key struct{ year, index int }
	rows := make(map[key]*Ratio)
	get := func(p aggregate.Point) *Ratio {
		k := key{p.Year, p.Index}
		r, ok := rows[k]
		if !ok {
			r = &Ratio{Period: p.Label, Year: p.Year, Index: p.Index, Income: decimal.Zero, Expense: decimal.Zero}
			rows[k] = r
		}
		return r
	}
	for _, p := range in.Points {
		get(p).Income = p.Sum
	}
	for _, p := range ex.Points {
		get(p).Expense = p.Sum
	}

	out := make([]Ratio, 0, len(rows))
	for _, r := range rows {
		count, ok := divisor(hc, g, r.Year, r.Index, group)
		if !ok || count.IsZero() {
			r.Status = NoHeadcountData
			if ok {
				r.Headcount = decimal.NewNullDecimal(count)
			}
		} else {
			r.Status = Compared
			r.Headcount = decimal.NewNullDecimal(count)
			r.IncomePerHead = decimal.NewNullDecimal(r.Income.Div(count).Round(RatioPrecision))
			r.ExpensePerHead = decimal.NewNullDecimal(r.Expense.Div(count).Round(RatioPrecision))
		}
		out = append(out, *r)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Index < out[j].Index
	})
	return out, nil
}

func divisor(hc *headcount.Table, g aggregate.Granularity, year, index int, group string) (decimal.Decimal, bool) {
	if g == aggregate.Quarterly {
		return hc.QuarterMean(year, index, group)
	}
	return hc.Count(year, index, group)
}
