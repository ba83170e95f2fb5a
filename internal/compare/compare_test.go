package compare

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/ledger-analyzer/internal/aggregate"
	"github.com/ginjaninja78/ledger-analyzer/internal/config"
	"github.com/ginjaninja78/ledger-analyzer/internal/headcount"
	"github.com/ginjaninja78/ledger-analyzer/internal/ledger"
	"github.com/ginjaninja78/ledger-analyzer/internal/types"
)

func rec(year, month int, cat string, net int64) ledger.Record {
	return ledger.Record{
		Year: year, Month: month, Quarter: (month-1)/3 + 1,
		Period:   fmt.Sprintf("%04d-%02d", year, month),
		Category: cat, Net: decimal.NewFromInt(net),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPeriods(t *testing.T) {
	a := ledger.New(types.Income, []ledger.Record{
		rec(2023, 1, "X", 1000),
		rec(2023, 2, "Y", 200),
		rec(2023, 3, "Z", 0),
	})
	b := ledger.New(types.Income, []ledger.Record{
		rec(2024, 1, "X", 1500),
		rec(2024, 1, "W", 10),
		rec(2024, 3, "Z", 40),
	})

	tbl, err := Periods(a, b, types.FieldCategory)
	require.NoError(t, err)

	var keys []string
	for _, r := range tbl.Rows {
		keys = append(keys, r.Key)
	}
	require.Equal(t, []string{"W", "X", "Y", "Z"}, keys)

	x, _ := tbl.Lookup("X")
	require.Equal(t, Compared, x.Status)
	require.True(t, x.Delta.Valid)
	require.True(t, x.Delta.Decimal.Equal(dec("50")))

	w, _ := tbl.Lookup("W")
	require.Equal(t, NoPriorValue, w.Status)
	require.False(t, w.HasA)
	require.False(t, w.Delta.Valid)

	y, _ := tbl.Lookup("Y")
	require.Equal(t, NoCurrentValue, y.Status)
	require.False(t, y.Delta.Valid)

	z, _ := tbl.Lookup("Z")
	require.Equal(t, NoPriorValue, z.Status)
	require.True(t, z.HasA)
}

func TestPeriods_DeltaRounding(t *testing.T) {
	a := ledger.New(types.Expense, []ledger.Record{rec(2023, 1, "X", 3)})
	b := ledger.New(types.Expense, []ledger.Record{rec(2024, 1, "X", 4)})
	tbl, err := Periods(a, b, types.FieldCategory)
	require.NoError(t, err)
	require.Equal(t, "33.33", tbl.Rows[0].Delta.Decimal.StringFixed(2))
}

func TestYears_MissingPriorYear(t *testing.T) {
	l := ledger.New(types.Expense, []ledger.Record{
		rec(2023, 5, "X", 1000),
		rec(2024, 5, "Y", 300),
	})

	// 2024 is the base; X only exists in 2023
	tbl, err := Years(l, 2024, 2023, types.FieldCategory)
	require.NoError(t, err)
	x, ok := tbl.Lookup("X")
	require.True(t, ok)
	require.Equal(t, NoPriorValue, x.Status)
	require.False(t, x.Delta.Valid)

	tbl, err = Years(l, 2023, 2024, types.FieldCategory)
	require.NoError(t, err)
	x, _ = tbl.Lookup("X")
	require.Equal(t, NoCurrentValue, x.Status)
}

func TestPeriods_EmptyLedgers(t *testing.T) {
	tbl, err := Periods(nil, ledger.New(types.Income, nil), types.FieldCategory)
	require.NoError(t, err)
	require.Empty(t, tbl.Rows)
}

func headcountTable(t *testing.T, rows ...[]string) *headcount.Table {
	t.Helper()
	cols := config.DefaultSchemas()[types.KindHeadcount]
	hc, err := headcount.Decode(&types.Table{Columns: cols.Names(), Rows: rows}, cols, nil)
	require.NoError(t, err)
	return hc
}

func TestWithHeadcount_Monthly(t *testing.T) {
	income := ledger.New(types.Income, []ledger.Record{
		rec(2024, 1, "A", 1200),
		rec(2024, 2, "A", 900),
	})
	expense := ledger.New(types.Expense, []ledger.Record{
		rec(2024, 1, "B", 600),
		rec(2024, 3, "B", 100),
	})
	hc := headcountTable(t,
		[]string{"2024-01-31", "4", "3", "5", "12"},
		[]string{"2024-02-29", "4", "3", "5", "0"},
	)

	ratios, err := WithHeadcount(income, expense, hc, "osszes", aggregate.Monthly)
	require.NoError(t, err)
	require.Len(t, ratios, 3)

	jan := ratios[0]
	require.Equal(t, "2024-01", jan.Period)
	require.Equal(t, Compared, jan.Status)
	require.True(t, jan.IncomePerHead.Decimal.Equal(dec("100")))
	require.True(t, jan.ExpensePerHead.Decimal.Equal(dec("50")))

	// zero count
	require.Equal(t, NoHeadcountData, ratios[1].Status)
	require.False(t, ratios[1].IncomePerHead.Valid)

	// no row at all
	require.Equal(t, "2024-03", ratios[2].Period)
	require.Equal(t, NoHeadcountData, ratios[2].Status)
	require.False(t, ratios[2].Headcount.Valid)
	require.True(t, ratios[2].Income.IsZero())
}

func TestWithHeadcount_QuarterlyUsesMean(t *testing.T) {
	income := ledger.New(types.Income, []ledger.Record{
		rec(2024, 1, "A", 1000),
		rec(2024, 2, "A", 1000),
		rec(2024, 3, "A", 1000),
	})
	hc := headcountTable(t,
		[]string{"2024-01-31", "4", "3", "5", "12"},
		[]string{"2024-02-29", "4", "3", "5", "12"},
		[]string{"2024-03-31", "4", "3", "5", "13"},
	)

	ratios, err := WithHeadcount(income, nil, hc, "osszes", aggregate.Quarterly)
	require.NoError(t, err)
	require.Len(t, ratios, 1)
	require.Equal(t, "2024 Q1", ratios[0].Period)
	require.True(t, ratios[0].Headcount.Decimal.Equal(dec("12.3")))
	require.True(t, ratios[0].IncomePerHead.Decimal.Equal(dec("243.9")))
	require.True(t, ratios[0].ExpensePerHead.Decimal.IsZero())
}

func TestWithHeadcount_UnknownGroup(t *testing.T) {
	hc := headcountTable(t, []string{"2024-01-31", "4", "3", "5", "12"})
	_, err := WithHeadcount(nil, nil, hc, "it", aggregate.Monthly)
	require.ErrorContains(t, err, "unknown headcount group")

	_, err = WithHeadcount(nil, nil, nil, "osszes", aggregate.Monthly)
	require.Error(t, err)
}

func TestBuildSeries(t *testing.T) {
	income := ledger.New(types.Income, []ledger.Record{
		rec(2023, 1, "A", 10),
		rec(2024, 1, "A", 20),
		rec(2024, 4, "A", 5),
	})
	expense := ledger.New(types.Expense, []ledger.Record{
		rec(2024, 2, "B", 7),
	})

	set, err := BuildSeries(SeriesRequest{Income: income, Expense: expense}, types.FieldCategory, aggregate.Quarterly)
	require.NoError(t, err)
	// 2 kinds x 2 years x 2 groups
	require.Equal(t, 8, set.Len())

	s, ok := set.Get(SeriesKey{Kind: types.Income, Year: 2024, Group: "A"})
	require.True(t, ok)
	require.Len(t, s.Points, 2)
	require.True(t, s.Total.Equal(decimal.NewFromInt(25)))

	s, ok = set.Get(SeriesKey{Kind: types.Expense, Year: 2023, Group: "A"})
	require.True(t, ok)
	require.True(t, s.Empty())

	_, ok = set.Get(SeriesKey{Kind: types.Expense, Year: 2022, Group: "A"})
	require.False(t, ok)
	require.Equal(t, "income 2023 A", set.Keys[0].String())
}

func TestBuildSeries_Selection(t *testing.T) {
	income := ledger.New(types.Income, []ledger.Record{
		rec(2023, 1, "A", 10),
		rec(2024, 1, "B", 20),
	})
	set, err := BuildSeries(SeriesRequest{Income: income, Years: []int{2024}, Groups: []string{"B"}},
		types.FieldCategory, aggregate.Monthly)
	require.NoError(t, err)
	require.Equal(t, []SeriesKey{{Kind: types.Income, Year: 2024, Group: "B"}}, set.Keys)

	_, err = BuildSeries(SeriesRequest{}, types.FieldCategory, aggregate.Monthly)
	require.Error(t, err)
	_, err = BuildSeries(SeriesRequest{Income: income}, "colour", aggregate.Monthly)
	require.Error(t, err)
}
