package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Expense-Data")
	require.NoError(t, err)
	require.Equal(t, KindExpenseData, k)

	_, err = ParseKind("budget")
	require.Error(t, err)
}

func TestLedgerKindTables(t *testing.T) {
	require.Equal(t, KindIncomeData, Income.DataKind())
	require.Equal(t, KindIncomeCategory, Income.CategoryKind())
	require.Equal(t, KindExpenseData, Expense.DataKind())
	require.Equal(t, KindExpenseCategory, Expense.CategoryKind())

	lk, ok := LedgerKindOf(KindExpenseCategory)
	require.True(t, ok)
	require.Equal(t, Expense, lk)

	_, ok = LedgerKindOf(KindHeadcount)
	require.False(t, ok)
}

func TestParseField(t *testing.T) {
	cases := map[string]Field{
		"year":          FieldYear,
		"kat_kod":       FieldCategoryCode,
		"code":          FieldCategoryCode,
		"main-category": FieldMainCategory,
		"fo_kat":        FieldMainCategory,
		" Partner ":     FieldPartner,
	}
	for in, want := range cases {
		got, err := ParseField(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseField("colour")
	require.Error(t, err)
}

func TestFilterFieldsPerKind(t *testing.T) {
	require.NotContains(t, FilterFields(Income), FieldMainCategory)
	require.Contains(t, FilterFields(Expense), FieldMainCategory)
	require.Contains(t, FilterFields(Expense), FieldSource)
}

func TestColumnsLookup(t *testing.T) {
	cols := Columns{
		{Name: "datum", Type: TypeDate, Role: RoleDate},
		{Name: "vam", Type: TypeDecimal, Role: RoleHeadcountGroup},
		{Name: "osszes", Type: TypeDecimal, Role: RoleHeadcountGroup},
	}
	require.Equal(t, []string{"datum", "vam", "osszes"}, cols.Names())
	require.Equal(t, 0, cols.IndexOf(RoleDate))
	require.Equal(t, -1, cols.IndexOf(RoleAmount))
	require.Equal(t, []int{1, 2}, cols.All(RoleHeadcountGroup))
}

func TestTableIndex(t *testing.T) {
	tbl := &Table{Columns: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}}
	require.Equal(t, 1, tbl.Index("b"))
	require.Equal(t, -1, tbl.Index("c"))
	require.Equal(t, 1, tbl.Len())

	var empty *Table
	require.Equal(t, 0, empty.Len())
}

func TestTableLine(t *testing.T) {
	tbl := &Table{Rows: [][]string{{"x"}, {"y"}}}
	require.Equal(t, 2, tbl.Line(0))
	require.Equal(t, 3, tbl.Line(1))

	tbl.Lines = []int{2, 5}
	require.Equal(t, 5, tbl.Line(1))
}
