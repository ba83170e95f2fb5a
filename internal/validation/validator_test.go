package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/ledger-analyzer/internal/types"
)

var categoryHeader = []string{"kategoria", "alkategoria", "elem", "kat_kod"}

func mismatch(t *testing.T, err error) *SchemaMismatchError {
	t.Helper()
	var m *SchemaMismatchError
	require.True(t, errors.As(err, &m), "expected SchemaMismatchError, got %v", err)
	return m
}

func TestCheckHeader_Exact(t *testing.T) {
	require.NoError(t, CheckHeader(types.KindIncomeCategory, categoryHeader, []string{"kategoria", "alkategoria", "elem", "kat_kod"}))
}

func TestCheckHeader_Extra(t *testing.T) {
	got := append(append([]string(nil), categoryHeader...), "megjegyzes")
	m := mismatch(t, CheckHeader(types.KindIncomeCategory, categoryHeader, got))

	require.Equal(t, types.KindIncomeCategory, m.Kind)
	require.Empty(t, m.Missing)
	require.Equal(t, []string{"megjegyzes"}, m.Unexpected)
	require.Equal(t, -1, m.Position)
	require.Contains(t, m.Error(), `unexpected columns "megjegyzes"`)
}

func TestCheckHeader_Missing(t *testing.T) {
	m := mismatch(t, CheckHeader(types.KindExpenseCategory, categoryHeader, []string{"kategoria", "alkategoria", "elem"}))
	require.Equal(t, []string{"kat_kod"}, m.Missing)
	require.Contains(t, m.Error(), "expense_category")
}

func TestCheckHeader_Reordered(t *testing.T) {
	m := mismatch(t, CheckHeader(types.KindIncomeCategory, categoryHeader, []string{"alkategoria", "kategoria", "elem", "kat_kod"}))
	require.True(t, m.Reordered())
	require.Equal(t, 0, m.Position)
	require.Contains(t, m.Error(), `column 1 is "alkategoria", expected "kategoria"`)
}

func TestCheckHeader_Suggestion(t *testing.T) {
	m := mismatch(t, CheckHeader(types.KindIncomeCategory, categoryHeader, []string{"kategoria", "alkategoria", "elem", "kat kod"}))
	require.Equal(t, map[string]string{"kat kod": "kat_kod"}, m.Suggestions)
	require.False(t, m.Reordered())
}

func TestValidateCells(t *testing.T) {
	cols := types.Columns{
		{Name: "datum", Type: types.TypeDate, Role: types.RoleDate},
		{Name: "netto", Type: types.TypeDecimal, Role: types.RoleAmount},
		{Name: "fo_kat", Type: types.TypeInteger, Role: types.RoleMainCategory},
	}
	v := NewValidator(types.KindExpenseData, cols, nil)

	table := &types.Table{
		Columns: cols.Names(),
		Rows: [][]string{
			{"2024-01-05", "100", "3"},
			{"tegnap", "abc", "x"},
			{"2024-01-06", "", ""},
		},
		Lines: []int{2, 3, 5},
	}
	require.NoError(t, v.CheckHeader(table))

	res := v.ValidateCells(table)
	require.False(t, res.IsValid)
	require.Equal(t, 2, res.ErrorCount)
	require.Equal(t, 1, res.WarningCount)
	require.Equal(t, 3, res.RowsValidated)
	require.Equal(t, 3, res.Errors[0].RowNumber)
	require.Equal(t, "datum", res.Errors[0].Column)
	require.Equal(t, "warning", res.Errors[2].Severity)
	require.Contains(t, FormatErrors(res.Errors), "3 problem(s)")
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{"2024-01-01", "2024-01-01 13:45:00", "45292", "45292.5", "2024.01.01."} {
		got, err := ParseDate(in, []string{"2006.01.02."})
		require.NoError(t, err, in)
		require.True(t, want.Equal(got), "%s parsed as %s", in, got)
	}

	_, err := ParseDate("2024/13/45", nil)
	require.Error(t, err)
	_, err = ParseDate("", nil)
	require.Error(t, err)
}

func TestParseDecimal(t *testing.T) {
	cases := map[string]string{
		"1234.5":       "1234.5",
		"1234,5":       "1234.5",
		"1 234 567,89": "1234567.89",
		"1,234,567.89": "1234567.89",
		"1.234.567,89": "1234567.89",
		"1,234,567":    "1234567",
		"-50":          "-50",
	}
	for in, want := range cases {
		got, err := ParseDecimal(in)
		require.NoError(t, err, in)
		require.True(t, decimal.RequireFromString(want).Equal(got), "%s parsed as %s", in, got)
	}

	_, err := ParseDecimal("tizenkettő")
	require.Error(t, err)
}

func TestParseInteger(t *testing.T) {
	n, err := ParseInteger("3.0")
	require.NoError(t, err)
	require.Equal(t, 3, n)

	_, err = ParseInteger("3.5")
	require.Error(t, err)
}
