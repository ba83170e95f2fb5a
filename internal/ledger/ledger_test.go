package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/ledger-analyzer/internal/config"
	"github.com/ginjaninja78/ledger-analyzer/internal/types"
)

var schemas = config.DefaultSchemas()

func expenseTable(rows ...[]string) *types.Table {
	return &types.Table{Columns: schemas[types.KindExpenseData].Names(), Rows: rows}
}

func categoryTable(rows ...[]string) *types.Table {
	return &types.Table{Columns: schemas[types.KindExpenseCategory].Names(), Rows: rows}
}

// expense row: ID, partner, bizonylat_szam, megjegyzes, datum, netto, kat_kod, fo_kat, forras
func expenseRow(date, net, code, mainCat string) []string {
	return []string{"1", "Acme Kft", "B-001", "", date, net, code, mainCat, "bank"}
}

func taxonomy(t *testing.T) *Taxonomy {
	t.Helper()
	tax, err := BuildTaxonomy(categoryTable(
		[]string{"Iroda", "Rezsi", "Áram", " Z "},
		[]string{"Bér", "Alapbér", "Havi", "B01"},
		[]string{"Utazás", "", "", "U01"},
	), schemas[types.KindExpenseCategory])
	require.NoError(t, err)
	return tax
}

func TestBuildTaxonomy(t *testing.T) {
	tax := taxonomy(t)
	require.Equal(t, 3, tax.Len())

	node, ok := tax.Lookup("Z")
	require.True(t, ok)
	require.Equal(t, "Áram", node.Item)

	_, ok = tax.Lookup(" Z ")
	require.False(t, ok)

	nodes := tax.Nodes()
	require.Len(t, nodes, 3)
	nodes[0].Category = "changed"
	require.NotEqual(t, "changed", tax.Nodes()[0].Category)
}

func TestBuildTaxonomy_Duplicate(t *testing.T) {
	_, err := BuildTaxonomy(categoryTable(
		[]string{"Iroda", "Rezsi", "Áram", "Z"},
		[]string{"Iroda", "Rezsi", "Gáz", "Z "},
	), schemas[types.KindExpenseCategory])

	var dup *DuplicateCategoryCodeError
	require.True(t, errors.As(err, &dup))
	require.Equal(t, "Z", dup.Code)
	require.Equal(t, 2, dup.FirstRow)
	require.Equal(t, 3, dup.Row)
}

func TestNormalize_JoinAndCalendar(t *testing.T) {
	l, err := Normalize(types.Expense, expenseTable(
		expenseRow("2024-05-17", "1200", "  Z ", "3"),
	), schemas[types.KindExpenseData], taxonomy(t), DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 1, l.Len())

	r := l.At(0)
	require.Equal(t, "Z", r.CategoryCode)
	require.Equal(t, "Iroda", r.Category)
	require.Equal(t, "Rezsi", r.Subcategory)
	require.Equal(t, "Áram", r.Item)
	require.Equal(t, 2024, r.Year)
	require.Equal(t, 2, r.Quarter)
	require.Equal(t, 5, r.Month)
	require.Equal(t, "2024-05", r.Period)
	require.Equal(t, 3, r.MainCategory)
	require.Equal(t, "Acme Kft", r.Partner)
	require.Equal(t, "B-001", r.Document)
	require.Equal(t, "bank", r.Source)
	require.True(t, decimal.NewFromInt(1200).Equal(r.Net))

	id, ok := r.Attr("ID")
	require.True(t, ok)
	require.Equal(t, "1", id)
}

func TestNormalize_Sentinels(t *testing.T) {
	l, err := Normalize(types.Expense, expenseTable(
		expenseRow("2024-01-01", "10", "", ""),
		expenseRow("2024-01-02", "10", "NOPE", "x"),
		expenseRow("2024-01-03", "10", "U01", "2"),
	), schemas[types.KindExpenseData], taxonomy(t), Options{Sentinel: "hiányos"})
	require.NoError(t, err)

	blank := l.At(0)
	require.Equal(t, "hiányos", blank.CategoryCode)
	require.Equal(t, "hiányos", blank.Category)
	require.Equal(t, 0, blank.MainCategory)

	unmatched := l.At(1)
	require.Equal(t, "NOPE", unmatched.CategoryCode)
	require.Equal(t, "hiányos", unmatched.Item)
	require.Equal(t, 0, unmatched.MainCategory)

	partial := l.At(2)
	require.Equal(t, "Utazás", partial.Category)
	require.Equal(t, "hiányos", partial.Subcategory)

	for _, r := range l.Records() {
		require.NotEmpty(t, r.CategoryCode)
		require.NotEmpty(t, r.Category)
		require.NotEmpty(t, r.Subcategory)
		require.NotEmpty(t, r.Item)
	}
}

func TestNormalize_BlankSentinelFallsBack(t *testing.T) {
	l, err := Normalize(types.Expense, expenseTable(expenseRow("2024-01-01", "1", "", "")),
		schemas[types.KindExpenseData], nil, Options{Sentinel: " "})
	require.NoError(t, err)
	require.Equal(t, DefaultSentinel, l.At(0).CategoryCode)
}

func TestNormalize_DateError(t *testing.T) {
	table := expenseTable(
		expenseRow("2024-01-01", "1", "Z", "1"),
		expenseRow("jövő hét", "1", "Z", "1"),
	)
	table.Lines = []int{2, 7}

	_, err := Normalize(types.Expense, table, schemas[types.KindExpenseData], taxonomy(t), DefaultOptions())

	var dateErr *DateParseError
	require.True(t, errors.As(err, &dateErr))
	require.Equal(t, 7, dateErr.Row)
	require.Equal(t, "jövő hét", dateErr.Value)
}

func TestNormalize_Amounts(t *testing.T) {
	l, err := Normalize(types.Expense, expenseTable(
		expenseRow("2024-01-01", "", "Z", "1"),
		expenseRow("2024-01-01", "1 234,5", "Z", "1"),
	), schemas[types.KindExpenseData], taxonomy(t), DefaultOptions())
	require.NoError(t, err)
	require.True(t, l.At(0).Net.IsZero())
	require.Equal(t, "1234.5", l.At(1).Net.String())

	_, err = Normalize(types.Expense, expenseTable(
		expenseRow("2024-01-01", "sok", "Z", "1"),
	), schemas[types.KindExpenseData], taxonomy(t), DefaultOptions())
	var amountErr *AmountParseError
	require.True(t, errors.As(err, &amountErr))
	require.Equal(t, "netto", amountErr.Column)
}

func TestNormalize_IncomeMeasure(t *testing.T) {
	table := &types.Table{
		Columns: schemas[types.KindIncomeData].Names(),
		Rows: [][]string{
			{"Partner Zrt", "45292", "100", "EUR", "2", "200", "78000", "390", "B01"},
		},
	}
	l, err := Normalize(types.Income, table, schemas[types.KindIncomeData], taxonomy(t), DefaultOptions())
	require.NoError(t, err)

	r := l.At(0)
	require.Equal(t, "78000", r.Net.String())
	require.Equal(t, "2024-01", r.Period)
	require.Equal(t, "Bér", r.Category)

	cur, _ := r.Attr("deviza")
	require.Equal(t, "EUR", cur)
	require.Len(t, r.Attrs(), 5)
}

func TestLedger_Immutability(t *testing.T) {
	l := New(types.Expense, []Record{{Category: "A", Net: decimal.NewFromInt(1)}})
	recs := l.Records()
	recs[0].Category = "changed"
	require.Equal(t, "A", l.At(0).Category)

	sub := l.Select(func(Record) bool { return false })
	require.Equal(t, 0, sub.Len())
	require.Equal(t, 1, l.Len())
	require.Equal(t, types.Expense, sub.Kind())
}

func TestLedger_Values(t *testing.T) {
	l := New(types.Expense, []Record{
		{Category: "Bér", Month: 10},
		{Category: "Áram", Month: 2},
		{Category: "Bér", Month: 9},
	})
	require.Equal(t, []string{"Áram", "Bér"}, l.Values(types.FieldCategory))
	require.Equal(t, []string{"2", "9", "10"}, l.Values(types.FieldMonth))

	var empty *Ledger
	require.True(t, empty.Empty())
	require.True(t, empty.Sum().IsZero())
}
