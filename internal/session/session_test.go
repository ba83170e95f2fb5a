package session

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/ledger-analyzer/internal/config"
	"github.com/ginjaninja78/ledger-analyzer/internal/headcount"
	"github.com/ginjaninja78/ledger-analyzer/internal/ledger"
	"github.com/ginjaninja78/ledger-analyzer/internal/logger"
	"github.com/ginjaninja78/ledger-analyzer/internal/types"
	"github.com/ginjaninja78/ledger-analyzer/internal/validation"
)

const expenseCSV = `ID,partner,bizonylat_szam,megjegyzes,datum,netto,kat_kod,fo_kat,forras
1,ELMŰ,B-1,,2024.01.15,1000,R01,2,bank
2,Wizz,B-2,út,2024-02-03,500, U01 ,x,kassza
3,,B-3,,2024-02-10,,,1,bank
`

const expenseCategoryCSV = `kategoria,alkategoria,elem,kat_kod
Iroda,Rezsi,Áram,R01
Utazás,Repülő,Jegy,U01
`

const headcountCSV = `datum,vam,penzugy,egyeb,osszes
2024-01-31,4,3,5,12
2024-02-29,4,3,5,12
`

func newSession(t *testing.T) *Session {
	t.Helper()
	return New(config.Default(), logger.Nop())
}

func upload(t *testing.T, s *Session, kind types.Kind, body string) Receipt {
	t.Helper()
	r, err := s.Upload(kind, strings.NewReader(body), types.FormatCSV, string(kind)+".csv")
	require.NoError(t, err)
	return r
}

func TestUploadAndMerge(t *testing.T) {
	s := newSession(t)

	r := upload(t, s, types.KindExpenseData, expenseCSV)
	require.Equal(t, types.KindExpenseData, r.Kind)
	require.Equal(t, 3, r.Rows)
	require.NotEqual(t, r.ID.String(), "")
	require.Equal(t, 1, r.Warnings) // fo_kat "x"

	upload(t, s, types.KindExpenseCategory, expenseCategoryCSV)
	require.Equal(t, 2, s.Taxonomy(types.Expense).Len())

	require.Nil(t, s.Expense())
	l, err := s.Merge(types.Expense)
	require.NoError(t, err)
	require.Same(t, l, s.Expense())
	require.Equal(t, 3, l.Len())

	first := l.At(0)
	require.Equal(t, "Iroda", first.Category)
	require.Equal(t, 2024, first.Year)
	require.Equal(t, 2, first.MainCategory)

	second := l.At(1)
	require.Equal(t, "U01", second.CategoryCode)
	require.Equal(t, "Utazás", second.Category)
	require.Equal(t, 0, second.MainCategory)

	third := l.At(2)
	require.Equal(t, ledger.DefaultSentinel, third.CategoryCode)
	require.True(t, third.Net.IsZero())

	require.Len(t, s.Receipts(), 2)
	require.Equal(t, types.KindExpenseData, s.Receipts()[0].Kind)
}

func TestUpload_SchemaMismatchKeepsPriorTable(t *testing.T) {
	s := newSession(t)
	upload(t, s, types.KindExpenseCategory, expenseCategoryCSV)
	prior := s.Table(types.KindExpenseCategory)

	_, err := s.Upload(types.KindExpenseCategory,
		strings.NewReader("kat_kod,kategoria,alkategoria,elem\nX,a,b,c\n"), types.FormatCSV, "bad.csv")
	var mismatch *validation.SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	require.Equal(t, types.KindExpenseCategory, mismatch.Kind)

	require.Same(t, prior, s.Table(types.KindExpenseCategory))
	require.Equal(t, 2, s.Taxonomy(types.Expense).Len())
}

func TestUpload_BadDateRejected(t *testing.T) {
	s := newSession(t)
	upload(t, s, types.KindExpenseData, expenseCSV)
	prior := s.Table(types.KindExpenseData)

	bad := strings.Replace(expenseCSV, "2024-02-03", "tomorrow", 1)
	_, err := s.Upload(types.KindExpenseData, strings.NewReader(bad), types.FormatCSV, "bad.csv")
	var dateErr *ledger.DateParseError
	require.True(t, errors.As(err, &dateErr))
	require.Equal(t, 3, dateErr.Row)
	require.Same(t, prior, s.Table(types.KindExpenseData))
}

func TestUpload_DuplicateCategoryCodeRejected(t *testing.T) {
	s := newSession(t)
	body := expenseCategoryCSV + "Iroda,Bérlet,Iroda, R01\n"
	_, err := s.Upload(types.KindExpenseCategory, strings.NewReader(body), types.FormatCSV, "dup.csv")
	var dup *ledger.DuplicateCategoryCodeError
	require.True(t, errors.As(err, &dup))
	require.Nil(t, s.Taxonomy(types.Expense))
}

func TestUpload_Headcount(t *testing.T) {
	s := newSession(t)
	upload(t, s, types.KindHeadcount, headcountCSV)
	require.Equal(t, 2, s.Headcount().Len())

	_, err := s.Upload(types.KindHeadcount,
		strings.NewReader(headcountCSV+"2024-02-15,1,1,1,3\n"), types.FormatCSV, "dup.csv")
	var dup *headcount.DuplicatePeriodError
	require.True(t, errors.As(err, &dup))
	require.Equal(t, 2, s.Headcount().Len())
}

func TestUpload_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"kategoria", "alkategoria", "elem", "kat_kod"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Bér", "Alapbér", "Havi", "B01"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	s := newSession(t)
	r, err := s.Upload(types.KindIncomeCategory, bytes.NewReader(buf.Bytes()), types.FormatXLSX, "cat.xlsx")
	require.NoError(t, err)
	require.Equal(t, 1, r.Rows)
	node, ok := s.Taxonomy(types.Income).Lookup("B01")
	require.True(t, ok)
	require.Equal(t, "Alapbér", node.Subcategory)
}

func TestUpload_UnsupportedFormat(t *testing.T) {
	s := newSession(t)
	_, err := s.Upload(types.KindHeadcount, strings.NewReader(""), "ods", "x.ods")
	require.ErrorContains(t, err, "unsupported format")
}

func TestMerge_RequiresBothTables(t *testing.T) {
	s := newSession(t)
	_, err := s.Merge(types.Income)
	require.ErrorContains(t, err, "no income_data table")

	upload(t, s, types.KindExpenseData, expenseCSV)
	_, err = s.Merge(types.Expense)
	require.ErrorContains(t, err, "no expense_category table")
}

func TestAccept(t *testing.T) {
	s := newSession(t)
	cols := config.DefaultSchemas()[types.KindIncomeCategory]
	r, err := s.Accept(types.KindIncomeCategory, &types.Table{
		Columns: cols.Names(),
		Rows:    [][]string{{"Bér", "Alapbér", "Havi", "B01"}},
		Source:  "memory",
	})
	require.NoError(t, err)
	require.Equal(t, "memory", r.Source)
	require.Len(t, s.Receipts(), 1)
}
