// =============================================================================
// Ledger Analyzer - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - config      (column schemas)
//   - csvparser   (raw tables)
//   - xlsxparser  (raw tables)
//   - validation  (schema checks)
//   - ledger      (normalization)
//   - filter      (query fields)
//   - session     (upload kinds)
//
// =============================================================================

package types

import (
	"fmt"
	"strings"
)

// =============================================================================
// TABLE KINDS
// =============================================================================

// Kind names one of the five tables the system accepts.
type Kind string

const (
	KindIncomeData      Kind = "income_data"
	KindIncomeCategory  Kind = "income_category"
	KindExpenseData     Kind = "expense_data"
	KindExpenseCategory Kind = "expense_category"
	KindHeadcount       Kind = "headcount"
)

// Kinds returns every table kind in upload order.
func Kinds() []Kind {
	return []Kind{
		KindIncomeData,
		KindIncomeCategory,
		KindExpenseData,
		KindExpenseCategory,
		KindHeadcount,
	}
}

// ParseKind maps a user supplied name onto a Kind.
// Dashes are accepted in place of underscores ("income-data").
func ParseKind(s string) (Kind, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, k := range Kinds() {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown table kind %q", s)
}

// LedgerKind distinguishes the two ledgers built from the data tables.
type LedgerKind string

const (
	Income  LedgerKind = "income"
	Expense LedgerKind = "expense"
)

// DataKind returns the table kind holding the ledger's records.
func (k LedgerKind) DataKind() Kind {
	if k == Expense {
		return KindExpenseData
	}
	return KindIncomeData
}

// CategoryKind returns the table kind holding the ledger's taxonomy.
func (k LedgerKind) CategoryKind() Kind {
	if k == Expense {
		return KindExpenseCategory
	}
	return KindIncomeCategory
}

// LedgerKindOf reports which ledger a table kind feeds, if any.
func LedgerKindOf(k Kind) (LedgerKind, bool) {
	switch k {
	case KindIncomeData, KindIncomeCategory:
		return Income, true
	case KindExpenseData, KindExpenseCategory:
		return Expense, true
	}
	return "", false
}

// =============================================================================
// RAW TABLE
// =============================================================================

// Table is an uploaded table before any typing is applied.
// Every row holds exactly len(Columns) cells; readers pad short rows.
type Table struct {
	// Columns holds the header row, in file order.
	Columns []string

	// Rows holds the data rows as raw strings.
	Rows [][]string

	// Lines holds the source row number of each data row, the header being
	// row 1. Readers that skip blank rows fill it; nil means the rows are
	// consecutive from row 2.
	Lines []int

	// Source is a free-form description of where the table came from,
	// typically the file name. It is only used in messages.
	Source string
}

// Line returns the source row number of data row i.
func (t *Table) Line(i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 2
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of the named column or -1.
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// =============================================================================
// FILE FORMATS
// =============================================================================

// Format identifies the encoding of an uploaded byte stream.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// =============================================================================
// COLUMN SCHEMAS
// =============================================================================

// ColumnType is the semantic type of a schema column.
type ColumnType string

const (
	TypeDate    ColumnType = "date"
	TypeDecimal ColumnType = "decimal"
	TypeInteger ColumnType = "integer"
	TypeText    ColumnType = "text"
)

// Valid reports whether t is a known column type.
func (t ColumnType) Valid() bool {
	switch t {
	case TypeDate, TypeDecimal, TypeInteger, TypeText:
		return true
	}
	return false
}

// Role tells the normalizer what a column means.
type Role string

const (
	RoleDate           Role = "date"
	RoleAmount         Role = "amount"
	RoleCategoryCode   Role = "category_code"
	RolePartner        Role = "partner"
	RoleDocument       Role = "document"
	RoleNote           Role = "note"
	RoleSource         Role = "source"
	RoleMainCategory   Role = "main_category"
	RoleCategory       Role = "category"
	RoleSubcategory    Role = "subcategory"
	RoleItem           Role = "item"
	RoleLegacyCode     Role = "legacy_code"
	RoleDescription    Role = "description"
	RoleHeadcountGroup Role = "headcount_group"
	RoleAttribute      Role = "attribute"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleDate, RoleAmount, RoleCategoryCode, RolePartner, RoleDocument,
		RoleNote, RoleSource, RoleMainCategory, RoleCategory, RoleSubcategory,
		RoleItem, RoleLegacyCode, RoleDescription, RoleHeadcountGroup, RoleAttribute:
		return true
	}
	return false
}

// Multiple reports whether a schema may carry more than one column with r.
func (r Role) Multiple() bool {
	return r == RoleAttribute || r == RoleHeadcountGroup
}

// ColumnSpec declares one expected column.
type ColumnSpec struct {
	Name string     `yaml:"name"`
	Type ColumnType `yaml:"type"`
	Role Role       `yaml:"role"`
}

// Columns is an ordered schema.
type Columns []ColumnSpec

// Names returns the column names in order.
func (c Columns) Names() []string {
	names := make([]string, len(c))
	for i, col := range c {
		names[i] = col.Name
	}
	return names
}

// IndexOf returns the position of the first column with the given role or -1.
func (c Columns) IndexOf(r Role) int {
	for i, col := range c {
		if col.Role == r {
			return i
		}
	}
	return -1
}

// All returns the positions of every column with the given role.
func (c Columns) All(r Role) []int {
	var idx []int
	for i, col := range c {
		if col.Role == r {
			idx = append(idx, i)
		}
	}
	return idx
}

// =============================================================================
// QUERY FIELDS
// =============================================================================

// Field names a dimension of a normalized ledger that can be filtered on
// or grouped by.
type Field string

const (
	FieldYear         Field = "year"
	FieldQuarter      Field = "quarter"
	FieldMonth        Field = "month"
	FieldPeriod       Field = "period"
	FieldCategoryCode Field = "category_code"
	FieldCategory     Field = "category"
	FieldSubcategory  Field = "subcategory"
	FieldItem         Field = "item"
	FieldPartner      Field = "partner"
	FieldMainCategory Field = "main_category"
	FieldSource       Field = "source"
)

// Fields returns every queryable field.
func Fields() []Field {
	return []Field{
		FieldYear, FieldQuarter, FieldMonth, FieldPeriod,
		FieldCategoryCode, FieldCategory, FieldSubcategory, FieldItem,
		FieldPartner, FieldMainCategory, FieldSource,
	}
}

// FilterFields returns the fields offered as filters for a ledger kind.
// The expense ledger adds the main category and payment source.
func FilterFields(k LedgerKind) []Field {
	fields := []Field{
		FieldYear, FieldQuarter, FieldMonth,
		FieldCategoryCode, FieldCategory, FieldSubcategory, FieldItem,
		FieldPartner,
	}
	if k == Expense {
		fields = append(fields, FieldMainCategory, FieldSource)
	}
	return fields
}

// ParseField maps a user supplied name onto a Field.
func ParseField(s string) (Field, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch name {
	case "code", "kat_kod":
		return FieldCategoryCode, nil
	case "fo_kat":
		return FieldMainCategory, nil
	}
	for _, f := range Fields() {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// Numeric reports whether the field's values are integers and should be
// ordered numerically.
func (f Field) Numeric() bool {
	switch f {
	case FieldYear, FieldQuarter, FieldMonth, FieldMainCategory:
		return true
	}
	return false
}
