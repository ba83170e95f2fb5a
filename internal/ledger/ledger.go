// =============================================================================
// Ledger Analyzer - Normalized Ledger
// =============================================================================
//
// A Ledger is the analyzable form of an income or expense extract: every
// record carries a parsed date, its calendar keys, a decimal net amount and
// its full category hierarchy. Ledgers are immutable. Filtering and the
// other query stages build new ledgers instead of changing an existing one.
//
// =============================================================================

package ledger

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/ledger-analyzer/internal/types"
)

// =============================================================================
// RECORD
// =============================================================================

// Record is one normalized ledger row.
type Record struct {
	// Row is the source row number in the uploaded table.
	Row int

	Date    time.Time
	Year    int
	Quarter int
	Month   int
	// Period is the year-month key, YYYY-MM.
	Period string

	Partner  string
	Document string
	Note     string
	Source   string

	// Net is the measure every aggregation sums.
	Net decimal.Decimal

	CategoryCode string
	Category     string
	Subcategory  string
	Item         string
	LegacyCode   string
	Description  string

	// MainCategory is the expense main-category ordinal. Rows without a
	// usable value carry the unclassified ordinal.
	MainCategory int

	attrs map[string]string
}

// Attr returns a retained extra column by its header name.
func (r Record) Attr(name string) (string, bool) {
	v, ok := r.attrs[name]
	return v, ok
}

// Attrs returns a copy of the retained extra columns.
func (r Record) Attrs() map[string]string {
	out := make(map[string]string, len(r.attrs))
	for k, v := range r.attrs {
		out[k] = v
	}
	return out
}

// Value returns the record's value for a query field as a string.
func (r Record) Value(f types.Field) string {
	switch f {
	case types.FieldYear:
		return strconv.Itoa(r.Year)
	case types.FieldQuarter:
		return strconv.Itoa(r.Quarter)
	case types.FieldMonth:
		return strconv.Itoa(r.Month)
	case types.FieldPeriod:
		return r.Period
	case types.FieldCategoryCode:
		return r.CategoryCode
	case types.FieldCategory:
		return r.Category
	case types.FieldSubcategory:
		return r.Subcategory
	case types.FieldItem:
		return r.Item
	case types.FieldPartner:
		return r.Partner
	case types.FieldMainCategory:
		return strconv.Itoa(r.MainCategory)
	case types.FieldSource:
		return r.Source
	}
	return ""
}

// =============================================================================
// LEDGER
// =============================================================================

// Ledger is an immutable, ordered collection of normalized records.
// A nil *Ledger behaves as an empty ledger.
type Ledger struct {
	kind    types.LedgerKind
	records []Record
}

// New builds a ledger from records. The slice is copied.
func New(kind types.LedgerKind, records []Record) *Ledger {
	return &Ledger{
		kind:    kind,
		records: append([]Record(nil), records...),
	}
}

// Kind reports whether this is the income or the expense ledger.
func (l *Ledger) Kind() types.LedgerKind {
	if l == nil {
		return ""
	}
	return l.kind
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	return len(l.records)
}

// Empty reports whether the ledger has no records.
func (l *Ledger) Empty() bool {
	return l.Len() == 0
}

// At returns record i.
func (l *Ledger) At(i int) Record {
	return l.records[i]
}

// Records returns a copy of the records in source order.
func (l *Ledger) Records() []Record {
	if l == nil {
		return nil
	}
	return append([]Record(nil), l.records...)
}

// Each calls fn for every record in source order.
func (l *Ledger) Each(fn func(Record)) {
	if l == nil {
		return
	}
	for _, r := range l.records {
		fn(r)
	}
}

// Select returns a new ledger holding the records for which keep is true.
func (l *Ledger) Select(keep func(Record) bool) *Ledger {
	out := &Ledger{kind: l.Kind()}
	l.Each(func(r Record) {
		if keep(r) {
			out.records = append(out.records, r)
		}
	})
	return out
}

// Sum returns the total net amount.
func (l *Ledger) Sum() decimal.Decimal {
	total := decimal.Zero
	l.Each(func(r Record) {
		total = total.Add(r.Net)
	})
	return total
}

// Values returns the distinct values of a field, sorted with SortValues.
func (l *Ledger) Values(f types.Field) []string {
	seen := make(map[string]bool)
	var out []string
	l.Each(func(r Record) {
		v := r.Value(f)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	})
	SortValues(f, out)
	return out
}
