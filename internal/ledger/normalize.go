package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/ledger-analyzer/internal/types"
	"github.com/ginjaninja78/ledger-analyzer/internal/validation"
)

// DefaultSentinel marks category values that are blank or unmatched.
const DefaultSentinel = "incomplete"

// Options carries the configuration constants the normalizer honours.
type Options struct {
	// Sentinel replaces blank or unmatched category values. A blank
	// Sentinel means DefaultSentinel.
	Sentinel string

	// UnclassifiedMainCategory is used when the main category is missing
	// or not an integer.
	UnclassifiedMainCategory int

	// DateLayouts are tried after ISO dates and Excel serials.
	DateLayouts []string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{Sentinel: DefaultSentinel}
}

// Normalize turns an accepted data table into a ledger.
//
// NORMALIZATION STEPS (per row):
//  1. Parse the date; any failure rejects the batch with DateParseError.
//  2. Derive year, quarter, month and the YYYY-MM period.
//  3. Parse the amount; blank is zero, anything else unreadable rejects
//     the batch with AmountParseError.
//  4. Trim the category code and left-join it to the taxonomy. Blank codes
//     and hierarchy levels that are blank or unmatched become the sentinel.
//  5. Read the main category; missing or non-integer values become the
//     unclassified ordinal.
//  6. Keep optional text fields (empty when absent) and attribute columns.
//
// The table's header must already have passed the schema check.
func Normalize(kind types.LedgerKind, records *types.Table, columns types.Columns, taxonomy *Taxonomy, opts Options) (*Ledger, error) {
	sentinel := opts.Sentinel
	if strings.TrimSpace(sentinel) == "" {
		sentinel = DefaultSentinel
	}

	dateIdx := columns.IndexOf(types.RoleDate)
	amountIdx := columns.IndexOf(types.RoleAmount)
	codeIdx := columns.IndexOf(types.RoleCategoryCode)
	partnerIdx := columns.IndexOf(types.RolePartner)
	docIdx := columns.IndexOf(types.RoleDocument)
	noteIdx := columns.IndexOf(types.RoleNote)
	sourceIdx := columns.IndexOf(types.RoleSource)
	mainIdx := columns.IndexOf(types.RoleMainCategory)
	attrIdx := columns.All(types.RoleAttribute)

	if dateIdx < 0 || amountIdx < 0 || codeIdx < 0 {
		return nil, fmt.Errorf("schema for %s needs date, amount and category code columns", kind)
	}

	out := &Ledger{kind: kind, records: make([]Record, 0, records.Len())}

	for i, row := range records.Rows {
		line := records.Line(i)

		rawDate := cell(row, dateIdx)
		date, err := validation.ParseDate(rawDate, opts.DateLayouts)
		if err != nil {
			return nil, &DateParseError{Row: line, Column: columns[dateIdx].Name, Value: rawDate}
		}

		net := decimal.Zero
		if rawAmount := strings.TrimSpace(cell(row, amountIdx)); rawAmount != "" {
			net, err = validation.ParseDecimal(rawAmount)
			if err != nil {
				return nil, &AmountParseError{Row: line, Column: columns[amountIdx].Name, Value: rawAmount}
			}
		}

		rec := Record{
			Row:      line,
			Date:     date,
			Year:     date.Year(),
			Quarter:  (int(date.Month())-1)/3 + 1,
			Month:    int(date.Month()),
			Period:   fmt.Sprintf("%04d-%02d", date.Year(), int(date.Month())),
			Partner:  strings.TrimSpace(cell(row, partnerIdx)),
			Document: strings.TrimSpace(cell(row, docIdx)),
			Note:     strings.TrimSpace(cell(row, noteIdx)),
			Source:   strings.TrimSpace(cell(row, sourceIdx)),
			Net:      net,

			MainCategory: opts.UnclassifiedMainCategory,
		}

		code := strings.TrimSpace(cell(row, codeIdx))
		node, found := taxonomy.Lookup(code)
		if code == "" {
			code = sentinel
		}
		rec.CategoryCode = code
		rec.Category = orSentinel(node.Category, sentinel)
		rec.Subcategory = orSentinel(node.Subcategory, sentinel)
		rec.Item = orSentinel(node.Item, sentinel)
		if found {
			rec.LegacyCode = node.LegacyCode
			rec.Description = node.Description
		}

		if mainIdx >= 0 {
			if n, err := validation.ParseInteger(cell(row, mainIdx)); err == nil {
				rec.MainCategory = n
			}
		}

		if len(attrIdx) > 0 {
			rec.attrs = make(map[string]string, len(attrIdx))
			for _, a := range attrIdx {
				rec.attrs[columns[a].Name] = cell(row, a)
			}
		}

		out.records = append(out.records, rec)
	}

	return out, nil
}

func orSentinel(v, sentinel string) string {
	if strings.TrimSpace(v) == "" {
		return sentinel
	}
	return v
}
