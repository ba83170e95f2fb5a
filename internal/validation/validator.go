// =============================================================================
// Ledger Analyzer - Schema Validator
// =============================================================================
//
// This module decides whether an uploaded table may replace the accepted
// table of its kind. Two levels of checking are provided:
//
//   1. Header check (fatal): the header list must equal the expected column
//      list exactly, in order. Extra, missing or reordered columns reject
//      the whole upload with a SchemaMismatchError.
//   2. Cell check (advisory): every cell is parsed against its column type
//      and problems are collected as ValidationErrors. The ledger
//      normalizer makes the final call on date and amount cells; the cell
//      report is what the validate command shows to the user.
//
// The typed parsing helpers (ParseDate, ParseDecimal, ParseInteger) live in
// parse.go and are shared with the normalizer and the headcount decoder.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/ginjaninja78/ledger-analyzer/internal/types"
)

// =============================================================================
// SCHEMA MISMATCH
// =============================================================================

// SchemaMismatchError reports why a header row was rejected.
type SchemaMismatchError struct {
	// Kind is the table kind the upload was declared as.
	Kind types.Kind

	// Expected and Got are the full header lists.
	Expected []string
	Got      []string

	// Missing lists expected columns absent from the upload.
	Missing []string

	// Unexpected lists uploaded columns the schema does not know.
	Unexpected []string

	// Position is the first index where the lists differ, or -1 when they
	// differ only in length. For a pure reordering this is the first
	// out-of-order column.
	Position int

	// Suggestions maps an unexpected column to the missing column it most
	// likely misspells.
	Suggestions map[string]string
}

// Error implements the error interface.
func (e *SchemaMismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing columns %s", quoteList(e.Missing)))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, fmt.Sprintf("unexpected columns %s", quoteList(e.Unexpected)))
	}
	if len(parts) == 0 && e.Position >= 0 {
		parts = append(parts, fmt.Sprintf("column %d is %q, expected %q",
			e.Position+1, e.Got[e.Position], e.Expected[e.Position]))
	}
	if len(parts) == 0 {
		parts = append(parts, "header differs from the expected columns")
	}
	return fmt.Sprintf("%s: %s", e.Kind, strings.Join(parts, "; "))
}

// Reordered reports whether the upload has exactly the expected columns,
// only in the wrong order.
func (e *SchemaMismatchError) Reordered() bool {
	return len(e.Missing) == 0 && len(e.Unexpected) == 0 && e.Position >= 0
}

// CheckHeader compares an uploaded header list against the expected one.
//
// RETURNS:
//   - nil if the lists are identical.
//   - A *SchemaMismatchError otherwise.
func CheckHeader(kind types.Kind, expected, got []string) error {
	if equalStrings(expected, got) {
		return nil
	}

	mismatch := &SchemaMismatchError{
		Kind:     kind,
		Expected: append([]string(nil), expected...),
		Got:      append([]string(nil), got...),
		Missing:  difference(expected, got),
		Position: -1,
	}
	mismatch.Unexpected = difference(got, expected)

	for i := 0; i < len(expected) && i < len(got); i++ {
		if expected[i] != got[i] {
			mismatch.Position = i
			break
		}
	}

	mismatch.Suggestions = suggest(mismatch.Unexpected, mismatch.Missing)

	return mismatch
}

// suggest pairs each unexpected column with the closest missing one when
// the two are a few edits apart ("kat kod" for "kat_kod").
func suggest(unexpected, missing []string) map[string]string {
	if len(unexpected) == 0 || len(missing) == 0 {
		return nil
	}

	out := make(map[string]string)
	for _, u := range unexpected {
		best, bestDist := "", 0
		for _, m := range missing {
			d := levenshtein.ComputeDistance(strings.ToLower(u), strings.ToLower(m))
			if best == "" || d < bestDist {
				best, bestDist = m, d
			}
		}
		if bestDist <= 3 && bestDist < len(best) {
			out[u] = best
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator checks tables of one kind against their schema.
type Validator struct {
	kind    types.Kind
	columns types.Columns
	layouts []string
}

// NewValidator creates a new Validator instance.
//
// PARAMETERS:
//   - kind: The table kind being validated.
//   - columns: The expected ordered columns.
//   - dateLayouts: Extra date layouts accepted by date columns.
func NewValidator(kind types.Kind, columns types.Columns, dateLayouts []string) *Validator {
	return &Validator{
		kind:    kind,
		columns: columns,
		layouts: dateLayouts,
	}
}

// Kind returns the table kind this validator checks.
func (v *Validator) Kind() types.Kind {
	return v.kind
}

// Columns returns the expected columns.
func (v *Validator) Columns() types.Columns {
	return v.columns
}

// CheckHeader rejects a table whose header row is not the expected one.
func (v *Validator) CheckHeader(t *types.Table) error {
	return CheckHeader(v.kind, v.columns.Names(), t.Columns)
}

// =============================================================================
// CELL VALIDATION
// =============================================================================

// ValidationError represents a single problem with one cell.
type ValidationError struct {
	// Severity is "error" for cells the normalizer will reject (date and
	// amount columns) and "warning" for everything else.
	Severity string

	// Column is the header of the offending cell.
	Column string

	// Value is the actual value that failed validation.
	Value string

	// Rule is the column type that was violated.
	Rule types.ColumnType

	// Message is a human-readable error message.
	Message string

	// RowNumber is the source row number.
	RowNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] row %d, column '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.RowNumber,
		e.Column,
		e.Message,
		e.Value,
	)
}

// ValidationResult contains the results of cell validation.
type ValidationResult struct {
	// IsValid is true if there are no errors of severity "error".
	IsValid bool

	// Errors contains all problems, warnings included, in row order.
	Errors []*ValidationError

	// ErrorCount is the number of fatal errors.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// RowsValidated is the number of data rows inspected.
	RowsValidated int
}

// ValidateCells parses every cell of a table against its column type.
// The header must already have passed CheckHeader.
func (v *Validator) ValidateCells(t *types.Table) *ValidationResult {
	result := &ValidationResult{IsValid: true, RowsValidated: t.Len()}

	for i, row := range t.Rows {
		for c, col := range v.columns {
			if c >= len(row) {
				break
			}
			value := row[c]
			if value == "" {
				continue
			}

			msg := v.checkValue(value, col.Type)
			if msg == "" {
				continue
			}

			severity := "warning"
			if col.Role == types.RoleDate || col.Role == types.RoleAmount {
				severity = "error"
			}

			result.Errors = append(result.Errors, &ValidationError{
				Severity:  severity,
				Column:    col.Name,
				Value:     value,
				Rule:      col.Type,
				Message:   msg,
				RowNumber: t.Line(i),
			})
			if severity == "error" {
				result.ErrorCount++
				result.IsValid = false
			} else {
				result.WarningCount++
			}
		}
	}

	return result
}

// checkValue returns an error message if value does not parse as typ.
func (v *Validator) checkValue(value string, typ types.ColumnType) string {
	switch typ {
	case types.TypeDate:
		if _, err := ParseDate(value, v.layouts); err != nil {
			return fmt.Sprintf("Value '%s' is not a valid date", value)
		}
	case types.TypeDecimal:
		if _, err := ParseDecimal(value); err != nil {
			return fmt.Sprintf("Value '%s' is not a valid decimal number", value)
		}
	case types.TypeInteger:
		if _, err := ParseInteger(value); err != nil {
			return fmt.Sprintf("Value '%s' is not a valid integer", value)
		}
	}
	return ""
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d problem(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}

// =============================================================================
// HELPERS
// =============================================================================

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// difference returns the items of a not present in b, in a's order.
func difference(a, b []string) []string {
	in := make(map[string]bool, len(b))
	for _, s := range b {
		in[s] = true
	}
	var out []string
	for _, s := range a {
		if !in[s] {
			out = append(out, s)
		}
	}
	return out
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
