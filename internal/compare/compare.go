// =============================================================================
// Ledger Analyzer - Comparison Engine
// =============================================================================
//
// This module compares aggregates across periods:
//
//   Periods        - per-group sums of two ledgers and the percent change
//   Years          - Periods over two years of the same ledger
//   WithHeadcount  - income and expense per head for each month or quarter
//   BuildSeries    - N years x M groups of both ledgers, keyed for lookup
//
// A group or period without a counterpart is never an error. It is reported
// through Status so the caller can show it instead of a misleading number.
//
// =============================================================================

package compare

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/ledger-analyzer/internal/aggregate"
	"github.com/ginjaninja78/ledger-analyzer/internal/ledger"
	"github.com/ginjaninja78/ledger-analyzer/internal/types"
)

// DeltaPrecision is the number of decimals a percent change is rounded to.
const DeltaPrecision int32 = 2

var hundred = decimal.NewFromInt(100)

// Status tells whether a comparison row holds a computed value.
type Status string

const (
	// Compared means both sides exist and the delta or ratio is set.
	Compared Status = "compared"
	// NoPriorValue means the A side is missing or zero.
	NoPriorValue Status = "no_prior_value"
	// NoCurrentValue means the B side is missing.
	NoCurrentValue Status = "no_current_value"
	// NoHeadcountData means the period has no usable headcount.
	NoHeadcountData Status = "no_headcount_data"
)

// =============================================================================
// PERIOD OVER PERIOD
// =============================================================================

// Comparison is one group of a period comparison.
type Comparison struct {
	Key  string
	A    decimal.Decimal
	B    decimal.Decimal
	HasA bool
	HasB bool
	// Delta is B/A*100-100 rounded to DeltaPrecision. It is only valid
	// when Status is Compared.
	Delta  decimal.NullDecimal
	Status Status
}

// Table is the result of Periods.
type Table struct {
	Key  types.Field
	Rows []Comparison
}

// Lookup returns the row of a group.
func (t *Table) Lookup(key string) (Comparison, bool) {
	for _, r := range t.Rows {
		if r.Key == key {
			return r, true
		}
	}
	return Comparison{}, false
}

// Periods groups both ledgers on key and compares the sums group by group.
// Rows cover the union of groups and are ordered by key value.
//
// PARAMETERS:
//   - a: The prior period (the base of the percent change)
//   - b: The current period
//   - key: The grouping field
func Periods(a, b *ledger.Ledger, key types.Field) (*Table, error) {
	resA, err := aggregate.By(a, key)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate prior period: %w", err)
	}
	resB, err := aggregate.By(b, key)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate current period: %w", err)
	}

	sumsA := sums(resA)
	sumsB := sums(resB)

	var keys []string
	seen := make(map[string]bool)
	for _, res := range []*aggregate.Result{resA, resB} {
		for _, g := range res.Groups {
			if !seen[g.Keys[0]] {
				seen[g.Keys[0]] = true
				keys = append(keys, g.Keys[0])
			}
		}
	}
	ledger.SortValues(key, keys)

	out := &Table{Key: key, Rows: make([]Comparison, 0, len(keys))}
	for _, k := range keys {
		va, hasA := sumsA[k]
		vb, hasB := sumsB[k]
		out.Rows = append(out.Rows, compareValues(k, va, hasA, vb, hasB))
	}
	return out, nil
}

// Years compares two calendar years of one ledger.
func Years(l *ledger.Ledger, yearA, yearB int, key types.Field) (*Table, error) {
	return Periods(inYear(l, yearA), inYear(l, yearB), key)
}

func compareValues(key string, a decimal.Decimal, hasA bool, b decimal.Decimal, hasB bool) Comparison {
	c := Comparison{Key: key, A: a, B: b, HasA: hasA, HasB: hasB}
	switch {
	case !hasB:
		c.Status = NoCurrentValue
	case !hasA || a.IsZero():
		c.Status = NoPriorValue
	default:
		c.Status = Compared
		c.Delta = decimal.NewNullDecimal(b.Div(a).Mul(hundred).Sub(hundred).Round(DeltaPrecision))
	}
	return c
}

func sums(r *aggregate.Result) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(r.Groups))
	for _, g := range r.Groups {
		out[g.Keys[0]] = g.Sum
	}
	return out
}

func inYear(l *ledger.Ledger, year int) *ledger.Ledger {
	return l.Select(func(r ledger.Record) bool { return r.Year == year })
}
