// =============================================================================
// Ledger Analyzer - Aggregation Engine
// =============================================================================
//
// This module sums the net amount of a (usually filtered) ledger:
//
//   By        - one group per distinct key combination, largest first
//   Top       - the first N groups of a result
//   Rollup    - a category tree, displayed at most three levels deep
//   OverTime  - a monthly or quarterly series
//
// All arithmetic is decimal. Percentages are shares of the total of the
// ledger handed in, so they describe the filtered view rather than the
// whole upload. Display strings are produced separately by a Formatter and
// never feed back into the numbers.
//
// =============================================================================

package aggregate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/ledger-analyzer/internal/ledger"
	"github.com/ginjaninja78/ledger-analyzer/internal/types"
)

// DefaultPrecision is the number of decimals percentages are rounded to.
const DefaultPrecision int32 = 2

var hundred = decimal.NewFromInt(100)

// Engine holds the aggregation settings.
type Engine struct {
	// Precision is the number of decimals percentages are rounded to.
	Precision int32
}

// Default is the engine behind the package-level functions.
var Default = Engine{Precision: DefaultPrecision}

// =============================================================================
// GROUPED SUMS
// =============================================================================

// Group is one key combination with its summed measure.
type Group struct {
	// Keys holds one value per grouping level, in level order.
	Keys []string

	Sum   decimal.Decimal
	Count int

	// Percent is the group's share of the result total. It is invalid
	// (undefined) when the total is zero.
	Percent decimal.NullDecimal
}

// Label joins the keys for display.
func (g Group) Label() string {
	return strings.Join(g.Keys, " / ")
}

// Result is the outcome of By.
type Result struct {
	Levels []types.Field
	Groups []Group
	Total  decimal.Decimal
	// Rows is the number of ledger records aggregated.
	Rows int
}

// Empty reports whether there is nothing to show. Empty results carry no
// groups and a zero total.
func (r *Result) Empty() bool {
	return r == nil || len(r.Groups) == 0
}

// Top returns a copy of the result keeping the first n groups. Percentages
// stay relative to the full total. n <= 0 keeps every group.
func (r *Result) Top(n int) *Result {
	out := &Result{
		Levels: append([]types.Field(nil), r.Levels...),
		Total:  r.Total,
		Rows:   r.Rows,
	}
	groups := r.Groups
	if n > 0 && n < len(groups) {
		groups = groups[:n]
	}
	out.Groups = append([]Group(nil), groups...)
	return out
}

// Lookup returns the group with the given keys.
func (r *Result) Lookup(keys ...string) (Group, bool) {
	for _, g := range r.Groups {
		if equalKeys(g.Keys, keys) {
			return g, true
		}
	}
	return Group{}, false
}

// By groups the ledger on one or more fields.
func By(l *ledger.Ledger, levels ...types.Field) (*Result, error) {
	return Default.By(l, levels...)
}

// By sums the net amount per distinct combination of levels.
//
// Groups are ordered by descending sum; equal sums keep the order in which
// their key first appears in the ledger.
func (e Engine) By(l *ledger.Ledger, levels ...types.Field) (*Result, error) {
	if err := checkLevels(levels); err != nil {
		return nil, err
	}

	res := &Result{Levels: append([]types.Field(nil), levels...), Total: decimal.Zero}
	if l.Empty() {
		return res, nil
	}

	index := make(map[string]int)
	l.Each(func(r ledger.Record) {
		keys := make([]string, len(levels))
		for i, f := range levels {
			keys[i] = r.Value(f)
		}
		k := strings.Join(keys, "\x00")

		i, ok := index[k]
		if !ok {
			i = len(res.Groups)
			index[k] = i
			res.Groups = append(res.Groups, Group{Keys: keys, Sum: decimal.Zero})
		}
		res.Groups[i].Sum = res.Groups[i].Sum.Add(r.Net)
		res.Groups[i].Count++
		res.Total = res.Total.Add(r.Net)
		res.Rows++
	})

	sort.SliceStable(res.Groups, func(i, j int) bool {
		return res.Groups[i].Sum.GreaterThan(res.Groups[j].Sum)
	})

	for i := range res.Groups {
		res.Groups[i].Percent = e.percent(res.Groups[i].Sum, res.Total)
	}

	return res, nil
}

// percent returns part/total*100 rounded, or an invalid value for a zero
// total.
func (e Engine) percent(part, total decimal.Decimal) decimal.NullDecimal {
	if total.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(part.Div(total).Mul(hundred).Round(e.Precision))
}

func checkLevels(levels []types.Field) error {
	if len(levels) == 0 {
		return errors.New("at least one grouping level is required")
	}
	known := make(map[types.Field]bool)
	for _, f := range types.Fields() {
		known[f] = true
	}
	for _, f := range levels {
		if !known[f] {
			return fmt.Errorf("unknown grouping level %q", f)
		}
	}
	return nil
}

func equalKeys(a, b []string) bool {
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
