package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ledger-analyzer/internal/aggregate"
	"github.com/ginjaninja78/ledger-analyzer/internal/filter"
	"github.com/ginjaninja78/ledger-analyzer/internal/types"
)

// filterFlags are the filter options shared by analyze and compare.
type filterFlags struct {
	values  map[types.Field]*[]string
	exclude bool
}

// filterFlagNames maps each flag onto the field it constrains.
var filterFlagNames = []struct {
	flag  string
	field types.Field
	usage string
}{
	{"year", types.FieldYear, "Keep these years"},
	{"quarter", types.FieldQuarter, "Keep these quarters (1-4)"},
	{"month", types.FieldMonth, "Keep these months (1-12)"},
	{"code", types.FieldCategoryCode, "Keep these category codes"},
	{"category", types.FieldCategory, "Keep these categories"},
	{"subcategory", types.FieldSubcategory, "Keep these subcategories"},
	{"item", types.FieldItem, "Keep these items"},
	{"partner", types.FieldPartner, "Keep these partners"},
	{"main-category", types.FieldMainCategory, "Keep these main categories (expense only)"},
	{"source", types.FieldSource, "Keep these payment sources (expense only)"},
}

func addFilterFlags(cmd *cobra.Command, skip ...string) *filterFlags {
	ff := &filterFlags{values: make(map[types.Field]*[]string)}
	for _, f := range filterFlagNames {
		if contains(skip, f.flag) {
			continue
		}
		v := new([]string)
		cmd.Flags().StringSliceVar(v, f.flag, nil, f.usage)
		ff.values[f.field] = v
	}
	cmd.Flags().BoolVar(&ff.exclude, "exclude", false,
		"Invert the filter: keep rows where at least one constrained field differs")
	return ff
}

// spec builds the filter spec in flag order.
func (ff *filterFlags) spec() filter.Spec {
	var s filter.Spec
	for _, f := range filterFlagNames {
		v, ok := ff.values[f.field]
		if !ok || len(*v) == 0 {
			continue
		}
		s = s.With(f.field, *v...)
	}
	if ff.exclude {
		s = s.Excluding()
	}
	return s
}

func parseFields(names []string) ([]types.Field, error) {
	var out []types.Field
	for _, n := range names {
		f, err := types.ParseField(n)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func parseLedgerKind(s string) (types.LedgerKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "bevetel":
		return types.Income, nil
	case "expense", "kiadas":
		return types.Expense, nil
	}
	return "", fmt.Errorf("unknown ledger %q (want income or expense)", s)
}

func parseYears(values []string) ([]int, error) {
	var out []int
	for _, v := range values {
		y, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", v)
		}
		out = append(out, y)
	}
	return out, nil
}

// newFormatter builds the display formatter from the loaded configuration.
func newFormatter() *aggregate.Formatter {
	return aggregate.NewFormatter(mainConfig.CurrencySuffix, mainConfig.HeadcountSuffix).
		WithPrecision(mainConfig.PercentPrecision)
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
