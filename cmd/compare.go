// =============================================================================
// Ledger Analyzer - Compare Command
// =============================================================================
//
// COMMAND USAGE:
//   ledger compare --year-a 2023 --year-b 2024 [--by category] [filters]
//   ledger compare --series [--years 2023,2024] [--groups A,B] [--granularity month]
//
// The first form prints, for both ledgers, the sums of every group in the two
// years and the percent change from year A to year B. Groups missing from
// one of the years are marked instead of showing -100% or an infinite change.
//
// The second form prints one time series per (ledger, year, group).
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ledger-analyzer/internal/aggregate"
	"github.com/ginjaninja78/ledger-analyzer/internal/compare"
	"github.com/ginjaninja78/ledger-analyzer/internal/filter"
	"github.com/ginjaninja78/ledger-analyzer/internal/ledger"
	"github.com/ginjaninja78/ledger-analyzer/internal/report"
	"github.com/ginjaninja78/ledger-analyzer/internal/session"
	"github.com/ginjaninja78/ledger-analyzer/internal/types"
)

var (
	compareYearA       int
	compareYearB       int
	compareBy          string
	compareSeries      bool
	compareYears       []string
	compareGroups      []string
	compareGranularity string
	compareXLSX        bool
	compareFilter      *filterFlags
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two years, or build multi-year series",
	Example: `  ledger compare --year-a 2023 --year-b 2024 --by category
  ledger compare --series --years 2023,2024 --groups Bér,Iroda --granularity quarter`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().IntVar(&compareYearA, "year-a", 0, "Base year")
	compareCmd.Flags().IntVar(&compareYearB, "year-b", 0, "Compared year")
	compareCmd.Flags().StringVar(&compareBy, "by", "category", "Grouping level")
	compareCmd.Flags().BoolVar(&compareSeries, "series", false, "Print one time series per ledger, year and group")
	compareCmd.Flags().StringSliceVar(&compareYears, "years", nil, "Years of the series (default all)")
	compareCmd.Flags().StringSliceVar(&compareGroups, "groups", nil, "Groups of the series (default all)")
	compareCmd.Flags().StringVar(&compareGranularity, "granularity", "month", "Series granularity: month or quarter")
	compareCmd.Flags().BoolVar(&compareXLSX, "xlsx", false, "Also write the tables to an XLSX workbook")

	compareFilter = addFilterFlags(compareCmd, "year")
}

func runCompare(cmd *cobra.Command) error {
	level, err := types.ParseField(compareBy)
	if err != nil {
		return err
	}
	if !compareSeries && (compareYearA == 0 || compareYearB == 0) {
		return errors.New("--year-a and --year-b are required unless --series is set")
	}

	s, err := loadWorkspace(cmd.Context(), mainConfig, types.Kinds()...)
	if err != nil {
		return err
	}
	income, expense, err := filteredLedgers(s, compareFilter.spec())
	if err != nil {
		return err
	}

	f := newFormatter()
	var sheets []report.Sheet

	if compareSeries {
		g, err := aggregate.ParseGranularity(compareGranularity)
		if err != nil {
			return err
		}
		years, err := parseYears(compareYears)
		if err != nil {
			return err
		}
		set, err := compare.BuildSeries(compare.SeriesRequest{
			Income:  income,
			Expense: expense,
			Years:   years,
			Groups:  compareGroups,
		}, level, g)
		if err != nil {
			return err
		}
		sheets = append(sheets, report.SeriesSet(fmt.Sprintf("series by %s per %s", level, g), set, f))
	} else {
		labelA, labelB := strconv.Itoa(compareYearA), strconv.Itoa(compareYearB)
		for _, l := range []*ledger.Ledger{income, expense} {
			if l == nil {
				continue
			}
			tbl, err := compare.Years(l, compareYearA, compareYearB, level)
			if err != nil {
				return err
			}
			title := fmt.Sprintf("%s by %s, %s vs %s", l.Kind(), level, labelA, labelB)
			sheets = append(sheets, report.Comparison(title, tbl, labelA, labelB, f))
		}
	}

	if err := report.NewText(cmd.OutOrStdout()).Write(sheets...); err != nil {
		return err
	}
	if compareXLSX {
		return exportXLSX(cmd, "compare", sheets)
	}
	return nil
}

// filteredLedgers applies spec to every published ledger. At least one
// ledger must be available.
func filteredLedgers(s *session.Session, spec filter.Spec) (income, expense *ledger.Ledger, err error) {
	if s.Income() == nil && s.Expense() == nil {
		return nil, nil, fmt.Errorf("no ledger loaded: configure the data and category inputs in %s", cfgFile)
	}
	if s.Income() != nil {
		if income, err = applyScoped(s.Income(), spec); err != nil {
			return nil, nil, err
		}
	}
	if s.Expense() != nil {
		if expense, err = applyScoped(s.Expense(), spec); err != nil {
			return nil, nil, err
		}
	}
	return income, expense, nil
}

// applyScoped applies the constraints of spec that name one of the
// ledger's own filter fields. A spec whose constraints all name fields the
// ledger does not carry leaves it untouched.
func applyScoped(l *ledger.Ledger, spec filter.Spec) (*ledger.Ledger, error) {
	scoped := spec.Only(types.FilterFields(l.Kind()))
	if spec.Constrained() && !scoped.Constrained() {
		return l, nil
	}
	return filter.Apply(l, scoped)
}
