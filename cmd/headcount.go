// =============================================================================
// Ledger Analyzer - Headcount Command
// =============================================================================
//
// COMMAND USAGE:
//   ledger headcount [--group osszes] [--granularity month|quarter] [--year ...]
//
// Prints income and expense per head of one staff group for every month or
// quarter. Quarterly headcount is the mean of the monthly counts. Periods
// without a count are marked rather than divided by zero.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ledger-analyzer/internal/aggregate"
	"github.com/ginjaninja78/ledger-analyzer/internal/compare"
	"github.com/ginjaninja78/ledger-analyzer/internal/filter"
	"github.com/ginjaninja78/ledger-analyzer/internal/report"
	"github.com/ginjaninja78/ledger-analyzer/internal/types"
)

var (
	headcountGroup       string
	headcountGranularity string
	headcountYears       []string
	headcountXLSX        bool
)

var headcountCmd = &cobra.Command{
	Use:   "headcount",
	Short: "Show income and expense per head",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHeadcount(cmd)
	},
}

func init() {
	rootCmd.AddCommand(headcountCmd)

	headcountCmd.Flags().StringVar(&headcountGroup, "group", "osszes", "Headcount column to divide by")
	headcountCmd.Flags().StringVar(&headcountGranularity, "granularity", "month", "month or quarter")
	headcountCmd.Flags().StringSliceVar(&headcountYears, "year", nil, "Keep these years")
	headcountCmd.Flags().BoolVar(&headcountXLSX, "xlsx", false, "Also write the table to an XLSX workbook")
}

func runHeadcount(cmd *cobra.Command) error {
	g, err := aggregate.ParseGranularity(headcountGranularity)
	if err != nil {
		return err
	}

	s, err := loadWorkspace(cmd.Context(), mainConfig, types.Kinds()...)
	if err != nil {
		return err
	}
	if s.Headcount() == nil {
		return fmt.Errorf("no headcount table: set inputs.%s in %s", types.KindHeadcount, cfgFile)
	}

	income, expense, err := filteredLedgers(s, filter.Spec{}.With(types.FieldYear, headcountYears...))
	if err != nil {
		return err
	}

	ratios, err := compare.WithHeadcount(income, expense, s.Headcount(), headcountGroup, g)
	if err != nil {
		return err
	}

	f := newFormatter()
	sheets := []report.Sheet{
		report.Ratios(fmt.Sprintf("per head of %s, per %s", headcountGroup, g), headcountGroup, ratios, f),
	}
	if err := report.NewText(cmd.OutOrStdout()).Write(sheets...); err != nil {
		return err
	}
	if headcountXLSX {
		return exportXLSX(cmd, "headcount", sheets)
	}
	return nil
}
