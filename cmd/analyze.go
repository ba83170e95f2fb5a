// =============================================================================
// Ledger Analyzer - Analyze Command
// =============================================================================
//
// COMMAND USAGE:
//   ledger analyze [flags]
//
// FLAGS:
//   --ledger       : income or expense (default income)
//   --year ...     : Filter flags, one per ledger dimension; repeat or
//                    comma-separate values
//   --exclude      : Invert the filter
//   --by           : Grouping levels (default category)
//   --top          : Keep the N largest groups (default top_n from config,
//                    0 keeps all)
//   --over-time    : Add a month or quarter series
//   --rollup       : Add a rollup tree along these levels (at most three)
//   --options      : Print the cascading filter options
//   --xlsx         : Also write every table into a workbook in output_dir
//
// PIPELINE:
//   1. Load the ledger's category and data tables and merge them
//   2. Apply the filter
//   3. Aggregate
//   4. Render
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ledger-analyzer/internal/aggregate"
	"github.com/ginjaninja78/ledger-analyzer/internal/filter"
	"github.com/ginjaninja78/ledger-analyzer/internal/logger"
	"github.com/ginjaninja78/ledger-analyzer/internal/report"
	"github.com/ginjaninja78/ledger-analyzer/pkg/utils"
)

var (
	analyzeLedger   string
	analyzeBy       []string
	analyzeTop      int
	analyzeOverTime string
	analyzeRollup   []string
	analyzeOptions  bool
	analyzeXLSX     bool
	analyzeFilter   *filterFlags
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Filter a ledger and show grouped sums",
	Long: `The analyze command loads one ledger, applies the filter flags and prints
the grouped sums largest first, each with its share of the filtered total.

Filters are inclusive by default: a row is kept when every constrained field
holds one of the given values. With --exclude a row is kept when at least
one constrained field holds a value outside its list. --exclude without any
filter flag keeps nothing.`,
	Example: `  ledger analyze --ledger expense --year 2024 --by category --top 5
  ledger analyze --category Iroda --by subcategory,item --over-time month
  ledger analyze --ledger expense --rollup partner,category,subcategory --xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeLedger, "ledger", "income", "Ledger to analyze: income or expense")
	analyzeCmd.Flags().StringSliceVar(&analyzeBy, "by", []string{"category"}, "Grouping levels")
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 0, "Keep the N largest groups (default top_n from config, 0 keeps all)")
	analyzeCmd.Flags().StringVar(&analyzeOverTime, "over-time", "", "Add a time series: month or quarter")
	analyzeCmd.Flags().StringSliceVar(&analyzeRollup, "rollup", nil, "Add a rollup tree along these levels")
	analyzeCmd.Flags().BoolVar(&analyzeOptions, "options", false, "Print the cascading filter options")
	analyzeCmd.Flags().BoolVar(&analyzeXLSX, "xlsx", false, "Also write the tables to an XLSX workbook")

	analyzeFilter = addFilterFlags(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command) error {
	lk, err := parseLedgerKind(analyzeLedger)
	if err != nil {
		return err
	}
	levels, err := parseFields(analyzeBy)
	if err != nil {
		return err
	}
	rollup, err := parseFields(analyzeRollup)
	if err != nil {
		return err
	}
	top := analyzeTop
	if !cmd.Flags().Changed("top") {
		top = mainConfig.TopN
	}

	// =========================================================================
	// STEP 1: LOAD
	// =========================================================================

	s, err := loadWorkspace(cmd.Context(), mainConfig, ledgerKinds(lk)...)
	if err != nil {
		return err
	}
	l, err := requireLedger(s, lk)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: FILTER
	// =========================================================================

	spec := analyzeFilter.spec()
	filtered, err := filter.Apply(l, spec)
	if err != nil {
		return err
	}
	lg := logger.WithFields(logger.FromContext(cmd.Context()), map[string]interface{}{
		"command": "analyze",
		"ledger":  string(lk),
	})
	lg.Info().
		Int("rows", l.Len()).
		Int("kept", filtered.Len()).
		Bool("exclusive", spec.Exclusive).
		Msg("filter applied")

	// =========================================================================
	// STEP 3: AGGREGATE
	// =========================================================================

	engine := aggregate.Engine{Precision: mainConfig.PercentPrecision}
	f := newFormatter()

	var sheets []report.Sheet

	if analyzeOptions {
		opts, err := filter.Cascade(l, spec)
		if err != nil {
			return err
		}
		sheets = append(sheets, report.Options(fmt.Sprintf("%s filter options", lk), opts))
	}

	res, err := engine.By(filtered, levels...)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("%s by %s", lk, joinFields(analyzeBy))
	if top > 0 && len(res.Groups) > top {
		title = fmt.Sprintf("%s (top %d of %d)", title, top, len(res.Groups))
	}
	sheets = append(sheets, report.Groups(title, res.Top(top), f))

	if analyzeOverTime != "" {
		g, err := aggregate.ParseGranularity(analyzeOverTime)
		if err != nil {
			return err
		}
		series, err := aggregate.OverTime(filtered, g)
		if err != nil {
			return err
		}
		sheets = append(sheets, report.Series(fmt.Sprintf("%s per %s", lk, g), series, f))
	}

	if len(rollup) > 0 {
		if len(rollup) > aggregate.MaxRollupDepth {
			lg.Warn().
				Int("levels", len(rollup)).
				Int("shown", aggregate.MaxRollupDepth).
				Msg("rollup has more levels than the tree view shows")
		}
		root, err := engine.Rollup(filtered, rollup...)
		if err != nil {
			return err
		}
		sheets = append(sheets, report.Rollup(fmt.Sprintf("%s rollup", lk), root, f))
	}

	// =========================================================================
	// STEP 4: RENDER
	// =========================================================================

	if err := report.NewText(cmd.OutOrStdout()).Write(sheets...); err != nil {
		return err
	}
	if analyzeXLSX {
		return exportXLSX(cmd, string(lk), sheets)
	}
	return nil
}

// exportXLSX writes sheets to a new workbook in the output directory.
func exportXLSX(cmd *cobra.Command, name string, sheets []report.Sheet) error {
	if err := utils.EnsureDir(mainConfig.OutputDir); err != nil {
		return err
	}
	path := filepath.Join(mainConfig.OutputDir,
		utils.GenerateOutputFileName("{report}_{timestamp}", map[string]string{"report": name}, ".xlsx"))
	if err := report.NewXLSX().Save(path, sheets...); err != nil {
		return err
	}
	lg := logger.FromContext(cmd.Context())
	lg.Info().Str("path", path).Int("sheets", len(sheets)).Msg("workbook written")
	fmt.Fprintf(cmd.OutOrStdout(), "\nWrote %s\n", path)
	return nil
}

func joinFields(names []string) string {
	return strings.Join(names, ", ")
}
