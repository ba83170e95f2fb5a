// =============================================================================
// Ledger Analyzer - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   ledger validate --kind expense_data --file kiadas.xlsx
//   ledger validate                       # every configured input
//
// Checks uploads against their templates without building any ledger:
//   1. The header row must equal the template's column list
//   2. Every cell must parse as its column's type
//
// Cells that the normalizer would reject (dates, amounts) are errors; other
// type mismatches are warnings.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ledger-analyzer/internal/types"
	"github.com/ginjaninja78/ledger-analyzer/internal/validation"
)

var (
	validateKind string
	validateFile string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check uploads against their templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateKind, "kind", "", "Table kind: "+kindList())
	validateCmd.Flags().StringVar(&validateFile, "file", "", "File to check (default: the configured input of --kind)")
}

func kindList() string {
	var s string
	for i, k := range types.Kinds() {
		if i > 0 {
			s += ", "
		}
		s += string(k)
	}
	return s
}

func runValidate(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	var targets []types.Kind
	if validateKind != "" {
		k, err := types.ParseKind(validateKind)
		if err != nil {
			return err
		}
		targets = []types.Kind{k}
	} else {
		if validateFile != "" {
			return errors.New("--file needs --kind")
		}
		for _, k := range types.Kinds() {
			if mainConfig.Inputs.Path(k) != "" {
				targets = append(targets, k)
			}
		}
		if len(targets) == 0 {
			return fmt.Errorf("no inputs configured in %s", cfgFile)
		}
	}

	failed := 0
	for _, k := range targets {
		path := validateFile
		if path == "" {
			path = mainConfig.Inputs.Path(k)
		}
		if path == "" {
			return fmt.Errorf("no file given and inputs.%s is not configured", k)
		}
		if !validateOne(out, k, path) {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed validation", failed, len(targets))
	}
	return nil
}

// validateOne checks one file and prints the outcome.
func validateOne(out io.Writer, kind types.Kind, path string) bool {
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()

	t, err := parseInput(path, mainConfig.CSV)
	if err != nil {
		fmt.Fprintf(out, "  %s %s: %v\n", bad("✗"), path, err)
		return false
	}

	v := validation.NewValidator(kind, mainConfig.Schema(kind), mainConfig.DateFormats)
	if err := v.CheckHeader(t); err != nil {
		fmt.Fprintf(out, "  %s %s (%s): %v\n", bad("✗"), path, kind, err)
		var mismatch *validation.SchemaMismatchError
		if errors.As(err, &mismatch) {
			printSuggestions(out, mismatch)
		}
		return false
	}

	res := v.ValidateCells(t)
	switch {
	case !res.IsValid:
		fmt.Fprintf(out, "  %s %s (%s): %d error(s), %d warning(s) in %d rows\n",
			bad("✗"), path, kind, res.ErrorCount, res.WarningCount, res.RowsValidated)
	case res.WarningCount > 0:
		fmt.Fprintf(out, "  %s %s (%s): %d rows, %d warning(s)\n",
			warn("!"), path, kind, res.RowsValidated, res.WarningCount)
	default:
		fmt.Fprintf(out, "  %s %s (%s): %d rows\n", ok("✓"), path, kind, res.RowsValidated)
	}
	if len(res.Errors) > 0 {
		fmt.Fprintln(out, validation.FormatErrors(res.Errors))
	}
	return res.IsValid
}

func printSuggestions(out io.Writer, e *validation.SchemaMismatchError) {
	got := make([]string, 0, len(e.Suggestions))
	for k := range e.Suggestions {
		got = append(got, k)
	}
	sort.Strings(got)
	for _, k := range got {
		fmt.Fprintf(out, "      did you mean %q instead of %q?\n", e.Suggestions[k], k)
	}
}
